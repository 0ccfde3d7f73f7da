package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandelzoom"
)

const (
	writeWait   = 10 * time.Second
	helloWait   = 10 * time.Second
	maxMsgSize  = 4 * 1024
	maxViewport = 8192
)

// message is sent by the browser: a hello with its viewport, then key snapshots.
type message struct {
	Type string `json:"type"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Up      bool `json:"up,omitempty"`
	Down    bool `json:"down,omitempty"`
	Left    bool `json:"left,omitempty"`
	Right   bool `json:"right,omitempty"`
	Engage  bool `json:"engage,omitempty"`
	Confirm bool `json:"confirm,omitempty"`
	Undo    bool `json:"undo,omitempty"`
	Capture bool `json:"capture,omitempty"`
	Quit    bool `json:"quit,omitempty"`
}

type viewport struct {
	Width, Height int
}

// remote is one browser connection. It is the explorer's input source and
// presents frames to the browser as PNG images.
type remote struct {
	conn  *websocket.Conn
	hello chan viewport

	mu   sync.Mutex
	keys mandel.Input

	ctx context.Context
	buf bytes.Buffer
	enc png.Encoder
}

func newRemote(ctx context.Context, conn *websocket.Conn) *remote {
	conn.SetReadLimit(maxMsgSize)
	return &remote{
		conn:  conn,
		hello: make(chan viewport, 1),
		ctx:   ctx,
		enc:   png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

// Poll implements mandel.InputSource.
func (rm *remote) Poll() mandel.Input {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.keys
}

// Present implements canvas.Presenter.
func (rm *remote) Present(frame *image.RGBA) error {
	rm.buf.Reset()
	if err := rm.enc.Encode(&rm.buf, frame); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	ctx, cancel := context.WithTimeout(rm.ctx, writeWait)
	defer cancel()
	return rm.conn.Write(ctx, websocket.MessageBinary, rm.buf.Bytes())
}

// readPump consumes browser messages until the connection fails. A lost
// connection reads as a held quit key.
func (rm *remote) readPump(ctx context.Context) {
	defer func() {
		rm.mu.Lock()
		rm.keys = mandel.Input{Quit: true}
		rm.mu.Unlock()
	}()

	for {
		var msg message
		if err := wsjson.Read(ctx, rm.conn, &msg); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				slog.Debug("read error", "error", err)
			}
			return
		}

		switch msg.Type {
		case "hello":
			select {
			case rm.hello <- viewport{Width: msg.Width, Height: msg.Height}:
			default:
				slog.Warn("duplicate hello ignored")
			}
		case "keys":
			rm.mu.Lock()
			rm.keys = mandel.Input{
				Up: msg.Up, Down: msg.Down, Left: msg.Left, Right: msg.Right,
				Engage: msg.Engage, Confirm: msg.Confirm, Undo: msg.Undo,
				Capture: msg.Capture, Quit: msg.Quit,
			}
			rm.mu.Unlock()
		default:
			slog.Warn("unknown message", "type", msg.Type)
		}
	}
}

// waitHello returns the browser's viewport.
func (rm *remote) waitHello(ctx context.Context) (viewport, error) {
	ctx, cancel := context.WithTimeout(ctx, helloWait)
	defer cancel()

	select {
	case vp := <-rm.hello:
		if vp.Width < 1 || vp.Height < 1 || vp.Width > maxViewport || vp.Height > maxViewport {
			return viewport{}, fmt.Errorf("invalid viewport %dx%d", vp.Width, vp.Height)
		}
		return vp, nil
	case <-ctx.Done():
		return viewport{}, fmt.Errorf("waiting for hello: %w", context.Cause(ctx))
	}
}
