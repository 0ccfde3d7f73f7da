package main

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/marben/mandelzoom/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Width: 40, Height: 30, Power: 3, Baseline: 100,
		Tick: time.Millisecond, Granularity: 8, Spacing: "x",
		ScreenshotDir: "Screenshots",
	}
}

func dial(t *testing.T, ctx context.Context, cfg *config.Config) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(newMux(cfg))
	t.Cleanup(srv.Close)

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.CloseNow() })
	return c
}

func readFrameSize(t *testing.T, ctx context.Context, c *websocket.Conn) (int, int) {
	t.Helper()
	typ, data, err := c.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if typ != websocket.MessageBinary {
		t.Fatalf("frame sent as %v", typ)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestSessionWindowed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := dial(t, ctx, testConfig())
	if err := wsjson.Write(ctx, c, message{Type: "hello", Width: 800, Height: 600}); err != nil {
		t.Fatal(err)
	}
	if w, h := readFrameSize(t, ctx, c); w != 40 || h != 30 {
		t.Errorf("frame %dx%d, want 40x30", w, h)
	}

	// one cursor step produces another frame
	if err := wsjson.Write(ctx, c, message{Type: "keys", Right: true}); err != nil {
		t.Fatal(err)
	}
	readFrameSize(t, ctx, c)

	if err := wsjson.Write(ctx, c, message{Type: "keys", Quit: true}); err != nil {
		t.Fatal(err)
	}
	for {
		_, _, err := c.Read(ctx)
		if err == nil {
			continue
		}
		if got := websocket.CloseStatus(err); got != websocket.StatusNormalClosure {
			t.Errorf("closed with %v (%v), want normal closure", got, err)
		}
		break
	}
}

func TestSessionFullscreenLetterboxed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := testConfig()
	cfg.Fullscreen = true
	c := dial(t, ctx, cfg)
	if err := wsjson.Write(ctx, c, message{Type: "hello", Width: 120, Height: 45}); err != nil {
		t.Fatal(err)
	}
	if w, h := readFrameSize(t, ctx, c); w != 120 || h != 45 {
		t.Errorf("frame %dx%d, want 120x45", w, h)
	}
}

func TestSessionRejectsBadHello(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := dial(t, ctx, testConfig())
	if err := wsjson.Write(ctx, c, message{Type: "hello"}); err != nil {
		t.Fatal(err)
	}
	_, _, err := c.Read(ctx)
	if got := websocket.CloseStatus(err); got != websocket.StatusPolicyViolation {
		t.Errorf("closed with %v (%v), want policy violation", got, err)
	}
}

func TestStaticPage(t *testing.T) {
	srv := httptest.NewServer(newMux(testConfig()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte(`new WebSocket(`)) {
		t.Errorf("status %d, body %.80q", resp.StatusCode, body)
	}
}
