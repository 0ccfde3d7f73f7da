package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/canvas"
	"github.com/marben/mandelzoom/display"
	"github.com/marben/mandelzoom/explore"
	"github.com/marben/mandelzoom/internal/config"
)

//go:embed static
var staticFiles embed.FS

// webServer creates the http server serving the page in ./static and the
// websocket endpoint every browser explores through.
func webServer(ctx context.Context, cfg *config.Config) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newMux(cfg),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	slog.Info("listening", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
	return srv
}

func newMux(cfg *config.Config) *http.ServeMux {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(cfg))
	mux.Handle("/", http.FileServer(http.FS(static)))
	return mux
}

// websocketHandler runs one exploration per connection, with its own history.
func websocketHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			slog.Warn("websocket accept", "error", err)
			return
		}
		defer c.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		rm := newRemote(ctx, c)
		go rm.readPump(ctx)

		log := slog.With("remote", r.RemoteAddr)
		vp, err := rm.waitHello(ctx)
		if err != nil {
			log.Warn("session not started", "error", err)
			c.Close(websocket.StatusPolicyViolation, "hello expected")
			return
		}

		xf := display.Identity(cfg.Width, cfg.Height)
		if cfg.Fullscreen {
			xf = display.Fit(cfg.Width, cfg.Height, vp.Width, vp.Height)
		}
		log.Info("session started", "viewport", fmt.Sprintf("%dx%d", vp.Width, vp.Height), "scale", xf.Scale)

		fb := canvas.New(xf, rm)
		e := explore.New(cfg.Options(), fb, rm)
		region, err := e.Run(ctx, mandel.DefaultRegion(cfg.Width, cfg.Height))
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("session failed", "region", region, "error", err)
			c.Close(websocket.StatusInternalError, "exploration failed")
			return
		}

		log.Info("session ended", "region", region)
		c.Close(websocket.StatusNormalClosure, "bye")
	}
}
