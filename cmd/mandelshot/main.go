// mandelshot renders one region without any interaction and saves it as a
// PNG or BMP file. Surface size, power and baseline come from the same
// MANDEL_* environment as the server; the region and output are flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/canvas"
	"github.com/marben/mandelzoom/display"
	"github.com/marben/mandelzoom/explore"
	"github.com/marben/mandelzoom/internal/config"
	"github.com/marben/mandelzoom/render"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	def := mandel.DefaultRegion(cfg.Width, cfg.Height)
	fs := flag.NewFlagSet("mandelshot", flag.ContinueOnError)
	xmin := fs.Float64("xmin", def.Xmin, "left edge of the region")
	xmax := fs.Float64("xmax", def.Xmax, "right edge of the region")
	ymin := fs.Float64("ymin", def.Ymin, "top edge of the region")
	ymax := fs.Float64("ymax", def.Ymax, "bottom edge of the region")
	out := fs.String("o", "", "output file (.png or .bmp); named after the region when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	region := mandel.Region{Xmin: *xmin, Xmax: *xmax, Ymin: *ymin, Ymax: *ymax}
	if *out == "" {
		*out = strings.TrimSuffix(explore.CaptureName("", cfg.Power, region), ".bmp") + ".png"
	}

	renderer := &render.Renderer{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Power:    cfg.Power,
		Baseline: cfg.Baseline,
		Workers:  cfg.Workers,
		OnTileRender: func(tile image.Rectangle) {
			slog.Debug("rendering tile", "tile", tile)
		},
	}
	fb := canvas.New(display.Identity(cfg.Width, cfg.Height), nil)
	if _, err := renderer.Render(context.Background(), region, fb); err != nil {
		return err
	}

	return save(*out, fb.Image())
}

func save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", path, err)
	}

	slog.Info("image saved", "path", path)
	return f.Close()
}
