// Package render paints escape-time frames onto a mandel.Surface.
package render

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandelzoom"
)

const defaultTileSize = 64

// Renderer evaluates every pixel of a Width×Height surface for a region.
type Renderer struct {
	Width, Height int
	Power         int
	Baseline      int // baseline iteration count fed to mandel.IterationsFor

	Radius   float64 // escape radius; mandel.EscapeRadius when zero
	Workers  int     // concurrent tiles; GOMAXPROCS when zero
	TileSize int     // tile edge in pixels; 64 when zero

	// OnTileRender, if set, is called before each tile is evaluated.
	// It may be called from several goroutines at once.
	OnTileRender func(tile image.Rectangle)
}

// Frame holds the band of every pixel, row-major.
type Frame struct {
	Width, Height int
	Cap           int // iteration cap used for the frame
	Bands         []mandel.Band
}

// at returns the band of pixel (x, y).
func (f *Frame) at(x, y int) mandel.Band {
	return f.Bands[y*f.Width+x]
}

// Emit paints every banded pixel onto s in row-major order.
// Unpainted pixels keep whatever s already shows.
func (f *Frame) Emit(s mandel.Surface) {
	for y := 0; y < f.Height; y++ {
		row := f.Bands[y*f.Width : (y+1)*f.Width]
		for x, b := range row {
			if c, ok := b.Color(); ok {
				s.PaintRect(c, x, y, 1, 1)
			}
		}
	}
}

// Compute evaluates region tile by tile on up to Workers goroutines and
// returns once every tile has finished.
func (r *Renderer) Compute(ctx context.Context, region mandel.Region) (*Frame, error) {
	if err := region.Validate(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if r.Width < 1 || r.Height < 1 {
		return nil, fmt.Errorf("render: invalid surface %dx%d", r.Width, r.Height)
	}

	f := &Frame{
		Width:  r.Width,
		Height: r.Height,
		Cap:    mandel.IterationsFor(r.Baseline, r.Width, region.Width()),
		Bands:  make([]mandel.Band, r.Width*r.Height),
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	tileSize := r.TileSize
	if tileSize <= 0 {
		tileSize = defaultTileSize
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, tile := range splitRectNoClip(image.Rect(0, 0, r.Width, r.Height), tileSize, tileSize) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if r.OnTileRender != nil {
				r.OnTileRender(tile)
			}
			r.renderTile(region, tile, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return f, nil
}

// Render computes region and paints the result onto s.
func (r *Renderer) Render(ctx context.Context, region mandel.Region, s mandel.Surface) (*Frame, error) {
	start := time.Now()
	f, err := r.Compute(ctx, region)
	if err != nil {
		return nil, err
	}
	f.Emit(s)
	slog.Info("frame rendered", "region", region, "iterations", f.Cap, "elapsed", time.Since(start))
	return f, nil
}

// renderTile writes the bands of the pixels inside tile. Tiles never
// overlap, so concurrent calls touch disjoint parts of f.Bands.
func (r *Renderer) renderTile(region mandel.Region, tile image.Rectangle, f *Frame) {
	radius := r.Radius
	if radius == 0 {
		radius = mandel.EscapeRadius
	}
	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		row := f.Bands[py*f.Width : (py+1)*f.Width]
		for px := tile.Min.X; px < tile.Max.X; px++ {
			c := region.PixelToComplex(px, py, f.Width, f.Height)
			res := mandel.Evaluate(c, r.Power, f.Cap, radius)
			row[px] = mandel.BandFor(res.Iterations, f.Cap)
		}
	}
}

// splitRectNoClip splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	var tiles []image.Rectangle
	for y := r.Min.Y; y < r.Max.Y; y += tileH {
		for x := r.Min.X; x < r.Max.X; x += tileW {
			tiles = append(tiles, image.Rect(x, y, min(x+tileW, r.Max.X), min(y+tileH, r.Max.Y)))
		}
	}
	return tiles
}
