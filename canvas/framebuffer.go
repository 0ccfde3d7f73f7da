// Package canvas provides an in-memory output surface for the explorer.
package canvas

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/bmp"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/display"
)

// Presenter receives the physical frame on every Present.
// The image is only valid for the duration of the call.
type Presenter interface {
	Present(frame *image.RGBA) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(frame *image.RGBA) error

func (f PresenterFunc) Present(frame *image.RGBA) error { return f(frame) }

// Framebuffer is a physical RGBA surface that accepts logical draw commands.
// It implements mandel.Surface and mandel.Capturer.
type Framebuffer struct {
	xf         display.Transform
	background mandel.Color
	presenter  Presenter

	mu  sync.Mutex
	img *image.RGBA
}

var (
	_ mandel.Surface  = (*Framebuffer)(nil)
	_ mandel.Capturer = (*Framebuffer)(nil)
)

// New creates a framebuffer of xf.RealW×xf.RealH. presenter may be nil.
func New(xf display.Transform, presenter Presenter) *Framebuffer {
	fb := &Framebuffer{
		xf:         xf,
		background: mandel.Black,
		presenter:  presenter,
		img:        image.NewRGBA(image.Rect(0, 0, xf.RealW, xf.RealH)),
	}
	fb.Clear()
	return fb
}

// Transform in use.
func (fb *Framebuffer) Transform() display.Transform { return fb.xf }

// Clear fills the whole physical surface, letterbox bars included, with the background.
func (fb *Framebuffer) Clear() {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	bg := image.NewUniform(fb.background)
	for _, bar := range append(fb.xf.Bars(), fb.xf.Viewport()) {
		draw.Draw(fb.img, bar.Intersect(fb.img.Bounds()), bg, image.Point{}, draw.Src)
	}
}

// PaintRect fills the logical rectangle (x, y, w, h) with c.
func (fb *Framebuffer) PaintRect(c mandel.Color, x, y, w, h int) {
	r := fb.xf.Rect(x, y, w, h).Intersect(fb.img.Bounds())
	if r.Empty() {
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	// 1x1 rects are the common case while rendering
	if r.Dx() == 1 && r.Dy() == 1 {
		i := fb.img.PixOffset(r.Min.X, r.Min.Y)
		fb.img.Pix[i+0] = c.R
		fb.img.Pix[i+1] = c.G
		fb.img.Pix[i+2] = c.B
		fb.img.Pix[i+3] = 0xff
		return
	}
	draw.Draw(fb.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// Present hands the current frame to the presenter, if any.
func (fb *Framebuffer) Present() error {
	if fb.presenter == nil {
		return nil
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	if err := fb.presenter.Present(fb.img); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// Image returns a copy of the logical viewport as currently displayed.
func (fb *Framebuffer) Image() *image.RGBA {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	vp := fb.xf.Viewport().Intersect(fb.img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, vp.Dx(), vp.Dy()))
	draw.Draw(out, out.Bounds(), fb.img, vp.Min, draw.Src)
	return out
}

// Capture writes the displayed viewport to path as a BMP file,
// creating the parent directory if needed.
func (fb *Framebuffer) Capture(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("capture: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	defer f.Close()

	if err := bmp.Encode(f, fb.Image()); err != nil {
		return fmt.Errorf("capture: encode %q: %w", path, err)
	}
	return f.Close()
}
