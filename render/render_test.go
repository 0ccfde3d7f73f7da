package render

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	mandel "github.com/marben/mandelzoom"
)

type paint struct {
	c    mandel.Color
	x, y int
}

type recordingSurface struct {
	paints   []paint
	presents int
}

func (s *recordingSurface) PaintRect(c mandel.Color, x, y, w, h int) {
	if w != 1 || h != 1 {
		panic("renderer painted a non-pixel rect")
	}
	s.paints = append(s.paints, paint{c, x, y})
}

func (s *recordingSurface) Present() error {
	s.presents++
	return nil
}

func serialBands(region mandel.Region, w, h, power, maxIter int) []mandel.Band {
	out := make([]mandel.Band, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			res := mandel.Evaluate(region.PixelToComplex(x, y, w, h), power, maxIter, mandel.EscapeRadius)
			out = append(out, mandel.BandFor(res.Iterations, maxIter))
		}
	}
	return out
}

func TestComputeMatchesSerial(t *testing.T) {
	region := mandel.DefaultRegion(150, 90)
	for _, workers := range []int{1, 3, 16} {
		r := &Renderer{Width: 150, Height: 90, Power: 3, Baseline: 100, Workers: workers, TileSize: 17}
		f, err := r.Compute(context.Background(), region)
		if err != nil {
			t.Fatal(err)
		}
		want := serialBands(region, 150, 90, 3, f.Cap)
		if d := cmp.Diff(want, f.Bands); d != "" {
			t.Errorf("workers %d: bands differ (-serial +parallel):\n%s", workers, d)
		}
	}
}

func TestComputeCap(t *testing.T) {
	r := &Renderer{Width: 100, Height: 100, Power: 3, Baseline: 100}
	f, err := r.Compute(context.Background(), mandel.Region{Xmin: 0, Xmax: 100, Ymin: 0, Ymax: 100})
	if err != nil {
		t.Fatal(err)
	}
	if f.Cap != 115 {
		t.Errorf("cap %d, want 115", f.Cap)
	}
}

func TestRenderRowMajor(t *testing.T) {
	r := &Renderer{Width: 40, Height: 30, Power: 3, Baseline: 100, TileSize: 8}
	var s recordingSurface
	f, err := r.Render(context.Background(), mandel.DefaultRegion(40, 30), &s)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.paints) == 0 {
		t.Fatal("nothing painted")
	}
	for i := 1; i < len(s.paints); i++ {
		a, b := s.paints[i-1], s.paints[i]
		if b.y < a.y || (b.y == a.y && b.x <= a.x) {
			t.Fatalf("paint %d at (%d,%d) follows (%d,%d)", i, b.x, b.y, a.x, a.y)
		}
	}
	for _, p := range s.paints {
		want, _ := f.at(p.x, p.y).Color()
		if p.c != want {
			t.Fatalf("(%d,%d) painted %v, want %v", p.x, p.y, p.c, want)
		}
	}
	if s.presents != 0 {
		t.Errorf("renderer presented %d times; presenting is the caller's job", s.presents)
	}
}

func TestComputeDegenerateRegion(t *testing.T) {
	r := &Renderer{Width: 10, Height: 10, Power: 3, Baseline: 100}
	_, err := r.Compute(context.Background(), mandel.Region{Xmin: 1, Xmax: 1, Ymin: 0, Ymax: 1})
	if !errors.Is(err, mandel.ErrDegenerateRegion) {
		t.Errorf("got %v, want ErrDegenerateRegion", err)
	}
}

func TestComputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Renderer{Width: 10, Height: 10, Power: 3, Baseline: 100}
	if _, err := r.Compute(ctx, mandel.DefaultRegion(10, 10)); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestOnTileRender(t *testing.T) {
	var n atomic.Int32
	r := &Renderer{Width: 100, Height: 50, Power: 2, Baseline: 100, TileSize: 32,
		OnTileRender: func(image.Rectangle) { n.Add(1) }}
	if _, err := r.Compute(context.Background(), mandel.DefaultRegion(100, 50)); err != nil {
		t.Fatal(err)
	}
	if got := n.Load(); got != 8 {
		t.Errorf("%d tiles rendered, want 8", got)
	}
}

func TestSplitRectNoClip(t *testing.T) {
	got := splitRectNoClip(image.Rect(0, 0, 5, 3), 2, 2)
	want := []image.Rectangle{
		image.Rect(0, 0, 2, 2), image.Rect(2, 0, 4, 2), image.Rect(4, 0, 5, 2),
		image.Rect(0, 2, 2, 3), image.Rect(2, 2, 4, 3), image.Rect(4, 2, 5, 3),
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("tiles (-want +got):\n%s", d)
	}
}
