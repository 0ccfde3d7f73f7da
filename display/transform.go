// Package display maps a fixed logical resolution onto a physical output
// surface with a uniform scale, centring the result and letterboxing the rest.
package display

import (
	"image"
	"math"
)

// BarMargin pads letterbox bars so edge pixels lost to rounding are still covered.
const BarMargin = 3

// Transform from logical to physical pixel coordinates.
type Transform struct {
	SimW, SimH   int // logical resolution
	RealW, RealH int // physical resolution

	Scale            float64
	XOffset, YOffset float64

	RenderedW, RenderedH float64
}

// Identity is the windowed-mode transform: physical == logical.
func Identity(w, h int) Transform {
	return Transform{
		SimW: w, SimH: h,
		RealW: w, RealH: h,
		Scale:     1,
		RenderedW: float64(w), RenderedH: float64(h),
	}
}

// Fit scales simW×simH uniformly into realW×realH, never stretching,
// and centres it.
func Fit(simW, simH, realW, realH int) Transform {
	sx := float64(realW) / float64(simW)
	sy := float64(realH) / float64(simH)
	scale := min(sx, sy)

	t := Transform{
		SimW: simW, SimH: simH,
		RealW: realW, RealH: realH,
		Scale:     scale,
		RenderedW: float64(simW) * scale,
		RenderedH: float64(simH) * scale,
	}
	t.XOffset = (float64(realW) - t.RenderedW) / 2
	t.YOffset = (float64(realH) - t.RenderedH) / 2
	return t
}

// Point maps a logical coordinate.
func (t Transform) Point(x, y float64) (float64, float64) {
	return x*t.Scale + t.XOffset, y*t.Scale + t.YOffset
}

// Rect maps the logical rectangle (x, y, w, h) to physical pixels.
// Edges are rounded independently, so rectangles that tile the logical
// surface also tile the physical one.
func (t Transform) Rect(x, y, w, h int) image.Rectangle {
	x0, y0 := t.Point(float64(x), float64(y))
	x1, y1 := t.Point(float64(x+w), float64(y+h))
	return image.Rect(round(x0), round(y0), round(x1), round(y1))
}

// Viewport is the physical area the logical surface covers.
func (t Transform) Viewport() image.Rectangle {
	return t.Rect(0, 0, t.SimW, t.SimH)
}

// Bars returns the two letterbox strips, or nothing when the aspect ratios match.
// Sides are barred when the height limits the scale, top and bottom otherwise.
func (t Transform) Bars() []image.Rectangle {
	sx := float64(t.RealW) / float64(t.SimW)
	sy := float64(t.RealH) / float64(t.SimH)
	switch {
	case sx > sy:
		xo := round(t.XOffset)
		right := round(t.XOffset + t.RenderedW)
		return []image.Rectangle{
			image.Rect(0, 0, xo, t.RealH+BarMargin),
			image.Rect(right, 0, right+xo+BarMargin, t.RealH+BarMargin),
		}
	case sy > sx:
		yo := round(t.YOffset)
		bottom := round(t.YOffset + t.RenderedH)
		return []image.Rectangle{
			image.Rect(0, 0, t.RealW+BarMargin, yo),
			image.Rect(0, bottom, t.RealW+BarMargin, bottom+yo+BarMargin),
		}
	}
	return nil
}

func round(v float64) int { return int(math.Round(v)) }
