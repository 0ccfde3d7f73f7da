package mandel

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateRegion is returned for regions with a non-positive or non-finite extent.
var ErrDegenerateRegion = errors.New("degenerate region")

// Region of the complex plane being viewed.
// X runs along the real axis, Y along the imaginary axis.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// DefaultRegion is the full plane window for a surface of w×h pixels:
// real part in [-2.5, 1], imaginary part centred on 0 with the same pixel pitch.
func DefaultRegion(w, h int) Region {
	const xmin, xmax = -2.5, 1.0
	half := (xmax - xmin) * float64(h) / float64(w) / 2
	return Region{Xmin: xmin, Xmax: xmax, Ymin: -half, Ymax: half}
}

func (r Region) Width() float64  { return r.Xmax - r.Xmin }
func (r Region) Height() float64 { return r.Ymax - r.Ymin }

// Validate reports ErrDegenerateRegion unless Xmax > Xmin and Ymax > Ymin
// with all bounds finite.
func (r Region) Validate() error {
	for _, v := range [...]float64{r.Xmin, r.Xmax, r.Ymin, r.Ymax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", ErrDegenerateRegion, r)
		}
	}
	if !(r.Xmax > r.Xmin) || !(r.Ymax > r.Ymin) {
		return fmt.Errorf("%w: %s", ErrDegenerateRegion, r)
	}
	return nil
}

func (r Region) String() string {
	return fmt.Sprintf("[%g, %g]x[%g, %g]", r.Xmin, r.Xmax, r.Ymin, r.Ymax)
}

// PixelToComplex maps pixel (px, py) of a w×h surface into r.
// Both axes scale independently; w and h must be at least 1.
func (r Region) PixelToComplex(px, py, w, h int) complex128 {
	x := r.Xmin + float64(px)/float64(w)*(r.Xmax-r.Xmin)
	y := r.Ymin + float64(py)/float64(h)*(r.Ymax-r.Ymin)
	return complex(x, y)
}
