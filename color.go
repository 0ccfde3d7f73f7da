package mandel

import "image/color"

// Color is an opaque display color.
type Color struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

var (
	Black  = Color{0, 0, 0}
	White  = Color{255, 255, 255}
	Yellow = Color{255, 255, 0}
	Orange = Color{255, 200, 0}
	Red    = Color{255, 0, 0}
	Green  = Color{0, 255, 0}
	Grey   = Color{128, 128, 128}
)

// Band is a discrete shading class for an iteration count.
type Band uint8

const (
	BandNone     Band = iota // not painted, background shows through
	BandFast                 // escaped within the first fifth of the cap
	BandWhite
	BandYellow
	BandOrange
	BandRed
	BandInterior // never escaped
)

var bandColors = [...]Color{
	BandFast:     Black,
	BandWhite:    White,
	BandYellow:   Yellow,
	BandOrange:   Orange,
	BandRed:      Red,
	BandInterior: Black,
}

// Color of b. The second result is false for BandNone.
func (b Band) Color() (Color, bool) {
	if b == BandNone || int(b) >= len(bandColors) {
		return Color{}, false
	}
	return bandColors[b], true
}

// BandFor classifies iterations against the cap maxIter. The ranges are checked in order
// and the first match wins; maxIter/5, maxIter/4 and maxIter/3 use integer division.
func BandFor(iterations, maxIter int) Band {
	switch {
	case iterations <= 0:
		return BandNone
	case iterations >= maxIter:
		return BandInterior
	case iterations < maxIter/5:
		return BandFast
	case iterations < maxIter/4:
		return BandWhite
	case iterations < maxIter/3:
		return BandYellow
	case float64(iterations) < float64(maxIter)/2.2:
		return BandOrange
	default:
		return BandRed
	}
}

// ColorFor maps an iteration count to its band color; ok is false when the
// pixel should be left unpainted.
func ColorFor(iterations, maxIter int) (c Color, ok bool) {
	return BandFor(iterations, maxIter).Color()
}
