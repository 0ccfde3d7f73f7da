package mandel

import (
	"math"
	"math/cmplx"
)

// EscapeRadius is the default bailout radius.
const EscapeRadius = 2.0

// Result of iterating a single point.
type Result struct {
	Bounded    bool // true iff the orbit never reached the escape radius
	Iterations int  // updates applied before escape, or maxIter when bounded
}

// Evaluate iterates z ← z^power + z^(power-1) + c from z = 0.
//
// The modulus is tested before every update, so Iterations is always in
// [1, maxIter] for an escaping point and equals maxIter for a bounded one.
func Evaluate(c complex128, power, maxIter int, radius float64) Result {
	z := complex(0, 0)
	for i := 0; i < maxIter; i++ {
		if cmplx.Abs(z) >= radius {
			return Result{Iterations: i}
		}
		lower := ipow(z, power-1)
		z = lower*z + lower + c
	}
	return Result{Bounded: true, Iterations: maxIter}
}

// ipow computes z^n for n >= 0 by repeated squaring.
func ipow(z complex128, n int) complex128 {
	r := complex(1, 0)
	for n > 0 {
		if n&1 == 1 {
			r *= z
		}
		z *= z
		n >>= 1
	}
	return r
}

// IterationsFor derives the iteration cap for a render pass from the zoom level:
// round(ln(baseline * surfaceWidth / regionWidth) * 25), never less than 1.
// regionWidth must be positive.
func IterationsFor(baseline, surfaceWidth int, regionWidth float64) int {
	n := math.Round(math.Log(float64(baseline)*float64(surfaceWidth)/regionWidth) * 25)
	if !(n >= 1) {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}
