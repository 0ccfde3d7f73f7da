package explore

import (
	"errors"

	mandel "github.com/marben/mandelzoom"
)

// ErrNoHistory is returned when undoing with nothing to return to.
var ErrNoHistory = errors.New("no previous region")

// History is a LIFO of previously viewed regions. The zero value is empty.
type History struct {
	regions []mandel.Region
}

func (h *History) Push(r mandel.Region) {
	h.regions = append(h.regions, r)
}

// Pop removes and returns the most recently pushed region.
func (h *History) Pop() (mandel.Region, error) {
	if len(h.regions) == 0 {
		return mandel.Region{}, ErrNoHistory
	}
	r := h.regions[len(h.regions)-1]
	h.regions = h.regions[:len(h.regions)-1]
	return r, nil
}

func (h *History) Len() int { return len(h.regions) }
