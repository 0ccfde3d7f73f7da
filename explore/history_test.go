package explore

import (
	"errors"
	"testing"

	mandel "github.com/marben/mandelzoom"
)

func TestHistory(t *testing.T) {
	var h History
	if _, err := h.Pop(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("empty pop: got %v, want ErrNoHistory", err)
	}

	a := mandel.Region{Xmin: 0, Xmax: 1, Ymin: 0, Ymax: 1}
	b := mandel.Region{Xmin: 0.25, Xmax: 0.5, Ymin: 0.25, Ymax: 0.5}
	h.Push(a)
	h.Push(b)
	if h.Len() != 2 {
		t.Fatalf("len %d, want 2", h.Len())
	}
	for _, want := range []mandel.Region{b, a} {
		got, err := h.Pop()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	}
	if _, err := h.Pop(); !errors.Is(err, ErrNoHistory) {
		t.Errorf("drained pop: got %v, want ErrNoHistory", err)
	}
}
