package explore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	mandel "github.com/marben/mandelzoom"
)

var (
	// ErrIncompleteSelection is returned when an axis was never swept while engaged.
	ErrIncompleteSelection = errors.New("selection incomplete")
	// ErrDegenerateSelection is returned when the swept area has zero width or height.
	ErrDegenerateSelection = errors.New("selection has no area")
)

// Spacing selects how selected pixels convert back to plane coordinates.
type Spacing int

const (
	// SpacingUniformX uses the horizontal pixel pitch for both axes.
	SpacingUniformX Spacing = iota
	// SpacingPerAxis uses each axis' own pixel pitch.
	SpacingPerAxis
)

// ParseSpacing accepts "x" or "axis".
func ParseSpacing(s string) (Spacing, error) {
	switch s {
	case "x", "":
		return SpacingUniformX, nil
	case "axis":
		return SpacingPerAxis, nil
	}
	return 0, fmt.Errorf("unknown spacing %q", s)
}

// Extent tracks the lowest and highest position visited on one axis.
type Extent struct {
	Lo, Hi int
	Set    bool
}

func (e *Extent) extend(v int) {
	if !e.Set {
		e.Lo, e.Hi, e.Set = v, v, true
		return
	}
	e.Lo = min(e.Lo, v)
	e.Hi = max(e.Hi, v)
}

// Selection is the state of one selector session.
type Selection struct {
	X, Y    int // cursor, logical pixels
	Engaged bool

	Xs, Ys Extent
}

// Region converts the swept pixel extents into a sub-region of r,
// which is displayed on a w×h surface.
func (s Selection) Region(r mandel.Region, w, h int, sp Spacing) (mandel.Region, error) {
	if !s.Xs.Set || !s.Ys.Set {
		return mandel.Region{}, ErrIncompleteSelection
	}
	if s.Xs.Lo == s.Xs.Hi || s.Ys.Lo == s.Ys.Hi {
		return mandel.Region{}, ErrDegenerateSelection
	}

	px := r.Width() / float64(w)
	py := px
	if sp == SpacingPerAxis {
		py = r.Height() / float64(h)
	}
	next := mandel.Region{
		Xmin: r.Xmin + float64(s.Xs.Lo)*px,
		Xmax: r.Xmin + float64(s.Xs.Hi)*px,
		Ymin: r.Ymin + float64(s.Ys.Lo)*py,
		Ymax: r.Ymin + float64(s.Ys.Hi)*py,
	}
	// at float64 resolution distinct pixels can still map to the same bound
	if err := next.Validate(); err != nil {
		return mandel.Region{}, fmt.Errorf("%w: %w", ErrDegenerateSelection, err)
	}
	return next, nil
}

// Outcome of a selector session.
type Outcome int

const (
	Confirmed Outcome = iota
	Undone
	Quit
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Undone:
		return "undone"
	case Quit:
		return "quit"
	}
	return "Outcome(" + strconv.Itoa(int(o)) + ")"
}

// Result of a selector session.
type Result struct {
	Outcome Outcome
	Region  mandel.Region // region to show next
}

// Selector runs the keyboard-driven region selection over a rendered frame.
type Selector struct {
	Width, Height int // logical surface size
	Power         int // only used to name captures
	Granularity   int // cursor step in pixels
	Spacing       Spacing

	Tick     time.Duration // delay between input samples
	Debounce time.Duration // extra delay after a toggle or capture
	Settle   time.Duration // delay before the first sample

	ScreenshotDir string

	Surface  mandel.Surface
	Capturer mandel.Capturer // may be nil
	Input    mandel.InputSource
}

// Run executes one session for the displayed region. A confirmed selection
// pushes region onto hist; an undo pops it.
func (s *Selector) Run(ctx context.Context, region mandel.Region, hist *History) (Result, error) {
	sess := s.newSession(region, hist)
	if err := sleep(ctx, s.Settle); err != nil {
		return Result{}, err
	}
	for {
		res, done, pause, err := sess.step(s.Input.Poll())
		if err != nil || done {
			return res, err
		}
		if err := sleep(ctx, s.Tick+pause); err != nil {
			return Result{}, err
		}
	}
}

type session struct {
	*Selector
	region mandel.Region
	hist   *History
	sel    Selection

	confirmHeld bool // confirm was down on the previous sample
}

func (s *Selector) newSession(region mandel.Region, hist *History) *session {
	return &session{
		Selector: s,
		region:   region,
		hist:     hist,
		sel:      Selection{X: s.Width / 2, Y: s.Height / 2},
	}
}

// step applies one input sample. pause is extra time to wait before the next one.
func (ss *session) step(in mandel.Input) (res Result, done bool, pause time.Duration, err error) {
	held := ss.confirmHeld
	ss.confirmHeld = in.Confirm

	switch {
	case in.Quit:
		return Result{Outcome: Quit, Region: ss.region}, true, 0, nil
	case in.Confirm:
		next, err := ss.sel.Region(ss.region, ss.Width, ss.Height, ss.Spacing)
		if err != nil {
			if held {
				slog.Debug("selection rejected", "error", err)
			} else {
				slog.Warn("selection rejected", "error", err)
			}
			return Result{}, false, ss.Debounce, nil
		}
		ss.hist.Push(ss.region)
		return Result{Outcome: Confirmed, Region: next}, true, 0, nil
	case in.Undo:
		prev, err := ss.hist.Pop()
		if err == nil {
			return Result{Outcome: Undone, Region: prev}, true, 0, nil
		}
		slog.Debug("undo ignored", "error", err)
	case in.Engage:
		ss.sel.Engaged = !ss.sel.Engaged
		pause = ss.Debounce
	case in.Capture:
		path := CaptureName(ss.ScreenshotDir, ss.Power, ss.region)
		if ss.Capturer == nil {
			slog.Warn("capture unavailable", "path", path)
		} else if err := ss.Capturer.Capture(path); err != nil {
			slog.Error("capture failed", "path", path, "error", err)
		} else {
			slog.Info("screenshot saved", "path", path)
		}
		pause = ss.Debounce
	}

	if !ss.move(in) {
		return Result{}, false, pause, nil
	}
	c := mandel.Grey
	if ss.sel.Engaged {
		c = mandel.Green
	}
	side := max(1, ss.Width/500)
	ss.Surface.PaintRect(c, ss.sel.X, ss.sel.Y, side, side)
	if err := ss.Surface.Present(); err != nil {
		return Result{}, false, 0, err
	}
	return Result{}, false, pause, nil
}

// move advances the cursor by at most one step, up taking priority over
// down, left and right.
func (ss *session) move(in mandel.Input) bool {
	g := ss.Granularity
	sel := &ss.sel
	var (
		axis *Extent
		pos  int
	)
	switch {
	case in.Up && sel.Y > 0:
		sel.Y = max(sel.Y-g, 0)
		axis, pos = &sel.Ys, sel.Y
	case in.Down && sel.Y < ss.Height:
		sel.Y = min(sel.Y+g, ss.Height)
		axis, pos = &sel.Ys, sel.Y
	case in.Left && sel.X > 0:
		sel.X = max(sel.X-g, 0)
		axis, pos = &sel.Xs, sel.X
	case in.Right && sel.X < ss.Width:
		sel.X = min(sel.X+g, ss.Width)
		axis, pos = &sel.Xs, sel.X
	default:
		return false
	}
	if sel.Engaged {
		axis.extend(pos)
	}
	return true
}

// CaptureName is the screenshot path for region rendered with power:
// <dir>/<power>__<xMin>-<xMax>__<yMin>-<yMax>.bmp.
func CaptureName(dir string, power int, r mandel.Region) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	name := fmt.Sprintf("%d__%s-%s__%s-%s.bmp", power, f(r.Xmin), f(r.Xmax), f(r.Ymin), f(r.Ymax))
	return filepath.Join(dir, name)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
