package mandel

// Surface receives draw commands in logical pixel coordinates.
type Surface interface {
	PaintRect(c Color, x, y, w, h int)
	Present() error
}

// Capturer saves the current surface contents to a bitmap file.
type Capturer interface {
	Capture(path string) error
}

// InputSource is polled once per tick for the current button states.
type InputSource interface {
	Poll() Input
}

// Input is a snapshot of the buttons the explorer reacts to.
type Input struct {
	Up, Down, Left, Right bool

	Engage  bool // toggle the selector
	Confirm bool
	Undo    bool
	Capture bool
	Quit    bool
}
