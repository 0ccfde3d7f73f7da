// Package explore drives the render / select / zoom cycle.
package explore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/render"
)

// Screen is the output surface the explorer owns for its lifetime.
type Screen interface {
	mandel.Surface
	Clear()
}

// Options fixed for the lifetime of an Explorer.
type Options struct {
	Width, Height int
	Power         int
	Baseline      int
	Workers       int

	Granularity int
	Spacing     Spacing

	Tick, Debounce, Settle time.Duration

	ScreenshotDir string
}

// Explorer alternates between rendering the current region and running a
// selector session over it.
type Explorer struct {
	Renderer *render.Renderer
	Selector *Selector
	Screen   Screen
	Input    mandel.InputSource

	History History
}

// New wires an explorer around screen and input. If screen also implements
// mandel.Capturer it is used for screenshots.
func New(opts Options, screen Screen, input mandel.InputSource) *Explorer {
	capt, _ := screen.(mandel.Capturer)
	return &Explorer{
		Renderer: &render.Renderer{
			Width:    opts.Width,
			Height:   opts.Height,
			Power:    opts.Power,
			Baseline: opts.Baseline,
			Workers:  opts.Workers,
		},
		Selector: &Selector{
			Width:         opts.Width,
			Height:        opts.Height,
			Power:         opts.Power,
			Granularity:   opts.Granularity,
			Spacing:       opts.Spacing,
			Tick:          opts.Tick,
			Debounce:      opts.Debounce,
			Settle:        opts.Settle,
			ScreenshotDir: opts.ScreenshotDir,
			Surface:       screen,
			Capturer:      capt,
			Input:         input,
		},
		Screen: screen,
		Input:  input,
	}
}

// Run explores from region until quit is requested or ctx is done.
// It returns the region on display when it stopped.
func (e *Explorer) Run(ctx context.Context, region mandel.Region) (mandel.Region, error) {
	for {
		if e.Input.Poll().Quit {
			return region, nil
		}

		e.Screen.Clear()
		if _, err := e.Renderer.Render(ctx, region, e.Screen); err != nil {
			return region, err
		}
		if err := e.Screen.Present(); err != nil {
			return region, err
		}

		res, err := e.Selector.Run(ctx, region, &e.History)
		if err != nil {
			return region, fmt.Errorf("select: %w", err)
		}
		if res.Outcome == Quit {
			return region, nil
		}
		region = res.Region
		slog.Info("new region", "outcome", res.Outcome, "region", region, "depth", e.History.Len())
	}
}
