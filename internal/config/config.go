package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/marben/mandelzoom/explore"
)

// Config is read from MANDEL_* environment variables once at startup.
type Config struct {
	Width      int  `envconfig:"WIDTH" default:"960"`
	Height     int  `envconfig:"HEIGHT" default:"560"`
	Power      int  `envconfig:"POWER" default:"3"`
	Baseline   int  `envconfig:"BASELINE" default:"100"`
	Fullscreen bool `envconfig:"FULLSCREEN" default:"false"`
	Workers    int  `envconfig:"WORKERS" default:"0"`

	Port          int    `envconfig:"PORT" default:"8080"`
	ScreenshotDir string `envconfig:"SCREENSHOT_DIR" default:"Screenshots"`

	Tick        time.Duration `envconfig:"TICK" default:"30ms"`
	Debounce    time.Duration `envconfig:"DEBOUNCE" default:"100ms"`
	Settle      time.Duration `envconfig:"SETTLE" default:"500ms"`
	Granularity int           `envconfig:"GRANULARITY" default:"8"`
	Spacing     string        `envconfig:"SPACING" default:"x"`

	LogLevel slog.Level `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("mandel", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Width < 1 || c.Height < 1 {
		errs = append(errs, fmt.Errorf("surface %dx%d must be at least 1x1", c.Width, c.Height))
	}
	if c.Power < 1 {
		errs = append(errs, fmt.Errorf("power %d must be at least 1", c.Power))
	}
	if c.Baseline < 1 {
		errs = append(errs, fmt.Errorf("baseline %d must be at least 1", c.Baseline))
	}
	if c.Granularity < 1 {
		errs = append(errs, fmt.Errorf("granularity %d must be at least 1", c.Granularity))
	}
	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick %v must be positive", c.Tick))
	}
	if c.Debounce < 0 || c.Settle < 0 {
		errs = append(errs, fmt.Errorf("debounce %v and settle %v must not be negative", c.Debounce, c.Settle))
	}
	if _, err := explore.ParseSpacing(c.Spacing); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Options for an explorer on this configuration.
func (c *Config) Options() explore.Options {
	sp, _ := explore.ParseSpacing(c.Spacing)
	return explore.Options{
		Width:         c.Width,
		Height:        c.Height,
		Power:         c.Power,
		Baseline:      c.Baseline,
		Workers:       c.Workers,
		Granularity:   c.Granularity,
		Spacing:       sp,
		Tick:          c.Tick,
		Debounce:      c.Debounce,
		Settle:        c.Settle,
		ScreenshotDir: c.ScreenshotDir,
	}
}
