package tui

import (
	"time"

	"github.com/azan1ud/landlordshield/internal/engine"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/tui/themes"
)

// Config holds dashboard configuration.
type Config struct {
	Theme   themes.Theme
	Engine  *engine.ComplianceEngine
	Income  *model.ThresholdInput
	Clock   func() time.Time
	OwnerID string
	Width   int
	Height  int
}

// Option is a functional option for configuring the dashboard.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Clock:  time.Now,
		Width:  100,
		Height: 30,
	}
}

// WithEngine sets the engine the dashboard reads from.
func WithEngine(e *engine.ComplianceEngine) Option {
	return func(c *Config) {
		c.Engine = e
	}
}

// WithOwner sets the owner whose records are shown.
func WithOwner(ownerID string) Option {
	return func(c *Config) {
		c.OwnerID = ownerID
	}
}

// WithIncome sets the income used for the threshold summary and feed filtering.
func WithIncome(income *model.ThresholdInput) Option {
	return func(c *Config) {
		c.Income = income
	}
}

// WithClock overrides the current time.
func WithClock(clock func() time.Time) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
