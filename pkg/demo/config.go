package demo

import "log/slog"

// Config configures the demo application.
type Config struct {
	// InitialLength is the number of counters the dynamic list starts with.
	// Default: 3
	InitialLength int

	// StaticElements is the number of items in the static list.
	// Default: 5
	StaticElements int

	// ProgressMax is the max attribute of both progress bars.
	// Default: 100
	ProgressMax int

	// Logger receives one debug record per action. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration of the original demo page.
func DefaultConfig() Config {
	return Config{
		InitialLength:  3,
		StaticElements: 5,
		ProgressMax:    100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.InitialLength < 0 {
		c.InitialLength = d.InitialLength
	}
	if c.StaticElements < 0 {
		c.StaticElements = d.StaticElements
	}
	if c.ProgressMax <= 0 {
		c.ProgressMax = d.ProgressMax
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
