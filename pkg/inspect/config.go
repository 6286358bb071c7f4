package inspect

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the inspector server.
type Config struct {
	// Address is the listen address (default: "127.0.0.1:7070").
	Address string

	// History is how many recent flush reports are kept (default: 128).
	History int

	// Gatherer serves /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// CheckOrigin validates WebSocket upgrades. Default: same host only.
	CheckOrigin func(r *http.Request) bool

	// WriteTimeout bounds a single WebSocket write (default: 5s).
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown (default: 5s).
	ShutdownTimeout time.Duration

	// ClientBuffer is the number of pending messages per WebSocket client.
	// A client that falls further behind is disconnected (default: 32).
	ClientBuffer int

	// Logger receives server diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default inspector configuration.
func DefaultConfig() Config {
	return Config{
		Address:         "127.0.0.1:7070",
		History:         128,
		Gatherer:        prometheus.DefaultGatherer,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		ClientBuffer:    32,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.History <= 0 {
		c.History = d.History
	}
	if c.Gatherer == nil {
		c.Gatherer = d.Gatherer
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.ClientBuffer <= 0 {
		c.ClientBuffer = d.ClientBuffer
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
