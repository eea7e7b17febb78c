package event

import "log/slog"

// BusOption configures an event Bus.
type BusOption func(*busConfig)

// busConfig contains configuration for the event bus.
type busConfig struct {
	// logger receives handler failures. Defaults to a discarding logger.
	logger *slog.Logger

	// panicHandler is called when a handler panics.
	panicHandler PanicHandler

	// source is stamped on events created by Emit and Trigger.
	source string
}

func defaultBusConfig() busConfig {
	return busConfig{
		logger: slog.New(slog.DiscardHandler),
		source: "bus",
	}
}

// WithLogger sets the logger used to report handler errors and panics.
func WithLogger(l *slog.Logger) BusOption {
	return func(c *busConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBusPanicHandler sets a callback invoked for every recovered handler panic.
func WithBusPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// WithSource sets the default source recorded on emitted events.
func WithSource(source string) BusOption {
	return func(c *busConfig) {
		if source != "" {
			c.source = source
		}
	}
}
