// Package observer records processing state transitions for diagnostics.
package observer

import (
	"context"
	"log/slog"
)

// Observer receives a processing layer together with whatever state the
// caller wants to expose. Implementations must not fail and must accept
// any shape of state.
type Observer interface {
	Observe(ctx context.Context, layer Layer, state any)
}

// Func adapts an ordinary function to the Observer interface.
type Func func(ctx context.Context, layer Layer, state any)

// Observe calls f.
func (f Func) Observe(ctx context.Context, layer Layer, state any) {
	f(ctx, layer, state)
}

// LogObserver writes every observation to a structured logger.
type LogObserver struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogObserver creates an observer logging at debug level.
// A nil logger falls back to slog.Default.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{
		logger: logger,
		level:  slog.LevelDebug,
	}
}

// WithLevel returns a copy of the observer that logs at level.
func (o *LogObserver) WithLevel(level slog.Level) *LogObserver {
	return &LogObserver{
		logger: o.logger,
		level:  level,
	}
}

// Observe implements Observer.
func (o *LogObserver) Observe(ctx context.Context, layer Layer, state any) {
	o.logger.Log(ctx, o.level, "processing state",
		slog.String("layer", layer.String()),
		slog.Any("state", state),
	)
}

// Nop discards every observation.
type Nop struct{}

// Observe implements Observer.
func (Nop) Observe(context.Context, Layer, any) {}
