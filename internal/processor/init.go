package processor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pavlenkoa/envproc/internal/transform"
)

// InitializeConfig builds a processor and processes the env file once.
// Failures are logged and returned unchanged.
func InitializeConfig(ctx context.Context, logger *slog.Logger, opts ...Option) (*Processor, *transform.MCPConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}

	p, err := New(ctx, append([]Option{WithLogger(logger)}, opts...)...)
	if err != nil {
		logger.ErrorContext(ctx, "configuration initialization failed", "error", err)
		return nil, nil, err
	}

	cfg, err := p.ProcessStandardEnv(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "configuration initialization failed", "error", err, "cause", errorCause(err))
		return p, nil, err
	}

	return p, cfg, nil
}

func errorCause(err error) string {
	var pe *ProcessingError
	if errors.As(err, &pe) && pe.Cause != nil {
		return pe.Cause.Error()
	}
	return ""
}
