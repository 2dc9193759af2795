package logging

import (
	"context"
	"log/slog"

	"github.com/pavlenkoa/envproc/internal/mask"
)

// MaskHandler is a slog.Handler that masks the value of every attribute
// whose key looks sensitive, including attributes nested in groups.
type MaskHandler struct {
	slog slog.Handler
}

// NewMaskHandler wraps h.
func NewMaskHandler(h slog.Handler) *MaskHandler {
	return &MaskHandler{slog: h}
}

// Enabled implements the slog.Handler interface.
func (h *MaskHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *MaskHandler) Handle(ctx context.Context, record slog.Record) error {
	nr := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		nr.AddAttrs(maskAttr(a))
		return true
	})
	return h.slog.Handle(ctx, nr)
}

// WithAttrs implements the slog.Handler interface.
func (h *MaskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = maskAttr(a)
	}
	return NewMaskHandler(h.slog.WithAttrs(masked))
}

// WithGroup implements the slog.Handler interface.
func (h *MaskHandler) WithGroup(name string) slog.Handler {
	return NewMaskHandler(h.slog.WithGroup(name))
}

func maskAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		group := v.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = maskAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	if !mask.IsSensitiveKey(a.Key) {
		return slog.Attr{Key: a.Key, Value: v}
	}

	if v.Kind() == slog.KindString {
		return slog.String(a.Key, mask.Mask(v.String()))
	}
	if m, ok := v.Any().(map[string]string); ok {
		return slog.Any(a.Key, mask.Map(m))
	}
	return slog.String(a.Key, mask.Placeholder)
}
