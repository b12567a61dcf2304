package slogadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/trickstertwo/relog"
)

// SlogAdapter adapts relog to the Go slog API (Adapter Strategy).
// It builds slog.Attrs directly for low overhead and uses LogAttrs.
//
// Scope names are dot-joined and emitted per entry under "logger"; slog has
// no sub-logger naming of its own and WithGroup would nest the event fields
// instead of naming the logger.
type SlogAdapter struct {
	l     *slog.Logger
	lv    *slog.LevelVar // optional, enables SetMinLevel
	bound []relog.Field
	name  string
}

func toSlog(l relog.Level) slog.Level {
	return slog.Level(l)
}

func New(l *slog.Logger) *SlogAdapter {
	if l == nil {
		l = slog.Default()
	}
	return &SlogAdapter{l: l}
}

// NewWithLevelVar creates an adapter wired to the handler's LevelVar so
// SetMinLevel can dynamically adjust the backend's filter.
func NewWithLevelVar(l *slog.Logger, lv *slog.LevelVar) *SlogAdapter {
	if l == nil {
		l = slog.Default()
	}
	return &SlogAdapter{l: l, lv: lv}
}

// SetMinLevel updates the backend filter when a LevelVar was supplied.
// If not provided, this is a no-op (relog filtering still applies).
func (a *SlogAdapter) SetMinLevel(l relog.Level) {
	if a.lv == nil {
		return
	}
	a.lv.Set(toSlog(l))
}

func (a *SlogAdapter) With(fs []relog.Field) relog.Adapter {
	child := *a
	child.bound = append(copyFields(nil, a.bound), fs...)
	return &child
}

func (a *SlogAdapter) Named(name string) relog.Adapter {
	child := *a
	if name != "" {
		if a.name != "" {
			child.name = a.name + "." + name
		} else {
			child.name = name
		}
	}
	return &child
}

func (a *SlogAdapter) Log(level relog.Level, msg string, at time.Time, fields []relog.Field) {
	attrs := make([]slog.Attr, 0, len(a.bound)+len(fields)+2)

	// Single authoritative timestamp provided by the pipeline
	attrs = append(attrs, slog.String("ts", at.UTC().Format(time.RFC3339Nano)))

	if a.name != "" {
		attrs = append(attrs, slog.String("logger", a.name))
	}

	// bound fields
	for i := range a.bound {
		attrs = append(attrs, toAttr(a.bound[i]))
	}
	// event fields
	for i := range fields {
		attrs = append(attrs, toAttr(fields[i]))
	}

	// Use LogAttrs for minimal allocations
	a.l.LogAttrs(context.Background(), toSlog(level), msg, attrs...)
}

func toAttr(f relog.Field) slog.Attr {
	switch f.Kind {
	case relog.KindString:
		return slog.String(f.K, f.Str)
	case relog.KindInt64:
		return slog.Int64(f.K, f.Int64)
	case relog.KindUint64:
		return slog.Uint64(f.K, f.Uint64)
	case relog.KindFloat64:
		return slog.Float64(f.K, f.Float64)
	case relog.KindBool:
		return slog.Bool(f.K, f.Bool)
	case relog.KindDuration:
		return slog.Duration(f.K, f.Dur)
	case relog.KindTime:
		return slog.Time(f.K, f.Time)
	case relog.KindError:
		return slog.Any(f.K, f.Err)
	case relog.KindBytes:
		return slog.Any(f.K, f.Bytes)
	case relog.KindAny:
		return slog.Any(f.K, f.Any)
	default:
		return slog.Any(f.K, nil)
	}
}

func copyFields(dst, src []relog.Field) []relog.Field {
	if len(src) == 0 {
		return dst
	}
	return append(dst, src...)
}
