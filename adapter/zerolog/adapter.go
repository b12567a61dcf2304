package zerolog

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/relog"
)

// Adapter bridges relog to rs/zerolog with low overhead.
//
// Optimizations:
//   - Pre-binds fields in With() by creating a child zerolog.Logger with those
//     fields attached, eliminating per-log bound-field loops.
//   - Fast pre-check using GetLevel() to avoid allocating zerolog.Event when
//     the level is disabled.
//   - Uses Logger.WithLevel(...) to avoid a level switch at call sites.
//
// Scope names are dot-joined and emitted per entry under "logger"; zerolog
// has no native sub-logger naming, and binding the name into the context
// would duplicate the key on nested Named calls.
type Adapter struct {
	l    zerolog.Logger
	name string
}

func New(l zerolog.Logger) *Adapter {
	return &Adapter{l: l}
}

// With returns a child adapter by binding fields onto a child zerolog.Logger.
// This applies the cost once, not per-log call.
func (a *Adapter) With(fs []relog.Field) relog.Adapter {
	if len(fs) == 0 {
		// Keep behavior consistent: return a shallow copy
		child := *a
		return &child
	}
	ctx := a.l.With()
	for i := range fs {
		ctx = appendCtxField(ctx, &fs[i])
	}
	child := *a
	child.l = ctx.Logger()
	return &child
}

// Named returns a child adapter scoped to a dot-joined sub-logger name.
func (a *Adapter) Named(name string) relog.Adapter {
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

// Log emits a single entry.
// - Single authoritative timestamp provided by relog passed as "ts".
// - Fatal is treated as error level to avoid os.Exit side-effects.
func (a *Adapter) Log(level relog.Level, msg string, at time.Time, fields []relog.Field) {
	zlvl := mapLevel(level)

	// Fast path: drop early if below logger's min level (no Event allocation).
	if zlvl < a.l.GetLevel() {
		return
	}

	ev := a.l.WithLevel(zlvl)

	// Ensure RFC3339Nano precision regardless of zerolog.TimeFieldFormat defaults.
	// Using a string avoids global config changes and keeps output deterministic.
	ev.Str("ts", at.UTC().Format(time.RFC3339Nano))

	if a.name != "" {
		ev.Str("logger", a.name)
	}

	// Apply event fields
	for i := range fields {
		appendEventField(ev, &fields[i])
	}

	ev.Msg(msg)
}

// SetMinLevel allows relog.Builder to propagate min level into zerolog (optional interface).
func (a *Adapter) SetMinLevel(l relog.Level) {
	a.l = a.l.Level(mapLevel(l))
}

// mapLevel converts relog.Level to zerolog.Level.
// relog.LevelFatal is mapped to Error to avoid zerolog.Fatal() (which would exit the process).
func mapLevel(l relog.Level) zerolog.Level {
	switch {
	case l <= relog.LevelTrace:
		return zerolog.TraceLevel
	case l <= relog.LevelDebug:
		return zerolog.DebugLevel
	case l <= relog.LevelInfo:
		return zerolog.InfoLevel
	case l <= relog.LevelWarn:
		return zerolog.WarnLevel
	case l <= relog.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.ErrorLevel
	}
}

// appendEventField writes a relog.Field to a zerolog.Event.
func appendEventField(e *zerolog.Event, f *relog.Field) {
	switch f.Kind {
	case relog.KindString:
		e.Str(f.K, f.Str)
	case relog.KindInt64:
		e.Int64(f.K, f.Int64)
	case relog.KindUint64:
		e.Uint64(f.K, f.Uint64)
	case relog.KindFloat64:
		e.Float64(f.K, f.Float64)
	case relog.KindBool:
		e.Bool(f.K, f.Bool)
	case relog.KindDuration:
		e.Dur(f.K, f.Dur)
	case relog.KindTime:
		e.Time(f.K, f.Time)
	case relog.KindError:
		if f.Err != nil {
			if f.K == "" || f.K == "error" {
				e.Err(f.Err)
			} else {
				e.AnErr(f.K, f.Err)
			}
		}
	case relog.KindBytes:
		e.Bytes(f.K, f.Bytes)
	case relog.KindAny:
		e.Interface(f.K, f.Any)
	default:
		// Keep a placeholder to preserve shape
		e.Interface(f.K, nil)
	}
}

// appendCtxField binds a field to zerolog.Context (used by With()).
func appendCtxField(ctx zerolog.Context, f *relog.Field) zerolog.Context {
	switch f.Kind {
	case relog.KindString:
		return ctx.Str(f.K, f.Str)
	case relog.KindInt64:
		return ctx.Int64(f.K, f.Int64)
	case relog.KindUint64:
		return ctx.Uint64(f.K, f.Uint64)
	case relog.KindFloat64:
		return ctx.Float64(f.K, f.Float64)
	case relog.KindBool:
		return ctx.Bool(f.K, f.Bool)
	case relog.KindDuration:
		return ctx.Dur(f.K, f.Dur)
	case relog.KindTime:
		return ctx.Time(f.K, f.Time)
	case relog.KindError:
		// Context supports Err(err) for default key; no named-error variant.
		if f.Err == nil {
			return ctx
		}
		if f.K == "" || f.K == "error" {
			return ctx.Err(f.Err)
		}
		return ctx.Str(f.K, f.Err.Error())
	case relog.KindBytes:
		return ctx.Bytes(f.K, f.Bytes)
	case relog.KindAny:
		return ctx.Interface(f.K, f.Any)
	default:
		return ctx.Interface(f.K, nil)
	}
}
