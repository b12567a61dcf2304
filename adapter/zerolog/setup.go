package zerolog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/relog"
	"github.com/trickstertwo/xclock"
)

// Config is an explicit, code-first configuration for zerolog + relog.
// No envs, no hidden init, one call to Use.
type Config struct {
	Writer             io.Writer // default: os.Stdout
	MinLevel           relog.Level
	Console            bool   // pretty console output instead of JSON
	ConsoleTimeFormat  string // only used if Console==true; default time.RFC3339Nano
	Caller             bool   // include caller in logs
	CallerSkip         int    // frames to skip when resolving caller; default 5
	TimestampFieldName string // default "ts" (aligns with relog's authoritative timestamp)
}

// NewAdapter builds a zerolog-backed Adapter from Config.
func NewAdapter(cfg Config) *Adapter {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	if cfg.TimestampFieldName == "" {
		cfg.TimestampFieldName = "ts"
	}
	if cfg.Caller && cfg.CallerSkip <= 0 {
		cfg.CallerSkip = 5
	}

	var zl zerolog.Logger
	if cfg.Console {
		// Align console's leading timestamp column with our authoritative ts key
		zerolog.TimestampFieldName = cfg.TimestampFieldName
		cw := zerolog.ConsoleWriter{Out: w}
		if cfg.ConsoleTimeFormat == "" {
			cw.TimeFormat = time.RFC3339Nano
		} else {
			cw.TimeFormat = cfg.ConsoleTimeFormat
		}
		zl = zerolog.New(cw)
	} else {
		zl = zerolog.New(w)
	}

	zl = zl.Level(mapLevel(cfg.MinLevel))

	if cfg.Caller {
		zerolog.CallerSkipFrameCount = cfg.CallerSkip
		zl = zl.With().Caller().Logger()
	}

	ad := New(zl)
	ad.SetMinLevel(cfg.MinLevel)
	return ad
}

// Configure returns a configuration callback that builds a fresh
// zerolog-backed pipeline from Config on every run, bound to the current
// process clock (xclock.Default()) so frozen/offset clocks are respected.
func Configure(cfg Config) relog.Configure {
	return func(b *relog.Builder) error {
		b.WithAdapter(NewAdapter(cfg)).
			WithMinLevel(cfg.MinLevel).
			WithClock(xclock.Default())
		return nil
	}
}

// Use installs a zerolog-backed reloadable logger built from Config as the
// global logger and returns it. Reloading it with a nil callback rebuilds
// the zerolog logger from the same Config.
func Use(cfg Config) *relog.Reloadable {
	r, err := relog.Install(Configure(cfg))
	if err != nil {
		panic(err)
	}
	return r
}
