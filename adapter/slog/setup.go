package slogadapter

import (
	"io"
	"log/slog"
	"os"

	"github.com/trickstertwo/relog"
	"github.com/trickstertwo/xclock"
)

// Format selects the slog handler format.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatText
)

// Config is an explicit, code-first configuration for slog + relog.
// No envs, no hidden init, one call to Use.
type Config struct {
	Writer         io.Writer            // default: os.Stdout
	MinLevel       relog.Level          // relog + slog will both use this
	Format         Format               // JSON (default) or Text
	HandlerOptions *slog.HandlerOptions // optional; Level is managed via a LevelVar
}

// NewAdapter builds a slog-backed Adapter from Config. The handler level is
// driven by a LevelVar so SetMinLevel adjusts backend filtering dynamically.
func NewAdapter(cfg Config) *SlogAdapter {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	opts := cfg.HandlerOptions
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	var lv slog.LevelVar
	lv.Set(toSlog(cfg.MinLevel))
	opts.Level = &lv

	var h slog.Handler
	if cfg.Format == 0 || cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	ad := NewWithLevelVar(slog.New(h), &lv)
	ad.SetMinLevel(cfg.MinLevel)
	return ad
}

// Configure returns a configuration callback that builds a fresh slog-backed
// pipeline from Config on every run, bound to the current process clock
// (xclock.Default()) so frozen/offset clocks are respected in timestamps.
func Configure(cfg Config) relog.Configure {
	return func(b *relog.Builder) error {
		b.WithAdapter(NewAdapter(cfg)).
			WithMinLevel(cfg.MinLevel).
			WithClock(xclock.Default())
		return nil
	}
}

// Use installs a slog-backed reloadable logger built from Config as the
// global logger and returns it. Reloading it with a nil callback rebuilds
// the handler from the same Config.
func Use(cfg Config) *relog.Reloadable {
	r, err := relog.Install(Configure(cfg))
	if err != nil {
		panic(err)
	}
	return r
}
