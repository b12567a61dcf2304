package zap

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/relog"
	"github.com/trickstertwo/xclock"
)

// Config is an explicit, code-first configuration for zap + relog.
// No envs, no hidden init, one call to Use.
type Config struct {
	Writer             io.Writer // default: os.Stdout
	MinLevel           relog.Level
	Console            bool                  // pretty console-like output via zapcore.NewConsoleEncoder
	EncoderConfig      zapcore.EncoderConfig // if zero, a sensible default is used
	Caller             bool                  // include caller in logs
	CallerSkip         int                   // frames to skip when resolving caller; default 2–5 typically
	TimestampFieldName string                // default "ts" (aligns with relog's authoritative timestamp)
}

// NewAdapter builds a zap-backed Adapter from Config. The returned adapter
// carries an AtomicLevel so SetMinLevel adjusts backend filtering dynamically.
func NewAdapter(cfg Config) *Adapter {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	if cfg.TimestampFieldName == "" {
		cfg.TimestampFieldName = "ts"
	}
	if cfg.Caller && cfg.CallerSkip <= 0 {
		cfg.CallerSkip = 2
	}

	// Encoder config defaults: do not let zap inject its own time (relog provides "ts")
	encCfg := cfg.EncoderConfig
	if encCfg.TimeKey == "" && encCfg.LevelKey == "" && encCfg.MessageKey == "" && encCfg.EncodeTime == nil {
		encCfg = zapcore.EncoderConfig{
			TimeKey:        "", // relog injects "ts"
			LevelKey:       "level",
			MessageKey:     "message",
			NameKey:        "logger",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder, // used if you yourself add zap.Time fields
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeName:     zapcore.FullNameEncoder,
			CallerKey:      "caller",
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}
	} else {
		// Ensure zap itself doesn't add an extra time field
		encCfg.TimeKey = ""
	}

	var enc zapcore.Encoder
	if cfg.Console {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	sink := zapcore.AddSync(w)

	// Use AtomicLevel so Adapter.SetMinLevel can adjust dynamically.
	al := zap.NewAtomicLevelAt(toZapLevel(cfg.MinLevel))
	core := zapcore.NewCore(enc, sink, al)

	opts := []zap.Option{
		zap.AddStacktrace(zapcore.FatalLevel + 1), // effectively off for normal levels
	}
	if cfg.Caller {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(cfg.CallerSkip))
	}

	zl := zap.New(core, opts...)

	ad := NewWithTimestampKey(zl, &al, cfg.TimestampFieldName)
	ad.SetMinLevel(cfg.MinLevel)
	return ad
}

// Configure returns a configuration callback that builds a fresh zap-backed
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

// Use installs a zap-backed reloadable logger built from Config as the
// global logger and returns it. Reloading it with a nil callback rebuilds
// the zap core from the same Config.
func Use(cfg Config) *relog.Reloadable {
	r, err := relog.Install(Configure(cfg))
	if err != nil {
		panic(err)
	}
	return r
}
