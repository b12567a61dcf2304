// Package settings maps viper-backed configuration onto relog configuration
// callbacks, so a logger installed early can be re-pointed at whatever the
// config file currently says, and follow the file afterwards via Watch.
//
// Usage:
//
//	v := viper.New()
//	v.SetConfigFile("relog.yaml")
//	_ = v.ReadInConfig()
//
//	log, err := relog.Install(settings.Configure(v))
//	settings.Watch(v, log, nil)
package settings

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/trickstertwo/relog"
	slogadapter "github.com/trickstertwo/relog/adapter/slog"
	zapadapter "github.com/trickstertwo/relog/adapter/zap"
	zerologadapter "github.com/trickstertwo/relog/adapter/zerolog"
	"github.com/trickstertwo/xclock"
)

// Settings describes a logging pipeline in configuration terms.
type Settings struct {
	Engine string            `mapstructure:"engine"` // zap | zerolog | slog
	Level  string            `mapstructure:"level"`  // trace|debug|info|warn|error|fatal
	Format string            `mapstructure:"format"` // json | console
	Output string            `mapstructure:"output"` // stdout | stderr | discard
	Name   string            `mapstructure:"name"`   // root scope name
	Fields map[string]string `mapstructure:"fields"` // static fields bound to every entry
}

// Default returns the settings used for keys a config source leaves unset.
func Default() Settings {
	return Settings{
		Engine: "zerolog",
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}
}

// FromViper unmarshals s from v on top of Default(). Pass v.Sub("log") when
// the logging settings live under a key of a larger config tree.
func FromViper(v *viper.Viper) (Settings, error) {
	if v == nil {
		return Settings{}, fmt.Errorf("settings: nil viper")
	}
	s := Default()
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("settings: unmarshal: %w", err)
	}
	return s, nil
}

// Configure returns a configuration callback that re-reads v on every run.
// Reloading the resulting logger with a nil callback therefore rebuilds the
// pipeline from whatever v holds at that moment, which is how file watches
// propagate (see Watch).
func Configure(v *viper.Viper) relog.Configure {
	return func(b *relog.Builder) error {
		s, err := FromViper(v)
		if err != nil {
			return err
		}
		return s.Apply(b)
	}
}

// Configure returns a configuration callback applying s as-is on every run.
func (s Settings) Configure() relog.Configure {
	return func(b *relog.Builder) error { return s.Apply(b) }
}

// Apply configures b according to s.
func (s Settings) Apply(b *relog.Builder) error {
	level, ok := relog.ParseLevel(strings.ToLower(strings.TrimSpace(s.Level)))
	if !ok {
		return fmt.Errorf("settings: unknown level %q", s.Level)
	}
	w, err := s.writer()
	if err != nil {
		return err
	}
	a, err := s.adapter(w, level)
	if err != nil {
		return err
	}
	b.WithAdapter(a).
		WithMinLevel(level).
		WithName(s.Name).
		WithClock(xclock.Default())
	// Deterministic field order regardless of map iteration.
	for _, k := range sortedKeys(s.Fields) {
		b.WithFields(relog.FStr(k, s.Fields[k]))
	}
	return nil
}

func (s Settings) writer() (io.Writer, error) {
	switch s.Output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "discard":
		return io.Discard, nil
	default:
		return nil, fmt.Errorf("settings: unknown output %q", s.Output)
	}
}

func (s Settings) adapter(w io.Writer, level relog.Level) (relog.Adapter, error) {
	var console bool
	switch s.Format {
	case "", "json":
	case "console", "text":
		console = true
	default:
		return nil, fmt.Errorf("settings: unknown format %q", s.Format)
	}

	switch s.Engine {
	case "", "zerolog":
		return zerologadapter.NewAdapter(zerologadapter.Config{
			Writer:   w,
			MinLevel: level,
			Console:  console,
		}), nil
	case "zap":
		return zapadapter.NewAdapter(zapadapter.Config{
			Writer:   w,
			MinLevel: level,
			Console:  console,
		}), nil
	case "slog":
		format := slogadapter.FormatJSON
		if console {
			format = slogadapter.FormatText
		}
		return slogadapter.NewAdapter(slogadapter.Config{
			Writer:   w,
			MinLevel: level,
			Format:   format,
		}), nil
	default:
		return nil, fmt.Errorf("settings: unknown engine %q", s.Engine)
	}
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
