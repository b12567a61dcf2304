package relog

import (
	"sync/atomic"
	"time"

	"github.com/trickstertwo/xclock"
)

// Entry is a single log event as accepted by pipelines and observers.
// A zero At is stamped by the pipeline from its clock.
type Entry struct {
	At      time.Time
	Level   Level
	Name    string
	Message string
	Fields  []Field
}

// Pipeline is one immutable logging engine instance: adapter, minimum level,
// bound fields and scope name are fixed at build time. Reconfiguration never
// mutates a pipeline; it builds a new one and re-points the Reloadable at it,
// so two pipelines are interchangeable only if they are the same instance.
type Pipeline interface {
	Write(e Entry)
	Enabled(level Level) bool
	Bind(template string, values []any) (BoundTemplate, bool)
	With(fields []Field) Pipeline // child pipeline with bound fields
	Named(name string) Pipeline   // child pipeline scoped to a sub-logger name
	Release() error               // idempotent; flushes the backend where supported
}

// adapterSyncer is an optional interface adapters can implement to flush
// buffered output when their pipeline is released.
type adapterSyncer interface {
	Sync() error
}

type pipeline struct {
	adapter    Adapter
	minLevel   Level
	name       string
	baseFields []Field
	observers  []Observer
	clock      xclock.Clock
	released   atomic.Bool
}

// Factory: internal constructor.
func newPipeline(cfg Config) *pipeline {
	a := cfg.Adapter
	if len(cfg.Fields) > 0 {
		a = a.With(cfg.Fields)
	}
	if cfg.Name != "" {
		a = a.Named(cfg.Name)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = xclock.Default()
	}
	p := &pipeline{
		adapter:    a,
		minLevel:   cfg.MinLevel,
		name:       cfg.Name,
		baseFields: copyFields(nil, cfg.Fields),
		clock:      clock,
	}
	if len(cfg.Observers) > 0 {
		p.observers = make([]Observer, len(cfg.Observers))
		copy(p.observers, cfg.Observers)
	}
	return p
}

// Enabled reports whether logs at 'level' would be emitted by this pipeline.
// Use to avoid building fields in hot paths when disabled.
func (p *pipeline) Enabled(level Level) bool {
	return level >= p.minLevel
}

func (p *pipeline) Write(e Entry) {
	if e.Level < p.minLevel {
		return
	}
	if e.At.IsZero() {
		// Single authoritative timestamp from the pipeline clock.
		e.At = p.clock.Now()
	}

	// Fast path: adapter handles bound fields and scope internally; pass only
	// event fields.
	p.adapter.Log(e.Level, e.Message, e.At, e.Fields)

	if len(p.observers) == 0 {
		return
	}

	// Observers see combined fields: base + event.
	merged := make([]Field, 0, len(p.baseFields)+len(e.Fields))
	if len(p.baseFields) > 0 {
		merged = append(merged, p.baseFields...)
	}
	if len(e.Fields) > 0 {
		merged = append(merged, e.Fields...)
	}

	entry := Entry{
		At:      e.At,
		Level:   e.Level,
		Name:    p.name,
		Message: e.Message,
		Fields:  merged,
	}

	for _, o := range p.observers {
		o.OnLog(entry)
	}
}

func (p *pipeline) Bind(template string, values []any) (BoundTemplate, bool) {
	return bindTemplate(template, values)
}

// With returns a child pipeline with bound fields.
func (p *pipeline) With(fields []Field) Pipeline {
	if len(fields) == 0 {
		return p
	}
	return &pipeline{
		adapter:    p.adapter.With(fields),
		minLevel:   p.minLevel,
		name:       p.name,
		baseFields: append(copyFields(nil, p.baseFields), fields...),
		observers:  p.observers,
		clock:      p.clock,
	}
}

// Named returns a child pipeline scoped to a dot-joined sub-logger name.
func (p *pipeline) Named(name string) Pipeline {
	if name == "" {
		return p
	}
	return &pipeline{
		adapter:    p.adapter.Named(name),
		minLevel:   p.minLevel,
		name:       joinName(p.name, name),
		baseFields: copyFields(nil, p.baseFields),
		observers:  p.observers,
		clock:      p.clock,
	}
}

// Release flushes the adapter where supported. It is idempotent; later calls
// return nil. Writes arriving after Release still reach the adapter, which
// keeps in-flight events safe when a pipeline is swapped out underneath them.
func (p *pipeline) Release() error {
	if !p.released.CompareAndSwap(false, true) {
		return nil
	}
	if s, ok := p.adapter.(adapterSyncer); ok {
		return s.Sync()
	}
	return nil
}

func joinName(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
