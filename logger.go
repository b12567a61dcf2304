package relog

// Logger is the facade entry point shared by the reloadable root, handles
// derived from it, and frozen handles. Every operation resolves the pipeline
// current at call time; handles created before a Reload see the replacement
// pipeline on their next call without being rebuilt.
type Logger interface {
	// Write emits one entry through the current pipeline.
	Write(e Entry)
	// Enabled reports whether entries at 'level' would be emitted.
	// Use to avoid building fields in hot paths when disabled.
	Enabled(level Level) bool
	// Bind renders a message template against values, producing an emission
	// plan. ok is false when the template and values do not line up.
	Bind(template string, values ...any) (BoundTemplate, bool)

	// With returns a handle enriched with bound fields.
	With(fields ...Field) Logger
	// Named returns a handle scoped to a dot-joined sub-logger name.
	Named(name string) Logger

	// Level entry points returning fluent builders.
	Trace() *Event
	Debug() *Event
	Info() *Event
	Warn() *Event
	Error() *Event
	Fatal() *Event
}

// pipelineLogger is the handle once reloading is over: a bare pipeline with
// no synchronization and no staleness checks. Freeze hands these out.
type pipelineLogger struct {
	p Pipeline
}

func (l pipelineLogger) Write(e Entry) { l.p.Write(e) }

func (l pipelineLogger) Enabled(level Level) bool { return l.p.Enabled(level) }

func (l pipelineLogger) Bind(template string, values ...any) (BoundTemplate, bool) {
	return l.p.Bind(template, values)
}

func (l pipelineLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return pipelineLogger{p: l.p.With(fields)}
}

func (l pipelineLogger) Named(name string) Logger {
	if name == "" {
		return l
	}
	return pipelineLogger{p: l.p.Named(name)}
}

func (l pipelineLogger) Trace() *Event { return getEvent(l, LevelTrace) }
func (l pipelineLogger) Debug() *Event { return getEvent(l, LevelDebug) }
func (l pipelineLogger) Info() *Event  { return getEvent(l, LevelInfo) }
func (l pipelineLogger) Warn() *Event  { return getEvent(l, LevelWarn) }
func (l pipelineLogger) Error() *Event { return getEvent(l, LevelError) }
func (l pipelineLogger) Fatal() *Event { return getEvent(l, LevelFatal) }
