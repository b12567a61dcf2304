package relog

import (
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
)

// Configure builds a pipeline on a fresh configuration context. It is run
// once by New and again on every Reload; it must not retain the Builder.
type Configure func(*Builder) error

// Reloadable is a Logger that can be re-pointed at a newly built pipeline at
// runtime and permanently frozen once configuration has settled. Install it
// early, reconfigure as sources become available, then Freeze on the hot
// path. All handles derived from it follow each swap automatically.
//
// One mutex guards the (configure, current, frozen) triple. Every operation
// takes it until Freeze; after Freeze a single atomic load is all that
// remains on the logging path. The frozen flag is one-way.
type Reloadable struct {
	mu        sync.Mutex
	configure Configure
	current   Pipeline
	frozen    atomic.Bool
}

// New runs configure on a fresh Builder and points the logger at the result.
func New(configure Configure) (*Reloadable, error) {
	if configure == nil {
		return nil, ErrNoConfigure
	}
	p, err := buildPipeline(configure)
	if err != nil {
		return nil, err
	}
	return &Reloadable{configure: configure, current: p}, nil
}

func buildPipeline(configure Configure) (Pipeline, error) {
	b := NewBuilder()
	if err := configure(b); err != nil {
		return nil, err
	}
	return b.Build()
}

// Reload swaps in a freshly built pipeline. A non-nil configure replaces the
// stored callback; nil re-runs the previous one, which picks up changes in
// the configuration sources it reads. The old pipeline is released before
// the new one is built; if the build then fails, the logger is left pointing
// at the released pipeline and the error reports both failures.
func (r *Reloadable) Reload(configure Configure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return ErrFrozen
	}
	if configure != nil {
		r.configure = configure
	}
	if r.configure == nil {
		return ErrNoConfigure
	}
	err := r.current.Release()
	p, buildErr := buildPipeline(r.configure)
	if buildErr != nil {
		return multierr.Append(err, buildErr)
	}
	r.current = p
	return err
}

// Freeze makes the current pipeline permanent and returns it. From here on
// the logger and every handle derived from it skip all locking; Reload and
// further Freeze calls fail with ErrFrozen. The atomic store publishes the
// final pipeline to handles that observe the flag without the mutex.
func (r *Reloadable) Freeze() (Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return nil, ErrFrozen
	}
	r.frozen.Store(true)
	return r.current, nil
}

// Close releases the current pipeline. It is legal before or after Freeze;
// sequencing Close against logging on frozen handles is the caller's
// responsibility.
func (r *Reloadable) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Release()
}

// Write emits one entry through the pipeline current at call time. Until
// Freeze the emission happens inside the lock, so a concurrent Reload can
// never release the pipeline out from under an in-flight write.
func (r *Reloadable) Write(e Entry) {
	if r.frozen.Load() {
		r.current.Write(e)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current.Write(e)
}

func (r *Reloadable) Enabled(level Level) bool {
	if r.frozen.Load() {
		return r.current.Enabled(level)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Enabled(level)
}

func (r *Reloadable) Bind(template string, values ...any) (BoundTemplate, bool) {
	if r.frozen.Load() {
		return r.current.Bind(template, values)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Bind(template, values)
}

// With returns a handle carrying bound fields that follows future reloads.
// After Freeze it derives directly from the now-permanent pipeline instead.
func (r *Reloadable) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return r
	}
	fs := copyFields(nil, fields)
	return r.derive(func(p Pipeline) Pipeline { return p.With(fs) })
}

// Named returns a handle scoped to a sub-logger name that follows future
// reloads. After Freeze it derives directly from the permanent pipeline.
func (r *Reloadable) Named(name string) Logger {
	if name == "" {
		return r
	}
	return r.derive(func(p Pipeline) Pipeline { return p.Named(name) })
}

func (r *Reloadable) derive(derive func(Pipeline) Pipeline) Logger {
	if r.frozen.Load() {
		return pipelineLogger{p: derive(r.current)}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return pipelineLogger{p: derive(r.current)}
	}
	// No eager resolution: the handle derives its pipeline on first use.
	return &derived{owner: r, parent: r, derive: derive}
}

func (r *Reloadable) Trace() *Event { return getEvent(r, LevelTrace) }
func (r *Reloadable) Debug() *Event { return getEvent(r, LevelDebug) }
func (r *Reloadable) Info() *Event  { return getEvent(r, LevelInfo) }
func (r *Reloadable) Warn() *Event  { return getEvent(r, LevelWarn) }
func (r *Reloadable) Error() *Event { return getEvent(r, LevelError) }
func (r *Reloadable) Fatal() *Event { return getEvent(r, LevelFatal) }

// resolveSelf terminates the derivation chain: the root's pipeline is the
// root itself.
func (r *Reloadable) resolveSelf(root Pipeline, _ bool) Pipeline {
	return root
}

// writeFor runs one emission for a derived handle: bring the handle's cached
// pipeline up to date with the current root, then write while the root still
// cannot be swapped. Lock-free once frozen.
func (r *Reloadable) writeFor(caller *derived, e Entry) {
	if r.frozen.Load() {
		caller.resolveSelf(r.current, true).Write(e)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	caller.resolveSelf(r.current, r.frozen.Load()).Write(e)
}

func (r *Reloadable) enabledFor(caller *derived, level Level) bool {
	if r.frozen.Load() {
		return caller.resolveSelf(r.current, true).Enabled(level)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return caller.resolveSelf(r.current, r.frozen.Load()).Enabled(level)
}

func (r *Reloadable) bindFor(caller *derived, template string, values []any) (BoundTemplate, bool) {
	if r.frozen.Load() {
		return caller.resolveSelf(r.current, true).Bind(template, values)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return caller.resolveSelf(r.current, r.frozen.Load()).Bind(template, values)
}
