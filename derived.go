package relog

import "sync/atomic"

// resolver is a link in a derivation chain: the Reloadable root or another
// derived handle. resolveSelf is called with the owner's lock held, or
// lock-free once the owner is frozen.
type resolver interface {
	resolveSelf(root Pipeline, frozen bool) Pipeline
}

// resolution is one cache generation for a derived handle. It is valid
// while root is still the owner's current pipeline; frozen resolutions are
// valid forever. Replaced wholesale, never mutated, so readers always see a
// consistent (root, self) pair.
type resolution struct {
	root   Pipeline
	self   Pipeline
	frozen bool
}

// derived is a handle enriched relative to its parent (bound fields or a
// sub-logger name). It stores only the recipe; the enriched pipeline is
// derived on first use and re-derived whenever the owner has been reloaded
// since. A nil cache means the handle has never resolved.
//
// Handles reference their parents, never the other way around, so an
// abandoned handle is collectable even while the root lives on.
type derived struct {
	owner  *Reloadable
	parent resolver
	derive func(Pipeline) Pipeline
	state  atomic.Pointer[resolution]
}

// resolveSelf returns this handle's pipeline for the given root, reusing the
// cache when it is still current. On the first call after the owner froze,
// the cache is re-stored as frozen so later calls skip the owner entirely.
func (d *derived) resolveSelf(root Pipeline, frozen bool) Pipeline {
	if res := d.state.Load(); res != nil && (res.frozen || res.root == root) {
		if frozen && !res.frozen {
			d.state.Store(&resolution{root: root, self: res.self, frozen: true})
		}
		return res.self
	}
	self := d.derive(d.parent.resolveSelf(root, frozen))
	d.state.Store(&resolution{root: root, self: self, frozen: frozen})
	return self
}

func (d *derived) Write(e Entry) {
	if res := d.state.Load(); res != nil && res.frozen {
		res.self.Write(e)
		return
	}
	d.owner.writeFor(d, e)
}

func (d *derived) Enabled(level Level) bool {
	if res := d.state.Load(); res != nil && res.frozen {
		return res.self.Enabled(level)
	}
	return d.owner.enabledFor(d, level)
}

func (d *derived) Bind(template string, values ...any) (BoundTemplate, bool) {
	if res := d.state.Load(); res != nil && res.frozen {
		return res.self.Bind(template, values)
	}
	return d.owner.bindFor(d, template, values)
}

func (d *derived) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return d
	}
	fs := copyFields(nil, fields)
	return d.child(func(p Pipeline) Pipeline { return p.With(fs) })
}

func (d *derived) Named(name string) Logger {
	if name == "" {
		return d
	}
	return d.child(func(p Pipeline) Pipeline { return p.Named(name) })
}

// child chains a further derivation. Once this handle has observed the
// owner's freeze it hands out bare pipeline handles like the root does.
func (d *derived) child(derive func(Pipeline) Pipeline) Logger {
	if res := d.state.Load(); res != nil && res.frozen {
		return pipelineLogger{p: derive(res.self)}
	}
	return &derived{owner: d.owner, parent: d, derive: derive}
}

func (d *derived) Trace() *Event { return getEvent(d, LevelTrace) }
func (d *derived) Debug() *Event { return getEvent(d, LevelDebug) }
func (d *derived) Info() *Event  { return getEvent(d, LevelInfo) }
func (d *derived) Warn() *Event  { return getEvent(d, LevelWarn) }
func (d *derived) Error() *Event { return getEvent(d, LevelError) }
func (d *derived) Fatal() *Event { return getEvent(d, LevelFatal) }
