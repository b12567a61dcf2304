package relog

import (
	"io"
	"os"
)

// defaultAdapterFactory is set by an adapter package (e.g., adapter/zerolog)
// in its init() to avoid import cycles. Default() uses this to build a logger.
var defaultAdapterFactory func(w io.Writer) Adapter

// RegisterDefaultAdapterFactory registers the constructor used by relog.Default().
// Adapters should call this from init() to avoid import cycles.
// Example (in adapter/zerolog):
//
//	func init() {
//	  relog.RegisterDefaultAdapterFactory(func(w io.Writer) relog.Adapter {
//	    return zerolog.New(zl.New(w))
//	  })
//	}
func RegisterDefaultAdapterFactory(f func(io.Writer) Adapter) {
	defaultAdapterFactory = f
}

// Default creates a reloadable logger using the registered adapter factory.
// It writes to os.Stdout and sets a sensible default level (LevelDebug).
// Side import github.com/trickstertwo/relog/adapter/zerolog to auto-register
// the high-performance default. Panics if no factory is registered.
func Default() *Reloadable {
	if defaultAdapterFactory == nil {
		panic("relog: no default adapter registered. Import adapter/zerolog or call relog.RegisterDefaultAdapterFactory")
	}
	r, err := New(func(b *Builder) error {
		b.WithAdapter(defaultAdapterFactory(os.Stdout)).WithMinLevel(LevelDebug)
		return nil
	})
	if err != nil {
		panic(err)
	}
	return r
}

// UseAdapter wires the given adapter as the global reloadable logger with the
// provided min level. Single line, explicit, no envs. Panics on a nil adapter.
func UseAdapter(a Adapter, min Level, observers ...Observer) *Reloadable {
	r, err := New(func(b *Builder) error {
		b.WithAdapter(a).WithMinLevel(min)
		for _, o := range observers {
			b.AddObserver(o)
		}
		return nil
	})
	if err != nil {
		panic(err)
	}
	SetGlobal(r)
	return r
}
