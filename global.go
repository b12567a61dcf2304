package relog

import "sync/atomic"

// Facade: global access (Singleton + Facade).
var global atomic.Pointer[Reloadable]

// SetGlobal sets the global logger (Singleton setter).
func SetGlobal(r *Reloadable) { global.Store(r) }

// L returns the global logger; panic if unset to surface misconfig early.
func L() *Reloadable {
	r := global.Load()
	if r == nil {
		panic("relog: global logger not set. Call relog.Install(...) or relog.SetGlobal(...)")
	}
	return r
}

// Install builds a reloadable logger from configure and sets it as global.
// Call it as early as possible; reconfigure later with Reload and pin the
// final pipeline with Freeze once configuration has settled.
func Install(configure Configure) (*Reloadable, error) {
	r, err := New(configure)
	if err != nil {
		return nil, err
	}
	SetGlobal(r)
	return r, nil
}
