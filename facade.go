package relog

// Facade helpers using the global Singleton logger.
// Usage: relog.Info().Str("k","v").Msg("hello")

func Trace() *Event { return L().Trace() }
func Debug() *Event { return L().Debug() }
func Info() *Event  { return L().Info() }
func Warn() *Event  { return L().Warn() }
func Error() *Event { return L().Error() }
func Fatal() *Event { return L().Fatal() }

// With returns a handle on the global logger enriched with bound fields.
func With(fields ...Field) Logger { return L().With(fields...) }

// Named returns a handle on the global logger scoped to a sub-logger name.
func Named(name string) Logger { return L().Named(name) }

// Reload swaps the global logger's pipeline; see Reloadable.Reload.
func Reload(configure Configure) error { return L().Reload(configure) }

// Freeze pins the global logger's pipeline; see Reloadable.Freeze.
func Freeze() (Pipeline, error) { return L().Freeze() }
