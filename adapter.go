package relog

import "time"

// Adapter is the logging backend Strategy (e.g., zap or zerolog wrapper).
// Log receives the single authoritative timestamp 'at' from the pipeline to
// avoid multiple time reads and ensure consistency across adapter and observers.
type Adapter interface {
	Log(level Level, msg string, at time.Time, fields []Field)
	With(fields []Field) Adapter // return a child adapter with bound fields (do not mutate receiver)
	Named(name string) Adapter   // return a child adapter scoped to a sub-logger name (do not mutate receiver)
}
