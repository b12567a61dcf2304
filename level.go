package relog

// Level mirrors slog numeric semantics and extends with Trace (-8) and Fatal (12).
type Level int

const (
	LevelTrace Level = -8
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
	LevelFatal Level = 12
)

func (l Level) String() string {
	switch {
	case l <= LevelTrace:
		return "trace"
	case l <= LevelDebug:
		return "debug"
	case l <= LevelInfo:
		return "info"
	case l <= LevelWarn:
		return "warn"
	case l <= LevelError:
		return "error"
	default:
		return "fatal"
	}
}

// ParseLevel maps a level name to its Level. Unknown names default to
// LevelInfo with ok=false so callers can decide whether to reject.
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "fatal":
		return LevelFatal, true
	default:
		return LevelInfo, false
	}
}
