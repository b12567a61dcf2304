package relog

// Observer is notified for each emitted entry (Observer pattern).
// Implementations MUST be concurrency-safe; they run on the caller's
// goroutine after the adapter has accepted the entry.
type Observer interface {
	OnLog(entry Entry)
}

// ObserverFunc adapter.
type ObserverFunc func(Entry)

func (f ObserverFunc) OnLog(e Entry) { f(e) }
