package relog

import (
	"sync"
	"time"
)

// Event is a fluent builder (Builder pattern) for a single log entry.
// API: log.Info().Str("from", ...).Dur("took", d).Int("count", v).Msg("state changed")
//
// The sink is any Logger, so the same builder serves the reloadable root,
// derived handles and frozen handles. The pipeline is resolved by Msg, not
// while fields are being added.

type Event struct {
	sink   Logger
	level  Level
	fields []Field
}

var eventPool = sync.Pool{
	New: func() any { return &Event{fields: make([]Field, 0, 8)} },
}

func getEvent(sink Logger, level Level) *Event {
	ev := eventPool.Get().(*Event)
	ev.sink = sink
	ev.level = level
	ev.fields = ev.fields[:0]
	return ev
}

func (e *Event) putBack() {
	// allow GC of large backing arrays by capping
	if cap(e.fields) > 128 {
		e.fields = make([]Field, 0, 8)
	}
	e.sink = nil
	e.level = 0
	eventPool.Put(e)
}

// Field builders (zerolog-style)

func (e *Event) Str(k, v string) *Event {
	e.fields = append(e.fields, Field{K: k, Kind: KindString, Str: v})
	return e
}

func (e *Event) Int(k string, v int) *Event { return e.Int64(k, int64(v)) }

func (e *Event) Int64(k string, v int64) *Event {
	e.fields = append(e.fields, Field{K: k, Kind: KindInt64, Int64: v})
	return e
}

func (e *Event) Uint64(k string, v uint64) *Event {
	e.fields = append(e.fields, Field{K: k, Kind: KindUint64, Uint64: v})
	return e
}

func (e *Event) Float64(k string, v float64) *Event {
	e.fields = append(e.fields, Field{K: k, Kind: KindFloat64, Float64: v})
	return e
}

func (e *Event) Bool(k string, v bool) *Event {
	e.fields = append(e.fields, Field{K: k, Kind: KindBool, Bool: v})
	return e
}

func (e *Event) Dur(k string, v time.Duration) *Event {
	e.fields = append(e.fields, Field{K: k, Kind: KindDuration, Dur: v})
	return e
}

func (e *Event) Time(k string, v time.Time) *Event {
	e.fields = append(e.fields, Field{K: k, Kind: KindTime, Time: v})
	return e
}

func (e *Event) Bytes(k string, v []byte) *Event {
	e.fields = append(e.fields, Field{K: k, Kind: KindBytes, Bytes: v})
	return e
}

func (e *Event) Err(err error) *Event {
	if err == nil {
		return e
	}
	e.fields = append(e.fields, Field{K: "error", Kind: KindError, Err: err})
	return e
}

func (e *Event) Any(k string, v any) *Event {
	e.fields = append(e.fields, Field{K: k, Kind: KindAny, Any: v})
	return e
}

// Msg terminates the builder and emits the event through the sink's current
// pipeline. The entry's timestamp is stamped by the pipeline.
func (e *Event) Msg(msg string) {
	e.sink.Write(Entry{Level: e.level, Message: msg, Fields: e.fields})
	e.putBack()
}
