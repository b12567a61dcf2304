package relog

import (
	"errors"
	"testing"
	"time"
)

func TestBindTemplates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		template string
		values   []any
		want     string
		ok       bool
	}{
		{"two placeholders", "user {id} logged in from {region}", []any{42, "eu-west-1"}, "user 42 logged in from eu-west-1", true},
		{"adjacent placeholders", "{a}{b}", []any{1, 2}, "12", true},
		{"underscores and digits", "retry {attempt_no2}", []any{3}, "retry 3", true},
		{"escaped braces", "literal {{braces}} and {x}", []any{"y"}, "literal {braces} and y", true},
		{"escape after placeholder", "v={id}}}", []any{7}, "v=7}", true},
		{"no placeholders", "plain text", nil, "plain text", true},
		{"too few values", "user {id}", nil, "", false},
		{"too many values", "plain", []any{1}, "", false},
		{"unclosed brace", "user {id", []any{1}, "", false},
		{"empty placeholder", "user {}", []any{1}, "", false},
		{"bad placeholder rune", "user {user-id}", []any{1}, "", false},
		{"stray closing brace", "oops } here", nil, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			bt, ok := bindTemplate(tc.template, tc.values)
			if ok != tc.ok {
				t.Fatalf("ok: got %v want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if bt.Message() != tc.want {
				t.Fatalf("message: got %q want %q", bt.Message(), tc.want)
			}
			if len(bt.Fields()) != len(tc.values) {
				t.Fatalf("fields: got %d want %d", len(bt.Fields()), len(tc.values))
			}
		})
	}
}

func TestBindFieldTyping(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	errCause := errors.New("conn reset")

	bt, ok := bindTemplate(
		"{s} {i} {u} {f} {b} {d} {t} {e} {raw} {obj}",
		[]any{
			"str",
			-7,
			uint64(9),
			2.5,
			true,
			1500 * time.Millisecond,
			at,
			errCause,
			[]byte("bytes"),
			struct{ X int }{X: 1},
		},
	)
	if !ok {
		t.Fatal("bind failed")
	}

	want := "str -7 9 2.5 true 1.5s " + at.Format(time.RFC3339Nano) + " conn reset bytes {1}"
	if bt.Message() != want {
		t.Fatalf("message:\n got %q\nwant %q", bt.Message(), want)
	}

	fs := bt.Fields()
	kinds := []Kind{
		KindString, KindInt64, KindUint64, KindFloat64, KindBool,
		KindDuration, KindTime, KindError, KindBytes, KindAny,
	}
	if len(fs) != len(kinds) {
		t.Fatalf("fields: got %d want %d", len(fs), len(kinds))
	}
	for i, k := range kinds {
		if fs[i].Kind != k {
			t.Fatalf("field %d (%s): kind %d want %d", i, fs[i].K, fs[i].Kind, k)
		}
	}
	if fs[0].K != "s" || fs[7].K != "e" {
		t.Fatalf("placeholder names not kept: %+v", fs)
	}
}

func TestBoundTemplateEntry(t *testing.T) {
	t.Parallel()

	bt, ok := bindTemplate("user {id}", []any{42})
	if !ok {
		t.Fatal("bind failed")
	}

	e := bt.Entry(LevelWarn)
	if !e.At.IsZero() {
		t.Fatal("entry timestamp should be zero for the pipeline to stamp")
	}
	if e.Level != LevelWarn || e.Message != "user 42" {
		t.Fatalf("entry mismatch: %+v", e)
	}
	assertHasInt64(t, e.Fields, "id", 42)
}

func TestBindThroughFacade(t *testing.T) {
	t.Parallel()

	ft := time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)
	adapter := newStubAdapter()
	r, err := New(stubConfigure(adapter, LevelDebug, ft))
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	bt, ok := r.Bind("order {order_id} shipped in {took}", "o-93", 250*time.Millisecond)
	if !ok {
		t.Fatal("bind failed")
	}
	r.Write(bt.Entry(LevelInfo))

	logs := adapter.rec.entries()
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	if logs[0].Msg != "order o-93 shipped in 250ms" {
		t.Fatalf("message: %q", logs[0].Msg)
	}
	if !logs[0].At.Equal(ft) {
		t.Fatalf("timestamp not stamped: %s", logs[0].At)
	}
	assertHasStr(t, logs[0].Fields, "order_id", "o-93")
	assertHasDur(t, logs[0].Fields, "took", 250*time.Millisecond)

	if _, ok := r.Bind("mismatch {a}", 1, 2); ok {
		t.Fatal("expected bind failure on count mismatch")
	}
}
