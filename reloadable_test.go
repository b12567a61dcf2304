package relog

import (
	"errors"
	"sync"
	"testing"
)

// stubSet hands out stub adapters from a configuration callback and tallies
// writes across every pipeline built during a test.
type stubSet struct {
	mu  sync.Mutex
	all []*stubAdapter
}

func (s *stubSet) next() *stubAdapter {
	a := newStubAdapter()
	s.mu.Lock()
	s.all = append(s.all, a)
	s.mu.Unlock()
	return a
}

func (s *stubSet) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.all {
		n += a.rec.count()
	}
	return n
}

func TestNewRequiresConfigure(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); !errors.Is(err, ErrNoConfigure) {
		t.Fatalf("expected ErrNoConfigure, got %v", err)
	}
	if _, err := Install(nil); !errors.Is(err, ErrNoConfigure) {
		t.Fatalf("expected ErrNoConfigure from Install, got %v", err)
	}
}

func TestNewReportsBuildErrors(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	if _, err := New(func(b *Builder) error { return errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	// A callback that never sets an adapter fails the build itself.
	if _, err := New(func(b *Builder) error { return nil }); !errors.Is(err, ErrNoAdapter) {
		t.Fatalf("expected ErrNoAdapter, got %v", err)
	}
}

func TestReloadSwapsPipeline(t *testing.T) {
	t.Parallel()

	first := newStubAdapter()
	second := newStubAdapter()

	r, err := New(func(b *Builder) error {
		b.WithAdapter(first).WithMinLevel(LevelDebug)
		return nil
	})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	r.Info().Msg("one")

	// The old pipeline must be released before the replacement is built.
	var syncsAtBuild int
	if err := r.Reload(func(b *Builder) error {
		syncsAtBuild = first.rec.syncCount()
		b.WithAdapter(second).WithMinLevel(LevelDebug)
		return nil
	}); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if syncsAtBuild != 1 {
		t.Fatalf("old pipeline not released before rebuild: %d syncs", syncsAtBuild)
	}

	r.Info().Msg("two")

	if got := first.rec.count(); got != 1 {
		t.Fatalf("first adapter logs: got %d want 1", got)
	}
	if got := second.rec.count(); got != 1 {
		t.Fatalf("second adapter logs: got %d want 1", got)
	}
	if second.rec.entries()[0].Msg != "two" {
		t.Fatalf("second adapter got %q", second.rec.entries()[0].Msg)
	}
}

func TestReloadNilRerunsStoredCallback(t *testing.T) {
	t.Parallel()

	set := &stubSet{}
	min := LevelInfo
	r, err := New(func(b *Builder) error {
		b.WithAdapter(set.next()).WithMinLevel(min)
		return nil
	})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	r.Debug().Msg("dropped")

	// The stored callback reads min again, so a nil reload picks up the
	// changed source.
	min = LevelDebug
	if err := r.Reload(nil); err != nil {
		t.Fatalf("reload: %v", err)
	}

	r.Debug().Msg("kept")

	if got := set.total(); got != 1 {
		t.Fatalf("expected exactly the post-reload debug write, got %d", got)
	}
}

func TestReloadFailureLeavesReleasedPipeline(t *testing.T) {
	t.Parallel()

	first := newStubAdapter()
	second := newStubAdapter()

	r, err := New(func(b *Builder) error {
		b.WithAdapter(first).WithMinLevel(LevelDebug)
		return nil
	})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	errBoom := errors.New("boom")
	if err := r.Reload(func(b *Builder) error { return errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := first.rec.syncCount(); got != 1 {
		t.Fatalf("old pipeline syncs: got %d want 1", got)
	}

	// The logger still points at the released pipeline; writes keep flowing.
	r.Info().Msg("still flowing")
	if got := first.rec.count(); got != 1 {
		t.Fatalf("write after failed reload lost: %d logs", got)
	}

	// A later successful reload recovers.
	if err := r.Reload(func(b *Builder) error {
		b.WithAdapter(second).WithMinLevel(LevelDebug)
		return nil
	}); err != nil {
		t.Fatalf("recovery reload: %v", err)
	}
	r.Info().Msg("recovered")
	if got := second.rec.count(); got != 1 {
		t.Fatalf("second adapter logs: got %d want 1", got)
	}
}

func TestReloadAggregatesReleaseAndBuildErrors(t *testing.T) {
	t.Parallel()

	errFlush := errors.New("flush failed")
	errBoom := errors.New("boom")

	first := newStubAdapter()
	first.rec.syncErr = errFlush

	r, err := New(func(b *Builder) error {
		b.WithAdapter(first).WithMinLevel(LevelDebug)
		return nil
	})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	err = r.Reload(func(b *Builder) error { return errBoom })
	if !errors.Is(err, errFlush) {
		t.Fatalf("release error lost: %v", err)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("build error lost: %v", err)
	}
}

func TestReloadReportsReleaseErrorAfterSwap(t *testing.T) {
	t.Parallel()

	errFlush := errors.New("flush failed")

	first := newStubAdapter()
	first.rec.syncErr = errFlush
	second := newStubAdapter()

	r, err := New(func(b *Builder) error {
		b.WithAdapter(first).WithMinLevel(LevelDebug)
		return nil
	})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	// The swap succeeds even though releasing the old pipeline failed; the
	// error is still reported.
	if err := r.Reload(func(b *Builder) error {
		b.WithAdapter(second).WithMinLevel(LevelDebug)
		return nil
	}); !errors.Is(err, errFlush) {
		t.Fatalf("expected flush error, got %v", err)
	}

	r.Info().Msg("on the new pipeline")
	if got := second.rec.count(); got != 1 {
		t.Fatalf("second adapter logs: got %d want 1", got)
	}
	if got := first.rec.count(); got != 0 {
		t.Fatalf("first adapter logs: got %d want 0", got)
	}
}

func TestFreezePinsPipeline(t *testing.T) {
	t.Parallel()

	adapter := newStubAdapter()
	r, err := New(func(b *Builder) error {
		b.WithAdapter(adapter).WithMinLevel(LevelDebug)
		return nil
	})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	p, err := r.Freeze()
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if p == nil {
		t.Fatal("freeze returned nil pipeline")
	}

	// The returned pipeline is usable directly.
	p.Write(Entry{Level: LevelInfo, Message: "direct"})

	// The facade keeps logging through it.
	r.Info().Msg("via facade")

	if got := adapter.rec.count(); got != 2 {
		t.Fatalf("expected 2 logs, got %d", got)
	}

	if _, err := r.Freeze(); !errors.Is(err, ErrFrozen) {
		t.Fatalf("second freeze: got %v", err)
	}
	if err := r.Reload(nil); !errors.Is(err, ErrFrozen) {
		t.Fatalf("reload after freeze: got %v", err)
	}
	// The rejected reload must not have touched the pinned pipeline.
	if got := adapter.rec.syncCount(); got != 0 {
		t.Fatalf("pinned pipeline released by rejected reload: %d syncs", got)
	}
}

func TestBootstrapReloadFreezeLifecycle(t *testing.T) {
	t.Parallel()

	bootstrap := newStubAdapter()
	final := newStubAdapter()

	r, err := New(func(b *Builder) error {
		b.WithAdapter(bootstrap).WithMinLevel(LevelInfo)
		return nil
	})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	req := r.With(FStr("request_id", "r-7")).Named("http")
	req.Info().Msg("accepted")
	req.Debug().Msg("invisible at info")

	if err := r.Reload(func(b *Builder) error {
		b.WithAdapter(final).WithMinLevel(LevelDebug)
		return nil
	}); err != nil {
		t.Fatalf("reload: %v", err)
	}

	// Same handle, new pipeline, new minimum level.
	req.Debug().Msg("routed")

	if _, err := r.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}

	req.Info().Msg("served")

	logs := bootstrap.rec.entries()
	if len(logs) != 1 || logs[0].Msg != "accepted" {
		t.Fatalf("bootstrap adapter logs: %+v", logs)
	}
	logs = final.rec.entries()
	if len(logs) != 2 {
		t.Fatalf("final adapter logs: got %d want 2", len(logs))
	}
	for _, e := range logs {
		if e.Name != "http" {
			t.Fatalf("scope lost: %+v", e)
		}
		assertHasStr(t, e.Fields, "request_id", "r-7")
	}

	if err := r.Reload(nil); !errors.Is(err, ErrFrozen) {
		t.Fatalf("reload after freeze: got %v", err)
	}
}

func TestConcurrentReloadWriteFreeze(t *testing.T) {
	t.Parallel()

	set := &stubSet{}
	r, err := New(func(b *Builder) error {
		b.WithAdapter(set.next()).WithMinLevel(LevelDebug)
		return nil
	})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	handles := []Logger{
		r,
		r.With(FStr("svc", "api")),
		r.Named("api").With(FInt("shard", 3)),
	}

	const writers = 8
	const perWriter = 200

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < writers; i++ {
		h := handles[i%len(handles)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < perWriter; j++ {
				h.Info().Int("j", j).Msg("w")
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		for k := 0; k < 25; k++ {
			if err := r.Reload(nil); err != nil {
				t.Errorf("reload %d: %v", k, err)
				return
			}
		}
		if _, err := r.Freeze(); err != nil {
			t.Errorf("freeze: %v", err)
		}
	}()
	close(start)
	wg.Wait()

	// Every write lands on whichever pipeline was current at its moment;
	// none are dropped by the swaps or the freeze.
	handles[1].Info().Msg("after")
	if got := set.total(); got != writers*perWriter+1 {
		t.Fatalf("write count: got %d want %d", got, writers*perWriter+1)
	}
	if err := r.Reload(nil); !errors.Is(err, ErrFrozen) {
		t.Fatalf("reload after freeze: got %v", err)
	}
}
