package cache

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"
)

type record struct {
	ID   string
	Name string
}

func (r record) Key() string { return r.ID }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func fetchOf(items ...record) FetchFunc[record] {
	return func(ctx context.Context) ([]record, error) {
		return items, nil
	}
}

func TestShouldRefresh_NeverFetched(t *testing.T) {
	t.Parallel()

	s := New[record]("records", testLogger())
	if !s.ShouldRefresh() {
		t.Error("a never-fetched store must want a refresh")
	}
}

func TestShouldRefresh_StalenessWindow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := New("records", testLogger(), WithClock[record](clock.Now))

	if err := s.FetchAll(context.Background(), fetchOf(record{ID: "a"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	if s.ShouldRefresh() {
		t.Error("fresh collection must not want a refresh")
	}

	// Exactly at the TTL boundary the collection is still fresh.
	clock.Advance(DefaultTTL)
	if s.ShouldRefresh() {
		t.Error("collection at exactly the TTL must still be fresh")
	}

	clock.Advance(time.Second)
	if !s.ShouldRefresh() {
		t.Error("collection past the TTL must want a refresh")
	}
}

func TestFetchAll_ReplacesCollection(t *testing.T) {
	t.Parallel()

	s := New[record]("records", testLogger())
	ctx := context.Background()

	if err := s.FetchAll(ctx, fetchOf(record{ID: "a"}, record{ID: "b"}, record{ID: "c"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	// A record deleted server-side must disappear on the next fetch,
	// not linger merged into the old collection.
	if err := s.FetchAll(ctx, fetchOf(record{ID: "a"}, record{ID: "c"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() after re-fetch = %d, want 2", s.Len())
	}
	if _, ok := s.Get("b"); ok {
		t.Error("record deleted upstream still present after full fetch")
	}
}

func TestFetchAll_ErrorKeepsStaleItems(t *testing.T) {
	t.Parallel()

	s := New[record]("records", testLogger())
	ctx := context.Background()

	if err := s.FetchAll(ctx, fetchOf(record{ID: "a"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	before := s.LastFetched()

	boom := errors.New("backend unreachable")
	err := s.FetchAll(ctx, func(ctx context.Context) ([]record, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("FetchAll() error = %v, want wrapped %v", err, boom)
	}

	if s.Len() != 1 {
		t.Errorf("Len() after failed fetch = %d, want 1 stale item", s.Len())
	}
	if s.LastError() == "" {
		t.Error("LastError() must record the failure")
	}
	if !s.LastFetched().Equal(before) {
		t.Error("a failed fetch must not advance LastFetched")
	}

	// The next success clears the error.
	if err := s.FetchAll(ctx, fetchOf(record{ID: "a"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if s.LastError() != "" {
		t.Errorf("LastError() after success = %q, want empty", s.LastError())
	}
}

func TestFetchAll_InFlightGuard(t *testing.T) {
	t.Parallel()

	s := New[record]("records", testLogger())
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.FetchAll(ctx, func(ctx context.Context) ([]record, error) {
			close(started)
			<-release
			return []record{{ID: "a"}}, nil
		})
	}()

	<-started
	if !s.Loading() {
		t.Error("Loading() must be true while a fetch is in flight")
	}

	err := s.FetchAll(ctx, fetchOf(record{ID: "x"}))
	if !errors.Is(err, ErrFetchInFlight) {
		t.Fatalf("overlapping FetchAll() error = %v, want ErrFetchInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first FetchAll() error = %v", err)
	}

	// The refused call must not have touched the store.
	if _, ok := s.Get("x"); ok {
		t.Error("refused fetch leaked items into the store")
	}
	if _, ok := s.Get("a"); !ok {
		t.Error("winning fetch result missing")
	}
}

func TestUpdate_ReplayedAfterInFlightFetch(t *testing.T) {
	t.Parallel()

	s := New[record]("records", testLogger())
	ctx := context.Background()

	if err := s.FetchAll(ctx, fetchOf(record{ID: "a", Name: "old"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.FetchAll(ctx, func(ctx context.Context) ([]record, error) {
			close(started)
			<-release
			// The server response predates the local patch.
			return []record{{ID: "a", Name: "server"}}, nil
		})
	}()

	<-started
	s.Update("a", func(r *record) { r.Name = "patched" })
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	got, ok := s.Get("a")
	if !ok {
		t.Fatal("record missing after fetch")
	}
	if got.Name != "patched" {
		t.Errorf("Name = %q, want the local patch to win over the slower fetch", got.Name)
	}
}

func TestFetchByIDs_MergesWithoutAdvancingFreshness(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := New("records", testLogger(), WithClock[record](clock.Now))
	ctx := context.Background()

	if err := s.FetchAll(ctx, fetchOf(record{ID: "a", Name: "old"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	fetched := s.LastFetched()

	clock.Advance(time.Minute)
	got, err := s.FetchByIDs(ctx, []string{"a", "b"}, func(ctx context.Context, ids []string) ([]record, error) {
		return []record{{ID: "a", Name: "new"}, {ID: "b"}}, nil
	})
	if err != nil {
		t.Fatalf("FetchByIDs() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FetchByIDs() returned %d items, want 2", len(got))
	}

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 after merge", s.Len())
	}
	if r, _ := s.Get("a"); r.Name != "new" {
		t.Errorf("existing record not replaced by merge: Name = %q", r.Name)
	}
	if !s.LastFetched().Equal(fetched) {
		t.Error("a by-ids merge must not advance LastFetched")
	}
}

func TestFetchByIDs_EmptySetSkipsNetwork(t *testing.T) {
	t.Parallel()

	s := New[record]("records", testLogger())
	calls := 0
	got, err := s.FetchByIDs(context.Background(), nil, func(ctx context.Context, ids []string) ([]record, error) {
		calls++
		return nil, nil
	})
	if err != nil {
		t.Fatalf("FetchByIDs() error = %v", err)
	}
	if got != nil {
		t.Errorf("FetchByIDs() = %v, want nil", got)
	}
	if calls != 0 {
		t.Errorf("fetch called %d times for an empty id set, want 0", calls)
	}
}

func TestAdd_PrependsAndReplaces(t *testing.T) {
	t.Parallel()

	s := New[record]("records", testLogger())
	if err := s.FetchAll(context.Background(), fetchOf(record{ID: "a"}, record{ID: "b"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	s.Add(record{ID: "c", Name: "new"})
	items := s.Items()
	if items[0].ID != "c" {
		t.Errorf("new record at position %q, want prepended", items[0].ID)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	// Adding an existing id replaces in place.
	s.Add(record{ID: "c", Name: "replaced"})
	if s.Len() != 3 {
		t.Errorf("Len() after duplicate Add = %d, want 3", s.Len())
	}
	if r, _ := s.Get("c"); r.Name != "replaced" {
		t.Errorf("Name = %q, want replaced", r.Name)
	}
}

func TestUpdate_MutatesInPlace(t *testing.T) {
	t.Parallel()

	s := New[record]("records", testLogger())
	if err := s.FetchAll(context.Background(), fetchOf(record{ID: "a", Name: "x"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	s.Update("a", func(r *record) { r.Name = "y" })
	if r, _ := s.Get("a"); r.Name != "y" {
		t.Errorf("Name = %q, want y", r.Name)
	}

	// Applying the same patch twice must not change the result.
	s.Update("a", func(r *record) { r.Name = "y" })
	if r, _ := s.Get("a"); r.Name != "y" {
		t.Errorf("Name after repeated patch = %q, want y", r.Name)
	}

	// Missing ids are a silent no-op.
	s.Update("missing", func(r *record) { r.Name = "z" })
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestRemoveByID(t *testing.T) {
	t.Parallel()

	s := New[record]("records", testLogger())
	if err := s.FetchAll(context.Background(), fetchOf(record{ID: "a"}, record{ID: "b"}, record{ID: "c"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	s.RemoveByID("b")
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if _, ok := s.Get("b"); ok {
		t.Error("removed record still retrievable")
	}
	// The index must follow the compaction.
	if _, ok := s.Get("c"); !ok {
		t.Error("record after the removed one no longer retrievable")
	}

	s.RemoveByID("nope")
	if s.Len() != 2 {
		t.Errorf("Len() after removing a missing id = %d, want 2", s.Len())
	}
}

func TestMissingIDs(t *testing.T) {
	t.Parallel()

	s := New[record]("records", testLogger())
	if err := s.FetchAll(context.Background(), fetchOf(record{ID: "a"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	missing := s.MissingIDs([]string{"a", "b", "b", "c"})
	if len(missing) != 2 || missing[0] != "b" || missing[1] != "c" {
		t.Errorf("MissingIDs() = %v, want [b c]", missing)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := New[record]("records", testLogger())
	if err := s.FetchAll(context.Background(), fetchOf(record{ID: "a"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if !s.LastFetched().IsZero() {
		t.Error("LastFetched must reset on Clear")
	}
	if !s.ShouldRefresh() {
		t.Error("a cleared store must want a refresh")
	}
}

func TestRestore_KeepsStalenessClock(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := New("records", testLogger(), WithClock[record](clock.Now))

	// A snapshot persisted four minutes ago is already past the TTL.
	old := clock.Now().Add(-4 * time.Minute)
	s.Restore([]record{{ID: "a"}}, old)

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if !s.ShouldRefresh() {
		t.Error("restored stale snapshot must still want a refresh")
	}

	// A fresh snapshot does not.
	s.Restore([]record{{ID: "a"}}, clock.Now().Add(-time.Minute))
	if s.ShouldRefresh() {
		t.Error("restored fresh snapshot must not want a refresh")
	}
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *countingObserver) FetchObserved(domain, outcome string, seconds float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, domain+"/"+outcome)
}

func TestObserver_SeesOutcomes(t *testing.T) {
	t.Parallel()

	obs := &countingObserver{}
	s := New("records", testLogger(), WithObserver[record](obs))
	ctx := context.Background()

	if err := s.FetchAll(ctx, fetchOf(record{ID: "a"})); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	boom := errors.New("down")
	_ = s.FetchAll(ctx, func(ctx context.Context) ([]record, error) { return nil, boom })

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if len(obs.outcomes) != 2 {
		t.Fatalf("observed %d outcomes, want 2", len(obs.outcomes))
	}
	if obs.outcomes[0] != "records/ok" || obs.outcomes[1] != "records/error" {
		t.Errorf("outcomes = %v, want [records/ok records/error]", obs.outcomes)
	}
}
