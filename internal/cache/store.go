// Package cache provides the staleness-gated collection cache shared by
// every portal domain (crops, farmers, verifiers, admins). One generic
// store replaces the four near-identical per-domain caches of the
// original portal, so the refresh, merge, and patch rules cannot drift
// between domains.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is how long a fetched collection is considered fresh.
// There is no per-item TTL; staleness is a whole-collection property.
const DefaultTTL = 3 * time.Minute

// ErrFetchInFlight is returned when a refresh is requested while a
// previous one has not resolved. Overlapping refreshes of the same
// store would race last-writer-wins, so the later call is refused.
var ErrFetchInFlight = errors.New("fetch already in flight")

// Keyed is implemented by records with a primary id.
type Keyed interface {
	Key() string
}

// Observer receives fetch outcomes for metrics. Implementations must be
// safe for concurrent use.
type Observer interface {
	FetchObserved(domain, outcome string, seconds float64)
}

// FetchFunc loads the full collection from the backend.
type FetchFunc[T Keyed] func(ctx context.Context) ([]T, error)

// FetchByIDsFunc resolves a restricted id set in one round trip.
type FetchByIDsFunc[T Keyed] func(ctx context.Context, ids []string) ([]T, error)

// Store holds one domain collection plus its fetch bookkeeping. All
// methods are safe for concurrent use. Items stay unique by primary id;
// a successful full fetch replaces the collection, a by-ids fetch
// merges into it, and local mutations patch it in place without forcing
// a refetch.
type Store[T Keyed] struct {
	domain string

	mu          sync.Mutex
	items       []T
	index       map[string]int
	lastFetched time.Time
	loading     bool
	lastError   string

	// Patches applied while a fetch is in flight are replayed after the
	// replace lands, so an optimistic local write is never silently
	// undone by a slower bulk response.
	pending []pendingPatch[T]

	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
	observer Observer
}

type pendingPatch[T Keyed] struct {
	id     string
	mutate func(*T)
}

// Option configures a Store.
type Option[T Keyed] func(*Store[T])

// WithTTL overrides the freshness window.
func WithTTL[T Keyed](d time.Duration) Option[T] {
	return func(s *Store[T]) { s.ttl = d }
}

// WithClock overrides the time source. Used by tests to advance time.
func WithClock[T Keyed](now func() time.Time) Option[T] {
	return func(s *Store[T]) { s.now = now }
}

// WithObserver attaches a metrics observer.
func WithObserver[T Keyed](o Observer) Option[T] {
	return func(s *Store[T]) { s.observer = o }
}

// New creates an empty store for the named domain.
func New[T Keyed](domain string, logger *slog.Logger, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		domain: domain,
		index:  make(map[string]int),
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Domain returns the domain name the store was created for.
func (s *Store[T]) Domain() string { return s.domain }

// ShouldRefresh reports whether the collection has never been fetched
// or the freshness window has elapsed.
func (s *Store[T]) ShouldRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastFetched.IsZero() || s.now().Sub(s.lastFetched) > s.ttl
}

// FetchAll loads the full collection and replaces the cached items. A
// failed fetch records the error but keeps the previous items available
// for stale reads. A second FetchAll while one is in flight returns
// ErrFetchInFlight without touching the store.
func (s *Store[T]) FetchAll(ctx context.Context, fetch FetchFunc[T]) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		s.logger.Debug("refresh skipped, fetch in flight", "domain", s.domain)
		return ErrFetchInFlight
	}
	s.loading = true
	s.pending = s.pending[:0]
	s.mu.Unlock()

	start := s.now()
	items, err := fetch(ctx)
	elapsed := s.now().Sub(start).Seconds()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.lastError = err.Error()
		s.observe("error", elapsed)
		s.logger.Warn("fetch failed, keeping stale items",
			"domain", s.domain, "cached", len(s.items), "error", err)
		return fmt.Errorf("fetch %s: %w", s.domain, err)
	}

	s.replaceLocked(items)
	s.lastFetched = s.now()
	s.lastError = ""
	s.replayPendingLocked()
	s.observe("ok", elapsed)
	s.logger.Debug("collection refreshed", "domain", s.domain, "count", len(items))
	return nil
}

// FetchByIDs resolves the given ids in one bulk call and merges the
// results into the collection by primary id. An empty id set performs
// no network call. LastFetched is not advanced: a partial lookup does
// not make the whole collection fresh.
func (s *Store[T]) FetchByIDs(ctx context.Context, ids []string, fetch FetchByIDsFunc[T]) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	start := s.now()
	items, err := fetch(ctx, ids)
	elapsed := s.now().Sub(start).Seconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastError = err.Error()
		s.observe("error", elapsed)
		return nil, fmt.Errorf("fetch %s by ids: %w", s.domain, err)
	}

	s.mergeLocked(items)
	s.lastError = ""
	s.observe("ok", elapsed)
	return items, nil
}

// Add prepends a record, typically right after a successful create call
// and ahead of any background refresh. A record with the same id is
// replaced in place instead.
func (s *Store[T]) Add(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[item.Key()]; ok {
		s.items[i] = item
		return
	}
	s.items = append([]T{item}, s.items...)
	s.reindexLocked()
}

// Update applies a mutation to the record with the given id. Missing
// ids are a no-op. If a full fetch is in flight the patch is also
// queued for replay after the replace lands.
func (s *Store[T]) Update(id string, mutate func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		s.pending = append(s.pending, pendingPatch[T]{id: id, mutate: mutate})
	}
	if i, ok := s.index[id]; ok {
		mutate(&s.items[i])
	}
}

// RemoveByID filters the record out of the collection. Missing ids are
// a no-op.
func (s *Store[T]) RemoveByID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.reindexLocked()
}

// MergeByID merges records into the collection, replacing records with
// matching ids and appending new ones.
func (s *Store[T]) MergeByID(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mergeLocked(items)
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[id]; ok {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Items returns a copy of the collection in display order.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// MissingIDs returns the subset of ids not present in the collection,
// preserving input order and dropping duplicates.
func (s *Store[T]) MissingIDs(ids []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(ids))
	var missing []string
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := s.index[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Len returns the number of cached records.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// LastFetched returns the time of the last successful full fetch, or
// the zero time if none has happened.
func (s *Store[T]) LastFetched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFetched
}

// LastError returns the most recent fetch error message, or "" after a
// successful fetch.
func (s *Store[T]) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Loading reports whether a full fetch is in flight.
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Clear resets the store to its initial empty state. Called from the
// logout path and on authentication rejection.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.index = make(map[string]int)
	s.lastFetched = time.Time{}
	s.lastError = ""
	s.pending = nil
}

// Snapshot returns the items and fetch timestamp for persistence.
func (s *Store[T]) Snapshot() ([]T, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out, s.lastFetched
}

// Restore installs a persisted snapshot. The staleness clock keeps
// running from the persisted timestamp, so a restart does not make an
// old snapshot look fresh.
func (s *Store[T]) Restore(items []T, lastFetched time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked(items)
	s.lastFetched = lastFetched
	s.lastError = ""
}

func (s *Store[T]) replaceLocked(items []T) {
	s.items = make([]T, len(items))
	copy(s.items, items)
	s.reindexLocked()
}

func (s *Store[T]) mergeLocked(items []T) {
	for _, item := range items {
		if i, ok := s.index[item.Key()]; ok {
			s.items[i] = item
			continue
		}
		s.items = append(s.items, item)
		s.index[item.Key()] = len(s.items) - 1
	}
}

func (s *Store[T]) replayPendingLocked() {
	for _, p := range s.pending {
		if i, ok := s.index[p.id]; ok {
			p.mutate(&s.items[i])
		}
	}
	s.pending = nil
}

func (s *Store[T]) reindexLocked() {
	s.index = make(map[string]int, len(s.items))
	for i, item := range s.items {
		s.index[item.Key()] = i
	}
}

func (s *Store[T]) observe(outcome string, seconds float64) {
	if s.observer != nil {
		s.observer.FetchObserved(s.domain, outcome, seconds)
	}
}
