// Package service wires the portal together: the session, the four
// domain caches, cross-store hydration, role access rules, and the
// persisted client state. A Portal is constructed explicitly at startup
// and passed to consumers; there are no package-level singletons.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/adapter/outbound/state"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/cache"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/access"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/admin"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/crop"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/farmer"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/session"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/verifier"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/metrics"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/port/outbound"
)

// Deps are the collaborators a Portal needs. Sessions is shared with
// the API client so the client reads the live token.
type Deps struct {
	Sessions *session.Manager
	Backend  outbound.BackendAPI
	States   outbound.StateStore
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	// CacheTTL overrides the collection freshness window. Zero keeps
	// the default.
	CacheTTL time.Duration
}

// Portal is the application context object: it owns the caches and
// enforces the session and access rules around every operation.
type Portal struct {
	sessions *session.Manager
	backend  outbound.BackendAPI
	states   outbound.StateStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
	guard    *AccessGuard

	crops     *cache.Store[crop.Crop]
	farmers   *cache.Store[farmer.Farmer]
	verifiers *cache.Store[verifier.Verifier]
	admins    *cache.Store[admin.Admin]

	hydrator *Hydrator
}

// NewPortal constructs a Portal. Call Init before use and Close before
// process exit.
func NewPortal(deps Deps) (*Portal, error) {
	guard, err := NewAccessGuard(access.DefaultRules())
	if err != nil {
		return nil, fmt.Errorf("compile access rules: %w", err)
	}

	p := &Portal{
		sessions: deps.Sessions,
		backend:  deps.Backend,
		states:   deps.States,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		guard:    guard,
	}

	var cropOpts []cache.Option[crop.Crop]
	var farmerOpts []cache.Option[farmer.Farmer]
	var verifierOpts []cache.Option[verifier.Verifier]
	var adminOpts []cache.Option[admin.Admin]
	if deps.CacheTTL > 0 {
		cropOpts = append(cropOpts, cache.WithTTL[crop.Crop](deps.CacheTTL))
		farmerOpts = append(farmerOpts, cache.WithTTL[farmer.Farmer](deps.CacheTTL))
		verifierOpts = append(verifierOpts, cache.WithTTL[verifier.Verifier](deps.CacheTTL))
		adminOpts = append(adminOpts, cache.WithTTL[admin.Admin](deps.CacheTTL))
	}
	cropOpts = append(cropOpts, cache.WithObserver[crop.Crop](deps.Metrics))
	farmerOpts = append(farmerOpts, cache.WithObserver[farmer.Farmer](deps.Metrics))
	verifierOpts = append(verifierOpts, cache.WithObserver[verifier.Verifier](deps.Metrics))
	adminOpts = append(adminOpts, cache.WithObserver[admin.Admin](deps.Metrics))

	p.crops = cache.New[crop.Crop](state.DomainCrops, deps.Logger, cropOpts...)
	p.farmers = cache.New[farmer.Farmer](state.DomainFarmers, deps.Logger, farmerOpts...)
	p.verifiers = cache.New[verifier.Verifier](state.DomainVerifiers, deps.Logger, verifierOpts...)
	p.admins = cache.New[admin.Admin](state.DomainAdmins, deps.Logger, adminOpts...)

	p.hydrator = NewHydrator(p.farmers, p.verifiers, deps.Backend, deps.Metrics, deps.Logger)

	return p, nil
}

// Init loads the persisted state: the session (if still valid) and the
// cache snapshots. A snapshot that fails its checksum is skipped; the
// store just starts empty and stale.
func (p *Portal) Init(ctx context.Context) error {
	st, err := p.states.Load()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	if st.Session != nil {
		p.sessions.Restore(st.Session)
	}
	if _, ok := p.sessions.Current(); ok {
		p.metrics.SessionActive.Set(1)
	}

	restoreSnapshot(p.logger, st, state.DomainCrops, p.crops)
	restoreSnapshot(p.logger, st, state.DomainFarmers, p.farmers)
	restoreSnapshot(p.logger, st, state.DomainVerifiers, p.verifiers)
	restoreSnapshot(p.logger, st, state.DomainAdmins, p.admins)

	return nil
}

// Close waits for in-flight hydration and persists the current state.
func (p *Portal) Close() error {
	p.hydrator.Wait()
	return p.persist()
}

// persist writes the session and all cache snapshots.
func (p *Portal) persist() error {
	st := state.DefaultState()

	if sess, ok := p.sessions.Current(); ok {
		st.Session = &sess
	}

	if err := addSnapshot(st, state.DomainCrops, p.crops); err != nil {
		return err
	}
	if err := addSnapshot(st, state.DomainFarmers, p.farmers); err != nil {
		return err
	}
	if err := addSnapshot(st, state.DomainVerifiers, p.verifiers); err != nil {
		return err
	}
	if err := addSnapshot(st, state.DomainAdmins, p.admins); err != nil {
		return err
	}

	return p.states.Save(st)
}

// Login authenticates and installs the session. On success the session
// and remember-me email are persisted immediately.
func (p *Portal) Login(ctx context.Context, email, password string, rememberMe bool) (*session.Session, error) {
	if err := p.sessions.Begin(); err != nil {
		return nil, err
	}

	result, err := p.backend.Login(ctx, email, password)
	if err != nil {
		p.sessions.Fail()
		return nil, err
	}

	sess := &session.Session{
		Token:      result.Token,
		Role:       result.Role,
		Email:      email,
		RememberMe: rememberMe,
		User:       &result.Profile,
		CreatedAt:  time.Now().UTC(),
		ExpiresAt:  session.TokenExpiry(result.Token),
	}
	p.sessions.Complete(sess)
	p.metrics.SessionActive.Set(1)

	if err := p.persist(); err != nil {
		p.logger.Warn("failed to persist session", "error", err)
	}
	return sess, nil
}

// Logout clears the session, every cache, and the persisted state.
func (p *Portal) Logout() error {
	p.sessions.Clear()
	p.clearCaches()
	p.metrics.SessionActive.Set(0)
	return p.states.Save(state.DefaultState())
}

// AuthRejected handles a 401/403 observed by any API call: identical to
// logout, so no stale authenticated data leaks into the next session.
func (p *Portal) AuthRejected() {
	p.logger.Warn("session rejected by backend, clearing local state")
	if err := p.Logout(); err != nil {
		p.logger.Warn("failed to clear persisted state", "error", err)
	}
}

// Session returns a copy of the active session for display.
func (p *Portal) Session() (session.Session, bool) {
	return p.sessions.Current()
}

func (p *Portal) clearCaches() {
	p.crops.Clear()
	p.farmers.Clear()
	p.verifiers.Clear()
	p.admins.Clear()
}

// requireAccess checks both the session and the access rule for op.
func (p *Portal) requireAccess(op access.Operation) (session.Session, error) {
	sess, ok := p.sessions.Current()
	if !ok {
		return session.Session{}, session.ErrNotAuthenticated
	}

	in := access.Input{Operation: op, Role: string(sess.Role)}
	if sess.User != nil {
		in.Taluka = sess.User.Taluka
		in.District = sess.User.District
	}
	if err := p.guard.Check(in); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

// Crops returns the crop collection, refreshing it when stale and
// kicking off sibling hydration after a successful refresh. A failed
// refresh over a non-empty cache serves the stale items; the staleness
// reason stays readable via CropsError.
func (p *Portal) Crops(ctx context.Context) ([]crop.Crop, error) {
	if _, err := p.requireAccess(access.OpListCrops); err != nil {
		return nil, err
	}

	if p.crops.ShouldRefresh() {
		err := p.crops.FetchAll(ctx, p.backend.ListCrops)
		switch {
		case err == nil:
			p.hydrator.HydrateAsync(ctx, p.crops.Items())
		case errors.Is(err, cache.ErrFetchInFlight):
			// Another caller is already refreshing; serve what we have.
		case p.crops.Len() == 0:
			return nil, err
		default:
			p.metrics.StaleReads.WithLabelValues(p.crops.Domain()).Inc()
		}
	}

	return p.crops.Items(), nil
}

// CropsError returns the last crop fetch error message, "" when the
// last fetch succeeded.
func (p *Portal) CropsError() string { return p.crops.LastError() }

// RecentCrops fetches the latest submissions. Recency defeats the
// whole-collection staleness model, so this bypasses the cache but
// still merges results into it and hydrates siblings.
func (p *Portal) RecentCrops(ctx context.Context) ([]crop.Crop, error) {
	if _, err := p.requireAccess(access.OpListCrops); err != nil {
		return nil, err
	}

	recent, err := p.backend.RecentCrops(ctx)
	if err != nil {
		return nil, err
	}
	p.crops.MergeByID(recent)
	p.hydrator.HydrateAsync(ctx, recent)
	return recent, nil
}

// WaitHydration blocks until in-flight sibling hydration finishes.
// Callers rendering crop references use it to avoid racing the
// background by-ids fetches.
func (p *Portal) WaitHydration() { p.hydrator.Wait() }

// Farmers returns the farmer collection, refreshing it when stale.
func (p *Portal) Farmers(ctx context.Context) ([]farmer.Farmer, error) {
	if _, err := p.requireAccess(access.OpListFarmers); err != nil {
		return nil, err
	}
	if err := refreshStore(ctx, p, p.farmers, p.backend.ListFarmers); err != nil {
		return nil, err
	}
	return p.farmers.Items(), nil
}

// FarmersError returns the last farmer fetch error message.
func (p *Portal) FarmersError() string { return p.farmers.LastError() }

// Farmer returns a cached farmer by id, for crop detail rendering.
// A missing record means "not loaded yet", not an error.
func (p *Portal) Farmer(id string) (farmer.Farmer, bool) {
	return p.farmers.Get(id)
}

// Verifiers returns the verifier collection. Taluka officers are
// restricted to the verifier ids assigned on their profile and resolve
// them through the bulk-by-ids endpoint; other roles get the full
// staleness-gated collection.
func (p *Portal) Verifiers(ctx context.Context) ([]verifier.Verifier, error) {
	sess, err := p.requireAccess(access.OpListVerifiers)
	if err != nil {
		return nil, err
	}

	if sess.Role == session.RoleTalukaOfficer && sess.User != nil {
		return p.assignedVerifiers(ctx, sess.User.VerifierIDs)
	}

	if err := refreshStore(ctx, p, p.verifiers, p.backend.ListVerifiers); err != nil {
		return nil, err
	}
	return p.verifiers.Items(), nil
}

// assignedVerifiers resolves a restricted id set, fetching only the
// ids the cache does not already hold. An empty assignment resolves to
// an empty list without a network call.
func (p *Portal) assignedVerifiers(ctx context.Context, ids []string) ([]verifier.Verifier, error) {
	missing := p.verifiers.MissingIDs(ids)
	if _, err := p.verifiers.FetchByIDs(ctx, missing, p.backend.VerifiersByIDs); err != nil {
		return nil, err
	}

	out := make([]verifier.Verifier, 0, len(ids))
	for _, id := range ids {
		if v, ok := p.verifiers.Get(id); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// VerifiersError returns the last verifier fetch error message.
func (p *Portal) VerifiersError() string { return p.verifiers.LastError() }

// Verifier returns a cached verifier by id.
func (p *Portal) Verifier(id string) (verifier.Verifier, bool) {
	return p.verifiers.Get(id)
}

// Admins returns the officer accounts. Super-admin only.
func (p *Portal) Admins(ctx context.Context) ([]admin.Admin, error) {
	if _, err := p.requireAccess(access.OpListAdmins); err != nil {
		return nil, err
	}
	if err := refreshStore(ctx, p, p.admins, p.backend.ListAdmins); err != nil {
		return nil, err
	}
	return p.admins.Items(), nil
}

// AdminsError returns the last admin fetch error message.
func (p *Portal) AdminsError() string { return p.admins.LastError() }

// RegisterVerifier validates, normalizes, and submits a registration,
// then prepends the created record to the cache ahead of any refresh.
func (p *Portal) RegisterVerifier(ctx context.Context, reg *verifier.Registration) (*verifier.Verifier, error) {
	if _, err := p.requireAccess(access.OpRegisterVerifier); err != nil {
		return nil, err
	}

	reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	created, err := p.backend.RegisterVerifier(ctx, reg)
	if err != nil {
		return nil, err
	}
	p.verifiers.Add(*created)
	return created, nil
}

// UpdateVerifier submits a partial update and patches the cache with
// the record as the backend stored it.
func (p *Portal) UpdateVerifier(ctx context.Context, id string, patch map[string]any) (*verifier.Verifier, error) {
	if _, err := p.requireAccess(access.OpUpdateVerifier); err != nil {
		return nil, err
	}

	updated, err := p.backend.UpdateVerifier(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	p.verifiers.Update(id, func(v *verifier.Verifier) { *v = *updated })
	return updated, nil
}

// VerifyVerifier marks a verifier as verified and patches the cache
// optimistically instead of refetching the collection.
func (p *Portal) VerifyVerifier(ctx context.Context, id string) error {
	if _, err := p.requireAccess(access.OpVerifyVerifier); err != nil {
		return err
	}

	if err := p.backend.VerifyVerifier(ctx, id); err != nil {
		return err
	}
	p.verifiers.Update(id, func(v *verifier.Verifier) { v.IsVerified = true })
	return nil
}

// DeleteVerifier removes a verifier and filters it out of the cache.
func (p *Portal) DeleteVerifier(ctx context.Context, id string) error {
	if _, err := p.requireAccess(access.OpDeleteVerifier); err != nil {
		return err
	}

	if err := p.backend.DeleteVerifier(ctx, id); err != nil {
		return err
	}
	p.verifiers.RemoveByID(id)
	return nil
}

// refreshStore runs the staleness-gated fetch shared by the list paths.
// A failed fetch over a non-empty cache is downgraded to a stale read.
func refreshStore[T cache.Keyed](ctx context.Context, p *Portal, s *cache.Store[T], fetch cache.FetchFunc[T]) error {
	if !s.ShouldRefresh() {
		return nil
	}
	err := s.FetchAll(ctx, fetch)
	switch {
	case err == nil, errors.Is(err, cache.ErrFetchInFlight):
		return nil
	case s.Len() == 0:
		return err
	default:
		p.metrics.StaleReads.WithLabelValues(s.Domain()).Inc()
		return nil
	}
}

func restoreSnapshot[T cache.Keyed](logger *slog.Logger, st *state.PortalState, domain string, s *cache.Store[T]) {
	snap, ok := st.Stores[domain]
	if !ok {
		return
	}
	var items []T
	if err := snap.Decode(&items); err != nil {
		logger.Warn("discarding persisted snapshot", "domain", domain, "error", err)
		return
	}
	s.Restore(items, snap.LastFetched)
}

func addSnapshot[T cache.Keyed](st *state.PortalState, domain string, s *cache.Store[T]) error {
	items, lastFetched := s.Snapshot()
	snap, err := state.NewSnapshot(items, lastFetched)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", domain, err)
	}
	st.Stores[domain] = snap
	return nil
}
