package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/cache"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/crop"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/farmer"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/verifier"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/metrics"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/port/outbound"
)

// Hydrator backfills the farmer and verifier caches with the records a
// freshly fetched crop collection references. Ids already cached are
// not re-requested; each missing set costs one bulk call. Crop lists
// render before hydration resolves, so a consumer must treat an absent
// sibling record as "not loaded yet", never as an error.
type Hydrator struct {
	farmers   *cache.Store[farmer.Farmer]
	verifiers *cache.Store[verifier.Verifier]
	backend   outbound.BackendAPI
	metrics   *metrics.Metrics
	logger    *slog.Logger

	wg sync.WaitGroup
}

// NewHydrator creates a Hydrator over the two sibling caches.
func NewHydrator(
	farmers *cache.Store[farmer.Farmer],
	verifiers *cache.Store[verifier.Verifier],
	backend outbound.BackendAPI,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Hydrator {
	return &Hydrator{
		farmers:   farmers,
		verifiers: verifiers,
		backend:   backend,
		metrics:   m,
		logger:    logger,
	}
}

// Hydrate resolves the farmer and verifier ids the given crops
// reference but the sibling caches do not yet hold. Results merge into
// the caches by primary id; records already cached are untouched.
func (h *Hydrator) Hydrate(ctx context.Context, crops []crop.Crop) error {
	farmerIDs := h.farmers.MissingIDs(crop.FarmerIDs(crops))
	verifierIDs := h.verifiers.MissingIDs(crop.VerifierIDs(crops))

	if len(farmerIDs) > 0 {
		h.metrics.HydrationBatches.WithLabelValues(h.farmers.Domain()).Inc()
		if _, err := h.farmers.FetchByIDs(ctx, farmerIDs, h.backend.FarmersByIDs); err != nil {
			return err
		}
		h.logger.Debug("hydrated farmers", "count", len(farmerIDs))
	}

	if len(verifierIDs) > 0 {
		h.metrics.HydrationBatches.WithLabelValues(h.verifiers.Domain()).Inc()
		if _, err := h.verifiers.FetchByIDs(ctx, verifierIDs, h.backend.VerifiersByIDs); err != nil {
			return err
		}
		h.logger.Debug("hydrated verifiers", "count", len(verifierIDs))
	}

	return nil
}

// HydrateAsync runs Hydrate off the caller's path. Failures are logged,
// not returned: hydration backfills detail panels, it never gates the
// primary render.
func (h *Hydrator) HydrateAsync(ctx context.Context, crops []crop.Crop) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.Hydrate(ctx, crops); err != nil {
			h.logger.Warn("hydration failed", "error", err)
		}
	}()
}

// Wait blocks until all async hydrations have resolved. Called before
// persisting state and in tests.
func (h *Hydrator) Wait() {
	h.wg.Wait()
}
