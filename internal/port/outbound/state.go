package outbound

import "github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/adapter/outbound/state"

// StateStore is the outbound port for persisting portal state across
// runs. Implemented by the file and SQLite backends.
type StateStore interface {
	// Load reads the persisted state, or an empty default when none
	// exists yet.
	Load() (*state.PortalState, error)

	// Save writes the state, replacing whatever was persisted before.
	Save(*state.PortalState) error

	// Reset discards the persisted state entirely.
	Reset() error

	// Path identifies the backing file for logs and messages.
	Path() string
}
