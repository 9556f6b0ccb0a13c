// Package state persists the portal's client-side state: the session
// and one snapshot per domain cache. Two backends are provided: an
// atomic JSON file (with file locking and backup) and a SQLite
// key-value table. Both hold the same PortalState document.
package state

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/session"
)

// SchemaVersion is the PortalState schema version.
const SchemaVersion = "1"

// Domain names used as snapshot keys. One snapshot per cache store.
const (
	DomainCrops     = "crops"
	DomainFarmers   = "farmers"
	DomainVerifiers = "verifiers"
	DomainAdmins    = "admins"
)

// PortalState is the top-level persisted document. It is written as a
// whole on every save; the stores map replaces the per-key browser
// storage blobs of the original portal.
type PortalState struct {
	// Version is the schema version for forward compatibility.
	Version string `json:"version"`

	// Session is the persisted session, nil when anonymous.
	Session *session.Session `json:"session,omitempty"`

	// Stores holds one snapshot per domain cache, keyed by domain name.
	Stores map[string]Snapshot `json:"stores"`

	// CreatedAt is when this state was first created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when this state was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is a persisted cache collection. Items keeps the records in
// their domain shape; Checksum guards against torn or hand-edited
// payloads, and a snapshot that fails its checksum is discarded rather
// than restored.
type Snapshot struct {
	// Items is the JSON-encoded record slice.
	Items json.RawMessage `json:"items"`

	// LastFetched is the collection's fetch timestamp at save time.
	LastFetched time.Time `json:"last_fetched,omitempty"`

	// Checksum is the xxhash64 of Items, hex-encoded.
	Checksum string `json:"checksum"`
}

// NewSnapshot encodes a record slice into a checksummed snapshot.
func NewSnapshot(items any, lastFetched time.Time) (Snapshot, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal snapshot items: %w", err)
	}
	return Snapshot{
		Items:       data,
		LastFetched: lastFetched,
		Checksum:    checksum(data),
	}, nil
}

// Decode unmarshals the snapshot items into target after verifying the
// checksum.
func (s Snapshot) Decode(target any) error {
	if got := checksum(s.Items); got != s.Checksum {
		return fmt.Errorf("snapshot checksum mismatch: have %s, want %s", got, s.Checksum)
	}
	if err := json.Unmarshal(s.Items, target); err != nil {
		return fmt.Errorf("unmarshal snapshot items: %w", err)
	}
	return nil
}

func checksum(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// DefaultState returns an empty anonymous PortalState.
func DefaultState() *PortalState {
	now := time.Now().UTC()
	return &PortalState{
		Version:   SchemaVersion,
		Stores:    map[string]Snapshot{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
