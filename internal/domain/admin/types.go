// Package admin defines officer account records (taluka officers,
// district officers, and super-admins).
package admin

import "time"

// Admin is an officer account. Taluka and District scope which records
// the account may see; VerifierIDs restricts taluka officers to the
// verifiers assigned on their profile.
type Admin struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Taluka      string    `json:"taluka,omitempty"`
	District    string    `json:"district,omitempty"`
	VerifierIDs []string  `json:"verifiers,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Key returns the primary id. It satisfies the cache key contract.
func (a Admin) Key() string { return a.ID }
