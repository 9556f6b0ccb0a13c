// Package session manages the authenticated portal session: the bearer
// token, the role it was issued for, and the signed-in user's profile.
package session

import (
	"errors"
	"fmt"
	"time"
)

// Role is the portal role a session was issued for. Roles scope which
// operations and geographic units an account may act on.
type Role string

const (
	RoleTalukaOfficer   Role = "talukaOfficer"
	RoleDistrictOfficer Role = "districtOfficer"
	RoleSuperAdmin      Role = "superAdmin"
	RoleAdmin           Role = "admin"
	RoleFarmer          Role = "farmer"
)

// ParseRole validates a role string received from the backend.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleTalukaOfficer, RoleDistrictOfficer, RoleSuperAdmin, RoleAdmin, RoleFarmer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Profile is the signed-in user's profile as returned by the login
// endpoint. AllocatedTaluka is set for taluka officers and restricts
// which verifier ids they may resolve.
type Profile struct {
	ID              string   `json:"_id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Taluka          string   `json:"taluka,omitempty"`
	District        string   `json:"district,omitempty"`
	AllocatedTaluka []string `json:"allocatedTaluka,omitempty"`
	VerifierIDs     []string `json:"verifiers,omitempty"`
}

// Session holds everything the client persists about an authenticated
// user. A session is considered active iff Token is non-empty.
type Session struct {
	Token      string    `json:"token"`
	Role       Role      `json:"role"`
	Email      string    `json:"email"`
	RememberMe bool      `json:"rememberMe"`
	User       *Profile  `json:"user,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt,omitempty"`
}

// Active reports whether the session holds a token.
func (s *Session) Active() bool {
	return s != nil && s.Token != ""
}

// Expired reports whether the token's exp claim has passed. Sessions
// whose tokens carry no exp claim never expire locally; the backend
// rejects them with 401 when they do.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt)
}

// State is the session lifecycle state.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotAuthenticated is returned when an operation requires an
	// active session and none exists.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrLoginInFlight is returned when a login is attempted while a
	// previous login request has not resolved.
	ErrLoginInFlight = errors.New("login already in flight")
)
