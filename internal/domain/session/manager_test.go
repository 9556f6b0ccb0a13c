package session

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testSession() *Session {
	return &Session{
		Token:     "tok",
		Role:      RoleSuperAdmin,
		Email:     "admin@example.org",
		CreatedAt: time.Now(),
	}
}

func TestManager_Lifecycle(t *testing.T) {
	t.Parallel()

	m := NewManager(testLogger())
	if m.State() != StateAnonymous {
		t.Fatalf("initial state = %q", m.State())
	}
	if _, ok := m.Current(); ok {
		t.Fatal("anonymous manager must have no current session")
	}
	if m.Token() != "" {
		t.Fatal("anonymous manager must return empty token")
	}

	if err := m.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if m.State() != StateAuthenticating {
		t.Fatalf("state after Begin = %q", m.State())
	}

	m.Complete(testSession())
	if m.State() != StateAuthenticated {
		t.Fatalf("state after Complete = %q", m.State())
	}
	if m.Token() != "tok" {
		t.Errorf("Token() = %q", m.Token())
	}
	sess, ok := m.Current()
	if !ok || sess.Email != "admin@example.org" {
		t.Errorf("Current() = %+v, %v", sess, ok)
	}

	m.Clear()
	if m.State() != StateAnonymous {
		t.Fatalf("state after Clear = %q", m.State())
	}
	if m.Token() != "" {
		t.Error("Token() after Clear must be empty")
	}
}

func TestManager_OverlappingLogin(t *testing.T) {
	t.Parallel()

	m := NewManager(testLogger())
	if err := m.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := m.Begin(); !errors.Is(err, ErrLoginInFlight) {
		t.Fatalf("second Begin() error = %v, want ErrLoginInFlight", err)
	}
}

func TestManager_FailKeepsExistingSession(t *testing.T) {
	t.Parallel()

	m := NewManager(testLogger())
	m.Complete(testSession())

	// A re-login attempt that fails must leave the old session usable.
	if err := m.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	m.Fail()

	if m.State() != StateAuthenticated {
		t.Errorf("state = %q, want authenticated", m.State())
	}
	if m.Token() != "tok" {
		t.Errorf("Token() = %q, old session lost", m.Token())
	}
}

func TestManager_FailWithoutSession(t *testing.T) {
	t.Parallel()

	m := NewManager(testLogger())
	if err := m.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	m.Fail()
	if m.State() != StateAnonymous {
		t.Errorf("state = %q, want anonymous", m.State())
	}
}

func TestManager_RestoreDiscardsExpired(t *testing.T) {
	t.Parallel()

	m := NewManager(testLogger())
	sess := testSession()
	sess.ExpiresAt = time.Now().Add(-time.Hour)
	m.Restore(sess)

	if m.State() != StateAnonymous {
		t.Errorf("state = %q, expired session must not restore", m.State())
	}
	if _, ok := m.Current(); ok {
		t.Error("Current() must report anonymous after expired restore")
	}
}

func TestManager_RestoreActive(t *testing.T) {
	t.Parallel()

	m := NewManager(testLogger())
	sess := testSession()
	sess.ExpiresAt = time.Now().Add(time.Hour)
	m.Restore(sess)

	if m.State() != StateAuthenticated {
		t.Errorf("state = %q", m.State())
	}
}

func TestManager_RestoreEmptyToken(t *testing.T) {
	t.Parallel()

	m := NewManager(testLogger())
	m.Restore(&Session{})
	if m.State() != StateAnonymous {
		t.Errorf("state = %q, tokenless session must not restore", m.State())
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"talukaOfficer", "districtOfficer", "superAdmin", "admin", "farmer"} {
		if _, err := ParseRole(valid); err != nil {
			t.Errorf("ParseRole(%q) error = %v", valid, err)
		}
	}
	if _, err := ParseRole("root"); err == nil {
		t.Error("ParseRole(root) must fail")
	}
	if _, err := ParseRole(""); err == nil {
		t.Error("ParseRole empty must fail")
	}
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	got := TokenExpiry(signed)
	if !got.Equal(exp) {
		t.Errorf("TokenExpiry() = %v, want %v", got, exp)
	}
}

func TestTokenExpiry_NoClaimOrGarbage(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	signed, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if got := TokenExpiry(signed); !got.IsZero() {
		t.Errorf("TokenExpiry() without exp = %v, want zero", got)
	}

	if got := TokenExpiry("not-a-jwt"); !got.IsZero() {
		t.Errorf("TokenExpiry(garbage) = %v, want zero", got)
	}
}

func TestSession_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := &Session{Token: "t"}
	if s.Expired(now) {
		t.Error("session without exp must never expire locally")
	}

	s.ExpiresAt = now.Add(time.Minute)
	if s.Expired(now) {
		t.Error("future expiry reported expired")
	}
	if !s.Expired(now.Add(2 * time.Minute)) {
		t.Error("past expiry not reported")
	}
}
