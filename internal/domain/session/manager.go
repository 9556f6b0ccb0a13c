package session

import (
	"log/slog"
	"sync"
	"time"
)

// Manager owns the current session and enforces the lifecycle
// anonymous -> authenticating -> authenticated -> anonymous. It is safe
// for concurrent use; persistence is the caller's concern.
type Manager struct {
	mu      sync.RWMutex
	state   State
	current *Session
	logger  *slog.Logger
	now     func() time.Time
}

// NewManager creates a Manager in the anonymous state.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		state:  StateAnonymous,
		logger: logger,
		now:    time.Now,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Begin marks a login attempt as in flight. No session state is mutated
// until the attempt resolves via Complete or Fail.
func (m *Manager) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateAuthenticating {
		return ErrLoginInFlight
	}
	m.state = StateAuthenticating
	return nil
}

// Complete installs the session produced by a successful login. The
// previous session, if any, is overwritten wholesale.
func (m *Manager) Complete(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = sess
	m.state = StateAuthenticated
	m.logger.Info("session established", "role", sess.Role, "email", sess.Email)
}

// Fail reverts a failed login attempt to the prior state without
// touching any existing session.
func (m *Manager) Fail() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Active() {
		m.state = StateAuthenticated
		return
	}
	m.state = StateAnonymous
}

// Restore installs a persisted session at startup. Expired sessions are
// discarded and the manager stays anonymous.
func (m *Manager) Restore(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !sess.Active() || sess.Expired(m.now()) {
		m.current = nil
		m.state = StateAnonymous
		return
	}
	m.current = sess
	m.state = StateAuthenticated
}

// Clear drops the session and returns to anonymous. Called on logout
// and on any authentication-rejection response from the backend.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	m.state = StateAnonymous
}

// Current returns a copy of the active session, or false when anonymous
// or when the restored token has since expired.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.current.Active() || m.current.Expired(m.now()) {
		return Session{}, false
	}
	return *m.current, true
}

// Token returns the bearer token of the active session, or the empty
// string when anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.current.Active() {
		return ""
	}
	return m.current.Token
}
