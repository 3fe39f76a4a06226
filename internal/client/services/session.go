// Package services contains the application services of the gatepass client:
// the session manager, authentication, pass record submission, search and
// the admin operations.
package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/client/repositories/session"
	"github.com/dmitrijs2005/gatepass/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Session keys, shared by both storage scopes.
const (
	KeyToken     = "token"
	KeyRole      = "role"
	KeyUsername  = "username"
	KeyName      = "name"
	KeyLoginTime = "loginTime"
)

var sessionKeys = []string{KeyToken, KeyRole, KeyUsername, KeyName, KeyLoginTime}

// Persistence selects which scopes hold the session.
type Persistence string

const (
	// PersistEphemeral keeps the session in process memory only.
	PersistEphemeral Persistence = "ephemeral"
	// PersistDurable also writes it to the local database so it survives
	// restarts.
	PersistDurable Persistence = "durable"
)

func ParsePersistence(s string) (Persistence, error) {
	switch Persistence(s) {
	case PersistEphemeral, PersistDurable:
		return Persistence(s), nil
	}
	return "", fmt.Errorf("unknown session persistence %q (want ephemeral or durable)", s)
}

// SessionManager owns the session across its storage scopes and keeps an
// in-memory snapshot for synchronous readers such as header builders.
type SessionManager struct {
	ephemeral session.Repository
	durable   session.Repository
	maxAge    time.Duration
	log       logging.Logger
	now       func() time.Time

	mu      sync.RWMutex
	current models.Session
}

// NewSessionManager builds a manager over the given scopes. A nil durable
// repository means ephemeral-only persistence.
func NewSessionManager(ephemeral, durable session.Repository, maxAge time.Duration, log logging.Logger) *SessionManager {
	return &SessionManager{
		ephemeral: ephemeral,
		durable:   durable,
		maxAge:    maxAge,
		log:       log,
		now:       time.Now,
	}
}

func (m *SessionManager) scopes() []session.Repository {
	if m.durable == nil {
		return []session.Repository{m.ephemeral}
	}
	return []session.Repository{m.ephemeral, m.durable}
}

// Get reads key from the first scope that has it.
func (m *SessionManager) Get(ctx context.Context, key string) (string, error) {
	for _, s := range m.scopes() {
		v, err := s.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if v != nil {
			return string(v), nil
		}
	}
	return "", nil
}

// Restore loads a previously persisted session into memory. An expired or
// inconsistent session is cleared instead.
func (m *SessionManager) Restore(ctx context.Context) (models.Session, error) {
	var s models.Session
	for _, k := range sessionKeys {
		v, err := m.Get(ctx, k)
		if err != nil {
			return models.Session{}, fmt.Errorf("restore session: %w", err)
		}
		applyKey(&s, k, v)
	}

	if s.Token == "" {
		return models.Session{}, nil
	}
	if s.Role == "" || m.expired(s) {
		m.log.Info(ctx, "dropping stale session", "username", s.Username)
		m.ClearAll(ctx)
		return models.Session{}, nil
	}

	// Warm the memory scope so later reads do not hit the database.
	if m.durable != nil {
		if err := m.ephemeral.SetMany(ctx, encode(s)); err != nil {
			return models.Session{}, fmt.Errorf("restore session: %w", err)
		}
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return s, nil
}

// Begin replaces the whole session.
func (m *SessionManager) Begin(ctx context.Context, s models.Session) error {
	values := encode(s)
	for _, scope := range m.scopes() {
		if err := scope.SetMany(ctx, values); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return nil
}

// Current returns the in-memory snapshot.
func (m *SessionManager) Current() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// ClearAll removes every session key from every scope. It never stops at the
// first failure: each delete is attempted and failures are only logged.
func (m *SessionManager) ClearAll(ctx context.Context) {
	m.mu.Lock()
	m.current = models.Session{}
	m.mu.Unlock()

	for _, s := range m.scopes() {
		for _, k := range sessionKeys {
			if err := s.Delete(ctx, k); err != nil {
				m.log.Warn(ctx, "session key not cleared", "key", k, "error", err)
			}
		}
	}
}

// Expired reports whether the held session is past the age ceiling or past
// the expiry baked into its token.
func (m *SessionManager) Expired() bool {
	s := m.Current()
	if s.Anonymous() {
		return false
	}
	return m.expired(s)
}

func (m *SessionManager) expired(s models.Session) bool {
	now := m.now()
	if m.maxAge > 0 && s.Age(now) > m.maxAge {
		return true
	}
	if exp, ok := tokenExpiry(s.Token); ok && !now.Before(exp) {
		return true
	}
	return false
}

// tokenExpiry reads the exp claim of a JWT without verifying it. Opaque
// tokens have no expiry.
func tokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func encode(s models.Session) map[string][]byte {
	return map[string][]byte{
		KeyToken:     []byte(s.Token),
		KeyRole:      []byte(s.Role),
		KeyUsername:  []byte(s.Username),
		KeyName:      []byte(s.DisplayName),
		KeyLoginTime: []byte(strconv.FormatInt(s.LoginTimestamp, 10)),
	}
}

func applyKey(s *models.Session, key, value string) {
	switch key {
	case KeyToken:
		s.Token = value
	case KeyRole:
		role, err := models.ParseRole(value)
		if err != nil {
			role = ""
		}
		s.Role = role
	case KeyUsername:
		s.Username = value
	case KeyName:
		s.DisplayName = value
	case KeyLoginTime:
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			ms = 0
		}
		s.LoginTimestamp = ms
	}
}
