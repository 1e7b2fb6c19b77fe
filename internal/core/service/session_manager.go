package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/profileapp/profile-service/internal/core/domain"
	"github.com/profileapp/profile-service/internal/core/ports"
)

// DefaultSessionTTL is two weeks.
const DefaultSessionTTL = 14 * 24 * time.Hour

// SessionManager owns the anonymous -> authenticated -> terminated
// lifecycle of sessions. All state lives in the store.
type SessionManager struct {
	store ports.SessionStore
	ttl   time.Duration
	log   zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewSessionManager(store ports.SessionStore, ttl time.Duration, log zerolog.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		store: store,
		ttl:   ttl,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// TTL is the lifetime given to new and re-authenticated sessions.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Resolve returns the live session for id. Unknown, expired and empty ids
// yield a fresh anonymous session with a newly minted id; only store
// failures are errors.
func (m *SessionManager) Resolve(ctx context.Context, id string) (*domain.Session, error) {
	now := m.now()
	if id != "" {
		s, err := m.store.Find(ctx, id)
		switch {
		case err == nil && !s.Expired(now):
			return s, nil
		case err == nil, errors.Is(err, domain.ErrSessionNotFound):
		default:
			return nil, fmt.Errorf("resolve session: %w", err)
		}
	}
	return domain.NewAnonymousSession(m.newID(), now, m.ttl), nil
}

// Persist saves a session minted by Resolve.
func (m *SessionManager) Persist(ctx context.Context, s *domain.Session) error {
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.IsNew = false
	return nil
}

// Authenticate attaches ref to the session and extends its expiry. It is a
// no-op when the session is already authenticated as ref.
func (m *SessionManager) Authenticate(ctx context.Context, id string, ref domain.UserRef) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrInvalidSession
	}

	now := m.now()
	s, err := m.store.Find(ctx, id)
	switch {
	case err == nil && !s.Expired(now):
		if s.AuthenticatedAs(ref) {
			return s, nil
		}
	case err == nil, errors.Is(err, domain.ErrSessionNotFound):
		s = domain.NewAnonymousSession(id, now, m.ttl)
	default:
		return nil, fmt.Errorf("authenticate session: %w", err)
	}

	s.Authenticated = true
	s.User = &ref
	s.ExpiresAt = now.Add(m.ttl)
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("authenticate session: %w", err)
	}
	s.IsNew = false

	m.log.Debug().Str("user_id", ref.UserID).Msg("session authenticated")
	return s, nil
}

// Terminate removes the session; its id never resolves again.
func (m *SessionManager) Terminate(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("terminate session: %w", err)
	}
	return nil
}

// CurrentUser returns the user a session is authenticated as, or nil.
func CurrentUser(s *domain.Session) *domain.UserRef {
	if s == nil || !s.Authenticated {
		return nil
	}
	return s.User
}
