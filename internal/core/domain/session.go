package domain

import "time"

// Session is the server-side state behind an opaque session identifier.
//
// A session starts anonymous, becomes authenticated on login and is
// terminated on logout or expiry. User is nil while anonymous.
type Session struct {
	ID            string    `json:"id"`
	Authenticated bool      `json:"authenticated"`
	User          *UserRef  `json:"user,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`

	// IsNew marks a session minted during this request that has not been
	// persisted yet.
	IsNew bool `json:"-"`
}

// NewAnonymousSession returns an unauthenticated session valid for ttl.
func NewAnonymousSession(id string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		IsNew:     true,
	}
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// AuthenticatedAs reports whether the session is already authenticated for ref.
func (s *Session) AuthenticatedAs(ref UserRef) bool {
	return s.Authenticated && s.User != nil && *s.User == ref
}
