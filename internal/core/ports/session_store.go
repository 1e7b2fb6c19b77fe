package ports

import (
	"context"
	"time"

	"github.com/profileapp/profile-service/internal/core/domain"
)

// SessionStore persists sessions keyed by their opaque identifier.
type SessionStore interface {
	// Find returns domain.ErrSessionNotFound for unknown or expired ids.
	Find(ctx context.Context, id string) (*domain.Session, error)
	// Save upserts the session.
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
}

// AccessStore persists the last admitted access time per session.
type AccessStore interface {
	// CheckAndSet admits the request when no record exists for sessionID or
	// the stored time is at least minInterval before now, and in that case
	// stores now. A denied call leaves the record untouched. The
	// read-compare-write must be atomic per sessionID.
	CheckAndSet(ctx context.Context, sessionID string, now time.Time, minInterval time.Duration) (bool, error)
	// Find returns nil without error when the session has no record yet.
	Find(ctx context.Context, sessionID string) (*domain.AccessRecord, error)
}
