package ports

import (
	"context"
	"time"

	"github.com/profileapp/profile-service/internal/core/domain"
)

// RegisterInput carries raw registration fields as decoded from the request.
// Fields stay untyped so the validator can report non-textual values.
type RegisterInput struct {
	Name     any
	Username any
	Email    any
	Password any
}

// AuthService defines the register/login/profile use cases.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, sessionID, loginID, password string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Profile(ctx context.Context, sess *domain.Session) (*domain.User, error)
}

// SessionManager resolves and transitions sessions.
type SessionManager interface {
	Resolve(ctx context.Context, id string) (*domain.Session, error)
	Persist(ctx context.Context, s *domain.Session) error
	Authenticate(ctx context.Context, id string, ref domain.UserRef) (*domain.Session, error)
	Terminate(ctx context.Context, id string) error
}

// RateLimiter decides whether a session may issue another request at now.
type RateLimiter interface {
	Admit(ctx context.Context, sessionID string, now time.Time) error
}
