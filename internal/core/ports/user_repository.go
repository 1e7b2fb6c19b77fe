package ports

import (
	"context"

	"github.com/profileapp/profile-service/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
// Lookups return domain.ErrUserNotFound when no record matches and Create
// returns domain.ErrUserExists when the username or email is taken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
