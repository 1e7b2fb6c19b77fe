package service

import (
	"context"
	"fmt"
	"time"

	"github.com/profileapp/profile-service/internal/core/domain"
	"github.com/profileapp/profile-service/internal/core/ports"
)

// RateLimiter enforces a minimum interval between admitted requests of the
// same session. Serialisation per session is delegated to the AccessStore.
type RateLimiter struct {
	store       ports.AccessStore
	minInterval time.Duration
}

func NewRateLimiter(store ports.AccessStore, minInterval time.Duration) *RateLimiter {
	if minInterval <= 0 {
		minInterval = domain.DefaultMinInterval
	}
	return &RateLimiter{store: store, minInterval: minInterval}
}

// MinInterval is the configured spacing between admitted requests.
func (l *RateLimiter) MinInterval() time.Duration { return l.minInterval }

// Admit returns nil when the request may proceed, domain.ErrInvalidSession
// for an empty id and domain.ErrTooManyRequests when the previous admitted
// request is too recent.
func (l *RateLimiter) Admit(ctx context.Context, sessionID string, now time.Time) error {
	if sessionID == "" {
		return domain.ErrInvalidSession
	}

	ok, err := l.store.CheckAndSet(ctx, sessionID, now, l.minInterval)
	if err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	if !ok {
		return domain.ErrTooManyRequests
	}
	return nil
}
