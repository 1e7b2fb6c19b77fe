package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/profileapp/profile-service/internal/core/domain"
)

// SessionStore implements ports.SessionStore backed by Redis. Each session
// is a JSON value that expires together with the session.
type SessionStore struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

func NewSessionStore(client *redis.Client, timeout time.Duration) *SessionStore {
	return &SessionStore{client: client, prefix: "session:", timeout: opTimeout(timeout)}
}

func (s *SessionStore) key(id string) string {
	return s.prefix + id
}

func (s *SessionStore) Find(ctx context.Context, id string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, storeErr("find session", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return &sess, nil
}

// Save writes the session with a TTL up to its expiry. An already expired
// session is deleted instead.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		if err := s.client.Del(ctx, s.key(sess.ID)).Err(); err != nil {
			return storeErr("delete session", err)
		}
		return nil
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return storeErr("save session", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return storeErr("delete session", err)
	}
	return nil
}
