package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/profileapp/profile-service/internal/core/domain"
)

// checkAndSet runs server-side so the read-compare-write is atomic per key.
//
//	KEYS[1] access key
//	ARGV[1] now (unix ms)
//	ARGV[2] minimum interval (ms)
//	ARGV[3] key ttl (ms, 0 = none)
var checkAndSet = redis.NewScript(`
local last = redis.call('GET', KEYS[1])
if last and (tonumber(ARGV[1]) - tonumber(last)) < tonumber(ARGV[2]) then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// AccessStore implements ports.AccessStore backed by Redis.
// Key format: access:<session_id>
type AccessStore struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

// NewAccessStore creates an AccessStore. Records expire after ttl, which
// should match the session lifetime; zero keeps them forever.
func NewAccessStore(client *redis.Client, ttl, timeout time.Duration) *AccessStore {
	return &AccessStore{client: client, ttl: ttl, timeout: opTimeout(timeout)}
}

func (s *AccessStore) CheckAndSet(ctx context.Context, sessionID string, now time.Time, minInterval time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	admitted, err := checkAndSet.Run(ctx, s.client,
		[]string{s.key(sessionID)},
		now.UnixMilli(), minInterval.Milliseconds(), s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, storeErr("check access record", err)
	}
	return admitted == 1, nil
}

func (s *AccessStore) Find(ctx context.Context, sessionID string) (*domain.AccessRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find access record", err)
	}

	ms, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, storeErr("parse access record", err)
	}
	return &domain.AccessRecord{SessionID: sessionID, LastAccessTime: time.UnixMilli(ms).UTC()}, nil
}

func (s *AccessStore) key(sessionID string) string {
	return "access:" + sessionID
}
