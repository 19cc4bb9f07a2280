package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Revoker records token ids invalidated by logout. Entries only need to
// live until the token's natural expiry.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) bool
}

type MemoryRevoker struct {
	mu    sync.Mutex
	until map[string]time.Time
	clock Clock
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{until: make(map[string]time.Time), clock: realClock{}}
}

func (m *MemoryRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Sweep entries whose tokens expired anyway.
	now := m.clock.Now()
	for id, t := range m.until {
		if !now.Before(t) {
			delete(m.until, id)
		}
	}

	m.until[jti] = until
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, jti string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.until[jti]
	return ok && m.clock.Now().Before(t)
}

// RedisRevoker keeps the revocation set in redis so it survives restarts
// and is shared between replicas. Opt-in via config.
type RedisRevoker struct {
	rdb   *redis.Client
	clock Clock
}

func NewRedisRevoker(rdb *redis.Client) *RedisRevoker {
	return &RedisRevoker{rdb: rdb, clock: realClock{}}
}

func (r *RedisRevoker) key(jti string) string { return "revoked:" + jti }

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(r.clock.Now())
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.key(jti), "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) bool {
	n, err := r.rdb.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		// Fail open: the token then simply stays valid until expiry,
		// which is the documented baseline behavior.
		logrus.WithError(err).Warn("revocation lookup failed")
		return false
	}
	return n > 0
}
