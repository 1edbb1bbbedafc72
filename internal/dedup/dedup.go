// Package dedup detects repeated deliveries of the same inline callback.
package dedup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a processed callback is remembered
const DefaultTTL = time.Hour

const defaultTimeout = 5 * time.Second

// Checker claims keys. Claim returns false when the key was already claimed
// within the TTL.
type Checker interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// Connect initialises a Redis client and validates connectivity with a ping
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisChecker shares claims between bot replicas.
// Key format: dedup:callback:<key>
type RedisChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisChecker creates a checker wrapping the given Redis client
func NewRedisChecker(client *redis.Client, ttl time.Duration) *RedisChecker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisChecker{client: client, ttl: ttl}
}

func (r *RedisChecker) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, "dedup:callback:"+key, "1", r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return ok, nil
}

// MemoryChecker keeps claims in process memory
type MemoryChecker struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	claims map[string]time.Time
	sweep  time.Time
}

// NewMemoryChecker creates an in-process checker
func NewMemoryChecker(ttl time.Duration) *MemoryChecker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryChecker{ttl: ttl, now: time.Now, claims: make(map[string]time.Time)}
}

func (m *MemoryChecker) Claim(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.sweep) > m.ttl {
		for k, at := range m.claims {
			if now.Sub(at) > m.ttl {
				delete(m.claims, k)
			}
		}
		m.sweep = now
	}

	if at, ok := m.claims[key]; ok && now.Sub(at) <= m.ttl {
		return false, nil
	}
	m.claims[key] = now
	return true, nil
}

// Len returns the number of remembered claims
func (m *MemoryChecker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.claims)
}
