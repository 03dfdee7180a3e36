package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore is the single synchronization primitive shared by
// concurrent consumer instances. SetIfAbsent must be atomic: whichever
// caller sets the key first owns the side effect for the TTL window.
type IdempotencyStore interface {
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}

type RedisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (s *RedisIdempotencyStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}

func (s *RedisIdempotencyStore) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

// MemoryIdempotencyStore mirrors the Redis store semantics for local runs
// and tests. Expired entries are treated as absent and overwritten in place.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryIdempotencyStore) SetIfAbsent(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry, ok := s.entries[key]
	if ok && now.Before(entry.expiresAt) {
		return false, nil
	}

	s.entries[key] = memoryEntry{value: value, expiresAt: now.Add(ttl)}

	return true, nil
}

func (s *MemoryIdempotencyStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return false, nil
	}

	if !time.Now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return false, nil
	}

	return true, nil
}
