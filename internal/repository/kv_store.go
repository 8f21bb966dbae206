package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned when a key is absent or expired.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the expiring key/value store behind booking sessions and one-time tokens.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Take(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewKVStore returns a Redis-backed store, or an in-process one when client is nil.
func NewKVStore(client *redis.Client) KVStore {
	if client == nil {
		return NewMemoryKVStore()
	}
	return &RedisKVStore{client: client}
}

// RedisKVStore keeps values in Redis.
type RedisKVStore struct {
	client *redis.Client
}

// Get returns the value stored at key.
func (s *RedisKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Set stores value with the given TTL.
func (s *RedisKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Take atomically reads and deletes key.
func (s *RedisKVStore) Take(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.GetDel(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis getdel %s: %w", key, err)
	}
	return raw, nil
}

// Delete removes key.
func (s *RedisKVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// memorySweepInterval bounds how often Set scans for expired entries.
const memorySweepInterval = time.Minute

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryKVStore is a single-process store used when Redis is disabled.
type MemoryKVStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryKVStore constructs an empty in-process store.
func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{entries: map[string]memoryEntry{}, now: time.Now}
}

// Get returns the value stored at key.
func (s *MemoryKVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(key)
}

// Set stores value with the given TTL. A zero TTL never expires.
func (s *MemoryKVStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry
	s.sweep()
	return nil
}

// sweep drops expired entries at most once per memorySweepInterval so
// abandoned sessions do not accumulate.
func (s *MemoryKVStore) sweep() {
	now := s.now()
	if now.Sub(s.lastSweep) < memorySweepInterval {
		return
	}
	s.lastSweep = now
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}

// Take reads and deletes key.
func (s *MemoryKVStore) Take(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, err := s.lookup(key)
	if err != nil {
		return nil, err
	}
	delete(s.entries, key)
	return value, nil
}

// Delete removes key.
func (s *MemoryKVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryKVStore) lookup(key string) ([]byte, error) {
	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), entry.value...), nil
}
