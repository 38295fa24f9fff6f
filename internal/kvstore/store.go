package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"smartshop/internal/config"

	"go.uber.org/zap"
)

// Store is the key-value storage used for search history, catalog response
// caching and idempotency records. A ttl <= 0 means the entry never expires.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// DeleteByPattern deletes all keys matching a pattern (exact key or "prefix*")
	DeleteByPattern(ctx context.Context, pattern string) error
	Close() error
}

var (
	ErrNotFound = fmt.Errorf("key not found")
)

// New opens the backend named by cfg.KVBackend. A Redis backend that cannot be
// reached falls back to memory so the app keeps working offline.
func New(cfg *config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.KVBackend {
	case config.KVBackendMemory:
		logger.Info("Using in-memory key-value store")
		return NewMemoryStore(), nil
	case config.KVBackendRedis:
		return NewRedisStore(cfg, logger), nil
	case config.KVBackendSQLite:
		logger.Info("Opening SQLite key-value store", zap.String("path", cfg.SQLitePath))
		return NewSQLiteStore(cfg.SQLitePath, logger)
	case config.KVBackendLevelDB, "":
		logger.Info("Opening LevelDB key-value store", zap.String("path", cfg.LevelDBPath))
		return NewLevelDBStore(cfg.LevelDBPath, logger)
	default:
		return nil, fmt.Errorf("unknown KV_BACKEND %q", cfg.KVBackend)
	}
}

// MemoryStore keeps entries in a map. It backs tests and the Redis fallback.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]entry
}

type entry struct {
	value     []byte
	expiresAt time.Time // zero = never
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]entry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, exists := s.data[key]
	s.mu.RUnlock()
	if !exists {
		return nil, ErrNotFound
	}

	if e.expired(time.Now()) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry{value: stored, expiresAt: expiry(ttl)}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (s *MemoryStore) DeleteByPattern(ctx context.Context, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.data {
		if matchPattern(pattern, key) {
			delete(s.data, key)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// matchPattern supports the two pattern shapes the app uses: an exact key
// and a trailing-'*' prefix.
func matchPattern(pattern, key string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(key, strings.TrimSuffix(pattern, "*"))
	}
	return key == pattern
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

// Helper functions for JSON serialization
func GetJSON(ctx context.Context, store Store, key string, dest interface{}) error {
	data, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func SetJSON(ctx context.Context, store Store, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return store.Set(ctx, key, data, ttl)
}

// TTL returns a time.Duration from seconds
func TTL(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
