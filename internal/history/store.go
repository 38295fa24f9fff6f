package history

import (
	"context"
	"errors"
	"sync"

	"smartshop/internal/kvstore"
	apperrors "smartshop/pkg/errors"

	"go.uber.org/zap"
)

const (
	// Key is the key-value entry holding the whole history list.
	Key = "searchHistory"
	// MaxEntries is the number of queries kept.
	MaxEntries = 5
)

// Store keeps the most recent distinct search queries, newest first.
type Store struct {
	kv     kvstore.Store
	logger *zap.Logger
	mu     sync.Mutex
}

func NewStore(kv kvstore.Store, logger *zap.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// AddQuery moves query to the front of the history, removing an earlier
// occurrence, and drops entries beyond MaxEntries.
func (s *Store) AddQuery(ctx context.Context, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.read(ctx)

	updated := make([]string, 0, MaxEntries)
	updated = append(updated, query)
	for _, q := range current {
		if q == query {
			continue
		}
		updated = append(updated, q)
	}
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}

	if err := kvstore.SetJSON(ctx, s.kv, Key, updated, 0); err != nil {
		s.logger.Error("Failed to save search history", zap.Error(err))
		return apperrors.NewStorageError("save search history", err)
	}
	return nil
}

// History returns the stored queries, most recent first.
func (s *Store) History(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

func (s *Store) read(ctx context.Context) []string {
	var queries []string
	err := kvstore.GetJSON(ctx, s.kv, Key, &queries)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		return []string{}
	case err != nil:
		s.logger.Warn("Unreadable search history, treating as empty", zap.Error(err))
		return []string{}
	case queries == nil:
		return []string{}
	}
	return queries
}
