package kvstore

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"
)

// LevelDBStore is an embedded on-disk Store, the default for a single
// installation. Each value is prefixed with an 8-byte big-endian expiry in
// unix nanoseconds (0 = never).
type LevelDBStore struct {
	db     *leveldb.DB
	logger *zap.Logger
}

const expiryHeaderLen = 8

// NewLevelDBStore opens (or creates) the database directory at path.
func NewLevelDBStore(path string, logger *zap.Logger) (*LevelDBStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create leveldb directory: %w", err)
	}

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb: %w", err)
	}

	return &LevelDBStore{db: db, logger: logger}, nil
}

func (s *LevelDBStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Warn("LevelDB Get error", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("leveldb get error: %w", err)
	}

	value, expiresAt, ok := decodeValue(raw)
	if !ok {
		return nil, fmt.Errorf("leveldb get error: corrupt record for key %q", key)
	}
	if !expiresAt.IsZero() && time.Now().After(expiresAt) {
		_ = s.db.Delete([]byte(key), nil)
		return nil, ErrNotFound
	}
	return value, nil
}

func (s *LevelDBStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.db.Put([]byte(key), encodeValue(value, expiry(ttl)), nil); err != nil {
		s.logger.Warn("LevelDB Set error", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("leveldb set error: %w", err)
	}
	return nil
}

func (s *LevelDBStore) Delete(ctx context.Context, key string) error {
	if err := s.db.Delete([]byte(key), nil); err != nil {
		s.logger.Warn("LevelDB Delete error", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("leveldb delete error: %w", err)
	}
	return nil
}

func (s *LevelDBStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (s *LevelDBStore) DeleteByPattern(ctx context.Context, pattern string) error {
	if !strings.HasSuffix(pattern, "*") {
		return s.Delete(ctx, pattern)
	}

	prefix := strings.TrimSuffix(pattern, "*")
	iter := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(iter.Key())
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("leveldb iterate error: %w", err)
	}

	if batch.Len() == 0 {
		return nil
	}
	if err := s.db.Write(batch, nil); err != nil {
		s.logger.Warn("LevelDB DeleteByPattern error", zap.String("pattern", pattern), zap.Error(err))
		return fmt.Errorf("leveldb delete by pattern error: %w", err)
	}
	s.logger.Debug("Deleted keys by pattern", zap.String("pattern", pattern), zap.Int("count", batch.Len()))
	return nil
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

func encodeValue(value []byte, expiresAt time.Time) []byte {
	out := make([]byte, expiryHeaderLen+len(value))
	var nanos int64
	if !expiresAt.IsZero() {
		nanos = expiresAt.UnixNano()
	}
	binary.BigEndian.PutUint64(out[:expiryHeaderLen], uint64(nanos))
	copy(out[expiryHeaderLen:], value)
	return out
}

func decodeValue(raw []byte) ([]byte, time.Time, bool) {
	if len(raw) < expiryHeaderLen {
		return nil, time.Time{}, false
	}
	nanos := int64(binary.BigEndian.Uint64(raw[:expiryHeaderLen]))
	var expiresAt time.Time
	if nanos != 0 {
		expiresAt = time.Unix(0, nanos)
	}
	value := make([]byte, len(raw)-expiryHeaderLen)
	copy(value, raw[expiryHeaderLen:])
	return value, expiresAt, true
}
