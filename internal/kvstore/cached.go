package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Store = (*CachedStore)(nil)

// CachedStore is a write-through freecache layer in front of another Store.
// Only values written or read by this process are cached, so it must not be used
// when other processes write to the same keys. Readers such as the export command
// may share the backing store as long as they never write.
type CachedStore struct {
	inner Store
	cache *freecache.Cache

	// writes is bumped at the start and the end of every Set and Delete; a value
	// read from inner is cached only if no write overlapped the read
	mu     sync.Mutex
	writes uint64
}

func NewCachedStore(inner Store, sizeMB int) *CachedStore {
	return &CachedStore{
		inner: inner,
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
	}
}

func (s *CachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if value, err := s.cache.Get([]byte(key)); err == nil {
		return value, nil
	}

	s.mu.Lock()
	readStart := s.writes
	s.mu.Unlock()

	value, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writes == readStart {
		s.remember(key, value)
	}
	return value, nil
}

func (s *CachedStore) Set(ctx context.Context, key string, value []byte) error {
	// drop first, so a failed write never leaves a stale cached value
	writeStart := s.beginWrite(key)
	if err := s.inner.Set(ctx, key, value); err != nil {
		s.endWrite(key, writeStart, nil)
		return err
	}
	s.endWrite(key, writeStart, value)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, key string) error {
	writeStart := s.beginWrite(key)
	err := s.inner.Delete(ctx, key)
	s.endWrite(key, writeStart, nil)
	return err
}

func (s *CachedStore) beginWrite(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.cache.Del([]byte(key))
	return s.writes
}

// endWrite caches value only when no other write started in the meantime,
// otherwise the key is left uncached and the next Get goes to inner.
func (s *CachedStore) endWrite(key string, writeStart uint64, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value != nil && s.writes == writeStart {
		s.remember(key, value)
	} else {
		s.cache.Del([]byte(key))
	}
	s.writes++
}

func (s *CachedStore) HitRate() float64 {
	return s.cache.HitRate()
}

func (s *CachedStore) remember(key string, value []byte) {
	if err := s.cache.Set([]byte(key), value, 0); err != nil {
		if errors.Is(err, freecache.ErrLargeEntry) || errors.Is(err, freecache.ErrLargeKey) {
			log.Debugf("kvstore cache: value for [%s] too large to cache (%d bytes)", key, len(value))
			return
		}
		log.Warnf("kvstore cache: %s", fmt.Errorf("set %s: %w", key, err))
	}
}
