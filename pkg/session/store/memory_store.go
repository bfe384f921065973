package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryKVStore implements KVStore using an in-memory map
type MemoryKVStore struct {
	records      map[string]record
	mu           sync.RWMutex
	cleanupTimer *time.Ticker
	done         chan struct{}
	closeOnce    sync.Once
}

// record represents a stored value with expiration time
type record struct {
	value    []byte
	expireAt time.Time
}

// NewMemoryKVStore creates a new in-memory store
func NewMemoryKVStore() *MemoryKVStore {
	s := &MemoryKVStore{
		records: make(map[string]record),
		done:    make(chan struct{}),
	}

	// Start a cleanup goroutine to remove expired records
	s.cleanupTimer = time.NewTicker(1 * time.Minute)
	go s.cleanupExpired()

	slog.Debug("Created in-memory session store")
	return s
}

// cleanupExpired periodically removes expired records
func (s *MemoryKVStore) cleanupExpired() {
	for {
		select {
		case <-s.cleanupTimer.C:
			s.mu.Lock()
			now := time.Now()
			for key, rec := range s.records {
				if now.After(rec.expireAt) {
					delete(s.records, key)
					slog.Debug("Removed expired record", "key", key)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			s.cleanupTimer.Stop()
			return
		}
	}
}

// Get retrieves the record stored under key
func (s *MemoryKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[key]
	if !exists {
		return nil, ErrKeyNotFound
	}

	// An expired record is indistinguishable from an absent one
	if time.Now().After(rec.expireAt) {
		return nil, ErrKeyNotFound
	}

	value := make([]byte, len(rec.value))
	copy(value, rec.value)
	return value, nil
}

// SetWithTTL stores the record under key and resets its idle expiration
func (s *MemoryKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	s.records[key] = record{
		value:    stored,
		expireAt: time.Now().Add(ttl),
	}

	slog.Debug("Stored record", "key", key, "ttl", ttl)
	return nil
}

// Delete removes the record stored under key, if any
func (s *MemoryKVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

// Close stops the cleanup goroutine
func (s *MemoryKVStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return nil
}

var _ KVStore = (*MemoryKVStore)(nil)
