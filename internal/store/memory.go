package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ashureev/carbon-ledger/internal/domain"
	"github.com/dgraph-io/ristretto"
)

// errCacheRejected is returned when the cache drops a write under contention.
var errCacheRejected = errors.New("session cache rejected write")

// MemoryStore keeps session state in a TTL cache. Entries expire after ttl
// of inactivity, which ends the session.
type MemoryStore struct {
	cache          *ristretto.Cache
	locks          sync.Map // session key -> *sync.Mutex
	initialCredits float64
	ttl            time.Duration
}

// NewMemory creates an in-memory repository holding up to maxSessions sessions.
func NewMemory(initialCredits float64, ttl time.Duration, maxSessions int64) (*MemoryStore, error) {
	if maxSessions <= 0 {
		maxSessions = 10000
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxSessions * 10,
		MaxCost:            maxSessions,
		BufferItems:        64,
		// Each session costs 1, so MaxCost counts sessions rather than bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &MemoryStore{
		cache:          cache,
		initialCredits: initialCredits,
		ttl:            ttl,
	}, nil
}

func (m *MemoryStore) lock(key string) *sync.Mutex {
	l, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	return l.(*sync.Mutex)
}

// load returns the cached state or a fresh one. Callers must hold the key lock.
func (m *MemoryStore) load(key string) *domain.SessionState {
	if v, ok := m.cache.Get(key); ok {
		if state, ok := v.(*domain.SessionState); ok {
			return state
		}
	}
	return domain.NewSessionState(m.initialCredits)
}

// save stores state and refreshes its TTL. Callers must hold the key lock.
// The write counts only once the cache has admitted it: SetWithTTL reporting
// true means buffered, not stored.
func (m *MemoryStore) save(key string, state *domain.SessionState) error {
	for attempt := 0; attempt < 2; attempt++ {
		if m.cache.SetWithTTL(key, state, 1, m.ttl) {
			m.cache.Wait()
			if m.stored(key, state) {
				return nil
			}
			continue
		}
		m.cache.Wait()
	}
	return fmt.Errorf("save session %s: %w", key, errCacheRejected)
}

func (m *MemoryStore) stored(key string, state *domain.SessionState) bool {
	v, ok := m.cache.Get(key)
	return ok && v == state
}

// GetOrInit returns a snapshot of the session state.
func (m *MemoryStore) GetOrInit(_ context.Context, key string) (*domain.SessionState, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	mu := m.lock(key)
	mu.Lock()
	defer mu.Unlock()

	state := m.load(key)
	if err := m.save(key, state); err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

// Update applies fn to a copy of the state and commits it on success.
func (m *MemoryStore) Update(_ context.Context, key string, fn UpdateFunc) (*domain.SessionState, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	mu := m.lock(key)
	mu.Lock()
	defer mu.Unlock()

	next := m.load(key).Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := m.save(key, next); err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

// Delete discards the session state.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	mu := m.lock(key)
	mu.Lock()
	m.cache.Del(key)
	m.cache.Wait()
	mu.Unlock()
	m.locks.Delete(key)
	return nil
}

// CleanupExpired drops per-key locks whose sessions the cache has already
// expired. The cache enforces the TTL itself, so ttl is unused here.
func (m *MemoryStore) CleanupExpired(_ context.Context, _ time.Duration) (int64, error) {
	var pruned int64
	m.locks.Range(func(k, v any) bool {
		key := k.(string)
		mu := v.(*sync.Mutex)
		if !mu.TryLock() {
			return true
		}
		if _, ok := m.cache.Get(key); !ok {
			m.locks.Delete(key)
			pruned++
		}
		mu.Unlock()
		return true
	})
	return pruned, nil
}

// Ping always succeeds for the in-memory backend.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close stops the cache's background goroutines.
func (m *MemoryStore) Close() error {
	m.cache.Close()
	return nil
}
