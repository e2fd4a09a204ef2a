// Package usage gates a feature behind a fixed number of free uses. Counters
// live in a key-value Store so the gate works against any persistence the
// caller has, from browser storage to a map in a test.
package usage

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
)

const (
	DefaultFreeLimit = 3

	countKey = "gabu_usage_count"
	authKey  = "gabu_is_authenticated"
)

var ErrLimitReached = errors.New("free usage limit reached")

type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

type Tracker struct {
	store Store
	limit int
}

// NewTracker uses DefaultFreeLimit when limit is not positive.
func NewTracker(store Store, limit int) *Tracker {
	if limit <= 0 {
		limit = DefaultFreeLimit
	}
	return &Tracker{store: store, limit: limit}
}

func (t *Tracker) Limit() int { return t.limit }

// Count returns the recorded uses. Missing or corrupt counters read as zero.
func (t *Tracker) Count() (int, error) {
	v, ok, err := t.store.Get(countKey)
	if err != nil {
		return 0, fmt.Errorf("read usage count: %w", err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

func (t *Tracker) Remaining() (int, error) {
	n, err := t.Count()
	if err != nil {
		return 0, err
	}
	return max(t.limit-n, 0), nil
}

func (t *Tracker) Authenticated() (bool, error) {
	v, ok, err := t.store.Get(authKey)
	if err != nil {
		return false, fmt.Errorf("read auth flag: %w", err)
	}
	return ok && v == "true", nil
}

func (t *Tracker) SetAuthenticated(authenticated bool) error {
	return t.store.Set(authKey, strconv.FormatBool(authenticated))
}

// Allowed reports whether one more use may proceed. Authenticated users are
// never gated.
func (t *Tracker) Allowed() (bool, error) {
	authed, err := t.Authenticated()
	if err != nil || authed {
		return authed, err
	}
	n, err := t.Count()
	if err != nil {
		return false, err
	}
	return n < t.limit, nil
}

// Record counts one use and returns the new total. It returns
// ErrLimitReached without recording when the gate is closed.
func (t *Tracker) Record() (int, error) {
	ok, err := t.Allowed()
	if err != nil {
		return 0, err
	}
	n, err := t.Count()
	if err != nil {
		return 0, err
	}
	if !ok {
		return n, ErrLimitReached
	}
	n++
	if err := t.store.Set(countKey, strconv.Itoa(n)); err != nil {
		return 0, fmt.Errorf("write usage count: %w", err)
	}
	return n, nil
}

func (t *Tracker) Reset() error {
	return t.store.Set(countKey, "0")
}
