package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type entry struct {
	expires time.Time
	data    []byte
}

// memory is an in-process cache
type memory struct {
	sync.Mutex
	expiry  time.Duration
	entries map[string]entry
}

var _ Cache = (*memory)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewMemory returns a cache which holds values in memory
func NewMemory(opts ...Opt) (*memory, error) {
	o, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}
	return &memory{
		expiry:  o.expiry,
		entries: make(map[string]entry),
	}, nil
}

func (m *memory) Close() error {
	m.Lock()
	defer m.Unlock()
	clear(m.entries)
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (m *memory) Get(_ context.Context, key string, out any) (bool, error) {
	data, ok := m.get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *memory) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.set(key, data, m.expiry)
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (m *memory) get(key string) ([]byte, bool) {
	m.Lock()
	defer m.Unlock()
	local, found := m.entries[key]
	if !found {
		return nil, false
	}
	if time.Now().After(local.expires) {
		delete(m.entries, key)
		return nil, false
	}
	return local.data, true
}

func (m *memory) set(key string, data []byte, expiry time.Duration) {
	m.Lock()
	defer m.Unlock()
	m.entries[key] = entry{expires: time.Now().Add(expiry), data: data}
}
