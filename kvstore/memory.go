package kvstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Setting FailGets or FailSets makes the
// respective operation fail with that error.
type Memory struct {
	lock   sync.Mutex
	values map[string][]byte
	gets   int
	sets   int

	FailGets error
	FailSets error
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.gets++
	if m.FailGets != nil {
		return nil, false, m.FailGets
	}
	v, found := m.values[key]
	if !found {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.sets++
	if m.FailSets != nil {
		return m.FailSets
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

// Sets returns the number of Set calls made so far, failed ones included
func (m *Memory) Sets() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.sets
}

// Gets returns the number of Get calls made so far, failed ones included
func (m *Memory) Gets() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.gets
}

func (m *Memory) Close() error {
	return nil
}
