package kv

import (
	"context"
	"sort"
	"sync"
)

// Op identifies a store operation for Memory hooks.
type Op string

const (
	OpGet    Op = "get"
	OpPut    Op = "put"
	OpDelete Op = "delete"
)

// Hook runs before every Memory operation. A non-nil error aborts the
// operation and is returned to the caller, which lets tests simulate a store
// outage at an exact step of a multi-key sequence.
type Hook func(op Op, key string) error

// Memory is an in-process Store. Each call is atomic for its single key,
// matching the guarantees of the networked backends.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
	hook Hook
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// SetHook installs (or clears, with nil) the operation hook.
func (m *Memory) SetHook(h Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hook = h
}

func (m *Memory) runHook(op Op, key string) error {
	m.mu.RLock()
	h := m.hook
	m.mu.RUnlock()
	if h == nil {
		return nil
	}
	return h(op, key)
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := m.runHook(OpGet, key); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	if err := m.runHook(OpPut, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := m.runHook(OpDelete, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// Keys returns every stored key in sorted order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
