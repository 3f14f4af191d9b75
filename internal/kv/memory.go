package kv

import (
	"fmt"
	"sync"
)

// Memory is a map-backed Store. Values are copied on the way in and out.
type Memory struct {
	mu     sync.RWMutex
	data   map[string][]byte
	writes int

	// FailWrites makes every Write, WriteBatch and Delete fail with
	// ErrUnavailable.
	FailWrites bool
	// FailReads makes every Read fail with ErrUnavailable.
	FailReads bool
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Read(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailReads {
		return nil, false, fmt.Errorf("read %q: %w", key, ErrUnavailable)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Write(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return fmt.Errorf("write %q: %w", key, ErrUnavailable)
	}
	m.data[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

// WriteBatch stores all entries or none of them
func (m *Memory) WriteBatch(entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return fmt.Errorf("write batch: %w", ErrUnavailable)
	}
	for k, v := range entries {
		m.data[k] = append([]byte(nil), v...)
	}
	m.writes++
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return fmt.Errorf("delete %q: %w", key, ErrUnavailable)
	}
	delete(m.data, key)
	return nil
}

// Writes returns how many successful write calls the store has served
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
