package store

import (
	"encoding/json"
	"fmt"

	"github.com/tgienger/crm/internal/kv"
)

// load decodes the collection stored under key. Missing, unreadable and
// corrupt blobs all yield an empty collection.
func load[T any](s *Store, key string) []T {
	data, ok, err := s.kv.Read(key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("storage unavailable, using empty collection")
		return []T{}
	}
	if !ok || len(data) == 0 {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("corrupt collection, using empty collection")
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// batch collects whole-collection writes so they can be committed in one
// backend call.
type batch struct {
	keys    []string
	entries map[string][]byte
}

func newBatch() *batch {
	return &batch{entries: make(map[string][]byte)}
}

func (b *batch) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if _, seen := b.entries[key]; !seen {
		b.keys = append(b.keys, key)
	}
	b.entries[key] = data
	return nil
}

func (s *Store) commit(b *batch) error {
	return kv.WriteAll(s.kv, b.keys, b.entries)
}
