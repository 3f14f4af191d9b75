// Package kv defines the key-value persistence contract the store is built
// on, plus the in-memory and Redis backends. The SQLite backend lives in
// package db.
package kv

import "errors"

// ErrUnavailable is returned when a backend cannot serve a request.
var ErrUnavailable = errors.New("kv: storage unavailable")

// Store reads and writes whole blobs by key.
//
// Read reports ok=false when the key has never been written. Write replaces
// the blob in a single call, so a failed Write leaves the previous value in
// place.
type Store interface {
	Read(key string) (value []byte, ok bool, err error)
	Write(key string, value []byte) error
	Delete(key string) error
}

// BatchWriter is implemented by backends that can write several keys
// atomically.
type BatchWriter interface {
	WriteBatch(entries map[string][]byte) error
}

// WriteAll writes every entry, atomically when s implements BatchWriter.
// Otherwise entries are written one by one in the order of keys.
func WriteAll(s Store, keys []string, entries map[string][]byte) error {
	if bw, ok := s.(BatchWriter); ok {
		return bw.WriteBatch(entries)
	}
	for _, k := range keys {
		v, ok := entries[k]
		if !ok {
			continue
		}
		if err := s.Write(k, v); err != nil {
			return err
		}
	}
	return nil
}
