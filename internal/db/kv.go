package db

import (
	"database/sql"
	"fmt"
)

// Read retrieves the blob stored under key
func (db *DB) Read(key string) ([]byte, bool, error) {
	var value []byte
	err := db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", key, err)
	}
	return value, true, nil
}

// Write stores value under key, replacing any previous blob
func (db *DB) Write(key string, value []byte) error {
	_, err := db.Exec(upsertKV, key, value)
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// WriteBatch stores every entry in a single transaction
func (db *DB) WriteBatch(entries map[string][]byte) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("write batch: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for key, value := range entries {
		if _, err := tx.Exec(upsertKV, key, value); err != nil {
			return fmt.Errorf("write batch %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write batch: commit: %w", err)
	}
	return nil
}

// Delete removes key
func (db *DB) Delete(key string) error {
	_, err := db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

const upsertKV = `
	INSERT INTO kv (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`
