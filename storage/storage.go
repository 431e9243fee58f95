package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

// NewSqliteDB creates a new sqlite database
func NewSqliteDB(file string) (*sqlx.DB, error) {
	return sqlx.Connect("sqlite", file)
}

// createStateTable ensures the shared key/value table used by all stores.
// Values are JSON blobs keyed by a well-known name per store.
func createStateTable(db *sqlx.DB) error {
	createState := `
	CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)
	`
	if _, err := db.Exec(createState); err != nil {
		return fmt.Errorf("failed to create state table: %w", err)
	}
	return nil
}

// getValue reads the raw JSON for a key; ok is false when the key is absent.
func getValue(db *sqlx.DB, key string) (string, bool, error) {
	var value string
	err := db.Get(&value, "SELECT value FROM state WHERE key = ?", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get state for key %s: %w", key, err)
	}
	return value, true, nil
}

// setValue upserts the raw JSON for a key.
func setValue(db *sqlx.DB, key, value string) error {
	insertQuery := "INSERT OR REPLACE INTO state (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertQuery, key, value); err != nil {
		return fmt.Errorf("failed to upsert state for key %s: %w", key, err)
	}
	return nil
}

// deleteValue removes a key; deleting an absent key is not an error.
func deleteValue(db *sqlx.DB, key string) error {
	if _, err := db.Exec("DELETE FROM state WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete state for key %s: %w", key, err)
	}
	return nil
}
