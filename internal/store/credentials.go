package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CredentialStore is the primary persisted-credential store. It is a plain
// key/value table; the authentication side owns the writes.
type CredentialStore struct {
	db *sql.DB
}

func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Get returns the stored value for key. A missing row is ("", false, nil).
func (s *CredentialStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := RetryWithBackoff(func() error {
		return s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read credential %q: %w", key, err)
	}
	return value, true, nil
}

// Put inserts or replaces the value for key.
func (s *CredentialStore) Put(ctx context.Context, key, value string) error {
	err := RetryWithBackoff(func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, time.Now().UTC())
		return err
	})
	if err != nil {
		return fmt.Errorf("write credential %q: %w", key, err)
	}
	return nil
}

// Delete removes key and reports whether a row existed.
func (s *CredentialStore) Delete(ctx context.Context, key string) (bool, error) {
	var n int64
	err := RetryWithBackoff(func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete credential %q: %w", key, err)
	}
	return n > 0, nil
}
