package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Diagnostic represents a single consistency check finding.
type Diagnostic struct {
	Level           string `json:"level"` // "warning" or "error"
	Code            string `json:"code"`
	Message         string `json:"message"`
	SuggestedAction string `json:"suggested_action,omitempty"`
}

// RunDiagnostics checks the credential table for the session stored under key.
// A session older than maxAge is reported as stale; zero disables that check.
func RunDiagnostics(ctx context.Context, db *sql.DB, key string, maxAge time.Duration) ([]Diagnostic, error) {
	var diags []Diagnostic

	missing, err := findMissingCredential(ctx, db, key, maxAge)
	if err != nil {
		return nil, fmt.Errorf("credential check: %w", err)
	}
	diags = append(diags, missing...)

	stray, err := findStrayKeys(ctx, db, key)
	if err != nil {
		return nil, fmt.Errorf("stray key check: %w", err)
	}
	diags = append(diags, stray...)

	return diags, nil
}

func findMissingCredential(ctx context.Context, db *sql.DB, key string, maxAge time.Duration) ([]Diagnostic, error) {
	var updatedAt time.Time
	err := db.QueryRowContext(ctx, `SELECT updated_at FROM credentials WHERE key = ?`, key).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return []Diagnostic{{
			Level:           "warning",
			Code:            "CREDENTIAL_MISSING",
			Message:         fmt.Sprintf("no session stored under %s", key),
			SuggestedAction: "dreamboard auth store <token>",
		}}, nil
	}
	if err != nil {
		return nil, err
	}
	if maxAge > 0 && time.Since(updatedAt) > maxAge {
		return []Diagnostic{{
			Level:           "warning",
			Code:            "STALE_CREDENTIAL",
			Message:         fmt.Sprintf("session under %s was last written %s", key, updatedAt.UTC().Format(time.RFC3339)),
			SuggestedAction: "sign in again or run dreamboard auth store <token>",
		}}, nil
	}
	return nil, nil
}

// findStrayKeys reports rows other than key; nothing in this tool reads them.
func findStrayKeys(ctx context.Context, db *sql.DB, key string) ([]Diagnostic, error) {
	keys, err := queryStringColumn(ctx, db, `SELECT key FROM credentials WHERE key <> ? ORDER BY key`, key)
	if err != nil {
		return nil, err
	}
	diags := make([]Diagnostic, 0, len(keys))
	for _, k := range keys {
		diags = append(diags, Diagnostic{
			Level:   "warning",
			Code:    "STRAY_CREDENTIAL_KEY",
			Message: fmt.Sprintf("credential row %q is not read by any client", k),
		})
	}
	return diags, nil
}
