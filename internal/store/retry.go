package store

import (
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryWithBackoff retries operation while SQLite reports lock contention.
// The authentication side writes the credential row while we read it, so
// short busy windows are expected; any other error stops immediately.
func RetryWithBackoff(operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = 5 * time.Second
	b.RandomizationFactor = 0.1

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}
		if isBusyError(err) {
			return err
		}
		return backoff.Permanent(err)
	}, b)
}

// isBusyError matches modernc.org/sqlite lock-contention messages.
func isBusyError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}
