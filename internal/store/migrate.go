package store

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// MigrateDB runs all pending migrations under a file lock so two processes
// opening the same credential database do not race. In-memory databases skip the lock.
func MigrateDB(db *sql.DB, dbPath string) error {
	if !strings.Contains(dbPath, ":memory:") {
		lockF, err := lockFile(dbPath)
		if err != nil {
			return fmt.Errorf("migration lock: %w", err)
		}
		defer unlockFile(lockF)
	}
	return RunMigrations(db)
}

// SchemaVersion returns the applied goose version, 0 for a fresh database.
func SchemaVersion(db *sql.DB) (int64, error) {
	if err := configureGoose(); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, nil
	}
	return v, nil
}

// RunMigrations applies the embedded migrations.
func RunMigrations(db *sql.DB) error {
	if err := configureGoose(); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

func configureGoose() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetVerbose(false)
	goose.SetLogger(goose.NopLogger())

	// goose's dialect name is "sqlite3" even though the driver registers as "sqlite".
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return nil
}
