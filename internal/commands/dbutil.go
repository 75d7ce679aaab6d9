package commands

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/dotcommander/dreamboard/internal/app"
	"github.com/dotcommander/dreamboard/internal/output"
	"github.com/dotcommander/dreamboard/internal/store"
)

// DB is an alias so command code doesn't need to import database/sql.
type DB = sql.DB

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// The JSON error envelope on stdout is the output.
	return "error already printed"
}

func (e printedError) Unwrap() error { return e.err }

func openDB() (*DB, func(), error) {
	dbPath, err := app.GetDBPath()
	if err != nil {
		return nil, nil, err
	}

	db, err := store.InitDBWithPath(dbPath)
	if err != nil {
		return nil, nil, err
	}

	return db, func() { _ = db.Close() }, nil
}

// withRawDB runs fn against the primary credential database and returns
// errors unprinted.
func withRawDB(fn func(db *DB) error) error {
	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()
	return fn(db)
}

func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	var pe printedError
	if errors.As(err, &pe) {
		return err
	}
	attrs := []any{"error", err.Error()}
	type slogAttrError interface {
		SlogAttrs() []any
	}
	var detailed slogAttrError
	if errors.As(err, &detailed) {
		attrs = append(attrs, detailed.SlogAttrs()...)
	}
	slog.Error("command error", attrs...)
	_ = output.PrintError(err)
	return printedError{err: err}
}
