package db

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrScriptNotFound is returned when a schema or data script cannot be read.
	ErrScriptNotFound = errors.New("script not found")
	// ErrScriptParse is returned when SQLite rejects script text: syntax errors,
	// unknown tables or columns.
	ErrScriptParse = errors.New("script rejected by sqlite")
	// ErrConstraintViolation covers PRIMARY KEY, FOREIGN KEY, UNIQUE, CHECK and NOT NULL failures.
	ErrConstraintViolation = errors.New("constraint violation")
	ErrDatabaseNotFound    = errors.New("database file not found")
	ErrUnknownTable        = errors.New("unknown table")
	// ErrQuery marks a failed report query against an already built database.
	ErrQuery = errors.New("report query failed")
)

// classifyScriptError wraps an error from executing a schema or data script
// with the kind matching its sqlite result code. Errors that are not
// sqlite3.Error values are only annotated with op.
func classifyScriptError(op string, err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return fmt.Errorf("%s: %w: %w", op, ErrConstraintViolation, err)
		case sqlite3.ErrError:
			return fmt.Errorf("%s: %w: %w", op, ErrScriptParse, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func queryError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
}
