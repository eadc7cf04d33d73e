package db

import (
	"errors"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestClassifySQLError(t *testing.T) {
	assert.NoError(t, classifyScriptError("op", nil))

	constraint := classifyScriptError("insert", sqlite3.Error{Code: sqlite3.ErrConstraint})
	assert.ErrorIs(t, constraint, ErrConstraintViolation)
	assert.NotErrorIs(t, constraint, ErrScriptParse)

	parse := classifyScriptError("exec", sqlite3.Error{Code: sqlite3.ErrError})
	assert.ErrorIs(t, parse, ErrScriptParse)

	busy := classifyScriptError("exec", sqlite3.Error{Code: sqlite3.ErrBusy})
	assert.NotErrorIs(t, busy, ErrScriptParse)
	assert.NotErrorIs(t, busy, ErrConstraintViolation)

	plain := errors.New("boom")
	wrapped := classifyScriptError("exec", plain)
	assert.ErrorIs(t, wrapped, plain)
	assert.Contains(t, wrapped.Error(), "exec: boom")
}

func TestQueryErrorIsNotAScriptError(t *testing.T) {
	err := queryError("top product models", sqlite3.Error{Code: sqlite3.ErrError})
	assert.ErrorIs(t, err, ErrQuery)
	assert.NotErrorIs(t, err, ErrScriptParse)
	assert.NotErrorIs(t, err, ErrConstraintViolation)

	var sqliteErr sqlite3.Error
	assert.ErrorAs(t, err, &sqliteErr)
	assert.Equal(t, sqlite3.ErrError, sqliteErr.Code)
}
