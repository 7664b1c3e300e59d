package sqlite

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func constraintError(err error) (*sqlite.Error, bool) {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return nil, false
	}
	return sqlErr, sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

func isUniqueViolation(err error) bool {
	sqlErr, ok := constraintError(err)
	if !ok {
		return false
	}
	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return strings.Contains(sqlErr.Error(), "UNIQUE constraint failed")
}

// SQLite does not name the violated foreign key, so callers look up the
// referenced tables themselves.
func isForeignKeyViolation(err error) bool {
	sqlErr, ok := constraintError(err)
	if !ok {
		return false
	}
	return sqlErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
		strings.Contains(sqlErr.Error(), "FOREIGN KEY constraint failed")
}
