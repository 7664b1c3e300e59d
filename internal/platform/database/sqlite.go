package database

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"livepoll/internal/retry"
)

// NewSQLite opens a SQLite database with foreign keys enforced. The pool is
// limited to one connection so writers queue in database/sql instead of
// failing with SQLITE_BUSY.
func NewSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := ping(ctx, db, retry.Policy{Attempts: 1}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
