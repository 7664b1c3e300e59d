package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"livepoll/internal/retry"
)

var readyPolicy = retry.Policy{
	Attempts:  8,
	BaseDelay: 500 * time.Millisecond,
	MaxDelay:  4 * time.Second,
}

func NewPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := ping(ctx, db, readyPolicy); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the server to accept connections. A freshly started
// container can take several seconds; bad credentials or a missing
// database will not fix themselves and fail at once.
func ping(ctx context.Context, db *sql.DB, p retry.Policy) error {
	return retry.Do(ctx, p, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := db.PingContext(pingCtx)
		if isConfigError(err) {
			return retry.Permanent(err)
		}
		return err
	})
}

// isConfigError reports SQLSTATE class 28 (invalid authorization) and
// 3D000 (unknown database).
func isConfigError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return strings.HasPrefix(pgErr.Code, "28") || pgErr.Code == "3D000"
}
