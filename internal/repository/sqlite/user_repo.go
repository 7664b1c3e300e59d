package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"livepoll/internal/domain/user"
	"livepoll/internal/platform/apperr"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	created := now()
	err := r.db.QueryRowContext(ctx, `
        INSERT INTO users (name, email, password_hash, created_at)
        VALUES (?, ?, ?, ?)
        RETURNING id
    `, u.Name, u.Email, u.PasswordHash, created).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return apperr.Wrap("create user", err)
	}
	u.CreatedAt = fromUnix(created)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u := &user.User{}
	var created int64
	err := r.db.QueryRowContext(ctx, `
        SELECT id, name, email, password_hash, created_at
        FROM users WHERE id = ?
    `, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Wrap("get user", err)
	}
	u.CreatedAt = fromUnix(created)
	return u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, email, password_hash, created_at
        FROM users ORDER BY id
    `)
	if err != nil {
		return nil, apperr.Wrap("list users", err)
	}
	defer rows.Close()

	usersList := []user.User{}
	for rows.Next() {
		var (
			u       user.User
			created int64
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created); err != nil {
			return nil, apperr.Wrap("list users", err)
		}
		u.CreatedAt = fromUnix(created)
		usersList = append(usersList, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap("list users", err)
	}
	return usersList, nil
}
