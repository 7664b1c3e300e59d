package postgres

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
	query := `
        INSERT INTO users (name, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return apperr.Wrap("create user", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
        SELECT id, name, email, password_hash, created_at
        FROM users WHERE id = $1
    `
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Wrap("get user", err)
	}
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
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, apperr.Wrap("list users", err)
		}
		usersList = append(usersList, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap("list users", err)
	}
	return usersList, nil
}
