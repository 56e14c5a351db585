package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type userRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *userRepo) Ensure(ctx context.Context, username string) (User, error) {
	now := r.now()
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, username, created_at) VALUES (?, ?, ?)`,
		uuid.NewString(), username, formatTime(now))
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return r.scanOne(ctx, `SELECT id, username, created_at FROM users WHERE username = ?`, username)
}

func (r *userRepo) Get(ctx context.Context, id string) (User, error) {
	return r.scanOne(ctx, `SELECT id, username, created_at FROM users WHERE id = ?`, id)
}

func (r *userRepo) scanOne(ctx context.Context, query string, arg any) (User, error) {
	var (
		u       User
		created string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("query user: %w", err)
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return User{}, err
	}
	return u, nil
}
