package repo

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

// UserRepo provides data access for users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the users table if not exists (idempotent).
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE EXTENSION IF NOT EXISTS citext;
CREATE TABLE IF NOT EXISTS users (
  id BIGSERIAL PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email CITEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT true,
  role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'moderator', 'admin')),
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return apperr.Storage("users.ensure_table", err)
}

const selectUser = `SELECT id, username, email, password_hash, is_active, role, created_at, updated_at FROM users`

// Create inserts a new user row and fills in its id and timestamps.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) (int64, error) {
	const q = `INSERT INTO users (username, email, password_hash, is_active, role)
		VALUES (:username, :email, :password_hash, :is_active, :role)
		RETURNING id, created_at, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, q, u)
	if err != nil {
		return 0, apperr.Storage("users.create", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, apperr.Storage("users.create", err)
		}
		return 0, apperr.Storage("users.create", errors.New("no id returned"))
	}
	if err := rows.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return 0, apperr.Storage("users.create", err)
	}
	return u.ID, nil
}

// GetByID fetches a user or apperr.ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, "users.get_by_id", selectUser+` WHERE id = $1`, id)
}

// GetByUsername fetches by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, "users.get_by_username", selectUser+` WHERE username = $1`, username)
}

// GetByEmail returns a user matched by email (case-insensitive due to citext).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "users.get_by_email", selectUser+` WHERE email = $1`, email)
}

func (r *UserRepo) getOne(ctx context.Context, op, q string, arg any) (*entity.User, error) {
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, arg); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return &u, nil
}

// List returns users ordered by id.
func (r *UserRepo) List(ctx context.Context, skip, limit int) ([]entity.User, error) {
	users := []entity.User{}
	if err := r.db.SelectContext(ctx, &users, selectUser+` ORDER BY id OFFSET $1 LIMIT $2`, skip, limit); err != nil {
		return nil, apperr.Storage("users.list", err)
	}
	return users, nil
}

// Update writes every mutable column of u.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	const q = `UPDATE users SET username = $2, email = $3, password_hash = $4, is_active = $5, role = $6, updated_at = NOW()
		WHERE id = $1 RETURNING updated_at`
	if err := r.db.GetContext(ctx, &u.UpdatedAt, q, u.ID, u.Username, u.Email, u.PasswordHash, u.Active, u.Role); err != nil {
		return apperr.Storage("users.update", err)
	}
	return nil
}

// Delete removes a user; their pantry goes with them.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage("users.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage("users.delete", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
