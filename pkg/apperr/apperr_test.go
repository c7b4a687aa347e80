package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestStorageClassification(t *testing.T) {
	assert.Nil(t, Storage("noop", nil))
	assert.ErrorIs(t, Storage("users.get", sql.ErrNoRows), ErrNotFound)

	dup := Storage("users.create", &pq.Error{Code: "23505", Constraint: "users_username_key"})
	assert.ErrorIs(t, dup, ErrConflict)
	assert.Contains(t, dup.Error(), "users_username_key")

	fk := Storage("pantry.create", &pq.Error{Code: "23503"})
	assert.ErrorIs(t, fk, ErrInvalidInput)

	down := Storage("recipes.list", errors.New("connection refused"))
	var se *StorageError
	assert.True(t, errors.As(down, &se))
	assert.Equal(t, "recipes.list", se.Op)
	assert.True(t, IsStorage(fmt.Errorf("search: %w", down)))
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized},
		{"unauthenticated wrapping token", fmt.Errorf("%w: %w", ErrUnauthenticated, ErrInvalidToken), http.StatusUnauthorized},
		{"bad credentials", ErrBadCredentials, http.StatusUnauthorized},
		{"inactive", ErrInactiveAccount, http.StatusBadRequest},
		{"privileges", ErrInsufficientPrivileges, http.StatusForbidden},
		{"not found", fmt.Errorf("get recipe: %w", ErrNotFound), http.StatusNotFound},
		{"conflict", Newf(ErrConflict, "username already registered"), http.StatusBadRequest},
		{"invalid input", Newf(ErrInvalidInput, "threshold out of range"), http.StatusBadRequest},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"storage", &StorageError{Op: "x", Err: errors.New("boom")}, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "could not validate credentials",
		Message(fmt.Errorf("%w: %w", ErrUnauthenticated, fmt.Errorf("%w: token is expired", ErrInvalidToken))))
	assert.Equal(t, "username already registered", Message(Newf(ErrConflict, "username already registered")))
	assert.Equal(t, "storage failure", Message(&StorageError{Op: "x", Err: errors.New("dial tcp")}))
	assert.Equal(t, "not found", Message(fmt.Errorf("get recipe 3: %w", ErrNotFound)))
	assert.Equal(t, "internal error", Message(errors.New("nil map write")))
}
