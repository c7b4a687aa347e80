// Package apperr holds the error kinds shared by services and the HTTP layer,
// and the single place where a kind becomes a status code.
package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

var (
	ErrInvalidToken           = errors.New("invalid token")
	ErrUnauthenticated        = errors.New("could not validate credentials")
	ErrBadCredentials         = errors.New("incorrect username or password")
	ErrInactiveAccount        = errors.New("inactive user")
	ErrInsufficientPrivileges = errors.New("insufficient privileges")
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrRateLimited            = errors.New("too many requests")
)

// Error attaches a client facing message to one of the kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Newf builds an *Error of the given kind.
func Newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// StorageError reports a failure of the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// Storage classifies a driver error returned by op. Missing rows become
// ErrNotFound, unique violations ErrConflict and foreign key violations
// ErrInvalidInput; anything else is wrapped in a *StorageError.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return Newf(ErrConflict, "%s: duplicate value violates %s", op, pqErr.Constraint)
		case "foreign_key_violation":
			return Newf(ErrInvalidInput, "%s: foreign key violation on %s", op, pqErr.Constraint)
		}
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err carries a *StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// StatusCode maps err to the HTTP status returned to clients.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInsufficientPrivileges):
		return http.StatusForbidden
	case errors.Is(err, ErrInactiveAccount):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case IsStorage(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text that is safe to show to clients.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBadCredentials):
		return ErrBadCredentials.Error()
	case errors.Is(err, ErrInsufficientPrivileges):
		return ErrInsufficientPrivileges.Error()
	case errors.Is(err, ErrInactiveAccount):
		return ErrInactiveAccount.Error()
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidToken):
		return ErrUnauthenticated.Error()
	case IsStorage(err):
		return "storage failure"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrNotFound.Error()
	case StatusCode(err) == http.StatusInternalServerError:
		return "internal error"
	}
	return err.Error()
}
