package entity

import (
	"fmt"
	"strings"
	"time"
)

// Role is the privilege level of an account.
type Role string

const (
	RoleUser          Role = "user"
	RoleModerator     Role = "moderator"
	RoleAdministrator Role = "admin"
)

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdministrator:
		return true
	}
	return false
}

// User is a row of the `users` table. PasswordHash never leaves the service
// through JSON.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Active       bool      `db:"is_active" json:"is_active"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdministrator }

// CanActOn reports whether u may read or modify the account with the given id.
func (u *User) CanActOn(id int64) bool {
	return u != nil && (u.ID == id || u.IsAdmin())
}
