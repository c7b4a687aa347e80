package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/utilities"
)

// Store is the persistence the service needs; *repo.UserRepo satisfies it.
type Store interface {
	Create(ctx context.Context, u *entity.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, skip, limit int) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// UserService orchestrates registration, authentication and account
// maintenance.
type UserService struct {
	store  Store
	hasher PasswordHasher
	logger *zap.SugaredLogger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewUserService(store Store, hasher PasswordHasher, logger *zap.SugaredLogger) *UserService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &UserService{store: store, hasher: hasher, logger: logger}
}

// RegisterInput is the self-service signup payload.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// CreateInput is the administrative create payload.
type CreateInput struct {
	Username string      `json:"username" validate:"required,min=3,max=64"`
	Email    string      `json:"email" validate:"required,email,max=254"`
	Password string      `json:"password" validate:"required,min=8,max=128"`
	Role     entity.Role `json:"role" validate:"omitempty,oneof=user moderator admin"`
	Active   *bool       `json:"is_active"`
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	Username *string      `json:"username" validate:"omitempty,min=3,max=64"`
	Email    *string      `json:"email" validate:"omitempty,email,max=254"`
	Password *string      `json:"password" validate:"omitempty,min=8,max=128"`
	Role     *entity.Role `json:"role" validate:"omitempty,oneof=user moderator admin"`
	Active   *bool        `json:"is_active"`
}

// Register creates an active account with the user role.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	return s.Create(ctx, CreateInput{Username: in.Username, Email: in.Email, Password: in.Password, Role: entity.RoleUser})
}

// Create inserts an account with the given role (user when empty), rejecting
// a taken username or email with apperr.ErrConflict.
func (s *UserService) Create(ctx context.Context, in CreateInput) (*entity.User, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, apperr.Newf(apperr.ErrInvalidInput, "username, email and password are required")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.Newf(apperr.ErrInvalidInput, "unknown role %q", role)
	}
	if err := s.ensureUnique(ctx, 0, username, email); err != nil {
		return nil, err
	}
	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		Active:       in.Active == nil || *in.Active,
		Role:         role,
	}
	if _, err := s.store.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Infow("user created", "user_id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}

// ensureUnique rejects a username or email held by an account other than
// selfID.
func (s *UserService) ensureUnique(ctx context.Context, selfID int64, username, email string) error {
	if username != "" {
		existing, err := s.store.GetByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != selfID:
			return apperr.Newf(apperr.ErrConflict, "username already registered")
		case err != nil && !errors.Is(err, apperr.ErrNotFound):
			return err
		}
	}
	if email != "" {
		existing, err := s.store.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != selfID:
			return apperr.Newf(apperr.ErrConflict, "email already registered")
		case err != nil && !errors.Is(err, apperr.ErrNotFound):
			return err
		}
	}
	return nil
}

// Authenticate checks a password for an account found by username or email.
// It does not look at the active flag; the guard rejects inactive accounts
// when the issued token is used.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*entity.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperr.ErrBadCredentials
	}
	u, err := s.store.GetByUsername(ctx, identifier)
	if errors.Is(err, apperr.ErrNotFound) && strings.Contains(identifier, "@") {
		u, err = s.store.GetByEmail(ctx, normalizeEmail(identifier))
	}
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// keep the miss as slow as a wrong password
			s.hasher.Verify(password, s.dummy())
			return nil, apperr.ErrBadCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, apperr.ErrBadCredentials
	}
	return u, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		d, err := s.hasher.Hash(utilities.NewKSUID())
		if err != nil {
			s.logger.Warnw("dummy digest unavailable", "err", err)
			return
		}
		s.dummyDigest = d
	})
	return s.dummyDigest
}

// Get returns the account with id.
func (s *UserService) Get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// List returns a page of accounts.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]entity.User, error) {
	users, err := s.store.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update applies in to the account id on behalf of actor. Accounts may edit
// themselves; role and active changes and edits of other accounts need an
// administrator.
func (s *UserService) Update(ctx context.Context, actor *entity.User, id int64, in UpdateInput) (*entity.User, error) {
	if !actor.CanActOn(id) {
		return nil, apperr.ErrInsufficientPrivileges
	}
	if (in.Role != nil || in.Active != nil) && !actor.IsAdmin() {
		return nil, apperr.ErrInsufficientPrivileges
	}
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	var newName, newEmail string
	if in.Username != nil {
		if v := strings.TrimSpace(*in.Username); v != "" && v != u.Username {
			newName = v
		}
	}
	if in.Email != nil {
		if v := normalizeEmail(*in.Email); v != "" && v != u.Email {
			newEmail = v
		}
	}
	if err := s.ensureUnique(ctx, u.ID, newName, newEmail); err != nil {
		return nil, err
	}
	if newName != "" {
		u.Username = newName
	}
	if newEmail != "" {
		u.Email = newEmail
	}
	if in.Password != nil && *in.Password != "" {
		digest, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = digest
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperr.Newf(apperr.ErrInvalidInput, "unknown role %q", *in.Role)
		}
		u.Role = *in.Role
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	if err := s.store.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	s.logger.Infow("user updated", "user_id", u.ID, "by", actor.ID)
	return u, nil
}

// Delete removes the account id.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	s.logger.Infow("user deleted", "user_id", id)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
