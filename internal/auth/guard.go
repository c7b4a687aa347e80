package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

// TokenValidator resolves a bearer token to its subject.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// IdentityStore looks accounts up by username.
type IdentityStore interface {
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

// Guard turns bearer tokens into active accounts and checks their role.
type Guard struct {
	tokens TokenValidator
	users  IdentityStore
	logger *zap.SugaredLogger
}

func NewGuard(tokens TokenValidator, users IdentityStore, logger *zap.SugaredLogger) *Guard {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Guard{tokens: tokens, users: users, logger: logger}
}

// Authenticate resolves token to an active account.
//
// A bad token or an unknown subject fails with apperr.ErrUnauthenticated
// (token problems also match apperr.ErrInvalidToken), an inactive account
// with apperr.ErrInactiveAccount. Storage failures are returned as is.
func (g *Guard) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.ErrUnauthenticated
	}
	subject, err := g.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrUnauthenticated, err)
	}
	u, err := g.users.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown subject %q", apperr.ErrUnauthenticated, subject)
		}
		return nil, err
	}
	if !u.Active {
		return nil, apperr.ErrInactiveAccount
	}
	return u, nil
}

// Authorize checks u's role against allowed, which defaults to
// administrators only.
func (g *Guard) Authorize(u *entity.User, allowed ...entity.Role) error {
	if u == nil {
		return apperr.ErrUnauthenticated
	}
	if len(allowed) == 0 {
		allowed = []entity.Role{entity.RoleAdministrator}
	}
	if !slices.Contains(allowed, u.Role) {
		return apperr.ErrInsufficientPrivileges
	}
	return nil
}

// Require runs Authenticate then Authorize.
func (g *Guard) Require(ctx context.Context, token string, allowed ...entity.Role) (*entity.User, error) {
	u, err := g.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := g.Authorize(u, allowed...); err != nil {
		return nil, err
	}
	return u, nil
}
