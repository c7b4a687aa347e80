package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"

	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

// TokenService issues and validates HS256 bearer tokens carrying the
// account username as subject.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuing and validating.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) *TokenService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s := &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// TTL is the lifetime used when Issue is called with ttl <= 0.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issued describes a freshly signed token.
type Issued struct {
	Token     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Lifetime is how long the token is valid from the moment it was issued.
func (i Issued) Lifetime() time.Duration {
	return i.ExpiresAt.Sub(i.IssuedAt)
}

// Issue signs a token for subject valid for ttl (the service default when
// ttl <= 0).
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	iss, err := s.IssueToken(subject, ttl)
	if err != nil {
		return "", err
	}
	return iss.Token, nil
}

// IssueToken is Issue returning the token id, issue time and expiry as well.
func (s *TokenService) IssueToken(subject string, ttl time.Duration) (Issued, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Issued{}, errors.New("issue token: empty subject")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        ksuid.New().String(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign token: %w", err)
	}
	return Issued{Token: signed, ID: claims.ID, IssuedAt: claims.IssuedAt.Time, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Validate returns the subject of a well formed, correctly signed, unexpired
// token. Every failure matches apperr.ErrInvalidToken.
func (s *TokenService) Validate(token string) (string, error) {
	claims, err := s.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Parse validates token and returns its claims.
func (s *TokenService) Parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, apperr.ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", apperr.ErrInvalidToken)
	}
	return claims, nil
}
