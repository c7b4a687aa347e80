package user

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/auth"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/utilities"
)

// TokenIssuer signs access tokens; *auth.TokenService satisfies it.
type TokenIssuer interface {
	IssueToken(subject string, ttl time.Duration) (auth.Issued, error)
}

// Handler exposes HTTP endpoints for registration, login and accounts.
type Handler struct {
	svc    *UserService
	tokens TokenIssuer
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, tokens TokenIssuer, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

// Register handles self-service signup.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if err := utilities.DecodeValidate(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, u)
}

// LoginRequest accepts either username or identifier (username or email).
type LoginRequest struct {
	Username   string `json:"username" validate:"required_without=Identifier"`
	Identifier string `json:"identifier" validate:"required_without=Username"`
	Password   string `json:"password" validate:"required"`
}

// TokenResponse is the OAuth2 style password grant response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login accepts an OAuth2 password form or a JSON body and returns a bearer
// token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(r)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	identifier := req.Username
	if identifier == "" {
		identifier = req.Identifier
	}
	u, err := h.svc.Authenticate(r.Context(), identifier, req.Password)
	if err != nil {
		h.logger.Infow("login failed", "identifier", identifier, "remote", r.RemoteAddr)
		utilities.WriteError(w, h.logger, err)
		return
	}
	iss, err := h.tokens.IssueToken(u.Username, 0)
	if err != nil {
		utilities.WriteError(w, h.logger, fmt.Errorf("issue token: %w", err))
		return
	}
	h.logger.Infow("login succeeded", "user_id", u.ID, "jti", iss.ID)
	w.Header().Set("Cache-Control", "no-store")
	utilities.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: iss.Token,
		TokenType:   "bearer",
		ExpiresIn:   int64(iss.Lifetime().Seconds()),
	})
}

func decodeLogin(r *http.Request) (LoginRequest, error) {
	var req LoginRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return req, apperr.Newf(apperr.ErrInvalidInput, "invalid form: %v", err)
		}
		req.Username = strings.TrimSpace(r.PostForm.Get("username"))
		req.Password = r.PostForm.Get("password")
		return req, utilities.Validate(&req)
	default:
		return req, utilities.DecodeValidate(r, &req)
	}
}

// Me returns the caller's account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, h.logger, apperr.ErrUnauthenticated)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, u)
}

// Demo is a protected route that greets the caller.
func (h *Handler) Demo(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, h.logger, apperr.ErrUnauthenticated)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Hello %s, this is a protected route!", u.Username),
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := utilities.Page(r, 100, 500)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	users, err := h.svc.List(r.Context(), skip, limit)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInput
	if err := utilities.DecodeValidate(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	u, err := h.svc.Create(r.Context(), req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, u)
}

// Get returns an account to itself or to an administrator.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	if !actor.CanActOn(id) {
		utilities.WriteError(w, h.logger, apperr.ErrInsufficientPrivileges)
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var req UpdateInput
	if err := utilities.DecodeValidate(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	u, err := h.svc.Update(r.Context(), actor, id, req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utilities.PathID(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) actorAndID(w http.ResponseWriter, r *http.Request) (*entity.User, int64, bool) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, h.logger, apperr.ErrUnauthenticated)
		return nil, 0, false
	}
	id, err := utilities.PathID(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return nil, 0, false
	}
	return actor, id, true
}
