package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/auth"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/user/entity"
)

type handlerFixture struct {
	mux    *http.ServeMux
	svc    *UserService
	tokens *auth.TokenService
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	svc, store, _ := newTestService(t)
	tokens := auth.NewTokenService("test-secret", 30*time.Minute)
	guard := auth.NewGuard(tokens, store, nil)
	h := NewHandler(svc, tokens, zap.NewNop().Sugar())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.Handle("GET /auth/me", guard.Authenticated()(http.HandlerFunc(h.Me)))
	mux.Handle("GET /auth/demo", guard.Authenticated()(http.HandlerFunc(h.Demo)))
	mux.Handle("GET /users/{id}", guard.Authenticated()(http.HandlerFunc(h.Get)))
	mux.Handle("DELETE /users/{id}", guard.Authorized()(http.HandlerFunc(h.Delete)))

	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "test", Email: "test@example.com", Password: "testpassword"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Username: "testadmin", Email: "admin@example.com", Password: "testadminpassword", Role: entity.RoleAdministrator})
	require.NoError(t, err)
	return &handlerFixture{mux: mux, svc: svc, tokens: tokens}
}

func (f *handlerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *handlerFixture) login(t *testing.T, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64(1800), resp.ExpiresIn)
	return resp.AccessToken
}

func TestLoginForm(t *testing.T) {
	f := newHandlerFixture(t)
	tok := f.login(t, "test", "testpassword")

	sub, err := f.tokens.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "test", sub)
}

func TestLoginExpiresInFollowsTokenClock(t *testing.T) {
	svc, _, _ := newTestService(t)
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := auth.NewTokenService("test-secret", 30*time.Minute, auth.WithClock(func() time.Time { return issuedAt }))
	h := NewHandler(svc, tokens, zap.NewNop().Sugar())

	_, err := svc.Register(context.Background(), RegisterInput{Username: "test", Email: "test@example.com", Password: "testpassword"})
	require.NoError(t, err)

	form := url.Values{"username": {"test"}, "password": {"testpassword"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1800), resp.ExpiresIn)
}

func TestLoginJSON(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"identifier":"test@example.com","password":"testpassword"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	req = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"test","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = f.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"incorrect username or password"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"x"}`))
	rec = f.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterHandler(t *testing.T) {
	f := newHandlerFixture(t)

	body := `{"username":"newbie","email":"newbie@example.com","password":"longenough"}`
	rec := f.do(httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "longenough")

	rec = f.do(httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"username already registered"}`, rec.Body.String())

	rec = f.do(httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"x","email":"bad","password":"short"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeAndDemo(t *testing.T) {
	f := newHandlerFixture(t)
	tok := f.login(t, "test", "testpassword")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "test", me["username"])
	assert.NotContains(t, me, "password_hash")

	req = httptest.NewRequest(http.MethodGet, "/auth/demo", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = f.do(req)
	assert.JSONEq(t, `{"message":"Hello test, this is a protected route!"}`, rec.Body.String())

	rec = f.do(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInactiveAccountToken(t *testing.T) {
	f := newHandlerFixture(t)
	tok := f.login(t, "test", "testpassword")

	admin, err := f.svc.store.GetByUsername(context.Background(), "testadmin")
	require.NoError(t, err)
	u, err := f.svc.store.GetByUsername(context.Background(), "test")
	require.NoError(t, err)
	off := false
	_, err = f.svc.Update(context.Background(), admin, u.ID, UpdateInput{Active: &off})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := f.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"inactive user"}`, rec.Body.String())
}

func TestGetAndDeleteUserGates(t *testing.T) {
	f := newHandlerFixture(t)
	userTok := f.login(t, "test", "testpassword")
	adminTok := f.login(t, "testadmin", "testadminpassword")

	get := func(tok, id string) int {
		req := httptest.NewRequest(http.MethodGet, "/users/"+id, nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		return f.do(req).Code
	}
	assert.Equal(t, http.StatusOK, get(userTok, "1"))
	assert.Equal(t, http.StatusForbidden, get(userTok, "2"))
	assert.Equal(t, http.StatusOK, get(adminTok, "1"))
	assert.Equal(t, http.StatusBadRequest, get(adminTok, "abc"))

	del := func(tok, id string) int {
		req := httptest.NewRequest(http.MethodDelete, "/users/"+id, nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		return f.do(req).Code
	}
	assert.Equal(t, http.StatusForbidden, del(userTok, "1"))
	assert.Equal(t, http.StatusNoContent, del(adminTok, "1"))
	assert.Equal(t, http.StatusNotFound, del(adminTok, "1"))
}
