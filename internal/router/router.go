package router

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/auth"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/category"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/ingredient"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/pantry"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/recipe"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/user"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/utilities"
)

// Prefix is the path every API route lives under.
const Prefix = "/pantry-api"

// Config holds HTTP server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
}

// ConfigFromEnv reads HTTP_ADDR and the comma separated CORS_ALLOWED_ORIGINS.
func ConfigFromEnv() Config {
	cfg := Config{Addr: os.Getenv("HTTP_ADDR"), AllowedOrigins: []string{"*"}}
	if cfg.Addr == "" {
		cfg.Addr = "0.0.0.0:8431"
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	return cfg
}

// Pinger reports database health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps is everything RegisterRoutes mounts.
type Deps struct {
	Logger      *zap.SugaredLogger
	Config      Config
	IDs         *utilities.IDGenerator
	DB          Pinger
	Guard       *auth.Guard
	Limiter     *auth.LoginLimiter
	Users       *user.Handler
	Ingredients *ingredient.Handler
	Pantry      *pantry.Handler
	Recipes     *recipe.Handler
	Categories  *category.Handler
}

// RegisterRoutes mounts every handler on a ServeMux and wraps it with the
// request id, logging, metrics, CORS and security header middleware.
func RegisterRoutes(d Deps) http.Handler {
	mux := http.NewServeMux()
	authed := d.Guard.Authenticated()
	admin := d.Guard.Authorized(entity.RoleAdministrator)
	curator := d.Guard.Authorized(entity.RoleModerator, entity.RoleAdministrator)

	handle := func(pattern string, h http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.Handle(method+" "+Prefix+path, h)
	}
	gated := func(pattern string, gate func(http.Handler) http.Handler, h http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.Handle(method+" "+Prefix+path, gate(h))
	}

	handle("GET /health", health(d.DB))
	mux.Handle("GET /metrics", metrics.Handler())

	handle("POST /auth/register", d.Users.Register)
	mux.Handle("POST "+Prefix+"/auth/login", d.Limiter.Middleware(http.HandlerFunc(d.Users.Login)))
	gated("GET /auth/me", authed, d.Users.Me)
	gated("GET /auth/demo", authed, d.Users.Demo)

	gated("GET /users", admin, d.Users.List)
	gated("POST /users", admin, d.Users.Create)
	gated("GET /users/{id}", authed, d.Users.Get)
	gated("PUT /users/{id}", authed, d.Users.Update)
	gated("DELETE /users/{id}", admin, d.Users.Delete)

	handle("GET /ingredients", d.Ingredients.List)
	handle("GET /ingredients/search", d.Ingredients.Search)
	handle("GET /ingredients/{id}", d.Ingredients.Get)
	gated("POST /ingredients", authed, d.Ingredients.Create)
	gated("PUT /ingredients/{id}", authed, d.Ingredients.Update)
	gated("DELETE /ingredients/{id}", curator, d.Ingredients.Delete)

	gated("GET /pantry", authed, d.Pantry.List)
	gated("POST /pantry", authed, d.Pantry.Create)
	gated("GET /pantry/{id}", authed, d.Pantry.Get)
	gated("PUT /pantry/{id}", authed, d.Pantry.Update)
	gated("DELETE /pantry/{id}", authed, d.Pantry.Delete)

	handle("GET /recipes", d.Recipes.List)
	handle("GET /recipes/recent", d.Recipes.Recent)
	handle("GET /recipes/search", d.Recipes.Search)
	handle("GET /recipes/category/{id}", d.Recipes.ByCategory)
	handle("GET /recipes/{id}", d.Recipes.Get)
	gated("POST /recipes", authed, d.Recipes.Create)
	gated("PUT /recipes/{id}", authed, d.Recipes.Update)
	gated("DELETE /recipes/{id}", curator, d.Recipes.Delete)

	handle("GET /categories", d.Categories.List)
	handle("GET /categories/{id}", d.Categories.Get)
	gated("POST /categories", admin, d.Categories.Create)
	gated("PUT /categories/{id}", admin, d.Categories.Update)
	gated("DELETE /categories/{id}", admin, d.Categories.Delete)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: d.Config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	})

	var h http.Handler = mux
	h = SecurityHeadersMiddleware()(h)
	h = corsHandler(h)
	h = metrics.Middleware(h)
	h = LoggingMiddleware(d.Logger)(h)
	h = RequestIDMiddleware(d.IDs)(h)
	return h
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				utilities.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		utilities.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
