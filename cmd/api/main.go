package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/auth"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/category"
	categoryrepo "github.com/ovaphlow/pitchfork/service-pantry/internal/category/repo"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/ingredient"
	ingredientrepo "github.com/ovaphlow/pitchfork/service-pantry/internal/ingredient/repo"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/pantry"
	pantryrepo "github.com/ovaphlow/pitchfork/service-pantry/internal/pantry/repo"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/recipe"
	reciperepo "github.com/ovaphlow/pitchfork/service-pantry/internal/recipe/repo"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/router"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/seed"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-pantry/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/database"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/utilities"
)

func main() {
	// a missing .env is fine, the real environment wins anyway
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-pantry")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	users := userrepo.NewUserRepo(db)
	ingredients := ingredientrepo.NewIngredientRepo(db)
	categories := categoryrepo.NewCategoryRepo(db)
	recipes := reciperepo.NewRecipeRepo(db)
	pantries := pantryrepo.NewPantryRepo(db)

	// pantries references users and ingredients, so it goes last
	for _, t := range []interface{ EnsureTable(context.Context) error }{users, ingredients, categories, recipes, pantries} {
		if err := t.EnsureTable(ctx); err != nil {
			sugar.Fatalf("ensure table: %v", err)
		}
	}

	authCfg := auth.ConfigFromEnv()
	if authCfg.UsesDefaultSecret() {
		sugar.Warn("AUTH_SECRET_KEY is not set, tokens are signed with the development secret")
	}
	tokens := auth.NewTokenService(authCfg.SecretKey, authCfg.TokenTTL)
	hasher := auth.NewArgon2Hasher(authCfg.Hasher)

	userSvc := user.NewUserService(users, hasher, sugar)
	ingredientSvc := ingredient.NewService(ingredients, sugar)
	categorySvc := category.NewService(categories, sugar)
	recipeSvc := recipe.NewService(recipes, ingredientSvc, sugar)
	pantrySvc := pantry.NewService(pantries, sugar)

	if seed.EnabledFromEnv() {
		s := &seed.Seeder{
			Users:       userSvc,
			Ingredients: ingredientSvc,
			Categories:  categorySvc,
			Recipes:     recipeSvc,
			Pantry:      pantrySvc,
			Logger:      sugar,
		}
		if err := s.Run(ctx); err != nil {
			sugar.Fatalf("seed demo data: %v", err)
		}
	}

	cfg := router.ConfigFromEnv()
	handler := router.RegisterRoutes(router.Deps{
		Logger:      sugar,
		Config:      cfg,
		IDs:         utilities.NewIDGenerator(utilities.NodeIDFromEnv()),
		DB:          db,
		Guard:       auth.NewGuard(tokens, users, sugar),
		Limiter:     auth.NewLoginLimiter(authCfg.LoginRatePerMinute, authCfg.LoginBurst, sugar),
		Users:       user.NewHandler(userSvc, tokens, sugar),
		Ingredients: ingredient.NewHandler(ingredientSvc, sugar),
		Pantry:      pantry.NewHandler(pantrySvc, sugar),
		Recipes:     recipe.NewHandler(recipeSvc, sugar),
		Categories:  category.NewHandler(categorySvc, sugar),
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("listening", "addr", cfg.Addr)

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
