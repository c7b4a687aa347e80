// Package seed loads a small demo cookbook into an empty database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/category"
	catentity "github.com/ovaphlow/pitchfork/service-pantry/internal/category/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/ingredient"
	ingentity "github.com/ovaphlow/pitchfork/service-pantry/internal/ingredient/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/pantry"
	pantryentity "github.com/ovaphlow/pitchfork/service-pantry/internal/pantry/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/recipe"
	recipeentity "github.com/ovaphlow/pitchfork/service-pantry/internal/recipe/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/user"
	userentity "github.com/ovaphlow/pitchfork/service-pantry/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

// EnabledFromEnv reads SEED_DEMO_DATA, on unless set to a false value.
func EnabledFromEnv() bool {
	v := os.Getenv("SEED_DEMO_DATA")
	if v == "" {
		return true
	}
	on, err := strconv.ParseBool(v)
	return err != nil || on
}

type Users interface {
	Create(ctx context.Context, in user.CreateInput) (*userentity.User, error)
}

type Ingredients interface {
	All(ctx context.Context) ([]ingentity.Ingredient, error)
	Create(ctx context.Context, in ingredient.Input) (*ingentity.Ingredient, error)
}

type Categories interface {
	List(ctx context.Context, skip, limit int) ([]catentity.Category, error)
	Create(ctx context.Context, in category.CreateInput) (*catentity.Category, error)
}

type Recipes interface {
	List(ctx context.Context, skip, limit int) ([]recipeentity.Recipe, error)
	Create(ctx context.Context, in recipe.CreateInput) (*recipeentity.Recipe, error)
}

type Pantry interface {
	Create(ctx context.Context, actor *userentity.User, in pantry.CreateInput) (*pantryentity.Item, error)
}

// Seeder fills each empty table with demo rows. Tables that already hold
// data are left alone, so running it on every start is safe.
type Seeder struct {
	Users       Users
	Ingredients Ingredients
	Categories  Categories
	Recipes     Recipes
	Pantry      Pantry
	Logger      *zap.SugaredLogger
}

func (s *Seeder) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	created, err := s.users(ctx)
	if err != nil {
		return err
	}
	ingredients, err := s.ingredients(ctx)
	if err != nil {
		return err
	}
	categories, err := s.categories(ctx)
	if err != nil {
		return err
	}
	recipes, err := s.recipes(ctx, ingredients, categories)
	if err != nil {
		return err
	}

	// The demo pantry only goes to a freshly created demo account.
	pantryItems := 0
	owner, fresh := created["test"]
	if bacon, ok := ingredients["Bacon"]; fresh && ok {
		if _, err := s.Pantry.Create(ctx, owner, pantry.CreateInput{
			IngredientID: bacon, Quantity: "Two", Unit: "kgs",
		}); err != nil {
			return fmt.Errorf("seed pantry: %w", err)
		}
		pantryItems = 1
	}

	logger.Infow("demo data seeded",
		"users", len(created), "ingredients", len(ingredients), "categories", len(categories),
		"recipes", recipes, "pantry_items", pantryItems)
	return nil
}

// users creates the demo accounts that do not exist yet and returns them by
// username.
func (s *Seeder) users(ctx context.Context) (map[string]*userentity.User, error) {
	out := map[string]*userentity.User{}
	for _, du := range demoUsers {
		in := user.CreateInput{Username: du.username, Email: du.email, Password: du.password}
		if du.admin {
			in.Role = userentity.RoleAdministrator
		}
		u, err := s.Users.Create(ctx, in)
		if errors.Is(err, apperr.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", du.username, err)
		}
		out[u.Username] = u
	}
	return out, nil
}

// ingredients returns every ingredient id by name, inserting the demo set
// when the table is empty.
func (s *Seeder) ingredients(ctx context.Context) (map[string]int64, error) {
	all, err := s.Ingredients.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed ingredients: %w", err)
	}
	ids := make(map[string]int64, len(demoIngredients))
	if len(all) > 0 {
		for _, in := range all {
			ids[in.Name] = in.ID
		}
		return ids, nil
	}
	for _, name := range demoIngredients {
		in, err := s.Ingredients.Create(ctx, ingredient.Input{Name: name})
		if err != nil {
			return nil, fmt.Errorf("seed ingredient %s: %w", name, err)
		}
		ids[in.Name] = in.ID
	}
	return ids, nil
}

func (s *Seeder) categories(ctx context.Context) (map[string]int64, error) {
	existing, err := s.Categories.List(ctx, 0, 1000)
	if err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	ids := make(map[string]int64, len(demoCategories))
	if len(existing) > 0 {
		for _, c := range existing {
			ids[c.Name] = c.ID
		}
		return ids, nil
	}
	for _, dc := range demoCategories {
		c, err := s.Categories.Create(ctx, category.CreateInput{Name: dc[0], Description: dc[1]})
		if err != nil {
			return nil, fmt.Errorf("seed category %s: %w", dc[0], err)
		}
		ids[c.Name] = c.ID
	}
	return ids, nil
}

// recipes inserts the demo recipes into an empty table and reports how many
// it added. Names missing from the lookups are dropped from the links.
func (s *Seeder) recipes(ctx context.Context, ingredients, categories map[string]int64) (int, error) {
	existing, err := s.Recipes.List(ctx, 0, 1)
	if err != nil {
		return 0, fmt.Errorf("seed recipes: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, dr := range demoRecipes {
		_, err := s.Recipes.Create(ctx, recipe.CreateInput{
			Title:         dr.title,
			Description:   dr.description,
			Instructions:  dr.instructions,
			IngredientIDs: lookup(ingredients, dr.ingredients),
			CategoryIDs:   lookup(categories, dr.categories),
			Servings:      dr.servings,
			VideoEmbedURL: dr.video,
			ImageURL:      dr.image,
		})
		if err != nil {
			return 0, fmt.Errorf("seed recipe %s: %w", dr.title, err)
		}
	}
	return len(demoRecipes), nil
}

func lookup(ids map[string]int64, names []string) []int64 {
	out := make([]int64, 0, len(names))
	for _, n := range names {
		if id, ok := ids[n]; ok {
			out = append(out, id)
		}
	}
	return out
}
