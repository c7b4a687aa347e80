package recipe

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	ingentity "github.com/ovaphlow/pitchfork/service-pantry/internal/ingredient/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/recipe/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/search"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/utilities"
)

// DefaultRecentLimit is how many recipes Recent returns when not told.
const DefaultRecentLimit = 10

type Store interface {
	Create(ctx context.Context, rc *entity.Recipe) error
	GetByID(ctx context.Context, id int64) (*entity.Recipe, error)
	List(ctx context.Context, skip, limit int) ([]entity.Recipe, error)
	Recent(ctx context.Context, limit int) ([]entity.Recipe, error)
	ByCategory(ctx context.Context, categoryID int64) ([]entity.Recipe, error)
	All(ctx context.Context) ([]entity.Recipe, error)
	Update(ctx context.Context, rc *entity.Recipe) error
	Delete(ctx context.Context, id int64) error
}

// IngredientLister resolves the names of linked ingredients during search.
type IngredientLister interface {
	All(ctx context.Context) ([]ingentity.Ingredient, error)
}

type Service struct {
	store       Store
	ingredients IngredientLister
	logger      *zap.SugaredLogger
}

func NewService(store Store, ingredients IngredientLister, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{store: store, ingredients: ingredients, logger: logger}
}

type CreateInput struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Description   string  `json:"description" validate:"max=2000"`
	Instructions  string  `json:"instructions" validate:"required"`
	IngredientIDs []int64 `json:"ingredient_ids" validate:"dive,gt=0"`
	CategoryIDs   []int64 `json:"category_ids" validate:"dive,gt=0"`
	Servings      int     `json:"servings" validate:"required,gt=0"`
	VideoEmbedURL string  `json:"video_embed_url" validate:"omitempty,url"`
	ImageURL      string  `json:"image_url" validate:"omitempty,url"`
}

// UpdateInput changes only the fields present in the request.
type UpdateInput struct {
	Title         *string  `json:"title" validate:"omitempty,max=200"`
	Description   *string  `json:"description" validate:"omitempty,max=2000"`
	Instructions  *string  `json:"instructions"`
	IngredientIDs *[]int64 `json:"ingredient_ids" validate:"omitempty,dive,gt=0"`
	CategoryIDs   *[]int64 `json:"category_ids" validate:"omitempty,dive,gt=0"`
	Servings      *int     `json:"servings" validate:"omitempty,gt=0"`
	VideoEmbedURL *string  `json:"video_embed_url" validate:"omitempty,url"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Recipe, error) {
	rc := &entity.Recipe{
		Title:         utilities.StripMarkup(in.Title),
		Description:   utilities.StripMarkup(in.Description),
		Instructions:  utilities.StripMarkup(in.Instructions),
		IngredientIDs: idList(in.IngredientIDs),
		CategoryIDs:   idList(in.CategoryIDs),
		Servings:      in.Servings,
		VideoEmbedURL: in.VideoEmbedURL,
		ImageURL:      in.ImageURL,
	}
	if err := check(rc); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, rc); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	s.logger.Debugw("recipe created", "recipe_id", rc.ID, "title", rc.Title)
	return rc, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Recipe, error) {
	rc, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return rc, nil
}

func (s *Service) List(ctx context.Context, skip, limit int) ([]entity.Recipe, error) {
	out, err := s.store.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return out, nil
}

// Recent returns the newest recipes, DefaultRecentLimit when limit <= 0.
func (s *Service) Recent(ctx context.Context, limit int) ([]entity.Recipe, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	out, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent recipes: %w", err)
	}
	return out, nil
}

func (s *Service) ByCategory(ctx context.Context, categoryID int64) ([]entity.Recipe, error) {
	out, err := s.store.ByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("recipes in category %d: %w", categoryID, err)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*entity.Recipe, error) {
	rc, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	if in.Title != nil {
		rc.Title = utilities.StripMarkup(*in.Title)
	}
	if in.Description != nil {
		rc.Description = utilities.StripMarkup(*in.Description)
	}
	if in.Instructions != nil {
		rc.Instructions = utilities.StripMarkup(*in.Instructions)
	}
	if in.IngredientIDs != nil {
		rc.IngredientIDs = idList(*in.IngredientIDs)
	}
	if in.CategoryIDs != nil {
		rc.CategoryIDs = idList(*in.CategoryIDs)
	}
	if in.Servings != nil {
		rc.Servings = *in.Servings
	}
	if in.VideoEmbedURL != nil {
		rc.VideoEmbedURL = *in.VideoEmbedURL
	}
	if in.ImageURL != nil {
		rc.ImageURL = *in.ImageURL
	}
	if err := check(rc); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, rc); err != nil {
		return nil, fmt.Errorf("update recipe %d: %w", id, err)
	}
	return rc, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe %d: %w", id, err)
	}
	s.logger.Infow("recipe deleted", "recipe_id", id)
	return nil
}

// Search ranks recipes against query using the title, the description and
// the names of the linked ingredients. Every recipe reaching threshold is
// returned.
func (s *Service) Search(ctx context.Context, query string, threshold int) ([]entity.Recipe, error) {
	if err := search.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	ings, err := s.ingredients.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	names := make(map[int64]string, len(ings))
	for _, in := range ings {
		names[in.ID] = in.Name
	}

	found := search.Rank(query, all, func(rc entity.Recipe) []string {
		fields := make([]string, 0, 2+len(rc.IngredientIDs))
		fields = append(fields, rc.Title, rc.Description)
		for _, id := range rc.IngredientIDs {
			if n, ok := names[id]; ok {
				fields = append(fields, n)
			}
		}
		return fields
	}, search.Options{Threshold: threshold})
	metrics.ObserveSearch("recipe", len(all), len(found))
	s.logger.Debugw("recipe search", "query", query, "threshold", threshold, "candidates", len(all), "results", len(found))
	return found, nil
}

func check(rc *entity.Recipe) error {
	switch {
	case rc.Title == "":
		return apperr.Newf(apperr.ErrInvalidInput, "title is required")
	case rc.Instructions == "":
		return apperr.Newf(apperr.ErrInvalidInput, "instructions is required")
	case rc.Servings <= 0:
		return apperr.Newf(apperr.ErrInvalidInput, "servings must be greater than 0")
	}
	return nil
}

// idList never returns nil so the column default is not needed on insert.
func idList(ids []int64) pq.Int64Array {
	if ids == nil {
		return pq.Int64Array{}
	}
	return pq.Int64Array(ids)
}
