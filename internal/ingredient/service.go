package ingredient

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/ingredient/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/search"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

// MaxSearchResults caps ingredient search responses.
const MaxSearchResults = 50

// Store is the persistence the service needs.
type Store interface {
	Create(ctx context.Context, in *entity.Ingredient) error
	GetByID(ctx context.Context, id int64) (*entity.Ingredient, error)
	List(ctx context.Context, skip, limit int) ([]entity.Ingredient, error)
	All(ctx context.Context) ([]entity.Ingredient, error)
	Update(ctx context.Context, in *entity.Ingredient) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store  Store
	logger *zap.SugaredLogger
}

func NewService(store Store, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{store: store, logger: logger}
}

// Input is the create/update payload.
type Input struct {
	Name string `json:"name" validate:"required,max=128"`
}

func (s *Service) Create(ctx context.Context, in Input) (*entity.Ingredient, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Newf(apperr.ErrInvalidInput, "name is required")
	}
	ing := &entity.Ingredient{Name: name}
	if err := s.store.Create(ctx, ing); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	return ing, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Ingredient, error) {
	ing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ingredient %d: %w", id, err)
	}
	return ing, nil
}

func (s *Service) List(ctx context.Context, skip, limit int) ([]entity.Ingredient, error) {
	out, err := s.store.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return out, nil
}

// All returns every ingredient.
func (s *Service) All(ctx context.Context) ([]entity.Ingredient, error) {
	out, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*entity.Ingredient, error) {
	ing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ingredient %d: %w", id, err)
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		ing.Name = name
	}
	if err := s.store.Update(ctx, ing); err != nil {
		return nil, fmt.Errorf("update ingredient %d: %w", id, err)
	}
	return ing, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete ingredient %d: %w", id, err)
	}
	s.logger.Infow("ingredient deleted", "ingredient_id", id)
	return nil
}

// Search ranks ingredients by how well their name matches query and returns
// at most MaxSearchResults of those scoring at least threshold.
func (s *Service) Search(ctx context.Context, query string, threshold int) ([]entity.Ingredient, error) {
	if err := search.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}
	found := search.Rank(query, all, func(in entity.Ingredient) []string {
		return []string{in.Name}
	}, search.Options{Threshold: threshold, MaxResults: MaxSearchResults})
	metrics.ObserveSearch("ingredient", len(all), len(found))
	s.logger.Debugw("ingredient search", "query", query, "threshold", threshold, "candidates", len(all), "results", len(found))
	return found, nil
}
