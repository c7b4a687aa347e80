package category

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/category/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/utilities"
)

type Store interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context, skip, limit int) ([]entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
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

type CreateInput struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,max=64"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Category, error) {
	c := &entity.Category{
		Name:        utilities.StripMarkup(in.Name),
		Description: utilities.StripMarkup(in.Description),
	}
	if c.Name == "" {
		return nil, apperr.Newf(apperr.ErrInvalidInput, "name is required")
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.logger.Infow("category created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Category, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, skip, limit int) ([]entity.Category, error) {
	out, err := s.store.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*entity.Category, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	if in.Name != nil {
		if v := utilities.StripMarkup(*in.Name); v != "" {
			c.Name = v
		}
	}
	if in.Description != nil {
		c.Description = utilities.StripMarkup(*in.Description)
	}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	return c, nil
}

// Delete removes the category. Recipes keep the dangling id in their
// category list, it simply matches nothing any more.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	s.logger.Infow("category deleted", "category_id", id)
	return nil
}
