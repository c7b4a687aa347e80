package pantry

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/pantry/entity"
	userentity "github.com/ovaphlow/pitchfork/service-pantry/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

type Store interface {
	Create(ctx context.Context, it *entity.Item) error
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	ListByUser(ctx context.Context, userID int64, skip, limit int) ([]entity.Item, error)
	Update(ctx context.Context, it *entity.Item) error
	Delete(ctx context.Context, id int64) error
}

// Service manages pantry items. Every call acts on behalf of an account and
// only the owner of an item, or an administrator, may touch it.
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

// CreateInput adds an ingredient to the caller's pantry.
type CreateInput struct {
	IngredientID int64  `json:"ingredient_id" validate:"required,gt=0"`
	Quantity     string `json:"quantity" validate:"required,max=32"`
	Unit         string `json:"unit" validate:"required,max=32"`
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	IngredientID *int64  `json:"ingredient_id" validate:"omitempty,gt=0"`
	Quantity     *string `json:"quantity" validate:"omitempty,max=32"`
	Unit         *string `json:"unit" validate:"omitempty,max=32"`
}

func (s *Service) List(ctx context.Context, actor *userentity.User, skip, limit int) ([]entity.Item, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	out, err := s.store.ListByUser(ctx, actor.ID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list pantry of user %d: %w", actor.ID, err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, actor *userentity.User, id int64) (*entity.Item, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	it, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get pantry item %d: %w", id, err)
	}
	if !actor.CanActOn(it.UserID) {
		return nil, apperr.ErrInsufficientPrivileges
	}
	return it, nil
}

// Create stores a new item owned by actor.
func (s *Service) Create(ctx context.Context, actor *userentity.User, in CreateInput) (*entity.Item, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	it := &entity.Item{
		UserID:       actor.ID,
		IngredientID: in.IngredientID,
		Quantity:     strings.TrimSpace(in.Quantity),
		Unit:         strings.TrimSpace(in.Unit),
	}
	if it.IngredientID <= 0 || it.Quantity == "" || it.Unit == "" {
		return nil, apperr.Newf(apperr.ErrInvalidInput, "ingredient_id, quantity and unit are required")
	}
	if err := s.store.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("create pantry item: %w", err)
	}
	s.logger.Debugw("pantry item created", "item_id", it.ID, "user_id", actor.ID)
	return it, nil
}

func (s *Service) Update(ctx context.Context, actor *userentity.User, id int64, in UpdateInput) (*entity.Item, error) {
	it, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.IngredientID != nil {
		it.IngredientID = *in.IngredientID
	}
	if in.Quantity != nil {
		if v := strings.TrimSpace(*in.Quantity); v != "" {
			it.Quantity = v
		}
	}
	if in.Unit != nil {
		if v := strings.TrimSpace(*in.Unit); v != "" {
			it.Unit = v
		}
	}
	if err := s.store.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("update pantry item %d: %w", id, err)
	}
	return it, nil
}

func (s *Service) Delete(ctx context.Context, actor *userentity.User, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete pantry item %d: %w", id, err)
	}
	return nil
}
