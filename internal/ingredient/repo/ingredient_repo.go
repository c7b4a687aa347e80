package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/ingredient/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

// IngredientRepo stores ingredients in postgres.
type IngredientRepo struct {
	db *sqlx.DB
}

func NewIngredientRepo(db *sqlx.DB) *IngredientRepo { return &IngredientRepo{db: db} }

// EnsureTable creates the ingredients table if not exists.
func (r *IngredientRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS ingredients (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return apperr.Storage("ingredients.ensure_table", err)
}

func (r *IngredientRepo) Create(ctx context.Context, in *entity.Ingredient) error {
	const q = `INSERT INTO ingredients (name) VALUES ($1) RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, q, in.Name).Scan(&in.ID, &in.CreatedAt); err != nil {
		return apperr.Storage("ingredients.create", err)
	}
	return nil
}

func (r *IngredientRepo) GetByID(ctx context.Context, id int64) (*entity.Ingredient, error) {
	var in entity.Ingredient
	if err := r.db.GetContext(ctx, &in, `SELECT id, name, created_at FROM ingredients WHERE id = $1`, id); err != nil {
		return nil, apperr.Storage("ingredients.get", err)
	}
	return &in, nil
}

// List returns a page ordered by id.
func (r *IngredientRepo) List(ctx context.Context, skip, limit int) ([]entity.Ingredient, error) {
	out := []entity.Ingredient{}
	const q = `SELECT id, name, created_at FROM ingredients ORDER BY id OFFSET $1 LIMIT $2`
	if err := r.db.SelectContext(ctx, &out, q, skip, limit); err != nil {
		return nil, apperr.Storage("ingredients.list", err)
	}
	return out, nil
}

// All returns every ingredient ordered by id; search candidates come from here.
func (r *IngredientRepo) All(ctx context.Context) ([]entity.Ingredient, error) {
	out := []entity.Ingredient{}
	if err := r.db.SelectContext(ctx, &out, `SELECT id, name, created_at FROM ingredients ORDER BY id`); err != nil {
		return nil, apperr.Storage("ingredients.all", err)
	}
	return out, nil
}

func (r *IngredientRepo) Update(ctx context.Context, in *entity.Ingredient) error {
	res, err := r.db.ExecContext(ctx, `UPDATE ingredients SET name = $2 WHERE id = $1`, in.ID, in.Name)
	return affectedOne("ingredients.update", res, err)
}

func (r *IngredientRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	return affectedOne("ingredients.delete", res, err)
}

type rowsAffecter interface{ RowsAffected() (int64, error) }

func affectedOne(op string, res rowsAffecter, err error) error {
	if err != nil {
		return apperr.Storage(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage(op, err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
