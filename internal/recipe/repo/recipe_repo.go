package repo

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/recipe/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

// RecipeRepo stores recipes in postgres.
type RecipeRepo struct {
	db *sqlx.DB
}

func NewRecipeRepo(db *sqlx.DB) *RecipeRepo { return &RecipeRepo{db: db} }

// EnsureTable creates the recipes table and its category lookup index.
func (r *RecipeRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS recipes (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  instructions TEXT NOT NULL,
  ingredient_ids BIGINT[] NOT NULL DEFAULT '{}',
  category_ids BIGINT[] NOT NULL DEFAULT '{}',
  servings INT NOT NULL CHECK (servings > 0),
  video_embed_url TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_recipes_category_ids ON recipes USING GIN (category_ids);
CREATE INDEX IF NOT EXISTS idx_recipes_created_at ON recipes (created_at DESC);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return apperr.Storage("recipes.ensure_table", err)
}

const selectRecipe = `SELECT id, title, description, instructions, ingredient_ids, category_ids, servings,
	video_embed_url, image_url, created_at, updated_at FROM recipes`

func (r *RecipeRepo) Create(ctx context.Context, rc *entity.Recipe) error {
	const q = `INSERT INTO recipes (title, description, instructions, ingredient_ids, category_ids, servings, video_embed_url, image_url)
		VALUES (:title, :description, :instructions, :ingredient_ids, :category_ids, :servings, :video_embed_url, :image_url)
		RETURNING id, created_at, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, q, rc)
	if err != nil {
		return apperr.Storage("recipes.create", err)
	}
	defer rows.Close()
	if !rows.Next() {
		err := rows.Err()
		if err == nil {
			err = errors.New("no id returned")
		}
		return apperr.Storage("recipes.create", err)
	}
	if err := rows.Scan(&rc.ID, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
		return apperr.Storage("recipes.create", err)
	}
	return nil
}

func (r *RecipeRepo) GetByID(ctx context.Context, id int64) (*entity.Recipe, error) {
	var rc entity.Recipe
	if err := r.db.GetContext(ctx, &rc, selectRecipe+` WHERE id = $1`, id); err != nil {
		return nil, apperr.Storage("recipes.get", err)
	}
	return &rc, nil
}

// List returns a page ordered by id.
func (r *RecipeRepo) List(ctx context.Context, skip, limit int) ([]entity.Recipe, error) {
	return r.selectMany(ctx, "recipes.list", selectRecipe+` ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
}

// Recent returns the newest recipes first.
func (r *RecipeRepo) Recent(ctx context.Context, limit int) ([]entity.Recipe, error) {
	return r.selectMany(ctx, "recipes.recent", selectRecipe+` ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

// ByCategory returns recipes whose category list contains categoryID.
func (r *RecipeRepo) ByCategory(ctx context.Context, categoryID int64) ([]entity.Recipe, error) {
	return r.selectMany(ctx, "recipes.by_category", selectRecipe+` WHERE $1 = ANY(category_ids) ORDER BY id`, categoryID)
}

// All returns every recipe ordered by id.
func (r *RecipeRepo) All(ctx context.Context) ([]entity.Recipe, error) {
	return r.selectMany(ctx, "recipes.all", selectRecipe+` ORDER BY id`)
}

func (r *RecipeRepo) selectMany(ctx context.Context, op, q string, args ...any) ([]entity.Recipe, error) {
	out := []entity.Recipe{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return out, nil
}

func (r *RecipeRepo) Update(ctx context.Context, rc *entity.Recipe) error {
	const q = `UPDATE recipes SET title = :title, description = :description, instructions = :instructions,
		ingredient_ids = :ingredient_ids, category_ids = :category_ids, servings = :servings,
		video_embed_url = :video_embed_url, image_url = :image_url, updated_at = NOW()
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, rc)
	if err != nil {
		return apperr.Storage("recipes.update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage("recipes.update", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *RecipeRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage("recipes.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage("recipes.delete", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
