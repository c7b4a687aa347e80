package repo

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/pantry/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

// PantryRepo stores pantry items in the `pantries` table.
type PantryRepo struct {
	db *sqlx.DB
}

func NewPantryRepo(db *sqlx.DB) *PantryRepo { return &PantryRepo{db: db} }

// EnsureTable creates the pantries table. It references users and
// ingredients, so those tables must exist first.
func (r *PantryRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS pantries (
  id BIGSERIAL PRIMARY KEY,
  user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  ingredient_id BIGINT NOT NULL REFERENCES ingredients(id),
  quantity TEXT NOT NULL,
  unit TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_pantries_user_id ON pantries(user_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return apperr.Storage("pantries.ensure_table", err)
}

const selectItem = `SELECT id, user_id, ingredient_id, quantity, unit, created_at, updated_at FROM pantries`

func (r *PantryRepo) Create(ctx context.Context, it *entity.Item) error {
	const q = `INSERT INTO pantries (user_id, ingredient_id, quantity, unit)
		VALUES (:user_id, :ingredient_id, :quantity, :unit)
		RETURNING id, created_at, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, q, it)
	if err != nil {
		return apperr.Storage("pantries.create", err)
	}
	defer rows.Close()
	if !rows.Next() {
		err := rows.Err()
		if err == nil {
			err = errors.New("no id returned")
		}
		return apperr.Storage("pantries.create", err)
	}
	if err := rows.Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return apperr.Storage("pantries.create", err)
	}
	return nil
}

func (r *PantryRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	var it entity.Item
	if err := r.db.GetContext(ctx, &it, selectItem+` WHERE id = $1`, id); err != nil {
		return nil, apperr.Storage("pantries.get", err)
	}
	return &it, nil
}

// ListByUser returns a page of one user's items.
func (r *PantryRepo) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]entity.Item, error) {
	out := []entity.Item{}
	q := selectItem + ` WHERE user_id = $1 ORDER BY id OFFSET $2 LIMIT $3`
	if err := r.db.SelectContext(ctx, &out, q, userID, skip, limit); err != nil {
		return nil, apperr.Storage("pantries.list_by_user", err)
	}
	return out, nil
}

func (r *PantryRepo) Update(ctx context.Context, it *entity.Item) error {
	const q = `UPDATE pantries SET ingredient_id = $2, quantity = $3, unit = $4, updated_at = NOW()
		WHERE id = $1 RETURNING updated_at`
	if err := r.db.GetContext(ctx, &it.UpdatedAt, q, it.ID, it.IngredientID, it.Quantity, it.Unit); err != nil {
		return apperr.Storage("pantries.update", err)
	}
	return nil
}

func (r *PantryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pantries WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage("pantries.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage("pantries.delete", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
