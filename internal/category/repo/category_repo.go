package repo

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/category/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

type CategoryRepo struct {
	db *sqlx.DB
}

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// EnsureTable creates the categories table unless to_regclass already finds it.
func (r *CategoryRepo) EnsureTable(ctx context.Context) error {
	var tbl sql.NullString
	if err := r.db.QueryRowContext(ctx, "SELECT to_regclass('public.categories')").Scan(&tbl); err != nil {
		return apperr.Storage("categories.ensure_table", err)
	}
	if tbl.Valid {
		return nil
	}
	const ddl = `CREATE TABLE categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`
	_, err := r.db.ExecContext(ctx, ddl)
	return apperr.Storage("categories.ensure_table", err)
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`,
		c.Name, c.Description).Scan(&c.ID)
	return apperr.Storage("categories.create", err)
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var c entity.Category
	if err := r.db.GetContext(ctx, &c, `SELECT id, name, description FROM categories WHERE id = $1`, id); err != nil {
		return nil, apperr.Storage("categories.get", err)
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context, skip, limit int) ([]entity.Category, error) {
	out := []entity.Category{}
	if err := r.db.SelectContext(ctx, &out,
		`SELECT id, name, description FROM categories ORDER BY id OFFSET $1 LIMIT $2`, skip, limit); err != nil {
		return nil, apperr.Storage("categories.list", err)
	}
	return out, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, description = $2 WHERE id = $3`, c.Name, c.Description, c.ID)
	return affectedOne("categories.update", res, err)
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return affectedOne("categories.delete", res, err)
}

func affectedOne(op string, res sql.Result, err error) error {
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
