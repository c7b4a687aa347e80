package entity

import (
	"time"

	"github.com/lib/pq"
)

// Recipe is a row of the `recipes` table. Linked ingredients and categories
// are kept as BIGINT[] id lists.
type Recipe struct {
	ID            int64         `db:"id" json:"id"`
	Title         string        `db:"title" json:"title"`
	Description   string        `db:"description" json:"description"`
	Instructions  string        `db:"instructions" json:"instructions"`
	IngredientIDs pq.Int64Array `db:"ingredient_ids" json:"ingredient_ids"`
	CategoryIDs   pq.Int64Array `db:"category_ids" json:"category_ids"`
	Servings      int           `db:"servings" json:"servings"`
	VideoEmbedURL string        `db:"video_embed_url" json:"video_embed_url,omitempty"`
	ImageURL      string        `db:"image_url" json:"image_url,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}
