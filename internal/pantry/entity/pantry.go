package entity

import "time"

// Item is one ingredient held in a user's pantry.
type Item struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	IngredientID int64     `db:"ingredient_id" json:"ingredient_id"`
	Quantity     string    `db:"quantity" json:"quantity"`
	Unit         string    `db:"unit" json:"unit"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
