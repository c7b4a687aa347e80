package entity

import "time"

// Ingredient is a row of the `ingredients` table. Names are unique.
type Ingredient struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
