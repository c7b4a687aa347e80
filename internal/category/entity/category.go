package entity

// Category groups recipes, e.g. "Breakfast" or "Vegetarian".
type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}
