package model

// Recipe is a catalog entry. ID is assigned by storage on insert and never
// changes; Views only grows, one step per successful detail read.
type Recipe struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:255;not null;index" json:"name"`
	CookingTime int    `gorm:"not null" json:"cooking_time"`
	Ingredients string `gorm:"type:text;not null" json:"ingredients"`
	Description string `gorm:"type:text;not null" json:"description"`
	Views       int64  `gorm:"not null;default:0;index" json:"views"`
}

func (Recipe) TableName() string {
	return "recipes"
}
