package types

import "github.com/pageza/cookbook/backend/internal/model"

// RecipeIn represents the request body for creating a recipe
type RecipeIn struct {
	Name        string `json:"name" yaml:"name" binding:"required,max=255"`
	CookingTime *int   `json:"cooking_time" yaml:"cooking_time" binding:"required,gte=0"`
	Ingredients string `json:"ingredients" yaml:"ingredients" binding:"required"`
	Description string `json:"description" yaml:"description" binding:"required"`
}

// ToModel builds a fresh, not yet persisted recipe from the request.
func (in RecipeIn) ToModel() *model.Recipe {
	r := &model.Recipe{
		Name:        in.Name,
		Ingredients: in.Ingredients,
		Description: in.Description,
	}
	if in.CookingTime != nil {
		r.CookingTime = *in.CookingTime
	}
	return r
}

// RecipeOut is the full recipe returned by the detail and create endpoints
type RecipeOut struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CookingTime int    `json:"cooking_time"`
	Ingredients string `json:"ingredients"`
	Description string `json:"description"`
	Views       int64  `json:"views"`
}

// NewRecipeOut projects a stored recipe onto the detail shape
func NewRecipeOut(r *model.Recipe) *RecipeOut {
	return &RecipeOut{
		ID:          r.ID,
		Name:        r.Name,
		CookingTime: r.CookingTime,
		Ingredients: r.Ingredients,
		Description: r.Description,
		Views:       r.Views,
	}
}

// RecipeListItem is the list projection; it leaves out ingredients and description.
type RecipeListItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CookingTime int    `json:"cooking_time"`
	Views       int64  `json:"views"`
}

func NewRecipeListItem(r *model.Recipe) RecipeListItem {
	return RecipeListItem{
		ID:          r.ID,
		Name:        r.Name,
		CookingTime: r.CookingTime,
		Views:       r.Views,
	}
}

// ListParams are the pagination query parameters of GET /recipes
type ListParams struct {
	Skip  int `form:"skip,default=0" binding:"gte=0"`
	Limit int `form:"limit,default=100" binding:"gte=1"`
}
