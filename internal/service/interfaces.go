package service

import (
	"context"

	"github.com/pageza/cookbook/backend/internal/types"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	// ListRecipes returns the popularity-ordered list projection. It never mutates storage.
	ListRecipes(ctx context.Context, offset, limit int) ([]types.RecipeListItem, error)
	// GetRecipe returns the full recipe after committing a one step views increment.
	GetRecipe(ctx context.Context, id int64) (*types.RecipeOut, error)
	CreateRecipe(ctx context.Context, in types.RecipeIn) (*types.RecipeOut, error)
}
