package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pageza/cookbook/backend/internal/apperrors"
	"github.com/pageza/cookbook/backend/internal/metrics"
	"github.com/pageza/cookbook/backend/internal/model"
	"github.com/pageza/cookbook/backend/internal/repository"
	"github.com/pageza/cookbook/backend/internal/types"
)

var _ IRecipeService = (*RecipeService)(nil)

// RecipeService handles recipe operations
type RecipeService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(store repository.Store, logger *slog.Logger) *RecipeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeService{
		store:  store,
		logger: logger,
	}
}

// ListRecipes lists recipes ordered by views desc, cooking time asc.
func (s *RecipeService) ListRecipes(ctx context.Context, offset, limit int) ([]types.RecipeListItem, error) {
	var recipes []model.Recipe
	err := s.store.Transaction(ctx, func(repo repository.RecipeRepository) error {
		var err error
		recipes, err = repo.ListByPopularity(offset, limit)
		return err
	})
	if err != nil {
		return nil, s.persistence("failed to list recipes", err)
	}

	items := make([]types.RecipeListItem, 0, len(recipes))
	for i := range recipes {
		items = append(items, types.NewRecipeListItem(&recipes[i]))
	}
	return items, nil
}

// GetRecipe retrieves a recipe by ID and counts the read.
func (s *RecipeService) GetRecipe(ctx context.Context, id int64) (*types.RecipeOut, error) {
	var recipe *model.Recipe
	err := s.store.Transaction(ctx, func(repo repository.RecipeRepository) error {
		found, err := repo.IncrementViews(id)
		if err != nil {
			return err
		}
		if !found {
			return repository.ErrNotFound
		}
		recipe, err = repo.Get(id)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("recipe not found")
		}
		return nil, s.persistence("failed to get recipe", err)
	}

	metrics.RecipeViews.Inc()
	return types.NewRecipeOut(recipe), nil
}

// CreateRecipe creates a new recipe with zero views
func (s *RecipeService) CreateRecipe(ctx context.Context, in types.RecipeIn) (*types.RecipeOut, error) {
	recipe := in.ToModel()
	err := s.store.Transaction(ctx, func(repo repository.RecipeRepository) error {
		return repo.Add(recipe)
	})
	if err != nil {
		return nil, s.persistence("failed to create recipe", err)
	}

	metrics.RecipesCreated.Inc()
	s.logger.InfoContext(ctx, "recipe created", "recipe_id", recipe.ID)
	return types.NewRecipeOut(recipe), nil
}

func (s *RecipeService) persistence(msg string, err error) error {
	// A client hanging up is not a storage fault.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn(msg, "error", err)
	} else {
		s.logger.Error(msg, "error", err)
	}
	return apperrors.Persistence(msg, err)
}
