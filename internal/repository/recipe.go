// Package repository is the data-access layer of the recipe catalog. Every
// repository value is bound to exactly one unit-of-work obtained from a Store.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/model"
)

// ErrNotFound is returned when no recipe has the requested id.
var ErrNotFound = errors.New("record not found")

// RecipeRepository reads and writes recipes inside one unit-of-work.
type RecipeRepository interface {
	Get(id int64) (*model.Recipe, error)
	Add(recipe *model.Recipe) error
	// IncrementViews bumps views by one in place and reports whether a row matched.
	IncrementViews(id int64) (bool, error)
	// ListByPopularity returns the list projection ordered by views desc,
	// cooking_time asc, id asc.
	ListByPopularity(offset, limit int) ([]model.Recipe, error)
}

// Store hands out units-of-work. The callback's repository must not escape it.
type Store interface {
	// Transaction commits when fn returns nil and rolls back otherwise,
	// including when ctx is cancelled or fn panics.
	Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by gorm transactions.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(repo RecipeRepository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&recipeRepository{db: tx})
	})
}

type recipeRepository struct {
	db *gorm.DB
}

func (r *recipeRepository) Get(id int64) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) Add(recipe *model.Recipe) error {
	return r.db.Create(recipe).Error
}

func (r *recipeRepository) IncrementViews(id int64) (bool, error) {
	// A single UPDATE takes the row lock, so concurrent readers cannot
	// overwrite each other's increment.
	res := r.db.Model(&model.Recipe{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *recipeRepository) ListByPopularity(offset, limit int) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.db.Model(&model.Recipe{}).
		Select("id", "name", "cooking_time", "views").
		Order("views DESC").
		Order("cooking_time ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error
	return recipes, err
}
