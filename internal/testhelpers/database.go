package testhelpers

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/database"
	"github.com/pageza/cookbook/backend/internal/model"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupTestDB creates an isolated in-memory SQLite database with the schema
// ensured. The schema is dropped and the pool closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A uniquely named shared-cache database survives across pooled
	// connections but is private to this test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := database.Connect(sqlite.Open(dsn), database.PoolOptions{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, DiscardLogger())
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(db))

	t.Cleanup(func() {
		if err := database.DropSchema(db); err != nil {
			t.Logf("failed to drop test schema: %v", err)
		}
		if err := database.Close(db); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return db
}

// CreateTestRecipe inserts a recipe with the given cooking time and view count.
func CreateTestRecipe(t *testing.T, db *gorm.DB, name string, cookingTime int, views int64) *model.Recipe {
	t.Helper()

	recipe := &model.Recipe{
		Name:        name,
		CookingTime: cookingTime,
		Ingredients: "ingredient1, ingredient2",
		Description: "A test recipe",
	}
	require.NoError(t, db.Create(recipe).Error)

	if views > 0 {
		require.NoError(t, db.Model(recipe).UpdateColumn("views", views).Error)
		recipe.Views = views
	}
	return recipe
}

// CountRecipes returns the number of rows in the recipes table.
func CountRecipes(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&n).Error)
	return n
}

// ReloadRecipe reads the stored row for id.
func ReloadRecipe(t *testing.T, db *gorm.DB, id int64) *model.Recipe {
	t.Helper()

	var recipe model.Recipe
	require.NoError(t, db.First(&recipe, id).Error)
	return &recipe
}
