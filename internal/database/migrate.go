package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/model"
)

// EnsureSchema creates the recipes table and its indexes when absent. It is
// idempotent and safe to run at every start.
func EnsureSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Recipe{}); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	slog.Debug("schema ensured", "dialect", db.Dialector.Name())
	return nil
}

// DropSchema removes every table EnsureSchema creates. Destructive: only test
// helpers call it.
func DropSchema(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&model.Recipe{}); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}
