package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/config"
	"github.com/pageza/cookbook/backend/internal/logging"
)

const slowQueryThreshold = 200 * time.Millisecond

// PoolOptions bounds the connection pool behind gorm.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// New opens the database selected by cfg.DBDriver.
func New(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		logger.Info("opening sqlite database", "path", cfg.DBPath)
		// SQLite allows a single writer; one connection serializes units-of-work
		// instead of failing them with "database is locked".
		return Connect(sqlite.Open(cfg.DBPath+"?_foreign_keys=on&_busy_timeout=5000"), PoolOptions{
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		}, logger)
	case config.DriverPostgres:
		// Log connection target (without password)
		logger.Info("connecting to postgres",
			"host", cfg.DBHost, "port", cfg.DBPort, "user", cfg.DBUser, "database", cfg.DBName)
		return Connect(postgres.Open(cfg.PostgresDSN()), PoolOptions{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxOpenConns,
			ConnMaxLifetime: 5 * time.Minute,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Connect opens dialector with the pool settings and verifies the connection.
func Connect(dialector gorm.Dialector, pool PoolOptions, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.NewGormLogger(logger, slowQueryThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	logger.Info("database connection established", "dialect", db.Dialector.Name())
	return db, nil
}

// HealthCheck checks if the database is accessible
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
