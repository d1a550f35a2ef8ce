package store

import (
	"context"
	"fmt"

	"github.com/marcelsud/book-lending/book"
	"github.com/marcelsud/book-lending/book/memory"
	"github.com/marcelsud/book-lending/book/postgres"
	"github.com/marcelsud/book-lending/book/redis"
	"github.com/marcelsud/book-lending/book/sqlite"
	"github.com/marcelsud/book-lending/config"
)

// Open builds the book.Repository selected by STORE_DRIVER
func Open(ctx context.Context, cfg *config.Config) (book.Repository, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory, "":
		return memory.NewRepository(), nil

	case config.DriverSQLite:
		repo, err := sqlite.NewRepository(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return repo, nil

	case config.DriverPostgres:
		if err := cfg.ValidatePostgres(); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		repo, err := postgres.NewRepositoryWithPoolConfig(
			cfg.PostgresConnectionString(),
			cfg.GetPostgresMaxOpenConns(),
			cfg.GetPostgresMaxIdleConns(),
			cfg.GetPostgresConnMaxLifeMinutes(),
		)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		if err := repo.CreateTable(ctx); err != nil {
			repo.Close(ctx)
			return nil, err
		}
		return repo, nil

	case config.DriverRedis:
		repo, err := redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("opening redis store: %w", err)
		}
		return repo, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
