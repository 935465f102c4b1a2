package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/toolhive-catalog/database"
	"github.com/stacklok/toolhive-catalog/internal/config"
)

// connectTimeout bounds how long startup waits for Postgres to accept connections
const connectTimeout = 30 * time.Second

// Connect builds a connection pool from the configuration, waits until the
// database answers and applies the schema migrations.
func Connect(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	connStr, err := cfg.GetConnectionString()
	if err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connMaxLifetime: %w", err)
		}
		poolConfig.MaxConnLifetime = lifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("Database not reachable yet", "host", cfg.Host, "error", err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(connectTimeout),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("database did not become reachable: %w", err)
	}

	if err := database.MigrateUp(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	slog.Info("Database connection pool created successfully", "host", cfg.Host, "database", cfg.Database)
	return pool, nil
}
