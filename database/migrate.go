// Package database holds the Postgres schema of the catalog and applies it.
package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Execer is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// MigrateUp executes all up migrations in order. The scripts are idempotent.
func MigrateUp(ctx context.Context, db Execer) error {
	return run(ctx, db, ".up.sql", false)
}

// MigrateDown executes all down migrations in reverse order.
func MigrateDown(ctx context.Context, db Execer) error {
	return run(ctx, db, ".down.sql", true)
}

func run(ctx context.Context, db Execer, suffix string, reverse bool) error {
	names, err := scripts(suffix)
	if err != nil {
		return err
	}
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	for _, name := range names {
		script, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}
	return nil
}

func scripts(suffix string) ([]string, error) {
	all, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	var names []string
	for _, name := range all {
		if strings.HasSuffix(name, suffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
