package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stacklok/toolhive-catalog/database"
	"github.com/stacklok/toolhive-catalog/internal/config"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tool",
		Long:  `Database migration tool for managing the catalog schema. Use with 'up' or 'down' subcommands.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}
	migrateCmd.PersistentFlags().BoolP("yes", "y", false, "Answer yes to all questions")
	migrateCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := migrateCmd.MarkPersistentFlagRequired("config"); err != nil {
		slog.Error("Failed to mark config flag as required", "error", err)
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, func(ctx context.Context, conn *pgx.Conn) error {
				if err := database.MigrateUp(ctx, conn); err != nil {
					return err
				}
				slog.Info("Migration completed successfully")
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert all schema migrations",
		Long: `Revert all schema migrations.
WARNING: This drops every catalog table and all data in it.

Example:
  catalog-server migrate down --config config.yaml --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, err := cmd.Flags().GetBool("yes")
			if err != nil {
				return fmt.Errorf("failed to get yes flag: %w", err)
			}
			if !yes {
				if !interactive(cmd.InOrStdin()) {
					return fmt.Errorf("refusing to remove the catalog schema without --yes when stdin is not a terminal")
				}
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
					"WARNING: This will remove the catalog schema and all data. Continue?") {
					return fmt.Errorf("migration cancelled by user")
				}
			}
			return withDatabase(cmd, func(ctx context.Context, conn *pgx.Conn) error {
				if err := database.MigrateDown(ctx, conn); err != nil {
					return err
				}
				slog.Info("Database schema has been removed")
				return nil
			})
		},
	})

	return migrateCmd
}

// withDatabase connects to the configured database and runs fn
func withDatabase(cmd *cobra.Command, fn func(ctx context.Context, conn *pgx.Conn) error) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database == nil {
		return fmt.Errorf("database configuration is required for migrations")
	}

	connString, err := cfg.Database.GetConnectionString()
	if err != nil {
		return fmt.Errorf("failed to build connection string: %w", err)
	}

	ctx := cmd.Context()
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := conn.Close(context.Background()); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	return fn(ctx, conn)
}

// interactive reports whether in can answer a prompt. Files must be terminals;
// other readers are assumed to carry scripted answers.
func interactive(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return true
	}
	return term.IsTerminal(int(f.Fd()))
}

// confirm asks prompt on out and reports whether the answer read from in is yes
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
