package app

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	catalogapp "github.com/stacklok/toolhive-catalog/internal/app"
	"github.com/stacklok/toolhive-catalog/internal/config"
)

const defaultGracefulTimeout = 30 * time.Second // Kubernetes-friendly shutdown time

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog server",
		Long: `Start the catalog server.

The server requires a configuration file (--config) that specifies:
- the project root holding media, exports and uploads
- the optional PostgreSQL database (in-memory storage otherwise)
- the remote instance items are pushed to and the accepted import tokens
- telemetry settings`,
		RunE: runServe,
	}

	cmd.Flags().String("address", ":8080", "Address to listen on")
	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	cmd.Flags().Int64("max-upload-size", 0, "Maximum size of uploaded archives in bytes (0 = 1GiB)")

	for _, name := range []string{"address", "config", "max-upload-size"} {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			slog.Error("Failed to bind flag", "flag", name, "error", err)
		}
	}
	if err := cmd.MarkFlagRequired("config"); err != nil {
		slog.Error("Failed to mark config flag as required", "error", err)
	}
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configPath := viper.GetString("config")
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Info("Loaded configuration",
		"path", configPath,
		"project_root", cfg.ProjectRoot,
		"storage", cfg.GetStorageType())

	opts := []catalogapp.CatalogAppOptions{
		catalogapp.WithConfig(cfg),
		catalogapp.WithAddress(viper.GetString("address")),
	}
	if size := viper.GetInt64("max-upload-size"); size > 0 {
		opts = append(opts, catalogapp.WithMaxUploadSize(size))
	}

	catalog, err := catalogapp.NewCatalogApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create catalog server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- catalog.Start()
	}()

	select {
	case err := <-errCh:
		// the server failed on its own; release resources before reporting it
		if stopErr := catalog.Stop(defaultGracefulTimeout); stopErr != nil {
			slog.Error("Failed to stop catalog server", "error", stopErr)
		}
		return err
	case <-ctx.Done():
	}

	if err := catalog.Stop(defaultGracefulTimeout); err != nil {
		return err
	}
	return <-errCh
}
