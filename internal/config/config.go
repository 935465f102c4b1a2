// Package config provides configuration loading and management for the catalog server.
package config

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/toolhive-catalog/internal/telemetry"
)

const (
	// StorageTypeMemory keeps the catalog in process memory
	StorageTypeMemory = "memory"

	// StorageTypeDatabase keeps the catalog in PostgreSQL
	StorageTypeDatabase = "database"

	// DatabasePasswordEnv is consulted when no password file is configured
	DatabasePasswordEnv = "CATALOG_DATABASE_PASSWORD"

	// ExchangeAPITokenEnv is consulted when no apiToken is configured
	ExchangeAPITokenEnv = "CATALOG_EXCHANGE_API_TOKEN"

	// DefaultPushTimeout bounds a single push to a remote instance
	DefaultPushTimeout = 5 * time.Minute
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks; this also cleans the path
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// ProjectRoot is the directory holding media, widget files, exports and temp data
	ProjectRoot string `yaml:"projectRoot"`

	// Exchange configures remote synchronization and archive filtering
	Exchange *ExchangeConfig `yaml:"exchange,omitempty"`

	// Database switches persistence to PostgreSQL when present
	Database *DatabaseConfig `yaml:"database,omitempty"`

	// Batch holds defaults for batch runs
	Batch *BatchConfig `yaml:"batch,omitempty"`

	// Telemetry configures metrics
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// ExchangeConfig defines remote synchronization settings
type ExchangeConfig struct {
	// RemoteServer is the base URL of the instance items are pushed to
	RemoteServer string `yaml:"remoteServer,omitempty"`

	// APIToken authenticates pushes at the remote instance
	APIToken string `yaml:"apiToken,omitempty"`

	// AcceptedAPITokens are the tokens this instance accepts on its import endpoint
	AcceptedAPITokens []string `yaml:"acceptedApiTokens,omitempty"`

	// ExportableRoles is the role set restricted nodes are checked against
	ExportableRoles []string `yaml:"exportableRoles,omitempty"`

	// PushTimeout bounds a single push (e.g. "2m"). Defaults to 5m.
	PushTimeout string `yaml:"pushTimeout,omitempty"`

	// AutoUploadInterval submits an UPLOAD_MODIFIED_ITEM run periodically (e.g. "30m").
	// Automatic uploads are disabled when unset.
	AutoUploadInterval string `yaml:"autoUploadInterval,omitempty"`
}

// BatchConfig defines batch defaults
type BatchConfig struct {
	// MaxItems caps candidate sets when a request does not set maxItems
	MaxItems int `yaml:"maxItems,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from CATALOG_DATABASE_PASSWORD environment variable
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		data, err := os.ReadFile(filepath.Clean(d.PasswordFile))
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(DatabasePasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s environment variable", DatabasePasswordEnv,
	)
}

// GetConnectionString builds a PostgreSQL connection string.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	), nil
}

// GetAPIToken returns the configured push token, falling back to CATALOG_EXCHANGE_API_TOKEN.
func (e *ExchangeConfig) GetAPIToken() string {
	if e == nil {
		return os.Getenv(ExchangeAPITokenEnv)
	}
	if e.APIToken != "" {
		return e.APIToken
	}
	return os.Getenv(ExchangeAPITokenEnv)
}

// GetPushTimeout returns the push timeout, using the default if unset or invalid.
func (e *ExchangeConfig) GetPushTimeout() time.Duration {
	if e == nil || e.PushTimeout == "" {
		return DefaultPushTimeout
	}
	d, err := time.ParseDuration(e.PushTimeout)
	if err != nil || d <= 0 {
		return DefaultPushTimeout
	}
	return d
}

// GetAutoUploadInterval returns the automatic upload interval, or zero when disabled.
func (e *ExchangeConfig) GetAutoUploadInterval() time.Duration {
	if e == nil || e.AutoUploadInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(e.AutoUploadInterval)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// ValidateRemote reports whether pushing to a remote instance is configured.
func (e *ExchangeConfig) ValidateRemote() error {
	if e == nil || strings.TrimSpace(e.RemoteServer) == "" {
		return errors.New("exchange.remoteServer is not configured")
	}
	if e.GetAPIToken() == "" {
		return fmt.Errorf("exchange.apiToken is not configured (or set %s)", ExchangeAPITokenEnv)
	}
	return nil
}

// AcceptsToken reports whether token is one of the accepted import tokens.
func (e *ExchangeConfig) AcceptsToken(token string) bool {
	if e == nil || token == "" {
		return false
	}
	accepted := false
	for _, candidate := range e.AcceptedAPITokens {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(token)) == 1 {
			accepted = true
		}
	}
	return accepted
}

// GetExportableRoles returns the configured role set.
func (c *Config) GetExportableRoles() []string {
	if c.Exchange == nil {
		return nil
	}
	return c.Exchange.ExportableRoles
}

// GetStorageType returns the persistence backend selected by the configuration
func (c *Config) GetStorageType() string {
	if c.Database != nil {
		return StorageTypeDatabase
	}
	return StorageTypeMemory
}

// GetBatchMaxItems returns the default candidate cap of batch runs, 0 meaning unlimited.
func (c *Config) GetBatchMaxItems() int {
	if c.Batch == nil || c.Batch.MaxItems < 0 {
		return 0
	}
	return c.Batch.MaxItems
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if strings.TrimSpace(c.ProjectRoot) == "" {
		return fmt.Errorf("projectRoot is required")
	}

	if c.Exchange != nil {
		if err := validateExchangeConfig(c.Exchange); err != nil {
			return err
		}
	}

	if c.Database != nil {
		if err := validateDatabaseConfig(c.Database); err != nil {
			return err
		}
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}

func validateExchangeConfig(e *ExchangeConfig) error {
	if e.RemoteServer != "" {
		u, err := url.Parse(e.RemoteServer)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("exchange.remoteServer must be an http(s) URL, got %q", e.RemoteServer)
		}
	}
	if e.PushTimeout != "" {
		if _, err := time.ParseDuration(e.PushTimeout); err != nil {
			return fmt.Errorf("exchange.pushTimeout: %w", err)
		}
	}
	if e.AutoUploadInterval != "" {
		d, err := time.ParseDuration(e.AutoUploadInterval)
		if err != nil {
			return fmt.Errorf("exchange.autoUploadInterval: %w", err)
		}
		if d < time.Minute {
			return fmt.Errorf("exchange.autoUploadInterval must be at least 1m, got %s", d)
		}
		if e.RemoteServer == "" {
			return fmt.Errorf("exchange.autoUploadInterval requires exchange.remoteServer")
		}
	}
	for i, token := range e.AcceptedAPITokens {
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("exchange.acceptedApiTokens[%d] must not be empty", i)
		}
	}
	return nil
}

func validateDatabaseConfig(d *DatabaseConfig) error {
	if d.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if d.Port <= 0 {
		return fmt.Errorf("database.port must be positive")
	}
	if d.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if d.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	return nil
}
