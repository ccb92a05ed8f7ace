// Package config loads, validates and saves the ecoshopper configuration file
// (~/.ecoshopper/config.yaml) and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Environment variables recognised by Load.
const (
	EnvConfig   = "ECOSHOPPER_CONFIG"
	EnvHome     = "ECOSHOPPER_HOME"
	EnvLogLevel = "ECOSHOPPER_LOG_LEVEL"
	EnvStorage  = "ECOSHOPPER_STORAGE"
	EnvRedisURL = "ECOSHOPPER_REDIS_URL"
)

// Storage backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Defaults.
const (
	CurrentSchemaVersion = "1.0.0"
	SupportedSchema      = "^1"

	DefaultEngagementThreshold = 70
	DefaultEngagementPoints    = 10
	DefaultCO2PerView          = 0.5

	DefaultServerAddr     = "127.0.0.1:8080"
	DefaultMaxBodyBytes   = 1 << 20
	DefaultRequestTimeout = 10 * time.Second

	DefaultRedisNamespace = "ecoshopper"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full configuration document.
type Config struct {
	SchemaVersion string           `yaml:"schema_version"`
	Logging       LoggingConfig    `yaml:"logging"`
	Storage       StorageConfig    `yaml:"storage"`
	Catalog       CatalogConfig    `yaml:"catalog"`
	Engagement    EngagementConfig `yaml:"engagement"`
	Server        ServerConfig     `yaml:"server"`

	configPath string
}

// StorageConfig selects and configures the session persistence backend.
type StorageConfig struct {
	// Backend is one of memory, file, sqlite or redis.
	Backend string `yaml:"backend"`

	// Path is the session file or database. Empty uses a file under the config dir.
	Path string `yaml:"path,omitempty"`

	RedisURL  string `yaml:"redis_url,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// CatalogConfig points at an external catalog. An empty path uses the built-in one.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty"`
}

// EngagementConfig decides which product views earn points.
type EngagementConfig struct {
	// Threshold is the score a product must exceed to count as eco-qualifying.
	Threshold  int     `yaml:"threshold"`
	Points     int     `yaml:"points"`
	CO2PerView float64 `yaml:"co2_per_view"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Default returns a configuration populated with defaults and no file path.
func Default() *Config {
	return &Config{
		SchemaVersion: CurrentSchemaVersion,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			Backend:   BackendFile,
			Namespace: DefaultRedisNamespace,
		},
		Engagement: EngagementConfig{
			Threshold:  DefaultEngagementThreshold,
			Points:     DefaultEngagementPoints,
			CO2PerView: DefaultCO2PerView,
		},
		Server: ServerConfig{
			Addr:           DefaultServerAddr,
			MaxBodyBytes:   DefaultMaxBodyBytes,
			RequestTimeout: DefaultRequestTimeout,
		},
	}
}

// New loads the configuration from the default location. A missing or
// unreadable file yields defaults; use Load to see the error.
func New() *Config {
	cfg, err := Load("")
	if err != nil {
		cfg = Default()
		cfg.configPath = DefaultConfigPath()
		cfg.applyEnv()
	}
	return cfg
}

// Load reads the configuration at path, or the default location when path is
// empty, then applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	cfg.configPath = path

	if _, err := os.Stat(path); err == nil {
		if mergeErr := MergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot access config path %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvStorage); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Storage.RedisURL = v
	}
}

// ConfigPath returns the file this configuration is read from and saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(c.configPath), 0o700); mkdirErr != nil {
		return fmt.Errorf("creating config directory: %w", mkdirErr)
	}
	if writeErr := os.WriteFile(c.configPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing config file: %w", writeErr)
	}
	return nil
}

// Validate checks every section and reports all problems at once. Each
// problem wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if err := checkSchemaVersion(c.SchemaVersion); err != nil {
		invalid("%v", err)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console", "text":
	default:
		invalid("logging.format %q must be json or console", c.Logging.Format)
	}

	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			invalid("storage.redis_url is required for the redis backend")
		}
	default:
		invalid("storage.backend %q must be one of memory, file, sqlite, redis", c.Storage.Backend)
	}

	if c.Engagement.Threshold < 0 || c.Engagement.Threshold > 100 {
		invalid("engagement.threshold %d must be between 0 and 100", c.Engagement.Threshold)
	}
	if c.Engagement.Points < 0 {
		invalid("engagement.points %d must be non-negative", c.Engagement.Points)
	}
	if c.Engagement.CO2PerView < 0 {
		invalid("engagement.co2_per_view %v must be non-negative", c.Engagement.CO2PerView)
	}

	if c.Server.Addr == "" {
		invalid("server.addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		invalid("server.max_body_bytes must be positive")
	}

	return errors.Join(errs...)
}

// checkSchemaVersion accepts any 1.x schema.
func checkSchemaVersion(v string) error {
	if v == "" {
		return errors.New("schema_version is required")
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("schema_version %q is not a semantic version: %w", v, err)
	}
	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("schema_version %s is not supported (want %s)", version, SupportedSchema)
	}
	return nil
}

// ResolvedStoragePath returns Storage.Path, or the default session file for
// file-backed backends.
func (c *Config) ResolvedStoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		return filepath.Join(dir, "session.db"), nil
	default:
		return filepath.Join(dir, "session.json"), nil
	}
}
