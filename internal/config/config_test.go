package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoshopper/internal/config"
	"github.com/rshade/ecoshopper/internal/logging"
)

// isolate points every config lookup at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvStorage, "")
	t.Setenv(config.EnvRedisURL, "")
	return dir
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, config.CurrentSchemaVersion, cfg.SchemaVersion)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, config.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 70, cfg.Engagement.Threshold)
	assert.Equal(t, 10, cfg.Engagement.Points)
	assert.InDelta(t, 0.5, cfg.Engagement.CO2PerView, 1e-9)
	assert.Equal(t, config.DefaultServerAddr, cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.ConfigPath())
	assert.Equal(t, config.Default().Engagement, cfg.Engagement)
}

func TestLoad_PartialSectionsKeepDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
schema_version: "1.2.0"
logging:
  level: debug
engagement:
  threshold: 60
server:
  request_timeout: 3s
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", cfg.SchemaVersion)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format, "unset field keeps default")
	assert.Equal(t, 60, cfg.Engagement.Threshold)
	assert.Equal(t, 10, cfg.Engagement.Points)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, config.DefaultServerAddr, cfg.Server.Addr)
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "logging: [unclosed"},
		{"unknown key", "colour: green\n"},
		{"wrong type", "engagement:\n  threshold: lots\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := config.Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv(config.EnvConfig, filepath.Join(dir, "from-env.yaml"))
	t.Setenv(config.EnvLogLevel, "warn")
	t.Setenv(config.EnvStorage, config.BackendRedis)
	t.Setenv(config.EnvRedisURL, "redis://localhost:6379/2")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "from-env.yaml"), cfg.ConfigPath())
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, config.BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Storage.RedisURL)
	require.NoError(t, cfg.Validate())
}

func TestNew_FallsBackOnBrokenFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("::: not yaml"), 0o600))

	cfg := config.New()
	assert.Equal(t, config.Default().Storage, cfg.Storage)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.ConfigPath())
}

func TestSaveAndReload(t *testing.T) {
	dir := isolate(t)

	cfg := config.Default()
	cfg.SetConfigPath(filepath.Join(dir, "nested", "config.yaml"))
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Engagement.Points = 25
	require.NoError(t, cfg.Save())

	loaded, err := config.Load(cfg.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, loaded.Storage.Backend)
	assert.Equal(t, 25, loaded.Engagement.Points)
	assert.Equal(t, cfg.Server, loaded.Server)
}

func TestSave_RequiresPath(t *testing.T) {
	require.Error(t, config.Default().Save())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing schema", func(c *config.Config) { c.SchemaVersion = "" }, "schema_version is required"},
		{"bad semver", func(c *config.Config) { c.SchemaVersion = "one" }, "not a semantic version"},
		{"future schema", func(c *config.Config) { c.SchemaVersion = "2.0.0" }, "not supported"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad backend", func(c *config.Config) { c.Storage.Backend = "s3" }, "storage.backend"},
		{"redis without url", func(c *config.Config) { c.Storage.Backend = config.BackendRedis }, "redis_url"},
		{"threshold range", func(c *config.Config) { c.Engagement.Threshold = 101 }, "engagement.threshold"},
		{"negative points", func(c *config.Config) { c.Engagement.Points = -1 }, "engagement.points"},
		{"negative co2", func(c *config.Config) { c.Engagement.CO2PerView = -0.1 }, "co2_per_view"},
		{"empty addr", func(c *config.Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero body limit", func(c *config.Config) { c.Server.MaxBodyBytes = 0 }, "max_body_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "nope"
	cfg.Server.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
	assert.Contains(t, err.Error(), "server.addr")
}

func TestResolvedStoragePath(t *testing.T) {
	dir := isolate(t)

	cfg := config.Default()
	p, err := cfg.ResolvedStoragePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "session.json"), p)

	cfg.Storage.Backend = config.BackendSQLite
	p, err = cfg.ResolvedStoragePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "session.db"), p)

	cfg.Storage.Path = "/tmp/explicit.db"
	p, err = cfg.ResolvedStoragePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/explicit.db", p)
}

func TestGlobalConfig(t *testing.T) {
	isolate(t)
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	first := config.GetGlobalConfig()
	require.NotNil(t, first)
	assert.Same(t, first, config.GetGlobalConfig())

	replacement := config.Default()
	config.SetGlobalConfig(replacement)
	assert.Same(t, replacement, config.GetGlobalConfig())
}

func TestEnsureLogDir(t *testing.T) {
	dir := isolate(t)

	cfg := config.Default()
	require.NoError(t, cfg.EnsureLogDir())

	cfg.Logging.File = filepath.Join(dir, "logs", "app.log")
	require.NoError(t, cfg.EnsureLogDir())
	assert.DirExists(t, filepath.Join(dir, "logs"))

	require.NoError(t, config.EnsureConfigDir())
	assert.DirExists(t, dir)
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)
	assert.Equal(t, "debug", got.Level)

	lc.File = "/var/log/eco.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/var/log/eco.log", got.File)
}
