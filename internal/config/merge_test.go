package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoshopper/internal/config"
)

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMergeYAML_OnlyNamedFieldsChange(t *testing.T) {
	target := config.Default()
	target.Storage.RedisURL = "redis://keep"

	path := writeOverlay(t, `
storage:
  backend: redis
catalog:
  path: /srv/catalog.yaml
`)
	require.NoError(t, config.MergeYAML(target, path))

	assert.Equal(t, config.BackendRedis, target.Storage.Backend)
	assert.Equal(t, "redis://keep", target.Storage.RedisURL)
	assert.Equal(t, config.DefaultRedisNamespace, target.Storage.Namespace)
	assert.Equal(t, "/srv/catalog.yaml", target.Catalog.Path)
	assert.Equal(t, config.Default().Logging, target.Logging)
}

func TestMergeYAML_EmptyFile(t *testing.T) {
	target := config.Default()
	require.NoError(t, config.MergeYAML(target, writeOverlay(t, "# nothing here\n")))
	assert.Equal(t, config.Default(), target)
}

func TestMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.MergeYAML(nil, "x"))
	require.Error(t, config.MergeYAML(config.Default(), filepath.Join(t.TempDir(), "absent.yaml")))

	err := config.MergeYAML(config.Default(), writeOverlay(t, "plugins: {}\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
