//go:build integration

package integration

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/config"
)

// writeConfigs lays down a configs/ tree in a temp working directory.
func writeConfigs(t *testing.T, base, profile string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "base.yaml"), []byte(base), 0o644))

	if profile != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "test.yaml"), []byte(profile), 0o644))
	}

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.Chdir(dir))
}

const baseConfig = `
app:
  environment: test
application:
  errors:
    UNEXPECTED:
      code: MC003
      description: Unexpected error
      http-status: 500
    NOT_FOUND:
      code: MC004
      description: Resource not found
      http-status: 404
  resolver:
    session-service:
      SS001: UNAUTHORIZED
    http-status:
      "404": NOT_FOUND
`

// TestConfig_LoadsErrorTablesFromFiles verifies the full path from YAML
// on disk to working domain tables.
func TestConfig_LoadsErrorTablesFromFiles(t *testing.T) {
	writeConfigs(t, baseConfig, "")

	cfg, err := config.Load("test")
	require.NoError(t, err)

	tables, err := cfg.ErrorTables(slog.Default())
	require.NoError(t, err)

	entry := tables.Lookup(domain.KeyNotFound)
	assert.Equal(t, "MC004", entry.Code)
	assert.Equal(t, 404, entry.HTTPStatus)

	key, ok := tables.ResolveStatus(404)
	require.True(t, ok)
	assert.Equal(t, domain.KeyNotFound, key)
}

// TestConfig_ProfileOverridesBase verifies profile files win over base.
func TestConfig_ProfileOverridesBase(t *testing.T) {
	writeConfigs(t, baseConfig, `
application:
  errors:
    NOT_FOUND:
      code: MC404
      description: Not here
      http-status: 404
`)

	cfg, err := config.Load("test")
	require.NoError(t, err)

	tables, err := cfg.ErrorTables(slog.Default())
	require.NoError(t, err)

	assert.Equal(t, "MC404", tables.Lookup(domain.KeyNotFound).Code)
}

// TestConfig_EnvOverridesFiles verifies environment variables take the
// highest precedence.
func TestConfig_EnvOverridesFiles(t *testing.T) {
	writeConfigs(t, baseConfig, "")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := config.Load("test")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
}

// TestConfig_MalformedEntryFailsStartup verifies a bad catalog entry is
// rejected before the gateway can serve.
func TestConfig_MalformedEntryFailsStartup(t *testing.T) {
	writeConfigs(t, `
app:
  environment: test
application:
  errors:
    NOT_FOUND:
      code: ""
      description: broken
      http-status: 404
`, "")

	cfg, err := config.Load("test")
	require.NoError(t, err)

	_, err = cfg.ErrorTables(slog.Default())
	require.Error(t, err)
}
