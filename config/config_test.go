package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	assert.Equal(t, "StoreMom", cfg.System.Appid)
	assert.Equal(t, 1880, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 5, cfg.Jobs.LowStockThreshold)
	assert.Equal(t, "@every 15m", cfg.Jobs.LowStockSpec)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "storemom.yml")
	content := `
system:
  appid: StoreMom
  location: Asia/Bangkok
  workdir: /tmp/storemom-test
web:
  host: 127.0.0.1
  port: 2880
database:
  type: sqlite
  name: storemom
jobs:
  low_stock_threshold: 3
  low_stock_spec: "@every 5m"
  totals_audit_spec: "@daily"
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, "/tmp/storemom-test", cfg.System.Workdir)
	assert.Equal(t, 2880, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 3, cfg.Jobs.LowStockThreshold)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("STOREMOM_WEB_PORT", "9999")
	t.Setenv("STOREMOM_DB_TYPE", "sqlite")
	t.Setenv("STOREMOM_SYSTEM_DEBUG", "false")

	cfg := LoadConfig("")
	assert.Equal(t, 9999, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.False(t, cfg.System.Debug)
}

func TestLoadConfigDoesNotMutateDefaults(t *testing.T) {
	t.Setenv("STOREMOM_WEB_PORT", "7777")
	t.Setenv("STOREMOM_DB_TYPE", "sqlite")

	cfg := LoadConfig("")
	require.Equal(t, 7777, cfg.Web.Port)

	assert.Equal(t, 1880, DefaultAppConfig.Web.Port)
	assert.Equal(t, "postgres", DefaultAppConfig.Database.Type)
}
