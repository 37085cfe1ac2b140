package config_test

import (
	"path/filepath"
	"testing"

	"github.com/karloscodes/cartridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctrcompare/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CTRCOMPARE_ENV", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "ctrcompare", cfg.AppName)
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, config.Development, cfg.Environment)
	assert.Equal(t, config.LogLevelDebug, cfg.LogLevel)
	assert.Equal(t, 10, cfg.MaxUploadSizeMB)
	assert.Equal(t, 10*1024*1024, cfg.MaxUploadBytes())
	assert.True(t, cfg.PersistSession)
	assert.Equal(t, filepath.Join("storage", "ctrcompare-development.db"), cfg.DatabaseName)
	assert.Equal(t, 10, cfg.GetMaxOpenConns())
	assert.Equal(t, 5, cfg.GetMaxIdleConns())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CTRCOMPARE_ENV", config.Test)
	t.Setenv("CTRCOMPARE_APP_PORT", "8080")
	t.Setenv("CTRCOMPARE_LOG_LEVEL", "warn")
	t.Setenv("CTRCOMPARE_STORAGE_PATH", "/var/lib/ctrcompare")
	t.Setenv("CTRCOMPARE_MAX_UPLOAD_SIZE_MB", "2")
	t.Setenv("CTRCOMPARE_PERSIST_SESSION", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsTest())
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "warn", cfg.GetLogLevel())
	assert.Equal(t, "/var/lib/ctrcompare/ctrcompare-test.db", cfg.DatabaseName)
	assert.Equal(t, 2*1024*1024, cfg.MaxUploadBytes())
	assert.False(t, cfg.PersistSession)
	assert.Equal(t, 1, cfg.GetMaxOpenConns())
	assert.Equal(t, 1, cfg.GetMaxIdleConns())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown environment", key: "CTRCOMPARE_ENV", val: "staging"},
		{name: "unknown log level", key: "CTRCOMPARE_LOG_LEVEL", val: "verbose"},
		{name: "zero upload size", key: "CTRCOMPARE_MAX_UPLOAD_SIZE_MB", val: "0"},
		{name: "negative upload size", key: "CTRCOMPARE_MAX_UPLOAD_SIZE_MB", val: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestGetConfigIsCached(t *testing.T) {
	t.Setenv("CTRCOMPARE_ENV", config.Test)
	config.Reset()
	t.Cleanup(config.Reset)

	first := config.GetConfig()
	t.Setenv("CTRCOMPARE_APP_PORT", "9999")
	second := config.GetConfig()

	assert.Same(t, first, second)
	assert.Equal(t, "3000", second.AppPort)
}

func TestExplicitConnectionLimits(t *testing.T) {
	t.Setenv("CTRCOMPARE_DB_MAX_OPEN_CONNS", "4")
	t.Setenv("CTRCOMPARE_DB_MAX_IDLE_CONNS", "2")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.GetMaxOpenConns())
	assert.Equal(t, 2, cfg.GetMaxIdleConns())
}

func TestConfigSatisfiesCartridge(t *testing.T) {
	t.Setenv("CTRCOMPARE_APP_PORT", "4100")

	cfg, err := config.Load()
	require.NoError(t, err)

	var runtime cartridge.Config = cfg
	var logging cartridge.LogConfigProvider = cfg

	assert.Equal(t, "4100", runtime.GetPort())
	assert.Empty(t, runtime.GetPublicDirectory())
	assert.Equal(t, "ctrcompare", logging.GetAppName())
	assert.Equal(t, cfg.GetDatabasePath(), cfg.DatabaseDSN())
}
