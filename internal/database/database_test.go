package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctrcompare/internal/config"
	"ctrcompare/internal/database"
	"ctrcompare/internal/store"
	"ctrcompare/internal/testsupport"
)

func TestDBManagerMigratesSettings(t *testing.T) {
	cfg := &config.Config{
		AppName:      "ctrcompare",
		Environment:  config.Test,
		DatabaseName: filepath.Join(t.TempDir(), "ctrcompare-test.db"),
	}
	logger := testsupport.GetLogger()

	dm := database.NewDBManager(cfg, logger)
	require.NoError(t, dm.Init())
	t.Cleanup(func() { _ = dm.Close() })

	require.NoError(t, dm.MigrateDatabase())
	assert.True(t, dm.GetConnection().Migrator().HasTable(&store.Setting{}))

	settings := store.NewSettingsStore(dm.GetConnection(), logger)
	require.NoError(t, settings.Save("ctr_pre_data", "{}"))

	value, ok, err := settings.Load("ctr_pre_data")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", value)
}
