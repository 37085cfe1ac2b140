package session_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctrcompare/internal/searchperf"
	"ctrcompare/internal/session"
	"ctrcompare/internal/store"
	"ctrcompare/internal/testsupport"
)

func validSummaryJSON(t *testing.T) string {
	t.Helper()
	summary, err := searchperf.Process(testsupport.ExportHeaders, nil)
	require.NoError(t, err)
	payload, err := json.Marshal(summary)
	require.NoError(t, err)
	return string(payload)
}

func assertKeysCleared(t *testing.T, s store.Store) {
	t.Helper()
	for _, key := range []string{session.PreDataKey, session.PostDataKey} {
		_, ok, err := s.Load(key)
		require.NoError(t, err)
		assert.False(t, ok, "%s should have been cleared", key)
	}
}

func TestRestoreSession(t *testing.T) {
	t.Run("nothing to restore on an empty store", func(t *testing.T) {
		cs, ok := session.RestoreSession(store.NewMemoryStore(), testsupport.GetLogger())
		assert.False(t, ok)
		assert.Nil(t, cs)
	})

	t.Run("a single key is not enough and is left alone", func(t *testing.T) {
		memory := store.NewMemoryStore()
		require.NoError(t, memory.Save(session.PreDataKey, validSummaryJSON(t)))

		cs, ok := session.RestoreSession(memory, testsupport.GetLogger())
		assert.False(t, ok)
		assert.Nil(t, cs)

		_, present, err := memory.Load(session.PreDataKey)
		require.NoError(t, err)
		assert.True(t, present)
	})

	t.Run("garbage under both keys clears both", func(t *testing.T) {
		memory := store.NewMemoryStore()
		require.NoError(t, memory.Save(session.PreDataKey, "not json at all"))
		require.NoError(t, memory.Save(session.PostDataKey, "{{{"))

		cs, ok := session.RestoreSession(memory, testsupport.GetLogger())
		assert.False(t, ok)
		assert.Nil(t, cs)
		assertKeysCleared(t, memory)
	})

	t.Run("one corrupt key clears the valid one too", func(t *testing.T) {
		memory := store.NewMemoryStore()
		require.NoError(t, memory.Save(session.PreDataKey, validSummaryJSON(t)))
		require.NoError(t, memory.Save(session.PostDataKey, `{"chartData":`))

		_, ok := session.RestoreSession(memory, testsupport.GetLogger())
		assert.False(t, ok)
		assertKeysCleared(t, memory)
	})

	t.Run("well-formed JSON with the wrong shape is rejected", func(t *testing.T) {
		memory := store.NewMemoryStore()
		require.NoError(t, memory.Save(session.PreDataKey, validSummaryJSON(t)))
		require.NoError(t, memory.Save(session.PostDataKey, `{"chartData":[{"position":3,"avgCtr":1}],"totalQueries":1}`))

		_, ok := session.RestoreSession(memory, testsupport.GetLogger())
		assert.False(t, ok)
		assertKeysCleared(t, memory)
	})

	t.Run("restores from the settings table", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		settings := store.NewSettingsStore(db, testsupport.GetLogger())
		require.NoError(t, settings.Save(session.PreDataKey, validSummaryJSON(t)))
		require.NoError(t, settings.Save(session.PostDataKey, validSummaryJSON(t)))

		cs, ok := session.RestoreSession(settings, testsupport.GetLogger())
		require.True(t, ok)
		assert.True(t, cs.Ready())
	})

	t.Run("corrupt rows in the settings table are deleted", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		testsupport.CleanAllTables(db)
		settings := store.NewSettingsStore(db, testsupport.GetLogger())
		require.NoError(t, settings.Save(session.PreDataKey, "garbage"))
		require.NoError(t, settings.Save(session.PostDataKey, "garbage"))

		_, ok := session.RestoreSession(settings, testsupport.GetLogger())
		assert.False(t, ok)
		assertKeysCleared(t, settings)
	})
}

func TestPersistedStateError(t *testing.T) {
	err := &session.PersistedStateError{Key: session.PostDataKey, Err: assert.AnError}
	assert.Contains(t, err.Error(), "ctr_post_data")
	assert.ErrorIs(t, err, assert.AnError)
}
