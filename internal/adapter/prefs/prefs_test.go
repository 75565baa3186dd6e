package prefs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/adapter/prefs"
)

func TestOpen_MissingFileUsesDefaults(t *testing.T) {
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)

	p, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, prefs.Preferences{
		Theme:         prefs.ThemeSystem,
		Notifications: prefs.Notifications{SLA: true, Assignment: true},
	}, p)
}

func TestSet_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	store, err := prefs.Open(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(prefs.KeyTheme, "dark"))
	require.NoError(t, store.Set(prefs.KeyNotificationsSLA, "false"))
	require.NoError(t, store.Set(prefs.KeySyncOnlyOnWifi, "true"))

	reopened, err := prefs.Open(path)
	require.NoError(t, err)
	p, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeDark, p.Theme)
	assert.True(t, p.SyncOnlyOnWifi)
	assert.False(t, p.Notifications.SLA)
	assert.True(t, p.Notifications.Assignment)

	value, err := reopened.Get(prefs.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", value)
}

func TestSet_RejectsBadInput(t *testing.T) {
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)

	require.Error(t, store.Set(prefs.KeyTheme, "neon"))
	require.Error(t, store.Set(prefs.KeyNotificationsChecklist, "maybe"))
	require.ErrorIs(t, store.Set("font", "mono"), prefs.ErrUnknownKey)
	_, err = store.Get("font")
	require.ErrorIs(t, err, prefs.ErrUnknownKey)
}

func TestOpen_InvalidThemeFallsBackToSystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: neon\n"), 0o644))

	store, err := prefs.Open(path)
	require.NoError(t, err)
	p, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeSystem, p.Theme)
}

func TestExportJSON(t *testing.T) {
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)
	require.NoError(t, store.Set(prefs.KeyTheme, "light"))

	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	raw, err := store.ExportJSON(at)
	require.NoError(t, err)

	var export prefs.Export
	require.NoError(t, json.Unmarshal(raw, &export))
	assert.Equal(t, prefs.ExportVersion, export.Version)
	assert.True(t, export.ExportedAt.Equal(at))
	assert.Equal(t, prefs.ThemeLight, export.Preferences.Theme)
}

func TestKeysAreSorted(t *testing.T) {
	assert.Equal(t, []string{
		"notifications.assignment",
		"notifications.checklist",
		"notifications.sla",
		"sync_only_on_wifi",
		"theme",
	}, prefs.Keys())
}
