package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/atlaspack/internal/model"
)

func TestAppConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.json")
	cfg := model.DefaultAppConfig()
	cfg.DefaultMaxSize = 4096
	cfg.DefaultPadding = 2
	cfg.AddRecentAtlas("out/atlas.json")

	require.NoError(t, SaveAppConfig(path, cfg))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadAppConfig_MissingFileReturnsDefaults(t *testing.T) {
	loaded, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.json"))

	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppConfig(), loaded)
}

func TestLoadAppConfig_NormalizesNilRecentList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"default_max_size":1024}`), 0644))

	loaded, err := LoadAppConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 1024, loaded.DefaultMaxSize)
	assert.NotNil(t, loaded.RecentAtlases)
}

func TestLoadAppConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadAppConfig(path)

	assert.Error(t, err)
}

func TestPresets_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	store := model.NewPresetStore()
	store.Add(model.NewPackPreset("UI Icons", "small atlas for UI", model.DefaultSettings()))

	require.NoError(t, SavePresets(path, store))

	loaded, err := LoadPresets(path)
	require.NoError(t, err)
	require.Len(t, loaded.Presets, 1)
	assert.Equal(t, store.Presets[0], loaded.Presets[0])
}

func TestLoadPresets_MissingFileReturnsEmptyStore(t *testing.T) {
	loaded, err := LoadPresets(filepath.Join(t.TempDir(), "nope.json"))

	require.NoError(t, err)
	assert.NotNil(t, loaded.Presets)
	assert.Empty(t, loaded.Presets)
}

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup", "atlaspack-backup.json")
	cfg := model.DefaultAppConfig()
	cfg.AddRecentAtlas("recent.json")
	presets := model.NewPresetStore()
	presets.Add(model.NewPackPreset("Export Test", "", model.DefaultSettings()))

	require.NoError(t, ExportAllData(path, cfg, presets))

	backup, err := ImportAllData(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", backup.Version)
	assert.NotEmpty(t, backup.CreatedAt)
	assert.Equal(t, cfg, backup.Config)
	assert.Equal(t, presets, backup.Presets)
}

func TestImportAllData_RejectsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"config":{}}`), 0644))

	_, err := ImportAllData(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing version")
}

func TestImportAllData_MissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))

	assert.Error(t, err)
}
