package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mohsinsiddi/dappos/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://app.dappos.io", cfg.BuilderURL)
	assert.Equal(t, 10, cfg.StatusReset)
	assert.Equal(t, 5, cfg.AlertDuration)
	assert.True(t, cfg.BestEffortSave)
	assert.Equal(t, "firestore", cfg.Store.Backend)
	assert.Equal(t, "dappos-app", cfg.Store.ProjectID)
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.SetBuilderURL("https://builder.example.com/"))
	require.NoError(t, cfg.SetBackend("sqlite"))
	cfg.BestEffortSave = false
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://builder.example.com", reloaded.BuilderURL)
	assert.Equal(t, "sqlite", reloaded.Store.Backend)
	assert.False(t, reloaded.BestEffortSave)
}

func TestSetBuilderURLRejectsNonHTTP(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	assert.Error(t, cfg.SetBuilderURL("ftp://builder"))
	assert.Error(t, cfg.SetBuilderURL("app.dappos.io"))
}

func TestSetBackendUnknown(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	err := cfg.SetBackend("mongo")
	assert.Error(t, err)
	assert.Equal(t, "firestore", cfg.Store.Backend)
}

func TestDelaysFallBackToDefaults(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	cfg.StatusReset = 0
	cfg.AlertDuration = -3

	assert.Equal(t, 10*time.Second, cfg.StatusResetDelay())
	assert.Equal(t, 5*time.Second, cfg.AlertDelay())

	cfg.StatusReset = 2
	assert.Equal(t, 2*time.Second, cfg.StatusResetDelay())
}

func TestSQLitePathDefaultsIntoConfigDir(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Load(dir)
	assert.Equal(t, filepath.Join(dir, "dapps.db"), cfg.SQLitePath())

	cfg.Store.Path = "/tmp/other.db"
	assert.Equal(t, "/tmp/other.db", cfg.SQLitePath())
}

func TestConfigFileCreatedOnSave(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Load(dir)
	require.NoError(t, cfg.Save())

	_, err := os.Stat(filepath.Join(dir, "config.json"))
	assert.NoError(t, err, "config.json should be created on save")
}

func TestLoadFromNonExistentDir(t *testing.T) {
	dir := t.TempDir() + "/subdir"
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())
}

func TestLoadEmptyBackendGetsDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"store":{}}`), 0o600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "firestore", cfg.Store.Backend)
}
