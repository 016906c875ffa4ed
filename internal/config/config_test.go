package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Backend.Kind)
	assert.Equal(t, "https://world.openfoodfacts.org", cfg.FoodDB.BaseURL)
	assert.Equal(t, 30.0, cfg.Recognition.MinConfidence)
	assert.Equal(t, 5, cfg.Recognition.MaxCandidates)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "nutrilog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
backend:
  kind: supabase
  url: https://project.supabase.co
  anon_key: anon
food_db:
  timeout: 3s
recognition:
  provider: rekognition
  min_confidence: 50
`), 0o600))

	t.Setenv("NUTRILOG_CONFIG", path)
	t.Setenv("NUTRILOG_SERVER_PORT", "9191")
	t.Setenv("NUTRILOG_RECOGNITION_MAX_CANDIDATES", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "supabase", cfg.Backend.Kind)
	assert.Equal(t, 3*time.Second, cfg.FoodDB.Timeout)
	assert.Equal(t, 50.0, cfg.Recognition.MinConfidence)
	assert.Equal(t, 3, cfg.Recognition.MaxCandidates)
	assert.Equal(t, 5, cfg.FoodDB.PageSize, "unset keys keep defaults")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NUTRILOG_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("NUTRILOG_LOG_LEVEL", "")
	os.Unsetenv("NUTRILOG_LOG_LEVEL")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("NUTRILOG_SERVER_PORT", "eighty")
	_, err := Load()
	assert.ErrorContains(t, err, "NUTRILOG_SERVER_PORT")

	t.Setenv("NUTRILOG_SERVER_PORT", "")
	t.Setenv("NUTRILOG_BACKEND", "supabase")
	_, err = Load()
	assert.ErrorContains(t, err, "anon_key")

	t.Setenv("NUTRILOG_BACKEND", "mongo")
	_, err = Load()
	assert.ErrorContains(t, err, "backend kind")
}
