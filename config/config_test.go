package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/vim-fmi/client"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("VIMFMI_HOST", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("VIMFMI_HOST", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
host: http://localhost:3000
editor: nvim
log:
  level: debug
  json: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.Host)
	assert.Equal(t, "nvim", cfg.Editor)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_EnvOverridesHost(t *testing.T) {
	t.Setenv("VIMFMI_HOST", "http://example.test")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: http://ignored\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test", cfg.Host)
}

func TestLoad_EmptyHostFallsBack(t *testing.T) {
	t.Setenv("VIMFMI_HOST", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: \"\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, cfg.Host)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: [\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("VIMFMI_HOST", "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := Default()
	want.Editor = "gvim"
	want.Log.Dir = "/tmp/logs"
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadUser_Missing(t *testing.T) {
	_, err := ReadUser(t.TempDir())
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestWriteReadUser(t *testing.T) {
	dir := filepath.Join(t.TempDir(), AppDir)
	u := &client.User{ID: 3, FacultyNumber: "0MI0600000", Token: "abc"}

	require.NoError(t, WriteUser(dir, u))

	info, err := os.Stat(filepath.Join(dir, userFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := ReadUser(dir)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestReadUser_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, userFile), []byte("{"), 0o600))

	_, err := ReadUser(dir)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoUser)
}
