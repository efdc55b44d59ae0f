package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTokenEnvPriority(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveToken(dir, "ghp_from_file"))

	os.Setenv("GITHUB_TOKEN", "ghp_from_env")
	defer os.Unsetenv("GITHUB_TOKEN")

	token, err := ResolveToken(dir)
	require.NoError(t, err)
	assert.Equal(t, "ghp_from_env", token)
}

func TestResolveTokenFallbackEnv(t *testing.T) {
	os.Unsetenv("GITHUB_TOKEN")
	os.Setenv("GISTMAN_GITHUB_TOKEN", "ghp_alt_env")
	defer os.Unsetenv("GISTMAN_GITHUB_TOKEN")

	token, err := ResolveToken(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "ghp_alt_env", token)
}

func TestResolveTokenFromConfigFile(t *testing.T) {
	os.Unsetenv("GITHUB_TOKEN")
	os.Unsetenv("GISTMAN_GITHUB_TOKEN")

	dir := t.TempDir()
	require.NoError(t, SaveToken(dir, "ghp_stored"))

	token, err := ResolveToken(dir)
	require.NoError(t, err)
	assert.Equal(t, "ghp_stored", token)
}

func TestResolveTokenMissingEverywhere(t *testing.T) {
	os.Unsetenv("GITHUB_TOKEN")
	os.Unsetenv("GISTMAN_GITHUB_TOKEN")

	token, err := ResolveToken(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestResolveTokenMalformedFile(t *testing.T) {
	os.Unsetenv("GITHUB_TOKEN")
	os.Unsetenv("GISTMAN_GITHUB_TOKEN")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := ResolveToken(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestResolveTokenMissingKey(t *testing.T) {
	os.Unsetenv("GITHUB_TOKEN")
	os.Unsetenv("GISTMAN_GITHUB_TOKEN")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"other": "x"}`), 0600))

	_, err := ResolveToken(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github_token key not found")
}

func TestSaveTokenPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file mode checks are not meaningful on Windows")
	}

	dir := filepath.Join(t.TempDir(), "cfg")
	require.NoError(t, SaveToken(dir, "ghp_secret"))

	assert.True(t, HasStoredToken(dir))

	info, err := os.Stat(TokenPath(dir))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestSaveTokenRoundTrip(t *testing.T) {
	os.Unsetenv("GITHUB_TOKEN")
	os.Unsetenv("GISTMAN_GITHUB_TOKEN")

	dir := t.TempDir()
	require.NoError(t, SaveToken(dir, "ghp_roundtrip"))

	token, err := ResolveToken(dir)
	require.NoError(t, err)
	assert.Equal(t, "ghp_roundtrip", token)
}
