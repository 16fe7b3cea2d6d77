package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsWhenNoFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := load([]string{filepath.Join(dir, "missing.toml")}, "", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default().Label, cfg.Label)
	assert.Equal(t, 8, cfg.MaxVisible)
	assert.Empty(t, cfg.Files)
}

func TestLaterFilesWin(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.toml", `
label = "Environment"
max_visible = 5

[filter]
max_results = 50
`)
	local := writeFile(t, dir, "local.toml", `
max_visible = 12
collapsed = true
`)
	cfg, err := load([]string{user, local}, "", noEnv)
	require.NoError(t, err)
	assert.Equal(t, "Environment", cfg.Label)
	assert.Equal(t, 12, cfg.MaxVisible)
	assert.True(t, cfg.Collapsed)
	assert.Equal(t, 50, cfg.Filter.MaxResults)
	assert.InDelta(t, 0.6, cfg.Filter.MinCoverage, 1e-9, "untouched keys keep defaults")
	assert.Equal(t, []string{user, local}, cfg.Files)
}

func TestExplicitFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	explicit := writeFile(t, dir, "explicit.toml", `
icons = "ascii"
debounce_ms = 100

[remote]
timeout_ms = 2000
`)
	env := envMap(map[string]string{
		"COMBOPICK_DEBOUNCE_MS":       "250",
		"COMBOPICK_FILTER_MAX_SPREAD": "10",
		"COMBOPICK_COLLAPSED":         "true",
	})
	cfg, err := load(nil, explicit, env)
	require.NoError(t, err)
	assert.Equal(t, "ascii", cfg.Icons)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 10, cfg.Filter.MaxSpread)
	assert.True(t, cfg.Collapsed)
	assert.Equal(t, 2*time.Second, cfg.Timeout())
}

func TestMissingExplicitFileIsError(t *testing.T) {
	_, err := load(nil, filepath.Join(t.TempDir(), "nope.toml"), noEnv)
	assert.Error(t, err)
}

func TestMalformedFileIsError(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.toml", "label = \n")
	_, err := load([]string{bad}, "", noEnv)
	assert.Error(t, err)
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.toml", `
icons = "emoji"
max_visible = 0

[filter]
min_coverage = 1.5
`)
	_, err := load(nil, path, noEnv)
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "icons")
	assert.Contains(t, err.Error(), "max_visible")
	assert.Contains(t, err.Error(), "min_coverage")
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestTokenFile(t *testing.T) {
	dir := t.TempDir()
	tok := writeFile(t, dir, "token", "TOKEN=abc123\n")
	path := writeFile(t, dir, "c.toml", "[remote]\ntoken_file = \""+filepath.ToSlash(tok)+"\"\n")

	cfg, err := load(nil, path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.Remote.Token)
}

func TestTokenFromEnvBeatsTokenFile(t *testing.T) {
	cfg, err := load(nil, "", envMap(map[string]string{
		"COMBOPICK_REMOTE_TOKEN":      "fromenv",
		"COMBOPICK_REMOTE_TOKEN_FILE": "/does/not/exist",
	}))
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.Remote.Token)
}

func TestReadTokenFileRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadTokenFile(writeFile(t, dir, "t", "justtoken"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = ReadTokenFile(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "COMBOPICK_FILTER_MIN_COVERAGE", EnvName("filter.min_coverage"))
	assert.Equal(t, "COMBOPICK_LABEL", EnvName("label"))
}
