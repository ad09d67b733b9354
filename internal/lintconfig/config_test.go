package lintconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
)

func TestDiscover_FindsClosestConfigFile(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "dsflint.toml"), []byte(""), 0o644))
	target := filepath.Join(sub, "plugin.jar")
	require.NoError(t, os.WriteFile(target, []byte(""), 0o644))

	got := Discover(target)
	want := filepath.Join(root, "a", "dsflint.toml")
	assert.Equal(t, want, got)
}

func TestDiscover_NoConfigFileReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "plugin.jar")
	require.NoError(t, os.WriteFile(target, []byte(""), 0o644))
	assert.Empty(t, Discover(target))
}

func TestLoadFromFile_AppliesSeverityOverridesAndFailLevel(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "dsflint.toml")
	contents := `
[rules]
PROCESS_ID_PATTERN_MISMATCH = "warn"

[output]
fail-level = "warn"

[run]
timeout = "30s"
`
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0o644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	overrides, err := cfg.SeverityOverrides()
	require.NoError(t, err)
	assert.Equal(t, lintrule.SeverityWarning, overrides["PROCESS_ID_PATTERN_MISMATCH"])

	level, err := cfg.FailLevel()
	require.NoError(t, err)
	assert.Equal(t, lintrule.SeverityWarning, level)

	deadline, err := cfg.Deadline()
	require.NoError(t, err)
	assert.False(t, deadline.IsZero(), "expected non-zero deadline for a configured timeout")
}

func TestLoadFromFile_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadFromFile("")
	require.NoError(t, err)
	level, err := cfg.FailLevel()
	require.NoError(t, err)
	assert.Equal(t, lintrule.SeverityError, level)
}

func TestAuthorizationCodes_FallsBackToBuiltin(t *testing.T) {
	cfg := Default()
	codes, err := cfg.AuthorizationCodes()
	require.NoError(t, err)
	assert.True(t, codes["LOCAL_ORGANIZATION"])
}

func TestLoadWithOverrides_FlagsWinOverFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "dsflint.toml")
	contents := `
[output]
fail-level = "warn"

[run]
timeout = "30s"
`
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0o644))

	cfg, err := LoadWithOverrides(configPath, map[string]any{
		"output.fail-level": "none",
		"run.timeout":       "5m",
	})
	require.NoError(t, err)

	level, err := cfg.FailLevel()
	require.NoError(t, err)
	assert.Equal(t, lintrule.SeverityOff, level)
	assert.Equal(t, "5m", cfg.Run.Timeout)
}

func TestLoadWithOverrides_NilOverridesMatchesLoadFromFile(t *testing.T) {
	cfg, err := LoadWithOverrides("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Output.FailLevel, cfg.Output.FailLevel)
}
