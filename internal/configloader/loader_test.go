package configloader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdterm/internal/configloader"
	"github.com/yaklabco/mdterm/pkg/config"
)

// clearEnvOverrides keeps the ambient environment out of loader tests.
func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"MDTERM_THEME", "MDTERM_HIGHLIGHT_STYLE", "MDTERM_COLOR",
		"MDTERM_COLUMNS", "MDTERM_PAGER", "MDTERM_ALLOW_REMOTE",
	} {
		t.Setenv(name, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaultsWithoutAnyConfig(t *testing.T) {
	clearEnvOverrides(t)

	cfg, err := configloader.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadExplicitFile(t *testing.T) {
	clearEnvOverrides(t)
	path := writeConfig(t, "theme: dracula\ncolumns: 90\n")

	cfg, err := configloader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dracula", cfg.Theme)
	assert.Equal(t, 90, cfg.Columns)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	clearEnvOverrides(t)

	_, err := configloader.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDiscoversXDGConfig(t *testing.T) {
	clearEnvOverrides(t)
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	dir := filepath.Join(configHome, "mdterm")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("theme: solarized\n"), 0o644))

	cfg, err := configloader.Load("")
	require.NoError(t, err)
	assert.Equal(t, "solarized", cfg.Theme)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnvOverrides(t)
	path := writeConfig(t, "theme: dracula\ncolumns: 90\n")
	t.Setenv("MDTERM_THEME", "solarized")
	t.Setenv("MDTERM_COLUMNS", "72")
	t.Setenv("MDTERM_ALLOW_REMOTE", "true")

	cfg, err := configloader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "solarized", cfg.Theme)
	assert.Equal(t, 72, cfg.Columns)
	assert.True(t, cfg.AllowRemote)
}

func TestLoadRejectsBadEnvValues(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("MDTERM_COLUMNS", "many")

	_, err := configloader.Load("")
	assert.Error(t, err)
}

func TestLoadValidatesMergedResult(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("MDTERM_THEME", "no-such-theme")

	_, err := configloader.Load("")
	assert.Error(t, err)
}

func TestDiscoverPathPrefersExplicit(t *testing.T) {
	clearEnvOverrides(t)

	assert.Equal(t, "/some/where.yaml", configloader.DiscoverPath("/some/where.yaml"))
}

func TestListEnvVarsCoversAllOverrides(t *testing.T) {
	t.Parallel()

	vars := configloader.ListEnvVars()
	assert.Contains(t, vars, "MDTERM_THEME")
	assert.Contains(t, vars, "MDTERM_COLOR")
	assert.Contains(t, vars, "MDTERM_COLUMNS")
	assert.Contains(t, vars, "MDTERM_PAGER")
	assert.Contains(t, vars, "MDTERM_ALLOW_REMOTE")
	assert.Contains(t, vars, "MDTERM_HIGHLIGHT_STYLE")
}
