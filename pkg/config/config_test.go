package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdterm/pkg/config"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	assert.Equal(t, "default", cfg.Theme)
	assert.Equal(t, config.ColorAuto, cfg.Color)
	assert.Zero(t, cfg.Columns)
	assert.False(t, cfg.AllowRemote)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(`
theme: dracula
highlight_style: dracula
color: always
columns: 100
pager: "less -RF"
allow_remote: true
`))
	require.NoError(t, err)
	assert.Equal(t, "dracula", cfg.Theme)
	assert.Equal(t, "dracula", cfg.HighlightStyle)
	assert.Equal(t, config.ColorAlways, cfg.Color)
	assert.Equal(t, 100, cfg.Columns)
	assert.Equal(t, "less -RF", cfg.Pager)
	assert.True(t, cfg.AllowRemote)
}

func TestParseKeepsDefaultsForOmittedKeys(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte("columns: 72\n"))
	require.NoError(t, err)
	assert.Equal(t, 72, cfg.Columns)
	assert.Equal(t, "default", cfg.Theme)
	assert.Equal(t, config.ColorAuto, cfg.Color)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := config.Parse([]byte("theme: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"defaults are valid", func(*config.Config) {}, false},
		{"bad color mode", func(c *config.Config) { c.Color = "sometimes" }, true},
		{"negative columns", func(c *config.Config) { c.Columns = -1 }, true},
		{"unknown theme", func(c *config.Config) { c.Theme = "nope" }, true},
		{"empty theme allowed", func(c *config.Config) { c.Theme = "" }, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			testCase.mutate(cfg)
			err := cfg.Validate()
			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
