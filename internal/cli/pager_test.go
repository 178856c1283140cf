package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdterm/pkg/config"
)

func TestPagerCommandLinePrefersConfig(t *testing.T) {
	t.Setenv("PAGER", "more")

	cfg := config.Default()
	cfg.Pager = "less -RF"
	assert.Equal(t, []string{"less", "-RF"}, pagerCommandLine(cfg))
}

func TestPagerCommandLineFallsBackToPagerEnv(t *testing.T) {
	t.Setenv("PAGER", "more -s")

	assert.Equal(t, []string{"more", "-s"}, pagerCommandLine(config.Default()))
}

func TestPagerCommandLineDefault(t *testing.T) {
	t.Setenv("PAGER", "")

	assert.Equal(t, []string{"less", "-R"}, pagerCommandLine(config.Default()))
}

func TestClosePagerNilIsNoop(t *testing.T) {
	t.Parallel()

	assert.NoError(t, closePager(nil))
}
