package configloader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/yaklabco/mdterm/pkg/config"
)

// envVarPrefix is the prefix of all mdterm environment variables.
const envVarPrefix = "MDTERM_"

// ApplyEnv overlays environment variable overrides onto cfg. Variables
// are prefixed with MDTERM_; unset or empty variables leave the config
// untouched.
func ApplyEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	if v := os.Getenv(envVarPrefix + "THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv(envVarPrefix + "HIGHLIGHT_STYLE"); v != "" {
		cfg.HighlightStyle = v
	}
	if v := os.Getenv(envVarPrefix + "COLOR"); v != "" {
		cfg.Color = config.ColorMode(v)
	}
	if v := os.Getenv(envVarPrefix + "COLUMNS"); v != "" {
		columns, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer for %sCOLUMNS: %q", envVarPrefix, v)
		}
		cfg.Columns = columns
	}
	if v := os.Getenv(envVarPrefix + "PAGER"); v != "" {
		cfg.Pager = v
	}
	if v := os.Getenv(envVarPrefix + "ALLOW_REMOTE"); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean for %sALLOW_REMOTE: %q (expected true/false/1/0)", envVarPrefix, v)
		}
		cfg.AllowRemote = allow
	}

	return nil
}

// ListEnvVars returns the supported environment variables with their
// descriptions, for help output.
func ListEnvVars() map[string]string {
	return map[string]string{
		"MDTERM_THEME":           "Color theme name",
		"MDTERM_HIGHLIGHT_STYLE": "Chroma style for code blocks",
		"MDTERM_COLOR":           "Colorize output: auto, always, never",
		"MDTERM_COLUMNS":         "Terminal width override (0 = detect)",
		"MDTERM_PAGER":           "Pager command line",
		"MDTERM_ALLOW_REMOTE":    "Allow fetching remote images: true or false",
	}
}
