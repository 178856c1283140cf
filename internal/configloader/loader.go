// Package configloader resolves the effective mdterm configuration from
// config files and environment variables. Precedence, lowest to highest:
// built-in defaults, config file, MDTERM_* environment, command flags
// (applied by the CLI after loading).
package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/yaklabco/mdterm/internal/logging"
	"github.com/yaklabco/mdterm/pkg/config"
)

// Load resolves the configuration. explicit is the --config flag value;
// when set, the file must exist. A discovered file that has vanished
// between discovery and read is treated as absent.
func Load(explicit string) (*config.Config, error) {
	path := DiscoverPath(explicit)

	cfg := config.Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			cfg, err = config.Parse(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			logging.Default().Debug("loaded config file", logging.FieldConfig, path)
		case explicit != "" || !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
