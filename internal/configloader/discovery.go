package configloader

import (
	"os"
	"path/filepath"
	"runtime"
)

// configFileNames are the file names searched inside a config directory,
// in order of preference.
var configFileNames = []string{"config.yaml", "config.yml"}

// DiscoverPath finds the configuration file to load. An explicit path
// always wins; otherwise the user config directory is searched, then the
// system one. Missing files yield an empty string, not an error.
func DiscoverPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if path := findUserConfig(); path != "" {
		return path
	}
	return findSystemConfig()
}

func findUserConfig() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return findConfigInDir(filepath.Join(configHome, "mdterm"))
}

func findSystemConfig() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return findConfigInDir(filepath.Join(programData, "mdterm"))
	}
	return findConfigInDir("/etc/mdterm")
}

func findConfigInDir(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
