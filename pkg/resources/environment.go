package resources

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Environment carries the per-document context needed to resolve targets:
// the base URL relative references are joined against, and the hostname
// recorded in file: hyperlinks so terminals can tell local links from
// links into remote mounts.
type Environment struct {
	// BaseURL is the file: URL of the document's directory, with a
	// trailing slash so relative references resolve inside it.
	BaseURL *url.URL

	// Hostname identifies this machine in OSC 8 file: URLs.
	Hostname string
}

// NewEnvironment builds an environment rooted at baseDir. An empty baseDir
// means the current working directory.
func NewEnvironment(baseDir string) (*Environment, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		baseDir = wd
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory %q: %w", baseDir, err)
	}
	base := &url.URL{Scheme: "file", Path: abs + "/"}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	return &Environment{BaseURL: base, Hostname: hostname}, nil
}

// ResolveReference resolves a markdown target against the environment.
// Absolute URLs pass through unchanged; everything else is treated as a
// path relative to the base directory. Returns nil if the reference
// cannot be interpreted as a URL at all.
func (e *Environment) ResolveReference(reference string) *url.URL {
	if reference == "" {
		return nil
	}
	u, err := url.Parse(reference)
	if err != nil {
		return nil
	}
	if u.IsAbs() {
		return u
	}
	return e.BaseURL.ResolveReference(u)
}
