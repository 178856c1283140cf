// Package resources reads targets referenced from markdown documents,
// gated by an access policy that decides whether remote URLs may be
// fetched at all.
package resources

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Access is the resource access policy for a render.
type Access uint8

const (
	// LocalOnly permits file: URLs only.
	LocalOnly Access = iota
	// RemoteAllowed additionally permits http: and https: URLs.
	RemoteAllowed
)

func (a Access) String() string {
	if a == RemoteAllowed {
		return "remote"
	}
	return "local-only"
}

// Permits reports whether the policy allows reading the given URL.
func (a Access) Permits(u *url.URL) bool {
	switch u.Scheme {
	case "file":
		return true
	case "http", "https":
		return a == RemoteAllowed
	default:
		return false
	}
}

// AccessError reports a URL denied by the access policy.
type AccessError struct {
	URL    *url.URL
	Access Access
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access to %s denied by %s policy", e.URL, e.Access)
}

// httpClient bounds remote fetches; image downloads should not hang a
// render indefinitely.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// Read fetches the contents of u subject to the access policy.
func Read(u *url.URL, access Access) ([]byte, error) {
	if !access.Permits(u) {
		return nil, &AccessError{URL: u, Access: access}
	}
	switch u.Scheme {
	case "file":
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", u, err)
		}
		return data, nil
	case "http", "https":
		return readRemote(u)
	default:
		return nil, &AccessError{URL: u, Access: access}
	}
}

func readRemote(u *url.URL) ([]byte, error) {
	resp, err := httpClient.Get(u.String())
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", u, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	return data, nil
}
