package terminal

import (
	"fmt"
	"io"
	"net/url"
)

// OSC8Links implements hyperlinks per the OSC 8 spec supported by most
// modern terminals.
type OSC8Links struct{}

func (OSC8Links) StartLink(w io.Writer, target *url.URL, hostname string) error {
	u := *target
	// file: URLs carry the local hostname so terminals on remote sessions
	// don't open foreign paths locally.
	if u.Scheme == "file" && u.Host == "" {
		u.Host = hostname
	}
	_, err := fmt.Fprintf(w, "\x1b]8;;%s\x1b\\", u.String())
	return err
}

func (OSC8Links) EndLink(w io.Writer) error {
	_, err := io.WriteString(w, "\x1b]8;;\x1b\\")
	return err
}
