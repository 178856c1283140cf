package terminal

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/url"
	"strings"

	"github.com/yaklabco/mdterm/pkg/resources"
)

// TerminologyImages renders inline images for the Enlightenment
// Terminology terminal. The protocol sets the target as a texture and
// draws a cell rectangle which the terminal replaces with the image;
// Terminology fetches the target itself.
type TerminologyImages struct{}

func (TerminologyImages) Name() string { return "Terminology" }

func (t TerminologyImages) RenderImage(w io.Writer, target *url.URL, size Size, access resources.Access) error {
	if !access.Permits(target) {
		return &resources.AccessError{URL: target, Access: access}
	}
	columns := size.Columns
	lines := t.cellLines(target, size, access)

	var cmd strings.Builder
	// Cursor cells have roughly a 1:2 width/height proportion, hence the
	// halved column count in the proportion math done by cellLines.
	fmt.Fprintf(&cmd, "\x1b}ic#%d;%d;%s\x00", columns, lines, t.reference(target))
	for range lines {
		cmd.WriteString("\x1b}ib\x00")
		cmd.WriteString(strings.Repeat("#", columns))
		cmd.WriteString("\x1b}ie\x00\n")
	}
	_, err := io.WriteString(w, cmd.String())
	return err
}

// cellLines computes the rectangle height from the image proportions,
// falling back to half the window when the image cannot be inspected.
func (TerminologyImages) cellLines(target *url.URL, size Size, access resources.Access) int {
	fallback := size.Rows / 2
	if fallback < 1 {
		fallback = 1
	}
	contents, err := resources.Read(target, access)
	if err != nil {
		return fallback
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(contents))
	if err != nil || cfg.Width == 0 {
		return fallback
	}
	lines := cfg.Height * (size.Columns / 2) / cfg.Width
	if lines < 1 {
		lines = 1
	}
	return lines
}

// reference is the string Terminology receives: a plain path for local
// files, the full URL otherwise.
func (TerminologyImages) reference(target *url.URL) string {
	if target.Scheme == "file" {
		return target.Path
	}
	return target.String()
}
