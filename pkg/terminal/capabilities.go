package terminal

import (
	"io"
	"net/url"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/yaklabco/mdterm/pkg/resources"
)

// LinkCapability writes native clickable hyperlinks. Present on terminals
// that implement OSC 8.
type LinkCapability interface {
	// StartLink opens a hyperlink span for target. Text written until
	// EndLink becomes the clickable label.
	StartLink(w io.Writer, target *url.URL, hostname string) error
	// EndLink closes the current hyperlink span.
	EndLink(w io.Writer) error
}

// MarkCapability sets a jump mark at the current position, used by
// terminals that can navigate between marks.
type MarkCapability interface {
	SetMark(w io.Writer) error
}

// ImageCapability renders an inline image. Implementations are mutually
// exclusive: a terminal speaks at most one image protocol.
type ImageCapability interface {
	// Name identifies the protocol for diagnostics.
	Name() string
	// RenderImage fetches target subject to the access policy and writes
	// the image inline. Errors are non-fatal; the renderer falls back to
	// link rendering.
	RenderImage(w io.Writer, target *url.URL, size Size, access resources.Access) error
}

// Capabilities is the read-only capability set for one render. It is
// resolved once, before rendering starts, and never mutated by the
// renderer.
type Capabilities struct {
	// Styled selects between ANSI styling and plain text output.
	Styled bool

	// Links is nil when the terminal has no hyperlink support.
	Links LinkCapability

	// Marks is nil when the terminal has no jump mark support.
	Marks MarkCapability

	// Image is nil, or exactly one of the supported image protocols.
	Image ImageCapability

	renderer *lipgloss.Renderer
}

// Option configures a capability set.
type Option func(*Capabilities)

// WithStyled turns ANSI styling on or off.
func WithStyled(styled bool) Option {
	return func(c *Capabilities) { c.Styled = styled }
}

// WithLinks enables a hyperlink capability.
func WithLinks(links LinkCapability) Option {
	return func(c *Capabilities) { c.Links = links }
}

// WithMarks enables a jump mark capability.
func WithMarks(marks MarkCapability) Option {
	return func(c *Capabilities) { c.Marks = marks }
}

// WithImage enables an inline image capability.
func WithImage(image ImageCapability) Option {
	return func(c *Capabilities) { c.Image = image }
}

// WithColorProfile pins the color profile instead of detecting it from
// the writer. Needed when output goes to a pipe feeding a pager.
func WithColorProfile(p termenv.Profile) Option {
	return func(c *Capabilities) { c.renderer.SetColorProfile(p) }
}

// NewCapabilities builds a capability set rendering to w. By default the
// output is styled with the profile lipgloss detects for w and carries no
// optional capabilities.
func NewCapabilities(w io.Writer, opts ...Option) *Capabilities {
	c := &Capabilities{
		Styled:   true,
		renderer: lipgloss.NewRenderer(w),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render returns text wrapped in the escape sequences for style, or the
// text unchanged when styling is off or the style is empty.
func (c *Capabilities) Render(style Style, text string) string {
	if !c.Styled || style.IsPlain() {
		return text
	}
	ls := c.renderer.NewStyle().
		Bold(style.Bold).
		Italic(style.Italic).
		Strikethrough(style.Strikethrough)
	if style.Foreground != nil {
		ls = ls.Foreground(style.Foreground)
	}
	return ls.Render(text)
}

// ColorProfile exposes the renderer's color profile so collaborators
// (like the code highlighter) can match their output depth to it.
func (c *Capabilities) ColorProfile() termenv.Profile {
	return c.renderer.ColorProfile()
}

// Name describes the detected terminal class for diagnostics.
func (c *Capabilities) Name() string {
	switch {
	case c.Image != nil:
		return c.Image.Name()
	case c.Links != nil:
		return "ANSI with hyperlinks"
	case c.Styled:
		return "ANSI"
	default:
		return "dumb"
	}
}
