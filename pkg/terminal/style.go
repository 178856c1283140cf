// Package terminal models what the output terminal can do: ANSI styling,
// OSC 8 hyperlinks, jump marks and inline image protocols. The renderer
// drives these capabilities through narrow interfaces and never emits a
// terminal-specific escape sequence itself.
package terminal

import "github.com/charmbracelet/lipgloss"

// Style is an immutable description of the text attributes in effect at a
// point in the render. Composition is by value: deriving a new style never
// changes the one it came from, so ending any inline span restores exactly
// the style active before it started.
type Style struct {
	Bold          bool
	Italic        bool
	Strikethrough bool

	// Foreground is nil for the terminal's default color.
	Foreground lipgloss.TerminalColor
}

// WithBold returns the style with bold set.
func (s Style) WithBold() Style {
	s.Bold = true
	return s
}

// ToggleItalic returns the style with italic flipped. Emphasis toggles
// rather than sets so that nested emphasis reads as de-emphasis.
func (s Style) ToggleItalic() Style {
	s.Italic = !s.Italic
	return s
}

// WithStrikethrough returns the style with strikethrough set.
func (s Style) WithStrikethrough() Style {
	s.Strikethrough = true
	return s
}

// WithForeground returns the style with the given foreground color.
func (s Style) WithForeground(c lipgloss.TerminalColor) Style {
	s.Foreground = c
	return s
}

// IsPlain reports whether the style carries no attributes at all.
func (s Style) IsPlain() bool {
	return !s.Bold && !s.Italic && !s.Strikethrough && s.Foreground == nil
}
