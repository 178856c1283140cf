// Package theme defines the named color themes for rendered markdown.
// A theme only supplies colors; which attributes apply where is decided
// by the render state machine.
package theme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme groups the semantic colors used by the renderer.
type Theme struct {
	Name string

	// Heading colors indexed by level-1.
	Heading [6]lipgloss.TerminalColor

	// Code colors inline code spans and unhighlighted code blocks.
	Code lipgloss.TerminalColor

	// Link and Image color link text and buffered reference markers; the
	// two differ so a reference is recognizable as an image reference.
	Link  lipgloss.TerminalColor
	Image lipgloss.TerminalColor

	// HTML colors raw markup passed through verbatim.
	HTML lipgloss.TerminalColor

	// Rule colors thematic breaks, Border the code block borders.
	Rule   lipgloss.TerminalColor
	Border lipgloss.TerminalColor

	// HighlightStyle names the chroma style for highlighted code blocks.
	HighlightStyle string
}

// HeadingColor returns the color for a heading level, clamping levels
// outside 1..6.
func (t *Theme) HeadingColor(level int) lipgloss.TerminalColor {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return t.Heading[level-1]
}

var builtin = map[string]*Theme{
	"default": {
		Name: "default",
		Heading: [6]lipgloss.TerminalColor{
			lipgloss.Color("12"), lipgloss.Color("12"), lipgloss.Color("4"),
			lipgloss.Color("4"), lipgloss.Color("6"), lipgloss.Color("6"),
		},
		Code:           lipgloss.Color("11"),
		Link:           lipgloss.Color("12"),
		Image:          lipgloss.Color("13"),
		HTML:           lipgloss.Color("10"),
		Rule:           lipgloss.Color("8"),
		Border:         lipgloss.Color("10"),
		HighlightStyle: "monokai",
	},
	"dracula": {
		Name: "dracula",
		Heading: [6]lipgloss.TerminalColor{
			lipgloss.Color("#bd93f9"), lipgloss.Color("#bd93f9"), lipgloss.Color("#ff79c6"),
			lipgloss.Color("#ff79c6"), lipgloss.Color("#8be9fd"), lipgloss.Color("#8be9fd"),
		},
		Code:           lipgloss.Color("#f1fa8c"),
		Link:           lipgloss.Color("#8be9fd"),
		Image:          lipgloss.Color("#ff79c6"),
		HTML:           lipgloss.Color("#50fa7b"),
		Rule:           lipgloss.Color("#6272a4"),
		Border:         lipgloss.Color("#50fa7b"),
		HighlightStyle: "dracula",
	},
	"solarized": {
		Name: "solarized",
		Heading: [6]lipgloss.TerminalColor{
			lipgloss.Color("#268bd2"), lipgloss.Color("#268bd2"), lipgloss.Color("#2aa198"),
			lipgloss.Color("#2aa198"), lipgloss.Color("#859900"), lipgloss.Color("#859900"),
		},
		Code:           lipgloss.Color("#b58900"),
		Link:           lipgloss.Color("#268bd2"),
		Image:          lipgloss.Color("#d33682"),
		HTML:           lipgloss.Color("#859900"),
		Rule:           lipgloss.Color("#586e75"),
		Border:         lipgloss.Color("#859900"),
		HighlightStyle: "solarized-dark",
	},
}

// Default returns the default theme.
func Default() *Theme {
	return builtin["default"]
}

// Get looks up a theme by name, case-insensitively.
func Get(name string) (*Theme, error) {
	if t, ok := builtin[strings.ToLower(name)]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the builtin theme names sorted alphabetically.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
