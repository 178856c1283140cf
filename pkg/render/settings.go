package render

import (
	"github.com/yaklabco/mdterm/internal/ui/theme"
	"github.com/yaklabco/mdterm/pkg/highlight"
	"github.com/yaklabco/mdterm/pkg/resources"
	"github.com/yaklabco/mdterm/pkg/terminal"
)

// Settings is the read-only rendering context for one document. It is
// resolved before the first event and never mutated by a transition.
type Settings struct {
	// Capabilities describes what the output terminal can do.
	Capabilities *terminal.Capabilities

	// Size is the terminal window size used for rules, borders and
	// inline images.
	Size terminal.Size

	// Access is the resource access policy for images.
	Access resources.Access

	// Theme supplies the semantic colors.
	Theme *theme.Theme
}

// NewSettings builds settings with the default theme where t is nil.
func NewSettings(caps *terminal.Capabilities, size terminal.Size, access resources.Access, t *theme.Theme) *Settings {
	if t == nil {
		t = theme.Default()
	}
	return &Settings{Capabilities: caps, Size: size, Access: access, Theme: t}
}

// highlighterFor returns the syntax highlighter for a fence info string,
// or nil when the block must render literally.
func (s *Settings) highlighterFor(info string) *highlight.Block {
	if !s.Capabilities.Styled {
		return nil
	}
	return highlight.ForFence(info, s.Theme.HighlightStyle, s.Capabilities.ColorProfile())
}
