package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/mdterm/pkg/resources"
	"github.com/yaklabco/mdterm/pkg/terminal"
)

// borderWidth caps the code block border length.
const borderWidth = 20

// printer bundles the output sink with the per-render context and a
// sticky write error, so transition rules can write unconditionally and
// report the first failure once.
type printer struct {
	w        io.Writer
	settings *Settings
	env      *resources.Environment
	err      error
}

func (p *printer) check(err error) {
	if p.err == nil && err != nil {
		p.err = err
	}
}

func (p *printer) raw(s string) {
	if p.err != nil {
		return
	}
	_, err := io.WriteString(p.w, s)
	p.err = err
}

func (p *printer) newline() {
	p.raw("\n")
}

func (p *printer) indent(level int) {
	if level > 0 {
		p.raw(strings.Repeat(" ", level))
	}
}

func (p *printer) styled(style terminal.Style, text string) {
	p.raw(p.settings.Capabilities.Render(style, text))
}

// rule writes a thematic break of the given width, without a newline.
func (p *printer) rule(width int) {
	if width < 1 {
		width = 1
	}
	p.styled(terminal.Style{Foreground: p.settings.Theme.Rule}, strings.Repeat("─", width))
}

// border writes a code block border and terminates the line.
func (p *printer) border() {
	width := p.settings.Size.Columns
	if width > borderWidth {
		width = borderWidth
	}
	if width < 1 {
		width = 1
	}
	p.styled(terminal.Style{Foreground: p.settings.Theme.Border}, strings.Repeat("─", width))
	p.newline()
}

// mark sets a terminal jump mark if the capability is present.
func (p *printer) mark() {
	if marks := p.settings.Capabilities.Marks; marks != nil && p.err == nil {
		p.check(marks.SetMark(p.w))
	}
}

// startHeading writes the heading marker and returns the inline frame
// for the heading text.
func (p *printer) startHeading(style terminal.Style, level, indent int) frame {
	style = style.WithForeground(p.settings.Theme.HeadingColor(level)).WithBold()
	p.styled(style, strings.Repeat("#", level)+" ")
	return inlineFrame(inlineTextState(), InlineAttrs{Indent: indent, Style: style})
}

// startCodeBlock writes the opening border and initial indent, then
// returns the literal or highlighted frame depending on whether a
// highlighter is available for the fence.
func (p *printer) startCodeBlock(indent int, style terminal.Style, fenceInfo string) frame {
	p.indent(indent)
	p.border()
	p.indent(indent)
	if hl := p.settings.highlighterFor(fenceInfo); hl != nil {
		return highlightFrame(BlockAttrs{Indent: indent, Style: style}, hl)
	}
	return literalFrame(BlockAttrs{Indent: indent, Style: style.WithForeground(p.settings.Theme.Code)})
}

// linkRefs writes buffered references as markdown-style definition
// lines, one per reference, in index order.
func (p *printer) linkRefs(refs []LinkReference) {
	for _, ref := range refs {
		line := fmt.Sprintf("[%d]: %s", ref.Index, ref.Target)
		if ref.Title != "" {
			line += fmt.Sprintf(" %q", ref.Title)
		}
		p.styled(terminal.Style{Foreground: ref.Color}, line)
		p.newline()
	}
}

// linesWithEndings splits text after every newline, keeping the
// terminator on each piece. A final piece without a terminator is
// returned as-is.
func linesWithEndings(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}
