package markdown

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Parser turns Markdown source into render events using goldmark.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates an event parser. The GFM inline extensions are always
// enabled; the renderer has event rules for strikethrough, task lists and
// autolinks, so parsing them costs nothing when unused.
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.TaskList,
				extension.Linkify,
			),
		),
	}
}

// Parse converts source into the full event sequence.
func (p *Parser) Parse(source []byte) ([]Event, error) {
	var events []Event
	err := p.EachEvent(source, func(ev Event) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// EachEvent parses source and invokes fn once per event, in document order.
// Parsing stops at the first error returned by fn.
func (p *Parser) EachEvent(source []byte, fn func(Event) error) error {
	doc := p.md.Parser().Parse(text.NewReader(source))
	e := &emitter{source: source, fn: fn}
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		if err := e.emitNode(child); err != nil {
			return err
		}
	}
	return nil
}

// emitter walks the goldmark AST and flattens it into events.
type emitter struct {
	source []byte
	fn     func(Event) error
}

func (e *emitter) emit(ev Event) error { return e.fn(ev) }

func (e *emitter) emitChildren(n ast.Node) error {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if err := e.emitNode(child); err != nil {
			return err
		}
	}
	return nil
}

// emitTagged brackets the node's children in Start/End events.
func (e *emitter) emitTagged(n ast.Node, tag Tag) error {
	if err := e.emit(Start(tag)); err != nil {
		return err
	}
	if err := e.emitChildren(n); err != nil {
		return err
	}
	return e.emit(End(tag))
}

func (e *emitter) emitNode(n ast.Node) error {
	switch gmn := n.(type) {
	case *ast.Paragraph:
		return e.emitTagged(n, Paragraph())

	case *ast.TextBlock:
		// Tight list item content: inline events without a paragraph wrapper.
		return e.emitChildren(n)

	case *ast.Heading:
		return e.emitTagged(n, Heading(gmn.Level))

	case *ast.Blockquote:
		return e.emitTagged(n, BlockQuote())

	case *ast.ThematicBreak:
		return e.emit(Rule())

	case *ast.FencedCodeBlock:
		info := ""
		if gmn.Info != nil {
			info = string(gmn.Info.Value(e.source))
		}
		return e.emitCodeBlock(gmn, info)

	case *ast.CodeBlock:
		return e.emitCodeBlock(gmn, "")

	case *ast.List:
		start := -1
		if gmn.IsOrdered() {
			start = gmn.Start
		}
		return e.emitTagged(n, List(start))

	case *ast.ListItem:
		return e.emitTagged(n, Item())

	case *ast.HTMLBlock:
		return e.emitHTMLBlock(gmn)

	case *ast.RawHTML:
		for i := 0; i < gmn.Segments.Len(); i++ {
			seg := gmn.Segments.At(i)
			if err := e.emit(HTML(string(seg.Value(e.source)))); err != nil {
				return err
			}
		}
		return nil

	case *ast.Text:
		return e.emitText(gmn)

	case *ast.String:
		return e.emit(Text(string(gmn.Value)))

	case *ast.CodeSpan:
		return e.emit(Code(flattenText(n, e.source)))

	case *ast.Emphasis:
		if gmn.Level >= 2 {
			return e.emitTagged(n, Strong())
		}
		return e.emitTagged(n, Emphasis())

	case *east.Strikethrough:
		return e.emitTagged(n, Strikethrough())

	case *ast.Link:
		return e.emitTagged(n, Link(LinkInline, string(gmn.Destination), string(gmn.Title)))

	case *ast.AutoLink:
		return e.emitAutoLink(gmn)

	case *ast.Image:
		return e.emitTagged(n, Image(LinkInline, string(gmn.Destination), string(gmn.Title)))

	case *east.TaskCheckBox:
		return e.emit(TaskMarker(gmn.IsChecked))

	default:
		return fmt.Errorf("unsupported markdown node %s", n.Kind())
	}
}

func (e *emitter) emitText(t *ast.Text) error {
	if err := e.emit(Text(string(t.Segment.Value(e.source)))); err != nil {
		return err
	}
	if t.SoftLineBreak() {
		return e.emit(SoftBreak())
	}
	if t.HardLineBreak() {
		return e.emit(HardBreak())
	}
	return nil
}

// emitCodeBlock writes one Text event per source line, each line keeping
// its trailing terminator. The renderer relies on that segmentation to
// restore indentation after every embedded newline.
func (e *emitter) emitCodeBlock(n ast.Node, info string) error {
	tag := CodeBlock(info)
	if err := e.emit(Start(tag)); err != nil {
		return err
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if err := e.emit(Text(string(seg.Value(e.source)))); err != nil {
			return err
		}
	}
	return e.emit(End(tag))
}

func (e *emitter) emitHTMLBlock(n *ast.HTMLBlock) error {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if err := e.emit(HTML(string(seg.Value(e.source)))); err != nil {
			return err
		}
	}
	if n.HasClosure() {
		seg := n.ClosureLine
		if err := e.emit(HTML(string(seg.Value(e.source)))); err != nil {
			return err
		}
	}
	return nil
}

// emitAutoLink renders <https://...> and <user@example.com> as a link
// whose visible text equals the target.
func (e *emitter) emitAutoLink(a *ast.AutoLink) error {
	typ := LinkAutolink
	if a.AutoLinkType == ast.AutoLinkEmail {
		typ = LinkEmail
	}
	target := string(a.URL(e.source))
	label := string(a.Label(e.source))
	tag := Link(typ, target, "")
	if err := e.emit(Start(tag)); err != nil {
		return err
	}
	if err := e.emit(Text(label)); err != nil {
		return err
	}
	return e.emit(End(tag))
}

// flattenText concatenates the raw text of all descendant text nodes.
func flattenText(n ast.Node, source []byte) string {
	var out []byte
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			out = append(out, t.Segment.Value(source)...)
		case *ast.String:
			out = append(out, t.Value...)
		default:
			out = append(out, flattenText(child, source)...)
		}
	}
	return string(out)
}
