// Package render implements the markdown render state machine: a pure
// transition function that consumes one parse event at a time together
// with read-only settings and explicit mutable state, and writes ANSI
// styled output.
//
// State threads by value through every transition. The frame stack is a
// flat slice of tagged-variant frames; frames hold plain indentation and
// style values and never point at each other.
package render

import (
	"fmt"

	"github.com/yaklabco/mdterm/pkg/highlight"
	"github.com/yaklabco/mdterm/pkg/terminal"
)

// MarginControl tracks whether the next block must be preceded by a
// blank line.
type MarginControl uint8

const (
	// Margin means a blank line is pending before the next block.
	Margin MarginControl = iota
	// NoMargin suppresses the blank line before the next block.
	NoMargin
	// NoMarginForHTMLOnly suppresses the blank line only if the next
	// block is raw HTML, so consecutive HTML blocks stay adjacent.
	NoMarginForHTMLOnly
)

func (m MarginControl) String() string {
	switch m {
	case Margin:
		return "Margin"
	case NoMargin:
		return "NoMargin"
	case NoMarginForHTMLOnly:
		return "NoMarginForHTMLOnly"
	default:
		return fmt.Sprintf("MarginControl(%d)", uint8(m))
	}
}

// quoteIndent is the indentation added by each block quote level.
const quoteIndent = 4

// topLevelAttrs is the root state: no nesting, only margin bookkeeping.
type topLevelAttrs struct {
	marginBefore MarginControl
}

// StyledBlockAttrs describes a nested block container such as a block
// quote: its indentation, the text style inherited by children, margin
// bookkeeping, and whether a quote is among its ancestors.
type StyledBlockAttrs struct {
	Indent       int
	Style        terminal.Style
	MarginBefore MarginControl
	InQuote      bool
}

func (a StyledBlockAttrs) withMarginBefore() StyledBlockAttrs {
	a.MarginBefore = Margin
	return a
}

func (a StyledBlockAttrs) withoutMarginBefore() StyledBlockAttrs {
	a.MarginBefore = NoMargin
	return a
}

func (a StyledBlockAttrs) withoutMarginForHTMLOnly() StyledBlockAttrs {
	a.MarginBefore = NoMarginForHTMLOnly
	return a
}

// blockQuote derives the attributes for a quote nested in this block:
// one more indent unit and italic toggled on the inherited style.
func (a StyledBlockAttrs) blockQuote() StyledBlockAttrs {
	a.Indent += quoteIndent
	a.Style = a.Style.ToggleItalic()
	a.InQuote = true
	return a
}

// BlockAttrs is the fixed indent and style captured at code block entry.
type BlockAttrs struct {
	Indent int
	Style  terminal.Style
}

// InlineAttrs is the current style and indent of inline content.
type InlineAttrs struct {
	Indent int
	Style  terminal.Style
}

func inlineAttrsOf(a StyledBlockAttrs) InlineAttrs {
	return InlineAttrs{Indent: a.Indent, Style: a.Style}
}

// ListItemKind distinguishes bullet from numbered items and carries the
// next ordinal of an ordered list.
type ListItemKind struct {
	Ordered bool
	Number  int
}

// ListItemProgress tracks how far rendering has come inside one item,
// which decides margin and indent writes for the item's children.
type ListItemProgress uint8

const (
	// StartItem: the bullet has been written, nothing else yet.
	StartItem ListItemProgress = iota
	// ItemBlock: the item contains block-level content.
	ItemBlock
	// ItemText: the item has inline text on the current line.
	ItemText
)

// inlineKind discriminates the inline sub-states.
type inlineKind uint8

const (
	inlineText inlineKind = iota
	inlineLink
	inlineListItem
)

// InlineState is the inline rendering sub-state of an Inline frame.
type InlineState struct {
	kind inlineKind

	// link is the active hyperlink capability for inlineLink.
	link terminal.LinkCapability

	// list and progress describe the enclosing item for inlineListItem.
	list     ListItemKind
	progress ListItemProgress
}

func inlineTextState() InlineState {
	return InlineState{kind: inlineText}
}

func inlineLinkState(link terminal.LinkCapability) InlineState {
	return InlineState{kind: inlineLink, link: link}
}

func listItemState(kind ListItemKind, progress ListItemProgress) InlineState {
	return InlineState{kind: inlineListItem, list: kind, progress: progress}
}

func (s InlineState) String() string {
	switch s.kind {
	case inlineText:
		return "InlineText"
	case inlineLink:
		return "InlineLink"
	case inlineListItem:
		if s.list.Ordered {
			return fmt.Sprintf("ListItem(ordered %d, progress %d)", s.list.Number, s.progress)
		}
		return fmt.Sprintf("ListItem(unordered, progress %d)", s.progress)
	default:
		return fmt.Sprintf("InlineState(%d)", uint8(s.kind))
	}
}

// frameKind discriminates the frame union.
type frameKind uint8

const (
	// frameTopLevel marks the bottom of the stack; popping it returns
	// the state to root.
	frameTopLevel frameKind = iota
	frameStyledBlock
	frameLiteralBlock
	frameHighlightBlock
	frameInline
	frameRenderedImage
)

// frame is one entry of the render stack. Only the fields of the active
// variant are meaningful.
type frame struct {
	kind frameKind

	top    topLevelAttrs    // frameTopLevel
	styled StyledBlockAttrs // frameStyledBlock
	block  BlockAttrs       // frameLiteralBlock, frameHighlightBlock
	hl     *highlight.Block // frameHighlightBlock

	inline InlineState // frameInline
	attrs  InlineAttrs // frameInline

	// depth counts constructs opened inside a rendered image's alt
	// text, all of which are swallowed until the matching image end.
	depth int // frameRenderedImage
}

func styledFrame(a StyledBlockAttrs) frame {
	return frame{kind: frameStyledBlock, styled: a}
}

func literalFrame(a BlockAttrs) frame {
	return frame{kind: frameLiteralBlock, block: a}
}

func highlightFrame(a BlockAttrs, hl *highlight.Block) frame {
	return frame{kind: frameHighlightBlock, block: a, hl: hl}
}

func inlineFrame(st InlineState, attrs InlineAttrs) frame {
	return frame{kind: frameInline, inline: st, attrs: attrs}
}

func renderedImageFrame() frame {
	return frame{kind: frameRenderedImage}
}

func (f frame) String() string {
	switch f.kind {
	case frameTopLevel:
		return fmt.Sprintf("TopLevel(%s)", f.top.marginBefore)
	case frameStyledBlock:
		return fmt.Sprintf("StyledBlock(indent %d, %s)", f.styled.Indent, f.styled.MarginBefore)
	case frameLiteralBlock:
		return fmt.Sprintf("LiteralBlock(indent %d)", f.block.Indent)
	case frameHighlightBlock:
		return fmt.Sprintf("HighlightBlock(indent %d)", f.block.Indent)
	case frameInline:
		return fmt.Sprintf("Inline(%s, indent %d)", f.inline, f.attrs.Indent)
	case frameRenderedImage:
		return "RenderedImage"
	default:
		return fmt.Sprintf("frame(%d)", uint8(f.kind))
	}
}

// State is the render state: either root, or a stack of ancestor frames
// plus the current frame.
type State struct {
	nested  bool
	top     topLevelAttrs
	stack   []frame
	current frame
}

// NewState returns the initial state for a document render: root, with
// no margin pending so the document does not start with a blank line.
func NewState() State {
	return State{top: topLevelAttrs{marginBefore: NoMargin}}
}

// stackOnto leaves the root state: a return-to-root marker carrying top
// is pushed and cur becomes the current frame.
func (s State) stackOnto(top topLevelAttrs, cur frame) State {
	s.stack = append(s.stack, frame{kind: frameTopLevel, top: top})
	s.current = cur
	s.nested = true
	return s
}

// push wraps prev onto the stack and makes cur the current frame.
func (s State) push(prev, cur frame) State {
	s.stack = append(s.stack, prev)
	s.current = cur
	return s
}

// setCurrent replaces the current frame without touching the stack.
func (s State) setCurrent(cur frame) State {
	s.current = cur
	return s
}

// pop discards the current frame and restores the stack top. Popping a
// top-level marker returns the state to root.
func (s State) pop() State {
	f := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	if f.kind == frameTopLevel {
		s.nested = false
		s.top = f.top
		return s
	}
	s.current = f
	return s
}

// Depth returns the current nesting depth. Zero means root.
func (s State) Depth() int {
	if !s.nested {
		return 0
	}
	return len(s.stack)
}

func (s State) String() string {
	if !s.nested {
		return fmt.Sprintf("TopLevel(%s)", s.top.marginBefore)
	}
	return fmt.Sprintf("Stacked(depth %d, current %s)", len(s.stack), s.current)
}
