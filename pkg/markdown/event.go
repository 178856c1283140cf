// Package markdown converts CommonMark/GFM source into a flat stream of
// tagged render events. The renderer consumes these events one at a time;
// it never sees the document tree itself.
package markdown

import (
	"fmt"
	"strings"
)

// EventKind discriminates the event union.
type EventKind uint8

const (
	// EventStart opens the block or inline construct named by Tag.
	EventStart EventKind = iota
	// EventEnd closes the construct named by Tag.
	EventEnd
	// EventText carries a run of plain text. Text may be split across
	// multiple consecutive events at arbitrary byte boundaries.
	EventText
	// EventCode carries the contents of an inline code span.
	EventCode
	// EventHTML carries raw HTML, block-level or inline.
	EventHTML
	// EventRule is a thematic break.
	EventRule
	// EventSoftBreak is a soft line break inside inline content.
	EventSoftBreak
	// EventHardBreak is a hard line break inside inline content.
	EventHardBreak
	// EventTaskListMarker is a GFM task list checkbox.
	EventTaskListMarker
)

// TagKind identifies the construct opened by EventStart and closed by EventEnd.
type TagKind uint8

const (
	TagParagraph TagKind = iota
	TagHeading
	TagBlockQuote
	TagCodeBlock
	TagList
	TagItem
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagLink
	TagImage
)

// LinkType records how a link was written in the source, which decides how
// its closing event is rendered.
type LinkType uint8

const (
	// LinkInline is a regular [text](target "title") link or image.
	LinkInline LinkType = iota
	// LinkAutolink is a bare <https://...> link whose text equals its target.
	LinkAutolink
	// LinkEmail is an email autolink such as <user@example.com>.
	LinkEmail
)

// Tag is the payload of EventStart and EventEnd. Only the fields relevant
// to Kind are meaningful.
type Tag struct {
	Kind TagKind

	// Level is the heading level, 1 through 6.
	Level int

	// FenceInfo is the info string of a fenced code block; empty for
	// indented code blocks.
	FenceInfo string

	// ListStart is the first ordinal of an ordered list, or -1 for an
	// unordered list.
	ListStart int

	// LinkType, Target and Title describe links and images.
	LinkType LinkType
	Target   string
	Title    string
}

// Event is one element of the render event stream.
type Event struct {
	Kind EventKind

	// Tag is set for EventStart and EventEnd.
	Tag Tag

	// Text is set for EventText, EventCode and EventHTML.
	Text string

	// Checked is set for EventTaskListMarker.
	Checked bool
}

// Convenience constructors used by the parser and by tests.

func Start(tag Tag) Event      { return Event{Kind: EventStart, Tag: tag} }
func End(tag Tag) Event        { return Event{Kind: EventEnd, Tag: tag} }
func Text(s string) Event      { return Event{Kind: EventText, Text: s} }
func Code(s string) Event      { return Event{Kind: EventCode, Text: s} }
func HTML(s string) Event      { return Event{Kind: EventHTML, Text: s} }
func Rule() Event              { return Event{Kind: EventRule} }
func SoftBreak() Event         { return Event{Kind: EventSoftBreak} }
func HardBreak() Event         { return Event{Kind: EventHardBreak} }
func TaskMarker(c bool) Event  { return Event{Kind: EventTaskListMarker, Checked: c} }
func Paragraph() Tag           { return Tag{Kind: TagParagraph} }
func Heading(level int) Tag    { return Tag{Kind: TagHeading, Level: level} }
func BlockQuote() Tag          { return Tag{Kind: TagBlockQuote} }
func CodeBlock(info string) Tag { return Tag{Kind: TagCodeBlock, FenceInfo: info} }
func List(start int) Tag       { return Tag{Kind: TagList, ListStart: start} }
func Item() Tag                { return Tag{Kind: TagItem} }
func Emphasis() Tag            { return Tag{Kind: TagEmphasis} }
func Strong() Tag              { return Tag{Kind: TagStrong} }
func Strikethrough() Tag       { return Tag{Kind: TagStrikethrough} }

func Link(typ LinkType, target, title string) Tag {
	return Tag{Kind: TagLink, LinkType: typ, Target: target, Title: title}
}

func Image(typ LinkType, target, title string) Tag {
	return Tag{Kind: TagImage, LinkType: typ, Target: target, Title: title}
}

// Ordered reports whether a TagList opens an ordered list.
func (t Tag) Ordered() bool { return t.Kind == TagList && t.ListStart >= 0 }

func (k TagKind) String() string {
	switch k {
	case TagParagraph:
		return "Paragraph"
	case TagHeading:
		return "Heading"
	case TagBlockQuote:
		return "BlockQuote"
	case TagCodeBlock:
		return "CodeBlock"
	case TagList:
		return "List"
	case TagItem:
		return "Item"
	case TagEmphasis:
		return "Emphasis"
	case TagStrong:
		return "Strong"
	case TagStrikethrough:
		return "Strikethrough"
	case TagLink:
		return "Link"
	case TagImage:
		return "Image"
	default:
		return fmt.Sprintf("TagKind(%d)", uint8(k))
	}
}

func (t Tag) String() string {
	switch t.Kind {
	case TagHeading:
		return fmt.Sprintf("Heading(%d)", t.Level)
	case TagCodeBlock:
		return fmt.Sprintf("CodeBlock(%q)", t.FenceInfo)
	case TagList:
		if t.Ordered() {
			return fmt.Sprintf("List(%d)", t.ListStart)
		}
		return "List"
	case TagLink, TagImage:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Target)
	default:
		return t.Kind.String()
	}
}

func (e Event) String() string {
	switch e.Kind {
	case EventStart:
		return fmt.Sprintf("Start(%s)", e.Tag)
	case EventEnd:
		return fmt.Sprintf("End(%s)", e.Tag)
	case EventText:
		return fmt.Sprintf("Text(%q)", e.Text)
	case EventCode:
		return fmt.Sprintf("Code(%q)", e.Text)
	case EventHTML:
		return fmt.Sprintf("Html(%q)", e.Text)
	case EventRule:
		return "Rule"
	case EventSoftBreak:
		return "SoftBreak"
	case EventHardBreak:
		return "HardBreak"
	case EventTaskListMarker:
		marker := "unchecked"
		if e.Checked {
			marker = "checked"
		}
		return "TaskListMarker(" + marker + ")"
	default:
		return fmt.Sprintf("Event(%d)", uint8(e.Kind))
	}
}

// Dump renders a debug listing of events, one per line.
func Dump(events []Event) string {
	var b strings.Builder
	for _, ev := range events {
		b.WriteString(ev.String())
		b.WriteByte('\n')
	}
	return b.String()
}
