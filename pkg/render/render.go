package render

import (
	"fmt"
	"io"
	"net/url"

	"github.com/yaklabco/mdterm/pkg/markdown"
	"github.com/yaklabco/mdterm/pkg/resources"
	"github.com/yaklabco/mdterm/pkg/terminal"
)

// WriteEvent is the render transition function. Given the current state,
// the threaded render data and one event, it writes the event's output
// to w and returns the successor state and data.
//
// Reachable pairings each have exactly one rule. A pairing outside the
// reachable space means the event producer and the state machine have
// desynchronized; WriteEvent panics in that case rather than risk
// emitting corrupted escape sequences. Sink I/O failures are returned
// and abort the render.
func WriteEvent(w io.Writer, settings *Settings, env *resources.Environment, state State, data StateData, ev markdown.Event) (State, StateData, error) {
	p := &printer{w: w, settings: settings, env: env}

	var next State
	if !state.nested {
		next, data = p.topLevelEvent(state, data, ev)
	} else {
		switch state.current.kind {
		case frameStyledBlock:
			next, data = p.styledBlockEvent(state, data, ev)
		case frameLiteralBlock:
			next, data = p.literalBlockEvent(state, data, ev)
		case frameHighlightBlock:
			next, data = p.highlightBlockEvent(state, data, ev)
		case frameInline:
			next, data = p.inlineEvent(state, data, ev)
		case frameRenderedImage:
			next, data = p.renderedImageEvent(state, data, ev)
		default:
			contractViolation(state, ev)
		}
	}
	return next, data, p.err
}

// Finish flushes the remaining pending link references once the event
// stream is exhausted. The state must be back at root; anything else is
// the same class of contract violation as an unreachable transition.
func Finish(w io.Writer, settings *Settings, env *resources.Environment, state State, data StateData) error {
	if state.nested {
		panic(fmt.Sprintf("mdterm/render: document finished in state %s, expected top level; the event producer is malformed", state))
	}
	p := &printer{w: w, settings: settings, env: env}
	_, refs := data.TakeLinks()
	p.linkRefs(refs)
	return p.err
}

// Render drives a whole event sequence through the machine and finishes
// it. Convenience for callers that already hold all events.
func Render(w io.Writer, settings *Settings, env *resources.Environment, events []markdown.Event) error {
	state := NewState()
	data := NewStateData()
	var err error
	for _, ev := range events {
		state, data, err = WriteEvent(w, settings, env, state, data, ev)
		if err != nil {
			return err
		}
	}
	return Finish(w, settings, env, state, data)
}

func contractViolation(state State, ev markdown.Event) {
	panic(fmt.Sprintf("mdterm/render: event %s impossible in state %s; the event producer and renderer are out of sync", ev, state))
}

// listKindOf derives the item kind from a list tag.
func listKindOf(tag markdown.Tag) ListItemKind {
	if tag.Ordered() {
		return ListItemKind{Ordered: true, Number: tag.ListStart}
	}
	return ListItemKind{}
}

// topLevelEvent handles events arriving at the document root.
func (p *printer) topLevelEvent(state State, data StateData, ev markdown.Event) (State, StateData) {
	attrs := state.top
	margin := func() {
		if attrs.marginBefore != NoMargin {
			p.newline()
		}
	}

	switch {
	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagParagraph:
		margin()
		return state.stackOnto(topLevelAttrs{marginBefore: Margin},
			inlineFrame(inlineTextState(), InlineAttrs{})), data

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagHeading:
		var refs []LinkReference
		data, refs = data.TakeLinks()
		p.linkRefs(refs)
		margin()
		p.mark()
		return state.stackOnto(topLevelAttrs{marginBefore: Margin},
			p.startHeading(terminal.Style{}, ev.Tag.Level, 0)), data

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagBlockQuote:
		margin()
		// The block margin was just written; the quote's first child
		// must not add another one.
		return state.stackOnto(topLevelAttrs{marginBefore: Margin},
			styledFrame(StyledBlockAttrs{}.withoutMarginBefore().blockQuote())), data

	case ev.Kind == markdown.EventRule:
		margin()
		p.rule(p.settings.Size.Columns)
		p.newline()
		state.top = topLevelAttrs{marginBefore: Margin}
		return state, data

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagCodeBlock:
		margin()
		return state.stackOnto(topLevelAttrs{marginBefore: Margin},
			p.startCodeBlock(0, terminal.Style{}, ev.Tag.FenceInfo)), data

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagList:
		margin()
		return state.stackOnto(topLevelAttrs{marginBefore: Margin},
			inlineFrame(listItemState(listKindOf(ev.Tag), StartItem), InlineAttrs{})), data

	case ev.Kind == markdown.EventHTML:
		if attrs.marginBefore == Margin {
			p.newline()
		}
		p.styled(terminal.Style{Foreground: p.settings.Theme.HTML}, ev.Text)
		state.top = topLevelAttrs{marginBefore: NoMarginForHTMLOnly}
		return state, data
	}

	contractViolation(state, ev)
	return state, data
}

// styledBlockEvent handles events while the current frame is a styled
// block container (a block quote or plain nested block).
func (p *printer) styledBlockEvent(state State, data StateData, ev markdown.Event) (State, StateData) {
	attrs := state.current.styled
	margin := func() {
		if attrs.MarginBefore != NoMargin {
			p.newline()
		}
	}

	switch {
	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagParagraph:
		margin()
		p.indent(attrs.Indent)
		return state.push(styledFrame(attrs.withMarginBefore()),
			inlineFrame(inlineTextState(), inlineAttrsOf(attrs))), data

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagBlockQuote:
		margin()
		return state.push(styledFrame(attrs.withMarginBefore()),
			styledFrame(attrs.withoutMarginBefore().blockQuote())), data

	case ev.Kind == markdown.EventRule:
		margin()
		p.indent(attrs.Indent)
		p.rule(p.settings.Size.Columns - attrs.Indent)
		p.newline()
		return state.setCurrent(styledFrame(attrs.withMarginBefore())), data

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagHeading:
		margin()
		p.indent(attrs.Indent)
		// Nested headings keep the block style and get no jump mark.
		return state.push(styledFrame(attrs.withMarginBefore()),
			p.startHeading(attrs.Style, ev.Tag.Level, attrs.Indent)), data

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagList:
		margin()
		return state.push(styledFrame(attrs.withMarginBefore()),
			inlineFrame(listItemState(listKindOf(ev.Tag), StartItem), inlineAttrsOf(attrs))), data

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagCodeBlock:
		margin()
		return state.push(styledFrame(attrs),
			p.startCodeBlock(attrs.Indent, attrs.Style, ev.Tag.FenceInfo)), data

	case ev.Kind == markdown.EventHTML:
		if attrs.MarginBefore == Margin {
			p.newline()
		}
		p.indent(attrs.Indent)
		p.styled(attrs.Style.WithForeground(p.settings.Theme.HTML), ev.Text)
		return state.setCurrent(styledFrame(attrs.withoutMarginForHTMLOnly())), data

	case ev.Kind == markdown.EventEnd && ev.Tag.Kind == markdown.TagBlockQuote,
		ev.Kind == markdown.EventEnd && ev.Tag.Kind == markdown.TagList:
		return state.pop(), data
	}

	contractViolation(state, ev)
	return state, data
}

// literalBlockEvent handles code block content without highlighting.
func (p *printer) literalBlockEvent(state State, data StateData, ev markdown.Event) (State, StateData) {
	attrs := state.current.block

	switch {
	case ev.Kind == markdown.EventText:
		for _, line := range linesWithEndings(ev.Text) {
			p.styled(attrs.Style, line)
			if len(line) > 0 && line[len(line)-1] == '\n' {
				p.indent(attrs.Indent)
			}
		}
		return state, data

	case ev.Kind == markdown.EventEnd && ev.Tag.Kind == markdown.TagCodeBlock:
		p.border()
		return state.pop(), data
	}

	contractViolation(state, ev)
	return state, data
}

// highlightBlockEvent handles code block content with an incremental
// highlighter. The highlighter state lives in the frame and survives
// across text chunks.
func (p *printer) highlightBlockEvent(state State, data StateData, ev markdown.Event) (State, StateData) {
	attrs := state.current.block
	hl := state.current.hl

	switch {
	case ev.Kind == markdown.EventText:
		for _, line := range linesWithEndings(ev.Text) {
			if p.err == nil {
				p.check(hl.WriteSegment(p.w, line))
			}
			if len(line) > 0 && line[len(line)-1] == '\n' {
				p.indent(attrs.Indent)
			}
		}
		return state, data

	case ev.Kind == markdown.EventEnd && ev.Tag.Kind == markdown.TagCodeBlock:
		if p.err == nil {
			p.check(hl.Flush(p.w))
		}
		p.border()
		return state.pop(), data
	}

	contractViolation(state, ev)
	return state, data
}

// renderedImageEvent swallows everything an image's alt text produces
// until the matching image end, since the image itself has already been
// written.
func (p *printer) renderedImageEvent(state State, data StateData, ev markdown.Event) (State, StateData) {
	cur := state.current
	switch ev.Kind {
	case markdown.EventStart:
		cur.depth++
		return state.setCurrent(cur), data
	case markdown.EventEnd:
		if cur.depth > 0 {
			cur.depth--
			return state.setCurrent(cur), data
		}
		if ev.Tag.Kind == markdown.TagImage {
			return state.pop(), data
		}
	default:
		// Alt text leaves: text, breaks, code spans and the like.
		return state, data
	}

	contractViolation(state, ev)
	return state, data
}

// inlineEvent handles inline content: plain text, hyperlinks and list
// items with all their internal block starts.
func (p *printer) inlineEvent(state State, data StateData, ev markdown.Event) (State, StateData) {
	st := state.current.inline
	attrs := state.current.attrs

	if st.kind == inlineListItem {
		if next, ndata, handled := p.listItemEvent(state, data, st, attrs, ev); handled {
			return next, ndata
		}
	}

	switch {
	// Inline style toggling: push the current frame, derive the style,
	// pop back to the exact prior style on the matching end.
	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagEmphasis:
		return state.push(state.current,
			inlineFrame(st, InlineAttrs{Indent: attrs.Indent, Style: attrs.Style.ToggleItalic()})), data

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagStrong:
		return state.push(state.current,
			inlineFrame(st, InlineAttrs{Indent: attrs.Indent, Style: attrs.Style.WithBold()})), data

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagStrikethrough:
		return state.push(state.current,
			inlineFrame(st, InlineAttrs{Indent: attrs.Indent, Style: attrs.Style.WithStrikethrough()})), data

	case ev.Kind == markdown.EventEnd && (ev.Tag.Kind == markdown.TagEmphasis ||
		ev.Tag.Kind == markdown.TagStrong || ev.Tag.Kind == markdown.TagStrikethrough):
		return state.pop(), data

	case ev.Kind == markdown.EventCode:
		p.styled(attrs.Style.WithForeground(p.settings.Theme.Code), ev.Text)
		return state, data

	case ev.Kind == markdown.EventTaskListMarker:
		marker := "☐ " // unchecked box
		if ev.Checked {
			marker = "☑ " // checked box
		}
		p.styled(attrs.Style, marker)
		return state, data

	// Soft and hard breaks render the same: newline plus indent.
	case ev.Kind == markdown.EventSoftBreak, ev.Kind == markdown.EventHardBreak:
		p.newline()
		p.indent(attrs.Indent)
		return state, data

	case ev.Kind == markdown.EventText:
		p.styled(attrs.Style, ev.Text)
		return state, data

	case ev.Kind == markdown.EventHTML:
		p.styled(attrs.Style.WithForeground(p.settings.Theme.HTML), ev.Text)
		return state, data

	case ev.Kind == markdown.EventEnd && (ev.Tag.Kind == markdown.TagParagraph ||
		ev.Tag.Kind == markdown.TagHeading):
		p.newline()
		return state.pop(), data

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagLink:
		return p.startLink(state, data, st, attrs, ev.Tag)

	case ev.Kind == markdown.EventEnd && ev.Tag.Kind == markdown.TagLink:
		return p.endLink(state, data, st, attrs, ev.Tag)

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagImage:
		return p.startImage(state, data, st, attrs, ev.Tag)

	case ev.Kind == markdown.EventEnd && ev.Tag.Kind == markdown.TagImage:
		return p.endImage(state, data, st, attrs, ev.Tag)

	case ev.Kind == markdown.EventEnd && (ev.Tag.Kind == markdown.TagBlockQuote ||
		ev.Tag.Kind == markdown.TagList):
		return state.pop(), data
	}

	contractViolation(state, ev)
	return state, data
}

// listItemEvent handles the transitions specific to the list item
// sub-state. Returns handled=false for events shared with the other
// inline sub-states.
func (p *printer) listItemEvent(state State, data StateData, st InlineState, attrs InlineAttrs, ev markdown.Event) (State, StateData, bool) {
	kind := st.list

	switch {
	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagItem:
		// A margin line separates this item from a previous item that
		// had block content.
		if st.progress == ItemBlock {
			p.newline()
		}
		p.indent(attrs.Indent)
		indent := attrs.Indent
		if kind.Ordered {
			p.raw(fmt.Sprintf("%2d. ", kind.Number))
			indent += 4
		} else {
			p.raw("• ")
			indent += 2
		}
		return state.setCurrent(inlineFrame(listItemState(kind, StartItem),
			InlineAttrs{Indent: indent, Style: attrs.Style})), data, true

	case ev.Kind == markdown.EventEnd && ev.Tag.Kind == markdown.TagItem:
		if st.progress != ItemBlock {
			p.newline()
		}
		// Restore the indent the bullet added and advance the ordinal.
		indent := attrs.Indent
		if kind.Ordered {
			indent -= 4
			kind.Number++
		} else {
			indent -= 2
		}
		return state.setCurrent(inlineFrame(listItemState(kind, st.progress),
			InlineAttrs{Indent: indent, Style: attrs.Style})), data, true

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagParagraph:
		if st.progress != StartItem {
			// Unless we're right after the bullet, where the first line
			// goes beside it, the paragraph starts on its own line.
			p.newline()
			p.indent(attrs.Indent)
		}
		return state.push(inlineFrame(listItemState(kind, ItemBlock), attrs),
			inlineFrame(inlineTextState(), attrs)), data, true

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagCodeBlock:
		p.newline()
		return state.push(inlineFrame(listItemState(kind, ItemBlock), attrs),
			p.startCodeBlock(attrs.Indent, attrs.Style, ev.Tag.FenceInfo)), data, true

	case ev.Kind == markdown.EventRule:
		p.newline()
		p.indent(attrs.Indent)
		p.rule(p.settings.Size.Columns - attrs.Indent)
		p.newline()
		return state.setCurrent(inlineFrame(listItemState(kind, ItemBlock), attrs)), data, true

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagHeading:
		if st.progress != StartItem {
			p.newline()
			p.indent(attrs.Indent)
		}
		return state.push(inlineFrame(listItemState(kind, ItemBlock), attrs),
			p.startHeading(attrs.Style, ev.Tag.Level, attrs.Indent)), data, true

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagList:
		p.newline()
		return state.push(inlineFrame(listItemState(kind, ItemBlock), attrs),
			inlineFrame(listItemState(listKindOf(ev.Tag), StartItem), attrs)), data, true

	case ev.Kind == markdown.EventStart && ev.Tag.Kind == markdown.TagBlockQuote:
		p.newline()
		quote := StyledBlockAttrs{Indent: attrs.Indent, Style: attrs.Style, MarginBefore: NoMargin}.blockQuote()
		return state.push(inlineFrame(listItemState(kind, ItemBlock), attrs),
			styledFrame(quote)), data, true

	case ev.Kind == markdown.EventText && st.progress == ItemBlock:
		// Fresh text after a nested block: the bullet's indent is long
		// gone, so re-emit it.
		p.indent(attrs.Indent)
		p.styled(attrs.Style, ev.Text)
		return state.setCurrent(inlineFrame(listItemState(kind, ItemText), attrs)), data, true

	case ev.Kind == markdown.EventHTML && st.progress == ItemBlock:
		p.indent(attrs.Indent)
		p.styled(attrs.Style.WithForeground(p.settings.Theme.HTML), ev.Text)
		return state.setCurrent(inlineFrame(listItemState(kind, ItemText), attrs)), data, true
	}

	return state, data, false
}

// startLink begins a native hyperlink span when the capability is
// present and the target resolves; otherwise the link renders as plain
// text in the link color and gets buffered on the matching end.
func (p *printer) startLink(state State, data StateData, st InlineState, attrs InlineAttrs, tag markdown.Tag) (State, StateData) {
	linkState := inlineTextState()
	if links := p.settings.Capabilities.Links; links != nil {
		var target *url.URL
		if tag.LinkType == markdown.LinkEmail {
			// Email autolinks become mailto links.
			target, _ = url.Parse("mailto:" + tag.Target)
		} else {
			target = p.env.ResolveReference(tag.Target)
		}
		if target != nil && p.err == nil {
			if err := links.StartLink(p.w, target, p.env.Hostname); err == nil {
				linkState = inlineLinkState(links)
			}
		}
	}
	return state.push(state.current, inlineFrame(linkState, InlineAttrs{
		Indent: attrs.Indent,
		Style:  attrs.Style.WithForeground(p.settings.Theme.Link),
	})), data
}

func (p *printer) endLink(state State, data StateData, st InlineState, attrs InlineAttrs, tag markdown.Tag) (State, StateData) {
	switch {
	case st.kind == inlineLink:
		p.check(st.link.EndLink(p.w))
		return state.pop(), data

	case st.kind == inlineText && (tag.LinkType == markdown.LinkAutolink || tag.LinkType == markdown.LinkEmail):
		// The visible text already equals the target; nothing to add.
		return state.pop(), data

	case st.kind == inlineText:
		var index int
		data, index = data.AddLink(tag.Target, tag.Title, p.settings.Theme.Link)
		p.styled(attrs.Style.WithForeground(p.settings.Theme.Link), fmt.Sprintf("[%d]", index))
		return state.pop(), data
	}

	contractViolation(state, markdown.End(tag))
	return state, data
}

// startImage dispatches to the image capability; on failure or absence
// it degrades to a hyperlink and finally to a buffered reference, using
// the color reserved for images.
func (p *printer) startImage(state State, data StateData, st InlineState, attrs InlineAttrs, tag markdown.Tag) (State, StateData) {
	resolved := p.env.ResolveReference(tag.Target)

	// The image protocol takes priority over hyperlink rendering when
	// both could apply.
	if image := p.settings.Capabilities.Image; image != nil && resolved != nil && p.err == nil {
		if err := image.RenderImage(p.w, resolved, p.settings.Size, p.settings.Access); err == nil {
			return state.push(state.current, renderedImageFrame()), data
		}
	}

	// Inside a native hyperlink we cannot nest another link; keep the
	// outer link's style so clicking clearly follows the link target.
	if st.kind != inlineLink {
		if links := p.settings.Capabilities.Links; links != nil && resolved != nil && p.err == nil {
			if err := links.StartLink(p.w, resolved, p.env.Hostname); err == nil {
				return state.push(state.current, inlineFrame(inlineLinkState(links), InlineAttrs{
					Indent: attrs.Indent,
					Style:  attrs.Style.WithForeground(p.settings.Theme.Image),
				})), data
			}
		}
	}

	style := attrs.Style
	if st.kind != inlineLink {
		style = style.WithForeground(p.settings.Theme.Image)
	}
	return state.push(state.current, inlineFrame(inlineTextState(), InlineAttrs{
		Indent: attrs.Indent,
		Style:  style,
	})), data
}

func (p *printer) endImage(state State, data StateData, st InlineState, attrs InlineAttrs, tag markdown.Tag) (State, StateData) {
	if st.kind == inlineLink {
		p.check(st.link.EndLink(p.w))
		return state.pop(), data
	}
	var index int
	data, index = data.AddLink(tag.Target, tag.Title, p.settings.Theme.Image)
	// The reference marker always takes the image color, regardless of
	// the surrounding text style, to make clear it points to an image.
	p.styled(attrs.Style.WithForeground(p.settings.Theme.Image), fmt.Sprintf("[%d]", index))
	return state.pop(), data
}
