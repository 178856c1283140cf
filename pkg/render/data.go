package render

import "github.com/charmbracelet/lipgloss"

// LinkReference is a buffered link awaiting emission as a numbered
// footnote-style reference line.
type LinkReference struct {
	Index  int
	Target string
	Title  string
	Color  lipgloss.TerminalColor
}

// StateData is the cross-cutting render data threaded through every
// transition: the pending link references and the next reference index.
// Indices start at 1 and are never reused or reordered.
type StateData struct {
	pending []LinkReference
	next    int
}

// NewStateData returns empty render data for a fresh document.
func NewStateData() StateData {
	return StateData{next: 1}
}

// AddLink buffers a reference and returns its index.
func (d StateData) AddLink(target, title string, color lipgloss.TerminalColor) (StateData, int) {
	index := d.next
	d.pending = append(d.pending, LinkReference{
		Index:  index,
		Target: target,
		Title:  title,
		Color:  color,
	})
	d.next++
	return d, index
}

// TakeLinks drains the pending references. The index counter keeps
// running so later references continue the numbering.
func (d StateData) TakeLinks() (StateData, []LinkReference) {
	refs := d.pending
	d.pending = nil
	return d, refs
}

// PendingCount reports how many references await emission.
func (d StateData) PendingCount() int {
	return len(d.pending)
}
