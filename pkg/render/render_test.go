package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdterm/pkg/markdown"
	"github.com/yaklabco/mdterm/pkg/render"
	"github.com/yaklabco/mdterm/pkg/resources"
	"github.com/yaklabco/mdterm/pkg/terminal"
)

func plainSettings(buf *bytes.Buffer) *render.Settings {
	caps := terminal.NewCapabilities(buf, terminal.WithStyled(false))
	return render.NewSettings(caps, terminal.Size{Columns: 80, Rows: 24}, resources.LocalOnly, nil)
}

func testEnvironment(t *testing.T) *resources.Environment {
	t.Helper()
	env, err := resources.NewEnvironment(t.TempDir())
	require.NoError(t, err)
	return env
}

// renderPlain parses source and renders it without any styling.
func renderPlain(t *testing.T, source string) string {
	t.Helper()
	var buf bytes.Buffer
	settings := plainSettings(&buf)
	events, err := markdown.NewParser().Parse([]byte(source))
	require.NoError(t, err)
	require.NoError(t, render.Render(&buf, settings, testEnvironment(t), events))
	return buf.String()
}

func TestRenderParagraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"single paragraph", "Hello world\n", "Hello world\n"},
		{"two paragraphs separated by one blank line", "A\n\nB\n", "A\n\nB\n"},
		{"no leading blank line", "A\n", "A\n"},
		{"soft break continues on next line", "A\nB\n", "A\nB\n"},
		{"hard break continues on next line", "A  \nB\n", "A\nB\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, renderPlain(t, testCase.source))
		})
	}
}

func TestRenderHeadings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "# Hello\n", renderPlain(t, "# Hello\n"))
	assert.Equal(t, "### Deep\n", renderPlain(t, "### Deep\n"))
	assert.Equal(t, "A\n\n## H\n", renderPlain(t, "A\n\n## H\n"))
}

func TestRenderUnorderedList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "• x\n• y\n", renderPlain(t, "- x\n- y\n"))
}

func TestRenderOrderedList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, " 1. x\n 2. y\n", renderPlain(t, "1. x\n2. y\n"))
}

func TestRenderOrderedListCustomStart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, " 3. x\n 4. y\n", renderPlain(t, "3. x\n4. y\n"))
}

func TestRenderNestedList(t *testing.T) {
	t.Parallel()

	// The nested list is block content of the first item, so a margin
	// line separates the following sibling item.
	got := renderPlain(t, "- a\n  - b\n- c\n")
	assert.Equal(t, "• a\n  • b\n\n• c\n", got)
}

func TestRenderLooseListItemParagraphs(t *testing.T) {
	t.Parallel()

	// The second paragraph of an item starts on its own line at the item
	// indent; the margin line separates the following item.
	got := renderPlain(t, "- a\n\n  b\n- c\n")
	assert.Equal(t, "• a\n\n  b\n\n• c\n", got)
}

func TestRenderTaskList(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, "- [ ] open\n- [x] done\n")
	assert.Equal(t, "• ☐ open\n• ☑ done\n", got)
}

func TestRenderBlockQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "    hi\n", renderPlain(t, "> hi\n"))
	assert.Equal(t, "    a\n\n    b\n", renderPlain(t, "> a\n>\n> b\n"))
}

func TestRenderNestedBlockQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "        deep\n", renderPlain(t, "> > deep\n"))
}

func TestRenderRule(t *testing.T) {
	t.Parallel()

	assert.Equal(t, strings.Repeat("─", 80)+"\n", renderPlain(t, "---\n"))
}

func TestRenderCodeBlock(t *testing.T) {
	t.Parallel()

	border := strings.Repeat("─", 20) + "\n"
	got := renderPlain(t, "```\nfoo\nbar\n```\n")
	assert.Equal(t, border+"foo\nbar\n"+border, got)
}

func TestRenderCodeBlockInListItem(t *testing.T) {
	t.Parallel()

	border := "  " + strings.Repeat("─", 20) + "\n"
	got := renderPlain(t, "- a\n  ```\n  foo\n  ```\n")
	assert.Equal(t, "• a\n"+border+"  foo\n"+border, got)
}

func TestRenderInlineCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "run go test now\n", renderPlain(t, "run `go test` now\n"))
}

func TestRenderEmphasisKeepsText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c\n", renderPlain(t, "*a **b** c*\n"))
	assert.Equal(t, "gone\n", renderPlain(t, "~~gone~~\n"))
}

func TestRenderLinkReference(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, "see [docs](https://example.com)\n")
	assert.Equal(t, "see docs[1]\n[1]: https://example.com\n", got)
}

func TestRenderLinkReferenceWithTitle(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, "[a](https://example.com \"the title\")\n")
	assert.Equal(t, "a[1]\n[1]: https://example.com \"the title\"\n", got)
}

func TestRenderLinkReferencesNumberAcrossDocument(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, "[a](https://a.example) and [b](https://b.example)\n")
	assert.Equal(t, "a[1] and b[2]\n[1]: https://a.example\n[2]: https://b.example\n", got)
}

func TestRenderLinkReferencesFlushBeforeHeading(t *testing.T) {
	t.Parallel()

	// Pending references are emitted before the next heading so they stay
	// close to the section that produced them, and numbering continues.
	got := renderPlain(t, "[a](https://a.example)\n\n# H\n\n[b](https://b.example)\n")
	want := "a[1]\n" +
		"[1]: https://a.example\n" +
		"\n# H\n" +
		"\nb[2]\n" +
		"[2]: https://b.example\n"
	assert.Equal(t, want, got)
}

func TestRenderAutolinkHasNoReference(t *testing.T) {
	t.Parallel()

	// The label already is the target, so no reference is buffered.
	got := renderPlain(t, "visit <https://example.com> now\n")
	assert.Equal(t, "visit https://example.com now\n", got)
}

func TestRenderImageFallsBackToReference(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, "![alt text](https://example.com/img.png)\n")
	assert.Equal(t, "alt text[1]\n[1]: https://example.com/img.png\n", got)
}

func TestRenderHTMLBlockVerbatim(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, "<div>\nfoo\n</div>\n")
	assert.Equal(t, "<div>\nfoo\n</div>\n", got)
}

func TestRenderHTMLBlockThenParagraphKeepsMargin(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, "<br/>\n\ntext\n")
	assert.Equal(t, "<br/>\n\ntext\n", got)
}

func TestRenderQuoteInsideListItem(t *testing.T) {
	t.Parallel()

	got := renderPlain(t, "- a\n\n  > q\n")
	assert.Equal(t, "• a\n\n      q\n", got)
}

func TestRenderStyledEmphasis(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	caps := terminal.NewCapabilities(&buf,
		terminal.WithColorProfile(termenv.ANSI))
	settings := render.NewSettings(caps, terminal.DefaultSize(), resources.LocalOnly, nil)
	events, err := markdown.NewParser().Parse([]byte("*it* **bold**\n"))
	require.NoError(t, err)
	require.NoError(t, render.Render(&buf, settings, testEnvironment(t), events))

	out := buf.String()
	assert.Contains(t, out, "\x1b[3m", "italic sequence")
	assert.Contains(t, out, "\x1b[1m", "bold sequence")
	assert.Contains(t, out, "it")
	assert.Contains(t, out, "bold")
}

func TestRenderHyperlinkCapability(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	caps := terminal.NewCapabilities(&buf,
		terminal.WithStyled(false),
		terminal.WithLinks(terminal.OSC8Links{}))
	settings := render.NewSettings(caps, terminal.DefaultSize(), resources.LocalOnly, nil)
	events, err := markdown.NewParser().Parse([]byte("[docs](https://example.com)\n"))
	require.NoError(t, err)
	require.NoError(t, render.Render(&buf, settings, testEnvironment(t), events))

	out := buf.String()
	assert.Contains(t, out, "\x1b]8;;https://example.com\x1b\\")
	assert.Contains(t, out, "docs")
	assert.Contains(t, out, "\x1b]8;;\x1b\\")
	assert.NotContains(t, out, "[1]", "no reference when the link is native")
}

func TestRenderCodeBlockChunkingIsInvisible(t *testing.T) {
	t.Parallel()

	render1 := func(events []markdown.Event) string {
		var buf bytes.Buffer
		settings := plainSettings(&buf)
		require.NoError(t, render.Render(&buf, settings, testEnvironment(t), events))
		return buf.String()
	}

	whole := []markdown.Event{
		markdown.Start(markdown.CodeBlock("")),
		markdown.Text("foo\nbar\n"),
		markdown.End(markdown.CodeBlock("")),
	}
	chunked := []markdown.Event{
		markdown.Start(markdown.CodeBlock("")),
		markdown.Text("fo"),
		markdown.Text("o\nb"),
		markdown.Text("ar\n"),
		markdown.End(markdown.CodeBlock("")),
	}
	assert.Equal(t, render1(whole), render1(chunked))
}

func TestWriteEventPanicsOnImpossiblePairing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	settings := plainSettings(&buf)
	env := testEnvironment(t)

	// Plain text cannot occur at the document root.
	assert.Panics(t, func() {
		_, _, _ = render.WriteEvent(&buf, settings, env,
			render.NewState(), render.NewStateData(), markdown.Text("x"))
	})
}

func TestFinishPanicsOnUnbalancedDocument(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	settings := plainSettings(&buf)
	env := testEnvironment(t)

	state, data, err := render.WriteEvent(&buf, settings, env,
		render.NewState(), render.NewStateData(), markdown.Start(markdown.Paragraph()))
	require.NoError(t, err)

	assert.Panics(t, func() {
		_ = render.Finish(&buf, settings, env, state, data)
	})
}

func TestFinishFlushesPendingReferences(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	settings := plainSettings(&buf)
	env := testEnvironment(t)

	state := render.NewState()
	data := render.NewStateData()
	var err error
	events := []markdown.Event{
		markdown.Start(markdown.Paragraph()),
		markdown.Start(markdown.Link(markdown.LinkInline, "https://example.com", "")),
		markdown.Text("x"),
		markdown.End(markdown.Link(markdown.LinkInline, "https://example.com", "")),
		markdown.End(markdown.Paragraph()),
	}
	for _, ev := range events {
		state, data, err = render.WriteEvent(&buf, settings, env, state, data, ev)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, data.PendingCount())

	require.NoError(t, render.Finish(&buf, settings, env, state, data))
	assert.Contains(t, buf.String(), "[1]: https://example.com\n")
}
