// Package highlight provides the line-wise incremental syntax
// highlighter consumed by the renderer for fenced code blocks. A Block
// buffers partial lines across arbitrarily split text chunks, so output
// does not depend on how the event producer segmented the block.
package highlight

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"

	"github.com/yaklabco/mdterm/pkg/langdetect"
)

// Block is the highlighter state for one code block. It lives in the
// block's render frame and is discarded when the frame is popped.
type Block struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter

	// detect defers lexer selection to the first complete line when the
	// fence carried no info string.
	detect  bool
	partial strings.Builder
}

// ForFence returns the highlighter for a fence info string, or nil when
// the language is unknown and the block should render literally. An empty
// info string defers language detection to the block's first line.
func ForFence(info, styleName string, profile termenv.Profile) *Block {
	b := &Block{
		style:     styles.Get(styleName),
		formatter: formatterFor(profile),
	}
	info = strings.TrimSpace(info)
	if info == "" {
		b.detect = true
		return b
	}
	b.lexer = lookupLexer(info)
	if b.lexer == nil {
		return nil
	}
	return b
}

func lookupLexer(info string) chroma.Lexer {
	if lexer := lexers.Get(info); lexer != nil {
		return chroma.Coalesce(lexer)
	}
	if lang := langdetect.Alias(info); lang != "" {
		if lexer := lexers.Get(lang); lexer != nil {
			return chroma.Coalesce(lexer)
		}
	}
	return nil
}

func formatterFor(profile termenv.Profile) chroma.Formatter {
	switch profile {
	case termenv.TrueColor:
		return formatters.TTY16m
	case termenv.ANSI256:
		return formatters.TTY256
	default:
		return formatters.TTY8
	}
}

// WriteSegment consumes one piece of code block text containing at most
// one line terminator, at its end. Complete lines are highlighted
// immediately; a trailing partial line is buffered until the rest of it
// arrives or the block ends.
func (b *Block) WriteSegment(w io.Writer, segment string) error {
	b.partial.WriteString(segment)
	if !strings.HasSuffix(segment, "\n") {
		return nil
	}
	line := b.partial.String()
	b.partial.Reset()
	return b.writeLine(w, line)
}

// Flush highlights any buffered partial line. Called once when the block
// ends.
func (b *Block) Flush(w io.Writer) error {
	if b.partial.Len() == 0 {
		return nil
	}
	line := b.partial.String()
	b.partial.Reset()
	return b.writeLine(w, line)
}

func (b *Block) writeLine(w io.Writer, line string) error {
	if b.lexer == nil {
		b.selectLexer(line)
	}
	iterator, err := b.lexer.Tokenise(nil, line)
	if err != nil {
		// Tokenizer trouble must not corrupt the block; emit the line as
		// plain text instead.
		_, werr := io.WriteString(w, line)
		return werr
	}
	return b.formatter.Format(w, b.style, iterator)
}

// selectLexer picks a lexer from the first line of an unlabeled block.
func (b *Block) selectLexer(line string) {
	if lang := langdetect.Detect([]byte(line)); lang != "" {
		if lexer := lexers.Get(lang); lexer != nil {
			b.lexer = chroma.Coalesce(lexer)
			return
		}
	}
	b.lexer = lexers.Fallback
}
