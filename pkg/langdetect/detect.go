// Package langdetect identifies the language of fenced code blocks.
// It resolves fence info strings through go-enry's alias table and, for
// fences with no info string at all, guesses the language from the code
// itself so highlighting still has something to work with.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// candidates are the languages the classifier chooses between for
// unlabeled fences. Markdown documents rarely quote anything more exotic
// without labeling it.
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Dockerfile", "TOML",
}

// Alias resolves a fence info string to a canonical language name.
// Returns the empty string when the alias is unknown.
func Alias(info string) string {
	info = strings.TrimSpace(info)
	if info == "" {
		return ""
	}
	// Fence info may carry attributes after the language word.
	if i := strings.IndexAny(info, " \t,"); i >= 0 {
		info = info[:i]
	}
	if lang, ok := enry.GetLanguageByAlias(info); ok {
		return lang
	}
	return ""
}

// Detect guesses the language of an unlabeled code sample. Returns the
// empty string when nothing can be said with confidence.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return ""
	}
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return lang
	}
	if lang := detectByPattern(trimmed); lang != "" {
		return lang
	}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return lang
	}
	return ""
}

// detectByPattern catches a few unmistakable signatures cheaper and more
// reliably than the classifier.
func detectByPattern(trimmed []byte) string {
	s := string(trimmed)
	switch {
	case bytes.HasPrefix(trimmed, []byte("package ")) && strings.Contains(s, "func "):
		return "Go"
	case bytes.HasPrefix(trimmed, []byte("FROM ")) && strings.Contains(s, "RUN "):
		return "Dockerfile"
	case (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`"`)):
		return "JSON"
	case strings.Contains(s, "def ") && strings.Contains(s, "):"):
		return "Python"
	case strings.Contains(s, "fn main()") || strings.Contains(s, "println!"):
		return "Rust"
	case bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<!DOCTYPE html")):
		return "HTML"
	default:
		return ""
	}
}
