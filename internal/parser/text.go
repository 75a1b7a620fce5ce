package parser

import (
	"regexp"
	"strings"
)

var (
	paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)
	sentenceSplitRe  = regexp.MustCompile(`(?m)([.!?])\s+`)
	enumeratorRe     = regexp.MustCompile(`^\d+\.\s*`)
	specialCharRe    = regexp.MustCompile(`[^\w\s-]`)
)

// SplitParagraphs splits plain text on blank lines and drops empty chunks.
func SplitParagraphs(text string) []string {
	var out []string
	for _, p := range paragraphSplitRe.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitSentences splits a paragraph into sentences, keeping terminal
// punctuation attached. Abbreviation handling is deliberately naive; the
// callers only need stable positional indexes, not linguistic accuracy.
func SplitSentences(paragraph string) []string {
	marked := sentenceSplitRe.ReplaceAllString(paragraph, "$1\x00")
	var out []string
	for _, s := range strings.Split(marked, "\x00") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// NormalizeHeading canonicalizes a heading for frequency grouping:
// lowercase with leading enumerators ("1. "), special characters, and
// extra whitespace removed, so "1. Getting Started" and "Getting Started"
// count as the same heading.
func NormalizeHeading(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = enumeratorRe.ReplaceAllString(h, "")
	h = specialCharRe.ReplaceAllString(h, "")
	h = whitespaceRe.ReplaceAllString(h, " ")
	return strings.TrimSpace(h)
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
