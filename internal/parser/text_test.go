package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and trim", "  Getting Started  ", "getting started"},
		{"leading enumerator stripped", "1. Getting Started", "getting started"},
		{"double-digit enumerator", "12. Advanced Topics", "advanced topics"},
		{"trailing punctuation", "Getting Started:", "getting started"},
		{"special characters stripped", "What's New? (2024 Edition)", "whats new 2024 edition"},
		{"hyphens kept", "Self-Hosted Setup", "self-hosted setup"},
		{"whitespace collapsed", "Getting\t Started", "getting started"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeading(tt.in))
		})
	}
}

func TestNormalizeHeadingGroupsEnumeratedVariants(t *testing.T) {
	assert.Equal(t, NormalizeHeading("Getting Started"), NormalizeHeading("1. Getting Started"))
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("First point. Second point! Third?")
	assert.Equal(t, []string{"First point.", "Second point!", "Third?"}, got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcde…", Truncate("abcdefgh", 5))
}
