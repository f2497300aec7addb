package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses runs of whitespace",
			input: "hello   \t world",
			want:  "hello world",
		},
		{
			name:  "keeps paragraph breaks",
			input: "first  paragraph\n\nsecond   paragraph",
			want:  "first paragraph\n\nsecond paragraph",
		},
		{
			name:  "drops empty paragraphs",
			input: "first\n\n   \n\nsecond",
			want:  "first\n\nsecond",
		},
		{
			name:  "NFC composes decomposed accents",
			input: "café",
			want:  "café",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeText(tt.input))
		})
	}
}

func TestTruncateText(t *testing.T) {
	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, "hello", truncateText("hello", 100))
	})

	t.Run("cuts to limit", func(t *testing.T) {
		got := truncateText(strings.Repeat("a", 200), 50)
		assert.Len(t, got, 50)
	})

	t.Run("never splits a rune", func(t *testing.T) {
		// é is two bytes; a limit landing mid-rune must back off.
		text := strings.Repeat("é", 100)
		got := truncateText(text, 51)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 50, len(got))
	})
}
