package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"my-cool_page.md", "My Cool Page"},
		{"hello.md", "Hello"},
		{"posts", "Posts"},
		{"_index.md", ""},
		{"index.md", ""},
		{"_index", ""},
		{"", ""},
		{"getting started", "Getting Started"},
		{"--weird__name--", "Weird Name"},
		{"API-docs.md", "API Docs"},
		{"README.MD", "README"},
		{"index.MD", "Index"},
		{"_index.MD", "Index"},
		{"a---b", "A B"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTitle(tt.input))
		})
	}
}
