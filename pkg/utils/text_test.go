package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     string
	}{
		{"disabled", "abcdef", 0, "abcdef"},
		{"short enough", "abc", 3, "abc"},
		{"cut", "abcdef", 3, "abc" + TruncationMarker},
		{"runes not bytes", "héllo wörld", 5, "héllo" + TruncationMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.text, tt.maxChars))
		})
	}
}

func TestJoinNonBlank(t *testing.T) {
	assert.Equal(t, "a\n\nb", JoinNonBlank([]string{" a ", "", "  ", "b"}, "\n\n"))
	assert.Equal(t, "", JoinNonBlank(nil, ","))
}
