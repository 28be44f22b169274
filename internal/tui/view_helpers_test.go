package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short", in: "abc", max: 5, want: "abc"},
		{name: "exact", in: "abcde", max: 5, want: "abcde"},
		{name: "truncated", in: "abcdefgh", max: 6, want: "abc..."},
		{name: "tiny max", in: "abcdef", max: 2, want: "ab"},
		{name: "runes", in: "привет мир", max: 6, want: "при..."},
		{name: "no limit", in: "abc", max: 0, want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fitText(tt.in, tt.max))
		})
	}
}

func TestValueOrDash(t *testing.T) {
	assert.Equal(t, "-", valueOrDash(""))
	assert.Equal(t, "-", valueOrDash("   "))
	assert.Equal(t, "pro", valueOrDash("pro"))
}

func TestCheckboxAndUSD(t *testing.T) {
	assert.Equal(t, "[x]", checkbox(true))
	assert.Equal(t, "[ ]", checkbox(false))
	assert.Equal(t, "$0.000150", usd(0.00015))
}

func TestRenderPage(t *testing.T) {
	out := renderPage("TITLE", "line one\nline two", "enter: go")

	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "  line one\n  line two\n")
	assert.Contains(t, out, "enter: go")
	assert.Contains(t, out, "ctrl+c: quit")

	empty := renderPage("TITLE", "  ", "")
	assert.Contains(t, empty, "  -\n")
	assert.Equal(t, 1, strings.Count(empty, "ctrl+c: quit"))
}

func TestWriteFeedback(t *testing.T) {
	var b strings.Builder
	writeFeedback(&b, "Saved", "boom")

	out := b.String()
	assert.Contains(t, out, "Saved")
	assert.Contains(t, out, "Error: boom")

	b.Reset()
	writeFeedback(&b, "", "")
	assert.Empty(t, b.String())
}
