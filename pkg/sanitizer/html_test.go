package sanitizer_test

import (
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trueweb/pkg/sanitizer"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "drops script body", input: `<p>Hello</p><script>alert(1)</script>`, expected: "Hello"},
		{name: "flattens nested tags", input: `<div><p>nested <span>content</span></p></div>`, expected: "nested content"},
		{name: "drops event handler element", input: `<img src="x" onerror="alert(1)">`, expected: ""},
		{name: "keeps link text", input: `<a href="javascript:alert(1)">click</a>`, expected: "click"},
		{name: "plain text untouched", input: "plain text", expected: "plain text"},
		{name: "trims surrounding space", input: "  <b>bold</b>  ", expected: "bold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, sanitizer.StripHTML(tt.input))
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	t.Parallel()

	t.Run("keeps formatting", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "<p>Hello <strong>world</strong></p>", sanitizer.SanitizeHTML("<p>Hello <strong>world</strong></p>"))
	})

	t.Run("removes scripts", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.SanitizeHTML(`<p>ok</p><script>alert(1)</script>`)
		require.Equal(t, "<p>ok</p>", out)
	})

	t.Run("removes event handlers", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.SanitizeHTML(`<p onclick="alert(1)">ok</p>`)
		require.Equal(t, "<p>ok</p>", out)
	})

	t.Run("neutralises javascript links", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.SanitizeHTML(`<a href="javascript:alert(1)">x</a>`)
		require.NotContains(t, out, "javascript:")
	})
}

func TestSanitizeWith(t *testing.T) {
	t.Parallel()

	require.Equal(t, "<b>x</b>", sanitizer.SanitizeWith("<b>x</b>", nil))

	p := bluemonday.NewPolicy()
	p.AllowElements("b")
	require.Equal(t, "<b>x</b>y", sanitizer.SanitizeWith("<b>x</b><i>y</i>", p))
}
