package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkdownRenderer_SkipsFrontMatter(t *testing.T) {
	md := NewMarkdownRenderer()
	out, err := md.Convert([]byte("---\ntitle: Hi\ntags:\n- a\n---\n# Heading\n\nSome *text*.\n"))
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, `<h1 id="heading">Heading</h1>`)
	require.Contains(t, html, "<em>text</em>")
	require.NotContains(t, html, "title: Hi")
}

func TestMarkdownRenderer_NoFrontMatter(t *testing.T) {
	md := NewMarkdownRenderer()
	out, err := md.Convert([]byte("plain ~~old~~ paragraph\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<del>old</del>")
}

func TestMarkdownRenderer_Tables(t *testing.T) {
	md := NewMarkdownRenderer()
	out, err := md.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<table>")
}
