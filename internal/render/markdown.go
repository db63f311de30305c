package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"blogsmith/internal/ingest"
)

// MarkdownRenderer is the content converter: markdown source to HTML fragment.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

var _ ingest.Converter = (*MarkdownRenderer)(nil)

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
			extension.Table,
			extension.Footnote,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &MarkdownRenderer{md: md}
}

// Convert renders a whole source document. A leading front-matter block is
// skipped; a document without one is rendered as-is.
func (r *MarkdownRenderer) Convert(doc []byte) ([]byte, error) {
	body := doc
	if fm, err := ingest.ParseFrontMatter("", doc); err == nil {
		body = fm.Body
	}
	return r.Render(body)
}

// Render converts plain markdown with no front matter.
func (r *MarkdownRenderer) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
