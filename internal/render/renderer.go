package render

import (
	"html/template"

	"blogsmith/internal/domain/content"
)

type Renderer interface {
	RenderPost(p *content.Page, prev, next *content.Page) (template.HTML, error)
	RenderLayout(p *content.Page, inner template.HTML) ([]byte, error)
	RenderArchiveIndex(pages []*content.Page) ([]byte, error)
	RenderPage(p *content.Page, prev, next *content.Page) ([]byte, error)
}
