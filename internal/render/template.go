package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"blogsmith/internal/domain/config"
	"blogsmith/internal/domain/content"
)

//go:embed templates/*.tmpl
var embedded embed.FS

var requiredTemplates = []string{
	"layout.tmpl",
	"post.tmpl",
	"page.tmpl",
	"archive.tmpl",
}

// LayoutKind selects how a page body is rendered before the default layout wraps it.
type LayoutKind int

const (
	LayoutPost LayoutKind = iota
	LayoutPage
)

var layoutKinds = map[string]LayoutKind{
	"post": LayoutPost,
	"page": LayoutPage,
}

// ParseLayoutKind maps a front-matter layout name; empty or unknown names are LayoutPost.
func ParseLayoutKind(name string) LayoutKind {
	if k, ok := layoutKinds[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k
	}
	return LayoutPost
}

type bodyRenderer func(r *TemplateRenderer, p, prev, next *content.Page) (template.HTML, error)

var bodyRenderers = map[LayoutKind]bodyRenderer{
	LayoutPost: (*TemplateRenderer).RenderPost,
	LayoutPage: func(r *TemplateRenderer, p, _, _ *content.Page) (template.HTML, error) {
		return r.renderPageBody(p)
	},
}

type TemplateRenderer struct {
	tpl  *template.Template
	site config.SiteConfig
}

var _ Renderer = (*TemplateRenderer)(nil)

// NewTemplateRenderer loads the embedded templates, or the *.tmpl files of
// themeDir when it is set.
func NewTemplateRenderer(site config.SiteConfig, themeDir string) (*TemplateRenderer, error) {
	var (
		tpl *template.Template
		err error
	)
	if themeDir == "" {
		tpl, err = template.New("").ParseFS(embedded, "templates/*.tmpl")
	} else {
		if err := CheckThemeTemplates(themeDir); err != nil {
			return nil, err
		}
		tpl, err = template.New("").ParseGlob(filepath.Join(themeDir, "*.tmpl"))
	}
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl, site: site}, nil
}

// RenderPost renders the post body fragment. Missing neighbors render as
// placeholders so the navigation block is always present.
func (r *TemplateRenderer) RenderPost(p, prev, next *content.Page) (template.HTML, error) {
	view := PostView{
		Site:        r.site,
		Title:       p.Title,
		Date:        p.DateOnly(),
		DisplayDate: p.DisplayDate(),
		Author:      p.Author,
		Tags:        p.TagList(),
		Content:     template.HTML(p.Content()),
		Prev:        navLink(prev),
		Next:        navLink(next),
	}
	out, err := r.exec("post.tmpl", view)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

func (r *TemplateRenderer) renderPageBody(p *content.Page) (template.HTML, error) {
	out, err := r.exec("page.tmpl", PostView{
		Site:    r.site,
		Title:   p.Title,
		Content: template.HTML(p.Content()),
	})
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

// RenderLayout wraps inner in the document shell. p may be nil for pages that
// are not backed by a source document.
func (r *TemplateRenderer) RenderLayout(p *content.Page, inner template.HTML) ([]byte, error) {
	view := LayoutView{
		Site:         r.site,
		Lang:         r.site.Language,
		Title:        r.site.Title,
		Description:  r.site.LongDescription,
		CanonicalURL: r.site.BaseURL(),
		OGType:       "website",
		Body:         inner,
	}
	if view.Lang == "" {
		view.Lang = "en"
	}
	if p != nil {
		if p.Title != "" {
			view.Title = p.Title
		}
		if p.Description != "" {
			view.Description = p.Description
		}
		view.CanonicalURL = p.AbsoluteURL()
		view.OGType = "article"
	}
	return r.exec("layout.tmpl", view)
}

// RenderPage composes a full document for p through its layout kind and the default layout.
func (r *TemplateRenderer) RenderPage(p, prev, next *content.Page) ([]byte, error) {
	body, err := bodyRenderers[ParseLayoutKind(p.Layout)](r, p, prev, next)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", p.SourcePath, err)
	}
	return r.RenderLayout(p, body)
}

// RenderArchiveIndex lists pages in the given order and wraps the list in the default layout.
func (r *TemplateRenderer) RenderArchiveIndex(pages []*content.Page) ([]byte, error) {
	view := ArchiveView{Site: r.site, Entries: make([]ArchiveEntry, 0, len(pages))}
	for _, p := range pages {
		view.Entries = append(view.Entries, ArchiveEntry{
			Title:       DisplayTitle(p),
			URL:         p.URL(),
			Date:        p.DateOnly(),
			DisplayDate: p.DisplayDate(),
		})
	}
	out, err := r.exec("archive.tmpl", view)
	if err != nil {
		return nil, err
	}
	return r.RenderLayout(nil, template.HTML(out))
}

// DisplayTitle is the page title, or the title-cased slug when the page has none.
func DisplayTitle(p *content.Page) string {
	if p.Title != "" {
		return p.Title
	}
	return cases.Title(language.English).String(strings.ReplaceAll(p.Slug(), "-", " "))
}

func navLink(p *content.Page) *NavLink {
	if p == nil {
		return nil
	}
	return &NavLink{Title: DisplayTitle(p), URL: p.URL()}
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func CheckThemeTemplates(themeDir string) error {
	for _, name := range requiredTemplates {
		if _, err := os.Stat(filepath.Join(themeDir, name)); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}
