package ingest

import (
	"strings"

	"blogsmith/internal/domain/build"
	"blogsmith/internal/domain/content"
	domainerr "blogsmith/internal/domain/errors"
)

// Converter turns a whole source document into an HTML fragment. It must
// ignore the front-matter block itself.
type Converter interface {
	Convert(doc []byte) ([]byte, error)
}

type ConverterFunc func(doc []byte) ([]byte, error)

func (f ConverterFunc) Convert(doc []byte) ([]byte, error) { return f(doc) }

type fieldKind int

const (
	fieldExtra fieldKind = iota
	fieldTitle
	fieldDate
	fieldAuthor
	fieldTags
	fieldDescription
	fieldLayout
)

var fieldKinds = map[string]fieldKind{
	"title":       fieldTitle,
	"date":        fieldDate,
	"author":      fieldAuthor,
	"tags":        fieldTags,
	"description": fieldDescription,
	"layout":      fieldLayout,
}

// kindOf maps a key to its field; anything unrecognised is fieldExtra.
func kindOf(key string) fieldKind {
	if k, ok := fieldKinds[strings.ToLower(key)]; ok {
		return k
	}
	return fieldExtra
}

var fieldSetters = map[fieldKind]func(p *content.Page, key, value string){
	fieldExtra:       func(p *content.Page, key, value string) { p.Extra[key] = value },
	fieldTitle:       func(p *content.Page, _, value string) { p.Title = unquote(value) },
	fieldDate:        func(p *content.Page, _, value string) { p.Date = value },
	fieldAuthor:      func(p *content.Page, _, value string) { p.Author = value },
	fieldTags:        func(p *content.Page, _, value string) { p.Tags = collapseTags(value) },
	fieldDescription: func(p *content.Page, _, value string) { p.Description = value },
	fieldLayout:      func(p *content.Page, _, value string) { p.Layout = value },
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

func collapseTags(s string) string {
	p := content.Page{Tags: s}
	return strings.Join(p.TagList(), " ")
}

// Parsed is a page plus the fingerprint of its source document.
type Parsed struct {
	Page       *content.Page
	SourceHash string
}

// ParsePage reads the front matter of raw into a Page, then converts the full
// document to populate the page content.
func ParsePage(sourcePath string, raw []byte, baseURL string, conv Converter) (Parsed, error) {
	fm, err := ParseFrontMatter(sourcePath, raw)
	if err != nil {
		return Parsed{}, err
	}

	p, err := content.NewPage(sourcePath, baseURL)
	if err != nil {
		return Parsed{}, &domainerr.PageError{Path: sourcePath, Err: err}
	}
	for _, f := range fm.Fields {
		fieldSetters[kindOf(f.Key)](p, f.Key, f.Value)
	}

	html, err := conv.Convert(raw)
	if err != nil {
		return Parsed{}, domainerr.Conversion(sourcePath, err)
	}
	if err := p.SetContent(string(html)); err != nil {
		return Parsed{}, &domainerr.PageError{Path: sourcePath, Err: err}
	}

	return Parsed{
		Page:       p,
		SourceHash: build.SourceHash(fm.Block, string(fm.Body)),
	}, nil
}
