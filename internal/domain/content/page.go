package content

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	domainerr "blogsmith/internal/domain/errors"
)

// sourceName matches YYYY-MM-DD-<slug>[.ext].
var sourceName = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-(.+)$`)

// datePrefix matches the YYYY-MM-DD head of a front-matter date.
var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// IsSourceName reports whether a base file name follows the dated naming contract.
func IsSourceName(name string) bool {
	return sourceName.MatchString(name)
}

// TargetFor derives the output-relative path of a source file:
// 2020-03-21-foo.md becomes 2020/03/21/foo.html.
func TargetFor(sourcePath string) (string, error) {
	base := filepath.Base(sourcePath)
	m := sourceName.FindStringSubmatch(base)
	if m == nil {
		return "", fmt.Errorf("%w: source name %q is not YYYY-MM-DD-slug.ext", domainerr.ErrInvalid, base)
	}
	slug := strings.TrimSuffix(m[4], filepath.Ext(m[4]))
	if slug == "" {
		return "", fmt.Errorf("%w: source name %q has an empty slug", domainerr.ErrInvalid, base)
	}
	return path.Join(m[1], m[2], m[3], slug+".html"), nil
}

// Page is one published document. Target, URL and AbsoluteURL are derived from
// SourcePath and the site base URL given to NewPage.
type Page struct {
	SourcePath string
	// Index is the position in the repository, newest first.
	Index int

	Title       string
	Date        string
	Author      string
	Tags        string
	Description string
	Layout      string

	// Extra holds front-matter keys without a dedicated field.
	Extra map[string]string

	target  string
	baseURL string

	content    string
	contentSet bool
}

func NewPage(sourcePath, baseURL string) (*Page, error) {
	target, err := TargetFor(sourcePath)
	if err != nil {
		return nil, err
	}
	return &Page{
		SourcePath: sourcePath,
		Extra:      make(map[string]string),
		target:     target,
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
	}, nil
}

func (p *Page) Target() string { return p.target }

func (p *Page) URL() string { return "/" + p.target }

func (p *Page) AbsoluteURL() string { return p.baseURL + p.target }

// Slug is the file name part after the date prefix, without extension.
func (p *Page) Slug() string {
	return strings.TrimSuffix(path.Base(p.target), ".html")
}

// Content is the converted HTML body; empty until SetContent.
func (p *Page) Content() string { return p.content }

// SetContent stores the converted body. It may be called once.
func (p *Page) SetContent(html string) error {
	if p.contentSet {
		return domainerr.ErrContentAlreadySet
	}
	p.content = html
	p.contentSet = true
	return nil
}

// DateOnly returns the YYYY-MM-DD head of Date. Dates in any other form fall
// back to the file name prefix.
func (p *Page) DateOnly() string {
	d := strings.TrimSpace(p.Date)
	if m := datePrefix.FindString(d); m != "" {
		return m
	}
	m := sourceName.FindStringSubmatch(filepath.Base(p.SourcePath))
	if m == nil {
		return d
	}
	return m[1] + "-" + m[2] + "-" + m[3]
}

// DisplayDate renders the date portion as YYYY/MM/DD.
func (p *Page) DisplayDate() string {
	return strings.ReplaceAll(p.DateOnly(), "-", "/")
}

// TagList splits Tags on whitespace, dropping duplicates but keeping first-seen order.
func (p *Page) TagList() []string {
	fields := strings.Fields(p.Tags)
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, t := range fields {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (p *Page) HasTag(tag string) bool {
	for _, t := range strings.Fields(p.Tags) {
		if t == tag {
			return true
		}
	}
	return false
}
