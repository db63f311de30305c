package index

import (
	"sort"

	"blogsmith/internal/domain/content"
	domainerr "blogsmith/internal/domain/errors"
)

// Repository holds the pages of one build, sorted by descending SourcePath
// (newest first, since the date prefix sorts lexicographically).
type Repository struct {
	pages []*content.Page
}

// NewRepository takes ownership of pages, sorts them and assigns each its Index.
func NewRepository(pages []*content.Page) *Repository {
	sorted := make([]*content.Page, len(pages))
	copy(sorted, pages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SourcePath > sorted[j].SourcePath
	})
	for i, p := range sorted {
		p.Index = i
	}
	return &Repository{pages: sorted}
}

func (r *Repository) Len() int { return len(r.pages) }

// At returns the page at index i, or nil when out of range.
func (r *Repository) At(i int) *content.Page {
	if i < 0 || i >= len(r.pages) {
		return nil
	}
	return r.pages[i]
}

// Pages returns the pages in repository order. The slice is a copy.
func (r *Repository) Pages() []*content.Page {
	out := make([]*content.Page, len(r.pages))
	copy(out, r.pages)
	return out
}

// LastIndex is the index of the oldest page.
func (r *Repository) LastIndex() (int, error) {
	if len(r.pages) == 0 {
		return 0, domainerr.ErrEmptyRepository
	}
	return len(r.pages) - 1, nil
}

func (r *Repository) Newest() (*content.Page, error) {
	if len(r.pages) == 0 {
		return nil, domainerr.ErrEmptyRepository
	}
	return r.pages[0], nil
}

func (r *Repository) Oldest() (*content.Page, error) {
	last, err := r.LastIndex()
	if err != nil {
		return nil, err
	}
	return r.pages[last], nil
}
