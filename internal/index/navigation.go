package index

import "blogsmith/internal/domain/content"

// Neighbors is the navigation view of one page: Prev is older, Next is newer.
type Neighbors struct {
	Prev *content.Page
	Next *content.Page
}

// Link returns the neighbors of the page at index i. The newest page has no
// Next and the oldest has no Prev.
func (r *Repository) Link(i int) Neighbors {
	if i < 0 || i >= len(r.pages) {
		return Neighbors{}
	}
	return Neighbors{
		Prev: r.At(i + 1),
		Next: r.At(i - 1),
	}
}
