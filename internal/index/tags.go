package index

import (
	"sort"

	"blogsmith/internal/domain/content"
)

// CollectTags returns the sorted union of tags carried by pages.
func CollectTags(pages []*content.Page) []string {
	set := make(map[string]struct{})
	for _, p := range pages {
		for _, t := range p.TagList() {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// FilterByTag keeps the pages carrying tag, in their original order.
func FilterByTag(pages []*content.Page, tag string) []*content.Page {
	var out []*content.Page
	for _, p := range pages {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}

// TagIndex maps a tag to the repository indices of the pages carrying it,
// each list in ascending index order.
type TagIndex map[string][]int

func BuildTagIndex(r *Repository) TagIndex {
	idx := make(TagIndex)
	for i, p := range r.pages {
		for _, t := range p.TagList() {
			idx[t] = append(idx[t], i)
		}
	}
	return idx
}

// Tags returns the indexed tags sorted.
func (ti TagIndex) Tags() []string {
	out := make([]string, 0, len(ti))
	for t := range ti {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

type TagStat struct {
	Name  string
	Count int
}

// Stats orders tags by page count, then name.
func (ti TagIndex) Stats() []TagStat {
	stats := make([]TagStat, 0, len(ti))
	for name, ids := range ti {
		stats = append(stats, TagStat{Name: name, Count: len(ids)})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Name < stats[j].Name
		}
		return stats[i].Count > stats[j].Count
	})
	return stats
}
