package render

import (
	"html/template"

	"blogsmith/internal/domain/config"
)

type NavLink struct {
	Title string
	URL   string
}

type PostView struct {
	Site        config.SiteConfig
	Title       string
	Date        string
	DisplayDate string
	Author      string
	Tags        []string
	Content     template.HTML

	Prev *NavLink
	Next *NavLink
}

type LayoutView struct {
	Site         config.SiteConfig
	Lang         string
	Title        string
	Description  string
	CanonicalURL string
	OGType       string
	Body         template.HTML
}

type ArchiveEntry struct {
	Title       string
	URL         string
	Date        string
	DisplayDate string
}

type ArchiveView struct {
	Site    config.SiteConfig
	Entries []ArchiveEntry
}
