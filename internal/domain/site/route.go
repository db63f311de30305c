package site

import (
	"fmt"
	"strings"
)

type RouteKind string

const (
	RouteIndex RouteKind = "index"
	RoutePost  RouteKind = "post"
	RouteAsset RouteKind = "asset"
)

// Route is one planned output file relative to the build directory.
type Route struct {
	Kind RouteKind
	// Page is the repository index for post routes, -1 otherwise.
	Page    int
	Source  string
	OutPath string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Kind == RoutePost {
		parts = append(parts, fmt.Sprintf("page=%d", r.Page))
	}
	if r.Source != "" {
		parts = append(parts, "src="+r.Source)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}
