package app

import (
	"blogsmith/internal/domain/site"
	"blogsmith/internal/index"
)

const IndexOutPath = "index.html"

type RouteBuilder struct {
	Repo *index.Repository
}

// BuildPostRoutes plans one route per page, in repository order.
func (rb *RouteBuilder) BuildPostRoutes() []site.Route {
	routes := make([]site.Route, 0, rb.Repo.Len())
	for i, p := range rb.Repo.Pages() {
		routes = append(routes, site.Route{
			Kind:    site.RoutePost,
			Page:    i,
			Source:  p.SourcePath,
			OutPath: p.Target(),
		})
	}
	return routes
}

func (rb *RouteBuilder) BuildIndexRoute() site.Route {
	return site.Route{
		Kind:    site.RouteIndex,
		Page:    -1,
		OutPath: IndexOutPath,
	}
}

// BuildRoutes plans every page output: posts first, then the archive index.
func (rb *RouteBuilder) BuildRoutes() []site.Route {
	return append(rb.BuildPostRoutes(), rb.BuildIndexRoute())
}
