package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"blogsmith/internal/domain/content"
	"blogsmith/internal/domain/site"
	"blogsmith/internal/index"
)

func TestRouteBuilder_BuildRoutes(t *testing.T) {
	var pages []*content.Page
	for _, name := range []string{"2020-03-21-foo.md", "2021-01-02-bar.md"} {
		p, err := content.NewPage(name, "http://localhost/")
		require.NoError(t, err)
		pages = append(pages, p)
	}
	rb := &RouteBuilder{Repo: index.NewRepository(pages)}

	routes := rb.BuildRoutes()
	require.Equal(t, []site.Route{
		{Kind: site.RoutePost, Page: 0, Source: "2021-01-02-bar.md", OutPath: "2021/01/02/bar.html"},
		{Kind: site.RoutePost, Page: 1, Source: "2020-03-21-foo.md", OutPath: "2020/03/21/foo.html"},
		{Kind: site.RouteIndex, Page: -1, OutPath: "index.html"},
	}, routes)
	require.Equal(t, "post page=1 src=2020-03-21-foo.md out=2020/03/21/foo.html", routes[1].String())
}

func TestRouteBuilder_EmptyRepository(t *testing.T) {
	rb := &RouteBuilder{Repo: index.NewRepository(nil)}
	routes := rb.BuildRoutes()
	require.Len(t, routes, 1)
	require.Equal(t, site.RouteIndex, routes[0].Kind)
}
