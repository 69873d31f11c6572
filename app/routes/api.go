package routes

import (
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

func RegisterAPI(r *router.Router, c Controllers, m Middleware) {
	a := r.Group("/api", only(m.API...)...)

	a.Get("/products", "api.products.index", ctx.Wrap(c.APIProducts.Index))
	a.Post("/products", "api.products.store", ctx.Wrap(c.APIProducts.Store))
	a.Get("/products/download", "api.products.download", ctx.Wrap(c.APIProducts.Download))
	a.Post("/login", "api.login", ctx.Wrap(c.APIAuth.Login))
	if c.GraphQL != nil {
		a.Post("/graphql", "api.graphql", c.GraphQL)
	}

	protected := a.Group("", only(m.Bearer)...)
	protected.Get("/user", "api.user", ctx.Wrap(c.APIAuth.User))
}
