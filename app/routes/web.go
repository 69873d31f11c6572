package routes

import (
	"net/http"

	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

func RegisterWeb(r *router.Router, c Controllers, m Middleware) {
	web := r.Group("/", only(m.Session...)...)

	guest := web.Group("", only(m.Guest)...)
	guest.Get("/login", "login", ctx.Wrap(c.Auth.ShowLogin))
	guest.Post("/login", "login.attempt", ctx.Wrap(c.Auth.Login))

	authed := web.Group("", only(m.Authenticate)...)
	authed.Get("/", "home", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/products", http.StatusFound)
	})
	authed.Post("/logout", "logout", ctx.Wrap(c.Auth.Logout))
	authed.Get("/products", "products.index", ctx.Wrap(c.Products.Index))

	admin := authed.Group("/products", only(m.Admin)...)
	admin.Get("/create", "products.create", ctx.Wrap(c.Products.Create))
	admin.Post("/", "products.store", ctx.Wrap(c.Products.Store))
	admin.Get("/{id}/edit", "products.edit", ctx.Wrap(c.Products.Edit))
	admin.Put("/{id}", "products.update", ctx.Wrap(c.Products.Update))
	admin.Patch("/{id}", "", ctx.Wrap(c.Products.Update))
	admin.Delete("/{id}", "products.destroy", ctx.Wrap(c.Products.Destroy))
}
