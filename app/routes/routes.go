// Package routes declares every endpoint of the catalog.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/app/controllers/api"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// Controllers are the handlers the routes dispatch to.
type Controllers struct {
	Products    *controllers.ProductController
	Auth        *controllers.AuthController
	APIProducts *api.ProductController
	APIAuth     *api.AuthController
	GraphQL     http.HandlerFunc
}

// Middleware are the per-group stacks. A nil entry is skipped.
type Middleware struct {
	Session      []router.Middleware // load session, resolve user, verify CSRF
	Authenticate router.Middleware
	Guest        router.Middleware
	Admin        router.Middleware
	API          []router.Middleware
	Bearer       router.Middleware
}

func only(mws ...router.Middleware) []router.Middleware {
	out := make([]router.Middleware, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
