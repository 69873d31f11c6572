package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/router"
)

func tag(value string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", value)
			next.ServeHTTP(w, r)
		})
	}
}

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestGroupMiddlewareOrder(t *testing.T) {
	r := router.New()
	api := r.Group("/api", tag("group"))
	api.Group("products", tag("nested")).Delete("/{id}", "api.products.destroy", ok, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/products/5", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"group", "nested", "route"}, rec.Header().Values("X-Chain"))
}

func TestNamedURL(t *testing.T) {
	r := router.New()
	r.Group("/").Get("/products/{id}/edit", "products.edit", ok)

	url, err := r.URL("products.edit", map[string]string{"id": "9"})
	require.NoError(t, err)
	assert.Equal(t, "/products/9/edit", url)

	_, err = r.URL("products.edit", nil)
	assert.Error(t, err)
	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Put("/products/{id}", "products.update", ok)
	r.Get("/products", "products.index", ok)
	r.Post("/products", "", ok)

	assert.Equal(t, []router.Route{
		{Method: http.MethodGet, Path: "/products", Name: "products.index"},
		{Method: http.MethodPost, Path: "/products"},
		{Method: http.MethodPut, Path: "/products/{id}", Name: "products.update"},
	}, r.Routes())
}

func TestNotFoundHandler(t *testing.T) {
	r := router.New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusGone) })
	r.Get("/", "home", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusGone, rec.Code)
}
