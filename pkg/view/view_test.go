package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/view"
)

var pages = fstest.MapFS{
	"layouts/app.html":   {Data: []byte(`{{define "layout"}}<title>{{template "title" .}}</title>{{template "content" .}}{{end}}`)},
	"products/index.html": {Data: []byte(`{{define "title"}}Products{{end}}{{define "content"}}<p>{{.name}} ${{money .price}}</p>{{end}}`)},
	"errors/404.html":    {Data: []byte(`{{define "title"}}Not Found{{end}}{{define "content"}}gone{{end}}`)},
}

func TestRender(t *testing.T) {
	e, err := view.New(pages, nil)
	require.NoError(t, err)
	assert.True(t, e.Has("errors/404"))
	assert.False(t, e.Has("layouts/app"))

	rec := httptest.NewRecorder()
	err = e.Render(rec, http.StatusOK, "products/index", view.Data{
		"name":  "<Desk>",
		"price": decimal.RequireFromString("1234.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<title>Products</title><p>&lt;Desk&gt; $1,234.50</p>", rec.Body.String())
}

func TestRenderUnknownPage(t *testing.T) {
	e, err := view.New(pages, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	assert.Error(t, e.Render(rec, http.StatusOK, "missing", nil))
	assert.Equal(t, 0, rec.Body.Len())
}

func TestMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"123":        "123.00",
		"1234.5":     "1,234.50",
		"1000000":    "1,000,000.00",
		"-9876.543":  "-9,876.54",
		"100000.005": "100,000.01",
	}
	for in, want := range cases {
		assert.Equal(t, want, view.Money(decimal.RequireFromString(in)), in)
	}
}

func TestPartialsAreShared(t *testing.T) {
	e, err := view.New(fstest.MapFS{
		"layouts/app.html":     {Data: []byte(`{{define "layout"}}{{template "content" .}}{{end}}`)},
		"partials/field.html":  {Data: []byte(`{{define "field"}}<input value="{{.}}">{{end}}`)},
		"products/create.html": {Data: []byte(`{{define "content"}}{{template "field" .name}}{{end}}`)},
	}, nil)
	require.NoError(t, err)
	assert.False(t, e.Has("partials/field"))

	rec := httptest.NewRecorder()
	require.NoError(t, e.Render(rec, http.StatusOK, "products/create", view.Data{"name": "Lamp"}))
	assert.Equal(t, `<input value="Lamp">`, rec.Body.String())
}
