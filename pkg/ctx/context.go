// Package ctx gives handlers a single *Context carrying the request, the
// response writer and helpers for binding, JSON, pages, redirects and the
// session.
//
//	func (pc *ProductController) Edit(c *ctx.Context) {
//	    id, ok := c.ParamID("id")
//	    ...
//	    c.View(http.StatusOK, "products/edit", view.Data{"product": p})
//	}
//
//	r.Get("/products/{id}/edit", "products.edit", ctx.Wrap(pc.Edit))
package ctx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/session"
	"github.com/shashiranjanraj/catalog/pkg/view"
)

type HandlerFunc func(c *Context)

// Wrap adapts h to net/http.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{New: func() any { return &Context{} }}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W, c.R = w, r
	return c
}

func release(c *Context) {
	c.W, c.R = nil, nil
	pool.Put(c)
}

// ─── Request ─────────────────────────────────────────────────────────────────

func (c *Context) Context() context.Context { return c.R.Context() }

func (c *Context) Param(key string) string { return chi.URLParam(c.R, key) }

// ParamID parses a positive integer path parameter.
func (c *Context) ParamID(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string { return c.R.URL.Query().Get(key) }

// QueryInt returns def when key is absent or not an integer.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// WantsJSON is true for /api paths and clients that ask for JSON.
func (c *Context) WantsJSON() bool {
	return WantsJSON(c.R)
}

func WantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// Actor is nil for guests.
func (c *Context) Actor() *auth.Actor { return auth.ActorFromCtx(c.R.Context()) }

// Session is nil on routes outside the session middleware.
func (c *Context) Session() *session.Session { return session.FromCtx(c.R.Context()) }

// ─── Binding ─────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the body. On failure it writes a 400 or
// 422 response and returns false.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return false
	}
	return true
}

// BindForm decodes and validates a url-encoded body, returning field errors.
func (c *Context) BindForm(dest any) (map[string]string, error) {
	return bind.Form(c.R, dest)
}

// ─── JSON ────────────────────────────────────────────────────────────────────

func (c *Context) JSON(code int, v any) { response.JSON(c.W, code, v) }

func (c *Context) Success(data any) { response.Success(c.W, data) }

func (c *Context) Error(code int, message string) { response.Error(c.W, code, message) }

func (c *Context) ValidationError(errs map[string]string) { response.ValidationError(c.W, errs) }

// ─── Pages ───────────────────────────────────────────────────────────────────

// View renders page with data plus the shared keys every layout reads:
// csrf, status, errors, old and user.
func (c *Context) View(code int, page string, data view.Data) {
	e := view.FromCtx(c.R.Context())
	if e == nil {
		c.Error(http.StatusInternalServerError, "view engine not configured")
		return
	}

	shared := view.Data{"user": c.Actor()}
	if s := c.Session(); s != nil {
		shared["csrf"] = s.Token()
		shared["status"] = s.FlashedString("status")
		shared["errors"] = s.FlashedMap("errors")
		shared["old"] = s.FlashedMap("old")
	}
	for k, v := range data {
		shared[k] = v
	}

	if err := e.Render(c.W, code, page, shared); err != nil {
		logger.WithCtx(c.Context()).Error("render failed", "page", page, "error", err)
		http.Error(c.W, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Abort answers with code: a JSON envelope for API clients, otherwise the
// errors/<code> page when one exists.
func (c *Context) Abort(code int, message string) {
	Abort(c.W, c.R, code, message)
}

// Abort is the net/http form of Context.Abort for middleware.
func Abort(w http.ResponseWriter, r *http.Request, code int, message string) {
	if message == "" {
		message = http.StatusText(code)
	}
	if WantsJSON(r) {
		response.Error(w, code, message)
		return
	}
	page := fmt.Sprintf("errors/%d", code)
	if e := view.FromCtx(r.Context()); e != nil && e.Has(page) {
		if err := e.Render(w, code, page, view.Data{"message": message}); err == nil {
			return
		}
	}
	http.Error(w, message, code)
}

func (c *Context) NotFound() { c.Abort(http.StatusNotFound, "") }

func (c *Context) Forbidden() { c.Abort(http.StatusForbidden, "This action is unauthorized.") }

// ─── Redirects and flash ─────────────────────────────────────────────────────

// Redirect sends a 302 to to.
func (c *Context) Redirect(to string) {
	http.Redirect(c.W, c.R, to, http.StatusFound)
}

// Back redirects to the same-origin Referer, or to fallback.
func (c *Context) Back(fallback string) {
	if ref := c.R.Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil && (u.Host == "" || u.Host == c.R.Host) && u.Path != "" {
			target := u.Path
			if u.RawQuery != "" {
				target += "?" + u.RawQuery
			}
			c.Redirect(target)
			return
		}
	}
	c.Redirect(fallback)
}

// Flash stores a one-request message such as "status".
func (c *Context) Flash(key string, value any) {
	if s := c.Session(); s != nil {
		s.Flash(key, value)
	}
}

// WithErrors flashes field errors and the submitted input for the next page.
func (c *Context) WithErrors(errs map[string]string, old map[string]string) {
	c.Flash("errors", errs)
	c.Flash("old", old)
}

// Old returns the flashed input for field, or fallback.
func (c *Context) Old(field, fallback string) string {
	if s := c.Session(); s != nil {
		if old := s.FlashedMap("old"); old != nil {
			if v, ok := old[field]; ok {
				return v
			}
		}
	}
	return fallback
}
