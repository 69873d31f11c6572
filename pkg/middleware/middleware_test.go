package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/rbac"
	"github.com/shashiranjanraj/catalog/pkg/session"
)

type resolver map[uint]*auth.Actor

func (r resolver) FindActor(_ context.Context, id uint) (*auth.Actor, error) {
	return r[id], nil
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestCORSPreflight(t *testing.T) {
	h := middleware.CORS(middleware.DefaultCORSOptions())(okHandler)
	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestRateLimit(t *testing.T) {
	l := middleware.NewLimiter(2, time.Minute)
	defer l.Stop()
	h := l.Middleware()(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	ok, _ := l.Allow("10.0.0.2")
	assert.True(t, ok, "buckets are per client")
}

func TestMethodOverride(t *testing.T) {
	var seen string
	h := middleware.MethodOverride(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) { seen = r.Method }))

	req := httptest.NewRequest(http.MethodPost, "/products/1", strings.NewReader("_method=delete"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, http.MethodDelete, seen)

	req = httptest.NewRequest(http.MethodPost, "/products/1", strings.NewReader("_method=GET"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, http.MethodPost, seen)

	req = httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"_method":"PUT"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, http.MethodPost, seen)
}

func TestMethodOverrideCapsFormBody(t *testing.T) {
	t.Setenv("MAX_BODY_BYTES", "32")
	called := false
	h := middleware.MethodOverride(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) { called = true }))

	form := url.Values{"_method": {"PUT"}, "name": {strings.Repeat("a", 64)}}
	req := httptest.NewRequest(http.MethodPost, "/products/1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, called)
}

func sessionStack(t *testing.T, values map[string]any, h http.Handler) (http.Handler, *http.Cookie, *session.Session) {
	t.Helper()
	m := session.NewManager(cache.NewMemory(), session.DefaultOptions())
	cookie, s, err := m.Issue(context.Background(), values)
	require.NoError(t, err)
	return m.Middleware()(h), cookie, s
}

func TestVerifyCSRF(t *testing.T) {
	h, cookie, s := sessionStack(t, nil, middleware.VerifyCSRF(okHandler))

	post := func(token string) int {
		form := url.Values{"_token": {token}}
		req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, 419, post("wrong"))
	assert.Equal(t, 419, post(""))
	assert.Equal(t, http.StatusOK, post(s.Token()))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateRedirectsGuests(t *testing.T) {
	users := resolver{1: {ID: 1, Role: rbac.RoleUser}}
	chain := func(next http.Handler) http.Handler {
		return middleware.SessionUser(users)(middleware.Authenticate("/login")(next))
	}

	h, _, _ := sessionStack(t, nil, chain(okHandler))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	h, cookie, _ := sessionStack(t, map[string]any{"user_id": uint(1)}, chain(okHandler))
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionUserDropsDeletedUser(t *testing.T) {
	h, cookie, _ := sessionStack(t, map[string]any{"user_id": uint(99)},
		middleware.SessionUser(resolver{})(middleware.Authenticate("/login")(okHandler)))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestGuest(t *testing.T) {
	h := middleware.Guest("/products")(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req = req.WithContext(auth.WithActor(req.Context(), &auth.Actor{ID: 1}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "/products", rec.Header().Get("Location"))
}

func TestBearer(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	users := resolver{3: {ID: 3, Role: rbac.RoleAdmin}}
	var seen *auth.Actor
	h := middleware.Bearer(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.ActorFromCtx(r.Context())
	}))

	call := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("Bearer garbage"))

	gone, _, err := tokens.Issue(&auth.Actor{ID: 4})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+gone))

	good, _, err := tokens.Issue(&auth.Actor{ID: 3, Role: rbac.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call("Bearer "+good))
	require.NotNil(t, seen)
	assert.Equal(t, uint(3), seen.ID)
}

func TestAuthorize(t *testing.T) {
	h := middleware.Authorize(func(a *auth.Actor) bool { return a.Can(rbac.ManageProducts) })(okHandler)

	for role, want := range map[rbac.Role]int{rbac.RoleAdmin: 200, rbac.RoleUser: 403} {
		req := httptest.NewRequest(http.MethodGet, "/products/create", nil)
		req = req.WithContext(auth.WithActor(req.Context(), &auth.Actor{Role: role}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/create", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
