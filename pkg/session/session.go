// Package session keeps per-visitor state in a cache.Store keyed by an
// opaque cookie. Flash values set during one request are readable during the
// next one only.
//
//	m := session.NewManager(store, session.DefaultOptions())
//	web := r.Group("/", m.Middleware())
//
//	sess := session.FromCtx(r.Context())
//	sess.Set("user_id", user.ID)
//	sess.Flash("status", "Product created.")
package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// TokenKey is the session key, form field and template name of the CSRF token.
const TokenKey = "_token"

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

func DefaultOptions() Options {
	return Options{
		CookieName: "catalog_session",
		TTL:        2 * time.Hour,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// record is the persisted shape of a session.
type record struct {
	Values map[string]any `json:"values"`
	Flash  map[string]any `json:"flash,omitempty"`
}

// Session is the handle for one request. It is safe for concurrent use by
// the goroutines serving that request.
type Session struct {
	mu      sync.Mutex
	id      string
	oldID   string
	values  map[string]any
	next    map[string]any // flashed this request, visible next request
	prev    map[string]any // flashed last request, visible now
	changed bool
	saved   bool
}

func newID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("session: entropy: %v", err))
	}
	return hex.EncodeToString(b)
}

func storeKey(id string) string { return "catalog:session:" + id }

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.changed = true
}

func (s *Session) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetUint reads an id. Values that went through JSON come back as float64.
func (s *Session) GetUint(key string) (uint, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case uint:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	}
	return 0, false
}

func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	s.changed = true
}

// Flash stores value for the next request.
func (s *Session) Flash(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next[key] = value
	s.changed = true
}

// Flashed returns a value flashed by the previous request.
func (s *Session) Flashed(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.prev[key]
	return v, ok
}

func (s *Session) FlashedString(key string) string {
	v, _ := s.Flashed(key)
	str, _ := v.(string)
	return str
}

// FlashedMap returns a flashed string map such as field errors or old input.
func (s *Session) FlashedMap(key string) map[string]string {
	v, ok := s.Flashed(key)
	if !ok {
		return nil
	}
	out := map[string]string{}
	switch m := v.(type) {
	case map[string]string:
		for k, val := range m {
			out[k] = val
		}
	case map[string]any:
		for k, val := range m {
			if str, ok := val.(string); ok {
				out[k] = str
			}
		}
	}
	return out
}

// Token returns the CSRF token of this session.
func (s *Session) Token() string { return s.GetString(TokenKey) }

// VerifyToken compares candidate to the session token in constant time.
func (s *Session) VerifyToken(candidate string) bool {
	token := s.Token()
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(candidate)) == 1
}

// Regenerate moves the session to a fresh id and token. Call it whenever the
// authenticated identity changes.
func (s *Session) Regenerate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.oldID == "" {
		s.oldID = s.id
	}
	s.id = newID()
	s.values[TokenKey] = newID()
	s.changed = true
}

// Invalidate clears every value and regenerates the session.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.values = map[string]any{}
	s.next = map[string]any{}
	s.mu.Unlock()
	s.Regenerate()
}

// Manager loads and persists sessions through a cache.Store.
type Manager struct {
	store cache.Store
	opts  Options
}

func NewManager(store cache.Store, opts Options) *Manager {
	return &Manager{store: store, opts: opts}
}

// Load returns the session named by the request cookie, or a fresh one when
// the cookie is absent, unknown or expired.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	if c, err := r.Cookie(m.opts.CookieName); err == nil && c.Value != "" {
		var rec record
		hit, err := m.store.Get(r.Context(), storeKey(c.Value), &rec)
		if err != nil {
			return nil, fmt.Errorf("session: load: %w", err)
		}
		if hit {
			s := &Session{
				id:     c.Value,
				values: rec.Values,
				next:   map[string]any{},
				prev:   rec.Flash,
			}
			if s.values == nil {
				s.values = map[string]any{}
			}
			// consumed flash must be dropped from the store
			s.changed = len(rec.Flash) > 0
			if s.values[TokenKey] == nil {
				s.values[TokenKey] = newID()
				s.changed = true
			}
			return s, nil
		}
	}

	return &Session{
		id:      newID(),
		values:  map[string]any{TokenKey: newID()},
		next:    map[string]any{},
		prev:    map[string]any{},
		changed: true,
	}, nil
}

// Save persists s when it changed and sets the session cookie on w. Later
// calls for the same request are no-ops.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved || !s.changed {
		return nil
	}
	s.saved = true

	if s.oldID != "" {
		if err := m.store.Del(ctx, storeKey(s.oldID)); err != nil {
			return fmt.Errorf("session: drop old id: %w", err)
		}
	}
	rec := record{Values: s.values, Flash: s.next}
	if err := m.store.Set(ctx, storeKey(s.id), rec, m.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	http.SetCookie(w, m.cookie(s.id))
	return nil
}

func (m *Manager) cookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    id,
		Path:     m.opts.Path,
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	}
}

// Issue persists a new session holding values and returns its cookie. Used
// to sign a user in outside the login form, e.g. from tests.
func (m *Manager) Issue(ctx context.Context, values map[string]any) (*http.Cookie, *Session, error) {
	s := &Session{
		id:     newID(),
		values: map[string]any{TokenKey: newID()},
		next:   map[string]any{},
		prev:   map[string]any{},
	}
	for k, v := range values {
		s.values[k] = v
	}
	if err := m.store.Set(ctx, storeKey(s.id), record{Values: s.values}, m.opts.TTL); err != nil {
		return nil, nil, fmt.Errorf("session: issue: %w", err)
	}
	return m.cookie(s.id), s, nil
}

// Middleware attaches the session to the request context and saves it just
// before the response header is written.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := m.Load(r)
			if err != nil {
				logger.WithCtx(r.Context()).Error("session load failed", "error", err)
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}

			sw := &saveWriter{ResponseWriter: w, save: func() {
				if err := m.Save(r.Context(), w, sess); err != nil {
					logger.WithCtx(r.Context()).Error("session save failed", "error", err)
				}
			}}
			next.ServeHTTP(sw, r.WithContext(WithSession(r.Context(), sess)))
			sw.flushSave()
		})
	}
}

type saveWriter struct {
	http.ResponseWriter
	save func()
	done bool
}

func (w *saveWriter) flushSave() {
	if !w.done {
		w.done = true
		w.save()
	}
}

func (w *saveWriter) WriteHeader(code int) {
	w.flushSave()
	w.ResponseWriter.WriteHeader(code)
}

func (w *saveWriter) Write(b []byte) (int, error) {
	w.flushSave()
	return w.ResponseWriter.Write(b)
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromCtx returns nil outside the session middleware.
func FromCtx(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
