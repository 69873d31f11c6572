package middleware

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/session"
)

// MethodOverride lets an HTML form POST act as PUT, PATCH or DELETE through
// a "_method" field. It must run before routing. The form body is capped at
// bind.MaxBodyBytes before it is parsed.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && isForm(r) {
			r.Body = http.MaxBytesReader(w, r.Body, bind.MaxBodyBytes())
			if err := r.ParseForm(); err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					ctx.Abort(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
					return
				}
				ctx.Abort(w, r, http.StatusBadRequest, "Invalid form")
				return
			}
			switch m := strings.ToUpper(r.PostForm.Get("_method")); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/x-www-form-urlencoded"
}

// VerifyCSRF rejects state changing requests whose "_token" field or
// X-CSRF-Token header does not match the session token with 419.
func VerifyCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			token = r.PostFormValue(session.TokenKey)
		}
		s := session.FromCtx(r.Context())
		if s == nil || !s.VerifyToken(token) {
			ctx.Abort(w, r, 419, "Page Expired")
			return
		}
		next.ServeHTTP(w, r)
	})
}
