package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/session"
)

// SessionUserKey is the session value holding the signed in user's id.
const SessionUserKey = "user_id"

// ActorResolver loads the identity for a user id. It returns a nil actor and
// nil error when the user no longer exists.
type ActorResolver interface {
	FindActor(ctx context.Context, id uint) (*auth.Actor, error)
}

// SessionUser attaches the signed in actor, if any, to the request context.
// It must run inside the session middleware.
func SessionUser(resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromCtx(r.Context())
			if s == nil {
				next.ServeHTTP(w, r)
				return
			}
			id, ok := s.GetUint(SessionUserKey)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := resolver.FindActor(r.Context(), id)
			if err != nil {
				logger.WithCtx(r.Context()).Error("resolve session user", "user_id", id, "error", err)
				ctx.Abort(w, r, http.StatusInternalServerError, "")
				return
			}
			if actor == nil {
				s.Delete(SessionUserKey)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}

// Authenticate sends guests to loginPath, or answers 401 to JSON clients.
func Authenticate(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.ActorFromCtx(r.Context()) == nil {
				if ctx.WantsJSON(r) {
					ctx.Abort(w, r, http.StatusUnauthorized, "Unauthenticated")
					return
				}
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest sends signed in users to home.
func Guest(home string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.ActorFromCtx(r.Context()) != nil {
				http.Redirect(w, r, home, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Bearer authenticates API requests with an "Authorization: Bearer" JWT.
func Bearer(tokens *auth.TokenIssuer, resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				ctx.Abort(w, r, http.StatusUnauthorized, "Unauthenticated")
				return
			}
			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				ctx.Abort(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}
			actor, err := resolver.FindActor(r.Context(), claims.UserID)
			if err != nil {
				logger.WithCtx(r.Context()).Error("resolve token user", "user_id", claims.UserID, "error", err)
				ctx.Abort(w, r, http.StatusInternalServerError, "")
				return
			}
			if actor == nil {
				ctx.Abort(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}

// Authorize answers 403 unless allow accepts the request's actor.
func Authorize(allow func(*auth.Actor) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow(auth.ActorFromCtx(r.Context())) {
				ctx.Abort(w, r, http.StatusForbidden, "This action is unauthorized.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
