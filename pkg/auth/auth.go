// Package auth holds the authenticated identity of a request and the
// credential primitives used to establish it: bcrypt password hashes and
// HS256 JWTs.
package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/catalog/pkg/rbac"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid token")
)

// Actor is the identity a request runs as.
type Actor struct {
	ID    uint
	Name  string
	Email string
	Role  rbac.Role
}

// Can is false for a nil actor.
func (a *Actor) Can(p rbac.Permission) bool {
	return a != nil && rbac.Can(a.Role, p)
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == rbac.RoleAdmin
}

type actorKey struct{}

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromCtx returns nil for guests.
func ActorFromCtx(ctx context.Context) *Actor {
	a, _ := ctx.Value(actorKey{}).(*Actor)
	return a
}

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
