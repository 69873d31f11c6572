package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/rbac"
)

func TestActorPermissions(t *testing.T) {
	var guest *Actor
	admin := &Actor{ID: 1, Role: rbac.RoleAdmin}
	user := &Actor{ID: 2, Role: rbac.RoleUser}

	assert.False(t, guest.Can(rbac.ManageProducts))
	assert.True(t, admin.Can(rbac.ManageProducts))
	assert.False(t, user.Can(rbac.ManageProducts))
	assert.True(t, admin.IsAdmin())
	assert.False(t, guest.IsAdmin())
}

func TestActorContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ActorFromCtx(ctx))

	a := &Actor{ID: 5}
	assert.Same(t, a, ActorFromCtx(WithActor(ctx, a)))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestTokenRoundTrip(t *testing.T) {
	iss := NewTokenIssuer("secret", time.Hour)
	raw, exp, err := iss.Issue(&Actor{ID: 7, Role: rbac.RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := iss.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, rbac.RoleAdmin, claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestTokenRejections(t *testing.T) {
	iss := NewTokenIssuer("secret", time.Hour)
	raw, _, err := iss.Issue(&Actor{ID: 1})
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
