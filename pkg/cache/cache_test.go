package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	UserID uint   `json:"user_id"`
	Token  string `json:"token"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "s:1", payload{UserID: 4, Token: "t"}, time.Minute))

	var got payload
	hit, err := m.Get(ctx, "s:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{UserID: 4, Token: "t"}, got)

	require.NoError(t, m.Del(ctx, "s:1"))
	hit, err = m.Get(ctx, "s:1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	require.NoError(t, m.Set(ctx, "k", "v", time.Second))
	clock = clock.Add(2 * time.Second)

	var v string
	hit, err := m.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, m.items)
}
