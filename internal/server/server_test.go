package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/internal/kernel"
	"github.com/shashiranjanraj/catalog/internal/server"
	"github.com/shashiranjanraj/catalog/pkg/cache"
)

func bootTest(t *testing.T) *server.Infra {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file:server_test?mode=memory&cache=shared")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("LOG_MONGO_URI", "")
	t.Setenv("STORAGE_DISK", "local")
	t.Setenv("STORAGE_LOCAL_ROOT", t.TempDir())

	in, err := server.Boot(context.Background())
	require.NoError(t, err)
	t.Cleanup(in.Close)
	return in
}

func TestBootFallsBackToMemoryCache(t *testing.T) {
	in := bootTest(t)

	require.NotNil(t, in.DB)
	require.NotNil(t, in.Disk)
	assert.IsType(t, &cache.Memory{}, in.Cache)
}

func TestKernelDepsReadRates(t *testing.T) {
	in := bootTest(t)
	t.Setenv("CURRENCY_RATES", "usd:eur=0.5,usd:gbp=0.8")
	t.Setenv("SESSION_LIFETIME", "30m")

	d, err := server.KernelDeps(in)
	require.NoError(t, err)

	got := d.Converter.Convert(decimal.NewFromInt(10), "USD", "GBP")
	assert.Equal(t, "8.00", got.StringFixed(2))
	assert.Equal(t, "30m0s", d.Session.TTL.String())

	k, err := kernel.New(d)
	require.NoError(t, err)
	defer k.Close()

	rec := httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestKernelDepsRejectMalformedRates(t *testing.T) {
	in := bootTest(t)
	t.Setenv("CURRENCY_RATES", "usd:eur=abc")

	_, err := server.KernelDeps(in)
	assert.ErrorContains(t, err, "CURRENCY_RATES")
}
