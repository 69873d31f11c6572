package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotEnvAndJSONMerge(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port":"9000","db_driver":"postgres","grpc_port":7000}`), 0o600))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nAPP_PORT=9100\nexport JWT_SECRET=\"s3cret\"\n"), 0o600))

	out := defaultValues()
	require.NoError(t, mergeJSONConfig(jsonPath, out))
	require.NoError(t, mergeDotEnv(envPath, out))

	assert.Equal(t, "9100", out["APP_PORT"], ".env overrides app.json")
	assert.Equal(t, "postgres", out["DB_DRIVER"])
	assert.Equal(t, "7000", out["GRPC_PORT"])
	assert.Equal(t, "s3cret", out["JWT_SECRET"])
}

func TestEnvironmentWins(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "MySQL")

	assert.True(t, IsProduction())
	assert.Equal(t, "mysql", DatabaseDriver())
	assert.Equal(t, defaultMySQLDSN, DatabaseDSN())
}

func TestUnknownDriverFallsBackToSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("DATABASE_DSN", "")

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
}

func TestSessionTTL(t *testing.T) {
	t.Setenv("SESSION_LIFETIME", "90m")
	assert.Equal(t, 90*time.Minute, SessionTTL())

	t.Setenv("SESSION_LIFETIME", "soon")
	assert.Equal(t, defaultSessionTTL, SessionTTL())
}

func TestCurrencyRatesDefault(t *testing.T) {
	assert.Equal(t, "usd:eur=0.98", CurrencyRates())
}
