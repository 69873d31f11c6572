package testkit_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

var handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/health":
		w.Write([]byte(`{"status":"ok","uptime":12}`)) //nolint:errcheck
	case "/echo":
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write(body) //nolint:errcheck
	default:
		w.WriteHeader(http.StatusNotFound)
	}
})

func TestRunDir(t *testing.T) {
	testkit.RunDir(t, handler, "testdata")
}

func TestLoadAllSkipsBodyFiles(t *testing.T) {
	scenarios, errs := testkit.LoadAllFromDir("testdata")
	require.Empty(t, errs)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "echo body", scenarios[0].Name)
}

func TestDiffJSON(t *testing.T) {
	exp := map[string]any{"a": 1.0, "b": []any{"x"}}
	assert.Empty(t, testkit.DiffJSON("", exp, map[string]any{"a": 1.0, "b": []any{"x"}, "c": true}))
	assert.Len(t, testkit.DiffJSON("", exp, map[string]any{"a": 2.0}), 2)
}

func TestSQLiteIsolated(t *testing.T) {
	type row struct{ ID uint }
	a := testkit.SQLite(t, &row{})
	b := testkit.SQLite(t, &row{})

	require.NoError(t, a.Create(&row{}).Error)
	var n int64
	require.NoError(t, b.Model(&row{}).Count(&n).Error)
	assert.Zero(t, n)
}
