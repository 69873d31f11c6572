package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/reqid"
)

func serve(t *testing.T, inbound string) (header, seen string) {
	t.Helper()
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(reqid.Header, inbound)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Header().Get(reqid.Header), seen
}

func TestGeneratesUUID(t *testing.T) {
	header, seen := serve(t, "")
	_, err := uuid.Parse(header)
	require.NoError(t, err)
	assert.Equal(t, header, seen)
}

func TestReusesUpstreamID(t *testing.T) {
	header, seen := serve(t, "gateway-42")
	assert.Equal(t, "gateway-42", header)
	assert.Equal(t, "gateway-42", seen)
}

func TestRejectsOversizedUpstreamID(t *testing.T) {
	header, _ := serve(t, strings.Repeat("x", 500))
	assert.NotEqual(t, strings.Repeat("x", 500), header)
}
