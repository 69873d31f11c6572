package requests_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

func TestProductRequestDecodesNumberOrString(t *testing.T) {
	for _, body := range []string{`{"name":"Lamp","price":12.5}`, `{"name":"Lamp","price":"12.5"}`} {
		var r requests.ProductRequest
		require.NoError(t, json.Unmarshal([]byte(body), &r))
		assert.Empty(t, validate.Struct(&r), body)
		assert.Equal(t, "12.5", r.Fields().Price.String())
	}
}

func TestProductRequestRules(t *testing.T) {
	cases := []struct {
		body string
		errs map[string]string
	}{
		{`{}`, map[string]string{
			"name":  "The name field is required.",
			"price": "The price field is required.",
		}},
		{`{"name":"Lamp","price":"abc"}`, map[string]string{"price": "The price field must be a number."}},
		{`{"name":"Lamp","price":-1}`, map[string]string{"price": "The price field must be greater than or equal to 0."}},
		{`{"name":"   ","price":null}`, map[string]string{
			"name":  "The name field is required.",
			"price": "The price field is required.",
		}},
	}
	for _, tc := range cases {
		var r requests.ProductRequest
		require.NoError(t, json.Unmarshal([]byte(tc.body), &r))
		assert.Equal(t, tc.errs, validate.Struct(&r), tc.body)
	}
}

func TestLoginRequestRules(t *testing.T) {
	errs := validate.Struct(&requests.LoginRequest{Email: "nope"})
	assert.Equal(t, "The email field must be a valid email address.", errs["email"])
	assert.Equal(t, "The password field is required.", errs["password"])
}
