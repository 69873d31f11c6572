// Package requests declares the validated input of each form and API call.
package requests

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/catalog/app/models"
)

// Numeric holds a user supplied number verbatim so that validation, not
// decoding, reports a malformed value. JSON numbers and strings both decode.
type Numeric string

func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	*n = Numeric(b)
	return nil
}

// Decimal is zero for a value that failed validation.
func (n Numeric) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(string(n)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ProductRequest is the body of create and update.
type ProductRequest struct {
	Name  string  `form:"name" json:"name" validate:"required,max=255"`
	Price Numeric `form:"price" json:"price" validate:"required,numeric,gte=0"`
}

func (r ProductRequest) Fields() models.ProductFields {
	return models.ProductFields{Name: strings.TrimSpace(r.Name), Price: r.Price.Decimal()}
}

// Old is the input echoed back into a form after a failed submit.
func (r ProductRequest) Old() map[string]string {
	return map[string]string{"name": r.Name, "price": string(r.Price)}
}
