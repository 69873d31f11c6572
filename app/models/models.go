// Package models holds the persisted entities of the catalog.
package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("record not found")

func init() {
	// prices are JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}
