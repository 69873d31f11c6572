package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item priced in USD.
type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductFields are the writable attributes of a product.
type ProductFields struct {
	Name  string
	Price decimal.Decimal
}
