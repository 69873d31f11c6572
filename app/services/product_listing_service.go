package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/pkg/collection"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/orm"
)

const (
	BaseCurrency    = "usd"
	DisplayCurrency = "eur"
)

// ProductView is a product with its price converted for display.
type ProductView struct {
	models.Product
	PriceEUR decimal.Decimal `json:"price_eur"`
}

// Page is one page of the product listing.
type Page struct {
	Items []ProductView `json:"data"`
	orm.Pagination
}

type ProductListingService struct {
	store     repositories.ProductStore
	converter *Converter
}

func NewProductListingService(store repositories.ProductStore, converter *Converter) *ProductListingService {
	return &ProductListingService{store: store, converter: converter}
}

// ListPage returns page (1-indexed) of products in store order. A page below
// 1 is treated as 1 and a non-positive perPage as orm.DefaultPerPage.
func (s *ProductListingService) ListPage(ctx context.Context, page, perPage int) (Page, error) {
	page, perPage = orm.Normalize(page, perPage)

	items, total, err := s.store.Paginate(ctx, page, perPage)
	if err != nil {
		return Page{}, err
	}

	if len(items) > 0 && !s.converter.Supports(BaseCurrency, DisplayCurrency) {
		metrics.CurrencyMisses.WithLabelValues(BaseCurrency, DisplayCurrency).Inc()
		logger.WithCtx(ctx).Warn("currency rate missing, converted prices are zero",
			"from", BaseCurrency, "to", DisplayCurrency)
	}

	views := collection.Map(items, func(p models.Product) ProductView {
		return ProductView{Product: p, PriceEUR: s.converter.Convert(p.Price, BaseCurrency, DisplayCurrency)}
	})

	return Page{Items: views, Pagination: orm.NewPagination(page, perPage, total)}, nil
}
