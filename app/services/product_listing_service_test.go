package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

type mockStore struct {
	mock.Mock
	repositories.ProductStore
}

func (m *mockStore) Paginate(ctx context.Context, page, perPage int) ([]models.Product, int64, error) {
	args := m.Called(ctx, page, perPage)
	items, _ := args.Get(0).([]models.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func TestListPageNormalizesArguments(t *testing.T) {
	store := &mockStore{}
	store.On("Paginate", mock.Anything, 1, 10).Return([]models.Product{
		{ID: 1, Name: "Product 1", Price: dec("100")},
	}, int64(1), nil)

	svc := services.NewProductListingService(store, services.NewConverter(services.DefaultRates))
	page, err := svc.ListPage(context.Background(), 0, 0)
	require.NoError(t, err)
	store.AssertExpectations(t)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "98", page.Items[0].PriceEUR.String())
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PerPage)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.LastPage)
}

func TestListPagePropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	store := &mockStore{}
	store.On("Paginate", mock.Anything, 2, 5).Return(nil, int64(0), boom)

	svc := services.NewProductListingService(store, services.NewConverter(services.DefaultRates))
	_, err := svc.ListPage(context.Background(), 2, 5)
	assert.ErrorIs(t, err, boom)
}

func TestListPageMissingRateCountsMiss(t *testing.T) {
	store := &mockStore{}
	store.On("Paginate", mock.Anything, 1, 10).Return([]models.Product{{ID: 1, Price: dec("5")}}, int64(1), nil)

	before := testutil.ToFloat64(metrics.CurrencyMisses.WithLabelValues("usd", "eur"))
	svc := services.NewProductListingService(store, services.NewConverter(nil))
	page, err := svc.ListPage(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.True(t, page.Items[0].PriceEUR.IsZero())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CurrencyMisses.WithLabelValues("usd", "eur")))
}

func TestListPageAgainstDatabase(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewProductRepository(testkit.SQLite(t, &models.Product{}))
	for i := 1; i <= 11; i++ {
		_, err := repo.Create(ctx, models.ProductFields{Name: fmt.Sprintf("Product %d", i), Price: decimal.NewFromInt(int64(i))})
		require.NoError(t, err)
	}
	svc := services.NewProductListingService(repo, services.NewConverter(services.DefaultRates))

	first, err := svc.ListPage(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 2, first.LastPage)
	assert.Equal(t, "Product 1", first.Items[0].Name)

	again, err := svc.ListPage(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	second, err := svc.ListPage(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "Product 11", second.Items[0].Name)
	assert.Equal(t, "10.78", second.Items[0].PriceEUR.String())
}
