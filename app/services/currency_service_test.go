package services_test

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/services"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestConvertUSDToEUR(t *testing.T) {
	c := services.NewConverter(services.DefaultRates)

	cases := map[string]string{
		"100":    "98",
		"10.50":  "10.29",
		"0":      "0",
		"1.25":   "1.23", // 1.225 rounds half away from zero
		"999.99": "979.99",
	}
	for in, want := range cases {
		got := c.Convert(dec(in), "usd", "eur")
		assert.True(t, dec(want).Equal(got), "%s USD: want %s got %s", in, want, got)
	}
}

func TestConvertIsCaseInsensitive(t *testing.T) {
	c := services.NewConverter(services.DefaultRates)
	assert.Equal(t, "98", c.Convert(dec("100"), "USD", "Eur").String())
}

func TestConvertMissingPairIsZero(t *testing.T) {
	c := services.NewConverter(services.DefaultRates)
	assert.True(t, c.Convert(dec("100"), "eur", "usd").IsZero())
	assert.False(t, c.Supports("usd", "gbp"))

	_, err := c.ConvertStrict(dec("100"), "usd", "gbp")
	assert.ErrorIs(t, err, services.ErrUnsupportedPair)

	got, err := c.ConvertStrict(dec("100"), "usd", "eur")
	require.NoError(t, err)
	assert.Equal(t, "98", got.String())
}

func TestConverterCopiesTable(t *testing.T) {
	rates := map[string]decimal.Decimal{"USD:EUR": dec("0.5")}
	c := services.NewConverter(rates)
	rates["USD:EUR"] = dec("2")

	rate, ok := c.Rate("usd", "eur")
	require.True(t, ok)
	assert.Equal(t, "0.5", rate.String())
}

func TestConverterConcurrentUse(t *testing.T) {
	c := services.NewConverter(services.DefaultRates)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "9.8", c.Convert(dec("10"), "usd", "eur").String())
		}()
	}
	wg.Wait()
}

func TestParseRates(t *testing.T) {
	rates, err := services.ParseRates(" usd:eur=0.98, USD:GBP=0.79 ,")
	require.NoError(t, err)
	assert.Len(t, rates, 2)
	assert.Equal(t, "0.79", rates["usd:gbp"].String())

	for _, bad := range []string{"usd=0.98", "usd:eur", "usd:eur=x", "usd:eur=-1", ":eur=1"} {
		_, err := services.ParseRates(bad)
		assert.Error(t, err, bad)
	}
}
