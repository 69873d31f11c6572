package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedPair is returned by ConvertStrict when no rate exists.
var ErrUnsupportedPair = errors.New("currency: unsupported pair")

// DefaultRates is the rate table used when none is configured.
var DefaultRates = map[string]decimal.Decimal{
	"usd:eur": decimal.RequireFromString("0.98"),
}

// Converter converts amounts over a fixed rate table. It is immutable after
// construction and safe for concurrent use.
type Converter struct {
	rates map[string]decimal.Decimal
}

// NewConverter copies rates, keyed "from:to" in any case.
func NewConverter(rates map[string]decimal.Decimal) *Converter {
	c := &Converter{rates: make(map[string]decimal.Decimal, len(rates))}
	for k, v := range rates {
		c.rates[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return c
}

// ParseRates reads a table such as "usd:eur=0.98,usd:gbp=0.79".
func ParseRates(def string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for _, item := range strings.Split(def, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		pair, raw, ok := strings.Cut(item, "=")
		from, to, okPair := strings.Cut(pair, ":")
		if !ok || !okPair || strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return nil, fmt.Errorf("currency: malformed rate %q", item)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil || rate.IsNegative() {
			return nil, fmt.Errorf("currency: invalid rate in %q", item)
		}
		out[pairKey(from, to)] = rate
	}
	return out, nil
}

func pairKey(from, to string) string {
	return strings.ToLower(strings.TrimSpace(from)) + ":" + strings.ToLower(strings.TrimSpace(to))
}

// Rate returns the rate for from→to.
func (c *Converter) Rate(from, to string) (decimal.Decimal, bool) {
	r, ok := c.rates[pairKey(from, to)]
	return r, ok
}

func (c *Converter) Supports(from, to string) bool {
	_, ok := c.Rate(from, to)
	return ok
}

// Convert multiplies amount by the from→to rate and rounds half away from
// zero to two places. An unknown pair converts to 0.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	rate, _ := c.Rate(from, to)
	return amount.Mul(rate).Round(2)
}

func (c *Converter) ConvertStrict(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, ok := c.Rate(from, to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedPair, pairKey(from, to))
	}
	return amount.Mul(rate).Round(2), nil
}
