package payment

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currencies without a minor unit. Amounts in these are stored as whole units.
var zeroDecimal = map[string]bool{
	"XOF": true, "XAF": true, "JPY": true, "KRW": true, "GNF": true,
}

// FxTable holds the fixed conversion rates used when a provider does not
// support the store currency. Rates come from configuration so the applied
// conversion stays auditable instead of being buried in adapter code.
type FxTable struct {
	rates map[string]decimal.Decimal
}

func NewFxTable() *FxTable {
	return &FxTable{rates: make(map[string]decimal.Decimal)}
}

func (t *FxTable) Set(from, to, rate string) error {
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return fmt.Errorf("fx rate %s/%s: %w", from, to, err)
	}
	t.rates[from+"/"+to] = d
	return nil
}

// Convert turns amount (smallest unit of from) into major units of to,
// rounded to 2 decimal places. It returns the converted value, the rate that
// was applied, and whether a rate was configured.
func (t *FxTable) Convert(amount int64, from, to string) (decimal.Decimal, decimal.Decimal, bool) {
	rate, ok := t.rates[from+"/"+to]
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	value := majorValue(amount, from).Mul(rate).Round(2)
	return value, rate, true
}

func majorValue(amount int64, currency string) decimal.Decimal {
	d := decimal.NewFromInt(amount)
	if zeroDecimal[currency] {
		return d
	}
	return d.Div(decimal.NewFromInt(100))
}

func formatAmount(d decimal.Decimal, currency string) string {
	if zeroDecimal[currency] {
		return d.Round(0).String()
	}
	return d.StringFixed(2)
}
