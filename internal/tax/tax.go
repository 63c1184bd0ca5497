package tax

import (
	"math"

	"cointax/internal/model"
)

// Flat-rate model: profit above the basic deduction is taxed at a fixed
// rate. Neither value is configurable at runtime.
const (
	BasicDeduction = 2_500_000.0
	TaxRate        = 0.22
)

// Summarize reduces a trade list to its aggregate figures. It is a pure
// function: no rounding, no side effects, and an empty list yields all zeros.
func Summarize(trades []model.Trade) model.Totals {
	var t model.Totals
	for _, tr := range trades {
		switch tr.Type {
		case model.Buy:
			t.TotalBuy += tr.Gross()
		case model.Sell:
			t.TotalSell += tr.Gross()
		}
	}
	t.Profit = t.TotalSell - t.TotalBuy
	t.Taxable = math.Max(0, t.Profit-BasicDeduction)
	t.Tax = t.Taxable * TaxRate
	if t.Profit > 0 {
		t.NetAfterTax = math.Max(0, t.Profit-t.Tax)
	} else {
		t.NetAfterTax = t.Profit
	}
	return t
}
