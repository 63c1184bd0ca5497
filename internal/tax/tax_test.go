package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cointax/internal/model"
)

func TestSummarize(t *testing.T) {
	t.Run("empty list yields all zeros", func(t *testing.T) {
		assert.Equal(t, model.Totals{}, Summarize(nil))
	})

	t.Run("all-zero trades yield all zeros", func(t *testing.T) {
		got := Summarize([]model.Trade{
			{Type: model.Buy},
			{Type: model.Sell},
		})
		assert.Equal(t, model.Totals{}, got)
	})

	t.Run("profit above deduction is taxed", func(t *testing.T) {
		got := Summarize([]model.Trade{
			{Type: model.Buy, Amount: 1, Price: 1_000_000},
			{Type: model.Sell, Amount: 1, Price: 5_000_000},
		})
		assert.Equal(t, 1_000_000.0, got.TotalBuy)
		assert.Equal(t, 5_000_000.0, got.TotalSell)
		assert.Equal(t, 4_000_000.0, got.Profit)
		assert.Equal(t, 1_500_000.0, got.Taxable)
		assert.InDelta(t, 330_000.0, got.Tax, 1e-6)
		assert.InDelta(t, 3_670_000.0, got.NetAfterTax, 1e-6)
	})

	t.Run("profit below deduction pays no tax", func(t *testing.T) {
		got := Summarize([]model.Trade{
			{Type: model.Sell, Amount: 1, Price: 1_000_000},
		})
		assert.Equal(t, 1_000_000.0, got.Profit)
		assert.Zero(t, got.Taxable)
		assert.Zero(t, got.Tax)
		assert.Equal(t, got.Profit, got.NetAfterTax)
	})

	t.Run("profit exactly at deduction pays no tax", func(t *testing.T) {
		got := Summarize([]model.Trade{
			{Type: model.Sell, Amount: 1, Price: BasicDeduction},
		})
		assert.Zero(t, got.Taxable)
		assert.Zero(t, got.Tax)
		assert.Equal(t, BasicDeduction, got.NetAfterTax)
	})

	t.Run("loss passes through untaxed", func(t *testing.T) {
		got := Summarize([]model.Trade{
			{Type: model.Buy, Amount: 2, Price: 1_000_000},
			{Type: model.Sell, Amount: 1, Price: 1_500_000},
		})
		assert.Equal(t, -500_000.0, got.Profit)
		assert.Zero(t, got.Taxable)
		assert.Zero(t, got.Tax)
		assert.Equal(t, got.Profit, got.NetAfterTax)
	})
}

// The deduction/rate relationship must hold for every sign and magnitude of
// profit, not just the hand-picked cases above.
func TestSummarize_TaxFormula(t *testing.T) {
	profits := []float64{
		-10_000_000, -1, 0, 1, 100, 2_499_999, 2_500_000, 2_500_001,
		3_000_000, 10_000_000, 123_456_789,
	}
	for _, profit := range profits {
		var trades []model.Trade
		if profit >= 0 {
			trades = []model.Trade{{Type: model.Sell, Amount: 1, Price: profit}}
		} else {
			trades = []model.Trade{{Type: model.Buy, Amount: 1, Price: -profit}}
		}

		got := Summarize(trades)
		assert.Equal(t, profit, got.Profit)

		wantTaxable := profit - BasicDeduction
		if wantTaxable < 0 {
			wantTaxable = 0
		}
		assert.Equal(t, wantTaxable, got.Taxable, "profit %v", profit)
		assert.Equal(t, wantTaxable*TaxRate, got.Tax, "profit %v", profit)

		if profit <= 0 {
			assert.Zero(t, got.Tax, "profit %v", profit)
			assert.Equal(t, profit, got.NetAfterTax, "profit %v", profit)
		} else {
			assert.Equal(t, profit-got.Tax, got.NetAfterTax, "profit %v", profit)
		}
	}
}

func TestNewReport(t *testing.T) {
	r := NewReport(model.Totals{
		TotalBuy:    1234.4,
		TotalSell:   1234.5,
		Profit:      0.1,
		Taxable:     0,
		Tax:         999.99,
		NetAfterTax: -1234.5,
	})
	assert.Equal(t, "1234", r.TotalBuy.String())
	assert.Equal(t, "1235", r.TotalSell.String())
	assert.Equal(t, "0", r.Profit.String())
	assert.Equal(t, "1000", r.Tax.String())
	assert.Equal(t, "-1235", r.NetAfterTax.String())
}
