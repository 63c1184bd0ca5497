package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cointax/internal/model"
)

// Report is the display form of Totals: every figure rounded to the nearest
// whole currency unit.
type Report struct {
	TotalBuy    decimal.Decimal `json:"total_buy"`
	TotalSell   decimal.Decimal `json:"total_sell"`
	Profit      decimal.Decimal `json:"profit"`
	Taxable     decimal.Decimal `json:"taxable"`
	Tax         decimal.Decimal `json:"tax"`
	NetAfterTax decimal.Decimal `json:"net_after_tax"`
}

// NewReport rounds raw totals for display.
func NewReport(t model.Totals) Report {
	return Report{
		TotalBuy:    round(t.TotalBuy),
		TotalSell:   round(t.TotalSell),
		Profit:      round(t.Profit),
		Taxable:     round(t.Taxable),
		Tax:         round(t.Tax),
		NetAfterTax: round(t.NetAfterTax),
	}
}

func round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(0)
}

// String renders the report for the CLI summary output.
func (r Report) String() string {
	return fmt.Sprintf(
		"total buy:     %s\n"+
			"total sell:    %s\n"+
			"profit:        %s\n"+
			"taxable:       %s\n"+
			"estimated tax: %s\n"+
			"net after tax: %s",
		r.TotalBuy.StringFixed(0),
		r.TotalSell.StringFixed(0),
		r.Profit.StringFixed(0),
		r.Taxable.StringFixed(0),
		r.Tax.StringFixed(0),
		r.NetAfterTax.StringFixed(0),
	)
}
