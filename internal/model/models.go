package model

// TradeType classifies a trade as a purchase or a disposal.
type TradeType string

const (
	Buy  TradeType = "buy"
	Sell TradeType = "sell"
)

// Trade represents a single buy or sell transaction in the ledger.
type Trade struct {
	ID     string    `json:"id"`
	Date   string    `json:"date"` // YYYY-MM-DD
	Type   TradeType `json:"type"`
	Amount float64   `json:"amount"`
	Price  float64   `json:"price"`
}

// Gross returns the trade value in the local currency.
func (t Trade) Gross() float64 {
	return t.Amount * t.Price
}

// Totals holds the aggregated figures derived from the trade list.
// All values are raw; rounding happens only at the display layer.
type Totals struct {
	TotalBuy    float64 `json:"total_buy"`
	TotalSell   float64 `json:"total_sell"`
	Profit      float64 `json:"profit"`
	Taxable     float64 `json:"taxable"`
	Tax         float64 `json:"tax"`
	NetAfterTax float64 `json:"net_after_tax"`
}
