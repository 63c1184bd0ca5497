package csvtrade

import (
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"cointax/internal/model"
)

// Template is the example export offered for download. Re-importing it yields
// exactly two trades: a buy of 1 @ 500000 and a sell of 0.5 @ 600000.
const Template = "date,type,amount,price\n" +
	"2024-01-02,buy,1,500000\n" +
	"2024-03-15,sell,0.5,600000\n"

// buyKeywords mark a type cell as a purchase. Anything else, including an
// empty or unrecognized label, is classified as a sell.
var buyKeywords = []string{"매수", "bid", "buy", "입금", "deposit"}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Parser normalizes raw exchange CSV exports into trades.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a Parser. The logger only ever sees row-level debug
// notes; parsing itself never fails.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse reads a whole CSV document. The first non-blank line is the header;
// every following non-blank line is a candidate data row. Rows that cannot be
// resolved to a finite amount and price are dropped and counted in skipped.
// Input with fewer than two non-blank lines yields no trades and no error.
func (p *Parser) Parse(text string) (trades []model.Trade, skipped int) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return nil, 0
	}

	cols := resolveColumns(SplitLine(lines[0]))
	for _, line := range lines[1:] {
		trade, ok := p.normalizeRow(cols, SplitLine(line))
		if !ok {
			skipped++
			continue
		}
		trades = append(trades, trade)
	}
	return trades, skipped
}

// ParseReader is Parse over an io.Reader (file uploads, local files).
func (p *Parser) ParseReader(r io.Reader) ([]model.Trade, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	trades, skipped := p.Parse(string(data))
	return trades, skipped, nil
}

// normalizeRow turns one tokenized data row into a trade, or rejects it.
// The amount must parse to a finite number; the price comes from the price
// column when it holds a finite value > 0, otherwise it is derived from the
// total divided by the quantity.
func (p *Parser) normalizeRow(cols columns, row []string) (model.Trade, bool) {
	amount, ok := parseNumber(cell(row, cols.amount))
	if !ok {
		return model.Trade{}, false
	}
	amount = math.Abs(amount)

	price, ok := resolvePrice(row, cols, amount)
	if !ok {
		return model.Trade{}, false
	}

	return model.Trade{
		Date:   p.resolveDate(cell(row, cols.date)),
		Type:   p.classifyType(cell(row, cols.typ)),
		Amount: amount,
		Price:  price,
	}, true
}

func resolvePrice(row []string, cols columns, amount float64) (float64, bool) {
	if price, ok := parseNumber(cell(row, cols.price)); ok && price > 0 {
		return price, true
	}
	if total, ok := parseNumber(cell(row, cols.total)); ok && amount > 0 {
		return math.Abs(total) / amount, true
	}
	return 0, false
}

func (p *Parser) resolveDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().Format("2006-01-02")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	// Best effort: keep the leading date-sized chunk of the cell verbatim.
	if r := []rune(raw); len(r) > 10 {
		return string(r[:10])
	}
	return raw
}

func (p *Parser) classifyType(raw string) model.TradeType {
	label := strings.ToLower(strings.TrimSpace(raw))
	for _, kw := range buyKeywords {
		if strings.Contains(label, kw) {
			return model.Buy
		}
	}
	if label != "" && !strings.Contains(label, "sell") && !strings.Contains(label, "매도") {
		p.logger.Debug("unrecognized trade type, classified as sell", "label", raw)
	}
	return model.Sell
}

// parseNumber parses a numeric cell after stripping thousands-separator
// commas. It fails on empty input and on anything non-finite.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoerceNumber is the manual-edit variant of parseNumber: anything that does
// not parse to a finite non-negative number becomes 0 instead of an error.
func CoerceNumber(s string) float64 {
	f, ok := parseNumber(s)
	if !ok || f < 0 {
		return 0
	}
	return f
}
