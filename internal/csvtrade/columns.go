package csvtrade

import "strings"

// Logical columns resolved from an export header. Different exchanges name
// them differently, so each column is matched by a list of candidate
// substrings rather than a strict schema.
type columns struct {
	date   int
	typ    int
	amount int
	price  int
	total  int
}

var (
	dateKeys   = []string{"date", "time", "timestamp", "일시", "거래일시"}
	typeKeys   = []string{"side", "type", "trade", "구분", "거래유형"}
	amountKeys = []string{"amount", "qty", "quantity", "volume", "수량"}
	priceKeys  = []string{"price", "가격", "단가"}
	totalKeys  = []string{"total", "amount(krw)", "krw", "fill total", "거래금액"}
)

// resolveColumns maps a tokenized header row to column indexes. A column is
// absent (-1) when no header cell contains any of its candidate substrings.
func resolveColumns(header []string) columns {
	return columns{
		date:   findColumn(header, dateKeys),
		typ:    findColumn(header, typeKeys),
		amount: findColumn(header, amountKeys),
		price:  findColumn(header, priceKeys),
		total:  findColumn(header, totalKeys),
	}
}

// findColumn returns the index of the first header cell (left to right) that
// contains any candidate substring, case-insensitively, or -1 if none match.
func findColumn(header []string, candidates []string) int {
	for i, cell := range header {
		lc := strings.ToLower(cell)
		for _, cand := range candidates {
			if strings.Contains(lc, cand) {
				return i
			}
		}
	}
	return -1
}

// cell returns row[idx], or "" when the column is absent or the row is too
// short for it.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
