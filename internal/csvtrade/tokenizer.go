package csvtrade

import "strings"

// SplitLine tokenizes one CSV line into its raw field strings.
//
// The dialect is the one produced by exchange export tools: comma-separated,
// fields optionally wrapped in double quotes, a doubled quote inside a quoted
// field standing for a literal quote. Fields are trimmed of surrounding
// whitespace. An unterminated quote is not an error; the scan simply ends in
// whatever state it reached.
func SplitLine(line string) []string {
	var fields []string
	var buf strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			buf.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(buf.String()))
	return fields
}
