// internal/app/system/contactcsv/record.go
package contactcsv

import "strings"

// ParseRecord splits one CSV line into trimmed fields.
//
// Fields are comma separated and may be double-quoted. Inside quotes a
// doubled quote is a literal quote and commas are literal. A quote left
// open at the end of the line is treated as closed. Records never span
// lines.
func ParseRecord(line string) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case inQuote && ch == '"':
			if i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuote = false
			}
		case inQuote:
			cur.WriteByte(ch)
		case ch == '"':
			inQuote = true
		case ch == ',':
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}

// splitLines breaks data into lines, accepting both \n and \r\n endings.
func splitLines(data string) []string {
	lines := strings.Split(data, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
