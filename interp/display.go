package interp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Display writes v's human-facing representation to w: strings without
// quotes, booleans as #t/#f, numbers without a trailing ".0" when
// integral, lists space-separated and parenthesized with quoted strings
// inside them (write-style nesting), procedures as #<procedure NAME>.
func Display(w io.Writer, v Value) error {
	_, err := io.WriteString(w, formatValue(v, false))
	return err
}

// Newline writes a single newline, for the newline builtin.
func Newline(w io.Writer) error {
	_, err := io.WriteString(w, "\n")
	return err
}

func formatValue(v Value, quoteStrings bool) string {
	switch v.Kind() {
	case KindNil:
		return "()"
	case KindBoolean:
		if v.Boolean() {
			return "#t"
		}
		return "#f"
	case KindNumber:
		return formatNumber(v.Number())
	case KindString:
		if quoteStrings {
			return strconv.Quote(v.String())
		}
		return v.String()
	case KindSymbol:
		return v.Symbol().String()
	case KindList:
		var b strings.Builder
		b.WriteByte('(')
		elems := v.List().Elements()
		for i, e := range elems {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatValue(e, true))
		}
		b.WriteByte(')')
		return b.String()
	case KindProcedure:
		return fmt.Sprintf("#<procedure %s>", v.Procedure().Name())
	default:
		return ""
	}
}

// formatNumber renders n the way the subset's numeric tower expects:
// shortest round-tripping decimal, with integral values printed without a
// fractional part.
func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
