package edgar

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a statement cell such as "$ 1,234", "(56)" or "12.5" as a
// decimal. Parenthesized amounts are negative. Blank cells, dashes and text
// return ok=false.
func ParseAmount(cell string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(NormalizeText(cell))
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		// "$ (56)"
		negative = true
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// Lookup finds the first data row whose label (first cell) equals label,
// ignoring case and surrounding space, and returns the amounts parsed from its
// remaining cells. Cells that are not amounts are skipped.
func (t *StatementTable) Lookup(label string) ([]decimal.Decimal, bool) {
	want := strings.ToLower(NormalizeText(label))
	for _, row := range t.Data {
		if len(row) == 0 || strings.ToLower(row[0]) != want {
			continue
		}
		amounts := []decimal.Decimal{}
		for _, cell := range row[1:] {
			if d, ok := ParseAmount(cell); ok {
				amounts = append(amounts, d)
			}
		}
		return amounts, true
	}
	return nil, false
}
