package edgar

import (
	"fmt"
	"strings"
)

// BalanceSheetKeywords match the short names filers give the balance sheet.
// Banks and broker-dealers title it a statement of financial condition.
var BalanceSheetKeywords = []string{"balance sheets", "financial condition"}

// SelectStatement returns the first report whose short name contains one of
// keywords, compared case-insensitively. Reports without a document URL are
// passed over. An empty keyword set means BalanceSheetKeywords.
func SelectStatement(reports []ReportDescriptor, keywords []string) (ReportDescriptor, error) {
	if len(keywords) == 0 {
		keywords = BalanceSheetKeywords
	}

	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}

	for _, r := range reports {
		if r.DocumentURL == "" {
			continue
		}
		name := strings.ToLower(r.ShortName)
		for _, k := range lowered {
			if strings.Contains(name, k) {
				return r, nil
			}
		}
	}

	return ReportDescriptor{}, fmt.Errorf("%w: no report matching %q among %d reports", ErrNotFound, keywords, len(reports))
}
