package edgar

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// RowKind classifies a statement table row
type RowKind string

const (
	RowHeader  RowKind = "header"
	RowSection RowKind = "section"
	RowData    RowKind = "data"
)

// StatementRow is one classified row, kept in table order
type StatementRow struct {
	Kind  RowKind  `json:"kind"`
	Cells []string `json:"cells"`
}

// StatementTable is a financial statement as laid out in the report HTML.
// Rows are not aligned into a grid; each keeps the cells it had.
type StatementTable struct {
	Headers  [][]string `json:"headers"`
	Sections []string   `json:"sections"`
	Data     [][]string `json:"data"`

	// Rows interleaves the three kinds in visual order
	Rows []StatementRow `json:"rows"`
}

// NewStatementTable returns an empty table whose slices marshal as [] not null.
func NewStatementTable() *StatementTable {
	return &StatementTable{
		Headers:  [][]string{},
		Sections: []string{},
		Data:     [][]string{},
		Rows:     []StatementRow{},
	}
}

// IsEmpty reports whether no row was recognized
func (t *StatementTable) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ExtractStatement classifies the rows of the first <table> in doc.
//
// Header rows are rows with any <th>. Rows of <td> cells containing a <b> or
// <strong> are section labels (only the first cell is kept). Other <td> rows
// are data. Rows fitting none of these are logged and skipped, and a document
// without a table yields an empty StatementTable. Later tables are ignored.
//
// logger may be nil.
func ExtractStatement(doc string, logger *zap.Logger) *StatementTable {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := NewStatementTable()

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		logger.Warn("statement HTML could not be parsed", zap.Error(err))
		return out
	}

	table := parsed.Find("table").First()
	if table.Length() == 0 {
		logger.Warn("statement HTML has no table")
		return out
	}

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		// rows of nested tables belong to those tables
		if !row.Closest("table").IsSelection(table) {
			return
		}

		headers := row.ChildrenFiltered("th")
		cells := row.ChildrenFiltered("td")

		switch {
		case headers.Length() > 0:
			out.addRow(RowHeader, cellTexts(headers))
		case cells.Length() > 0 && row.Find("b, strong").Length() > 0:
			out.addRow(RowSection, []string{cellText(cells.First())})
		case cells.Length() > 0:
			out.addRow(RowData, cellTexts(cells))
		default:
			logger.Debug("unrecognized table row", zap.Int("row", i), zap.String("text", cellText(row)))
		}
	})

	return out
}

func (t *StatementTable) addRow(kind RowKind, cells []string) {
	switch kind {
	case RowHeader:
		t.Headers = append(t.Headers, cells)
	case RowSection:
		t.Sections = append(t.Sections, cells[0])
	case RowData:
		t.Data = append(t.Data, cells)
	}
	t.Rows = append(t.Rows, StatementRow{Kind: kind, Cells: cells})
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, cellText(cell))
	})
	return texts
}

// cellText joins the normalized text nodes under s with single spaces, so
// "<th>Dec. 31,<br>2024</th>" reads "Dec. 31, 2024". Script and style text is skipped.
func cellText(s *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if text := NormalizeText(n.Data); text != "" {
				parts = append(parts, text)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
