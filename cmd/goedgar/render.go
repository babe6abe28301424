package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	edgar "github.com/RxDataLab/edgar-statements"
)

// newTable returns a rounded table writer that keeps header and footer case
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// renderStatement prints a statement in its visual row order
func renderStatement(w io.Writer, res *edgar.StatementResult) {
	t := newTable(w)
	t.SetTitle(statementTitle(res))

	for _, row := range res.Table.Rows {
		switch row.Kind {
		case edgar.RowHeader:
			t.AppendHeader(toRow(row.Cells))
		case edgar.RowSection:
			t.AppendSeparator()
			t.AppendRow(table.Row{row.Cells[0]})
		case edgar.RowData:
			t.AppendRow(toRow(row.Cells))
		}
	}

	if res.Table.IsEmpty() {
		t.AppendRow(table.Row{"(no table rows recognized)"})
	}
	t.AppendFooter(table.Row{res.ReportURL})
	t.Render()
}

func statementTitle(res *edgar.StatementResult) string {
	parts := []string{strings.ToUpper(res.Ticker), res.ReportName}
	if meta := res.Filing.Metadata; meta != nil {
		parts = append(parts, meta.Accession)
	}
	return strings.Join(parts, " | ")
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// renderLine prints the amounts of one statement line
func renderLine(w io.Writer, res *edgar.StatementResult, label string) error {
	amounts, ok := res.Table.Lookup(label)
	if !ok {
		return fmt.Errorf("line %q not found in %s", label, res.ReportName)
	}
	values := make([]string, len(amounts))
	for i, a := range amounts {
		values[i] = a.String()
	}
	_, err := fmt.Fprintf(w, "%s\t%s\n", label, strings.Join(values, "\t"))
	return err
}

func renderFilings(w io.Writer, entries []edgar.FilingEntry) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Accession", "Updated", "Directory"})
	for i, e := range entries {
		accession, updated := "", ""
		if e.Metadata != nil {
			accession = e.Metadata.Accession
		}
		if e.Updated != nil {
			updated = e.Updated.Format("2006-01-02")
		}
		t.AppendRow(table.Row{i + 1, accession, updated, e.DirectoryURL})
	}
	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d filings", len(entries))})
	t.Render()
}

func renderReports(w io.Writer, reports []edgar.ReportDescriptor) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Short name", "Category", "Document"})
	for i, r := range reports {
		t.AppendRow(table.Row{i + 1, r.ShortName, r.MenuCategory, r.DocumentURL})
	}
	t.Render()
}
