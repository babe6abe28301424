package edgar

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Trimmed R4.htm from Apple's 10-Q for the quarter ended June 29, 2024
const appleBalanceSheetHTML = `<html>
<head><title></title><style>td { padding: 2px; }</style></head>
<body>
<span style="display: none;">v3.24.2</span>
<table class="report" border="0" cellspacing="2" id="idm140">
  <tr>
    <th class="tl" style="vertical-align: bottom;"><div style="width: 200px;"><strong>CONDENSED CONSOLIDATED BALANCE SHEETS (Unaudited) - USD ($)<br> $ in Millions</strong></div></th>
    <th class="th"><div>Jun. 29,<br>2024</div></th>
    <th class="th"><div>Sep. 30,<br>2023</div></th>
  </tr>
  <tr class="re">
    <td class="pl"><a class="a" href="javascript:void(0);"><strong>Current assets:</strong></a></td>
    <td class="text">&nbsp;<span></span></td>
    <td class="text">&nbsp;<span></span></td>
  </tr>
  <tr class="ro">
    <td class="pl"><a class="a" href="javascript:void(0);">Cash and cash equivalents</a></td>
    <td class="nump">$ 25,565<span></span></td>
    <td class="nump">$ 29,965<span></span></td>
  </tr>
  <tr class="re">
    <td class="pl"><a class="a" href="javascript:void(0);">Total&nbsp;assets</a><script>var x = 1;</script></td>
    <td class="nump">331,612<span></span></td>
    <td class="nump">352,583<span></span></td>
  </tr>
</table>
<table><tr><td>Footnote table</td><td>ignored</td></tr></table>
</body>
</html>`

func TestExtractStatement(t *testing.T) {
	got := ExtractStatement(appleBalanceSheetHTML, nil)

	header := []string{"CONDENSED CONSOLIDATED BALANCE SHEETS (Unaudited) - USD ($) $ in Millions", "Jun. 29, 2024", "Sep. 30, 2023"}
	cash := []string{"Cash and cash equivalents", "$ 25,565", "$ 29,965"}
	total := []string{"Total assets", "331,612", "352,583"}

	want := &StatementTable{
		Headers:  [][]string{header},
		Sections: []string{"Current assets:"},
		Data:     [][]string{cash, total},
		Rows: []StatementRow{
			{Kind: RowHeader, Cells: header},
			{Kind: RowSection, Cells: []string{"Current assets:"}},
			{Kind: RowData, Cells: cash},
			{Kind: RowData, Cells: total},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractStatement() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractStatement_RowCounts(t *testing.T) {
	doc := `<table>
<tr><th>Dec. 31,<br/>2024</th><th><span>Dec. 31,</span> <span>2023</span></th></tr>
<tr><td><b>Liabilities</b></td><td>x</td><td>y</td></tr>
<tr><td>Accounts <i>payable</i></td><td>1</td><td>2</td></tr>
<tr><td>Deferred revenue</td><td>3</td><td>4</td></tr>
</table>`

	got := ExtractStatement(doc, nil)
	require.Len(t, got.Headers, 1)
	require.Len(t, got.Sections, 1)
	require.Len(t, got.Data, 2)

	assert.Equal(t, []string{"Dec. 31, 2024", "Dec. 31, 2023"}, got.Headers[0])
	assert.Equal(t, "Liabilities", got.Sections[0])
	assert.Equal(t, []string{"Accounts payable", "1", "2"}, got.Data[0])
	assert.Equal(t, []string{"Deferred revenue", "3", "4"}, got.Data[1])
}

func TestExtractStatement_SectionUsesBold(t *testing.T) {
	doc := `<table>
<tr><td><b>LIABILITIES AND SHAREHOLDERS' EQUITY:</b></td><td></td></tr>
<tr><td>Accounts payable</td><td>$ 47,574</td></tr>
</table>`

	got := ExtractStatement(doc, nil)
	assert.Equal(t, []string{"LIABILITIES AND SHAREHOLDERS' EQUITY:"}, got.Sections)
	assert.Equal(t, [][]string{{"Accounts payable", "$ 47,574"}}, got.Data)
}

func TestExtractStatement_NestedTableRowsIgnored(t *testing.T) {
	doc := `<table>
<tr><td>Marketable securities</td><td><table><tr><td>footnote [1]</td></tr></table></td></tr>
<tr><td>Inventories</td><td>6,165</td></tr>
</table>`

	got := ExtractStatement(doc, nil)
	require.Len(t, got.Data, 2)
	assert.Equal(t, "Marketable securities", got.Data[0][0])
	assert.Equal(t, []string{"Inventories", "6,165"}, got.Data[1])
}

func TestExtractStatement_NoTable(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	got := ExtractStatement(`<html><body><p>This report is not available.</p></body></html>`, zap.New(core))
	assert.True(t, got.IsEmpty())
	assert.Empty(t, got.Headers)
	assert.Empty(t, got.Data)
	assert.Equal(t, 1, logs.FilterMessage("statement HTML has no table").Len())
}

func TestExtractStatement_UnrecognizedRowLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	doc := `<table>
<tr></tr>
<tr><td>Total assets</td><td>331,612</td></tr>
</table>`

	got := ExtractStatement(doc, zap.New(core))
	assert.Len(t, got.Rows, 1)
	assert.Equal(t, 1, logs.FilterMessage("unrecognized table row").Len())
}

func TestStatementTable_EmptyMarshalsAsLists(t *testing.T) {
	data, err := FormatJSON(NewStatementTable())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"headers", "sections", "data", "rows"} {
		assert.Equal(t, []any{}, decoded[key], key)
	}
}
