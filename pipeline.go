package edgar

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatementResult is the balance sheet extracted from one filing
type StatementResult struct {
	Ticker     string          `json:"ticker"`
	Filing     FilingEntry     `json:"filing"`
	SummaryURL string          `json:"summaryUrl"`
	ReportName string          `json:"reportName"`
	ReportURL  string          `json:"reportUrl"`
	Table      *StatementTable `json:"table"`
}

// BatchResult contains the results of a multi-filing run
type BatchResult struct {
	Statements []*StatementResult `json:"statements"`
	TotalFound int                `json:"totalFound"` // Filings returned by the index search
	Fetched    int                `json:"fetched"`    // Filings whose statement was extracted
	Skipped    int                `json:"skipped"`    // Filings without a FilingSummary.xml
	Errors     []error            `json:"-"`          // Per-filing failures
}

// errNoSummary marks a filing directory without FilingSummary.xml
var errNoSummary = errors.New("filing has no summary manifest")

// BalanceSheet returns the balance sheet of the most recent 10-Q filed for
// ticker on or before asOf (YYYYMMDD, empty for latest).
//
// Filings are tried in feed order. One without a summary manifest is
// skipped; a parse, schema or selection failure abandons that filing and
// the next is tried. Network errors end the run.
func (c *Client) BalanceSheet(ctx context.Context, ticker, asOf string) (*StatementResult, error) {
	logger := c.runLogger(ticker)

	entries, err := c.FilingIndex(ctx, ticker, asOf)
	if err != nil {
		return nil, err
	}
	logger.Info("found filings", zap.Int("count", len(entries)))

	var lastErr error
	for _, entry := range entries {
		result, err := c.statementForFiling(ctx, ticker, entry, logger)
		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, errNoSummary):
			continue
		case errors.Is(err, ErrNetwork):
			return nil, err
		default:
			logger.Warn("filing abandoned", zap.String("url", entry.DirectoryURL), zap.Error(err))
			lastErr = err
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: no %s filing with a balance sheet for %s", ErrNotFound, FilingFormType, ticker)
}

// BalanceSheets extracts the balance sheet of every filing the search returns,
// or of the first limit filings when limit > 0. Per-filing failures are
// collected in the result. A network error stops the run and is returned
// together with what was collected so far.
func (c *Client) BalanceSheets(ctx context.Context, ticker, asOf string, limit int) (*BatchResult, error) {
	logger := c.runLogger(ticker)
	result := &BatchResult{
		Statements: make([]*StatementResult, 0),
		Errors:     make([]error, 0),
	}

	entries, err := c.FilingIndex(ctx, ticker, asOf)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	result.TotalFound = len(entries)
	logger.Info("extracting balance sheets", zap.Int("filings", len(entries)))

	for i, entry := range entries {
		// Progress indicator
		if (i+1)%10 == 0 || i == 0 {
			logger.Info("progress", zap.Int("filing", i+1), zap.Int("of", len(entries)))
		}

		statement, err := c.statementForFiling(ctx, ticker, entry, logger)
		switch {
		case err == nil:
			result.Statements = append(result.Statements, statement)
			result.Fetched++
		case errors.Is(err, errNoSummary):
			result.Skipped++
		case errors.Is(err, ErrNetwork):
			result.Errors = append(result.Errors, err)
			return result, err
		default:
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", entry.DirectoryURL, err))
		}
	}

	logger.Info("batch complete",
		zap.Int("fetched", result.Fetched),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// statementForFiling walks one filing from its index.json to the extracted table
func (c *Client) statementForFiling(ctx context.Context, ticker string, entry FilingEntry, logger *zap.Logger) (*StatementResult, error) {
	logger = logger.With(zap.String("url", entry.DirectoryURL))

	summaryURL, ok, err := c.SummaryManifestURL(ctx, entry.DirectoryURL)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Debug("skipping filing without summary manifest")
		return nil, errNoSummary
	}

	reports, err := c.Reports(ctx, summaryURL)
	if err != nil {
		return nil, err
	}

	report, err := SelectStatement(reports, c.keywords)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", summaryURL, err)
	}
	logger.Debug("selected report", zap.String("report", report.ShortName), zap.String("document", report.DocumentURL))

	doc, err := c.fetcher.Fetch(ctx, report.DocumentURL, nil)
	if err != nil {
		return nil, err
	}

	return &StatementResult{
		Ticker:     ticker,
		Filing:     entry,
		SummaryURL: summaryURL,
		ReportName: report.ShortName,
		ReportURL:  report.DocumentURL,
		Table:      ExtractStatement(doc, logger),
	}, nil
}

func (c *Client) runLogger(ticker string) *zap.Logger {
	return c.logger.With(zap.String("run_id", uuid.NewString()), zap.String("ticker", ticker))
}
