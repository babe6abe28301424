package edgar

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

const (
	// BrowseEdgarURL is the company filing search endpoint
	BrowseEdgarURL = "https://www.sec.gov/cgi-bin/browse-edgar"

	// FilingFormType is the only form the pipeline searches for
	FilingFormType = "10-Q"

	// FilingSearchCount is the page size requested from browse-edgar
	FilingSearchCount = 100
)

// FilingEntry is one filing returned by the index search.
type FilingEntry struct {
	DirectoryURL string          `json:"directoryUrl"`
	Title        string          `json:"title,omitempty"`
	Updated      *time.Time      `json:"updated,omitempty"`
	Metadata     *FilingMetadata `json:"metadata,omitempty"`
}

// FilingSearchParams builds the browse-edgar query for ticker and asOf.
// asOf is passed through as dateb (YYYYMMDD); empty means "latest".
func FilingSearchParams(ticker, asOf string) url.Values {
	params := url.Values{}
	params.Set("action", "getcompany")
	params.Set("ticker", ticker)
	params.Set("type", FilingFormType)
	params.Set("dateb", asOf)
	params.Set("owner", "exclude")
	params.Set("start", "")
	params.Set("output", "atom")
	params.Set("count", fmt.Sprint(FilingSearchCount))
	return params
}

// FilingIndex queries browse-edgar and returns the per-filing index.json URLs
// in feed order. A ticker without matching filings yields an empty slice.
func (c *Client) FilingIndex(ctx context.Context, ticker, asOf string) ([]FilingEntry, error) {
	body, err := c.fetcher.Fetch(ctx, c.browseURL, FilingSearchParams(ticker, asOf))
	if err != nil {
		return nil, err
	}

	entries, err := parseFilingFeed(body, c.logger)
	if err != nil {
		return nil, fmt.Errorf("filing index for %s: %w", ticker, err)
	}

	c.logger.Debug("resolved filing index", zap.String("ticker", ticker), zap.Int("filings", len(entries)))
	return entries, nil
}

// ParseFilingFeed parses a browse-edgar Atom feed (for local files or testing)
func ParseFilingFeed(body string) ([]FilingEntry, error) {
	return parseFilingFeed(body, zap.NewNop())
}

func parseFilingFeed(body string, logger *zap.Logger) ([]FilingEntry, error) {
	// gofeed accepts mismatched tags; reject them before mapping entries
	if err := checkWellFormed(body); err != nil {
		return nil, fmt.Errorf("%w: filing feed: %w", ErrParse, err)
	}

	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: filing feed: %w", ErrParse, err)
	}
	if feed.FeedType != "" && feed.FeedType != "atom" {
		return nil, fmt.Errorf("%w: filing feed: expected atom, got %s", ErrParse, feed.FeedType)
	}

	entries := make([]FilingEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		link := item.Link
		if link == "" && len(item.Links) > 0 {
			link = item.Links[0]
		}
		if link == "" {
			logger.Warn("filing entry without link", zap.String("title", item.Title))
			continue
		}

		entry := FilingEntry{
			DirectoryURL: NormalizeFilingURL(link),
			Title:        strings.TrimSpace(item.Title),
			Updated:      item.UpdatedParsed,
		}
		if meta, err := ExtractMetadataFromURL(entry.DirectoryURL); err == nil {
			entry.Metadata = meta
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// checkWellFormed reads every XML token of body
func checkWellFormed(body string) error {
	decoder := xml.NewDecoder(strings.NewReader(body))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	for {
		if _, err := decoder.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// NormalizeFilingURL rewrites a feed link to the filing's index.json URL:
//
//	.../data/320193/000032019324000081/0000320193-24-000081-index.htm
//	.../data/320193/000032019324000081/index.json
//
// Rules, in order: the -index.html / -index.htm suffix becomes /index.json;
// hyphens are stripped from the path; a URL that then splits into exactly 10
// "/" segments loses segment 7, the duplicated accession directory.
func NormalizeFilingURL(link string) string {
	normalized := link
	switch {
	case strings.HasSuffix(normalized, "-index.html"):
		normalized = strings.TrimSuffix(normalized, "-index.html") + "/index.json"
	case strings.HasSuffix(normalized, "-index.htm"):
		normalized = strings.TrimSuffix(normalized, "-index.htm") + "/index.json"
	}

	prefix, path := splitOrigin(normalized)
	normalized = prefix + strings.ReplaceAll(path, "-", "")

	// Only observed for the accession-directory shape; covered by fixtures, not generalized.
	segments := strings.Split(normalized, "/")
	if len(segments) == 10 {
		segments = append(segments[:7], segments[8:]...)
		normalized = strings.Join(segments, "/")
	}

	return normalized
}

// splitOrigin splits "scheme://host/path" into "scheme://host" and "/path".
// Input without a scheme is treated as all path.
func splitOrigin(raw string) (string, string) {
	i := strings.Index(raw, "://")
	if i < 0 {
		return "", raw
	}
	rest := raw[i+3:]
	j := strings.Index(rest, "/")
	if j < 0 {
		return raw, ""
	}
	return raw[:i+3+j], rest[j:]
}
