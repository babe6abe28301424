package edgar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// TickerTableURL is SEC's tab-separated ticker to CIK table
const TickerTableURL = "https://www.sec.gov/include/ticker.txt"

// ParseTickerTable reads "ticker<TAB>cik" lines into a map keyed by
// upper-case ticker. A line with fewer than two columns means SEC served a
// truncated body and yields ErrUserAgentRejected.
func ParseTickerTable(r io.Reader) (map[string]string, error) {
	table := make(map[string]string)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d %q: %w", line, text, ErrUserAgentRejected)
		}
		table[strings.ToUpper(fields[0])] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: ticker table: %w", ErrParse, err)
	}

	return table, nil
}

// LookupCIK fetches the ticker table and returns the CIK for ticker.
func (c *Client) LookupCIK(ctx context.Context, ticker string) (string, error) {
	body, err := c.fetcher.Fetch(ctx, c.tickerURL, nil)
	if err != nil {
		return "", err
	}

	table, err := ParseTickerTable(strings.NewReader(body))
	if err != nil {
		return "", err
	}

	cik, ok := table[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return "", fmt.Errorf("%w: ticker %s not in SEC ticker table", ErrNotFound, ticker)
	}
	return cik, nil
}
