package edgar

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ReportDescriptor is one report of a filing's summary manifest
type ReportDescriptor struct {
	ShortName    string `json:"shortName"`
	LongName     string `json:"longName,omitempty"`
	MenuCategory string `json:"menuCategory,omitempty"`
	Position     string `json:"position,omitempty"`
	FileName     string `json:"fileName,omitempty"`
	DocumentURL  string `json:"documentUrl"`
}

// filingSummary accepts both <FilingSummary><MyReports><Report> and a
// bare <MyReports><Report> root.
type filingSummary struct {
	XMLName xml.Name
	Nested  []filingReport `xml:"MyReports>Report"`
	Direct  []filingReport `xml:"Report"`
}

type filingReport struct {
	ShortName    string `xml:"ShortName"`
	LongName     string `xml:"LongName"`
	HtmlFileName string `xml:"HtmlFileName"`
	XmlFileName  string `xml:"XmlFileName"`
	MenuCategory string `xml:"MenuCategory"`
	Position     string `xml:"Position"`
}

// fileName prefers the HTML rendering; empty when the report has neither
func (r filingReport) fileName() string {
	if name := strings.TrimSpace(r.HtmlFileName); name != "" {
		return name
	}
	return strings.TrimSpace(r.XmlFileName)
}

// Reports fetches the FilingSummary.xml at summaryURL and returns its reports
// in manifest order.
func (c *Client) Reports(ctx context.Context, summaryURL string) ([]ReportDescriptor, error) {
	body, err := c.fetcher.Fetch(ctx, summaryURL, nil)
	if err != nil {
		return nil, err
	}
	return ParseFilingSummary(body, summaryURL)
}

// ParseFilingSummary parses a FilingSummary.xml body fetched from summaryURL.
// The final report is a placeholder for the containing document and is
// dropped whenever the manifest lists more than one report.
func ParseFilingSummary(body, summaryURL string) ([]ReportDescriptor, error) {
	decoder := xml.NewDecoder(strings.NewReader(body))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		// Treat ASCII and other charsets as UTF-8
		return input, nil
	}

	var summary filingSummary
	if err := decoder.Decode(&summary); err != nil {
		return nil, fmt.Errorf("%w: filing summary %s: %w", ErrParse, summaryURL, err)
	}

	reports := summary.Nested
	if len(reports) == 0 {
		reports = summary.Direct
	}
	if len(reports) > 1 {
		reports = reports[:len(reports)-1]
	}

	base := strings.TrimSuffix(summaryURL, FilingSummaryName)
	descriptors := make([]ReportDescriptor, 0, len(reports))
	for _, r := range reports {
		d := ReportDescriptor{
			ShortName:    strings.TrimSpace(r.ShortName),
			LongName:     strings.TrimSpace(r.LongName),
			MenuCategory: strings.TrimSpace(r.MenuCategory),
			Position:     strings.TrimSpace(r.Position),
			FileName:     r.fileName(),
		}
		if d.FileName != "" {
			d.DocumentURL = base + d.FileName
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}
