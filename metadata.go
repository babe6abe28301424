package edgar

import (
	"fmt"
	"regexp"
)

// FilingMetadata contains information extracted from SEC archive URLs
type FilingMetadata struct {
	CIK       string `json:"cik"`
	Accession string `json:"accession"`
}

var archivePathPattern = regexp.MustCompile(`/edgar/data/(\d+)/(\d+)(?:/|$)`)

// ExtractMetadataFromURL parses SEC EDGAR URLs to extract CIK and accession number
// Example URL: https://www.sec.gov/Archives/edgar/data/320193/000032019324000081/index.json
func ExtractMetadataFromURL(url string) (*FilingMetadata, error) {
	// Pattern: /edgar/data/{CIK}/{ACCESSION}[/...]
	matches := archivePathPattern.FindStringSubmatch(url)
	if len(matches) < 3 {
		return nil, fmt.Errorf("could not extract CIK and accession from URL %s", url)
	}

	return &FilingMetadata{
		CIK:       matches[1],
		Accession: FormatAccession(matches[2]),
	}, nil
}

// FormatAccession restores the dashed form of an 18-digit accession number:
// 000032019324000081 -> 0000320193-24-000081. Other lengths are returned as is.
func FormatAccession(accession string) string {
	if len(accession) != 18 {
		return accession
	}
	return accession[:10] + "-" + accession[10:12] + "-" + accession[12:]
}
