package edgar

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// FilingSummaryName is the manifest file every XBRL filing directory carries
const FilingSummaryName = "FilingSummary.xml"

// DirectoryManifest is the parsed index.json of one filing directory
type DirectoryManifest struct {
	Name  string
	Items []DirectoryItem
}

// DirectoryItem is one file in a filing directory
type DirectoryItem struct {
	Name         string
	Type         string
	Size         string
	LastModified string
}

// ParseDirectoryManifest parses an index.json body.
// directory.name must be a non-empty string and directory.item a list.
func ParseDirectoryManifest(body string) (*DirectoryManifest, error) {
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("%w: directory manifest is not valid JSON", ErrParse)
	}

	name := gjson.Get(body, "directory.name")
	if name.Type != gjson.String || strings.Trim(name.String(), "/ ") == "" {
		return nil, fmt.Errorf("%w: directory manifest missing directory.name", ErrSchema)
	}
	items := gjson.Get(body, "directory.item")
	if !items.Exists() || !items.IsArray() {
		return nil, fmt.Errorf("%w: directory manifest missing directory.item list", ErrSchema)
	}

	manifest := &DirectoryManifest{Name: name.String()}
	items.ForEach(func(_, item gjson.Result) bool {
		manifest.Items = append(manifest.Items, DirectoryItem{
			Name:         item.Get("name").String(),
			Type:         item.Get("type").String(),
			Size:         item.Get("size").String(),
			LastModified: item.Get("last-modified").String(),
		})
		return true
	})

	return manifest, nil
}

// SummaryManifestURL returns the FilingSummary.xml URL under origin
// ("https://www.sec.gov") if the directory lists one. The match is exact and
// case-sensitive; the first match wins.
func (m *DirectoryManifest) SummaryManifestURL(origin string) (string, bool) {
	for _, item := range m.Items {
		if item.Name != FilingSummaryName {
			continue
		}
		dir := strings.Trim(m.Name, "/")
		return strings.TrimRight(origin, "/") + "/" + dir + "/" + FilingSummaryName, true
	}
	return "", false
}

// SummaryManifestURL fetches the directory manifest at directoryURL and
// locates its FilingSummary.xml. ok is false when the directory has none;
// that is not an error and the caller moves on to the next filing.
func (c *Client) SummaryManifestURL(ctx context.Context, directoryURL string) (summaryURL string, ok bool, err error) {
	body, err := c.fetcher.Fetch(ctx, directoryURL, nil)
	if err != nil {
		return "", false, err
	}

	manifest, err := ParseDirectoryManifest(body)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", directoryURL, err)
	}

	origin, err := originOf(directoryURL)
	if err != nil {
		return "", false, err
	}

	summaryURL, ok = manifest.SummaryManifestURL(origin)
	if !ok {
		c.logger.Debug("directory has no filing summary", zap.String("url", directoryURL), zap.Int("items", len(manifest.Items)))
	}
	return summaryURL, ok, nil
}

// originOf returns "scheme://host" of rawURL
func originOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: directory URL %q has no scheme/host", ErrParse, rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
