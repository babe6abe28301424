package edgar

import (
	"go.uber.org/zap"
)

// Client runs the filing resolution pipeline. All of its requests go through
// one Getter, so a Fetcher's rate window covers every stage.
type Client struct {
	fetcher   Getter
	logger    *zap.Logger
	keywords  []string
	browseURL string
	tickerURL string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets a logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithKeywords replaces BalanceSheetKeywords for statement selection.
func WithKeywords(keywords ...string) ClientOption {
	return func(c *Client) {
		c.keywords = keywords
	}
}

// WithBrowseURL points the filing search at another endpoint.
func WithBrowseURL(u string) ClientOption {
	return func(c *Client) {
		c.browseURL = u
	}
}

// WithTickerURL points LookupCIK at another ticker table.
func WithTickerURL(u string) ClientOption {
	return func(c *Client) {
		c.tickerURL = u
	}
}

// NewClient creates a Client issuing every request through fetcher.
func NewClient(fetcher Getter, opts ...ClientOption) *Client {
	c := &Client{
		fetcher:   fetcher,
		logger:    zap.NewNop(),
		keywords:  BalanceSheetKeywords,
		browseURL: BrowseEdgarURL,
		tickerURL: TickerTableURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Keywords returns the statement selection keywords in use.
func (c *Client) Keywords() []string {
	return c.keywords
}
