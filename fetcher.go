package edgar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	VERSION = "0.4.0"

	// DefaultRequestsPerSecond is the SEC fair-access ceiling (10 requests/second max)
	DefaultRequestsPerSecond = 10

	// DefaultTimeout bounds a single request
	DefaultTimeout = 30 * time.Second

	// SecEmailEnvVar is the environment variable name for SEC email
	SecEmailEnvVar = "SEC_EMAIL"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// GetSecEmail retrieves email from environment variable or returns error
func GetSecEmail() (string, error) {
	return ValidateSecEmail(os.Getenv(SecEmailEnvVar))
}

// ValidateSecEmail checks that email is usable as the SEC contact address
func ValidateSecEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("SEC email required: set %s environment variable or use --email flag", SecEmailEnvVar)
	}
	if !emailRegex.MatchString(email) {
		return "", fmt.Errorf("invalid email format: %s", email)
	}
	if strings.HasSuffix(email, "example.com") {
		return "", fmt.Errorf("use a real email address, not example.com: %s", email)
	}
	return email, nil
}

// BuildUserAgent creates a proper SEC User-Agent string
func BuildUserAgent(email string) string {
	return fmt.Sprintf("go-edgar/%s (%s)", VERSION, email)
}

// RateWindow is a fixed one-second request budget. Once limit requests have
// been admitted inside the current window, Acquire sleeps until the window
// has lasted a full second and then opens a new one.
//
// The mutex is held across the sleep, so goroutines sharing a window queue
// behind each other and the budget stays global to the window.
type RateWindow struct {
	mu    sync.Mutex
	start time.Time
	count int
	limit int

	now   func() time.Time
	sleep func(time.Duration)
}

// NewRateWindow returns a window admitting limit requests per second.
// A non-positive limit falls back to DefaultRequestsPerSecond.
func NewRateWindow(limit int) *RateWindow {
	if limit <= 0 {
		limit = DefaultRequestsPerSecond
	}
	return &RateWindow{
		limit: limit,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Limit returns the number of requests admitted per window.
func (w *RateWindow) Limit() int {
	return w.limit
}

// Acquire blocks until one more request fits in the budget and records it.
// It returns how long it slept.
func (w *RateWindow) Acquire() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	elapsed := now.Sub(w.start)
	if w.start.IsZero() || elapsed >= time.Second {
		w.start = now
		w.count = 0
		elapsed = 0
	}

	var waited time.Duration
	if w.count >= w.limit {
		if wait := time.Second - elapsed; wait > 0 {
			w.sleep(wait)
			waited = wait
		}
		w.start = w.now()
		w.count = 0
	}

	w.count++
	return waited
}

// Getter is what the resolvers need from a fetcher.
type Getter interface {
	Fetch(ctx context.Context, rawURL string, params url.Values) (string, error)
}

// Fetcher issues SEC GET requests with the identifying User-Agent header,
// throttled by a RateWindow shared by every caller of this Fetcher.
type Fetcher struct {
	client    *http.Client
	userAgent string
	window    *RateWindow
	logger    *zap.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithRateWindow replaces the default 10 requests/second window.
func WithRateWindow(w *RateWindow) FetcherOption {
	return func(f *Fetcher) {
		f.window = w
	}
}

// WithFetchLogger sets the logger used for request tracing.
func WithFetchLogger(logger *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher. userAgent is required by SEC; build it with
// BuildUserAgent from a real contact email.
func NewFetcher(userAgent string, opts ...FetcherOption) (*Fetcher, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, fmt.Errorf("user agent is required for SEC requests")
	}

	f := &Fetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: userAgent,
		window:    NewRateWindow(DefaultRequestsPerSecond),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	return f, nil
}

// Fetch GETs rawURL with params appended to its query and returns the body.
// It never retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, params url.Values) (string, error) {
	reqURL := rawURL
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		reqURL = rawURL + sep + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request for %s: %w", ErrNetwork, rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	if waited := f.window.Acquire(); waited > 0 {
		f.logger.Debug("rate window exhausted", zap.Duration("waited", waited))
	}

	f.logger.Debug("GET", zap.String("url", reqURL))
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %w", ErrNetwork, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: SEC returned status %d for %s", ErrNetwork, resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response from %s: %w", ErrNetwork, rawURL, err)
	}

	return string(body), nil
}
