package edgar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives a RateWindow by hand; sleep advances the clock
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) window(limit int) *RateWindow {
	w := NewRateWindow(limit)
	w.now = func() time.Time { return c.now }
	w.sleep = func(d time.Duration) {
		c.sleeps = append(c.sleeps, d)
		c.now = c.now.Add(d)
	}
	return w
}

func TestRateWindow_AdmitsLimitThenWaits(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 8, 2, 10, 0, 0, 0, time.UTC)}
	w := clock.window(10)

	for i := 0; i < 10; i++ {
		assert.Zero(t, w.Acquire(), "request %d should not wait", i+1)
		clock.now = clock.now.Add(10 * time.Millisecond)
	}

	// 100ms into the window, the 11th request waits out the remaining 900ms
	waited := w.Acquire()
	assert.Equal(t, 900*time.Millisecond, waited)
	require.Len(t, clock.sleeps, 1)
	assert.GreaterOrEqual(t, clock.sleeps[0], time.Second-100*time.Millisecond)

	// A new window opened with the 11th request counted in it
	for i := 0; i < 9; i++ {
		assert.Zero(t, w.Acquire())
	}
	assert.Equal(t, time.Second, w.Acquire())
}

func TestRateWindow_ResetsAfterOneSecond(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 8, 2, 10, 0, 0, 0, time.UTC)}
	w := clock.window(3)

	for i := 0; i < 3; i++ {
		w.Acquire()
	}
	clock.now = clock.now.Add(time.Second)

	assert.Zero(t, w.Acquire())
	assert.Empty(t, clock.sleeps)
}

func TestRateWindow_SharedAcrossGoroutines(t *testing.T) {
	// The window mutex serializes the fake clock as well
	clock := &fakeClock{now: time.Date(2024, 8, 2, 10, 0, 0, 0, time.UTC)}
	w := clock.window(10)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Acquire()
		}()
	}
	wg.Wait()

	// 10 + 10 + 5 requests need two full waits
	assert.Equal(t, []time.Duration{time.Second, time.Second}, clock.sleeps)
}

func TestNewRateWindow_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultRequestsPerSecond, NewRateWindow(0).Limit())
	assert.Equal(t, DefaultRequestsPerSecond, NewRateWindow(-3).Limit())
	assert.Equal(t, 4, NewRateWindow(4).Limit())
}

func TestNewFetcher_RequiresUserAgent(t *testing.T) {
	_, err := NewFetcher("  ")
	assert.Error(t, err)
}

func TestFetch_SendsUserAgentAndParams(t *testing.T) {
	var gotUA string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query()
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ua := BuildUserAgent("test@rxdatalab.com")
	f, err := NewFetcher(ua)
	require.NoError(t, err)

	body, err := f.Fetch(context.Background(), srv.URL+"/cgi-bin/browse-edgar", FilingSearchParams("aapl", "20240101"))
	require.NoError(t, err)

	assert.Equal(t, "ok", body)
	assert.Equal(t, "go-edgar/"+VERSION+" (test@rxdatalab.com)", gotUA)
	assert.Equal(t, "getcompany", gotQuery.Get("action"))
	assert.Equal(t, "aapl", gotQuery.Get("ticker"))
	assert.Equal(t, "10-Q", gotQuery.Get("type"))
	assert.Equal(t, "20240101", gotQuery.Get("dateb"))
	assert.Equal(t, "atom", gotQuery.Get("output"))
	assert.Equal(t, "100", gotQuery.Get("count"))
}

func TestFetch_AppendsToExistingQuery(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
	}))
	defer srv.Close()

	f, err := NewFetcher(BuildUserAgent("test@rxdatalab.com"))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), srv.URL+"/search?a=1", url.Values{"b": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, "a=1&b=2", rawQuery)
}

func TestFetch_NonOKIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f, err := NewFetcher(BuildUserAgent("test@rxdatalab.com"))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), srv.URL, nil)
	require.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), "429")
}

func TestFetch_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	f, err := NewFetcher(BuildUserAgent("test@rxdatalab.com"), WithHTTPClient(&http.Client{Timeout: time.Second}))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), addr, nil)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestValidateSecEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"research@rxdatalab.com", false},
		{"  first.last+sec@fund.co.uk ", false},
		{"", true},
		{"not-an-email", true},
		{"someone@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got, err := ValidateSecEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, got, " ")
		})
	}
}

// TestFetch_RealSEC fetches the ticker table from SEC (integration test)
// Skip in short mode to avoid rate limiting
func TestFetch_RealSEC(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	email, err := ValidateSecEmail(os.Getenv(SecEmailEnvVar))
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}

	f, err := NewFetcher(BuildUserAgent(email))
	require.NoError(t, err)

	cik, err := NewClient(f).LookupCIK(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "320193", cik)
}
