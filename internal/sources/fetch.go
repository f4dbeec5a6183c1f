package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/betthink/internal/extract"
)

const (
	fetchMaxRetries = 3
	maxRedirects    = 5
)

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = sleepContext

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// Fetcher retrieves source pages. Grounding URIs are usually redirect links,
// so redirects are followed and the final URL is reported.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher wraps client with redirect limits. client's timeout and proxy are kept.
func NewFetcher(client *http.Client, userAgent string, maxBytes int64) *Fetcher {
	c := *client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}

	return &Fetcher{
		httpClient: &c,
		userAgent:  userAgent,
		maxBytes:   maxBytes,
	}
}

// FetchResult contains what verification needs from a page
type FetchResult struct {
	FinalURL    string
	StatusCode  int
	ContentType string
	Title       string
}

// Fetch retrieves a page and extracts its title when it is HTML
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	result := &FetchResult{
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if isHTML(result.ContentType) {
		title, err := extract.PageTitle(io.LimitReader(resp.Body, f.maxBytes))
		if err != nil {
			return result, fmt.Errorf("parse page: %w", err)
		}
		result.Title = title
	}

	return result, nil
}

// FetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var (
		result *FetchResult
		err    error
	)
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		result, err = f.Fetch(ctx, rawURL)
		if !isRetryableFetchError(err) || ctx.Err() != nil {
			return result, err
		}
		if attempt < fetchMaxRetries-1 {
			if sleepErr := fetchSleepFunc(ctx, time.Duration(1<<uint(attempt))*time.Second); sleepErr != nil {
				return result, err
			}
		}
	}
	return result, err
}

// isRetryableFetchError reports 5xx, 429 and transient network failures
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}

	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
