package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/websift/websift/pkg/ratelimit"
)

// Mode selects how pages are retrieved. It is resolved once at construction
// and fixed for the Fetcher's lifetime.
type Mode int

const (
	// ModeStatic fetches pages with a plain HTTP GET.
	ModeStatic Mode = iota
	// ModeBrowser renders pages in a headless browser before returning the
	// markup.
	ModeBrowser
)

// Options configures a Fetcher.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	EnableJS   bool
}

// Fetcher retrieves raw page markup over the network. Static fetches retry
// with exponential backoff; browser fetches are single-shot. Failures are
// logged and reported as errors so callers can degrade without aborting a
// batch.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	timeout    time.Duration
	maxRetries int
	mode       Mode
	limiter    *ratelimit.Limiter
	logger     *zap.Logger

	// backoff returns the delay before retry attempt+1. Overridable in tests.
	backoff func(attempt int) time.Duration
}

// New creates a Fetcher. If opts.EnableJS is set but no headless browser
// binary is available, the Fetcher silently falls back to static fetching
// and logs a warning.
func New(opts Options, limiter *ratelimit.Limiter, logger *zap.Logger) *Fetcher {
	mode := ModeStatic
	if opts.EnableJS {
		if browserAvailable() {
			mode = ModeBrowser
		} else {
			logger.Warn("no headless browser binary found, JavaScript rendering disabled")
		}
	}

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &Fetcher{
		client:     &http.Client{Timeout: opts.Timeout},
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		maxRetries: maxRetries,
		mode:       mode,
		limiter:    limiter,
		logger:     logger,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt)) * time.Second
		},
	}
}

// Mode reports which fetch path was selected at construction.
func (f *Fetcher) Mode() Mode {
	return f.mode
}

// Fetch retrieves the raw markup for pageURL. A non-nil error means the page
// is unfetchable; callers should proceed with degraded data rather than
// aborting the batch.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if f.mode == ModeBrowser {
		return f.render(ctx, pageURL)
	}
	return f.fetchStatic(ctx, pageURL)
}

func (f *Fetcher) fetchStatic(ctx context.Context, pageURL string) (string, error) {
	domain := hostOf(pageURL)

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if err := f.limiter.Wait(ctx, domain); err != nil {
			return "", fmt.Errorf("rate limit wait for %s: %w", domain, err)
		}

		markup, err := f.doGet(ctx, pageURL)
		if err == nil {
			return markup, nil
		}
		lastErr = err
		f.logger.Warn("fetch attempt failed",
			zap.String("url", pageURL),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", f.maxRetries),
			zap.Error(err))

		if attempt < f.maxRetries-1 {
			select {
			case <-time.After(f.backoff(attempt)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	f.logger.Error("failed to fetch after retries",
		zap.String("url", pageURL),
		zap.Int("max_retries", f.maxRetries),
		zap.Error(lastErr))
	return "", fmt.Errorf("fetch %s after %d attempts: %w", pageURL, f.maxRetries, lastErr)
}

func (f *Fetcher) doGet(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	return u.Host
}
