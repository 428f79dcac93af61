package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

// Policy decides whether a URL may be fetched under its site's robots.txt
// rules. Retrieval or parse failures fail open: the fetch is permitted and a
// warning is logged.
type Policy struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger

	// Parsed robots data per origin. Failed retrievals are not cached so a
	// transient error does not stick for the rest of the run.
	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData
}

// NewPolicy creates a Policy that identifies itself as userAgent.
func NewPolicy(client *http.Client, userAgent string, logger *zap.Logger) *Policy {
	if client == nil {
		client = http.DefaultClient
	}
	return &Policy{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
		cache:     make(map[string]*robotstxt.RobotsData),
	}
}

// CanFetch reports whether pageURL may be fetched by the configured user
// agent.
func (p *Policy) CanFetch(ctx context.Context, pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		p.logger.Warn("cannot derive robots.txt location, allowing fetch",
			zap.String("url", pageURL))
		return true
	}

	origin := u.Scheme + "://" + u.Host

	p.mu.Lock()
	data, cached := p.cache[origin]
	p.mu.Unlock()

	if !cached {
		data, err = p.retrieve(ctx, origin)
		if err != nil {
			p.logger.Warn("error reading robots.txt, allowing fetch",
				zap.String("url", pageURL),
				zap.Error(err))
			return true
		}
		p.mu.Lock()
		p.cache[origin] = data
		p.mu.Unlock()
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.TestAgent(path, p.userAgent)
}

func (p *Policy) retrieve(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	robotsURL := origin + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build robots.txt request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", robotsURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", robotsURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", robotsURL, err)
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", robotsURL, err)
	}
	return data, nil
}
