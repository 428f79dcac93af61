package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/websift/websift/internal/models"
)

// timeRangeParams maps the CLI time-range tokens to SearxNG's values.
var timeRangeParams = map[string]string{
	"d": "day",
	"w": "week",
	"m": "month",
	"y": "year",
}

// SearxNGClient queries a SearxNG instance's JSON endpoint.
type SearxNGClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
}

// NewSearxNG creates a client for the SearxNG instance at baseURL.
func NewSearxNG(baseURL, userAgent string, logger *zap.Logger) *SearxNGClient {
	return &SearxNGClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search performs a web search and applies the keyword filters from opts.
func (c *SearxNGClient) Search(ctx context.Context, query string, opts Options) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	if tr, ok := timeRangeParams[opts.TimeRange]; ok {
		params.Set("time_range", tr)
	}

	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("querying search provider", zap.String("query", query))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}

	var payload searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		if opts.MaxResults > 0 && len(results) >= opts.MaxResults {
			break
		}
		results = append(results, models.SearchResult{
			Title:   orDefault(r.Title, "No Title"),
			Link:    orDefault(r.URL, "No Link"),
			Snippet: orDefault(r.Content, "No Snippet"),
		})
	}

	return FilterResults(results, opts.Include, opts.Exclude), nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
