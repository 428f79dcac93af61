package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/websift/websift/internal/models"
	"github.com/websift/websift/pkg/cache"
	"github.com/websift/websift/pkg/extractor"
	"github.com/websift/websift/pkg/fetcher"
	"github.com/websift/websift/pkg/ratelimit"
	"github.com/websift/websift/pkg/robots"
	"github.com/websift/websift/pkg/scraper"
	"github.com/websift/websift/pkg/search"
)

func newTestScraper() *scraper.Scraper {
	logger := zap.NewNop()
	f := fetcher.New(fetcher.Options{
		UserAgent:  "websift-test",
		Timeout:    5 * time.Second,
		MaxRetries: 1,
	}, ratelimit.New(0), logger)
	policy := robots.NewPolicy(http.DefaultClient, "websift-test", logger)
	ext := extractor.New(false, extractor.ModeParagraphs, logger)
	return scraper.New(policy, f, ext, logger)
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRunSkipsRestrictedPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			w.Write([]byte("User-agent: *\nDisallow: /blocked\n"))
		case "/open":
			w.Write([]byte("<html><head><title>Open</title></head><body><main><p>alpha beta gamma delta</p></main></body></html>"))
		default:
			w.Write([]byte("<html><body><main><p>hidden</p></main></body></html>"))
		}
	}))
	defer server.Close()

	searcher := &search.MockSearcher{Results: []models.SearchResult{
		{Title: "Open page", Link: server.URL + "/open", Snippet: "open"},
		{Title: "Blocked page", Link: server.URL + "/blocked", Snippet: "blocked"},
	}}

	p := New(searcher, newTestScraper(), nil, zap.NewNop())
	records, err := p.Run(context.Background(), "q", Options{MaxResults: 5, SkipRestricted: true})
	require.NoError(t, err)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Open page", rec.Title)
	assert.Equal(t, "alpha beta gamma delta", rec.ScrapedContent)
	assert.Equal(t, 4, rec.WordCount)

	u, _ := url.Parse(server.URL)
	assert.Equal(t, u.Host, rec.Source)
}

func TestRunKeepsRestrictedPagesByDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /\n"))
			return
		}
		w.Write([]byte("<html><body><main><p>hidden</p></main></body></html>"))
	}))
	defer server.Close()

	searcher := &search.MockSearcher{Results: []models.SearchResult{
		{Title: "Blocked", Link: server.URL + "/page", Snippet: "s"},
	}}

	p := New(searcher, newTestScraper(), nil, zap.NewNop())
	records, err := p.Run(context.Background(), "q", Options{MaxResults: 5})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, scraper.DeniedContent, records[0].ScrapedContent)
	assert.Equal(t, 0, records[0].WordCount, "restricted pages carry no word count")
	assert.Equal(t, []string{}, records[0].ScrapedLinks)
}

func TestRunCacheHitSkipsSearch(t *testing.T) {
	c := newTestCache(t)
	cached := []models.CombinedRecord{{Title: "cached", ScrapedLinks: []string{}}}
	require.NoError(t, c.Put("q", cached))

	searcher := &search.MockSearcher{}
	p := New(searcher, newTestScraper(), c, zap.NewNop())

	records, err := p.Run(context.Background(), "q", Options{MaxResults: 5})
	require.NoError(t, err)
	assert.Equal(t, cached, records)
	assert.Equal(t, 0, searcher.Calls, "cache hit must not touch the search provider")
}

func TestRunStoresResultsInCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("<html><head><title>T</title></head><body><main><p>content</p></main></body></html>"))
	}))
	defer server.Close()

	c := newTestCache(t)
	searcher := &search.MockSearcher{Results: []models.SearchResult{
		{Title: "T", Link: server.URL + "/page", Snippet: "s"},
	}}
	p := New(searcher, newTestScraper(), c, zap.NewNop())

	first, err := p.Run(context.Background(), "q", Options{MaxResults: 5})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := p.Run(context.Background(), "q", Options{MaxResults: 5})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, searcher.Calls, "second run must come from the cache")
}

func TestRunSearchErrorAborts(t *testing.T) {
	searcher := &search.MockSearcher{Err: errors.New("provider down")}
	p := New(searcher, newTestScraper(), nil, zap.NewNop())

	_, err := p.Run(context.Background(), "q", Options{MaxResults: 5})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestRunNoResults(t *testing.T) {
	searcher := &search.MockSearcher{}
	p := New(searcher, newTestScraper(), nil, zap.NewNop())

	records, err := p.Run(context.Background(), "q", Options{MaxResults: 5})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunFetchFailureDegradesToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	link := server.URL + "/down"
	searcher := &search.MockSearcher{Results: []models.SearchResult{
		{Title: "Down", Link: link, Snippet: "s"},
	}}
	p := New(searcher, newTestScraper(), nil, zap.NewNop())

	records, err := p.Run(context.Background(), "q", Options{MaxResults: 5})
	require.NoError(t, err, "scrape failures must not fail the run")
	require.Len(t, records, 1)
	assert.Equal(t, "Failed to fetch "+link, records[0].ScrapedContent)
}
