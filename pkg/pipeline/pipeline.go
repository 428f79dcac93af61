package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/websift/websift/internal/models"
	"github.com/websift/websift/pkg/cache"
	"github.com/websift/websift/pkg/scraper"
	"github.com/websift/websift/pkg/search"
)

const noContentScraped = "No content scraped."

// Options configures a pipeline run.
type Options struct {
	MaxResults     int
	TimeRange      string
	Include        []string
	Exclude        []string
	SkipRestricted bool
}

// Pipeline ties search, scraping, and the result cache together: cached
// queries return verbatim with no network activity, everything else goes
// through search → scrape → assembly → cache write.
type Pipeline struct {
	searcher search.Searcher
	scraper  *scraper.Scraper
	cache    *cache.Cache
	logger   *zap.Logger
}

// New creates a Pipeline. cache may be nil to disable caching.
func New(searcher search.Searcher, s *scraper.Scraper, c *cache.Cache, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		searcher: searcher,
		scraper:  s,
		cache:    c,
		logger:   logger,
	}
}

// Run returns the combined records for query. Only a search-provider failure
// is reported as an error; scrape failures degrade to sentinel records.
func (p *Pipeline) Run(ctx context.Context, query string, opts Options) ([]models.CombinedRecord, error) {
	if p.cache != nil {
		records, ok, err := p.cache.Get(query)
		if err != nil {
			p.logger.Warn("cache read failed", zap.String("query", query), zap.Error(err))
		} else if ok {
			p.logger.Info("loaded cached results", zap.String("query", query))
			return records, nil
		}
	}

	p.logger.Info("searching", zap.String("query", query))
	results, err := p.searcher.Search(ctx, query, search.Options{
		MaxResults: opts.MaxResults,
		TimeRange:  opts.TimeRange,
		Include:    opts.Include,
		Exclude:    opts.Exclude,
	})
	if err != nil {
		p.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if len(results) == 0 {
		p.logger.Info("no search results", zap.String("query", query))
		return nil, nil
	}

	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.Link)
	}
	pages := p.scraper.ScrapeMany(ctx, urls)

	combined := make([]models.CombinedRecord, 0, len(results))
	for _, r := range results {
		page := pages[r.Link]
		restricted := strings.Contains(page.Content, scraper.DeniedContent)
		if restricted && opts.SkipRestricted {
			p.logger.Info("skipped restricted page", zap.String("url", r.Link))
			continue
		}

		content := page.Content
		if content == "" {
			content = noContentScraped
		}
		wordCount := 0
		if !restricted && content != noContentScraped {
			wordCount = len(strings.Fields(content))
		}

		links := page.Links
		if links == nil {
			links = []string{}
		}

		combined = append(combined, models.CombinedRecord{
			Title:          r.Title,
			Snippet:        r.Snippet,
			Link:           r.Link,
			ScrapedContent: content,
			WordCount:      wordCount,
			Source:         hostOf(r.Link),
			ScrapedLinks:   links,
		})
	}

	if p.cache != nil {
		if err := p.cache.Put(query, combined); err != nil {
			p.logger.Warn("cache write failed", zap.String("query", query), zap.Error(err))
		}
	}
	return combined, nil
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Host
}
