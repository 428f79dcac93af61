package scraper

import (
	"context"

	"go.uber.org/zap"

	"github.com/websift/websift/internal/models"
	"github.com/websift/websift/pkg/extractor"
	"github.com/websift/websift/pkg/fetcher"
	"github.com/websift/websift/pkg/robots"
)

// DeniedContent is the sentinel content of a page the robots policy refused.
const DeniedContent = "Access denied by robots.txt"

const noTitle = "No Title"

// Scraper coordinates the robots policy, fetcher, and extractor for one or
// many URLs. Per-URL failures are converted to sentinel records; a batch
// always runs to completion.
type Scraper struct {
	policy    *robots.Policy
	fetcher   *fetcher.Fetcher
	extractor *extractor.Extractor
	logger    *zap.Logger
}

// New creates a Scraper.
func New(policy *robots.Policy, f *fetcher.Fetcher, e *extractor.Extractor, logger *zap.Logger) *Scraper {
	return &Scraper{
		policy:    policy,
		fetcher:   f,
		extractor: e,
		logger:    logger,
	}
}

// Scrape resolves one URL through policy check, fetch, and extraction.
// Policy-restricted and unfetchable pages produce sentinel records rather
// than errors.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) models.ScrapedPage {
	if !s.policy.CanFetch(ctx, pageURL) {
		s.logger.Info("access denied by robots.txt", zap.String("url", pageURL))
		return models.ScrapedPage{
			Title:   noTitle,
			Content: DeniedContent,
			Links:   []string{},
		}
	}

	markup, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return models.ScrapedPage{
			Title:   noTitle,
			Content: "Failed to fetch " + pageURL,
			Links:   []string{},
		}
	}

	return s.extractor.Extract(markup, pageURL)
}

// ScrapeMany scrapes urls sequentially and returns a record per URL. One
// URL's failure never aborts the batch.
func (s *Scraper) ScrapeMany(ctx context.Context, urls []string) map[string]models.ScrapedPage {
	results := make(map[string]models.ScrapedPage, len(urls))
	for _, u := range urls {
		s.logger.Info("scraping", zap.String("url", u))
		results[u] = s.Scrape(ctx, u)
	}
	return results
}
