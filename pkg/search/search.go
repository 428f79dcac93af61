package search

import (
	"context"
	"strings"

	"github.com/websift/websift/internal/models"
)

// Options configures a single search request.
type Options struct {
	// MaxResults caps the number of results before keyword filtering.
	MaxResults int

	// TimeRange is one of "d", "w", "m", "y", "none".
	TimeRange string

	// Include keeps only results whose title or snippet matches any keyword.
	Include []string

	// Exclude drops results whose title or snippet matches any keyword.
	// Exclude wins over Include.
	Exclude []string
}

// Searcher is a search provider returning candidate URLs for a query.
type Searcher interface {
	Search(ctx context.Context, query string, opts Options) ([]models.SearchResult, error)
}

// FilterResults applies case-insensitive include/exclude keyword filters
// against result titles and snippets. Include is OR-match-any, exclude is
// OR-match-any, and exclude wins when both match.
func FilterResults(results []models.SearchResult, include, exclude []string) []models.SearchResult {
	filtered := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		title := strings.ToLower(r.Title)
		snippet := strings.ToLower(r.Snippet)

		if len(include) > 0 && !matchesAny(title, snippet, include) {
			continue
		}
		if len(exclude) > 0 && matchesAny(title, snippet, exclude) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func matchesAny(title, snippet string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(title, kw) || strings.Contains(snippet, kw) {
			return true
		}
	}
	return false
}
