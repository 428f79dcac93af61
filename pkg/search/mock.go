package search

import (
	"context"

	"github.com/websift/websift/internal/models"
)

// MockSearcher returns canned results. Intended for tests and offline runs.
type MockSearcher struct {
	Results []models.SearchResult
	Err     error

	// Calls counts Search invocations.
	Calls int
}

// Search returns the canned results, capped and filtered like a real
// provider.
func (m *MockSearcher) Search(_ context.Context, _ string, opts Options) ([]models.SearchResult, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}

	results := m.Results
	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return FilterResults(results, opts.Include, opts.Exclude), nil
}
