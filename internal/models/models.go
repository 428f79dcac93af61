package models

// SearchResult is a single hit returned by a search provider.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// ScrapedPage holds the content extracted from one fetched page.
type ScrapedPage struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    string   `json:"keywords"`
	Content     string   `json:"content"`
	Links       []string `json:"links"`
}

// CombinedRecord merges a search result with its scraped page. WordCount is
// zero when the page was robots-restricted; Source is the host component of
// Link.
type CombinedRecord struct {
	Title          string   `json:"title"`
	Snippet        string   `json:"snippet"`
	Link           string   `json:"link"`
	ScrapedContent string   `json:"scraped_content"`
	WordCount      int      `json:"word_count"`
	Source         string   `json:"source"`
	ScrapedLinks   []string `json:"scraped_links"`
}
