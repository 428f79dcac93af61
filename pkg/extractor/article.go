package extractor

import (
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"go.uber.org/zap"
)

// extractArticle pulls whole-article text out of rawHTML with trafilatura.
// An empty return means the caller should fall back to paragraph extraction.
func (e *Extractor) extractArticle(rawHTML, sourceURL string) string {
	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{})
	if err != nil {
		e.logger.Warn("article extraction failed, falling back to paragraphs",
			zap.String("url", sourceURL),
			zap.Error(err))
		return ""
	}
	if result == nil {
		return ""
	}
	return strings.TrimSpace(result.ContentText)
}
