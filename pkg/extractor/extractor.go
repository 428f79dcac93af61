package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/websift/websift/internal/models"
)

const (
	maxContentChars   = 2400
	maxLinks          = 10
	summarizeMinWords = 100
	summarySentences  = 3

	noTitle       = "No Title"
	noDescription = "No Description"
	noKeywords    = "No Keywords"
	noContent     = "No main content found."
)

// Mode selects the primary-content extraction strategy.
type Mode string

const (
	// ModeParagraphs joins the text of paragraph elements inside the first
	// main/article/section/div container.
	ModeParagraphs Mode = "paragraphs"
	// ModeArticle extracts whole-article text with trafilatura, falling back
	// to ModeParagraphs when it finds nothing.
	ModeArticle Mode = "article"
)

// Extractor parses raw markup into structured metadata, primary textual
// content, and outbound links.
type Extractor struct {
	summarize bool
	mode      Mode
	logger    *zap.Logger
}

// New creates an Extractor. When summarize is set, content longer than 100
// words is condensed to its first three sentences.
func New(summarize bool, mode Mode, logger *zap.Logger) *Extractor {
	if mode == "" {
		mode = ModeParagraphs
	}
	return &Extractor{
		summarize: summarize,
		mode:      mode,
		logger:    logger,
	}
}

// Extract parses rawHTML into a ScrapedPage. Missing markup elements yield
// field-level defaults; Extract never fails.
func (e *Extractor) Extract(rawHTML, sourceURL string) models.ScrapedPage {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		e.logger.Warn("failed to parse markup",
			zap.String("url", sourceURL),
			zap.Error(err))
		return models.ScrapedPage{
			Title:       noTitle,
			Description: noDescription,
			Keywords:    noKeywords,
			Content:     noContent,
			Links:       []string{},
		}
	}

	// Boilerplate suppression before any text extraction.
	doc.Find("script, style, nav, footer, header").Remove()

	page := models.ScrapedPage{
		Title:       textOrDefault(doc.Find("title").First().Text(), noTitle),
		Description: metaContent(doc, "description", noDescription),
		Keywords:    metaContent(doc, "keywords", noKeywords),
		Links:       e.collectLinks(doc, sourceURL),
	}

	content := ""
	if e.mode == ModeArticle {
		content = e.extractArticle(rawHTML, sourceURL)
	}
	if content == "" {
		content = extractParagraphs(doc)
	}
	content = truncate(strings.TrimSpace(content), maxContentChars)

	if e.summarize && len(strings.Fields(content)) > summarizeMinWords {
		content = summarizeText(content)
	}
	if content == "" {
		content = noContent
	}
	page.Content = content

	return page
}

// extractParagraphs joins the text of all paragraph elements inside the
// primary content container: the first of main, article, section, div, else
// the whole document.
func extractParagraphs(doc *goquery.Document) string {
	container := doc.Selection
	for _, selector := range []string{"main", "article", "section", "div"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			container = sel
			break
		}
	}

	var parts []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		parts = append(parts, strings.TrimSpace(p.Text()))
	})
	return strings.Join(parts, " ")
}

// summarizeText reduces text to its first three sentences. Texts of three or
// fewer sentences pass through unchanged.
func summarizeText(text string) string {
	sentences := strings.Split(text, ". ")
	if len(sentences) <= summarySentences {
		return text
	}
	return strings.Join(sentences[:summarySentences], ". ") + "..."
}

// collectLinks resolves anchor hrefs against sourceURL, deduplicates, and
// caps the result at the first ten entries after dedup.
func (e *Extractor) collectLinks(doc *goquery.Document, sourceURL string) []string {
	base, err := url.Parse(sourceURL)
	if err != nil {
		base = nil
	}

	links := []string{}
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		abs := href
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				abs = base.ResolveReference(ref).String()
			}
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		if len(links) < maxLinks {
			links = append(links, abs)
		}
	})
	return links
}

func metaContent(doc *goquery.Document, name, fallback string) string {
	content, exists := doc.Find("meta[name=" + name + "]").First().Attr("content")
	return textOrDefaultIf(exists, content, fallback)
}

func textOrDefault(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

func textOrDefaultIf(exists bool, s, fallback string) string {
	if !exists {
		return fallback
	}
	return textOrDefault(s, fallback)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
