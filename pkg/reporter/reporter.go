package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/websift/websift/internal/models"
)

// Fixed output filenames for exported result sets.
const (
	JSONFileName = "search_and_scrape_results.json"
	CSVFileName  = "search_and_scrape_results.csv"
)

const excerptChars = 500

// Reporter renders combined records as a table and exports them to JSON or
// CSV files.
type Reporter struct {
	out io.Writer
}

// New creates a Reporter writing its table output to out.
func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// WriteTable renders a summary table of the records.
func (r *Reporter) WriteTable(records []models.CombinedRecord) {
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tSNIPPET\tSOURCE\tWORD COUNT")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			rec.Title, rec.Snippet, rec.Source, rec.WordCount)
	}
	w.Flush()
}

// WriteDetails prints a per-result content excerpt and link list.
func (r *Reporter) WriteDetails(records []models.CombinedRecord) {
	for i, rec := range records {
		fmt.Fprintf(r.out, "\nResult %d: %s\n", i+1, rec.Title)
		fmt.Fprintf(r.out, "Scraped Content: %s...\n", excerpt(rec.ScrapedContent))
		fmt.Fprintf(r.out, "Links: %s\n", strings.Join(rec.ScrapedLinks, ", "))
	}
}

// Export writes the records in the specified format to its fixed filename.
func (r *Reporter) Export(records []models.CombinedRecord, format string) error {
	switch format {
	case "json":
		return r.exportJSON(records)
	case "csv":
		return r.exportCSV(records)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *Reporter) exportJSON(records []models.CombinedRecord) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := os.WriteFile(JSONFileName, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", JSONFileName, err)
	}
	fmt.Fprintf(r.out, "Results exported to %s\n", JSONFileName)
	return nil
}

func (r *Reporter) exportCSV(records []models.CombinedRecord) error {
	f, err := os.Create(CSVFileName)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", CSVFileName, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"title", "snippet", "link", "scraped_content", "word_count", "source", "scraped_links"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Title,
			rec.Snippet,
			rec.Link,
			rec.ScrapedContent,
			strconv.Itoa(rec.WordCount),
			rec.Source,
			strings.Join(rec.ScrapedLinks, " "),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	fmt.Fprintf(r.out, "Results exported to %s\n", CSVFileName)
	return nil
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptChars {
		return content
	}
	return string(runes[:excerptChars])
}
