package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/websift/websift/internal/config"
	"github.com/websift/websift/pkg/cache"
	"github.com/websift/websift/pkg/extractor"
	"github.com/websift/websift/pkg/fetcher"
	"github.com/websift/websift/pkg/pipeline"
	"github.com/websift/websift/pkg/ratelimit"
	"github.com/websift/websift/pkg/reporter"
	"github.com/websift/websift/pkg/robots"
	"github.com/websift/websift/pkg/scraper"
	"github.com/websift/websift/pkg/search"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "websift [query]",
	Short: "Websift - web search and content scraping",
	Long: `Websift performs a web search, fetches the resulting pages under
robots.txt and rate-limit constraints, and extracts their readable content.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.ExactArgs(1),
	RunE:    run,
}

func run(cmd *cobra.Command, args []string) error {
	query := args[0]

	configPath, _ := cmd.Flags().GetString("config")
	maxResults, _ := cmd.Flags().GetInt("results")
	timeRange, _ := cmd.Flags().GetString("time")
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	exportFormat, _ := cmd.Flags().GetString("export")
	enableJS, _ := cmd.Flags().GetBool("js")
	noSummarize, _ := cmd.Flags().GetBool("no-summarize")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("results") {
		cfg.Search.MaxResults = maxResults
	}
	if cmd.Flags().Changed("time") {
		cfg.Search.TimeRange = timeRange
	}
	if cmd.Flags().Changed("js") {
		cfg.Scraper.EnableJS = enableJS
	}
	if noSummarize {
		cfg.Scraper.SummarizeContent = false
	}
	if cmd.Flags().Changed("skip-restricted") {
		skip, _ := cmd.Flags().GetBool("skip-restricted")
		cfg.Scraper.SkipRestricted = skip
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("failed to open result cache: %w", err)
	}
	defer store.Close()

	limiter := ratelimit.New(cfg.Scraper.RateLimit)
	policy := robots.NewPolicy(
		&http.Client{Timeout: cfg.Scraper.Timeout},
		cfg.Scraper.UserAgent,
		logger,
	)
	f := fetcher.New(fetcher.Options{
		UserAgent:  cfg.Scraper.UserAgent,
		Timeout:    cfg.Scraper.Timeout,
		MaxRetries: cfg.Scraper.MaxRetries,
		EnableJS:   cfg.Scraper.EnableJS,
	}, limiter, logger)
	ext := extractor.New(cfg.Scraper.SummarizeContent, extractor.Mode(cfg.Scraper.ExtractMode), logger)
	searcher := search.NewSearxNG(cfg.Search.BaseURL, cfg.Scraper.UserAgent, logger)

	p := pipeline.New(searcher, scraper.New(policy, f, ext, logger), store, logger)

	records, err := p.Run(cmd.Context(), query, pipeline.Options{
		MaxResults:     cfg.Search.MaxResults,
		TimeRange:      cfg.Search.TimeRange,
		Include:        include,
		Exclude:        exclude,
		SkipRestricted: cfg.Scraper.SkipRestricted,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		return nil
	}
	if len(records) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	rep := reporter.New(os.Stdout)
	rep.WriteTable(records)
	rep.WriteDetails(records)

	if exportFormat != "" {
		if err := rep.Export(records, exportFormat); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	}

	logger.Info("done",
		zap.String("query", query),
		zap.Int("records", len(records)))
	return nil
}

func init() {
	rootCmd.Flags().IntP("results", "r", 5, "Number of results to fetch and scrape")
	rootCmd.Flags().StringP("time", "t", "none", "Time range for search results (d, w, m, y, none)")
	rootCmd.Flags().StringSliceP("include", "i", nil, "Keywords to include in search results")
	rootCmd.Flags().StringSliceP("exclude", "e", nil, "Keywords to exclude from search results")
	rootCmd.Flags().StringP("export", "x", "", "Export results to a file format (json or csv)")
	rootCmd.Flags().Bool("js", false, "Render pages in a headless browser before extraction")
	rootCmd.Flags().Bool("no-summarize", false, "Disable content summarization")
	rootCmd.Flags().Bool("skip-restricted", true, "Skip pages restricted by robots.txt")
	rootCmd.PersistentFlags().String("config", "", "Config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
