package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Search provider configuration
	Search SearchConfig `mapstructure:"search"`

	// Scraper configuration
	Scraper ScraperConfig `mapstructure:"scraper"`

	// Cache configuration
	Cache CacheConfig `mapstructure:"cache"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// SearchConfig holds search-provider configuration
type SearchConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	MaxResults int    `mapstructure:"max_results"`
	TimeRange  string `mapstructure:"time_range"`
}

// ScraperConfig holds fetch and extraction configuration
type ScraperConfig struct {
	UserAgent        string        `mapstructure:"user_agent"`
	RateLimit        time.Duration `mapstructure:"rate_limit"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRetries       int           `mapstructure:"max_retries"`
	EnableJS         bool          `mapstructure:"enable_js"`
	SummarizeContent bool          `mapstructure:"summarize_content"`
	ExtractMode      string        `mapstructure:"extract_mode"` // "paragraphs" or "article"
	SkipRestricted   bool          `mapstructure:"skip_restricted"`
}

// CacheConfig holds result-cache configuration
type CacheConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "json" or "text"
	OutputPath string `mapstructure:"output_path"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.websift")
	}

	setDefaults(v)

	v.SetEnvPrefix("WEBSIFT")
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is not an error, we'll use defaults and env
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Search defaults
	v.SetDefault("search.base_url", "http://localhost:8888")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.time_range", "none")

	// Scraper defaults
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36")
	v.SetDefault("scraper.rate_limit", "1s")
	v.SetDefault("scraper.timeout", "10s")
	v.SetDefault("scraper.max_retries", 3)
	v.SetDefault("scraper.enable_js", false)
	v.SetDefault("scraper.summarize_content", true)
	v.SetDefault("scraper.extract_mode", "paragraphs")
	v.SetDefault("scraper.skip_restricted", true)

	// Cache defaults
	v.SetDefault("cache.path", "cache/websift.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scraper.MaxRetries <= 0 {
		return fmt.Errorf("scraper.max_retries must be positive")
	}
	if c.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper.timeout must be positive")
	}
	if c.Scraper.RateLimit < 0 {
		return fmt.Errorf("scraper.rate_limit must not be negative")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive")
	}
	switch c.Search.TimeRange {
	case "d", "w", "m", "y", "none":
	default:
		return fmt.Errorf("search.time_range must be one of d, w, m, y, none")
	}
	switch c.Scraper.ExtractMode {
	case "paragraphs", "article":
	default:
		return fmt.Errorf("scraper.extract_mode must be %q or %q", "paragraphs", "article")
	}
	return nil
}
