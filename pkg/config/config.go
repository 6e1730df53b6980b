// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Server, Site, Corpus, Indexer, Search, Logging, Metrics, CORS).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Site    SiteConfig    `yaml:"site"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Indexer IndexerConfig `yaml:"indexer"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	CORS    CORSConfig    `yaml:"cors"`
}

// ServerConfig holds HTTP server settings for the development server.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// SiteConfig describes the generated static site. BasePath mirrors the
// hugoBasePath page global and is only used to locate the corpus.
type SiteConfig struct {
	Dir      string `yaml:"dir"`
	BasePath string `yaml:"basePath"`
	Origin   string `yaml:"origin"`
}

// CorpusConfig controls how the serialized corpus is fetched.
type CorpusConfig struct {
	FileName     string        `yaml:"fileName"`
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
}

// IndexerConfig selects the tokenizer mode used for every indexed field.
type IndexerConfig struct {
	Tokenize string `yaml:"tokenize"`
}

// SearchConfig controls result limits and ranking.
type SearchConfig struct {
	Limit        int            `yaml:"limit"`
	MaxResults   int            `yaml:"maxResults"`
	Ranking      string         `yaml:"ranking"`
	FieldWeights map[string]int `yaml:"fieldWeights"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// CORSConfig controls which origins may fetch site assets from the
// development server.
type CORSConfig struct {
	AllowOrigins []string `yaml:"allowOrigins"`
	MaxAge       int      `yaml:"maxAge"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config with the defaults a Hugo site uses when no page
// globals are set: base path "/" and a limit of 10.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            1313,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Site: SiteConfig{
			Dir:      "public",
			BasePath: "/",
		},
		Corpus: CorpusConfig{
			FileName: "searchindex.json",
		},
		Indexer: IndexerConfig{
			Tokenize: "forward",
		},
		Search: SearchConfig{
			Limit:      10,
			MaxResults: 100,
			Ranking:    "weighted",
			FieldWeights: map[string]int{
				"title":   3,
				"tags":    2,
				"content": 1,
				"date":    1,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
			MaxAge:       86400,
		},
	}
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.Search.Limit < 1 {
		return fmt.Errorf("search.limit must be positive, got %d", c.Search.Limit)
	}
	if c.Search.MaxResults < c.Search.Limit {
		return fmt.Errorf("search.maxResults (%d) must be >= search.limit (%d)", c.Search.MaxResults, c.Search.Limit)
	}
	switch c.Search.Ranking {
	case "weighted", "discovery":
	default:
		return fmt.Errorf("search.ranking must be weighted or discovery, got %q", c.Search.Ranking)
	}
	for field, w := range c.Search.FieldWeights {
		if w < 0 {
			return fmt.Errorf("search.fieldWeights.%s must not be negative", field)
		}
	}
	if c.Corpus.FileName == "" {
		return fmt.Errorf("corpus.fileName is required")
	}
	return nil
}

// applyEnvOverrides reads SS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SS_SITE_DIR"); v != "" {
		cfg.Site.Dir = v
	}
	if v := os.Getenv("SS_SITE_BASE_PATH"); v != "" {
		cfg.Site.BasePath = v
	}
	if v := os.Getenv("SS_SITE_ORIGIN"); v != "" {
		cfg.Site.Origin = v
	}
	if v := os.Getenv("SS_CORPUS_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Corpus.FetchTimeout = d
		}
	}
	if v := os.Getenv("SS_INDEXER_TOKENIZE"); v != "" {
		cfg.Indexer.Tokenize = v
	}
	if v := os.Getenv("SS_SEARCH_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			cfg.Search.Limit = limit
		}
	}
	if v := os.Getenv("SS_SEARCH_RANKING"); v != "" {
		cfg.Search.Ranking = v
	}
	if v := os.Getenv("SS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SS_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
	if v := os.Getenv("SS_CORS_ALLOW_ORIGINS"); v != "" {
		cfg.CORS.AllowOrigins = strings.Split(v, ",")
	}
}
