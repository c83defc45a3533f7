package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/Cortexa-LLC/mcp/src/billextract/billing"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// EnvMaxFileBytes is the environment variable name for the file size limit.
	EnvMaxFileBytes = "BILLEXTRACT_MAX_FILE_BYTES"
	// EnvReviewPages lists pages routed to the Review sheet ("26", "26,30-31").
	EnvReviewPages = "BILLEXTRACT_REVIEW_PAGES"
	// EnvExtraSkipKeywords is a comma list added to every table type.
	EnvExtraSkipKeywords = "BILLEXTRACT_EXTRA_SKIP_KEYWORDS"
	// EnvOutputMode is "numeric" or "verbatim".
	EnvOutputMode = "BILLEXTRACT_OUTPUT_MODE"
	// EnvRulesFile points at a YAML rules file.
	EnvRulesFile = "BILLEXTRACT_RULES_FILE"
	EnvLogLevel  = "BILLEXTRACT_LOG_LEVEL"
	EnvLogFormat = "BILLEXTRACT_LOG_FORMAT"

	// DefaultMaxFileBytes is the default maximum accepted file size (50 MiB).
	DefaultMaxFileBytes int64 = 50 << 20
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
)

// Config holds runtime configuration sourced from environment variables.
type Config struct {
	MaxFileSizeBytes int64
	ReviewPages      []int
	ExtraKeywords    []string
	OutputMode       billing.ValueMode
	RulesFile        string
	LogLevel         string
	LogFormat        string
}

// MaxFileSizeMB returns the configured limit in whole megabytes.
func (c *Config) MaxFileSizeMB() int64 {
	return c.MaxFileSizeBytes >> 20
}

// Load reads Config from environment variables, falling back to defaults for
// missing or invalid values.
func Load() *Config {
	cfg := &Config{
		MaxFileSizeBytes: DefaultMaxFileBytes,
		OutputMode:       billing.Numeric,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
	}
	if v := os.Getenv(EnvMaxFileBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxFileSizeBytes = n
		}
	}
	if v := os.Getenv(EnvReviewPages); v != "" {
		if pages, err := billing.ParsePages(v); err == nil {
			cfg.ReviewPages = pages
		}
	}
	if v := os.Getenv(EnvExtraSkipKeywords); v != "" {
		cfg.ExtraKeywords = splitList(v)
	}
	if m, err := billing.ParseValueMode(os.Getenv(EnvOutputMode)); err == nil {
		cfg.OutputMode = m
	}
	cfg.RulesFile = strings.TrimSpace(os.Getenv(EnvRulesFile))
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogFormat))); v == "json" || v == "text" {
		cfg.LogFormat = v
	}
	return cfg
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win, and a missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

// Rules builds the classification rules: built-in defaults, then the rules
// file, then the environment overrides.
func (c *Config) Rules() (billing.Rules, error) {
	rules := billing.DefaultRules()
	if c.RulesFile != "" {
		rf, err := readRulesFile(c.RulesFile)
		if err != nil {
			return billing.Rules{}, err
		}
		rules = rf.apply(rules)
	}
	if len(c.ExtraKeywords) > 0 {
		rules = rules.WithExtraKeywords(c.ExtraKeywords...)
	}
	if len(c.ReviewPages) > 0 {
		rules.ReviewPages = append([]int(nil), c.ReviewPages...)
	}
	return rules, nil
}

// rulesFile is the YAML shape of BILLEXTRACT_RULES_FILE.
type rulesFile struct {
	SkipKeywords struct {
		Hardware []string `yaml:"hardware"`
		Raw      []string `yaml:"raw"`
	} `yaml:"skip_keywords"`
	StopMarkers []string `yaml:"stop_markers"`
	ReviewPages []int    `yaml:"review_pages"`
}

func readRulesFile(path string) (*rulesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	for _, p := range rf.ReviewPages {
		if p < 1 {
			return nil, fmt.Errorf("parse rules file %s: review page %d out of range", path, p)
		}
	}
	return &rf, nil
}

// apply overrides only the lists the file sets.
func (rf *rulesFile) apply(r billing.Rules) billing.Rules {
	if rf.SkipKeywords.Hardware != nil {
		r.SkipKeywords[billing.Hardware] = rf.SkipKeywords.Hardware
	}
	if rf.SkipKeywords.Raw != nil {
		r.SkipKeywords[billing.Raw] = rf.SkipKeywords.Raw
	}
	if rf.StopMarkers != nil {
		r.StopMarkers = rf.StopMarkers
	}
	if rf.ReviewPages != nil {
		r.ReviewPages = rf.ReviewPages
	}
	return r
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
