// Package config loads the faqbot API configuration from per-environment
// YAML files with ${VAR:-default} environment expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/faqbot/internal/normalize"
)

// Config holds the faqbot API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
	Engine     EngineConfig     `yaml:"engine"`
	Normalize  NormalizeConfig  `yaml:"normalize"`
	Index      IndexConfig      `yaml:"index"`
	Generative GenerativeConfig `yaml:"generative"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	History    HistoryConfig    `yaml:"history"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AuthConfig holds API authentication settings. An empty key list disables
// authentication.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// DatabaseConfig holds chat-history database settings. Empty addrs run the
// service without history persistence.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Matcher variants.
const (
	MatcherLexical  = "lexical"
	MatcherSemantic = "semantic"
)

// EngineConfig holds retrieval routing settings.
type EngineConfig struct {
	// Threshold is the minimum similarity for a retrieval hit; scores equal
	// to it retrieve. Deployment profiles differ (0.6 dense FAQ corpora,
	// 0.2 sparse ones), so this is always explicit per environment.
	Threshold float64 `yaml:"threshold"`
	// Matcher selects the variant: lexical (TF-IDF, default) or semantic
	// (external embeddings).
	Matcher              string `yaml:"matcher"`
	GenerationTimeoutSec int    `yaml:"generation_timeout_sec"`
}

// NormalizeConfig toggles query normalization stages. Unset fields take the
// build-profile defaults, so pointers distinguish "absent" from "false".
type NormalizeConfig struct {
	Expand          *bool    `yaml:"expand"`
	RemoveSpecial   *bool    `yaml:"remove_special"`
	Correct         *bool    `yaml:"correct"`
	Lemmatize       *bool    `yaml:"lemmatize"`
	RemoveStops     *bool    `yaml:"remove_stops"`
	CustomStopwords []string `yaml:"custom_stopwords"`
}

// Options resolves the section into normalizer options.
func (n NormalizeConfig) Options() normalize.Options {
	opts := normalize.DefaultOptions()
	if n.Expand != nil {
		opts.Expand = *n.Expand
	}
	if n.RemoveSpecial != nil {
		opts.RemoveSpecial = *n.RemoveSpecial
	}
	if n.Correct != nil {
		opts.Correct = *n.Correct
	}
	if n.Lemmatize != nil {
		opts.Lemmatize = *n.Lemmatize
	}
	if n.RemoveStops != nil {
		opts.RemoveStops = *n.RemoveStops
	}
	opts.CustomStopwords = n.CustomStopwords
	return opts
}

// IndexConfig locates the similarity index artifact.
type IndexConfig struct {
	Artifact string `yaml:"artifact"`
}

// GenerativeConfig holds the generative fallback provider settings.
type GenerativeConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// EmbeddingConfig holds the embedding provider used by the semantic matcher.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// HistoryConfig holds chat history settings.
type HistoryConfig struct {
	MaxEntries int    `yaml:"max_entries"`
	KeyPrefix  string `yaml:"key_prefix"`
}

// RateLimitConfig holds per-client rate limiting. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Generative calls can run long; write timeout must outlast them.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Engine.Threshold <= 0 {
		c.Engine.Threshold = 0.6
	}
	if c.Engine.Matcher == "" {
		c.Engine.Matcher = MatcherLexical
	}
	if c.Engine.GenerationTimeoutSec <= 0 {
		c.Engine.GenerationTimeoutSec = 15
	}
	if c.Index.Artifact == "" {
		c.Index.Artifact = filepath.Join("models", "index.json")
	}
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = 1000
	}
	if c.History.KeyPrefix == "" {
		c.History.KeyPrefix = "faqbot:"
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = int(c.RateLimit.RPS) + 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Engine.Threshold <= 0 || c.Engine.Threshold > 1 {
		return fmt.Errorf("engine.threshold must be in (0, 1], got %v", c.Engine.Threshold)
	}
	switch c.Engine.Matcher {
	case MatcherLexical:
	case MatcherSemantic:
		if c.Embedding.Model == "" {
			return fmt.Errorf("engine.matcher %q requires embedding.model", MatcherSemantic)
		}
	default:
		return fmt.Errorf("engine.matcher must be %q or %q, got %q",
			MatcherLexical, MatcherSemantic, c.Engine.Matcher)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
