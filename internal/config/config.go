package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/mode"
)

// Drivers.
const (
	DriverAzure = "azure"
	DriverRedis = "redis"
)

//go:embed default.yaml
var defaultYAML []byte

// Config holds the searchdemo configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Query   QueryConfig   `yaml:"query"`
	Answer  AnswerConfig  `yaml:"answer"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// SearchConfig holds search service connection settings.
type SearchConfig struct {
	Driver      string `yaml:"driver"` // azure, redis (default: azure)
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"` // derived from service_name when empty
	APIKey      string `yaml:"api_key"`
	IndexName   string `yaml:"index_name"`
	APIVersion  string `yaml:"api_version"`

	TimeoutSec       int `yaml:"timeout_sec"`
	MaxAttempts      int `yaml:"max_attempts"`
	RetryDelayMs     int `yaml:"retry_delay_ms"`
	MaxRetryDelayMs  int `yaml:"max_retry_delay_ms"`
	ReadinessTimeout int `yaml:"readiness_timeout_sec"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds settings for the redis driver.
type RedisConfig struct {
	Addrs    []string `yaml:"addrs"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
}

// IngestConfig holds document upload settings.
type IngestConfig struct {
	BatchSize     int     `yaml:"batch_size"`
	Concurrency   int     `yaml:"concurrency"`
	BatchesPerSec float64 `yaml:"batches_per_sec"` // 0 = unlimited
	WaitTimeout   int     `yaml:"wait_timeout_sec"`
}

// QueryConfig holds query facade settings.
type QueryConfig struct {
	DefaultTop    int    `yaml:"default_top"`
	MaxTop        int    `yaml:"max_top"`
	EmptyTerm     string `yaml:"empty_term"` // match_all, no_results
	SnippetLength int    `yaml:"snippet_length"`
}

// AnswerConfig holds chat completion settings for grounded answers.
type AnswerConfig struct {
	Provider         string `yaml:"provider"` // azure, openai
	Endpoint         string `yaml:"endpoint"`
	APIKey           string `yaml:"api_key"`
	Deployment       string `yaml:"deployment"`
	APIVersion       string `yaml:"api_version"`
	MaxTokens        int    `yaml:"max_tokens"`
	ContextDocuments int    `yaml:"context_documents"`
	TimeoutSec       int    `yaml:"timeout_sec"`
}

// Enabled reports whether enough is configured to call the provider.
func (a AnswerConfig) Enabled() bool {
	if a.APIKey == "" || a.Deployment == "" {
		return false
	}
	return a.Provider == "openai" || a.Endpoint != ""
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	APIKeys         []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration for an environment name (local, dev, prod). An
// explicit path wins over config/<env>.yaml; the embedded default is used when
// neither exists. A .env file in the working directory is loaded first.
func Load(env, path string) (Config, error) {
	_ = godotenv.Load()

	data, source, err := readConfig(env, path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return Parse(data, source)
}

// Parse expands env variables in data, applies defaults and validates.
func Parse(data []byte, source string) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %w", domain.ErrConfiguration, source, err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", domain.ErrConfiguration, source, err)
	}
	return cfg, nil
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
	s := &c.Search
	if s.Driver == "" {
		s.Driver = DriverAzure
	}
	if s.Endpoint == "" && s.ServiceName != "" {
		s.Endpoint = fmt.Sprintf("https://%s.search.windows.net", s.ServiceName)
	}
	if s.IndexName == "" {
		s.IndexName = "demo-documents"
	}
	if s.APIVersion == "" {
		s.APIVersion = "2024-07-01"
	}
	if s.TimeoutSec <= 0 {
		s.TimeoutSec = 30
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = 2
	}
	if s.RetryDelayMs <= 0 {
		s.RetryDelayMs = 500
	}
	if s.MaxRetryDelayMs <= 0 {
		s.MaxRetryDelayMs = 5000
	}
	if s.ReadinessTimeout <= 0 {
		s.ReadinessTimeout = 10
	}

	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = 1000
	}
	if c.Ingest.Concurrency <= 0 {
		c.Ingest.Concurrency = 1
	}
	if c.Ingest.WaitTimeout <= 0 {
		c.Ingest.WaitTimeout = 30
	}

	if c.Query.DefaultTop <= 0 {
		c.Query.DefaultTop = 10
	}
	if c.Query.MaxTop <= 0 {
		c.Query.MaxTop = 1000
	}
	if c.Query.EmptyTerm == "" {
		c.Query.EmptyTerm = string(mode.MatchAll)
	}
	if c.Query.SnippetLength <= 0 {
		c.Query.SnippetLength = 200
	}

	if c.Answer.Provider == "" {
		c.Answer.Provider = "azure"
	}
	if c.Answer.APIVersion == "" {
		c.Answer.APIVersion = "2023-12-01-preview"
	}
	if c.Answer.MaxTokens <= 0 {
		c.Answer.MaxTokens = 300
	}
	if c.Answer.ContextDocuments <= 0 {
		c.Answer.ContextDocuments = 5
	}
	if c.Answer.TimeoutSec <= 0 {
		c.Answer.TimeoutSec = 60
	}

	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Search.Driver {
	case DriverAzure:
		if c.Search.ServiceName == "" {
			return fmt.Errorf("search.service_name is required (SEARCH_SERVICE_NAME)")
		}
		if c.Search.Endpoint == "" {
			return fmt.Errorf("search.endpoint is required (SEARCH_ENDPOINT)")
		}
		if !strings.HasPrefix(c.Search.Endpoint, "https://") && !strings.HasPrefix(c.Search.Endpoint, "http://") {
			return fmt.Errorf("search.endpoint must be an http(s) URL, got %q", c.Search.Endpoint)
		}
		if c.Search.APIKey == "" {
			return fmt.Errorf("search.api_key is required (SEARCH_API_KEY)")
		}
	case DriverRedis:
		if len(c.Search.Redis.Addrs) == 0 {
			return fmt.Errorf("search.redis.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("search.driver must be %q or %q, got %q", DriverAzure, DriverRedis, c.Search.Driver)
	}

	if c.Ingest.BatchSize > 1000 {
		return fmt.Errorf("ingest.batch_size must not exceed 1000, got %d", c.Ingest.BatchSize)
	}
	if c.Ingest.BatchesPerSec < 0 {
		return fmt.Errorf("ingest.batches_per_sec must not be negative")
	}
	if c.Query.DefaultTop > c.Query.MaxTop {
		return fmt.Errorf("query.default_top (%d) exceeds query.max_top (%d)", c.Query.DefaultTop, c.Query.MaxTop)
	}
	if !mode.EmptyTermPolicy(c.Query.EmptyTerm).IsValid() {
		return fmt.Errorf("query.empty_term must be %q or %q, got %q", mode.MatchAll, mode.NoResults, c.Query.EmptyTerm)
	}
	switch c.Answer.Provider {
	case "azure", "openai":
	default:
		return fmt.Errorf("answer.provider must be \"azure\" or \"openai\", got %q", c.Answer.Provider)
	}
	if c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	return nil
}

// Timeout returns the per-call service timeout.
func (s SearchConfig) Timeout() time.Duration { return time.Duration(s.TimeoutSec) * time.Second }

// RetryDelay returns the initial backoff delay.
func (s SearchConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelayMs) * time.Millisecond
}

// MaxRetryDelay returns the backoff ceiling.
func (s SearchConfig) MaxRetryDelay() time.Duration {
	return time.Duration(s.MaxRetryDelayMs) * time.Millisecond
}

func readConfig(env, path string) ([]byte, string, error) {
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, "", fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return data, path, nil
	}
	if p, ok := findConfigPath(env); ok {
		data, err := os.ReadFile(filepath.Clean(p))
		if err != nil {
			return nil, "", fmt.Errorf("failed to read config %s: %w", p, err)
		}
		return data, p, nil
	}
	return defaultYAML, "embedded default", nil
}

// findConfigPath locates config/<env>.yaml in the working directory or the
// project root.
func findConfigPath(env string) (string, bool) {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path, true
	}

	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path, true
	}
	return "", false
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
