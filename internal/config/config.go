// Package config provides configuration for the council service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xiaot623/gogo/council/internal/domain"
)

const (
	// EnvConfigFile names an optional YAML file applied before the environment.
	EnvConfigFile = "COUNCIL_CONFIG_FILE"
	// ModeMock swaps the real backends for mock ones.
	ModeMock = "MOCK"
)

// BackendConfig holds the settings of one chat completions backend.
type BackendConfig struct {
	// URL is the full chat completions endpoint.
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config holds the council service configuration. It is built once at
// startup and treated as read-only afterwards.
type Config struct {
	// Server settings
	HTTPPort int `yaml:"http_port"`

	// Database
	DatabaseURL string `yaml:"database_url"`

	// Backends
	Hosted BackendConfig `yaml:"hosted"`
	Local  BackendConfig `yaml:"local"`

	// Council
	RoundRobin    bool     `yaml:"round_robin"`
	CouncilModels []string `yaml:"council_models"`
	TitleModel    string   `yaml:"title_model"`
	PolicyFile    string   `yaml:"policy_file"`
	Mode          string   `yaml:"mode"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTPPort:    8001,
		DatabaseURL: "file:council.db?cache=shared&mode=rwc",
		Hosted: BackendConfig{
			URL:     "https://openrouter.ai/api/v1/chat/completions",
			Timeout: 600 * time.Second,
		},
		Local: BackendConfig{
			URL:     "http://localhost:10105/v1/chat/completions",
			Timeout: 120 * time.Second,
		},
		RoundRobin: true,
		CouncilModels: []string{
			"local/qwen3-14b-128k-ud-q5_k_xl",
			"local/qwen3-30b-a3b-thinking-2507-ud-q6_k_xl",
			"local/qwen3-32b-128k-ud-q4_k_xl",
		},
		TitleModel: "google/gemini-2.5-flash",
		LogLevel:   "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// COUNCIL_CONFIG_FILE, and environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := getEnv(EnvConfigFile, ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.Hosted.URL = getEnv("OPENROUTER_API_URL", cfg.Hosted.URL)
	cfg.Hosted.APIKey = getEnv("OPENROUTER_API_KEY", cfg.Hosted.APIKey)
	cfg.Hosted.Timeout = getEnvDurationMs("HOSTED_TIMEOUT_MS", cfg.Hosted.Timeout)

	cfg.Local.URL = getEnv("LOCAL_MODEL_BASE_URL", cfg.Local.URL)
	cfg.Local.APIKey = getEnv("LOCAL_MODEL_API_KEY", cfg.Local.APIKey)
	cfg.Local.Timeout = getEnvDurationMs("LOCAL_TIMEOUT_MS", cfg.Local.Timeout)

	cfg.RoundRobin = getEnvBool("ROUND_ROBIN_EXECUTION", cfg.RoundRobin)
	cfg.CouncilModels = getEnvList("COUNCIL_MODELS", cfg.CouncilModels)
	cfg.TitleModel = getEnv("TITLE_MODEL", cfg.TitleModel)
	cfg.PolicyFile = getEnv("COUNCIL_POLICY_FILE", cfg.PolicyFile)
	cfg.Mode = getEnv("COUNCIL_MODE", cfg.Mode)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if len(c.CouncilModels) == 0 {
		errs = append(errs, errors.New("COUNCIL_MODELS must list at least one model"))
	}
	if c.Hosted.Timeout <= 0 || c.Local.Timeout <= 0 {
		errs = append(errs, errors.New("backend timeouts must be positive"))
	}
	if !c.IsMock() && c.Hosted.APIKey == "" && c.usesHosted() {
		errs = append(errs, errors.New("OPENROUTER_API_KEY is required when the council or title model uses the hosted backend"))
	}
	return errors.Join(errs...)
}

func (c *Config) usesHosted() bool {
	for _, m := range c.CouncilModels {
		if !strings.HasPrefix(m, "local/") {
			return true
		}
	}
	return c.TitleModel != "" && !strings.HasPrefix(c.TitleModel, "local/")
}

// IsMock reports whether mock backends should be used.
func (c *Config) IsMock() bool {
	return strings.EqualFold(c.Mode, ModeMock)
}

// ExecutionMode maps the round-robin flag to an execution mode.
func (c *Config) ExecutionMode() domain.ExecutionMode {
	if c.RoundRobin {
		return domain.ExecutionSequential
	}
	return domain.ExecutionParallel
}

// Models returns a copy of the ordered council model list.
func (c *Config) Models() []string {
	return append([]string(nil), c.CouncilModels...)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
