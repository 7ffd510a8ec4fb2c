// Package config loads runtime configuration: environment variables with
// defaults, an optional .env file, and an optional YAML calibration file for
// the data-driven pieces (verdict bands, domain lists, reason rules).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"

	"github.com/credlens/credlens/internal/analysis"
	"github.com/credlens/credlens/internal/weights"
)

// Config is the process configuration.
type Config struct {
	Port            string
	DataDir         string
	RedisAddr       string
	CalibrationPath string
	FactCheckAPIKey string
	AllowedOrigins  []string
	HistoryCapacity int
	MaxTextChars    int
	RateLimitPerMin int
}

// Load reads configuration from the environment, with a best-effort .env
// load first.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Debug("no .env file loaded", "error", err)
	}
	return Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		DataDir:         getEnvOrDefault("DATA_DIR", "./data"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		CalibrationPath: os.Getenv("CALIBRATION_FILE"),
		FactCheckAPIKey: os.Getenv("FACTCHECK_API_KEY"),
		AllowedOrigins:  []string{getEnvOrDefault("ALLOWED_ORIGIN", "*")},
		HistoryCapacity: getEnvIntOrDefault("HISTORY_CAPACITY", 200),
		MaxTextChars:    getEnvIntOrDefault("MAX_TEXT_CHARS", 20000),
		RateLimitPerMin: getEnvIntOrDefault("RATE_LIMIT_PER_MIN", 30),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

// Calibration is the optional YAML override for the engine's data-driven
// configuration. Absent fields keep their built-in defaults.
type Calibration struct {
	VerdictBands []analysis.VerdictBand `yaml:"verdict_bands"`
	Domains      struct {
		Reliable   []string `yaml:"reliable"`
		Unreliable []string `yaml:"unreliable"`
		Satire     []string `yaml:"satire"`
	} `yaml:"domains"`
	ReasonRules     map[string][]weights.Adjustment `yaml:"reason_rules"`
	HistoryCapacity int                             `yaml:"history_capacity"`
	MaxTextChars    int                             `yaml:"max_text_chars"`
}

// LoadCalibration parses the YAML calibration file at path.
func LoadCalibration(path string) (*Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration file: %w", err)
	}
	var cal Calibration
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("failed to parse calibration file: %w", err)
	}
	return &cal, nil
}

// Apply folds the calibration into the process configuration and the
// analysis package's domain lists, returning the combinator config to use.
func (cal *Calibration) Apply(cfg *Config) analysis.CombinerConfig {
	combiner := analysis.DefaultCombinerConfig()
	if cal == nil {
		return combiner
	}
	if len(cal.VerdictBands) > 0 {
		combiner.VerdictBands = cal.VerdictBands
	}
	analysis.SetDomainLists(cal.Domains.Reliable, cal.Domains.Unreliable, cal.Domains.Satire)
	if cal.HistoryCapacity > 0 {
		cfg.HistoryCapacity = cal.HistoryCapacity
	}
	if cal.MaxTextChars > 0 {
		cfg.MaxTextChars = cal.MaxTextChars
	}
	return combiner
}

// ReasonRulesOrDefault returns the calibrated reason rules, or nil so the
// learner uses its built-in table.
func (cal *Calibration) ReasonRulesOrDefault() map[string][]weights.Adjustment {
	if cal == nil || len(cal.ReasonRules) == 0 {
		return nil
	}
	return cal.ReasonRules
}
