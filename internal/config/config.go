// Package config provides configuration for the SFH chat server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	HTTPPort      int     `yaml:"http_port"`
	HTTPRateLimit float64 `yaml:"http_rate_limit"`

	// Providers
	GrokAPIKey      string        `yaml:"grok_api_key"`
	GroqAPIKey      string        `yaml:"groq_api_key"`
	DefaultProvider string        `yaml:"default_provider"`
	GrokModel       string        `yaml:"grok_model"`
	GroqModel       string        `yaml:"groq_model"`
	GrokRPM         int           `yaml:"grok_rpm"`
	GroqRPM         int           `yaml:"groq_rpm"`
	LLMTimeout      time.Duration `yaml:"llm_timeout"`
	Mode            string        `yaml:"mode"`

	// Generation
	MaxTokens          int     `yaml:"max_tokens"`
	Temperature        float64 `yaml:"temperature"`
	HistoryLimit       int     `yaml:"history_limit"`
	AutoRepairAttempts int     `yaml:"auto_repair_attempts"`

	// Sessions
	SessionDSN           string        `yaml:"session_dsn"`
	SessionTTL           time.Duration `yaml:"session_ttl"`
	SessionSweepInterval time.Duration `yaml:"session_sweep_interval"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTPPort:             8080,
		HTTPRateLimit:        5,
		GrokRPM:              60,
		GroqRPM:              30,
		LLMTimeout:           60 * time.Second,
		MaxTokens:            800,
		Temperature:          0.7,
		HistoryLimit:         5,
		AutoRepairAttempts:   2,
		SessionDSN:           ":memory:",
		SessionTTL:           2 * time.Hour,
		SessionSweepInterval: time.Minute,
		LogLevel:             "info",
		LogFormat:            "json",
	}
}

// Load reads .env (if present), then the YAML file named by SFH_CONFIG_FILE
// (if set), then environment variables. Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("SFH_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.HTTPPort = getEnvInt("HTTP_PORT", c.HTTPPort)
	c.HTTPRateLimit = getEnvFloat("HTTP_RATE_LIMIT", c.HTTPRateLimit)
	c.GrokAPIKey = getEnv("GROK_API_KEY", c.GrokAPIKey)
	c.GroqAPIKey = getEnv("GROQ_API_KEY", c.GroqAPIKey)
	c.DefaultProvider = getEnv("DEFAULT_PROVIDER", c.DefaultProvider)
	c.GrokModel = getEnv("GROK_MODEL", c.GrokModel)
	c.GroqModel = getEnv("GROQ_MODEL", c.GroqModel)
	c.GrokRPM = getEnvInt("GROK_RPM", c.GrokRPM)
	c.GroqRPM = getEnvInt("GROQ_RPM", c.GroqRPM)
	c.LLMTimeout = getEnvMillis("LLM_TIMEOUT_MS", c.LLMTimeout)
	c.Mode = getEnv("SFH_MODE", c.Mode)
	c.MaxTokens = getEnvInt("MAX_TOKENS", c.MaxTokens)
	c.Temperature = getEnvFloat("TEMPERATURE", c.Temperature)
	c.HistoryLimit = getEnvInt("HISTORY_LIMIT", c.HistoryLimit)
	c.AutoRepairAttempts = getEnvInt("AUTO_REPAIR_ATTEMPTS", c.AutoRepairAttempts)
	c.SessionDSN = getEnv("SESSION_DSN", c.SessionDSN)
	c.SessionTTL = getEnvMillis("SESSION_TTL_MS", c.SessionTTL)
	c.SessionSweepInterval = getEnvMillis("SESSION_SWEEP_MS", c.SessionSweepInterval)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.HTTPPort <= 0 || c.HTTPPort > 65535:
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	case c.MaxTokens <= 0:
		return fmt.Errorf("MAX_TOKENS must be positive, got %d", c.MaxTokens)
	case c.Temperature < 0 || c.Temperature > 2:
		return fmt.Errorf("TEMPERATURE must be within [0,2], got %v", c.Temperature)
	case c.AutoRepairAttempts <= 0:
		return fmt.Errorf("AUTO_REPAIR_ATTEMPTS must be positive, got %d", c.AutoRepairAttempts)
	case c.HistoryLimit < 0:
		return fmt.Errorf("HISTORY_LIMIT must not be negative, got %d", c.HistoryLimit)
	}
	return nil
}

// Credentials maps provider tag to API key. Missing keys are empty strings.
func (c *Config) Credentials() map[string]string {
	return map[string]string{
		"grok": c.GrokAPIKey,
		"groq": c.GroqAPIKey,
	}
}

// Model returns the configured model override for a provider tag, if any.
func (c *Config) Model(tag string) string {
	switch tag {
	case "grok":
		return c.GrokModel
	case "groq":
		return c.GroqModel
	}
	return ""
}

// RequestsPerMinute returns the configured rate limit for a provider tag, or 0.
func (c *Config) RequestsPerMinute(tag string) int {
	switch tag {
	case "grok":
		return c.GrokRPM
	case "groq":
		return c.GroqRPM
	}
	return 0
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

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvMillis(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}
