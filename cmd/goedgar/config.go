package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	edgar "github.com/RxDataLab/edgar-statements"
)

// Config is the resolved CLI configuration
type Config struct {
	Email     string
	RateLimit int
	Timeout   time.Duration
	Keywords  []string
	LogLevel  string
	Verbose   bool
}

// envBindings maps config keys to the environment variables that set them
var envBindings = map[string]string{
	"email":      edgar.SecEmailEnvVar,
	"rate_limit": "EDGAR_RATE_LIMIT",
	"timeout":    "EDGAR_TIMEOUT",
	"keywords":   "EDGAR_KEYWORDS",
	"log_level":  "EDGAR_LOG_LEVEL",
}

// loadDotEnv loads .env files if they exist; variables already set win
func loadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// newViper returns a viper instance with defaults and env bindings applied
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("rate_limit", edgar.DefaultRequestsPerSecond)
	v.SetDefault("timeout", edgar.DefaultTimeout.String())
	v.SetDefault("keywords", edgar.BalanceSheetKeywords)
	v.SetDefault("log_level", "info")
	v.SetDefault("verbose", false)

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

// loadConfig reads an optional config file and resolves v into a Config
func loadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
	}

	email, err := edgar.ValidateSecEmail(v.GetString("email"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Email:     email,
		RateLimit: v.GetInt("rate_limit"),
		Timeout:   v.GetDuration("timeout"),
		Keywords:  keywordList(v.Get("keywords")),
		LogLevel:  v.GetString("log_level"),
		Verbose:   v.GetBool("verbose"),
	}
	if cfg.RateLimit <= 0 || cfg.RateLimit > edgar.DefaultRequestsPerSecond {
		return nil, fmt.Errorf("rate limit must be between 1 and %d requests/second, got %d", edgar.DefaultRequestsPerSecond, cfg.RateLimit)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = edgar.DefaultTimeout
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = edgar.BalanceSheetKeywords
	}

	return cfg, nil
}

// keywordList accepts a list from flags/config files or a comma separated
// string from the environment. Keywords may contain spaces.
func keywordList(raw any) []string {
	var parts []string
	switch k := raw.(type) {
	case []string:
		parts = k
	case []any:
		for _, item := range k {
			parts = append(parts, fmt.Sprint(item))
		}
	case string:
		parts = strings.Split(k, ",")
	}

	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}
