package console

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"shopcartConsole/internal/config"
)

const (
	defaultAPIBaseURL  = "http://localhost:8080"
	defaultWSReadLimit = 8192
)

// ConsoleConfig holds runtime configuration for the console module.
type ConsoleConfig struct {
	APIBaseURL  string
	APIKey      string
	APITimeout  time.Duration
	WSReadLimit int

	// Browser origins allowed to open a console session.
	AllowedOrigins []string
}

// LoadConsoleConfig starts from defaults and the file config, then applies
// environment overrides.
func LoadConsoleConfig(base config.Config) (ConsoleConfig, error) {
	cfg := ConsoleConfig{
		APIBaseURL:  defaultAPIBaseURL,
		WSReadLimit: defaultWSReadLimit,
	}

	if base.API.BaseURL != "" {
		cfg.APIBaseURL = base.API.BaseURL
	}
	cfg.APIKey = base.API.APIKey
	cfg.AllowedOrigins = base.CORS.AllowedOrigins
	if base.API.TimeoutSeconds > 0 {
		cfg.APITimeout = time.Duration(base.API.TimeoutSeconds) * time.Second
	}

	if v := os.Getenv("SHOPCART_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("SHOPCART_API_KEY"); v != "" {
		cfg.APIKey = v
	}

	if v, err := readIntEnv("SHOPCART_API_TIMEOUT_SECONDS"); err != nil {
		return ConsoleConfig{}, fmt.Errorf("parse SHOPCART_API_TIMEOUT_SECONDS: %w", err)
	} else if v != nil {
		cfg.APITimeout = time.Duration(*v) * time.Second
	}

	if v, err := readIntEnv("CONSOLE_WS_READ_LIMIT"); err != nil {
		return ConsoleConfig{}, fmt.Errorf("parse CONSOLE_WS_READ_LIMIT: %w", err)
	} else if v != nil {
		cfg.WSReadLimit = *v
	}

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ConsoleConfig{}, fmt.Errorf("shopcart api url %q is not an absolute URL", cfg.APIBaseURL)
	}
	if cfg.APITimeout < 0 {
		return ConsoleConfig{}, fmt.Errorf("api timeout must not be negative")
	}
	if cfg.WSReadLimit <= 0 {
		return ConsoleConfig{}, fmt.Errorf("CONSOLE_WS_READ_LIMIT must be positive")
	}

	return cfg, nil
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
