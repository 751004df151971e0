package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerPort string `yaml:"server_port"`

	// DocumentAPIURL is where the portal sends scan, bulk-add, list and verify requests.
	DocumentAPIURL string `yaml:"document_api_url"`
	// PublicAPIURL is the browser-facing base for uploads/ and downloads/ links.
	PublicAPIURL string `yaml:"public_api_url"`
	// PortalPublicURL is used to build verification links embedded in certificates.
	PortalPublicURL string `yaml:"portal_public_url"`

	IssuedByDefault       string `yaml:"issued_by_default"`
	OrganizationName      string `yaml:"organization_name"`
	OrganizationVerifyURL string `yaml:"organization_verify_url"`

	RequestTimeout     time.Duration `yaml:"request_timeout"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
	MaxUploadBytes     int64         `yaml:"max_upload_bytes"`
	EmployeeImageMaxPx int           `yaml:"employee_image_max_px"`
	LogLevel           string        `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults used when neither the
// environment nor a config file says otherwise.
func DefaultConfig() *Config {
	return &Config{
		ServerPort:            "8080",
		DocumentAPIURL:        "http://localhost:3000",
		PortalPublicURL:       "http://localhost:8080",
		IssuedByDefault:       "HR Manager",
		OrganizationName:      "Dotlabs",
		OrganizationVerifyURL: "https://dotlabs.com/verify",
		RequestTimeout:        30 * time.Second,
		SessionTTL:            30 * time.Minute,
		MaxUploadBytes:        32 << 20, // 32 MB
		EmployeeImageMaxPx:    512,
		LogLevel:              "info",
	}
}

// LoadConfig resolves configuration once at startup: defaults, then the
// optional YAML file, then environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("PORTAL_CONFIG")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if cfg.PublicAPIURL == "" {
		cfg.PublicAPIURL = cfg.DocumentAPIURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerPort = readEnv("SERVER_PORT", c.ServerPort)
	c.DocumentAPIURL = readEnv("DOCUMENT_API_URL", c.DocumentAPIURL)
	c.PublicAPIURL = readEnv("PUBLIC_API_URL", c.PublicAPIURL)
	c.PortalPublicURL = readEnv("PORTAL_PUBLIC_URL", c.PortalPublicURL)
	c.IssuedByDefault = readEnv("ISSUED_BY_DEFAULT", c.IssuedByDefault)
	c.OrganizationName = readEnv("ORGANIZATION_NAME", c.OrganizationName)
	c.OrganizationVerifyURL = readEnv("ORGANIZATION_VERIFY_URL", c.OrganizationVerifyURL)
	c.RequestTimeout = parseDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.SessionTTL = parseDuration("SESSION_TTL", c.SessionTTL)
	c.MaxUploadBytes = parseInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.EmployeeImageMaxPx = int(parseInt64("EMPLOYEE_IMAGE_MAX_PX", int64(c.EmployeeImageMaxPx)))
	c.LogLevel = readEnv("LOG_LEVEL", c.LogLevel)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server_port is required")
	}
	for name, raw := range map[string]string{
		"document_api_url":  c.DocumentAPIURL,
		"public_api_url":    c.PublicAPIURL,
		"portal_public_url": c.PortalPublicURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	return nil
}

// SlogLevel maps LogLevel onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
