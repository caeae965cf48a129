package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL     string  `mapstructure:"api_base_url"`
	RequestTimeout int     `mapstructure:"request_timeout_ms"`
	PollInterval   int     `mapstructure:"poll_interval_ms"`
	ScanRateLimit  int     `mapstructure:"scan_rate_limit"`
	Retries        int     `mapstructure:"retries"`
	FallbackSupply float64 `mapstructure:"fallback_supply"`
	ExportDir      string  `mapstructure:"export_dir"`
	LogFile        string  `mapstructure:"log_file"`
	DebugLogging   bool    `mapstructure:"debug_logging"`
}

const (
	DefaultRequestTimeout = 10000
	DefaultPollInterval   = 3000
	DefaultScanRateLimit  = 60 // requests per minute
	DefaultRetries        = 3
	DefaultFallbackSupply = 1_000_000_000
	DefaultExportDir      = "exports"
	DefaultLogFile        = "logs/paperdex.log"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"request_timeout_ms": DefaultRequestTimeout,
		"poll_interval_ms":   DefaultPollInterval,
		"scan_rate_limit":    DefaultScanRateLimit,
		"retries":            DefaultRetries,
		"fallback_supply":    DefaultFallbackSupply,
		"export_dir":         DefaultExportDir,
		"log_file":           DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.APIBaseURL == "" {
		return errors.New("missing api_base_url in configuration")
	}
	if err := validateURL(cfg.APIBaseURL, "http"); err != nil {
		return errors.New("invalid api_base_url protocol")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.RequestTimeout <= 0 {
		return errors.New("invalid request_timeout_ms")
	}
	if cfg.PollInterval <= 0 {
		return errors.New("invalid poll_interval_ms")
	}
	if cfg.ScanRateLimit <= 0 {
		return errors.New("invalid scan_rate_limit")
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	if cfg.FallbackSupply <= 0 {
		return errors.New("invalid fallback_supply")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("PAPERDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envURL := v.GetString("API_BASE_URL"); envURL != "" {
		cfg.APIBaseURL = envURL
	}
	if envDir := v.GetString("EXPORT_DIR"); envDir != "" {
		cfg.ExportDir = envDir
	}
}
