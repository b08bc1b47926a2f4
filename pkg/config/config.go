// Package config loads service settings from an optional YAML file and lets
// environment variables override them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultApiUrl = "http://localhost:3002/api"

type Config struct {
	ApiUrl        string `yaml:"api_url"`
	ListenAddress string `yaml:"listen_address"`
	Locale        string `yaml:"locale"`
	// CountMode is "links" (every association link counts) or "groups".
	CountMode string `yaml:"count_mode"`

	RedisUrl      string `yaml:"redis_url"`
	RedisPassword string `yaml:"redis_password"`
	RabbitUrl     string `yaml:"rabbit_url"`
	Country       string `yaml:"country"`

	// ApiRateLimit is the max requests per second sent upstream, 0 disables.
	ApiRateLimit   float64       `yaml:"api_rate_limit"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	ReloadInterval time.Duration `yaml:"reload_interval"`
	Debounce       time.Duration `yaml:"debounce"`

	LogLevel string `yaml:"log_level"`
	DevLog   bool   `yaml:"dev_log"`
}

func Default() Config {
	return Config{
		ApiUrl:         DefaultApiUrl,
		ListenAddress:  ":8080",
		Locale:         "en",
		CountMode:      "links",
		Country:        "se",
		ApiRateLimit:   20,
		RequestTimeout: 10 * time.Second,
		ReloadInterval: 5 * time.Minute,
		Debounce:       150 * time.Millisecond,
		LogLevel:       "info",
	}
}

// Load reads path (a missing file is not an error) on top of the defaults and
// then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	ApplyEnv(&cfg, os.LookupEnv)
	return cfg, cfg.Validate()
}

// ApplyEnv overrides cfg from lookup. Values that fail to parse are ignored.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(curr *string, env string) {
		if v, ok := lookup(env); ok && v != "" {
			*curr = v
		}
	}
	millis := func(curr *time.Duration, env string) {
		if v, ok := lookup(env); ok {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				*curr = time.Duration(n) * time.Millisecond
			}
		}
	}
	str(&cfg.ApiUrl, "API_URL")
	str(&cfg.ListenAddress, "LISTEN_ADDRESS")
	str(&cfg.Locale, "LOCALE")
	str(&cfg.CountMode, "COUNT_MODE")
	str(&cfg.RedisUrl, "REDIS_URL")
	str(&cfg.RedisPassword, "REDIS_PASSWORD")
	str(&cfg.RabbitUrl, "RABBIT_URL")
	str(&cfg.Country, "COUNTRY")
	str(&cfg.LogLevel, "LOG_LEVEL")
	millis(&cfg.RequestTimeout, "REQUEST_TIMEOUT_MS")
	millis(&cfg.ReloadInterval, "RELOAD_INTERVAL_MS")
	millis(&cfg.Debounce, "DEBOUNCE_MS")
	if v, ok := lookup("API_RATE_LIMIT"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.ApiRateLimit = f
		}
	}
	if v, ok := lookup("DEV_LOG"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DevLog = b
		}
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.ApiUrl == "" {
		errs = append(errs, errors.New("api_url is required"))
	}
	if c.CountMode != "links" && c.CountMode != "groups" {
		errs = append(errs, fmt.Errorf("count_mode must be links or groups, got %q", c.CountMode))
	}
	return errors.Join(errs...)
}
