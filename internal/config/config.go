// Package config loads runtime settings from defaults, an optional .env
// file, EUROPE_WEATHER_* environment variables and command-line flags, in
// that order of precedence (later wins).
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/ngmaloney/europe-weather/internal/forecast"
	"github.com/ngmaloney/europe-weather/internal/geocoding"
)

const envPrefix = "EUROPE_WEATHER_"

// Config holds every tunable of the application
type Config struct {
	GeocodingURL string
	ForecastURL  string
	HTTPTimeout  time.Duration
	Debounce     time.Duration

	ProbeAddr     string
	ProbeInterval time.Duration

	RateLimit float64 // requests per second, per service
	RateBurst int

	LogFile  string // empty discards logs
	LogLevel string

	City string // submitted on start when set
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		GeocodingURL:  geocoding.DefaultURL,
		ForecastURL:   forecast.DefaultURL,
		HTTPTimeout:   10 * time.Second,
		Debounce:      300 * time.Millisecond,
		ProbeAddr:     "api.open-meteo.com:443",
		ProbeInterval: 15 * time.Second,
		RateLimit:     5,
		RateBurst:     5,
		LogLevel:      "info",
	}
}

// Load builds a Config for the given command-line arguments (without the
// program name). envFile may be empty; a missing file is not an error.
func Load(args []string, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	flags := flag.NewFlagSet("europe-weather", flag.ContinueOnError)
	flags.StringVar(&cfg.GeocodingURL, "geocoding-url", cfg.GeocodingURL, "Geocoding search endpoint")
	flags.StringVar(&cfg.ForecastURL, "forecast-url", cfg.ForecastURL, "Forecast endpoint")
	flags.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP request timeout")
	flags.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "Delay before suggestions are fetched")
	flags.StringVar(&cfg.ProbeAddr, "probe-addr", cfg.ProbeAddr, "host:port dialed to detect connectivity")
	flags.DurationVar(&cfg.ProbeInterval, "probe-interval", cfg.ProbeInterval, "How often connectivity is checked")
	flags.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per second allowed per service")
	flags.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "Request burst allowed per service")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.City, "city", cfg.City, "City to look up on start (e.g. \"Paris\")")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.GeocodingURL = getEnv("GEOCODING_URL", c.GeocodingURL)
	c.ForecastURL = getEnv("FORECAST_URL", c.ForecastURL)
	c.ProbeAddr = getEnv("PROBE_ADDR", c.ProbeAddr)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.City = getEnv("CITY", c.City)

	var err error
	if c.HTTPTimeout, err = getEnvDuration("TIMEOUT", c.HTTPTimeout); err != nil {
		return err
	}
	if c.Debounce, err = getEnvDuration("DEBOUNCE", c.Debounce); err != nil {
		return err
	}
	if c.ProbeInterval, err = getEnvDuration("PROBE_INTERVAL", c.ProbeInterval); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(envPrefix + "RATE_LIMIT"); ok {
		if c.RateLimit, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("%sRATE_LIMIT: %w", envPrefix, err)
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "RATE_BURST"); ok {
		if c.RateBurst, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("%sRATE_BURST: %w", envPrefix, err)
		}
	}
	return nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"geocoding url": c.GeocodingURL, "forecast url": c.ForecastURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"timeout", c.HTTPTimeout},
		{"debounce", c.Debounce},
		{"probe interval", c.ProbeInterval},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", d.name, d.d)
		}
	}

	if _, _, err := net.SplitHostPort(c.ProbeAddr); err != nil {
		return fmt.Errorf("invalid probe address %q: %w", c.ProbeAddr, err)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("rate limit and burst must be positive, got %v/%d", c.RateLimit, c.RateBurst)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return lvl, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return d, nil
}
