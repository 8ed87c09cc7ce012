package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingAPIKey = errors.New("ITAD_API_KEY is required")
	ErrMissingServer = errors.New("IRC_SERVER is required")
	ErrMissingNick   = errors.New("IRC_NICK is required")
)

type Config struct {
	IRC       IRCConfig
	Deals     DealsConfig
	Steam     SteamConfig
	Sale      SaleConfig
	Shorten   ShortenConfig
	Log       LogConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
	Timeouts  TimeoutConfig
}

type IRCConfig struct {
	Server   string
	Nick     string
	User     string
	Channels []string
	UseTLS   bool
}

type DealsConfig struct {
	APIKey  string
	BaseURL string
	Region  string
	Country string
	Shops   []string
	// SinceMonths is the lookback window for recent-low records. The
	// absolute cutoff is computed once at load time, not per call.
	SinceMonths int
	SinceCutoff time.Time
}

type SteamConfig struct {
	CountryCode string
	StoreURL    string
	APIURL      string
	MaxResults  int
}

type SaleConfig struct {
	URL string
}

type ShortenConfig struct {
	BaseURL string
	TTL     time.Duration
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	Addr string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type TimeoutConfig struct {
	HTTP time.Duration
}

func Load() (*Config, error) {
	sinceMonths := getEnvIntOrDefault("DEALS_SINCE_MONTHS", 3)

	cfg := &Config{
		IRC: IRCConfig{
			Server:   os.Getenv("IRC_SERVER"),
			Nick:     getEnvOrDefault("IRC_NICK", "dealbot"),
			User:     getEnvOrDefault("IRC_USER", "dealbot"),
			Channels: splitList(os.Getenv("IRC_CHANNELS")),
			UseTLS:   getEnvBoolOrDefault("IRC_TLS", false),
		},
		Deals: DealsConfig{
			APIKey:      os.Getenv("ITAD_API_KEY"),
			BaseURL:     getEnvOrDefault("ITAD_BASE_URL", "https://api.isthereanydeal.com"),
			Region:      getEnvOrDefault("DEALS_REGION", "br2"),
			Country:     getEnvOrDefault("DEALS_COUNTRY", "BR"),
			Shops:       splitList(getEnvOrDefault("DEALS_SHOPS", "steam,gog,nuuvem,greenmangaming")),
			SinceMonths: sinceMonths,
			SinceCutoff: time.Now().AddDate(0, -sinceMonths, 0),
		},
		Steam: SteamConfig{
			CountryCode: getEnvOrDefault("STEAM_COUNTRY", "BR"),
			StoreURL:    getEnvOrDefault("STEAM_STORE_URL", "https://store.steampowered.com"),
			APIURL:      getEnvOrDefault("STEAM_API_URL", "https://store.steampowered.com/api"),
			MaxResults:  getEnvIntOrDefault("STEAM_MAX_RESULTS", 10),
		},
		Sale: SaleConfig{
			URL: getEnvOrDefault("SALE_URL", "https://prepareyourwallet.com/"),
		},
		Shorten: ShortenConfig{
			BaseURL: getEnvOrDefault("SHORTEN_BASE_URL", "https://is.gd"),
			TTL:     time.Duration(getEnvIntOrDefault("SHORTEN_TTL_SEC", 86400)) * time.Second,
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Addr: os.Getenv("METRICS_ADDR"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 10),
		},
		Timeouts: TimeoutConfig{
			HTTP: time.Duration(getEnvIntOrDefault("HTTP_TIMEOUT_SEC", 15)) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Deals.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.IRC.Server == "" {
		return ErrMissingServer
	}
	if c.IRC.Nick == "" {
		return ErrMissingNick
	}
	return nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
