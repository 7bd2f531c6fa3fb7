package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PlaceholderAPIKey is the value shipped in example env files. It is treated
// the same as an absent key and switches the proxy into mock mode.
const PlaceholderAPIKey = "fc-your-api-key-here"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Firecrawl FirecrawlConfig `mapstructure:"firecrawl"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
	History   HistoryConfig   `mapstructure:"history"`
	Counter   CounterConfig   `mapstructure:"counter"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`

	v *viper.Viper
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string `mapstructure:"host"` // default: "0.0.0.0"
	Port int    `mapstructure:"port"` // default: 3000
	Mode string `mapstructure:"mode"` // "debug", "release", "test"; default: "release"

	// ShutdownTimeout bounds the graceful drain on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // default: 5s
}

// FirecrawlConfig controls the upstream scraping service.
//
// The API key itself is deliberately not a field: it is read through
// Config.APIKey on every request.
type FirecrawlConfig struct {
	// Endpoint is the upstream scrape URL.
	Endpoint string `mapstructure:"endpoint"` // default: https://api.firecrawl.dev/v2/scrape

	// Placeholder is the reserved "not configured" key value.
	Placeholder string `mapstructure:"placeholder"` // default: PlaceholderAPIKey
}

// AuthConfig controls inbound API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool `mapstructure:"enabled"` // default: false

	// APIKeys is the list of accepted inbound keys.
	APIKeys []string `mapstructure:"api_keys"`
}

// RateLimitConfig controls per-identity inbound rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per identity.
	RequestsPerSecond float64 `mapstructure:"rps"` // default: 5

	// Burst is the maximum burst size per identity.
	Burst int `mapstructure:"burst"` // default: 10
}

// CacheConfig controls the upstream response cache.
type CacheConfig struct {
	// Enabled allows requests with maxAge > 0 to be served from the cache.
	// When false every credentialed request makes one upstream call.
	Enabled bool `mapstructure:"enabled"` // default: false

	// MaxEntries is the maximum number of cached responses.
	MaxEntries int `mapstructure:"max_entries"` // default: 100
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // default: "info"
	Format string `mapstructure:"format"` // "json" or "text"; default: "json"
}

// HistoryConfig controls the recent-runs store.
type HistoryConfig struct {
	// Size is the number of runs kept.
	Size int `mapstructure:"size"` // default: 5

	// Path is the JSON snapshot file. Empty keeps history in memory only.
	Path string `mapstructure:"path"`
}

// CounterConfig controls the counter demo store.
type CounterConfig struct {
	// Path is the JSON snapshot file. Empty keeps the counter in memory only.
	Path string `mapstructure:"path"`
}

// WebhookConfig controls run notifications.
type WebhookConfig struct {
	// URL receives run.succeeded / run.failed events. Empty disables delivery.
	URL string `mapstructure:"url"`

	// Secret signs payloads with HMAC-SHA256 when non-empty.
	Secret string `mapstructure:"secret"`
}

// Load reads configuration from defaults, PLAYGROUND_* environment variables
// and, when configFile is non-empty, a config file in any format viper supports.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PLAYGROUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The credential keeps the name the upstream service documents.
	if err := v.BindEnv("firecrawl.api_key", "FIRECRAWL_API_KEY", "PLAYGROUND_FIRECRAWL_API_KEY"); err != nil {
		return nil, fmt.Errorf("config: bind api key: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read %s: %w", configFile, err)
			}
		}
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Auth.APIKeys = splitList(cfg.Auth.APIKeys)
	return cfg, nil
}

// Default returns the configuration with no environment or file applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{v: v}
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("firecrawl.endpoint", "https://api.firecrawl.dev/v2/scrape")
	v.SetDefault("firecrawl.placeholder", PlaceholderAPIKey)
	v.SetDefault("firecrawl.api_key", "")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.api_keys", []string{})

	v.SetDefault("ratelimit.rps", 5.0)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.max_entries", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("history.size", 5)
	v.SetDefault("history.path", "")

	v.SetDefault("counter.path", "")

	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.secret", "")
}

// APIKey returns the upstream credential as currently configured. It is
// resolved on every call so a key exported after startup takes effect.
func (c *Config) APIKey() string {
	if c.v == nil {
		return ""
	}
	return strings.TrimSpace(c.v.GetString("firecrawl.api_key"))
}

// Credential returns the API key and whether it is usable, from a single
// read so both values agree.
func (c *Config) Credential() (string, bool) {
	key := c.APIKey()
	return key, IsConfiguredKey(key, c.Firecrawl.Placeholder)
}

// Credentialed reports whether APIKey holds a usable value.
func (c *Config) Credentialed() bool {
	_, ok := c.Credential()
	return ok
}

// IsConfiguredKey reports whether key is neither empty nor the placeholder.
func IsConfiguredKey(key, placeholder string) bool {
	return key != "" && key != placeholder
}

// splitList accepts both list values and a single comma-separated entry,
// which is what an environment variable produces.
func splitList(in []string) []string {
	result := make([]string, 0, len(in))
	for _, item := range in {
		for _, p := range strings.Split(item, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}
	return result
}
