package mcpserver

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/rulezod/emitter"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Inspect tool defaults.
	FieldLimit       int
	FieldDetailLimit int
	MaxLimit         int

	// Inline manifests larger than this are rejected.
	MaxInlineSize int64

	// Generate tool defaults.
	GenerateStyle  string
	GenerateStrict bool
	Locale         string
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from RULEZOD_MCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("RULEZOD_MCP_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("RULEZOD_MCP_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("RULEZOD_MCP_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("RULEZOD_MCP_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("RULEZOD_MCP_CACHE_SWEEP_INTERVAL", 60*time.Second),
		FieldLimit:         envInt("RULEZOD_MCP_FIELD_LIMIT", 100),
		FieldDetailLimit:   envInt("RULEZOD_MCP_FIELD_DETAIL_LIMIT", 25),
		MaxLimit:           envInt("RULEZOD_MCP_MAX_LIMIT", 1000),
		MaxInlineSize:      int64(envInt("RULEZOD_MCP_MAX_INLINE_SIZE", 1<<20)),
		GenerateStyle:      envStyle("RULEZOD_MCP_OUTPUT_STYLE"),
		GenerateStrict:     envBool("RULEZOD_MCP_STRICT", false),
		Locale:             envString("RULEZOD_MCP_LOCALE", "en"),
	}
}

// envValue parses the named variable, falling back when it is unset or
// rejected by parse. Rejections are logged so a typo does not go unnoticed.
func envValue[T any](key string, fallback T, parse func(string) (T, error)) T {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := parse(v)
	if err != nil {
		slog.Warn("ignoring invalid environment value", "key", key, "value", v, "default", fallback, "error", err) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return parsed
}

func envString(key, fallback string) string {
	return envValue(key, fallback, func(v string) (string, error) { return v, nil })
}

func envBool(key string, fallback bool) bool {
	return envValue(key, fallback, strconv.ParseBool)
}

func envInt(key string, fallback int) int {
	return envValue(key, fallback, func(v string) (int, error) {
		n, err := strconv.Atoi(v)
		if err == nil && n <= 0 {
			err = errors.New("must be positive")
		}
		return n, err
	})
}

func envDuration(key string, fallback time.Duration) time.Duration {
	return envValue(key, fallback, func(v string) (time.Duration, error) {
		d, err := time.ParseDuration(v)
		if err == nil && d <= 0 {
			err = errors.New("must be positive")
		}
		return d, err
	})
}

func envStyle(key string) string {
	return envValue(key, string(emitter.StyleModule), func(v string) (string, error) {
		style, err := emitter.ParseStyle(v)
		return string(style), err
	})
}
