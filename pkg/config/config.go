package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	CacheDBPath string
	CacheTTL    time.Duration

	SerpAPIKey string
	SerpAPIURL string

	// BrowserSearchURL is a storefront search URL with a %s for the query.
	// Empty disables the browser provider.
	BrowserSearchURL string
	BrowserSource    string

	MaxConcurrentSearches int
	DefaultResults        int

	CORSOrigin string

	LogLevel  string
	LogFormat string

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// Load reads .env when present, then the process environment. Invalid
// numbers keep their defaults.
func Load() *Config {
	loaded := godotenv.Load() == nil

	return &Config{
		Port:                  getString("PORT", "9090"),
		CacheDBPath:           getString("CACHE_DB_PATH", "./cache.db"),
		CacheTTL:              time.Duration(getPositiveInt("CACHE_TTL_MINUTES", 1440)) * time.Minute,
		SerpAPIKey:            os.Getenv("SERPAPI_KEY"),
		SerpAPIURL:            getString("SERPAPI_URL", "https://serpapi.com/search.json"),
		BrowserSearchURL:      os.Getenv("BROWSER_SEARCH_URL"),
		BrowserSource:         getString("BROWSER_SOURCE", "Storefront"),
		MaxConcurrentSearches: getPositiveInt("MAX_CONCURRENT_SEARCHES", 3),
		DefaultResults:        getPositiveInt("DEFAULT_RESULTS", 10),
		CORSOrigin:            getString("CORS_ORIGIN", "*"),
		LogLevel:              getString("LOG_LEVEL", "info"),
		LogFormat:             getString("LOG_FORMAT", "console"),
		EnvFileLoaded:         loaded,
	}
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getPositiveInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
