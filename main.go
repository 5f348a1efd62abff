package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"compre-api/pkg/api"
	"compre-api/pkg/cache"
	"compre-api/pkg/config"
	"compre-api/pkg/logger"
	"compre-api/pkg/models"
	"compre-api/pkg/providers"
	"compre-api/pkg/providers/browser"
	"compre-api/pkg/providers/serpapi"
	"compre-api/pkg/search"

	scalargo "github.com/bdpiprava/scalar-go"
)

const (
	requestTimeout = 60 * time.Second
	defaultCount   = 4
)

var (
	searchService *search.Service
	corsOrigin    = "*"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if !cfg.EnvFileLoaded {
		log.Debug().Msg("No .env file found, using system environment variables")
	}

	resultCache, err := cache.New(cfg.CacheDBPath, cfg.CacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache")
	}
	defer resultCache.Close()

	if n, err := resultCache.Purge(); err != nil {
		log.Warn().Err(err).Msg("Failed to purge expired cache entries")
	} else if n > 0 {
		log.Info().Int64("rows", n).Msg("Purged expired cache entries")
	}

	log.Info().Str("path", cfg.CacheDBPath).Dur("ttl", cfg.CacheTTL).Msg("Cache initialized")

	var ps []providers.Provider
	if cfg.SerpAPIKey != "" {
		ps = append(ps, serpapi.NewProvider(cfg.SerpAPIURL, cfg.SerpAPIKey))
	}
	if cfg.BrowserSearchURL != "" {
		ps = append(ps, browser.NewProvider(cfg.BrowserSearchURL, cfg.BrowserSource))
	}
	if len(ps) == 0 {
		log.Warn().Msg("No search providers configured; set SERPAPI_KEY or BROWSER_SEARCH_URL")
	}
	for _, p := range ps {
		log.Info().Str("provider", p.Name()).Msg("Search provider enabled")
	}

	searchService = search.NewService(ps,
		search.WithCache(resultCache),
		search.WithMaxConcurrent(cfg.MaxConcurrentSearches),
		search.WithDefaultNum(cfg.DefaultResults),
	)
	corsOrigin = cfg.CORSOrigin

	http.HandleFunc("/", rootHandler)

	ip := GetOutboundIP()
	if ip != nil {
		fmt.Printf("Local Network URL: http://%s:%s\n", ip.String(), cfg.Port)
	} else {
		fmt.Println("Could not determine local IP address.")
	}
	fmt.Printf("Access URL: http://localhost:%s\n", cfg.Port)
	fmt.Printf("API Docs: http://localhost:%s/\n", cfg.Port)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           nil,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Fatal().Err(server.ListenAndServe()).Msg("Server stopped")
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	// API requests go to the search handlers
	if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
		apiHandler(w, r)
		return
	}

	// Serve Scalar docs on root path
	html, err := scalargo.NewV2(
		scalargo.WithSpecDir("./"),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("Compre Product Search API"),
		),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

func GetOutboundIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		addrs, _ := net.InterfaceAddrs()
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					return ipnet.IP
				}
			}
		}
		return nil
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)

	return localAddr.IP
}

func apiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", corsOrigin)

	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodGet {
		api.WriteMethodNotAllowed(w, http.MethodGet, r.URL.Path)
		return
	}

	switch strings.TrimSuffix(r.URL.Path, "/") {
	case "/api/search":
		searchHandler(w, r)
	case "/api/products":
		productsHandler(w, r)
	case "/api/products/featured":
		featuredHandler(w, r)
	case "/api/products/random":
		randomHandler(w, r)
	default:
		api.WriteNotFound(w, "Unknown endpoint. Available: /api/search, /api/products, /api/products/featured, /api/products/random", r.URL.Path)
	}
}

// intParam reads a non-negative integer query parameter, returning fallback
// when it is missing.
func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", name, raw)
	}
	return val, nil
}

func runSearch(w http.ResponseWriter, r *http.Request) ([]models.ProductSearchResult, bool) {
	if searchService == nil {
		api.WriteInternalServerError(w, fmt.Errorf("search service not initialized"), r.URL.Path)
		return nil, false
	}

	num, err := intParam(r, "num", 0)
	if err != nil {
		api.WriteBadRequest(w, err.Error(), r.URL.Path)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	query := r.URL.Query().Get("query")
	results, err := searchService.Search(ctx, query, num)
	if err != nil {
		logger.Log.Error().Err(err).Str("query", query).Msg("Search failed")
		api.WriteSearchError(w, err, r.URL.Path)
		return nil, false
	}

	return results, true
}

func searchHandler(w http.ResponseWriter, r *http.Request) {
	results, ok := runSearch(w, r)
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, results, r.URL.Path)
}

func productsHandler(w http.ResponseWriter, r *http.Request) {
	results, ok := runSearch(w, r)
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, models.NewProducts(results, "product"), r.URL.Path)
}

type listingFunc func(s *search.Service, ctx context.Context, count int) ([]models.ProductSearchResult, error)

func listingHandler(w http.ResponseWriter, r *http.Request, prefix string, list listingFunc) {
	if searchService == nil {
		api.WriteInternalServerError(w, fmt.Errorf("search service not initialized"), r.URL.Path)
		return
	}

	count, err := intParam(r, "count", defaultCount)
	if err != nil {
		api.WriteBadRequest(w, err.Error(), r.URL.Path)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	results, err := list(searchService, ctx, count)
	if err != nil {
		logger.Log.Error().Err(err).Str("listing", prefix).Msg("Listing failed")
		api.WriteSearchError(w, err, r.URL.Path)
		return
	}

	api.WriteJSON(w, http.StatusOK, models.NewProducts(results, prefix), r.URL.Path)
}

func featuredHandler(w http.ResponseWriter, r *http.Request) {
	listingHandler(w, r, "featured", (*search.Service).Featured)
}

func randomHandler(w http.ResponseWriter, r *http.Request) {
	listingHandler(w, r, "carousel", (*search.Service).Random)
}
