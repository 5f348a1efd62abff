package search

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"compre-api/pkg/logger"
	"compre-api/pkg/models"
	"compre-api/pkg/normalize"
	"compre-api/pkg/providers"
)

const (
	MaxQueryLength = 100
	DefaultNum     = 10
	MaxNum         = 100
)

var (
	ErrInvalidQuery = errors.New("invalid search query")
	ErrUpstream     = errors.New("all search providers failed")
)

var (
	// PopularTerms seed the featured products listing.
	PopularTerms = []string{"iphone", "samsung", "laptop", "gaming"}
	// TechTerms seed the random products listing.
	TechTerms = []string{
		"smartphone", "laptop", "tablet", "camera",
		"headphones", "smartwatch", "gaming console", "monitor",
		"keyboard", "mouse", "printer", "router", "speaker",
	}
)

// ResultCache is satisfied by *cache.Cache.
type ResultCache interface {
	Get(query string, num int) ([]models.ProductSearchResult, bool)
	Set(query string, num int, results []models.ProductSearchResult)
}

type Service struct {
	providers  []providers.Provider
	cache      ResultCache
	semaphore  chan struct{}
	defaultNum int

	mu  sync.Mutex
	rnd *rand.Rand
}

type Option func(*Service)

func WithCache(c ResultCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMaxConcurrent limits how many upstream searches run at once.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.semaphore = make(chan struct{}, n)
		}
	}
}

func WithDefaultNum(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultNum = min(n, MaxNum)
		}
	}
}

func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rnd = r }
}

func NewService(ps []providers.Provider, opts ...Option) *Service {
	s := &Service{
		providers:  ps,
		semaphore:  make(chan struct{}, 3),
		defaultNum: DefaultNum,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func ValidateQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", fmt.Errorf("%w: query cannot be empty", ErrInvalidQuery)
	}
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return "", fmt.Errorf("%w: query cannot exceed %d characters", ErrInvalidQuery, MaxQueryLength)
	}
	return q, nil
}

func (s *Service) resolveNum(num int) int {
	if num <= 0 {
		return s.defaultNum
	}
	return min(num, MaxNum)
}

// Search returns up to num results for query, served from cache when
// possible. Providers are tried in order until one succeeds.
func (s *Service) Search(ctx context.Context, query string, num int) ([]models.ProductSearchResult, error) {
	q, err := ValidateQuery(query)
	if err != nil {
		return nil, err
	}
	num = s.resolveNum(num)

	if s.cache != nil {
		if cached, ok := s.cache.Get(q, num); ok {
			logger.Dedup("Cache hit for %q (%d)", q, num)
			return cached, nil
		}
	}

	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var lastErr error
	for _, p := range s.providers {
		results, err := p.Search(ctx, q, num)
		if err != nil {
			logger.Log.Warn().Err(err).Str("provider", p.Name()).Str("query", q).Msg("Provider search failed")
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		logger.Log.Info().Str("provider", p.Name()).Str("query", q).Int("results", len(results)).Msg("Search completed")
		if s.cache != nil && len(results) > 0 {
			s.cache.Set(q, num, results)
		}
		if results == nil {
			results = []models.ProductSearchResult{}
		}
		return results, nil
	}

	if lastErr == nil {
		return nil, fmt.Errorf("%w: no providers configured", ErrUpstream)
	}
	return nil, fmt.Errorf("%w: %w", ErrUpstream, lastErr)
}

func (s *Service) pick(terms []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return terms[s.rnd.Intn(len(terms))]
}

// Featured searches a popular term and returns the count best rated
// results.
func (s *Service) Featured(ctx context.Context, count int) ([]models.ProductSearchResult, error) {
	results, err := s.Search(ctx, s.pick(PopularTerms), 8)
	if err != nil {
		return nil, err
	}

	sorted := make([]models.ProductSearchResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return normalize.Rating(sorted[i].Rating) > normalize.Rating(sorted[j].Rating)
	})

	return head(sorted, count), nil
}

// Random searches a random tech term and returns count shuffled results.
func (s *Service) Random(ctx context.Context, count int) ([]models.ProductSearchResult, error) {
	results, err := s.Search(ctx, s.pick(TechTerms), 10)
	if err != nil {
		return nil, err
	}

	shuffled := make([]models.ProductSearchResult, len(results))
	copy(shuffled, results)

	s.mu.Lock()
	s.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.mu.Unlock()

	return head(shuffled, count), nil
}

func head(results []models.ProductSearchResult, count int) []models.ProductSearchResult {
	if count >= 0 && len(results) > count {
		return results[:count]
	}
	return results
}
