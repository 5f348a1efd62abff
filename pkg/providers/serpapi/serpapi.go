package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"compre-api/pkg/logger"
	"compre-api/pkg/models"

	"github.com/gocolly/colly/v2"
)

const (
	Name    = "serpapi"
	BaseURL = "https://serpapi.com/search.json"
	Engine  = "google_shopping"
)

var ErrMissingAPIKey = errors.New("serpapi: api key not configured")

type Provider struct {
	Collector *colly.Collector
	BaseURL   string
	APIKey    string
}

func NewProvider(baseURL, apiKey string) *Provider {
	if baseURL == "" {
		baseURL = BaseURL
	}

	opts := []colly.CollectorOption{
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		colly.AllowURLRevisit(),
	}
	if u, err := url.Parse(baseURL); err == nil && u.Hostname() != "" {
		opts = append(opts, colly.AllowedDomains(u.Hostname()))
	}

	return &Provider{
		Collector: colly.NewCollector(opts...),
		BaseURL:   baseURL,
		APIKey:    apiKey,
	}
}

func (p *Provider) Name() string {
	return Name
}

type shoppingResponse struct {
	Error           string           `json:"error"`
	ShoppingResults []shoppingResult `json:"shopping_results"`
}

type shoppingResult struct {
	Title       *string         `json:"title"`
	Price       *string         `json:"price"`
	Source      *string         `json:"source"`
	Thumbnail   *string         `json:"thumbnail"`
	ProductID   *string         `json:"product_id"`
	Link        *string         `json:"link"`
	ProductLink *string         `json:"product_link"`
	Snippet     *string         `json:"snippet"`
	Rating      json.RawMessage `json:"rating"` // number or string
}

func (r shoppingResult) toModel() models.ProductSearchResult {
	link := r.Link
	if link == nil {
		link = r.ProductLink
	}

	return models.ProductSearchResult{
		Title:        r.Title,
		Price:        r.Price,
		Source:       r.Source,
		Thumbnail:    r.Thumbnail,
		ProductAPIID: r.ProductID,
		Link:         link,
		Snippet:      r.Snippet,
		Rating:       ratingText(r.Rating),
	}
}

func ratingText(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return models.Text(strconv.FormatFloat(f, 'f', -1, 64))
	}

	return models.Text(strings.Trim(string(raw), `"'`))
}

func (p *Provider) searchURL(query string, num int) string {
	params := url.Values{}
	params.Set("engine", Engine)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))
	params.Set("api_key", p.APIKey)
	return p.BaseURL + "?" + params.Encode()
}

func (p *Provider) Search(ctx context.Context, query string, num int) ([]models.ProductSearchResult, error) {
	if p.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := p.Collector.Clone()
	c.Context = ctx

	var resp shoppingResponse
	var decodeErr error

	c.OnResponse(func(r *colly.Response) {
		decodeErr = json.Unmarshal(r.Body, &resp)
	})
	c.OnError(func(r *colly.Response, err error) {
		// error responses still carry a JSON body with the reason
		if len(r.Body) > 0 {
			_ = json.Unmarshal(r.Body, &resp)
		}
	})

	logger.Log.Debug().Str("query", query).Int("num", num).Msg("Querying SerpAPI")
	if err := c.Visit(p.searchURL(query, num)); err != nil {
		if resp.Error != "" {
			return nil, fmt.Errorf("serpapi: %s: %w", resp.Error, err)
		}
		return nil, fmt.Errorf("serpapi: %w", err)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("serpapi: failed to decode response: %w", decodeErr)
	}
	if resp.Error != "" {
		// "hasn't returned any results" is reported as an error by the API
		if strings.Contains(strings.ToLower(resp.Error), "any results") {
			return []models.ProductSearchResult{}, nil
		}
		return nil, fmt.Errorf("serpapi: %s", resp.Error)
	}

	results := make([]models.ProductSearchResult, 0, len(resp.ShoppingResults))
	for _, r := range resp.ShoppingResults {
		if num > 0 && len(results) >= num {
			break
		}
		results = append(results, r.toModel())
	}

	return results, nil
}
