package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"compre-api/pkg/logger"
	"compre-api/pkg/models"

	"github.com/chromedp/chromedp"
)

const Name = "browser"

var ErrNoSearchURL = errors.New("browser: search url not configured")

// Provider renders a storefront search page in headless Chrome and reads
// the JSON-LD product data embedded in it.
type Provider struct {
	// SearchURL contains a single %s that receives the escaped query.
	SearchURL string
	Source    string
	Timeout   time.Duration
}

func NewProvider(searchURL, source string) *Provider {
	return &Provider{
		SearchURL: searchURL,
		Source:    source,
		Timeout:   45 * time.Second,
	}
}

func (p *Provider) Name() string {
	return Name
}

const collectJSONLD = `
	(function() {
		const out = [];
		document.querySelectorAll('script[type="application/ld+json"]').forEach(function(s) {
			out.push(s.textContent);
		});
		return out;
	})()
`

func (p *Provider) Search(ctx context.Context, query string, num int) ([]models.ProductSearchResult, error) {
	if p.SearchURL == "" {
		return nil, ErrNoSearchURL
	}

	pageURL := fmt.Sprintf(p.SearchURL, url.QueryEscape(query))

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	scrapeCtx, cancelScrape := context.WithTimeout(browserCtx, p.Timeout)
	defer cancelScrape()

	var blocks []string

	logger.Log.Debug().Str("url", pageURL).Msg("Rendering storefront search page")

	err := chromedp.Run(scrapeCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(collectJSONLD, &blocks),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}

	results := ParseJSONLD(blocks, p.Source)
	if num > 0 && len(results) > num {
		results = results[:num]
	}

	return results, nil
}
