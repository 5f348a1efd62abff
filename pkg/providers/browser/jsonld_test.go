package browser

import (
	"context"
	"errors"
	"testing"
)

const itemListBlock = `{
  "@context": "https://schema.org",
  "@type": "ItemList",
  "itemListElement": [
    {
      "@type": "ListItem",
      "position": 1,
      "item": {
        "@type": "Product",
        "name": " Widget Pro ",
        "image": ["http://x/img.png", "http://x/img2.png"],
        "sku": "abc123",
        "url": "http://x/p/1",
        "description": "A great widget",
        "offers": {"@type": "Offer", "price": 9.90, "priceCurrency": "EUR"},
        "aggregateRating": {"@type": "AggregateRating", "ratingValue": "4.5"}
      }
    },
    {
      "@type": "ListItem",
      "position": 2,
      "item": {
        "@type": ["Product", "Thing"],
        "name": "Widget Mini",
        "productID": "mini-1",
        "image": {"@type": "ImageObject", "url": "http://x/mini.png"},
        "offers": [{"@type": "AggregateOffer", "lowPrice": "4.50", "url": "http://x/p/2"}]
      }
    }
  ]
}`

const graphBlock = `{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "WebSite", "name": "Shop"},
    {"@type": "Product", "name": "Widget Max"}
  ]
}`

func TestParseJSONLD(t *testing.T) {
	blocks := []string{
		itemListBlock,
		`{"@type": "BreadcrumbList"}`,
		`{ not json`,
		"",
		graphBlock,
	}

	results := ParseJSONLD(blocks, "ShopA")
	if len(results) != 3 {
		t.Fatalf("Expected 3 products, got %d: %v", len(results), results)
	}

	pro := results[0]
	checks := map[string]*string{
		"Widget Pro":       pro.Title,
		"http://x/img.png": pro.Thumbnail,
		"abc123":           pro.ProductAPIID,
		"http://x/p/1":     pro.Link,
		"A great widget":   pro.Snippet,
		"9.90 EUR":         pro.Price,
		"4.5":              pro.Rating,
		"ShopA":            pro.Source,
	}
	for want, got := range checks {
		if got == nil || *got != want {
			t.Errorf("Expected %q, got %v", want, got)
		}
	}

	mini := results[1]
	if mini.ProductAPIID == nil || *mini.ProductAPIID != "mini-1" {
		t.Errorf("Expected productID fallback 'mini-1', got %v", mini.ProductAPIID)
	}
	if mini.Price == nil || *mini.Price != "4.50" {
		t.Errorf("Expected lowPrice '4.50', got %v", mini.Price)
	}
	if mini.Link == nil || *mini.Link != "http://x/p/2" {
		t.Errorf("Expected offer url fallback, got %v", mini.Link)
	}
	if mini.Thumbnail == nil || *mini.Thumbnail != "http://x/mini.png" {
		t.Errorf("Expected image object url, got %v", mini.Thumbnail)
	}
	if mini.Rating != nil || mini.Snippet != nil {
		t.Errorf("Expected absent rating and snippet, got %s", mini)
	}

	maxResult := results[2]
	if maxResult.Title == nil || *maxResult.Title != "Widget Max" {
		t.Errorf("Expected graph product 'Widget Max', got %v", maxResult.Title)
	}
}

func TestParseJSONLD_ArrayRoot(t *testing.T) {
	results := ParseJSONLD([]string{`[{"@type":"Product","name":"A"},{"@type":"Product","name":"B"}]`}, "")
	if len(results) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(results))
	}
	if results[0].Source != nil {
		t.Errorf("Expected absent source without label, got %q", *results[0].Source)
	}
}

func TestProvider_NoSearchURL(t *testing.T) {
	p := NewProvider("", "ShopA")
	if _, err := p.Search(context.Background(), "widget", 10); !errors.Is(err, ErrNoSearchURL) {
		t.Errorf("Expected ErrNoSearchURL, got %v", err)
	}
}
