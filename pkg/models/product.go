package models

import (
	"fmt"

	"compre-api/pkg/normalize"
)

const (
	DefaultName     = "Unnamed product"
	DefaultImage    = "/placeholder.svg"
	DefaultCategory = "Electronics"
)

// Product is the catalog view of a search result used by display clients.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Source   string  `json:"source,omitempty"`
	Link     string  `json:"link,omitempty"`
	Snippet  string  `json:"snippet,omitempty"`
}

// NewProduct builds the catalog view for the result at position index.
// Results without an API id get "<prefix>-<index>".
func NewProduct(r ProductSearchResult, index int, prefix string) Product {
	p := Product{
		ID:       Value(r.ProductAPIID),
		Name:     Value(r.Title),
		Price:    normalize.Price(r.Price),
		Rating:   normalize.Rating(r.Rating),
		Image:    Value(r.Thumbnail),
		Category: Value(r.Source),
		Source:   Value(r.Source),
		Link:     Value(r.Link),
		Snippet:  Value(r.Snippet),
	}

	if p.ID == "" {
		p.ID = fmt.Sprintf("%s-%d", prefix, index)
	}
	if p.Name == "" {
		p.Name = DefaultName
	}
	if p.Image == "" {
		p.Image = DefaultImage
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}

	return p
}

func NewProducts(results []ProductSearchResult, prefix string) []Product {
	products := make([]Product, 0, len(results))
	for i, r := range results {
		products = append(products, NewProduct(r, i, prefix))
	}
	return products
}
