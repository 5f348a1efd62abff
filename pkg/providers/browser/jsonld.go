package browser

import (
	"encoding/json"
	"strings"

	"compre-api/pkg/logger"
	"compre-api/pkg/models"
)

// ParseJSONLD extracts schema.org Product entries from JSON-LD script
// bodies. Products nested in ItemList elements and @graph arrays are
// included; malformed blocks are skipped.
func ParseJSONLD(blocks []string, source string) []models.ProductSearchResult {
	var results []models.ProductSearchResult

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(block))
		dec.UseNumber()

		var doc any
		if err := dec.Decode(&doc); err != nil {
			logger.Log.Debug().Err(err).Msg("Skipping malformed JSON-LD block")
			continue
		}

		walk(doc, func(node map[string]any) {
			results = append(results, productFromNode(node, source))
		})
	}

	return results
}

func walk(v any, visit func(map[string]any)) {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			walk(item, visit)
		}
	case map[string]any:
		if hasType(node, "Product") {
			visit(node)
			return
		}
		if graph, ok := node["@graph"]; ok {
			walk(graph, visit)
		}
		if hasType(node, "ItemList") {
			walk(node["itemListElement"], visit)
		}
		if hasType(node, "ListItem") {
			walk(node["item"], visit)
		}
	}
}

func hasType(node map[string]any, want string) bool {
	switch t := node["@type"].(type) {
	case string:
		return t == want
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func productFromNode(node map[string]any, source string) models.ProductSearchResult {
	r := models.ProductSearchResult{
		Title:        text(node["name"]),
		Thumbnail:    image(node["image"]),
		ProductAPIID: text(node["sku"]),
		Link:         text(node["url"]),
		Snippet:      text(node["description"]),
	}

	if r.ProductAPIID == nil {
		r.ProductAPIID = text(node["productID"])
	}
	if source != "" {
		r.Source = models.Text(source)
	}

	if offer := firstObject(node["offers"]); offer != nil {
		price := text(offer["price"])
		if price == nil {
			price = text(offer["lowPrice"])
		}
		if price != nil {
			if currency := text(offer["priceCurrency"]); currency != nil && *currency != "" {
				price = models.Text(*price + " " + *currency)
			}
			r.Price = price
		}
		if r.Link == nil {
			r.Link = text(offer["url"])
		}
	}

	if rating := firstObject(node["aggregateRating"]); rating != nil {
		r.Rating = text(rating["ratingValue"])
	}

	return r
}

func text(v any) *string {
	switch val := v.(type) {
	case string:
		return models.Text(strings.TrimSpace(val))
	case json.Number:
		return models.Text(val.String())
	}
	return nil
}

func image(v any) *string {
	switch val := v.(type) {
	case []any:
		if len(val) > 0 {
			return image(val[0])
		}
	case map[string]any:
		return text(val["url"])
	}
	return text(v)
}

func firstObject(v any) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		return val
	case []any:
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}
