package models

import (
	"strconv"
	"strings"
)

// ProductSearchResult is one hit of a product search as reported by the
// upstream provider. Every field is optional; nil means the provider did
// not send it, which is different from an empty string.
type ProductSearchResult struct {
	Title        *string `json:"title"`
	Price        *string `json:"price"`
	Source       *string `json:"source"`
	Thumbnail    *string `json:"thumbnail"`
	ProductAPIID *string `json:"productApiId"`
	Link         *string `json:"link"`
	Snippet      *string `json:"snippet"`
	Rating       *string `json:"rating"`
}

// Text returns a field value holding s.
func Text(s string) *string {
	return &s
}

// Value reads a field, returning "" when it is absent.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (r ProductSearchResult) fields() [8]*string {
	return [8]*string{r.Title, r.Price, r.Source, r.Thumbnail, r.ProductAPIID, r.Link, r.Snippet, r.Rating}
}

var fieldNames = [8]string{"title", "price", "source", "thumbnail", "productApiId", "link", "snippet", "rating"}

// Equal reports whether all eight fields match. Absent fields only match
// absent fields.
func (r ProductSearchResult) Equal(other ProductSearchResult) bool {
	a, b := r.fields(), other.fields()
	for i := range a {
		if (a[i] == nil) != (b[i] == nil) {
			return false
		}
		if a[i] != nil && *a[i] != *b[i] {
			return false
		}
	}
	return true
}

func (r ProductSearchResult) String() string {
	var sb strings.Builder
	sb.WriteString("ProductSearchResult(")
	for i, f := range r.fields() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fieldNames[i])
		sb.WriteByte('=')
		if f == nil {
			sb.WriteString("null")
		} else {
			sb.WriteString(strconv.Quote(*f))
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
