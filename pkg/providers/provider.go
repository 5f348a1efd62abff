package providers

import (
	"context"

	"compre-api/pkg/models"
)

// Provider fetches product search results from one upstream source.
// num caps the number of results returned.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, num int) ([]models.ProductSearchResult, error)
}
