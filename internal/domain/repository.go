package domain

import (
	"context"
	"time"
)

// DetailCache defines the interface for caching enriched food items by
// ingredient ID.
type DetailCache interface {
	Get(ctx context.Context, id int) (*EnrichedFoodItem, error)
	Set(ctx context.Context, id int, item *EnrichedFoodItem, ttl time.Duration) error
	Delete(ctx context.Context, id int) error
}

// IngredientClient defines the interface for the external ingredient API.
// SearchPage fetches one page of search results at the given offset.
// FetchDetail fetches nutrition detail for a single ingredient, normalized
// to a 100 g reference amount, and returns it mapped to the domain model.
// MapLight builds the nutrition-free item a search result seeds before
// its detail fetch completes.
type IngredientClient interface {
	SearchPage(ctx context.Context, query string, offset int) (*IngredientSearchResponse, error)
	FetchDetail(ctx context.Context, id int) (*EnrichedFoodItem, error)
	MapLight(result SearchResult) EnrichedFoodItem
	PageSize() int
}

// NLClient defines the interface for the natural-language command parser.
type NLClient interface {
	Parse(ctx context.Context, text string) (*NLCommandResponse, error)
}
