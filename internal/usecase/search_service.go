package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/calorietrack/backend/internal/domain"
)

// SearchService runs the search-then-enrich workflow: fetch one or more
// pages of ingredient hits, return a light (nutrition-free) list at
// once, and stream enriched items after it. Starting a new search
// cancels the previous run so stale results never overwrite fresh ones.
type SearchService struct {
	client   domain.IngredientClient
	pipeline *EnrichmentPipeline

	mu         sync.Mutex
	cancelPrev context.CancelFunc
}

// NewSearchService creates a search service with its dependencies.
func NewSearchService(client domain.IngredientClient, pipeline *EnrichmentPipeline) *SearchService {
	return &SearchService{
		client:   client,
		pipeline: pipeline,
	}
}

// SearchRun is the result of one search workflow. Light holds the
// deduplicated nutrition-free items in page order; Items streams
// enriched versions in that same order and closes when enrichment
// finishes or the run is cancelled. Cancel stops the run; the next
// Search call also cancels it implicitly.
type SearchRun struct {
	Light  []domain.EnrichedFoodItem
	Items  <-chan domain.EnrichedFoodItem
	Cancel context.CancelFunc
}

// Search fetches up to pages pages of results for query. An empty
// (all-whitespace) query completes immediately with no results and no
// network traffic; this guards the API quota and is not an error.
// Any page failure aborts the whole call. A cancelled call returns
// context.Canceled, which callers treat as silent rather than a failure.
func (s *SearchService) Search(ctx context.Context, query string, pages int) (*SearchRun, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		done := make(chan domain.EnrichedFoodItem)
		close(done)
		return &SearchRun{Light: []domain.EnrichedFoodItem{}, Items: done, Cancel: func() {}}, nil
	}

	if pages < 1 {
		pages = 1
	}

	runCtx, cancel := s.supersede(ctx)

	results, err := s.loadPages(runCtx, trimmed, pages)
	if err != nil {
		cancel()
		return nil, err
	}

	results = dedupeByID(results)

	light := make([]domain.EnrichedFoodItem, 0, len(results))
	ids := make([]int, 0, len(results))
	for _, r := range results {
		light = append(light, s.client.MapLight(r))
		ids = append(ids, r.ID)
	}

	log.Printf("[SEARCH] query=%q pages=%d -> %d unique results", trimmed, pages, len(results))

	return &SearchRun{
		Light:  light,
		Items:  s.pipeline.Enrich(runCtx, ids),
		Cancel: cancel,
	}, nil
}

// supersede cancels the previous run, if any, and registers a new one.
func (s *SearchService) supersede(ctx context.Context) (context.Context, context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelPrev = cancel
	return runCtx, cancel
}

// loadPages fetches pages sequentially at increasing offsets, keeping
// page order and the order within each page. Any failure aborts the
// whole load.
func (s *SearchService) loadPages(ctx context.Context, query string, pages int) ([]domain.SearchResult, error) {
	pageSize := s.client.PageSize()

	var out []domain.SearchResult
	for page := 0; page < pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := s.client.SearchPage(ctx, query, page*pageSize)
		if err != nil {
			return nil, fmt.Errorf("search page %d: %w", page, err)
		}
		out = append(out, resp.Results...)
	}
	return out, nil
}

// dedupeByID drops repeated ingredient IDs, keeping the first occurrence
// so result order stays deterministic across page boundaries.
func dedupeByID(results []domain.SearchResult) []domain.SearchResult {
	seen := make(map[int]struct{}, len(results))
	out := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
