package usecase

import (
	"context"
	"sync"

	"github.com/calorietrack/backend/internal/domain"
)

// MockIngredientClient is a hand-written mock of domain.IngredientClient
// with call counting, safe for use from the pipeline goroutine.
type MockIngredientClient struct {
	mu sync.Mutex

	pageSize    int
	pages       map[int]*domain.IngredientSearchResponse // keyed by offset
	searchErr   error
	searchCalls []int // offsets, in call order

	// detailFunc decides the outcome of a FetchDetail call; attempt is
	// zero-based per id.
	detailFunc  func(id, attempt int) (*domain.EnrichedFoodItem, error)
	detailCalls map[int]int
}

func NewMockIngredientClient() *MockIngredientClient {
	return &MockIngredientClient{
		pages:       make(map[int]*domain.IngredientSearchResponse),
		detailCalls: make(map[int]int),
	}
}

func (m *MockIngredientClient) PageSize() int {
	if m.pageSize == 0 {
		return 100
	}
	return m.pageSize
}

func (m *MockIngredientClient) SearchPage(ctx context.Context, query string, offset int) (*domain.IngredientSearchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searchCalls = append(m.searchCalls, offset)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if page, ok := m.pages[offset]; ok {
		return page, nil
	}
	return &domain.IngredientSearchResponse{Results: []domain.SearchResult{}}, nil
}

func (m *MockIngredientClient) FetchDetail(ctx context.Context, id int) (*domain.EnrichedFoodItem, error) {
	m.mu.Lock()
	attempt := m.detailCalls[id]
	m.detailCalls[id]++
	fn := m.detailFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(id, attempt)
	}
	item := enrichedItem(id)
	return &item, nil
}

func (m *MockIngredientClient) MapLight(result domain.SearchResult) domain.EnrichedFoodItem {
	return domain.EnrichedFoodItem{
		ID:          result.ID,
		Name:        result.Name,
		ServingSize: 100,
		ServingUnit: "g",
	}
}

func (m *MockIngredientClient) SearchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.searchCalls)
}

func (m *MockIngredientClient) SearchOffsets() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.searchCalls))
	copy(out, m.searchCalls)
	return out
}

func (m *MockIngredientClient) DetailCallCount(id int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detailCalls[id]
}

func (m *MockIngredientClient) TotalDetailCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.detailCalls {
		total += n
	}
	return total
}

// enrichedItem builds a fully enriched item for id with deterministic
// nutrition values.
func enrichedItem(id int) domain.EnrichedFoodItem {
	kcal := id * 10
	protein := float64(id)
	fat := float64(id) / 2
	carbs := float64(id) * 2
	return domain.EnrichedFoodItem{
		ID:          id,
		Name:        "item",
		ServingSize: 100,
		ServingUnit: "g",
		EnergyKcal:  &kcal,
		ProteinG:    &protein,
		FatG:        &fat,
		CarbsG:      &carbs,
	}
}

// searchPage builds one page of search results from ids.
func searchPage(ids ...int) *domain.IngredientSearchResponse {
	results := make([]domain.SearchResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, domain.SearchResult{ID: id, Name: "item"})
	}
	return &domain.IngredientSearchResponse{Results: results}
}
