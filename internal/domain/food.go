package domain

// SearchResult is a single hit from the ingredient search endpoint.
// Ephemeral: never persisted, only used to seed light food items.
type SearchResult struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// EnrichedFoodItem is an ingredient with optional nutrition data.
// Identity is the external ingredient ID; a result set never contains
// the same ID twice. Items start "light" (nil nutrition fields) and are
// replaced in place once enrichment succeeds. Energy, protein, fat and
// carbs are always set after enrichment (0 when the source omits them);
// fiber and sugar stay nil when missing, so callers can tell "zero"
// from "unknown".
type EnrichedFoodItem struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	ServingSize float64  `json:"servingSize"`
	ServingUnit string   `json:"servingUnit"`
	EnergyKcal  *int     `json:"energyKcal,omitempty"`
	ProteinG    *float64 `json:"proteinG,omitempty"`
	FatG        *float64 `json:"fatG,omitempty"`
	CarbsG      *float64 `json:"carbsG,omitempty"`
	FiberG      *float64 `json:"fiberG,omitempty"`
	SugarG      *float64 `json:"sugarG,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// Enriched reports whether nutrition data has been attached.
func (f *EnrichedFoodItem) Enriched() bool {
	return f.EnergyKcal != nil
}

// ScaledTo returns a copy with nutrition values scaled linearly to the
// given consumed amount in grams. Serving sizes of zero are treated as
// the 100 g reference the detail endpoint defaults to.
func (f EnrichedFoodItem) ScaledTo(grams float64) EnrichedFoodItem {
	ref := f.ServingSize
	if ref <= 0 {
		ref = 100
	}
	factor := grams / ref

	scaled := f
	scaled.ServingSize = grams
	if f.EnergyKcal != nil {
		kcal := int(float64(*f.EnergyKcal)*factor + 0.5)
		scaled.EnergyKcal = &kcal
	}
	scaled.ProteinG = scaleFloat(f.ProteinG, factor)
	scaled.FatG = scaleFloat(f.FatG, factor)
	scaled.CarbsG = scaleFloat(f.CarbsG, factor)
	scaled.FiberG = scaleFloat(f.FiberG, factor)
	scaled.SugarG = scaleFloat(f.SugarG, factor)
	return scaled
}

func scaleFloat(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	s := *v * factor
	return &s
}

// IngredientSearchResponse is one page from the ingredient search endpoint.
type IngredientSearchResponse struct {
	Results      []SearchResult `json:"results"`
	TotalResults *int           `json:"totalResults,omitempty"`
}

// IngredientDetail is the raw response from the ingredient detail endpoint.
type IngredientDetail struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Amount    *float64       `json:"amount,omitempty"`
	Unit      *string        `json:"unit,omitempty"`
	Image     *string        `json:"image,omitempty"`
	Nutrition NutritionBlock `json:"nutrition"`
}

// NutritionBlock wraps the unordered nutrient list of a detail response.
type NutritionBlock struct {
	Nutrients []Nutrient `json:"nutrients"`
}

// Nutrient is a single named nutrient amount.
type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}
