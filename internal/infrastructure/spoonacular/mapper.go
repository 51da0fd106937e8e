package spoonacular

import (
	"fmt"
	"math"

	"github.com/calorietrack/backend/internal/domain"
)

// Nutrient names as the detail endpoint spells them. Matching is exact
// and case-sensitive; the nutrient list is unordered.
const (
	NutrientCalories = "Calories"
	NutrientProtein  = "Protein"
	NutrientFat      = "Fat"
	NutrientCarbs    = "Carbohydrates"
	NutrientFiber    = "Fiber"
	NutrientSugar    = "Sugar"
)

// Image size variants served by the Spoonacular CDN.
const (
	imageSizeLight    = "ingredients_250x250"
	imageSizeEnriched = "ingredients_500x500"
)

// MapLight converts a search result into a light food item: name and
// image only, all nutrition fields nil until enrichment completes.
func (c *Client) MapLight(result domain.SearchResult) domain.EnrichedFoodItem {
	return domain.EnrichedFoodItem{
		ID:          result.ID,
		Name:        result.Name,
		ServingSize: 100,
		ServingUnit: "g",
		ImageURL:    c.imageURL(result.Image, imageSizeLight),
	}
}

// MapDetail converts a detail response into an enriched food item.
// Energy, protein, fat and carbs default to 0 when their nutrient is
// missing; fiber and sugar stay nil so callers can distinguish a true
// zero from an unreported value.
func (c *Client) MapDetail(detail *domain.IngredientDetail) domain.EnrichedFoodItem {
	nutrients := detail.Nutrition.Nutrients

	kcal := int(math.Round(findNutrient(nutrients, NutrientCalories)))
	protein := findNutrient(nutrients, NutrientProtein)
	fat := findNutrient(nutrients, NutrientFat)
	carbs := findNutrient(nutrients, NutrientCarbs)

	item := domain.EnrichedFoodItem{
		ID:          detail.ID,
		Name:        detail.Name,
		ServingSize: 100,
		ServingUnit: "g",
		EnergyKcal:  &kcal,
		ProteinG:    &protein,
		FatG:        &fat,
		CarbsG:      &carbs,
		FiberG:      findNutrientOptional(nutrients, NutrientFiber),
		SugarG:      findNutrientOptional(nutrients, NutrientSugar),
	}

	if detail.Amount != nil {
		item.ServingSize = *detail.Amount
	}
	if detail.Unit != nil {
		item.ServingUnit = *detail.Unit
	}
	if detail.Image != nil {
		item.ImageURL = c.imageURL(*detail.Image, imageSizeEnriched)
	}
	return item
}

// findNutrient returns the named nutrient's amount, or 0 when absent.
func findNutrient(nutrients []domain.Nutrient, name string) float64 {
	for _, n := range nutrients {
		if n.Name == name {
			return n.Amount
		}
	}
	return 0
}

// findNutrientOptional returns the named nutrient's amount, or nil when
// absent.
func findNutrientOptional(nutrients []domain.Nutrient, name string) *float64 {
	for _, n := range nutrients {
		if n.Name == name {
			amount := n.Amount
			return &amount
		}
	}
	return nil
}

// imageURL resolves a bare image filename against the CDN base for the
// given size variant.
func (c *Client) imageURL(filename, size string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", c.imageBaseURL, size, filename)
}
