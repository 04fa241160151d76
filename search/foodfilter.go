package search

import (
	"strings"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
)

var nonVegIngredients = []string{
	"chicken", "mutton", "fish", "prawn", "prawns", "shrimp", "crab", "meat", "keema", "kheema",
	"beef", "pork", "lamb", "goat", "kodi", "kozhi", "murgh", "gosht", "mamsam", "chepa", "meen",
	"machli", "royyalu", "eral", "seafood",
}

var eggIngredients = []string{"egg", "eggs", "anda", "omelette", "omelet", "bhurji", "muttai", "guddu"}

var vegIngredients = []string{
	"paneer", "dal", "daal", "dhal", "veg", "vegetable", "vegetables", "aloo", "potato", "gobi",
	"mushroom", "palak", "chana", "chole", "rajma", "sambar", "tofu", "corn", "bhindi", "pappu",
	"paruppu", "sabzi", "sabji", "kofta", "mixveg",
}

func containsAny(tokens map[string]struct{}, words []string) bool {
	for _, w := range words {
		if _, ok := tokens[w]; ok {
			return true
		}
	}
	return false
}

// ingredientFoodType restricts a search to a dietary class when the phrase names
// only one side; a phrase naming both, or neither, is unrestricted.
func ingredientFoodType(phrase string) models.FoodType {
	tokens := make(map[string]struct{})
	for _, t := range strings.Fields(strings.ToLower(phrase)) {
		tokens[t] = struct{}{}
	}
	veg := containsAny(tokens, vegIngredients)
	egg := containsAny(tokens, eggIngredients)
	nonVeg := containsAny(tokens, nonVegIngredients)

	switch {
	case veg && (nonVeg || egg):
		return models.FoodNone
	case nonVeg:
		return models.FoodNonVeg
	case egg:
		return models.FoodEgg
	case veg:
		return models.FoodVeg
	}
	return models.FoodNone
}

func filterCatalog(items []models.CatalogItem, ft models.FoodType) []models.CatalogItem {
	if ft == models.FoodNone || ft == "" {
		return items
	}
	out := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.FoodType == ft {
			out = append(out, item)
		}
	}
	return out
}

func filterSpecials(items []models.SpecialItem, ft models.FoodType) []models.SpecialItem {
	if ft == models.FoodNone || ft == "" {
		return items
	}
	out := make([]models.SpecialItem, 0, len(items))
	for _, item := range items {
		if item.FoodType == "" || item.FoodType == models.FoodNone || item.FoodType == ft {
			out = append(out, item)
		}
	}
	return out
}
