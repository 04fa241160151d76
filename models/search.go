package models

// SearchResult is the ranked outcome of a catalog search; it is never persisted
type SearchResult struct {
	CatalogMatches   []CatalogItem `json:"catalog_matches"`
	SpecialMatches   []SpecialItem `json:"special_matches"`
	DetectedFoodType FoodType      `json:"detected_food_type,omitempty"`
	SearchTerm       string        `json:"search_term"`
	ExactMatch       bool          `json:"exact_match"`
}

// Empty reports whether nothing matched
func (r SearchResult) Empty() bool {
	return len(r.CatalogMatches) == 0 && len(r.SpecialMatches) == 0
}

// Count is the number of matches of both kinds
func (r SearchResult) Count() int {
	return len(r.CatalogMatches) + len(r.SpecialMatches)
}
