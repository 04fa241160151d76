package intent

import (
	"strings"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
)

var foodPhrases = strings.NewReplacer(
	"non-vegetarian", "nonvegetarian",
	"non vegetarian", "nonvegetarian",
	"non-veg", "nonveg",
	"non veg", "nonveg",
	"pure veg", "pureveg",
	"pure-veg", "pureveg",
	"नॉन वेज", "नॉनवेज",
	"నాన్ వెజ్", "నాన్వెజ్",
	"നോൺ വെജ്", "നോൺവെജ്",
)

func foodTokens(text string) []string {
	return strings.Fields(foodPhrases.Replace(Normalize(text)))
}

// DetectFoodTypeRequest reports a standalone food-type message such as "egg" or
// "show me veg items". Every token must be food-type vocabulary or menu filler,
// so "egg curry" is not a request.
func (c *Classifier) DetectFoodTypeRequest(text string) (models.FoodType, bool) {
	tokens := foodTokens(text)
	if len(tokens) == 0 {
		return models.FoodNone, false
	}
	found := models.FoodNone
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,!?")
		if ft, ok := c.foodWords[tok]; ok {
			if found != models.FoodNone && found != ft {
				return models.FoodNone, false
			}
			found = ft
			continue
		}
		if _, ok := c.filler[tok]; ok {
			continue
		}
		return models.FoodNone, false
	}
	if found == models.FoodNone {
		return models.FoodNone, false
	}
	return found, true
}

// ExtractFoodType finds the first food-type word in text and returns the text
// with all food-type words removed.
func (c *Classifier) ExtractFoodType(text string) (models.FoodType, string) {
	tokens := foodTokens(text)
	found := models.FoodNone
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if ft, ok := c.foodWords[tok]; ok {
			if found == models.FoodNone {
				found = ft
			}
			continue
		}
		kept = append(kept, tok)
	}
	return found, strings.Join(kept, " ")
}

// IsFoodWord reports whether a single token is food-type vocabulary
func (c *Classifier) IsFoodWord(token string) bool {
	_, ok := c.foodWords[strings.ToLower(token)]
	return ok
}
