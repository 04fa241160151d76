package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxQuantity caps a single cart mutation
const MaxQuantity = 50

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"a": 1, "an": 1, "single": 1, "couple": 2,
	"ek": 1, "do": 2, "teen": 3, "char": 4, "paanch": 5, "panch": 5,
	"okati": 1, "rendu": 2, "moodu": 3, "naalugu": 4, "aidu": 5,
	"onnu": 1, "randu": 2, "moonu": 3, "naalu": 4, "anju": 5,
	"ondu": 1, "eradu": 2, "mooru": 3, "nalku": 4, "aidhu": 5,
	"এক": 1, "দুই": 2, "তিন": 3,
	"एक": 1, "दो": 2, "तीन": 3, "चार": 4, "पांच": 5,
}

var (
	leadingQty  = regexp.MustCompile(`^(\d{1,3})\s*(x|nos?|pcs?|plates?|pieces?)?\s+(.+)$`)
	trailingQty = regexp.MustCompile(`^(.+?)\s+(x\s*)?(\d{1,3})\s*(nos?|pcs?|plates?|pieces?)?$`)
	bareQty     = regexp.MustCompile(`^(x\s*)?(\d{1,3})\s*(nos?|pcs?|plates?|pieces?|qty)?$`)
	addPrefix   = regexp.MustCompile(`^(please\s+)?(add|i\s+want|i\s+need|i\s+would\s+like|i'd\s+like|give\s+me|get\s+me|send\s+me)(\s+|$)`)
	addSuffix   = regexp.MustCompile(`\s+((to|in|into)\s+(my\s+|the\s+)?(cart|card|kart|basket)|please|pls|chahiye|chaiye|chahie|kavali|kaavali|venum|vennum|beku|add|add\s+karo|add\s+cheyyi|add\s+pannu|add\s+maadi)$`)
)

// ParseQuantity reads a bare quantity reply such as "2", "x3", "two" or "do".
func ParseQuantity(text string) (int, bool) {
	t := Normalize(text)
	if m := bareQty.FindStringSubmatch(t); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, false
		}
		return clampQty(n)
	}
	if n, ok := numberWords[t]; ok {
		return n, true
	}
	return 0, false
}

// ParseItemQuantity splits "2 idli", "idli x 2" or "two idli" into a quantity and
// an item phrase. A phrase without a number is quantity 1 and explicit is false.
func ParseItemQuantity(text string) (qty int, name string, explicit bool) {
	t := Normalize(text)
	if m := leadingQty.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			if q, ok := clampQty(n); ok {
				return q, strings.TrimSpace(m[3]), true
			}
		}
	}
	if m := trailingQty.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[3]); err == nil {
			if q, ok := clampQty(n); ok {
				return q, strings.TrimSpace(m[1]), true
			}
		}
	}
	if fields := strings.Fields(t); len(fields) > 1 {
		if n, ok := numberWords[fields[0]]; ok {
			return n, strings.Join(fields[1:], " "), true
		}
	}
	return 1, t, false
}

// ParseAddToCart strips add-to-cart phrasing ("add 2 idli to cart",
// "idli 2 chahiye") and returns the quantity and item phrase.
func ParseAddToCart(text string) (qty int, name string, ok bool) {
	t := Normalize(text)
	t = addPrefix.ReplaceAllString(t, "")
	for {
		stripped := addSuffix.ReplaceAllString(t, "")
		if stripped == t {
			break
		}
		t = stripped
	}
	qty, name, _ = ParseItemQuantity(t)
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, "", false
	}
	return qty, name, true
}

func clampQty(n int) (int, bool) {
	if n < 1 {
		return 0, false
	}
	if n > MaxQuantity {
		return MaxQuantity, true
	}
	return n, true
}
