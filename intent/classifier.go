// Package intent maps free customer text onto a fixed set of control intents.
//
// Pattern tables are data: the defaults are embedded from patterns.yaml and a
// deployment can replace them with LoadFile. Precedence between families is the
// explicit `order` list in the table, never the order patterns appear in code.
package intent

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"gopkg.in/yaml.v3"
)

// Intent is a classified customer purpose
type Intent string

const (
	None           Intent = ""
	Cancel         Intent = "cancel"
	Refund         Intent = "refund"
	Track          Intent = "track"
	ClearCart      Intent = "clear_cart"
	ViewCart       Intent = "view_cart"
	ShowMenu       Intent = "show_menu"
	AddToCart      Intent = "add_to_cart"
	OrderStatus    Intent = "order_status"
	CategorySearch Intent = "category_search"
)

var known = map[Intent]struct{}{
	Cancel: {}, Refund: {}, Track: {}, ClearCart: {}, ViewCart: {},
	ShowMenu: {}, AddToCart: {}, OrderStatus: {}, CategorySearch: {},
}

//go:embed patterns.yaml
var defaultPatterns []byte

// Tables is the on-disk shape of the pattern tables
type Tables struct {
	Order     []string            `yaml:"order"`
	Families  map[string][]string `yaml:"families"`
	Greetings []string            `yaml:"greetings"`
	FoodTypes map[string][]string `yaml:"food_types"`
	Filler    []string            `yaml:"filler"`
}

type family struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// Classifier holds compiled pattern tables; it is safe for concurrent use
type Classifier struct {
	families  []family
	greetings []*regexp.Regexp
	foodWords map[string]models.FoodType
	filler    map[string]struct{}
}

// ParseTables decodes YAML pattern tables
func ParseTables(data []byte) (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("failed to decode pattern tables: %w", err)
	}
	return t, nil
}

// New compiles tables into a classifier
func New(t Tables) (*Classifier, error) {
	if len(t.Order) == 0 {
		return nil, fmt.Errorf("pattern tables have no family order")
	}
	c := &Classifier{
		foodWords: make(map[string]models.FoodType),
		filler:    make(map[string]struct{}),
	}
	seen := make(map[Intent]bool)
	for _, name := range t.Order {
		in := Intent(name)
		if _, ok := known[in]; !ok {
			return nil, fmt.Errorf("unknown intent family %q in order", name)
		}
		if seen[in] {
			return nil, fmt.Errorf("intent family %q listed twice", name)
		}
		seen[in] = true
		raw, ok := t.Families[name]
		if !ok {
			return nil, fmt.Errorf("intent family %q has no patterns", name)
		}
		compiled, err := compileAll(raw)
		if err != nil {
			return nil, fmt.Errorf("family %s: %w", name, err)
		}
		c.families = append(c.families, family{intent: in, patterns: compiled})
	}

	greetings, err := compileAll(t.Greetings)
	if err != nil {
		return nil, fmt.Errorf("greetings: %w", err)
	}
	c.greetings = greetings

	for ft, words := range t.FoodTypes {
		foodType := models.FoodType(ft)
		switch foodType {
		case models.FoodVeg, models.FoodNonVeg, models.FoodEgg:
		default:
			return nil, fmt.Errorf("unknown food type %q", ft)
		}
		for _, w := range words {
			c.foodWords[strings.ToLower(w)] = foodType
		}
	}
	for _, w := range t.Filler {
		c.filler[strings.ToLower(w)] = struct{}{}
	}
	return c, nil
}

func compileAll(raw []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(raw))
	for _, p := range raw {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Default returns a classifier over the embedded tables
func Default() *Classifier {
	t, err := ParseTables(defaultPatterns)
	if err != nil {
		panic(err)
	}
	c, err := New(t)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile builds a classifier from a YAML file on disk
func LoadFile(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}
	t, err := ParseTables(data)
	if err != nil {
		return nil, err
	}
	return New(t)
}

var spaces = regexp.MustCompile(`\s+`)

// Normalize lower-cases text and collapses runs of whitespace
func Normalize(text string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(strings.ToLower(text), " "))
}

// Classify returns the first family, in table order, with a matching pattern
func (c *Classifier) Classify(text string) Intent {
	t := Normalize(text)
	if t == "" {
		return None
	}
	for _, f := range c.families {
		for _, re := range f.patterns {
			if re.MatchString(t) {
				return f.intent
			}
		}
	}
	return None
}

// Matches reports whether text matches a single family, ignoring precedence
func (c *Classifier) Matches(text string, in Intent) bool {
	t := Normalize(text)
	for _, f := range c.families {
		if f.intent != in {
			continue
		}
		for _, re := range f.patterns {
			if re.MatchString(t) {
				return true
			}
		}
	}
	return false
}

// IsGreeting reports whether the whole message is a greeting or home command
func (c *Classifier) IsGreeting(text string) bool {
	t := Normalize(text)
	for _, re := range c.greetings {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}
