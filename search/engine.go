// Package search resolves a customer's search phrase into ranked catalog and
// special-item matches.
package search

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/intent"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"go.uber.org/zap"
)

// Translation is a primary rendering of a phrase plus alternative renderings
type Translation struct {
	Primary    string   `json:"primary"`
	Variations []string `json:"variations"`
}

// Assistant is the external translation and spelling-correction collaborator
type Assistant interface {
	CorrectSpelling(ctx context.Context, text string, vocabulary []string) (string, error)
	Translate(ctx context.Context, text string) (Translation, error)
}

// DefaultAssistTimeout bounds every call into the Assistant
const DefaultAssistTimeout = 3 * time.Second

// Scores used by the fuzzy fallback
const (
	scoreExactName = 100
	scoreExactTag  = 50
	scoreSubstring = 10
	scoreKeyword   = 20
)

var stopwords = map[string]struct{}{
	"and": {}, "with": {}, "the": {}, "a": {}, "an": {}, "some": {}, "please": {}, "pls": {},
	"me": {}, "show": {}, "give": {}, "want": {}, "i": {}, "of": {}, "for": {}, "to": {},
	"my": {}, "any": {}, "item": {}, "items": {}, "do": {}, "you": {}, "have": {},
}

// Engine runs the search pipeline
type Engine struct {
	classifier *intent.Classifier
	assist     Assistant
	synonyms   *Synonyms
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithAssistant sets the translation/spelling collaborator
func WithAssistant(a Assistant) Option {
	return func(e *Engine) { e.assist = a }
}

// WithSynonyms replaces the embedded synonym table
func WithSynonyms(s *Synonyms) Option {
	return func(e *Engine) { e.synonyms = s }
}

// WithAssistTimeout bounds each assistant call
func WithAssistTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a search engine
func NewEngine(classifier *intent.Classifier, opts ...Option) *Engine {
	e := &Engine{
		classifier: classifier,
		synonyms:   DefaultSynonyms(),
		timeout:    DefaultAssistTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// squash lower-cases and drops whitespace so "ground nuts" equals "groundnuts"
func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}

// Search resolves phrase against snap
func (e *Engine) Search(ctx context.Context, phrase string, snap *models.Snapshot) models.SearchResult {
	phrase = intent.Normalize(phrase)
	result := models.SearchResult{SearchTerm: phrase}
	if phrase == "" || snap == nil {
		return result
	}

	// 1. spelling correction against the known vocabulary
	corrected := e.correct(ctx, phrase, snap)

	// 2. translation, keeping every variation
	variations := e.translate(ctx, corrected)
	primary := variations[0]

	// 3. food type on the primary rendering, stripped from the search term
	foodType, term := e.classifier.ExtractFoodType(primary)
	term = strings.TrimSpace(term)
	result.DetectedFoodType = foodType
	result.SearchTerm = term
	if term == "" {
		result.SearchTerm = primary
	}

	candidates := make([]string, 0, len(variations)*2)
	for _, v := range variations {
		candidates = appendUnique(candidates, v)
		if _, stripped := e.classifier.ExtractFoodType(v); stripped != "" {
			candidates = appendUnique(candidates, stripped)
		}
	}

	// 4. exact-name short circuit
	if cat, sp := exactNameMatches(candidates, snap); len(cat)+len(sp) > 0 {
		result.CatalogMatches = cat
		result.SpecialMatches = sp
		result.ExactMatch = true
		return result
	}

	filter := foodType
	if filter == models.FoodNone {
		filter = ingredientFoodType(primary)
	}

	if term == "" {
		// bare food-type phrase: everything of that type
		if foodType != models.FoodNone {
			result.CatalogMatches = filterCatalog(snap.Items, foodType)
			result.SpecialMatches = filterSpecials(snap.Specials, foodType)
		}
		return result
	}

	// tag and fuzzy steps run over every rendering, food-type words removed
	var searchTerms []string
	for _, c := range candidates {
		if _, stripped := e.classifier.ExtractFoodType(c); strings.TrimSpace(stripped) != "" {
			searchTerms = appendUnique(searchTerms, strings.TrimSpace(stripped))
		}
	}
	var keywords []string
	var all []models.CatalogItem
	for _, st := range searchTerms {
		kws := keywordsOf(st)
		keywords = appendUnique(keywords, kws...)
		all = appendItems(all, e.tagMatchAll(kws, snap.Items))
	}

	// 5. exact-tag short circuit: conjunctive per rendering, then disjunctive
	if len(all) > 0 {
		result.CatalogMatches = filterCatalog(all, filter)
		if len(result.CatalogMatches) > 0 {
			result.ExactMatch = true
			return result
		}
	}
	if some := e.tagMatchAny(keywords, snap.Items); len(some) > 0 {
		result.CatalogMatches = filterCatalog(some, filter)
		result.SpecialMatches = filterSpecials(fuzzySpecials(candidates, keywords, snap.Specials), filter)
		if len(result.CatalogMatches) > 0 {
			return result
		}
	}

	// 6. fuzzy fallback over synonym-expanded keywords
	expanded := e.synonyms.ExpandAll(keywords)
	terms := append([]string(nil), searchTerms...)
	for _, kw := range expanded {
		terms = appendUnique(terms, kw)
	}

	// 7. dietary post-filter
	result.CatalogMatches = filterCatalog(fuzzyCatalog(terms, expanded, snap.Items), filter)
	result.SpecialMatches = filterSpecials(fuzzySpecials(terms, expanded, snap.Specials), filter)
	return result
}

func (e *Engine) correct(ctx context.Context, phrase string, snap *models.Snapshot) string {
	if e.assist == nil {
		return phrase
	}
	vocab := vocabulary(snap)
	known := make(map[string]struct{}, len(vocab))
	for _, v := range vocab {
		for _, tok := range strings.Fields(strings.ToLower(v)) {
			known[tok] = struct{}{}
		}
	}
	needed := false
	for _, tok := range strings.Fields(phrase) {
		if _, ok := known[tok]; ok {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if e.classifier.IsFoodWord(tok) || hasNonASCII(tok) {
			continue
		}
		needed = true
		break
	}
	if !needed {
		return phrase
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	out, err := e.assist.CorrectSpelling(cctx, phrase, vocab)
	if err != nil {
		e.logger.Warn("spelling correction failed, using phrase as typed",
			zap.String("phrase", phrase), zap.Error(err))
		return phrase
	}
	out = intent.Normalize(out)
	if out == "" {
		return phrase
	}
	return out
}

// translate returns the primary rendering first, followed by the variations
// and the untranslated phrase.
func (e *Engine) translate(ctx context.Context, phrase string) []string {
	if e.assist == nil {
		return []string{phrase}
	}
	if !hasNonASCII(phrase) && !e.synonyms.HasRegionalTerm(strings.Fields(phrase)) {
		return []string{phrase}
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	tr, err := e.assist.Translate(cctx, phrase)
	if err != nil {
		e.logger.Warn("translation failed, searching untranslated phrase",
			zap.String("phrase", phrase), zap.Error(err))
		return []string{phrase}
	}
	out := make([]string, 0, len(tr.Variations)+2)
	if p := intent.Normalize(tr.Primary); p != "" {
		out = append(out, p)
	}
	for _, v := range tr.Variations {
		if v = intent.Normalize(v); v != "" {
			out = appendUnique(out, v)
		}
	}
	return appendUnique(out, phrase)
}

func vocabulary(snap *models.Snapshot) []string {
	var out []string
	for _, item := range snap.Items {
		out = appendUnique(out, strings.ToLower(item.Name))
		for _, t := range item.Tags {
			out = appendUnique(out, strings.ToLower(t))
		}
	}
	for _, s := range snap.Specials {
		out = appendUnique(out, strings.ToLower(s.Name))
	}
	return out
}

func keywordsOf(term string) []string {
	var out []string
	for _, tok := range strings.Fields(term) {
		tok = strings.Trim(tok, ".,!?'\"")
		if tok == "" {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		out = appendUnique(out, tok)
	}
	return out
}

// appendItems adds items not already present by id
func appendItems(dst []models.CatalogItem, items []models.CatalogItem) []models.CatalogItem {
	for _, item := range items {
		seen := false
		for _, d := range dst {
			if d.ID == item.ID {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, item)
		}
	}
	return dst
}

func exactNameMatches(candidates []string, snap *models.Snapshot) ([]models.CatalogItem, []models.SpecialItem) {
	want := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		want[squash(c)] = struct{}{}
	}
	var cat []models.CatalogItem
	for _, item := range snap.Items {
		if _, ok := want[squash(item.Name)]; ok {
			cat = append(cat, item)
		}
	}
	var sp []models.SpecialItem
	for _, item := range snap.Specials {
		if _, ok := want[squash(item.Name)]; ok {
			sp = append(sp, item)
		}
	}
	return cat, sp
}

// hasTag matches a keyword against an item's tags, treating synonyms as equal
func (e *Engine) hasTag(item models.CatalogItem, keyword string) bool {
	for _, t := range item.Tags {
		if e.synonyms.Equivalent(keyword, t) {
			return true
		}
	}
	return false
}

func (e *Engine) tagMatchAll(keywords []string, items []models.CatalogItem) []models.CatalogItem {
	if len(keywords) == 0 {
		return nil
	}
	var out []models.CatalogItem
	for _, item := range items {
		all := true
		for _, kw := range keywords {
			if !e.hasTag(item, kw) {
				all = false
				break
			}
		}
		if all {
			out = append(out, item)
		}
	}
	return out
}

func (e *Engine) tagMatchAny(keywords []string, items []models.CatalogItem) []models.CatalogItem {
	type hit struct {
		item  models.CatalogItem
		count int
	}
	var hits []hit
	for _, item := range items {
		n := 0
		for _, kw := range keywords {
			if e.hasTag(item, kw) {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, hit{item: item, count: n})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].count > hits[j].count })
	out := make([]models.CatalogItem, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.item)
	}
	return out
}

// scoreText applies the fuzzy weights to one name and its tags
func scoreText(name string, tags []string, terms, keywords []string) int {
	sn := squash(name)
	score := 0
	for _, t := range terms {
		st := squash(t)
		if st == "" {
			continue
		}
		if sn == st {
			score += scoreExactName
		} else if len(st) >= 3 && strings.Contains(sn, st) {
			score += scoreSubstring
		}
		for _, tag := range tags {
			stag := squash(tag)
			if stag == st {
				score += scoreExactTag
			} else if len(st) >= 3 && strings.Contains(stag, st) {
				score += scoreSubstring
			}
		}
	}
	for _, kw := range keywords {
		sk := squash(kw)
		if len(sk) < 3 {
			continue
		}
		matched := strings.Contains(sn, sk)
		for _, tag := range tags {
			if matched {
				break
			}
			matched = strings.Contains(squash(tag), sk)
		}
		if matched {
			score += scoreKeyword
		}
	}
	return score
}

func fuzzyCatalog(terms, keywords []string, items []models.CatalogItem) []models.CatalogItem {
	type scored struct {
		item  models.CatalogItem
		score int
	}
	var hits []scored
	for _, item := range items {
		if s := scoreText(item.Name, item.Tags, terms, keywords); s > 0 {
			hits = append(hits, scored{item: item, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	out := make([]models.CatalogItem, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.item)
	}
	return out
}

func fuzzySpecials(terms, keywords []string, items []models.SpecialItem) []models.SpecialItem {
	type scored struct {
		item  models.SpecialItem
		score int
	}
	var hits []scored
	for _, item := range items {
		if s := scoreText(item.Name, nil, terms, keywords); s > 0 {
			hits = append(hits, scored{item: item, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	out := make([]models.SpecialItem, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.item)
	}
	return out
}
