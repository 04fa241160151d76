package search

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed synonyms.yaml
var defaultSynonyms []byte

type synonymFile struct {
	Groups        [][]string `yaml:"groups"`
	RegionalTerms []string   `yaml:"regional_terms"`
}

// Synonyms expands dish words to their equivalents in both directions
type Synonyms struct {
	groups   map[string][]string
	regional map[string]struct{}
}

// ParseSynonyms decodes a YAML synonym table
func ParseSynonyms(data []byte) (*Synonyms, error) {
	var f synonymFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode synonyms: %w", err)
	}
	s := &Synonyms{
		groups:   make(map[string][]string),
		regional: make(map[string]struct{}),
	}
	for _, g := range f.Groups {
		members := make([]string, 0, len(g))
		for _, w := range g {
			members = append(members, strings.ToLower(strings.TrimSpace(w)))
		}
		for _, w := range members {
			s.groups[w] = appendUnique(s.groups[w], members...)
		}
	}
	for _, w := range f.RegionalTerms {
		s.regional[strings.ToLower(w)] = struct{}{}
	}
	return s, nil
}

// DefaultSynonyms returns the embedded synonym table
func DefaultSynonyms() *Synonyms {
	s, err := ParseSynonyms(defaultSynonyms)
	if err != nil {
		panic(err)
	}
	return s
}

// Expand returns word plus every synonym of it
func (s *Synonyms) Expand(word string) []string {
	word = strings.ToLower(word)
	if g, ok := s.groups[word]; ok {
		return appendUnique([]string{word}, g...)
	}
	return []string{word}
}

// ExpandAll expands each keyword and de-duplicates the result
func (s *Synonyms) ExpandAll(words []string) []string {
	var out []string
	for _, w := range words {
		out = appendUnique(out, s.Expand(w)...)
	}
	return out
}

// Equivalent reports whether two words are the same or synonyms
func (s *Synonyms) Equivalent(a, b string) bool {
	a, b = squash(a), squash(b)
	if a == b {
		return true
	}
	for _, w := range s.groups[a] {
		if squash(w) == b {
			return true
		}
	}
	return false
}

// HasRegionalTerm reports whether any token is a known romanized regional word
func (s *Synonyms) HasRegionalTerm(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := s.regional[t]; ok {
			return true
		}
	}
	return false
}

func appendUnique(dst []string, words ...string) []string {
	for _, w := range words {
		dup := false
		for _, d := range dst {
			if d == w {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, w)
		}
	}
	return dst
}
