package facets

import (
	"slices"

	"github.com/jacoelho/xsdcorpus/internal/builtins"
	"github.com/jacoelho/xsdcorpus/internal/whitespace"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// Set is the effective facet set of one simple type.
type Set struct {
	// Steps holds one pattern group per derivation step; a value must
	// match some pattern of every step.
	Steps        [][]Pattern
	Enumerations []variant.Variant
	// baseEnums constrains local enumerations to the base value space.
	baseEnums    []variant.Variant
	Alphabet     Alphabet
	Facets       corpus.Facets
	Whitespace   whitespace.Mode
	Lexical      builtins.LexicalRule
	localEnums   bool
	enumsCleared bool
}

// NewSet returns an empty set with every facet absent.
func NewSet(ws whitespace.Mode) Set {
	return Set{Facets: corpus.NoFacets(), Whitespace: ws}
}

// Inherit returns a copy of s for a type derived from it by restriction.
func (s Set) Inherit() Set {
	d := s
	d.Steps = slices.Clone(s.Steps)
	d.Enumerations = slices.Clone(s.Enumerations)
	d.baseEnums = s.Enumerations
	d.Facets.Patterns = slices.Clone(s.Facets.Patterns)
	d.Alphabet.Runes = slices.Clone(s.Alphabet.Runes)
	d.localEnums = false
	d.enumsCleared = false
	return d
}

// ClearEnumerations drops the enumeration list after a rejected value.
func (s *Set) ClearEnumerations() {
	s.Enumerations = nil
	s.localEnums = true
	s.enumsCleared = true
}

// EnumerationsCleared reports whether ClearEnumerations was called on s.
func (s *Set) EnumerationsCleared() bool {
	return s.enumsCleared
}

// RestrictedChars returns the restricted character count for limit.
func (s *Set) RestrictedChars(limit int) int {
	return s.Alphabet.Count(limit)
}

// Apply copies the set onto a type definition.
func (s *Set) Apply(t *corpus.TypeDef, limit int) {
	t.Facets = s.Facets
	t.Facets.Patterns = slices.Clone(s.Facets.Patterns)
	t.Whitespace = s.Whitespace
	t.Enumerations = slices.Clone(s.Enumerations)
	t.RestrictedChars = s.RestrictedChars(limit)
	t.Alphabet = nil
	if t.RestrictedChars > 0 {
		t.Alphabet = slices.Clone(s.Alphabet.Runes)
	}
}

func (s *Set) matchPatterns(lexical string) (string, bool) {
	for _, step := range s.Steps {
		matched := false
		for _, p := range step {
			if p.Match(lexical) {
				matched = true
				break
			}
		}
		if !matched {
			return step[0].Source, false
		}
	}
	return "", true
}
