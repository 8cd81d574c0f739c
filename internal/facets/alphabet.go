package facets

import (
	"regexp/syntax"
	"slices"
	"unicode"
)

// MaxAlphabet is the largest alphabet that still counts as restricted.
const MaxAlphabet = 255

// Alphabet is a sorted set of characters a string value may use.
// A nil Alphabet with Bounded false is unrestricted.
type Alphabet struct {
	Runes   []rune
	Bounded bool
}

// Unbounded is the alphabet of an unrestricted type.
var Unbounded = Alphabet{}

// Count returns the restricted character count, 0 when unrestricted or
// larger than limit.
func (a Alphabet) Count(limit int) int {
	if !a.Bounded || len(a.Runes) > limit {
		return 0
	}
	return len(a.Runes)
}

// Contains reports whether every character of s is in the alphabet.
func (a Alphabet) Contains(s string) bool {
	if !a.Bounded {
		return true
	}
	for _, r := range s {
		if _, ok := slices.BinarySearch(a.Runes, r); !ok {
			return false
		}
	}
	return true
}

// Union merges two alphabets; the result is unbounded if either is.
func (a Alphabet) Union(b Alphabet) Alphabet {
	if !a.Bounded || !b.Bounded {
		return Unbounded
	}
	out := append(slices.Clone(a.Runes), b.Runes...)
	slices.Sort(out)
	return Alphabet{Runes: slices.Compact(out), Bounded: true}
}

// Intersect keeps the characters present in both alphabets.
func (a Alphabet) Intersect(b Alphabet) Alphabet {
	switch {
	case !a.Bounded:
		return b
	case !b.Bounded:
		return a
	}
	out := make([]rune, 0, min(len(a.Runes), len(b.Runes)))
	for _, r := range a.Runes {
		if _, ok := slices.BinarySearch(b.Runes, r); ok {
			out = append(out, r)
		}
	}
	return Alphabet{Runes: out, Bounded: true}
}

// AnalyzePattern derives the alphabet a pattern can produce. Patterns able
// to produce more than MaxAlphabet distinct characters are unbounded.
func AnalyzePattern(p Pattern) Alphabet {
	if p.re == nil {
		return Unbounded
	}
	re, err := syntax.Parse(p.re.String(), syntax.Perl)
	if err != nil {
		return Unbounded
	}
	set := make(map[rune]struct{})
	if !collect(re.Simplify(), set) {
		return Unbounded
	}
	runes := make([]rune, 0, len(set))
	for r := range set {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	return Alphabet{Runes: runes, Bounded: true}
}

func collect(re *syntax.Regexp, set map[rune]struct{}) bool {
	switch re.Op {
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			set[r] = struct{}{}
			if re.Flags&syntax.FoldCase != 0 {
				for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
					set[f] = struct{}{}
				}
			}
		}
	case syntax.OpCharClass:
		for i := 0; i+1 < len(re.Rune); i += 2 {
			lo, hi := re.Rune[i], re.Rune[i+1]
			if int(hi-lo)+1+len(set) > MaxAlphabet {
				return false
			}
			for r := lo; r <= hi; r++ {
				set[r] = struct{}{}
			}
		}
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return false
	case syntax.OpRepeat:
		if re.Max == 0 {
			return true
		}
		return collect(re.Sub[0], set)
	case syntax.OpCapture, syntax.OpStar, syntax.OpPlus, syntax.OpQuest,
		syntax.OpConcat, syntax.OpAlternate:
		for _, sub := range re.Sub {
			if !collect(sub, set) {
				return false
			}
		}
	}
	return len(set) <= MaxAlphabet
}
