package whitespace

import (
	"iter"
	"strings"
)

// Mode is the value of the whiteSpace facet.
type Mode uint8

const (
	// Absent marks types without a whiteSpace facet (lists of non-string items, unions).
	Absent Mode = iota
	Preserve
	Replace
	Collapse
)

// String returns the facet value as written in schema documents.
func (m Mode) String() string {
	switch m {
	case Preserve:
		return "preserve"
	case Replace:
		return "replace"
	case Collapse:
		return "collapse"
	default:
		return "absent"
	}
}

// ParseMode parses a whiteSpace facet value.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "preserve":
		return Preserve, true
	case "replace":
		return Replace, true
	case "collapse":
		return Collapse, true
	default:
		return Absent, false
	}
}

// Stronger reports whether m normalizes at least as much as base, which is
// the restriction rule for the whiteSpace facet.
func (m Mode) Stronger(base Mode) bool {
	return m >= base
}

// IsSpace reports XML whitespace: space, tab, line feed and carriage return.
func IsSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Normalize applies m to s.
func Normalize(m Mode, s string) string {
	switch m {
	case Replace:
		return replace(s)
	case Collapse:
		return collapse(s)
	default:
		return s
	}
}

func replace(s string) string {
	i := strings.IndexAny(s, "\t\n\r")
	if i < 0 {
		return s
	}
	b := []byte(s)
	for j := i; j < len(b); j++ {
		if IsSpace(b[j]) {
			b[j] = ' '
		}
	}
	return string(b)
}

func collapse(s string) string {
	out := make([]byte, 0, len(s))
	for field := range Fields(s) {
		if len(out) > 0 {
			out = append(out, ' ')
		}
		out = append(out, field...)
	}
	if len(out) == len(s) {
		return s
	}
	return string(out)
}

// Fields yields the whitespace-separated tokens of s.
func Fields(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		i := 0
		for i < len(s) {
			for i < len(s) && IsSpace(s[i]) {
				i++
			}
			if i >= len(s) {
				return
			}
			start := i
			for i < len(s) && !IsSpace(s[i]) {
				i++
			}
			if !yield(s[start:i]) {
				return
			}
		}
	}
}
