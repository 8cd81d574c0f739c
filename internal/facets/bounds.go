package facets

import (
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

type boundKind uint8

const (
	minInclusive boundKind = iota
	minExclusive
	maxInclusive
	maxExclusive
)

var boundKinds = [...]boundKind{minInclusive, minExclusive, maxInclusive, maxExclusive}

func (k boundKind) String() string {
	switch k {
	case minInclusive:
		return "minInclusive"
	case minExclusive:
		return "minExclusive"
	case maxInclusive:
		return "maxInclusive"
	default:
		return "maxExclusive"
	}
}

func (k boundKind) isMin() bool {
	return k == minInclusive || k == minExclusive
}

// admits reports whether a value ordered o relative to the bound passes.
func (k boundKind) admits(o variant.Ordering) bool {
	switch k {
	case minInclusive:
		return o == variant.Greater || o == variant.Equal
	case minExclusive:
		return o == variant.Greater
	case maxInclusive:
		return o == variant.Less || o == variant.Equal
	default:
		return o == variant.Less
	}
}

// sibling is the other bound on the same side.
func (k boundKind) sibling() boundKind {
	return k ^ 1
}

func boundOf(f *corpus.Facets, k boundKind) *variant.Variant {
	switch k {
	case minInclusive:
		return &f.MinInclusive
	case minExclusive:
		return &f.MinExclusive
	case maxInclusive:
		return &f.MaxInclusive
	default:
		return &f.MaxExclusive
	}
}

// restricts reports whether a new bound of kind k with value nv is within
// the base bound of kind bk with value bv. Incomparable values pass.
func restricts(k boundKind, nv variant.Variant, bk boundKind, bv variant.Variant) bool {
	o := variant.Compare(nv, bv)
	if o == variant.Incomparable {
		return true
	}
	inclusive := k == minInclusive || k == maxInclusive
	baseInclusive := bk == minInclusive || bk == maxInclusive
	var strict bool
	if k.isMin() == bk.isMin() {
		strict = inclusive && !baseInclusive
	} else {
		// minExclusive may equal the base maxInclusive.
		strict = !(inclusive && baseInclusive) && !(k == minExclusive && bk == maxInclusive)
	}
	return passes(o, strict, bk.isMin())
}

// ordered reports whether the min bound lo with value lv and the max bound
// hi with value hv of one type are consistent. Only minInclusive against
// maxExclusive must be strictly less.
func ordered(lo boundKind, lv variant.Variant, hi boundKind, hv variant.Variant) bool {
	o := variant.Compare(lv, hv)
	if o == variant.Incomparable {
		return true
	}
	return passes(o, lo == minInclusive && hi == maxExclusive, false)
}

func passes(o variant.Ordering, strict, againstMin bool) bool {
	if o == variant.Equal {
		return !strict
	}
	if againstMin {
		return o == variant.Greater
	}
	return o == variant.Less
}
