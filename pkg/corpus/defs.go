package corpus

import (
	"github.com/jacoelho/xsdcorpus/internal/whitespace"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// QName is a namespace-qualified name. Local is empty for anonymous types.
type QName struct {
	URI   string
	Local string
}

// String renders the name in Clark notation.
func (q QName) String() string {
	if q.URI == "" {
		return q.Local
	}
	return "{" + q.URI + "}" + q.Local
}

// Whitespace is the whiteSpace facet value.
type Whitespace = whitespace.Mode

const (
	WhitespaceAbsent   = whitespace.Absent
	WhitespacePreserve = whitespace.Preserve
	WhitespaceReplace  = whitespace.Replace
	WhitespaceCollapse = whitespace.Collapse
)

// Variety classifies simple types. Complex types have VarietyAbsent.
type Variety uint8

const (
	VarietyAbsent Variety = iota
	VarietyUr
	VarietyAtomic
	VarietyList
	VarietyUnion
)

// String returns a stable label for the variety.
func (v Variety) String() string {
	switch v {
	case VarietyUr:
		return "ur"
	case VarietyAtomic:
		return "atomic"
	case VarietyList:
		return "list"
	case VarietyUnion:
		return "union"
	default:
		return "absent"
	}
}

// Derivation is the method a type was derived from its base with.
type Derivation uint8

const (
	DerivationNone Derivation = iota
	DerivationRestriction
	DerivationExtension
	DerivationList
	DerivationUnion
)

// DerivationSet is a set of blocked or final derivation methods.
type DerivationSet uint8

const (
	DerivationSetExtension DerivationSet = 1 << iota
	DerivationSetRestriction
	DerivationSetSubstitution
	DerivationSetList
	DerivationSetUnion

	// DerivationSetAll is #all.
	DerivationSetAll = DerivationSetExtension | DerivationSetRestriction | DerivationSetSubstitution | DerivationSetList | DerivationSetUnion
)

// Has reports whether every method in m is in s.
func (s DerivationSet) Has(m DerivationSet) bool {
	return s&m == m
}

// ContentClass is the content type variety of a complex type.
type ContentClass uint8

const (
	ContentEmpty ContentClass = iota
	ContentSimple
	ContentElementOnly
	ContentMixed
)

// String returns a stable label for the content class.
func (c ContentClass) String() string {
	switch c {
	case ContentSimple:
		return "simple"
	case ContentElementOnly:
		return "element-only"
	case ContentMixed:
		return "mixed"
	default:
		return "empty"
	}
}

// ConstraintKind distinguishes default and fixed value constraints.
type ConstraintKind uint8

const (
	ConstraintNone ConstraintKind = iota
	ConstraintDefault
	ConstraintFixed
)

// Constraint is a value constraint on an element or attribute.
type Constraint struct {
	Value   variant.Variant
	Lexical string
	Kind    ConstraintKind
}

// Unbounded is the maxOccurs value of unbounded particles.
const Unbounded = -1

// Facets are the effective bounded facets of a simple type.
// Integer facets are -1 when absent; bounds are invalid Variants when absent.
type Facets struct {
	MinInclusive   variant.Variant
	MinExclusive   variant.Variant
	MaxInclusive   variant.Variant
	MaxExclusive   variant.Variant
	Patterns       []string
	Length         int
	MinLength      int
	MaxLength      int
	TotalDigits    int
	FractionDigits int
}

// NoFacets returns a Facets value with every facet absent.
func NoFacets() Facets {
	return Facets{Length: -1, MinLength: -1, MaxLength: -1, TotalDigits: -1, FractionDigits: -1}
}

// TypeDef is the definition of one type node.
type TypeDef struct {
	Name              QName
	SystemID          string
	Members           []TypeID
	Enumerations      []variant.Variant
	Alphabet          []rune
	AttributeUses     []AttributeUse
	Facets            Facets
	Line              int
	RestrictedChars   int
	Base              TypeID
	Item              TypeID
	ContentType       TypeID
	Particle          ParticleID
	AttributeWildcard WildcardID
	Serial            Serial
	Kind              variant.Kind
	Derivation        Derivation
	Variety           Variety
	Whitespace        Whitespace
	Final             DerivationSet
	Block             DerivationSet
	Content           ContentClass
	Simple            bool
	Builtin           bool
	Primitive         bool
	Abstract          bool
}

// ElementDef is an element declaration.
type ElementDef struct {
	Name       QName
	SystemID   string
	Constraint Constraint
	Line       int
	Type       TypeID
	Head       ElemID
	Block      DerivationSet
	Final      DerivationSet
	Global     bool
	Abstract   bool
	Nillable   bool
}

// AttributeDef is an attribute declaration.
type AttributeDef struct {
	Name       QName
	SystemID   string
	Constraint Constraint
	Line       int
	Type       TypeID
	Global     bool
}

// AttributeUse binds an attribute declaration into a complex type.
type AttributeUse struct {
	Constraint Constraint
	Attr       AttrID
	Required   bool
	Prohibited bool
}

// TermKind identifies the term of a particle.
type TermKind uint8

const (
	TermElement TermKind = iota + 1
	TermWildcard
	TermGroup
)

// ParticleDef is a term with occurrence bounds.
type ParticleDef struct {
	Min      int
	Max      int
	Element  ElemID
	Group    GroupID
	Wildcard WildcardID
	Term     TermKind
}

// Compositor is the kind of a model group.
type Compositor uint8

const (
	Sequence Compositor = iota + 1
	Choice
	All
)

// String returns the schema keyword of the compositor.
func (c Compositor) String() string {
	switch c {
	case Sequence:
		return "sequence"
	case Choice:
		return "choice"
	case All:
		return "all"
	default:
		return "unknown"
	}
}

// GroupDef is a model group.
type GroupDef struct {
	Particles  []ParticleID
	Compositor Compositor
}

// NamespaceConstraintKind is the form of a wildcard namespace constraint.
type NamespaceConstraintKind uint8

const (
	NamespaceAny NamespaceConstraintKind = iota
	// NamespaceNot is ##other: any namespace except URIs[0] and absent.
	NamespaceNot
	NamespaceSet
)

// ProcessContents is the processContents value of a wildcard.
type ProcessContents uint8

const (
	ProcessStrict ProcessContents = iota
	ProcessLax
	ProcessSkip
)

// WildcardDef is an element or attribute wildcard. In a NamespaceSet
// the empty URI stands for absent (##local).
type WildcardDef struct {
	URIs    []string
	Kind    NamespaceConstraintKind
	Process ProcessContents
}

// Allows reports whether uri is permitted by the namespace constraint.
func (w WildcardDef) Allows(uri string) bool {
	switch w.Kind {
	case NamespaceAny:
		return true
	case NamespaceNot:
		if uri == "" {
			return false
		}
		for _, u := range w.URIs {
			if u == uri {
				return false
			}
		}
		return true
	default:
		for _, u := range w.URIs {
			if u == uri {
				return true
			}
		}
		return false
	}
}
