package corpus

import (
	"slices"

	"github.com/google/uuid"

	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// Corpus is the immutable compiled schema. All methods are safe for
// concurrent use; out-of-range handles yield zero values.
type Corpus struct {
	names        nameTable
	typeByName   map[QName]TypeID
	elemByName   map[QName]ElemID
	attrByName   map[QName]AttrID
	substitution map[ElemID][]ElemID
	types        []TypeDef
	elems        []ElementDef
	attrs        []AttributeDef
	particles    []ParticleDef
	groups       []GroupDef
	wildcards    []WildcardDef
	bySerial     []TypeID
	ancestry     []Serial
	integral     []bool
	fingerprint  [32]byte
	buildID      uuid.UUID
}

func (c *Corpus) typeDef(t TypeID) *TypeDef {
	if t == NilType || int(t) >= len(c.types) {
		return &TypeDef{}
	}
	return &c.types[t]
}

func (c *Corpus) elemDef(e ElemID) *ElementDef {
	if e == NilElem || int(e) >= len(c.elems) {
		return &ElementDef{}
	}
	return &c.elems[e]
}

func (c *Corpus) attrDef(a AttrID) *AttributeDef {
	if a == NilAttr || int(a) >= len(c.attrs) {
		return &AttributeDef{}
	}
	return &c.attrs[a]
}

// TypeOf finds a global type.
func (c *Corpus) TypeOf(uri, local string) TypeID {
	return c.typeByName[QName{URI: uri, Local: local}]
}

// BuiltinTypeOf returns the built-in type with serial s.
func (c *Corpus) BuiltinTypeOf(s Serial) TypeID {
	if s < 0 || s >= NumBuiltinSerials {
		return NilType
	}
	return c.bySerial[s]
}

// TypeBySerial returns the type with serial s.
func (c *Corpus) TypeBySerial(s Serial) TypeID {
	if s < 0 || int(s) >= len(c.bySerial) {
		return NilType
	}
	return c.bySerial[s]
}

// NumTypes returns the number of types, which is also one past the highest serial.
func (c *Corpus) NumTypes() int {
	return len(c.bySerial)
}

// GlobalElementOf finds a global element.
func (c *Corpus) GlobalElementOf(uri, local string) ElemID {
	return c.elemByName[QName{URI: uri, Local: local}]
}

// GlobalAttributeOf finds a global attribute.
func (c *Corpus) GlobalAttributeOf(uri, local string) AttrID {
	return c.attrByName[QName{URI: uri, Local: local}]
}

// IsSimpleType reports whether t is a simple type.
func (c *Corpus) IsSimpleType(t TypeID) bool {
	return c.typeDef(t).Simple
}

// VarietyOfSimpleType returns the variety of t.
func (c *Corpus) VarietyOfSimpleType(t TypeID) Variety {
	return c.typeDef(t).Variety
}

// BaseTypeOfSimpleType returns the base type of a simple type t.
func (c *Corpus) BaseTypeOfSimpleType(t TypeID) TypeID {
	d := c.typeDef(t)
	if !d.Simple {
		return NilType
	}
	return d.Base
}

// BaseTypeOf returns the base type of any type.
func (c *Corpus) BaseTypeOf(t TypeID) TypeID {
	return c.typeDef(t).Base
}

// DerivationOf returns how t was derived from its base.
func (c *Corpus) DerivationOf(t TypeID) Derivation {
	return c.typeDef(t).Derivation
}

// QNameOf returns the qualified name of t. Local is empty for anonymous types.
func (c *Corpus) QNameOf(t TypeID) QName {
	return c.typeDef(t).Name
}

// NameOf returns the local-name index of t, or NoName for anonymous types.
func (c *Corpus) NameOf(t TypeID) NameID {
	_, name, _ := c.names.lookup(c.typeDef(t).Name)
	return name
}

// URIOf returns the URI index of t.
func (c *Corpus) URIOf(t TypeID) URIID {
	uri, _, _ := c.names.lookup(c.typeDef(t).Name)
	return uri
}

// SerialOf returns the serial of t, or Untyped for a nil handle.
func (c *Corpus) SerialOf(t TypeID) Serial {
	if t == NilType || int(t) >= len(c.types) {
		return Untyped
	}
	return c.types[t].Serial
}

// AncestryIDOf returns the serial of the nearest primitive ancestor of t.
func (c *Corpus) AncestryIDOf(t TypeID) Serial {
	s := c.SerialOf(t)
	if s == Untyped {
		return Untyped
	}
	return c.ancestry[s]
}

// IsPrimitive reports whether t is one of the XSD primitive types.
func (c *Corpus) IsPrimitive(t TypeID) bool {
	return c.typeDef(t).Primitive
}

// IsIntegral reports whether t is integer or derived from it.
func (c *Corpus) IsIntegral(t TypeID) bool {
	if t == NilType || int(t) >= len(c.integral) {
		return false
	}
	return c.integral[t]
}

// IsBuiltin reports whether t is a built-in type.
func (c *Corpus) IsBuiltin(t TypeID) bool {
	return c.typeDef(t).Builtin
}

// PrimitiveKindOf returns the value space of an atomic type.
func (c *Corpus) PrimitiveKindOf(t TypeID) variant.Kind {
	return c.typeDef(t).Kind
}

// WhitespaceFacetOf returns the whiteSpace facet of t.
func (c *Corpus) WhitespaceFacetOf(t TypeID) Whitespace {
	return c.typeDef(t).Whitespace
}

// RestrictedCharacterCountOf returns the size of the pattern-derived
// alphabet of t, or 0 when unrestricted.
func (c *Corpus) RestrictedCharacterCountOf(t TypeID) int {
	return c.typeDef(t).RestrictedChars
}

// RestrictedCharactersOf returns the pattern-derived alphabet of t in code point order.
func (c *Corpus) RestrictedCharactersOf(t TypeID) []rune {
	return slices.Clone(c.typeDef(t).Alphabet)
}

// ItemTypeOfList returns the item type of a list type.
func (c *Corpus) ItemTypeOfList(t TypeID) TypeID {
	return c.typeDef(t).Item
}

// MemberTypesOfUnion returns the ordered member types of a union type.
func (c *Corpus) MemberTypesOfUnion(t TypeID) []TypeID {
	return slices.Clone(c.typeDef(t).Members)
}

// EnumerationCountOf returns the number of enumerated values of t.
func (c *Corpus) EnumerationCountOf(t TypeID) int {
	return len(c.typeDef(t).Enumerations)
}

// EnumerationValueOf returns the i-th enumerated value of t.
func (c *Corpus) EnumerationValueOf(t TypeID, i int) variant.Variant {
	enums := c.typeDef(t).Enumerations
	if i < 0 || i >= len(enums) {
		return variant.Variant{}
	}
	return enums[i]
}

// FacetsOf returns the effective bounded facets of t.
func (c *Corpus) FacetsOf(t TypeID) Facets {
	if t == NilType || int(t) >= len(c.types) {
		return NoFacets()
	}
	f := c.types[t].Facets
	f.Patterns = slices.Clone(f.Patterns)
	return f
}

// MinInclusiveOf returns the effective lower bound of t as an inclusive
// value. Exclusive integer bounds are folded in; ok is false without a bound.
func (c *Corpus) MinInclusiveOf(t TypeID) (variant.Variant, bool) {
	f := c.typeDef(t).Facets
	switch {
	case f.MinInclusive.IsValid():
		return f.MinInclusive, true
	case f.MinExclusive.IsValid() && c.IsIntegral(t):
		i, _ := f.MinExclusive.Dec().Int()
		return variant.FromInt(addOne(i, 1)), true
	}
	return variant.Variant{}, false
}

// MaxInclusiveOf is the upper-bound counterpart of MinInclusiveOf.
func (c *Corpus) MaxInclusiveOf(t TypeID) (variant.Variant, bool) {
	f := c.typeDef(t).Facets
	switch {
	case f.MaxInclusive.IsValid():
		return f.MaxInclusive, true
	case f.MaxExclusive.IsValid() && c.IsIntegral(t):
		i, _ := f.MaxExclusive.Dec().Int()
		return variant.FromInt(addOne(i, -1)), true
	}
	return variant.Variant{}, false
}

// ContentClassOf returns the content type variety of a complex type.
func (c *Corpus) ContentClassOf(t TypeID) ContentClass {
	return c.typeDef(t).Content
}

// ContentTypeOf returns the simple content type of a complex type with simple content.
func (c *Corpus) ContentTypeOf(t TypeID) TypeID {
	return c.typeDef(t).ContentType
}

// ParticleOf returns the content particle of a complex type.
func (c *Corpus) ParticleOf(t TypeID) ParticleID {
	return c.typeDef(t).Particle
}

// AttributeUsesOf returns the attribute uses of a complex type.
func (c *Corpus) AttributeUsesOf(t TypeID) []AttributeUse {
	return slices.Clone(c.typeDef(t).AttributeUses)
}

// AttributeWildcardOf returns the attribute wildcard of a complex type.
func (c *Corpus) AttributeWildcardOf(t TypeID) WildcardID {
	return c.typeDef(t).AttributeWildcard
}

// IsAbstractType reports whether a complex type is abstract.
func (c *Corpus) IsAbstractType(t TypeID) bool {
	return c.typeDef(t).Abstract
}

// LineOf returns the source line a type was declared at, 0 for built-ins.
func (c *Corpus) LineOf(t TypeID) int {
	return c.typeDef(t).Line
}

// ElementQName returns the name of e.
func (c *Corpus) ElementQName(e ElemID) QName {
	return c.elemDef(e).Name
}

// TypeOfElement returns the type of e.
func (c *Corpus) TypeOfElement(e ElemID) TypeID {
	return c.elemDef(e).Type
}

// SubstitutionHeadOf returns the declared substitution-group head of e.
func (c *Corpus) SubstitutionHeadOf(e ElemID) ElemID {
	return c.elemDef(e).Head
}

// SubstitutablesOf returns the transitive substitution-group members of
// head in declaration order, never including head itself.
func (c *Corpus) SubstitutablesOf(head ElemID) []ElemID {
	return slices.Clone(c.substitution[head])
}

// BlockOf returns the block set of e.
func (c *Corpus) BlockOf(e ElemID) DerivationSet {
	return c.elemDef(e).Block
}

// IsAbstract reports whether e is abstract.
func (c *Corpus) IsAbstract(e ElemID) bool {
	return c.elemDef(e).Abstract
}

// IsNillable reports whether e is nillable.
func (c *Corpus) IsNillable(e ElemID) bool {
	return c.elemDef(e).Nillable
}

// IsGlobalElement reports whether e is a top-level declaration.
func (c *Corpus) IsGlobalElement(e ElemID) bool {
	return c.elemDef(e).Global
}

// ConstraintOf returns the value constraint of e.
func (c *Corpus) ConstraintOf(e ElemID) Constraint {
	return c.elemDef(e).Constraint
}

// NumElements returns the number of element declarations.
func (c *Corpus) NumElements() int {
	return len(c.elems) - 1
}

// AttributeQName returns the name of a.
func (c *Corpus) AttributeQName(a AttrID) QName {
	return c.attrDef(a).Name
}

// TypeOfAttribute returns the simple type of a.
func (c *Corpus) TypeOfAttribute(a AttrID) TypeID {
	return c.attrDef(a).Type
}

// AttributeConstraintOf returns the value constraint of a.
func (c *Corpus) AttributeConstraintOf(a AttrID) Constraint {
	return c.attrDef(a).Constraint
}

// Particle returns the definition of p.
func (c *Corpus) Particle(p ParticleID) ParticleDef {
	if p == NilParticle || int(p) >= len(c.particles) {
		return ParticleDef{}
	}
	return c.particles[p]
}

// Group returns the definition of g.
func (c *Corpus) Group(g GroupID) GroupDef {
	if g == NilGroup || int(g) >= len(c.groups) {
		return GroupDef{}
	}
	d := c.groups[g]
	d.Particles = slices.Clone(d.Particles)
	return d
}

// Wildcard returns the definition of w.
func (c *Corpus) Wildcard(w WildcardID) WildcardDef {
	if w == NilWildcard || int(w) >= len(c.wildcards) {
		return WildcardDef{}
	}
	d := c.wildcards[w]
	d.URIs = slices.Clone(d.URIs)
	return d
}

// URIs returns the ordered URI table.
func (c *Corpus) URIs() []string {
	return slices.Clone(c.names.uris)
}

// LocalNamesOf returns the sorted local names interned under uri.
func (c *Corpus) LocalNamesOf(uri URIID) []string {
	if int(uri) >= len(c.names.locals) {
		return nil
	}
	return slices.Clone(c.names.locals[uri])
}

// AncestryIDs returns the ancestry of every type indexed by serial.
func (c *Corpus) AncestryIDs() []Serial {
	return slices.Clone(c.ancestry)
}

// BuildID returns the random identifier assigned to this build.
func (c *Corpus) BuildID() uuid.UUID {
	return c.buildID
}
