package facets

import (
	"errors"
	"fmt"
	"strings"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/builtins"
	"github.com/jacoelho/xsdcorpus/internal/whitespace"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// LengthFacets are the length facets of one restriction step.
type LengthFacets struct {
	Length    *int
	MinLength *int
	MaxLength *int
}

// BoundsFacets are the lexical bounds facets of one restriction step.
type BoundsFacets struct {
	MinInclusive *string
	MinExclusive *string
	MaxInclusive *string
	MaxExclusive *string
}

func (b BoundsFacets) get(k boundKind) *string {
	switch k {
	case minInclusive:
		return b.MinInclusive
	case minExclusive:
		return b.MinExclusive
	case maxInclusive:
		return b.MaxInclusive
	default:
		return b.MaxExclusive
	}
}

// Validator owns the facet set of one simple type and checks values
// against it. List validators check items with Item; union validators
// accept a value when any of Members does.
type Validator struct {
	Item    *Validator
	Members []*Validator
	Encoder variant.Encoder
	Set     Set
	// Limit caps the restricted character count; 0 means MaxAlphabet.
	Limit   int
	Kind    variant.Kind
	Variety corpus.Variety
}

// ForBuiltin returns the validator of a built-in type. item is the item
// validator of the built-in list types and nil otherwise.
func ForBuiltin(e builtins.Entry, item *Validator) *Validator {
	v := &Validator{Kind: e.Kind, Variety: e.Variety, Item: item, Set: NewSet(e.Whitespace)}
	v.Set.Lexical = e.Lexical
	if e.MinInt != nil {
		v.Set.Facets.MinInclusive = variant.FromInt(*e.MinInt)
	}
	if e.MaxInt != nil {
		v.Set.Facets.MaxInclusive = variant.FromInt(*e.MaxInt)
	}
	if e.MinLength > 0 {
		v.Set.Facets.MinLength = e.MinLength
	}
	if e.Kind == variant.Integer {
		v.Set.Facets.FractionDigits = 0
	}
	return v
}

// NewList returns the validator of a list type over item.
func NewList(item *Validator) *Validator {
	return &Validator{Variety: corpus.VarietyList, Item: item, Set: NewSet(whitespace.Collapse)}
}

// NewUnion returns the validator of a union over members.
func NewUnion(members []*Validator) *Validator {
	return &Validator{Variety: corpus.VarietyUnion, Members: members, Set: NewSet(whitespace.Absent)}
}

// Restrict returns a validator for a type derived from v by restriction.
func (v *Validator) Restrict() *Validator {
	d := *v
	d.Set = v.Set.Inherit()
	return &d
}

func (v *Validator) limit() int {
	if v.Limit <= 0 || v.Limit > MaxAlphabet {
		return MaxAlphabet
	}
	return v.Limit
}

// RestrictedChars returns the restricted character count of the type.
func (v *Validator) RestrictedChars() int {
	if v.Variety != corpus.VarietyAtomic || v.Kind != variant.String {
		return 0
	}
	return v.Set.RestrictedChars(v.limit())
}

// Apply copies the effective facets onto t.
func (v *Validator) Apply(t *corpus.TypeDef) {
	v.Set.Apply(t, v.limit())
	t.RestrictedChars = v.RestrictedChars()
	if t.RestrictedChars == 0 {
		t.Alphabet = nil
	}
}

func (v *Validator) notApplicable(facet string) *FacetError {
	target := v.Kind.String()
	if v.Variety != corpus.VarietyAtomic {
		target = v.Variety.String()
	}
	return facetErr(xsderrors.ErrApplicableFacets, facet, "", "not applicable to %s types", target)
}

func (v *Validator) hasLength() bool {
	switch v.Variety {
	case corpus.VarietyList:
		return true
	case corpus.VarietyAtomic:
		return v.Kind.HasLength()
	default:
		return false
	}
}

// SetLengthFacets applies length, minLength and maxLength. A facet that
// fails its restriction rule is dropped; the others still apply.
func (v *Validator) SetLengthFacets(l LengthFacets) error {
	f := &v.Set.Facets
	var errs []error
	check := func(name string, n *int) bool {
		if n == nil {
			return false
		}
		if !v.hasLength() {
			errs = append(errs, v.notApplicable(name))
			return false
		}
		if *n < 0 {
			errs = append(errs, facetErr(xsderrors.ErrDatatypeInvalid, name, fmt.Sprint(*n), "must be a non-negative integer"))
			return false
		}
		return true
	}
	if check("length", l.Length) {
		n := *l.Length
		switch {
		case f.Length >= 0 && n != f.Length:
			errs = append(errs, facetErr(xsderrors.ErrLengthRestriction, "length", fmt.Sprint(n), "base length is %d", f.Length))
		case f.MinLength > n || (f.MaxLength >= 0 && f.MaxLength < n):
			errs = append(errs, facetErr(xsderrors.ErrLengthRestriction, "length", fmt.Sprint(n), "outside base minLength/maxLength"))
		default:
			f.Length = n
		}
	}
	if check("minLength", l.MinLength) {
		n := *l.MinLength
		switch {
		case f.MinLength >= 0 && n < f.MinLength:
			errs = append(errs, facetErr(restrictionRule("minLength"), "minLength", fmt.Sprint(n), "less than base minLength %d", f.MinLength))
		case f.Length >= 0 && n > f.Length:
			errs = append(errs, facetErr(xsderrors.ErrLengthRestriction, "minLength", fmt.Sprint(n), "greater than length %d", f.Length))
		default:
			f.MinLength = n
		}
	}
	if check("maxLength", l.MaxLength) {
		n := *l.MaxLength
		switch {
		case f.MaxLength >= 0 && n > f.MaxLength:
			errs = append(errs, facetErr(restrictionRule("maxLength"), "maxLength", fmt.Sprint(n), "greater than base maxLength %d", f.MaxLength))
		case f.Length >= 0 && n < f.Length:
			errs = append(errs, facetErr(xsderrors.ErrLengthRestriction, "maxLength", fmt.Sprint(n), "less than length %d", f.Length))
		case f.MinLength > n:
			errs = append(errs, facetErr("minLength-less-than-equal-to-maxLength", "maxLength", fmt.Sprint(n), "less than minLength %d", f.MinLength))
		default:
			f.MaxLength = n
		}
	}
	return errors.Join(errs...)
}

// SetBoundsFacets encodes and applies the bounds facets. Each bound must
// lie within the base bounds; min must not exceed max.
func (v *Validator) SetBoundsFacets(b BoundsFacets) error {
	var errs []error
	if b.MinInclusive != nil && b.MinExclusive != nil {
		errs = append(errs, facetErr("minInclusive-minExclusive", "minExclusive", *b.MinExclusive, "both minInclusive and minExclusive specified"))
		b.MinExclusive = nil
	}
	if b.MaxInclusive != nil && b.MaxExclusive != nil {
		errs = append(errs, facetErr("maxInclusive-maxExclusive", "maxExclusive", *b.MaxExclusive, "both maxInclusive and maxExclusive specified"))
		b.MaxExclusive = nil
	}
	base := v.Set.Facets
	next := v.Set.Facets
	for _, k := range boundKinds {
		lex := b.get(k)
		if lex == nil {
			continue
		}
		if v.Variety != corpus.VarietyAtomic || !v.Kind.IsOrdered() {
			errs = append(errs, v.notApplicable(k.String()))
			continue
		}
		val, err := v.Encoder.Encode(v.Kind, *lex)
		if err != nil {
			errs = append(errs, &FacetError{Rule: xsderrors.ErrDatatypeInvalid, Facet: k.String(), Value: *lex, Err: err})
			continue
		}
		if fe := v.withinBase(k, val, &base, *lex); fe != nil {
			errs = append(errs, fe)
			continue
		}
		*boundOf(&next, k) = val
		*boundOf(&next, k.sibling()) = variant.Variant{}
	}
	for _, lo := range []boundKind{minInclusive, minExclusive} {
		for _, hi := range []boundKind{maxInclusive, maxExclusive} {
			lv, hv := *boundOf(&next, lo), *boundOf(&next, hi)
			if !lv.IsValid() || !hv.IsValid() || ordered(lo, lv, hi, hv) {
				continue
			}
			rel := "-less-than-equal-to-"
			if lo == minInclusive && hi == maxExclusive {
				rel = "-less-than-"
			}
			rule := xsderrors.ErrorCode(lo.String() + rel + hi.String())
			errs = append(errs, facetErr(rule, lo.String(), lv.Canonical(), "not below %s %s", hi, hv.Canonical()))
			*boundOf(&next, lo) = *boundOf(&base, lo)
		}
	}
	v.Set.Facets.MinInclusive = next.MinInclusive
	v.Set.Facets.MinExclusive = next.MinExclusive
	v.Set.Facets.MaxInclusive = next.MaxInclusive
	v.Set.Facets.MaxExclusive = next.MaxExclusive
	return errors.Join(errs...)
}

func (v *Validator) withinBase(k boundKind, val variant.Variant, base *corpus.Facets, lex string) *FacetError {
	for _, bk := range boundKinds {
		bv := *boundOf(base, bk)
		if !bv.IsValid() || restricts(k, val, bk, bv) {
			continue
		}
		return facetErr(restrictionRule(k.String()), k.String(), lex, "outside base %s %s", bk, bv.Canonical())
	}
	return nil
}

// SetDigits applies totalDigits and fractionDigits.
func (v *Validator) SetDigits(total, fraction *int) error {
	f := &v.Set.Facets
	var errs []error
	applicable := v.Variety == corpus.VarietyAtomic && v.Kind.HasDigits()
	if total != nil {
		switch {
		case !applicable:
			errs = append(errs, v.notApplicable("totalDigits"))
		case *total < 1:
			errs = append(errs, facetErr(xsderrors.ErrDatatypeInvalid, "totalDigits", fmt.Sprint(*total), "must be a positive integer"))
		case f.TotalDigits >= 0 && *total > f.TotalDigits:
			errs = append(errs, facetErr(restrictionRule("totalDigits"), "totalDigits", fmt.Sprint(*total), "greater than base totalDigits %d", f.TotalDigits))
		default:
			f.TotalDigits = *total
		}
	}
	if fraction != nil {
		switch {
		case !applicable:
			errs = append(errs, v.notApplicable("fractionDigits"))
		case *fraction < 0:
			errs = append(errs, facetErr(xsderrors.ErrDatatypeInvalid, "fractionDigits", fmt.Sprint(*fraction), "must be a non-negative integer"))
		case f.FractionDigits >= 0 && *fraction > f.FractionDigits:
			errs = append(errs, facetErr(restrictionRule("fractionDigits"), "fractionDigits", fmt.Sprint(*fraction), "greater than base fractionDigits %d", f.FractionDigits))
		case f.TotalDigits >= 0 && *fraction > f.TotalDigits:
			errs = append(errs, facetErr("fractionDigits-totalDigits", "fractionDigits", fmt.Sprint(*fraction), "greater than totalDigits %d", f.TotalDigits))
		default:
			f.FractionDigits = *fraction
		}
	}
	return errors.Join(errs...)
}

// SetWhitespace applies the whiteSpace facet. It may only strengthen the
// base value.
func (v *Validator) SetWhitespace(mode whitespace.Mode) error {
	switch v.Variety {
	case corpus.VarietyAtomic, corpus.VarietyList:
	default:
		return v.notApplicable("whiteSpace")
	}
	if !mode.Stronger(v.Set.Whitespace) {
		return facetErr(xsderrors.ErrWhitespaceRestriction, "whiteSpace", mode.String(), "weaker than base %s", v.Set.Whitespace)
	}
	v.Set.Whitespace = mode
	return nil
}

// SetPattern adds one derivation step of patterns and narrows the
// restricted alphabet. Invalid patterns are dropped; unsupported patterns
// stay but are never evaluated and make the step unbounded.
func (v *Validator) SetPattern(sources []string) error {
	if len(sources) == 0 {
		return nil
	}
	var errs []error
	step := make([]Pattern, 0, len(sources))
	alpha := Alphabet{Bounded: true}
	for _, src := range sources {
		p, err := CompilePattern(src)
		switch {
		case errors.Is(err, ErrPatternSyntax):
			errs = append(errs, &FacetError{Rule: xsderrors.ErrPattern, Facet: "pattern", Value: src, Err: err})
			continue
		case err != nil:
			alpha = Unbounded
		default:
			alpha = alpha.Union(AnalyzePattern(p))
		}
		step = append(step, p)
		v.Set.Facets.Patterns = append(v.Set.Facets.Patterns, src)
	}
	if len(step) > 0 {
		v.Set.Steps = append(v.Set.Steps, step)
		v.Set.Alphabet = v.Set.Alphabet.Intersect(alpha)
	}
	return errors.Join(errs...)
}

// AddEnumeration checks lexical against every other facet of the type and
// appends it to the enumeration list. A rejected value leaves the list
// unchanged; callers clear it with Set.ClearEnumerations.
func (v *Validator) AddEnumeration(lexical string) error {
	if v.Variety == corpus.VarietyUr {
		return v.notApplicable("enumeration")
	}
	val, fe := v.validate(lexical, v.Encoder, v.Set.baseEnums)
	if fe != nil {
		return &FacetError{Rule: xsderrors.ErrEnumerationRestriction, Facet: "enumeration", Value: lexical, Err: fe}
	}
	if !v.Set.localEnums {
		v.Set.Enumerations = nil
		v.Set.localEnums = true
	}
	v.Set.Enumerations = append(v.Set.Enumerations, val)
	return nil
}

// Validate checks lexical against the type and returns its value.
func (v *Validator) Validate(lexical string) (variant.Variant, error) {
	return v.ValidateWith(lexical, v.Encoder)
}

// ValidateWith validates using enc for QName and NOTATION prefixes.
func (v *Validator) ValidateWith(lexical string, enc variant.Encoder) (variant.Variant, error) {
	val, fe := v.validate(lexical, enc, v.Set.Enumerations)
	if fe != nil {
		return variant.Variant{}, fe
	}
	return val, nil
}

func (v *Validator) validate(lexical string, enc variant.Encoder, enums []variant.Variant) (variant.Variant, *FacetError) {
	s := whitespace.Normalize(v.Set.Whitespace, lexical)
	if src, ok := v.Set.matchPatterns(s); !ok {
		return variant.Variant{}, facetErr(xsderrors.ErrPattern, "pattern", lexical, "does not match %q", src)
	}
	var (
		val variant.Variant
		fe  *FacetError
	)
	switch v.Variety {
	case corpus.VarietyList:
		val, fe = v.validateList(s, enc)
	case corpus.VarietyUnion:
		val, fe = v.validateUnion(lexical, enc)
	case corpus.VarietyAtomic:
		val, fe = v.validateAtomic(s, enc)
	default:
		val = variant.FromString(lexical)
	}
	if fe != nil {
		return variant.Variant{}, fe
	}
	if len(enums) > 0 && !contains(enums, val) {
		return variant.Variant{}, facetErr(xsderrors.ErrFacetViolation, "enumeration", lexical, "not in the enumeration of the base type")
	}
	return val, nil
}

func contains(enums []variant.Variant, val variant.Variant) bool {
	for _, e := range enums {
		if variant.Same(e, val) {
			return true
		}
	}
	return false
}

func (v *Validator) validateAtomic(s string, enc variant.Encoder) (variant.Variant, *FacetError) {
	if !v.Set.Lexical.Check(s) {
		return variant.Variant{}, facetErr(xsderrors.ErrDatatypeInvalid, "lexical", s, "not a valid %s", v.Kind)
	}
	val, err := enc.Encode(v.Kind, s)
	if err != nil {
		return variant.Variant{}, &FacetError{Rule: xsderrors.ErrDatatypeInvalid, Facet: "lexical", Value: s, Err: err}
	}
	if n, ok := val.Length(); ok {
		if fe := v.checkLength(n, s); fe != nil {
			return variant.Variant{}, fe
		}
	}
	for _, k := range boundKinds {
		b := *boundOf(&v.Set.Facets, k)
		if !b.IsValid() {
			continue
		}
		if o := variant.Compare(val, b); o != variant.Incomparable && !k.admits(o) {
			return variant.Variant{}, facetErr(xsderrors.ErrFacetViolation, k.String(), s, "bound %s", b.Canonical())
		}
	}
	if v.Kind.HasDigits() {
		d := val.Dec()
		if f := v.Set.Facets.TotalDigits; f >= 0 && d.TotalDigits() > f {
			return variant.Variant{}, facetErr(xsderrors.ErrFacetViolation, "totalDigits", s, "more than %d digits", f)
		}
		if f := v.Set.Facets.FractionDigits; f >= 0 && d.FractionDigits() > f {
			return variant.Variant{}, facetErr(xsderrors.ErrFacetViolation, "fractionDigits", s, "more than %d fraction digits", f)
		}
	}
	if v.Kind == variant.String && !v.Set.Alphabet.Contains(s) {
		return variant.Variant{}, facetErr(xsderrors.ErrPattern, "pattern", s, "character outside the pattern alphabet")
	}
	return val, nil
}

func (v *Validator) checkLength(n int, s string) *FacetError {
	f := &v.Set.Facets
	switch {
	case f.Length >= 0 && n != f.Length:
		return facetErr(xsderrors.ErrFacetViolation, "length", s, "length %d, want %d", n, f.Length)
	case f.MinLength >= 0 && n < f.MinLength:
		return facetErr(xsderrors.ErrFacetViolation, "minLength", s, "length %d below %d", n, f.MinLength)
	case f.MaxLength >= 0 && n > f.MaxLength:
		return facetErr(xsderrors.ErrFacetViolation, "maxLength", s, "length %d above %d", n, f.MaxLength)
	}
	return nil
}

func (v *Validator) validateList(s string, enc variant.Encoder) (variant.Variant, *FacetError) {
	var canon []string
	for item := range whitespace.Fields(s) {
		if v.Item == nil {
			canon = append(canon, item)
			continue
		}
		iv, fe := v.Item.validate(item, enc, v.Item.Set.Enumerations)
		if fe != nil {
			return variant.Variant{}, fe
		}
		canon = append(canon, iv.Canonical())
	}
	if fe := v.checkLength(len(canon), s); fe != nil {
		return variant.Variant{}, fe
	}
	return variant.FromString(strings.Join(canon, " ")), nil
}

func (v *Validator) validateUnion(lexical string, enc variant.Encoder) (variant.Variant, *FacetError) {
	var first *FacetError
	for _, m := range v.Members {
		val, fe := m.validate(lexical, enc, m.Set.Enumerations)
		if fe == nil {
			return val, nil
		}
		if first == nil {
			first = fe
		}
	}
	if first == nil {
		return variant.Variant{}, facetErr(xsderrors.ErrDatatypeInvalid, "memberTypes", lexical, "union has no member types")
	}
	return variant.Variant{}, facetErr(xsderrors.ErrDatatypeInvalid, "memberTypes", lexical, "no member type accepts the value: %v", first)
}
