package compiler

import (
	"strconv"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/decl"
	"github.com/jacoelho/xsdcorpus/internal/facets"
	"github.com/jacoelho/xsdcorpus/internal/whitespace"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// simpleShape is what a simple type takes from its base, item or members.
type simpleShape struct {
	v          *facets.Validator
	base       corpus.TypeID
	item       corpus.TypeID
	members    []corpus.TypeID
	kind       variant.Kind
	variety    corpus.Variety
	derivation corpus.Derivation
}

// compileSimple builds the simple type id, compiling its base, item and
// member types first.
func (c *Compiler) compileSimple(id corpus.TypeID) error {
	switch c.state[id] {
	case stateDone:
		return nil
	case stateBuilding:
		st := c.simpleDecls[id]
		return xsderrors.Fatalf(xsderrors.ErrSimpleTypeCycle, st.SystemID, st.Line, "simple type %s derives from itself", c.label(id))
	}
	c.state[id] = stateBuilding
	st := c.simpleDecls[id]

	var (
		shape simpleShape
		err   error
	)
	switch st.Derivation {
	case corpus.DerivationList:
		shape, err = c.listShape(st)
	case corpus.DerivationUnion:
		shape, err = c.unionShape(st)
	default:
		shape, err = c.restrictionShape(st)
	}
	if err != nil {
		return err
	}
	c.finish(id, st, shape)
	return nil
}

// finish records shape on the type node. Builder pointers are fetched
// only here since nested compilation appends nodes.
func (c *Compiler) finish(id corpus.TypeID, st *decl.SimpleType, shape simpleShape) {
	shape.v.Limit = c.cfg.MaxRestrictedCharacters
	def := c.b.Type(id)
	def.Simple = true
	def.Base = shape.base
	def.Item = shape.item
	def.Members = shape.members
	def.Kind = shape.kind
	def.Variety = shape.variety
	def.Derivation = shape.derivation
	def.Final = st.Final
	shape.v.Apply(def)
	c.validators[id] = shape.v
	c.state[id] = stateDone
}

// anonymousSimple adds and compiles an inline simple type.
func (c *Compiler) anonymousSimple(st *decl.SimpleType) (corpus.TypeID, error) {
	id, err := c.b.NewType(corpus.TypeDef{SystemID: st.SystemID, Line: st.Line, Simple: true})
	if err != nil {
		return corpus.NilType, err
	}
	c.simpleDecls[id] = st
	if err := c.compileSimple(id); err != nil {
		return corpus.NilType, err
	}
	return id, nil
}

// simpleRef resolves and compiles a simple type given by name or inline.
func (c *Compiler) simpleRef(name decl.QName, inline *decl.SimpleType, pos decl.Pos) (corpus.TypeID, error) {
	if inline != nil {
		return c.anonymousSimple(inline)
	}
	id, err := c.typeID(name, pos)
	if err != nil {
		return corpus.NilType, err
	}
	if def := c.b.Type(id); !def.Simple {
		return corpus.NilType, xsderrors.Fatalf(xsderrors.ErrResolve, pos.SystemID, pos.Line, "%s is not a simple type", name)
	}
	if err := c.compileSimple(id); err != nil {
		return corpus.NilType, err
	}
	return id, nil
}

func (c *Compiler) checkFinal(base corpus.TypeID, m corpus.DerivationSet, method string, pos decl.Pos) {
	if def := c.b.Type(base); def != nil && def.Final.Has(m) {
		c.reportf(xsderrors.ErrFinal, pos, "%s blocks derivation by %s", c.label(base), method)
	}
}

func (c *Compiler) restrictionShape(st *decl.SimpleType) (simpleShape, error) {
	base, err := c.simpleRef(st.Base, st.BaseType, st.Pos)
	if err != nil {
		return simpleShape{}, err
	}
	c.checkFinal(base, corpus.DerivationSetRestriction, "restriction", st.Pos)
	return c.restrictOf(base, st), nil
}

// restrictOf derives a validator from base with the facets of st.
func (c *Compiler) restrictOf(base corpus.TypeID, st *decl.SimpleType) simpleShape {
	bdef := c.b.Type(base)
	v := c.validators[base].Restrict()
	v.Encoder = variant.Encoder{Namespaces: st.Namespaces}
	shape := simpleShape{
		v:          v,
		base:       base,
		item:       bdef.Item,
		members:    bdef.Members,
		kind:       bdef.Kind,
		variety:    bdef.Variety,
		derivation: corpus.DerivationRestriction,
	}
	if shape.variety == corpus.VarietyUr {
		shape.variety = corpus.VarietyAtomic
		shape.kind = variant.String
		v.Variety, v.Kind = corpus.VarietyAtomic, variant.String
	}
	c.applyFacets(v, st)
	return shape
}

func (c *Compiler) listShape(st *decl.SimpleType) (simpleShape, error) {
	item, err := c.simpleRef(st.ItemType, st.Item, st.Pos)
	if err != nil {
		return simpleShape{}, err
	}
	c.checkFinal(item, corpus.DerivationSetList, "list", st.Pos)
	return simpleShape{
		v:          facets.NewList(c.validators[item]),
		base:       c.builtin(corpus.SerialAnySimpleType),
		item:       item,
		variety:    corpus.VarietyList,
		derivation: corpus.DerivationList,
	}, nil
}

func (c *Compiler) unionShape(st *decl.SimpleType) (simpleShape, error) {
	var (
		members []corpus.TypeID
		vs      []*facets.Validator
	)
	add := func(id corpus.TypeID) {
		c.checkFinal(id, corpus.DerivationSetUnion, "union", st.Pos)
		members = append(members, id)
		vs = append(vs, c.validators[id])
	}
	for _, name := range st.MemberTypes {
		id, err := c.simpleRef(name, nil, st.Pos)
		if err != nil {
			return simpleShape{}, err
		}
		add(id)
	}
	for _, inline := range st.Members {
		id, err := c.anonymousSimple(inline)
		if err != nil {
			return simpleShape{}, err
		}
		add(id)
	}
	return simpleShape{
		v:          facets.NewUnion(vs),
		base:       c.builtin(corpus.SerialAnySimpleType),
		members:    members,
		variety:    corpus.VarietyUnion,
		derivation: corpus.DerivationUnion,
	}, nil
}

// applyFacets applies the facets of st in dependency order: whiteSpace,
// length facets, bounds, digits, patterns and enumerations last so that
// enumeration values are checked against every other facet.
func (c *Compiler) applyFacets(v *facets.Validator, st *decl.SimpleType) {
	byName := make(map[string][]decl.Facet)
	for _, f := range st.Facets {
		byName[f.Name] = append(byName[f.Name], f)
	}
	first := func(name string) (decl.Facet, bool) {
		fs := byName[name]
		if len(fs) == 0 {
			return decl.Facet{}, false
		}
		return fs[0], true
	}
	line := func(names ...string) decl.Pos {
		for _, n := range names {
			if f, ok := first(n); ok {
				return decl.Pos{SystemID: st.SystemID, Line: f.Line}
			}
		}
		return st.Pos
	}

	if f, ok := first("whiteSpace"); ok {
		if mode, ok := whitespace.ParseMode(whitespace.Normalize(whitespace.Collapse, f.Value)); ok {
			c.facetErrors(v.SetWhitespace(mode), line("whiteSpace"))
		} else {
			c.reportf(xsderrors.ErrDatatypeInvalid, line("whiteSpace"), "invalid whiteSpace value %q", f.Value)
		}
	}

	var lengths facets.LengthFacets
	lengths.Length = c.intFacet(first, "length", st)
	lengths.MinLength = c.intFacet(first, "minLength", st)
	lengths.MaxLength = c.intFacet(first, "maxLength", st)
	if lengths.Length != nil || lengths.MinLength != nil || lengths.MaxLength != nil {
		c.facetErrors(v.SetLengthFacets(lengths), line("length", "minLength", "maxLength"))
	}

	var bounds facets.BoundsFacets
	bounds.MinInclusive = strFacet(first, "minInclusive")
	bounds.MinExclusive = strFacet(first, "minExclusive")
	bounds.MaxInclusive = strFacet(first, "maxInclusive")
	bounds.MaxExclusive = strFacet(first, "maxExclusive")
	if bounds.MinInclusive != nil || bounds.MinExclusive != nil || bounds.MaxInclusive != nil || bounds.MaxExclusive != nil {
		c.facetErrors(v.SetBoundsFacets(bounds), line("minInclusive", "minExclusive", "maxInclusive", "maxExclusive"))
	}

	total := c.intFacet(first, "totalDigits", st)
	fraction := c.intFacet(first, "fractionDigits", st)
	if total != nil || fraction != nil {
		c.facetErrors(v.SetDigits(total, fraction), line("totalDigits", "fractionDigits"))
	}

	if ps := byName["pattern"]; len(ps) > 0 {
		sources := make([]string, len(ps))
		for i, p := range ps {
			sources[i] = p.Value
		}
		c.facetErrors(v.SetPattern(sources), line("pattern"))
	}

	for _, f := range byName["enumeration"] {
		if err := v.AddEnumeration(f.Value); err != nil {
			c.facetErrors(err, decl.Pos{SystemID: st.SystemID, Line: f.Line})
			v.Set.ClearEnumerations()
			break
		}
	}
}

func (c *Compiler) intFacet(first func(string) (decl.Facet, bool), name string, st *decl.SimpleType) *int {
	f, ok := first(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(whitespace.Normalize(whitespace.Collapse, f.Value))
	if err != nil || n < 0 {
		c.reportf(xsderrors.ErrDatatypeInvalid, decl.Pos{SystemID: st.SystemID, Line: f.Line},
			"%s value %q is not a non-negative integer", name, f.Value)
		return nil
	}
	return &n
}

func strFacet(first func(string) (decl.Facet, bool), name string) *string {
	f, ok := first(name)
	if !ok {
		return nil
	}
	return &f.Value
}

// facetErrors reports every facet failure joined in err.
func (c *Compiler) facetErrors(err error, pos decl.Pos) {
	for _, fe := range facets.Errors(err) {
		msg := "facet " + fe.Facet
		if fe.Value != "" {
			msg += " value " + strconv.Quote(fe.Value)
		}
		if fe.Err != nil {
			msg += ": " + fe.Err.Error()
		}
		c.report(xsderrors.NewDiagnostic(fe.Rule, pos.SystemID, pos.Line, msg))
	}
}

func (c *Compiler) label(id corpus.TypeID) string {
	def := c.b.Type(id)
	if def == nil || def.Name.Local == "" {
		return "anonymous type"
	}
	return def.Name.String()
}
