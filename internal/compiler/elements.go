package compiler

import (
	pkgerrors "github.com/pkg/errors"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/decl"
	"github.com/jacoelho/xsdcorpus/internal/facets"
	"github.com/jacoelho/xsdcorpus/internal/substgroup"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// compileGlobalElement fills the declaration registered for e and queues
// it for substitution group resolution.
func (c *Compiler) compileGlobalElement(e *decl.Element) error {
	id := c.globalElems[e]
	typ, err := c.globalElementType(e)
	if err != nil {
		return err
	}
	var head corpus.ElemID
	if e.SubstitutionGroup.Local != "" {
		h, ok := c.b.LookupElement(e.SubstitutionGroup)
		if !ok {
			return xsderrors.Fatalf(xsderrors.ErrResolve, e.SystemID, e.Line, "substitution group head %s is not declared", e.SubstitutionGroup)
		}
		head = h
	}
	constraint := c.elementConstraint(e, typ)

	def := c.b.Element(id)
	def.Type = typ
	def.Head = head
	def.Constraint = constraint
	def.Block = e.Block
	def.Final = e.Final
	def.Abstract = e.Abstract
	def.Nillable = e.Nillable
	c.substElems = append(c.substElems, substgroup.Element{
		Name:     e.Name,
		SystemID: e.SystemID,
		Line:     e.Line,
		ID:       id,
		Head:     head,
		Block:    e.Block,
	})
	return nil
}

// globalElementType resolves the type of a global element. An element
// without a type takes the type of its substitution group head, or
// anyType.
func (c *Compiler) globalElementType(e *decl.Element) (corpus.TypeID, error) {
	if id, ok := c.elemTypes[e]; ok {
		return id, nil
	}
	if c.elemActive[e] {
		return c.builtin(corpus.SerialAnyType), nil
	}
	c.elemActive[e] = true
	defer delete(c.elemActive, e)

	id, err := c.declaredType(e)
	if err != nil {
		return corpus.NilType, err
	}
	if id == corpus.NilType {
		id = c.builtin(corpus.SerialAnyType)
		if head, ok := c.elemDecls[e.SubstitutionGroup]; ok && e.SubstitutionGroup.Local != "" {
			if id, err = c.globalElementType(head); err != nil {
				return corpus.NilType, err
			}
		}
	}
	c.elemTypes[e] = id
	return id, nil
}

// declaredType compiles the type given on e, or returns NilType when e
// names none.
func (c *Compiler) declaredType(e *decl.Element) (corpus.TypeID, error) {
	switch {
	case e.SimpleType != nil:
		return c.anonymousSimple(e.SimpleType)
	case e.ComplexType != nil:
		return c.anonymousComplex(e.ComplexType)
	case e.Type.Local != "":
		id, err := c.typeID(e.Type, e.Pos)
		if err != nil {
			return corpus.NilType, err
		}
		// content models may name the type being compiled
		if c.b.Type(id).Simple {
			return id, c.compileSimple(id)
		}
		return id, nil
	}
	return corpus.NilType, nil
}

// elementParticle returns the declaration an element particle refers to.
func (c *Compiler) elementParticle(e *decl.Element) (corpus.ElemID, error) {
	if !e.IsRef() {
		return c.localElement(e)
	}
	id, ok := c.b.LookupElement(e.Ref)
	if !ok {
		return corpus.NilElem, xsderrors.Fatalf(xsderrors.ErrResolve, e.SystemID, e.Line, "element %s is not declared", e.Ref)
	}
	return id, nil
}

func (c *Compiler) localElement(e *decl.Element) (corpus.ElemID, error) {
	typ, err := c.declaredType(e)
	if err != nil {
		return corpus.NilElem, err
	}
	if typ == corpus.NilType {
		typ = c.builtin(corpus.SerialAnyType)
	}
	id, err := c.b.NewElement(corpus.ElementDef{
		Name:     e.Name,
		SystemID: e.SystemID,
		Line:     e.Line,
		Type:     typ,
		Block:    e.Block,
		Abstract: e.Abstract,
		Nillable: e.Nillable,
	})
	if err != nil {
		return corpus.NilElem, pkgerrors.Wrap(err, "add local element")
	}
	if e.Value != nil {
		c.localValues = append(c.localValues, localValue{id: id, decl: e})
	}
	return id, nil
}

// localValue is a local element whose value constraint waits until every
// complex type is compiled.
type localValue struct {
	id   corpus.ElemID
	decl *decl.Element
}

func (c *Compiler) encodeLocalValues() {
	for _, lv := range c.localValues {
		constraint := c.elementConstraint(lv.decl, c.b.Element(lv.id).Type)
		c.b.Element(lv.id).Constraint = constraint
	}
	c.localValues = nil
}

func (c *Compiler) elementConstraint(e *decl.Element, typ corpus.TypeID) corpus.Constraint {
	if e.Value == nil {
		return corpus.Constraint{}
	}
	return c.constraint(e.Value, typ, e.Namespaces, xsderrors.ErrElementDefault, e.Pos)
}

// compileAttribute fills the global attribute id on first use.
func (c *Compiler) compileAttribute(id corpus.AttrID) error {
	if c.attrDone[id] {
		return nil
	}
	c.attrDone[id] = true
	a := c.attrDecls[id]
	typ, constraint, err := c.attributeType(a)
	if err != nil {
		return err
	}
	def := c.b.Attribute(id)
	def.Type = typ
	def.Constraint = constraint
	return nil
}

func (c *Compiler) localAttribute(a *decl.Attribute) (corpus.AttrID, error) {
	typ, constraint, err := c.attributeType(a)
	if err != nil {
		return corpus.NilAttr, err
	}
	id, err := c.b.NewAttribute(corpus.AttributeDef{
		Name:       a.Name,
		SystemID:   a.SystemID,
		Line:       a.Line,
		Type:       typ,
		Constraint: constraint,
	})
	if err != nil {
		return corpus.NilAttr, pkgerrors.Wrap(err, "add local attribute")
	}
	return id, nil
}

// attributeType resolves the simple type and value constraint of a.
// Attributes without a type are anySimpleType.
func (c *Compiler) attributeType(a *decl.Attribute) (corpus.TypeID, corpus.Constraint, error) {
	typ := c.builtin(corpus.SerialAnySimpleType)
	if a.SimpleType != nil || a.Type.Local != "" {
		id, err := c.simpleRef(a.Type, a.SimpleType, a.Pos)
		if err != nil {
			return corpus.NilType, corpus.Constraint{}, err
		}
		typ = id
	}
	var constraint corpus.Constraint
	if a.Value != nil {
		constraint = c.constraint(a.Value, typ, a.Namespaces, xsderrors.ErrAttributeDefault, a.Pos)
	}
	return typ, constraint, nil
}

// constraint encodes a default or fixed value with the simple value type
// of typ. Invalid values are reported with code and dropped.
func (c *Compiler) constraint(v *decl.Value, typ corpus.TypeID, ns decl.Namespaces, code xsderrors.ErrorCode, pos decl.Pos) corpus.Constraint {
	kind := corpus.ConstraintDefault
	if v.Fixed {
		kind = corpus.ConstraintFixed
	}
	val, ok := c.valueValidator(typ)
	if !ok {
		c.reportf(code, pos, "value %q given for %s, which has no simple content", v.Lexical, c.label(typ))
		return corpus.Constraint{}
	}
	if val == nil {
		return corpus.Constraint{Value: variant.FromString(v.Lexical), Lexical: v.Lexical, Kind: kind}
	}
	enc, err := val.ValidateWith(v.Lexical, variant.Encoder{Namespaces: ns})
	if err != nil {
		c.reportf(code, pos, "value %q is not valid for %s: %v", v.Lexical, c.label(typ), err)
		return corpus.Constraint{}
	}
	return corpus.Constraint{Value: enc, Lexical: v.Lexical, Kind: kind}
}

// valueValidator returns the validator for text of typ. Mixed content
// takes any string and yields a nil validator.
func (c *Compiler) valueValidator(typ corpus.TypeID) (*facets.Validator, bool) {
	def := c.b.Type(typ)
	if def == nil {
		return nil, false
	}
	switch {
	case def.Simple:
		v, ok := c.validators[typ]
		return v, ok
	case def.Content == corpus.ContentSimple:
		v, ok := c.validators[def.ContentType]
		return v, ok
	case def.Content == corpus.ContentMixed:
		return nil, true
	}
	return nil, false
}
