package compiler

import (
	"slices"

	pkgerrors "github.com/pkg/errors"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/decl"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

// complexShape collects the properties of a complex type before they are
// written to its node.
type complexShape struct {
	uses        []corpus.AttributeUse
	base        corpus.TypeID
	contentType corpus.TypeID
	particle    corpus.ParticleID
	wildcard    corpus.WildcardID
	content     corpus.ContentClass
}

// compileComplex builds the complex type id. The base type is compiled
// first; element types in the content model only need their handles.
func (c *Compiler) compileComplex(id corpus.TypeID) error {
	switch c.state[id] {
	case stateDone:
		return nil
	case stateBuilding:
		ct := c.complexDecls[id]
		return xsderrors.Fatalf(xsderrors.ErrComplexTypeCycle, ct.SystemID, ct.Line, "complex type %s derives from itself", c.label(id))
	}
	c.state[id] = stateBuilding
	ct := c.complexDecls[id]

	base, err := c.typeID(ct.Base, ct.Pos)
	if err != nil {
		return err
	}
	if err := c.ensure(base); err != nil {
		return err
	}
	bdef := *c.b.Type(base)
	switch {
	case ct.Derivation == corpus.DerivationExtension && bdef.Final.Has(corpus.DerivationSetExtension):
		c.reportf(xsderrors.ErrExtensionFinal, ct.Pos, "%s is final for extension", c.label(base))
	case ct.Derivation == corpus.DerivationRestriction && bdef.Final.Has(corpus.DerivationSetRestriction):
		c.reportf(xsderrors.ErrRestrictionFinal, ct.Pos, "%s is final for restriction", c.label(base))
	}

	shape := complexShape{base: base}
	if ct.Simple {
		if shape.contentType, err = c.simpleContent(ct, base, bdef); err != nil {
			return err
		}
		shape.content = corpus.ContentSimple
	} else if err := c.complexContent(ct, bdef, &shape); err != nil {
		return err
	}
	if shape.uses, err = c.attributeUses(ct, bdef); err != nil {
		return err
	}
	switch {
	case ct.AttributeWildcard != nil:
		if shape.wildcard, err = c.b.NewWildcard(ct.AttributeWildcard.Def); err != nil {
			return pkgerrors.Wrap(err, "add attribute wildcard")
		}
	case ct.Derivation == corpus.DerivationExtension:
		shape.wildcard = bdef.AttributeWildcard
	}

	def := c.b.Type(id)
	def.Base = shape.base
	def.Derivation = ct.Derivation
	def.Abstract = ct.Abstract
	def.Block = ct.Block
	def.Final = ct.Final
	def.Content = shape.content
	def.ContentType = shape.contentType
	def.Particle = shape.particle
	def.AttributeUses = shape.uses
	def.AttributeWildcard = shape.wildcard
	def.Facets = corpus.NoFacets()
	c.state[id] = stateDone

	if ct.Derivation == corpus.DerivationRestriction && !ct.Simple && !bdef.Simple && !bdef.Builtin {
		c.restrictions = append(c.restrictions, id)
	}
	return nil
}

// anonymousComplex adds and compiles an inline complex type.
func (c *Compiler) anonymousComplex(ct *decl.ComplexType) (corpus.TypeID, error) {
	id, err := c.b.NewType(corpus.TypeDef{SystemID: ct.SystemID, Line: ct.Line})
	if err != nil {
		return corpus.NilType, pkgerrors.Wrap(err, "add anonymous complex type")
	}
	c.complexDecls[id] = ct
	if err := c.compileComplex(id); err != nil {
		return corpus.NilType, err
	}
	return id, nil
}

// simpleContent returns the content type of a complex type with simple
// content.
func (c *Compiler) simpleContent(ct *decl.ComplexType, base corpus.TypeID, bdef corpus.TypeDef) (corpus.TypeID, error) {
	var from corpus.TypeID
	switch {
	case bdef.Simple:
		from = base
		if ct.Derivation == corpus.DerivationRestriction {
			c.reportf(xsderrors.ErrSimpleContentBase, ct.Pos, "simple content cannot restrict simple type %s", c.label(base))
		}
	case bdef.Content == corpus.ContentSimple:
		from = bdef.ContentType
	case ct.Derivation == corpus.DerivationRestriction && bdef.Content == corpus.ContentMixed &&
		ct.SimpleContent != nil && ct.SimpleContent.BaseType != nil:
	default:
		c.reportf(xsderrors.ErrSimpleContentBase, ct.Pos, "base %s does not have simple content", c.label(base))
		from = c.builtin(corpus.SerialAnySimpleType)
	}
	sc := ct.SimpleContent
	if ct.Derivation == corpus.DerivationExtension || sc == nil {
		return from, nil
	}
	if sc.BaseType != nil {
		inline, err := c.anonymousSimple(sc.BaseType)
		if err != nil {
			return corpus.NilType, err
		}
		from = inline
	}
	if len(sc.Facets) == 0 {
		return from, nil
	}
	id, err := c.b.NewType(corpus.TypeDef{SystemID: sc.SystemID, Line: sc.Line, Simple: true})
	if err != nil {
		return corpus.NilType, pkgerrors.Wrap(err, "add simple content type")
	}
	c.state[id] = stateBuilding
	c.finish(id, sc, c.restrictOf(from, sc))
	return id, nil
}

// complexContent fills the particle and content class of a complex type
// with complex content. Extensions append the own particle to the base's.
func (c *Compiler) complexContent(ct *decl.ComplexType, bdef corpus.TypeDef, shape *complexShape) error {
	anyType := c.builtin(corpus.SerialAnyType)
	if bdef.Simple {
		c.reportf(xsderrors.ErrComplexContentBase, ct.Pos, "complex content cannot derive from simple type %s", bdef.Name)
		bdef = corpus.TypeDef{}
	}
	own := ct.Particle
	if isEmptyGroup(own) {
		own = nil
	}
	p, err := c.particle(own)
	if err != nil {
		return err
	}
	mixed := ct.Mixed
	if ct.Derivation == corpus.DerivationExtension && shape.base != anyType {
		mixed = mixed || bdef.Content == corpus.ContentMixed
		switch {
		case bdef.Particle == corpus.NilParticle:
		case p == corpus.NilParticle:
			p = bdef.Particle
		default:
			g, err := c.b.NewGroup(corpus.GroupDef{Compositor: corpus.Sequence, Particles: []corpus.ParticleID{bdef.Particle, p}})
			if err != nil {
				return pkgerrors.Wrap(err, "add extension group")
			}
			if p, err = c.b.NewParticle(corpus.ParticleDef{Min: 1, Max: 1, Term: corpus.TermGroup, Group: g}); err != nil {
				return pkgerrors.Wrap(err, "add extension particle")
			}
		}
	}
	shape.particle = p
	switch {
	case mixed:
		shape.content = corpus.ContentMixed
	case p == corpus.NilParticle:
		shape.content = corpus.ContentEmpty
	default:
		shape.content = corpus.ContentElementOnly
	}
	return nil
}

func isEmptyGroup(p *decl.Particle) bool {
	return p != nil && p.Term == corpus.TermGroup && len(p.Particles) == 0 && p.Compositor != corpus.Choice
}

// particle adds p and its terms. A nil p is empty content; particles
// with maxOccurs 0 are dropped.
func (c *Compiler) particle(p *decl.Particle) (corpus.ParticleID, error) {
	if p == nil || p.Max == 0 {
		return corpus.NilParticle, nil
	}
	def := corpus.ParticleDef{Min: p.Min, Max: p.Max, Term: p.Term}
	var err error
	switch p.Term {
	case corpus.TermElement:
		if def.Element, err = c.elementParticle(p.Element); err != nil {
			return corpus.NilParticle, err
		}
	case corpus.TermWildcard:
		if def.Wildcard, err = c.b.NewWildcard(p.Wildcard.Def); err != nil {
			return corpus.NilParticle, pkgerrors.Wrap(err, "add wildcard")
		}
	case corpus.TermGroup:
		g := corpus.GroupDef{Compositor: p.Compositor}
		for _, cp := range p.Particles {
			id, err := c.particle(cp)
			if err != nil {
				return corpus.NilParticle, err
			}
			if id != corpus.NilParticle {
				g.Particles = append(g.Particles, id)
			}
		}
		if def.Group, err = c.b.NewGroup(g); err != nil {
			return corpus.NilParticle, pkgerrors.Wrap(err, "add model group")
		}
	}
	id, err := c.b.NewParticle(def)
	if err != nil {
		return corpus.NilParticle, pkgerrors.Wrap(err, "add particle")
	}
	return id, nil
}

// attributeUses merges the uses of ct over those inherited from the base.
// A prohibited use removes the inherited use of the same name.
func (c *Compiler) attributeUses(ct *decl.ComplexType, bdef corpus.TypeDef) ([]corpus.AttributeUse, error) {
	var uses []corpus.AttributeUse
	if !bdef.Simple {
		uses = slices.Clone(bdef.AttributeUses)
	}
	for _, u := range ct.Attributes {
		use, err := c.attributeUse(u)
		if err != nil {
			return nil, err
		}
		name := c.b.Attribute(use.Attr).Name
		i := slices.IndexFunc(uses, func(x corpus.AttributeUse) bool {
			return c.b.Attribute(x.Attr).Name == name
		})
		switch {
		case u.Use == decl.UseProhibited:
			if i >= 0 {
				uses = slices.Delete(uses, i, i+1)
			}
		case i >= 0:
			uses[i] = use
		default:
			uses = append(uses, use)
		}
	}
	return uses, nil
}

func (c *Compiler) attributeUse(u *decl.AttributeUse) (corpus.AttributeUse, error) {
	use := corpus.AttributeUse{Required: u.Use == decl.UseRequired, Prohibited: u.Use == decl.UseProhibited}
	if u.Attribute != nil {
		id, err := c.localAttribute(u.Attribute)
		if err != nil {
			return use, err
		}
		use.Attr = id
		use.Constraint = c.b.Attribute(id).Constraint
		return use, nil
	}
	id, ok := c.b.LookupAttribute(u.Ref)
	if !ok {
		return use, xsderrors.Fatalf(xsderrors.ErrResolve, u.SystemID, u.Line, "attribute %s is not declared", u.Ref)
	}
	if err := c.compileAttribute(id); err != nil {
		return use, err
	}
	use.Attr = id
	if u.Value != nil {
		use.Constraint = c.constraint(u.Value, c.b.Attribute(id).Type, u.Namespaces, xsderrors.ErrAttributeDefault, u.Pos)
	}
	return use, nil
}
