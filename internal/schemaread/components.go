package schemaread

import (
	"github.com/antchfx/xmlquery"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/decl"
	"github.com/jacoelho/xsdcorpus/internal/whitespace"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

const (
	blockAllowed        = corpus.DerivationSetExtension | corpus.DerivationSetRestriction | corpus.DerivationSetSubstitution
	complexAllowed      = corpus.DerivationSetExtension | corpus.DerivationSetRestriction
	simpleFinalAllowed  = corpus.DerivationSetRestriction | corpus.DerivationSetList | corpus.DerivationSetUnion
	elementFinalAllowed = complexAllowed
)

var facetNames = map[string]bool{
	"minExclusive": true, "minInclusive": true, "maxExclusive": true, "maxInclusive": true,
	"totalDigits": true, "fractionDigits": true, "length": true, "minLength": true,
	"maxLength": true, "enumeration": true, "whiteSpace": true, "pattern": true,
}

// AnyType names the ur-type.
var AnyType = decl.QName{URI: XSDNamespace, Local: "anyType"}

// derivationSet parses a block or final attribute. A missing attribute
// takes def restricted to allowed.
func (d *document) derivationSet(n *xmlquery.Node, name string, allowed, def corpus.DerivationSet) (corpus.DerivationSet, error) {
	v, ok := attr(n, name)
	if !ok {
		return def & allowed, nil
	}
	var set corpus.DerivationSet
	all := false
	for tok := range whitespace.Fields(v) {
		var m corpus.DerivationSet
		switch tok {
		case "#all":
			if set != 0 {
				return 0, d.fatalf(xsderrors.ErrSchemaParse, n, "%s cannot combine #all with other values", name)
			}
			set, all = allowed, true
			continue
		case "extension":
			m = corpus.DerivationSetExtension
		case "restriction":
			m = corpus.DerivationSetRestriction
		case "substitution":
			m = corpus.DerivationSetSubstitution
		case "list":
			m = corpus.DerivationSetList
		case "union":
			m = corpus.DerivationSetUnion
		}
		if all || m == 0 || allowed&m == 0 {
			return 0, d.fatalf(xsderrors.ErrSchemaParse, n, "invalid %s value %q", name, v)
		}
		set |= m
	}
	return set, nil
}

func (d *document) value(n *xmlquery.Node) (*decl.Value, error) {
	def, hasDefault := attr(n, "default")
	fixed, hasFixed := attr(n, "fixed")
	switch {
	case hasDefault && hasFixed:
		return nil, d.fatalf(xsderrors.ErrSchemaParse, n, "default and fixed are mutually exclusive")
	case hasFixed:
		return &decl.Value{Lexical: fixed, Fixed: true}, nil
	case hasDefault:
		return &decl.Value{Lexical: def}, nil
	}
	return nil, nil
}

func (l *loader) simpleType(d *document, n *xmlquery.Node, global bool) (*decl.SimpleType, error) {
	st := &decl.SimpleType{Pos: d.pos(n), Namespaces: d.scopeFor(n)}
	if global {
		st.Name = decl.QName{URI: d.tns, Local: attrOr(n, "name", "")}
	}
	var err error
	if st.Final, err = d.derivationSet(n, "final", simpleFinalAllowed, d.finalDefault); err != nil {
		return nil, err
	}
	for _, c := range children(n) {
		switch c.Data {
		case "restriction":
			st.Derivation = corpus.DerivationRestriction
			if st.Base, err = d.qnameAttr(c, "base"); err != nil {
				return nil, err
			}
			if err := l.restriction(d, c, st); err != nil {
				return nil, err
			}
			if st.Base.Local == "" && st.BaseType == nil {
				return nil, d.fatalf(xsderrors.ErrSchemaParse, c, "restriction without base")
			}
		case "list":
			st.Derivation = corpus.DerivationList
			if st.ItemType, err = d.qnameAttr(c, "itemType"); err != nil {
				return nil, err
			}
			for _, ic := range children(c) {
				if ic.Data == "simpleType" {
					if st.Item, err = l.simpleType(d, ic, false); err != nil {
						return nil, err
					}
				}
			}
			if st.ItemType.Local == "" && st.Item == nil {
				return nil, d.fatalf(xsderrors.ErrSchemaParse, c, "list without item type")
			}
		case "union":
			st.Derivation = corpus.DerivationUnion
			for tok := range whitespace.Fields(attrOr(c, "memberTypes", "")) {
				q, err := d.qname(c, tok)
				if err != nil {
					return nil, err
				}
				st.MemberTypes = append(st.MemberTypes, q)
			}
			for _, mc := range children(c) {
				if mc.Data == "simpleType" {
					m, err := l.simpleType(d, mc, false)
					if err != nil {
						return nil, err
					}
					st.Members = append(st.Members, m)
				}
			}
			if len(st.MemberTypes)+len(st.Members) == 0 {
				return nil, d.fatalf(xsderrors.ErrSchemaParse, c, "union without member types")
			}
		}
	}
	if st.Derivation == corpus.DerivationNone {
		return nil, d.fatalf(xsderrors.ErrSchemaParse, n, "simpleType %s has no restriction, list or union", st.Name)
	}
	return st, nil
}

// restriction reads the inline base and facets of a restriction element
// into st.
func (l *loader) restriction(d *document, n *xmlquery.Node, st *decl.SimpleType) error {
	for _, c := range children(n) {
		switch {
		case c.Data == "simpleType":
			base, err := l.simpleType(d, c, false)
			if err != nil {
				return err
			}
			st.BaseType = base
		case facetNames[c.Data]:
			st.Facets = append(st.Facets, decl.Facet{
				Name:  c.Data,
				Value: attrOr(c, "value", ""),
				Line:  d.line(c),
				Fixed: boolAttr(c, "fixed"),
			})
		}
	}
	return nil
}

func (l *loader) complexType(d *document, n *xmlquery.Node, global bool) (*decl.ComplexType, error) {
	ct := &decl.ComplexType{
		Pos:        d.pos(n),
		Base:       AnyType,
		Derivation: corpus.DerivationRestriction,
		Abstract:   boolAttr(n, "abstract"),
		Mixed:      boolAttr(n, "mixed"),
	}
	if global {
		ct.Name = decl.QName{URI: d.tns, Local: attrOr(n, "name", "")}
	}
	var err error
	if ct.Block, err = d.derivationSet(n, "block", complexAllowed, d.blockDefault); err != nil {
		return nil, err
	}
	if ct.Final, err = d.derivationSet(n, "final", complexAllowed, d.finalDefault); err != nil {
		return nil, err
	}
	for _, c := range children(n) {
		switch c.Data {
		case "simpleContent", "complexContent":
			if c.Data == "simpleContent" {
				ct.Simple = true
			} else if _, ok := attr(c, "mixed"); ok {
				ct.Mixed = boolAttr(c, "mixed")
			}
			for _, dc := range children(c) {
				switch dc.Data {
				case "restriction":
					ct.Derivation = corpus.DerivationRestriction
				case "extension":
					ct.Derivation = corpus.DerivationExtension
				default:
					continue
				}
				if ct.Base, err = d.qnameAttr(dc, "base"); err != nil {
					return nil, err
				}
				if ct.Base.Local == "" {
					return nil, d.fatalf(xsderrors.ErrSchemaParse, dc, "%s without base", dc.Data)
				}
				if ct.Simple && ct.Derivation == corpus.DerivationRestriction {
					ct.SimpleContent = &decl.SimpleType{Pos: d.pos(dc), Namespaces: d.scopeFor(dc), Derivation: corpus.DerivationRestriction}
					if err := l.restriction(d, dc, ct.SimpleContent); err != nil {
						return nil, err
					}
				}
				if err := l.contentModel(d, dc, ct); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := l.contentModel(d, n, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// contentModel reads the particle and attribute children of n into ct.
func (l *loader) contentModel(d *document, n *xmlquery.Node, ct *decl.ComplexType) error {
	for _, c := range children(n) {
		switch c.Data {
		case "group", "all", "choice", "sequence":
			p, err := l.particle(d, c)
			if err != nil {
				return err
			}
			ct.Particle = p
		case "attribute":
			u, err := l.attributeUse(d, c)
			if err != nil {
				return err
			}
			ct.Attributes = append(ct.Attributes, u)
		case "attributeGroup":
			uses, w, err := l.attributeGroup(d, c)
			if err != nil {
				return err
			}
			ct.Attributes = append(ct.Attributes, uses...)
			if ct.AttributeWildcard == nil {
				ct.AttributeWildcard = w
			}
		case "anyAttribute":
			w, err := d.wildcard(c)
			if err != nil {
				return err
			}
			ct.AttributeWildcard = w
		}
	}
	return nil
}

func (l *loader) element(d *document, n *xmlquery.Node, global bool) (*decl.Element, error) {
	e := &decl.Element{Pos: d.pos(n), Namespaces: d.scopeFor(n), Global: global}
	var err error
	if !global {
		if _, ok := attr(n, "ref"); ok {
			e.Ref, err = d.qnameAttr(n, "ref")
			return e, err
		}
	}
	e.Name.Local = attrOr(n, "name", "")
	if global || attrOr(n, "form", "") == "qualified" || (d.elementQualified && attrOr(n, "form", "") != "unqualified") {
		e.Name.URI = d.tns
	}
	if e.Type, err = d.qnameAttr(n, "type"); err != nil {
		return nil, err
	}
	if e.SubstitutionGroup, err = d.qnameAttr(n, "substitutionGroup"); err != nil {
		return nil, err
	}
	if e.Value, err = d.value(n); err != nil {
		return nil, err
	}
	if e.Block, err = d.derivationSet(n, "block", blockAllowed, d.blockDefault); err != nil {
		return nil, err
	}
	if e.Final, err = d.derivationSet(n, "final", elementFinalAllowed, d.finalDefault); err != nil {
		return nil, err
	}
	e.Abstract = boolAttr(n, "abstract")
	e.Nillable = boolAttr(n, "nillable")
	for _, c := range children(n) {
		switch c.Data {
		case "simpleType":
			if e.SimpleType, err = l.simpleType(d, c, false); err != nil {
				return nil, err
			}
		case "complexType":
			if e.ComplexType, err = l.complexType(d, c, false); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

func (l *loader) attribute(d *document, n *xmlquery.Node, global bool) (*decl.Attribute, error) {
	a := &decl.Attribute{Pos: d.pos(n), Namespaces: d.scopeFor(n), Global: global}
	a.Name.Local = attrOr(n, "name", "")
	if global || attrOr(n, "form", "") == "qualified" || (d.attributeQualified && attrOr(n, "form", "") != "unqualified") {
		a.Name.URI = d.tns
	}
	var err error
	if a.Type, err = d.qnameAttr(n, "type"); err != nil {
		return nil, err
	}
	if a.Value, err = d.value(n); err != nil {
		return nil, err
	}
	for _, c := range children(n) {
		if c.Data == "simpleType" {
			if a.SimpleType, err = l.simpleType(d, c, false); err != nil {
				return nil, err
			}
		}
	}
	return a, nil
}

func (l *loader) attributeUse(d *document, n *xmlquery.Node) (*decl.AttributeUse, error) {
	u := &decl.AttributeUse{Pos: d.pos(n), Namespaces: d.scopeFor(n)}
	switch attrOr(n, "use", "optional") {
	case "required":
		u.Use = decl.UseRequired
	case "prohibited":
		u.Use = decl.UseProhibited
	case "optional":
	default:
		return nil, d.fatalf(xsderrors.ErrSchemaParse, n, "invalid use %q", attrOr(n, "use", ""))
	}
	var err error
	if _, ok := attr(n, "ref"); ok {
		if u.Ref, err = d.qnameAttr(n, "ref"); err != nil {
			return nil, err
		}
		u.Value, err = d.value(n)
		return u, err
	}
	if u.Attribute, err = l.attribute(d, n, false); err != nil {
		return nil, err
	}
	u.Value = u.Attribute.Value
	return u, nil
}
