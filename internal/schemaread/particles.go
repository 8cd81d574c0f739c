package schemaread

import (
	"errors"
	"strconv"

	"github.com/antchfx/xmlquery"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/decl"
	"github.com/jacoelho/xsdcorpus/internal/whitespace"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

// occurs parses minOccurs and maxOccurs of n.
func (d *document) occurs(n *xmlquery.Node) (int, int, error) {
	lo, err := d.occursValue(n, "minOccurs")
	if err != nil {
		return 0, 0, err
	}
	hi, err := d.occursValue(n, "maxOccurs")
	if err != nil {
		return 0, 0, err
	}
	if hi != corpus.Unbounded && lo > hi {
		return 0, 0, d.fatalf(xsderrors.ErrSchemaParse, n, "minOccurs %d exceeds maxOccurs %d", lo, hi)
	}
	return lo, hi, nil
}

func (d *document) occursValue(n *xmlquery.Node, name string) (int, error) {
	v, ok := attr(n, name)
	if !ok {
		return 1, nil
	}
	v = whitespace.Normalize(whitespace.Collapse, v)
	if v == "unbounded" && name == "maxOccurs" {
		return corpus.Unbounded, nil
	}
	u, err := strconv.ParseUint(v, 10, 31)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, d.fatalf(xsderrors.ErrSchemaParse, n, "%s value %q overflows", name, v)
		}
		return 0, d.fatalf(xsderrors.ErrSchemaParse, n, "invalid %s value %q", name, v)
	}
	return int(u), nil
}

// particle reads an element, any, group reference or model group.
func (l *loader) particle(d *document, n *xmlquery.Node) (*decl.Particle, error) {
	lo, hi, err := d.occurs(n)
	if err != nil {
		return nil, err
	}
	p := &decl.Particle{Pos: d.pos(n), Min: lo, Max: hi}
	switch n.Data {
	case "element":
		p.Term = corpus.TermElement
		if p.Element, err = l.element(d, n, false); err != nil {
			return nil, err
		}
	case "any":
		p.Term = corpus.TermWildcard
		if p.Wildcard, err = d.wildcard(n); err != nil {
			return nil, err
		}
	case "group":
		return l.groupRef(d, n, p)
	case "sequence", "choice", "all":
		p.Term = corpus.TermGroup
		p.Compositor = compositorOf(n.Data)
		for _, c := range children(n) {
			switch c.Data {
			case "element", "any", "group", "sequence", "choice", "all":
				cp, err := l.particle(d, c)
				if err != nil {
					return nil, err
				}
				p.Particles = append(p.Particles, cp)
			}
		}
	default:
		return nil, d.fatalf(xsderrors.ErrSchemaParse, n, "unexpected %s in content model", n.Data)
	}
	return p, nil
}

func compositorOf(name string) corpus.Compositor {
	switch name {
	case "choice":
		return corpus.Choice
	case "all":
		return corpus.All
	default:
		return corpus.Sequence
	}
}

// groupRef expands a reference to a named model group. The copy takes
// the occurrence bounds of the reference.
func (l *loader) groupRef(d *document, n *xmlquery.Node, ref *decl.Particle) (*decl.Particle, error) {
	name, err := d.qnameAttr(n, "ref")
	if err != nil {
		return nil, err
	}
	def, ok := l.groups[name]
	if !ok {
		return nil, d.fatalf(xsderrors.ErrResolve, n, "group %s is not declared", name)
	}
	if l.activeG[name] {
		return nil, d.fatalf(xsderrors.ErrGroupCycle, n, "group %s contains itself", name)
	}
	l.activeG[name] = true
	defer delete(l.activeG, name)
	for _, c := range children(def.node) {
		switch c.Data {
		case "sequence", "choice", "all":
			p, err := l.particle(def.doc, c)
			if err != nil {
				return nil, err
			}
			p.Pos, p.Min, p.Max = ref.Pos, ref.Min, ref.Max
			return p, nil
		}
	}
	return nil, def.doc.fatalf(xsderrors.ErrSchemaParse, def.node, "group %s has no model group", name)
}

// attributeGroup expands a reference to a named attribute group.
func (l *loader) attributeGroup(d *document, n *xmlquery.Node) ([]*decl.AttributeUse, *decl.Wildcard, error) {
	name, err := d.qnameAttr(n, "ref")
	if err != nil {
		return nil, nil, err
	}
	def, ok := l.attrGroups[name]
	if !ok {
		return nil, nil, d.fatalf(xsderrors.ErrResolve, n, "attributeGroup %s is not declared", name)
	}
	if l.activeAG[name] {
		return nil, nil, d.fatalf(xsderrors.ErrAttributeGroupCycle, n, "attributeGroup %s references itself", name)
	}
	l.activeAG[name] = true
	defer delete(l.activeAG, name)

	var uses []*decl.AttributeUse
	var wildcard *decl.Wildcard
	for _, c := range children(def.node) {
		switch c.Data {
		case "attribute":
			u, err := l.attributeUse(def.doc, c)
			if err != nil {
				return nil, nil, err
			}
			uses = append(uses, u)
		case "attributeGroup":
			more, w, err := l.attributeGroup(def.doc, c)
			if err != nil {
				return nil, nil, err
			}
			uses = append(uses, more...)
			if wildcard == nil {
				wildcard = w
			}
		case "anyAttribute":
			if wildcard, err = def.doc.wildcard(c); err != nil {
				return nil, nil, err
			}
		}
	}
	return uses, wildcard, nil
}

// wildcard reads the namespace constraint of an any or anyAttribute.
func (d *document) wildcard(n *xmlquery.Node) (*decl.Wildcard, error) {
	w := &decl.Wildcard{Pos: d.pos(n)}
	switch attrOr(n, "processContents", "strict") {
	case "strict":
		w.Def.Process = corpus.ProcessStrict
	case "lax":
		w.Def.Process = corpus.ProcessLax
	case "skip":
		w.Def.Process = corpus.ProcessSkip
	default:
		return nil, d.fatalf(xsderrors.ErrSchemaParse, n, "invalid processContents %q", attrOr(n, "processContents", ""))
	}
	ns := whitespace.Normalize(whitespace.Collapse, attrOr(n, "namespace", "##any"))
	switch ns {
	case "##any":
		w.Def.Kind = corpus.NamespaceAny
	case "##other":
		w.Def.Kind = corpus.NamespaceNot
		w.Def.URIs = []string{d.tns}
	default:
		w.Def.Kind = corpus.NamespaceSet
		w.Def.URIs = []string{}
		for tok := range whitespace.Fields(ns) {
			switch tok {
			case "##targetNamespace":
				tok = d.tns
			case "##local":
				tok = ""
			case "##any", "##other":
				return nil, d.fatalf(xsderrors.ErrSchemaParse, n, "%s cannot appear in a namespace list", tok)
			}
			w.Def.URIs = append(w.Def.URIs, tok)
		}
	}
	return w, nil
}
