// Package particle checks that the content model of a complex type derived
// by restriction is a valid restriction of its base content model.
package particle

import (
	"fmt"
	"strings"

	"github.com/jacoelho/xsdcorpus/pkg/corpus"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// Unbounded is the maximum of a particle without an upper bound.
const Unbounded = corpus.Unbounded

// Particle is a term with occurrence bounds.
type Particle struct {
	Term Term
	Min  int
	Max  int
}

// Term is an *Element, *Wildcard or *Group.
type Term interface {
	fmt.Stringer
	term()
}

// Element is an element declaration term.
type Element struct {
	Fixed    variant.Variant
	Name     corpus.QName
	ID       corpus.ElemID
	Type     corpus.TypeID
	Block    corpus.DerivationSet
	Nillable bool
}

// Wildcard is an element wildcard term.
type Wildcard struct {
	Def corpus.WildcardDef
}

// Group is a model group term.
type Group struct {
	Particles  []*Particle
	Compositor corpus.Compositor
}

func (*Element) term()  {}
func (*Wildcard) term() {}
func (*Group) term()    {}

func (e *Element) String() string { return "element " + e.Name.String() }

func (w *Wildcard) String() string {
	switch w.Def.Kind {
	case corpus.NamespaceAny:
		return "any ##any"
	case corpus.NamespaceNot:
		return "any ##other"
	default:
		return "any {" + strings.Join(w.Def.URIs, " ") + "}"
	}
}

func (g *Group) String() string {
	return fmt.Sprintf("%s of %d", g.Compositor, len(g.Particles))
}

// Source resolves corpus handles. *corpus.Builder satisfies it.
type Source interface {
	Particle(corpus.ParticleID) *corpus.ParticleDef
	Group(corpus.GroupID) *corpus.GroupDef
	Element(corpus.ElemID) *corpus.ElementDef
	Wildcard(corpus.WildcardID) *corpus.WildcardDef
}

// ElementTerm builds the term of element id.
func ElementTerm(src Source, id corpus.ElemID) *Element {
	def := src.Element(id)
	if def == nil {
		return &Element{ID: id}
	}
	e := &Element{Name: def.Name, ID: id, Type: def.Type, Block: def.Block, Nillable: def.Nillable}
	if def.Constraint.Kind == corpus.ConstraintFixed {
		e.Fixed = def.Constraint.Value
	}
	return e
}

// Load builds the particle tree rooted at id. It returns nil for NilParticle.
func Load(src Source, id corpus.ParticleID) *Particle {
	return load(src, id, make(map[corpus.GroupID]bool))
}

func load(src Source, id corpus.ParticleID, active map[corpus.GroupID]bool) *Particle {
	def := src.Particle(id)
	if def == nil {
		return nil
	}
	p := &Particle{Min: def.Min, Max: def.Max}
	switch def.Term {
	case corpus.TermElement:
		p.Term = ElementTerm(src, def.Element)
	case corpus.TermWildcard:
		w := src.Wildcard(def.Wildcard)
		if w == nil {
			return nil
		}
		p.Term = &Wildcard{Def: *w}
	case corpus.TermGroup:
		gd := src.Group(def.Group)
		if gd == nil || active[def.Group] {
			return nil
		}
		active[def.Group] = true
		g := &Group{Compositor: gd.Compositor}
		for _, child := range gd.Particles {
			if cp := load(src, child, active); cp != nil {
				g.Particles = append(g.Particles, cp)
			}
		}
		delete(active, def.Group)
		p.Term = g
	default:
		return nil
	}
	return p
}

// emptiable reports whether p can match the empty sequence.
func emptiable(p *Particle) bool {
	lo, _ := effectiveRange(p)
	return lo == 0
}

// effectiveRange computes the effective total range of a particle.
func effectiveRange(p *Particle) (int, int) {
	g, ok := p.Term.(*Group)
	if !ok {
		return p.Min, p.Max
	}
	if len(g.Particles) == 0 {
		return 0, 0
	}
	var lo, hi int
	if g.Compositor == corpus.Choice {
		lo, hi = -1, 0
		for _, c := range g.Particles {
			clo, chi := effectiveRange(c)
			if lo < 0 || clo < lo {
				lo = clo
			}
			hi = maxBound(hi, chi)
		}
	} else {
		for _, c := range g.Particles {
			clo, chi := effectiveRange(c)
			lo += clo
			hi = addBound(hi, chi)
		}
	}
	return p.Min * lo, mulBound(p.Max, hi)
}

func maxBound(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return max(a, b)
}

func addBound(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return a + b
}

func mulBound(a, b int) int {
	switch {
	case a == 0 || b == 0:
		return 0
	case a == Unbounded || b == Unbounded:
		return Unbounded
	default:
		return a * b
	}
}

// rangeOK reports whether [lo, hi] is within [blo, bhi].
func rangeOK(lo, hi, blo, bhi int) bool {
	if lo < blo {
		return false
	}
	if bhi == Unbounded {
		return true
	}
	return hi != Unbounded && hi <= bhi
}
