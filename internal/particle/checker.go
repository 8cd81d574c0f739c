package particle

import (
	"fmt"
	"strconv"
	"strings"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/wildcardpolicy"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// RestrictionError names the particle restriction rule that failed and the
// position of the offending particle in the derived content model.
type RestrictionError struct {
	Rule     xsderrors.ErrorCode
	Position string
	Detail   string
}

func (e *RestrictionError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Rule, e.Position, e.Detail)
}

// Checker validates particle restrictions. The zero value checks without
// substitution group expansion and requires identical element types.
type Checker struct {
	// Substitutions returns the members of head in declaration order.
	Substitutions func(head corpus.ElemID) []*Element
	// TypeDerivedFrom reports whether derived is base or validly derived
	// from it.
	TypeDerivedFrom func(derived, base corpus.TypeID) bool
}

// CheckRestriction reports whether derived is a valid restriction of base.
// Either particle may be nil for empty content.
func (c *Checker) CheckRestriction(derived, base *Particle) error {
	d, b := c.normalize(derived), c.normalize(base)
	var err *RestrictionError
	switch {
	case d == nil && b == nil:
	case d == nil:
		if !emptiable(b) {
			err = &RestrictionError{Rule: xsderrors.ErrRangeOK, Position: "/", Detail: "empty content restricting non-emptiable " + b.Term.String()}
		}
	case b == nil:
		if !emptiable(d) {
			err = &RestrictionError{Rule: xsderrors.ErrParticleRestrict, Position: "/", Detail: d.Term.String() + " restricting empty content"}
		}
	default:
		err = c.check(d, b, "/")
	}
	if err != nil {
		return err
	}
	return nil
}

func child(pos string, i int) string {
	return strings.TrimSuffix(pos, "/") + "/" + strconv.Itoa(i)
}

// normalize expands substitution group heads into choices and removes
// pointless particles. It returns nil for particles that match nothing.
func (c *Checker) normalize(p *Particle) *Particle {
	if p == nil || p.Max == 0 {
		return nil
	}
	switch t := p.Term.(type) {
	case *Element:
		var members []*Element
		if c.Substitutions != nil {
			members = c.Substitutions(t.ID)
		}
		if len(members) == 0 {
			return p
		}
		g := &Group{Compositor: corpus.Choice, Particles: []*Particle{{Term: t, Min: 1, Max: 1}}}
		for _, m := range members {
			g.Particles = append(g.Particles, &Particle{Term: m, Min: 1, Max: 1})
		}
		return &Particle{Term: g, Min: p.Min, Max: p.Max}
	case *Group:
		g := &Group{Compositor: t.Compositor}
		for _, cp := range t.Particles {
			n := c.normalize(cp)
			if n == nil {
				continue
			}
			if inner, ok := n.Term.(*Group); ok && n.Min == 1 && n.Max == 1 &&
				inner.Compositor == g.Compositor && g.Compositor != corpus.All {
				g.Particles = append(g.Particles, inner.Particles...)
				continue
			}
			g.Particles = append(g.Particles, n)
		}
		switch {
		case len(g.Particles) == 0:
			return nil
		case len(g.Particles) == 1 && p.Min == 1 && p.Max == 1:
			return g.Particles[0]
		}
		return &Particle{Term: g, Min: p.Min, Max: p.Max}
	default:
		return p
	}
}

func forbidden(d, b *Particle, pos string) *RestrictionError {
	return &RestrictionError{
		Rule:     xsderrors.ErrParticleRestrict,
		Position: pos,
		Detail:   fmt.Sprintf("%s cannot restrict %s", d.Term, b.Term),
	}
}

func rangeErr(rule xsderrors.ErrorCode, d, b *Particle, pos string) *RestrictionError {
	return &RestrictionError{
		Rule:     rule,
		Position: pos,
		Detail:   fmt.Sprintf("occurrence range %s of %s not within %s", occurs(d.Min, d.Max), d.Term, occurs(b.Min, b.Max)),
	}
}

func occurs(lo, hi int) string {
	if hi == Unbounded {
		return fmt.Sprintf("[%d,unbounded]", lo)
	}
	return fmt.Sprintf("[%d,%d]", lo, hi)
}

func (c *Checker) check(d, b *Particle, pos string) *RestrictionError {
	switch bt := b.Term.(type) {
	case *Element:
		if dt, ok := d.Term.(*Element); ok {
			return c.nameAndTypeOK(d, dt, b, bt, pos)
		}
		return forbidden(d, b, pos)
	case *Wildcard:
		switch dt := d.Term.(type) {
		case *Element:
			if !bt.Def.Allows(dt.Name.URI) {
				return &RestrictionError{Rule: xsderrors.ErrNSCompat, Position: pos, Detail: fmt.Sprintf("%s not allowed by %s", dt, bt)}
			}
			if !rangeOK(d.Min, d.Max, b.Min, b.Max) {
				return rangeErr(xsderrors.ErrNSCompat, d, b, pos)
			}
			return nil
		case *Wildcard:
			return nsSubset(d, dt, b, bt, pos)
		case *Group:
			return c.nsRecurseCheckCardinality(d, dt, b, bt, pos)
		}
	case *Group:
		switch dt := d.Term.(type) {
		case *Element:
			wrapped := &Particle{Term: &Group{Compositor: bt.Compositor, Particles: []*Particle{d}}, Min: 1, Max: 1}
			if err := c.check(wrapped, b, pos); err != nil {
				return &RestrictionError{Rule: xsderrors.ErrRecurseAsIfGroup, Position: pos, Detail: fmt.Sprintf("%s in an implicit %s: %s", dt, bt.Compositor, err.Detail)}
			}
			return nil
		case *Group:
			switch {
			case bt.Compositor == dt.Compositor && bt.Compositor == corpus.Choice:
				return c.recurse(d, dt, b, bt, pos, xsderrors.ErrRecurseLax, true)
			case bt.Compositor == dt.Compositor:
				return c.recurse(d, dt, b, bt, pos, xsderrors.ErrRecurse, false)
			case bt.Compositor == corpus.All && dt.Compositor == corpus.Sequence:
				return c.recurseUnordered(d, dt, b, bt, pos)
			case bt.Compositor == corpus.Choice && dt.Compositor == corpus.Sequence:
				return c.mapAndSum(d, dt, b, bt, pos)
			}
		}
	}
	return forbidden(d, b, pos)
}

func (c *Checker) nameAndTypeOK(d *Particle, de *Element, b *Particle, be *Element, pos string) *RestrictionError {
	fail := func(format string, args ...any) *RestrictionError {
		return &RestrictionError{Rule: xsderrors.ErrNameAndTypeOK, Position: pos, Detail: fmt.Sprintf(format, args...)}
	}
	switch {
	case de.Name != be.Name:
		return fail("%s does not match %s", de, be)
	case !rangeOK(d.Min, d.Max, b.Min, b.Max):
		return rangeErr(xsderrors.ErrRangeOK, d, b, pos)
	case de.Nillable && !be.Nillable:
		return fail("%s is nillable but the base is not", de)
	case be.Fixed.IsValid() && (!de.Fixed.IsValid() || !variant.Same(de.Fixed, be.Fixed)):
		return fail("%s must keep fixed value %s", de, be.Fixed.Canonical())
	case !de.Block.Has(be.Block):
		return fail("%s blocks less than the base", de)
	case de.Type != be.Type && (c.TypeDerivedFrom == nil || !c.TypeDerivedFrom(de.Type, be.Type)):
		return fail("type of %s is not derived from the base element type", de)
	}
	return nil
}

func nsSubset(d *Particle, dw *Wildcard, b *Particle, bw *Wildcard, pos string) *RestrictionError {
	if !rangeOK(d.Min, d.Max, b.Min, b.Max) {
		return rangeErr(xsderrors.ErrNSSubset, d, b, pos)
	}
	if !wildcardpolicy.Subset(dw.Def, bw.Def) {
		return &RestrictionError{Rule: xsderrors.ErrNSSubset, Position: pos, Detail: fmt.Sprintf("%s is not a subset of %s", dw, bw)}
	}
	if !wildcardpolicy.ProcessAtLeast(dw.Def.Process, bw.Def.Process) {
		return &RestrictionError{Rule: xsderrors.ErrNSSubset, Position: pos, Detail: "processContents weaker than the base wildcard"}
	}
	return nil
}

func (c *Checker) nsRecurseCheckCardinality(d *Particle, dg *Group, b *Particle, bw *Wildcard, pos string) *RestrictionError {
	open := &Particle{Term: bw, Min: 0, Max: Unbounded}
	for i, cp := range dg.Particles {
		if err := c.check(cp, open, child(pos, i)); err != nil {
			return err
		}
	}
	lo, hi := effectiveRange(d)
	if !rangeOK(lo, hi, b.Min, b.Max) {
		return &RestrictionError{
			Rule:     xsderrors.ErrNSRecurseCheckCardinality,
			Position: pos,
			Detail:   fmt.Sprintf("effective range %s not within %s", occurs(lo, hi), occurs(b.Min, b.Max)),
		}
	}
	return nil
}

// recurse maps derived particles onto base particles in order. Unless lax,
// skipped base particles must be emptiable.
func (c *Checker) recurse(d *Particle, dg *Group, b *Particle, bg *Group, pos string, rule xsderrors.ErrorCode, lax bool) *RestrictionError {
	if !rangeOK(d.Min, d.Max, b.Min, b.Max) {
		return rangeErr(xsderrors.ErrRangeOK, d, b, pos)
	}
	j := 0
	for i, dc := range dg.Particles {
		cpos := child(pos, i)
		matched := false
		for j < len(bg.Particles) {
			bc := bg.Particles[j]
			j++
			if c.check(dc, bc, cpos) == nil {
				matched = true
				break
			}
			if !lax && !emptiable(bc) {
				return &RestrictionError{Rule: rule, Position: cpos, Detail: fmt.Sprintf("%s does not restrict required %s", dc.Term, bc.Term)}
			}
		}
		if !matched {
			return &RestrictionError{Rule: rule, Position: cpos, Detail: fmt.Sprintf("%s matches no remaining base particle", dc.Term)}
		}
	}
	if lax {
		return nil
	}
	for ; j < len(bg.Particles); j++ {
		if !emptiable(bg.Particles[j]) {
			return &RestrictionError{Rule: rule, Position: pos, Detail: fmt.Sprintf("required base %s has no counterpart", bg.Particles[j].Term)}
		}
	}
	return nil
}

func (c *Checker) recurseUnordered(d *Particle, dg *Group, b *Particle, bg *Group, pos string) *RestrictionError {
	if !rangeOK(d.Min, d.Max, b.Min, b.Max) {
		return rangeErr(xsderrors.ErrRangeOK, d, b, pos)
	}
	used := make([]bool, len(bg.Particles))
	for i, dc := range dg.Particles {
		cpos := child(pos, i)
		found := false
		for j, bc := range bg.Particles {
			if used[j] || c.check(dc, bc, cpos) != nil {
				continue
			}
			used[j] = true
			found = true
			break
		}
		if !found {
			return &RestrictionError{Rule: xsderrors.ErrRecurseUnordered, Position: cpos, Detail: fmt.Sprintf("%s matches no base particle of the all group", dc.Term)}
		}
	}
	for j, bc := range bg.Particles {
		if !used[j] && !emptiable(bc) {
			return &RestrictionError{Rule: xsderrors.ErrRecurseUnordered, Position: pos, Detail: fmt.Sprintf("required base %s has no counterpart", bc.Term)}
		}
	}
	return nil
}

func (c *Checker) mapAndSum(d *Particle, dg *Group, b *Particle, bg *Group, pos string) *RestrictionError {
	for i, dc := range dg.Particles {
		cpos := child(pos, i)
		found := false
		for _, bc := range bg.Particles {
			if c.check(dc, bc, cpos) == nil {
				found = true
				break
			}
		}
		if !found {
			return &RestrictionError{Rule: xsderrors.ErrMapAndSum, Position: cpos, Detail: fmt.Sprintf("%s matches no alternative of the base choice", dc.Term)}
		}
	}
	n := len(dg.Particles)
	lo, hi := d.Min*n, mulBound(d.Max, n)
	if !rangeOK(lo, hi, b.Min, b.Max) {
		return &RestrictionError{Rule: xsderrors.ErrRangeOK, Position: pos, Detail: fmt.Sprintf("summed range %s not within %s", occurs(lo, hi), occurs(b.Min, b.Max))}
	}
	return nil
}
