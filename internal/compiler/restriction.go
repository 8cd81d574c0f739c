package compiler

import (
	pkgerrors "github.com/pkg/errors"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/decl"
	"github.com/jacoelho/xsdcorpus/internal/particle"
	"github.com/jacoelho/xsdcorpus/internal/substgroup"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

// checkRestrictions verifies the content model of every complex type
// derived by restriction against its base. A failure reports the rule
// that failed and derivation-ok-restriction.5.4.2; the type is kept.
func (c *Compiler) checkRestrictions(groups *substgroup.Result) {
	checker := &particle.Checker{
		Substitutions: func(head corpus.ElemID) []*particle.Element {
			members := groups.Members(head)
			out := make([]*particle.Element, len(members))
			for i, m := range members {
				out[i] = particle.ElementTerm(c.b, m)
			}
			return out
		},
		TypeDerivedFrom: c.derivedFrom,
	}
	failed := 0
	for _, id := range c.restrictions {
		def := c.b.Type(id)
		base := c.b.Type(def.Base)
		if def.Content == corpus.ContentSimple || base.Content == corpus.ContentSimple {
			continue
		}
		err := checker.CheckRestriction(particle.Load(c.b, def.Particle), particle.Load(c.b, base.Particle))
		if err == nil {
			continue
		}
		failed++
		pos := decl.Pos{SystemID: def.SystemID, Line: def.Line}
		var re *particle.RestrictionError
		if pkgerrors.As(err, &re) {
			c.reportf(re.Rule, pos, "particle at %s: %s", re.Position, re.Detail)
		}
		c.reportf(xsderrors.ErrDerivationRestriction, pos, "content of %s is not a valid restriction of %s", c.label(id), c.label(def.Base))
	}
	c.cfg.Logger.Debug("particle restrictions checked", "types", len(c.restrictions), "failed", failed)
}
