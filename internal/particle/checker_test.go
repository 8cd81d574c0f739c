package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

const ns = "urn:particle"

func el(id corpus.ElemID, local string) *Element {
	return &Element{ID: id, Name: corpus.QName{URI: ns, Local: local}}
}

func one(t Term) *Particle { return &Particle{Term: t, Min: 1, Max: 1} }

func opt(t Term) *Particle { return &Particle{Term: t, Min: 0, Max: 1} }

func many(t Term) *Particle { return &Particle{Term: t, Min: 0, Max: Unbounded} }

func choice(ps ...*Particle) *Group { return &Group{Compositor: corpus.Choice, Particles: ps} }

func seq(ps ...*Particle) *Group { return &Group{Compositor: corpus.Sequence, Particles: ps} }

func all(ps ...*Particle) *Group { return &Group{Compositor: corpus.All, Particles: ps} }

func requireRule(t *testing.T, err error, rule xsderrors.ErrorCode) *RestrictionError {
	t.Helper()
	require.Error(t, err)
	var re *RestrictionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, rule, re.Rule, re.Error())
	return re
}

func TestSubstitutionGroupExpansion(t *testing.T) {
	t.Parallel()

	b, c, d, e := el(2, "B"), el(3, "C"), el(4, "D"), el(5, "E")
	derived := many(choice(one(b), one(choice(one(d), one(e)))))
	base := many(choice(one(b), one(c)))

	full := &Checker{Substitutions: func(head corpus.ElemID) []*Element {
		if head == c.ID {
			return []*Element{d, e}
		}
		return nil
	}}
	require.NoError(t, full.CheckRestriction(derived, base))

	partial := &Checker{Substitutions: func(head corpus.ElemID) []*Element {
		if head == c.ID {
			return []*Element{d}
		}
		return nil
	}}
	re := requireRule(t, partial.CheckRestriction(derived, base), xsderrors.ErrRecurseLax)
	assert.Equal(t, "/2", re.Position)

	var none Checker
	requireRule(t, none.CheckRestriction(derived, base), xsderrors.ErrRecurseLax)
}

func TestSequenceRecurse(t *testing.T) {
	t.Parallel()

	a, b, c := el(1, "A"), el(2, "B"), el(3, "C")
	base := one(seq(one(a), opt(b), one(c)))
	var ch Checker

	require.NoError(t, ch.CheckRestriction(one(seq(one(a), one(c))), base))
	require.NoError(t, ch.CheckRestriction(one(seq(one(a), one(b), one(c))), base))
	requireRule(t, ch.CheckRestriction(one(seq(one(a), one(b))), base), xsderrors.ErrRecurse)
	requireRule(t, ch.CheckRestriction(one(seq(one(c), one(a))), base), xsderrors.ErrRecurse)
}

func TestOccurrenceRange(t *testing.T) {
	t.Parallel()

	a := el(1, "A")
	var ch Checker
	requireRule(t, ch.CheckRestriction(opt(a), one(a)), xsderrors.ErrRangeOK)
	require.NoError(t, ch.CheckRestriction(one(a), opt(a)))
	require.NoError(t, ch.CheckRestriction(&Particle{Term: a, Min: 2, Max: 5}, many(a)))
	requireRule(t, ch.CheckRestriction(many(a), &Particle{Term: a, Min: 0, Max: 5}), xsderrors.ErrRangeOK)
}

func TestNameAndTypeOK(t *testing.T) {
	t.Parallel()

	base := el(1, "A")
	base.Type = 10
	derived := el(1, "A")
	derived.Type = 11

	var strict Checker
	requireRule(t, strict.CheckRestriction(one(derived), one(base)), xsderrors.ErrNameAndTypeOK)

	derivedFrom := &Checker{TypeDerivedFrom: func(d, b corpus.TypeID) bool { return d == 11 && b == 10 }}
	require.NoError(t, derivedFrom.CheckRestriction(one(derived), one(base)))

	nillable := el(1, "A")
	nillable.Type = 10
	nillable.Nillable = true
	requireRule(t, derivedFrom.CheckRestriction(one(nillable), one(base)), xsderrors.ErrNameAndTypeOK)

	requireRule(t, strict.CheckRestriction(one(el(2, "Other")), one(el(1, "A"))), xsderrors.ErrNameAndTypeOK)
}

func TestWildcardRules(t *testing.T) {
	t.Parallel()

	anyNS := &Wildcard{Def: corpus.WildcardDef{Kind: corpus.NamespaceAny, Process: corpus.ProcessLax}}
	other := &Wildcard{Def: corpus.WildcardDef{Kind: corpus.NamespaceNot, URIs: []string{ns}, Process: corpus.ProcessStrict}}
	set := &Wildcard{Def: corpus.WildcardDef{Kind: corpus.NamespaceSet, URIs: []string{"urn:x"}, Process: corpus.ProcessStrict}}
	skip := &Wildcard{Def: corpus.WildcardDef{Kind: corpus.NamespaceSet, URIs: []string{"urn:x"}, Process: corpus.ProcessSkip}}
	var ch Checker

	require.NoError(t, ch.CheckRestriction(one(el(1, "A")), many(anyNS)))
	requireRule(t, ch.CheckRestriction(one(el(1, "A")), many(other)), xsderrors.ErrNSCompat)

	require.NoError(t, ch.CheckRestriction(one(set), many(other)))
	require.NoError(t, ch.CheckRestriction(one(other), one(anyNS)))
	requireRule(t, ch.CheckRestriction(one(anyNS), one(other)), xsderrors.ErrNSSubset)
	requireRule(t, ch.CheckRestriction(one(skip), one(other)), xsderrors.ErrNSSubset)

	pair := one(seq(one(el(1, "A")), one(el(2, "B"))))
	require.NoError(t, ch.CheckRestriction(pair, many(anyNS)))
	requireRule(t, ch.CheckRestriction(pair, opt(anyNS)), xsderrors.ErrNSRecurseCheckCardinality)

	requireRule(t, ch.CheckRestriction(one(anyNS), one(el(1, "A"))), xsderrors.ErrParticleRestrict)
}

func TestGroupKindChanges(t *testing.T) {
	t.Parallel()

	a, b := el(1, "A"), el(2, "B")
	var ch Checker

	require.NoError(t, ch.CheckRestriction(one(seq(one(b), one(a))), one(all(one(a), one(b)))))
	requireRule(t, ch.CheckRestriction(one(seq(one(a), one(a))), one(all(one(a), one(b)))), xsderrors.ErrRecurseUnordered)
	re := requireRule(t, ch.CheckRestriction(one(a), one(all(one(a), one(b)))), xsderrors.ErrRecurseAsIfGroup)
	assert.Contains(t, re.Detail, "implicit all")
	require.NoError(t, ch.CheckRestriction(one(a), one(seq(one(a), opt(b)))))

	require.NoError(t, ch.CheckRestriction(one(seq(one(a), one(b))), &Particle{Term: choice(one(a), one(b)), Min: 0, Max: 2}))
	requireRule(t, ch.CheckRestriction(one(seq(one(a), one(b))), one(choice(one(a), one(b)))), xsderrors.ErrRangeOK)
	requireRule(t, ch.CheckRestriction(one(seq(one(a), one(el(3, "C")))), many(choice(one(a), one(b)))), xsderrors.ErrMapAndSum)

	requireRule(t, ch.CheckRestriction(one(choice(one(a), one(b))), one(seq(one(a), one(b)))), xsderrors.ErrParticleRestrict)
	require.NoError(t, ch.CheckRestriction(one(a), one(seq(one(a), opt(b)))), "element against a group recurses as if grouped")
}

func TestEmptyContent(t *testing.T) {
	t.Parallel()

	a := el(1, "A")
	var ch Checker
	require.NoError(t, ch.CheckRestriction(nil, nil))
	require.NoError(t, ch.CheckRestriction(nil, opt(a)))
	require.NoError(t, ch.CheckRestriction(&Particle{Term: a, Min: 0, Max: 0}, one(seq(opt(a)))))
	requireRule(t, ch.CheckRestriction(nil, one(a)), xsderrors.ErrRangeOK)
	requireRule(t, ch.CheckRestriction(one(a), nil), xsderrors.ErrParticleRestrict)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	b := corpus.NewBuilder()
	elem, err := b.NewElement(corpus.ElementDef{Name: corpus.QName{URI: ns, Local: "A"}, Global: true})
	require.NoError(t, err)
	ep, err := b.NewParticle(corpus.ParticleDef{Term: corpus.TermElement, Element: elem, Min: 1, Max: Unbounded})
	require.NoError(t, err)
	wc, err := b.NewWildcard(corpus.WildcardDef{Kind: corpus.NamespaceAny, Process: corpus.ProcessLax})
	require.NoError(t, err)
	wp, err := b.NewParticle(corpus.ParticleDef{Term: corpus.TermWildcard, Wildcard: wc, Min: 0, Max: 1})
	require.NoError(t, err)
	g, err := b.NewGroup(corpus.GroupDef{Compositor: corpus.Sequence, Particles: []corpus.ParticleID{ep, wp}})
	require.NoError(t, err)
	gp, err := b.NewParticle(corpus.ParticleDef{Term: corpus.TermGroup, Group: g, Min: 1, Max: 1})
	require.NoError(t, err)

	p := Load(b, gp)
	require.NotNil(t, p)
	grp, ok := p.Term.(*Group)
	require.True(t, ok)
	require.Len(t, grp.Particles, 2)
	assert.Equal(t, "A", grp.Particles[0].Term.(*Element).Name.Local)
	assert.Equal(t, Unbounded, grp.Particles[0].Max)
	assert.IsType(t, &Wildcard{}, grp.Particles[1].Term)
	assert.Nil(t, Load(b, corpus.NilParticle))

	var ch Checker
	require.NoError(t, ch.CheckRestriction(p, p))
}
