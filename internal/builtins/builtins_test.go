package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

func buildCorpus(t *testing.T) (*Handles, *corpus.Corpus) {
	t.Helper()
	b := corpus.NewBuilder()
	h, err := New().Seed(b)
	require.NoError(t, err)
	c, err := b.Build()
	require.NoError(t, err)
	return h, c
}

var integralNames = map[string]bool{
	TypeNameInteger: true, TypeNameNonPositiveInteger: true, TypeNameNegativeInteger: true,
	TypeNameLong: true, TypeNameInt: true, TypeNameShort: true, TypeNameByte: true,
	TypeNameNonNegativeInteger: true, TypeNameUnsignedLong: true, TypeNameUnsignedInt: true,
	TypeNameUnsignedShort: true, TypeNameUnsignedByte: true, TypeNamePositiveInteger: true,
}

func TestEntriesAreInSerialOrder(t *testing.T) {
	t.Parallel()

	entries := New().Entries()
	require.Len(t, entries, int(corpus.NumBuiltinSerials))
	for i, e := range entries {
		assert.Equal(t, corpus.Serial(i), e.Serial, e.Name)
	}
}

func TestPrimitiveProperties(t *testing.T) {
	t.Parallel()

	h, c := buildCorpus(t)
	primitives := 0
	for _, e := range h.Table().Entries() {
		id := h.LookupBySerial(e.Serial)
		require.NotEqual(t, corpus.NilType, id)
		assert.Equal(t, e.Serial, c.SerialOf(id))
		if !e.Primitive {
			continue
		}
		primitives++
		assert.True(t, c.IsPrimitive(id), e.Name)
		assert.Equal(t, h.LookupBySerial(corpus.SerialAnySimpleType), c.BaseTypeOfSimpleType(id), e.Name)
		switch e.Name {
		case TypeNameQName, TypeNameNOTATION:
			assert.Equal(t, corpus.Untyped, c.AncestryIDOf(id), e.Name)
		default:
			assert.Equal(t, c.SerialOf(id), c.AncestryIDOf(id), e.Name)
		}
	}
	assert.Equal(t, 19, primitives)

	anySimple := h.LookupBySerial(corpus.SerialAnySimpleType)
	assert.Equal(t, h.LookupBySerial(corpus.SerialAnyType), c.BaseTypeOfSimpleType(anySimple))
	assert.Equal(t, corpus.Untyped, c.AncestryIDOf(anySimple))
	assert.Equal(t, corpus.VarietyUr, c.VarietyOfSimpleType(anySimple))
	assert.False(t, c.IsSimpleType(h.LookupBySerial(corpus.SerialAnyType)))
}

func nearestPrimitive(c *corpus.Corpus, id corpus.TypeID) corpus.TypeID {
	for cur := id; cur != corpus.NilType; cur = c.BaseTypeOf(cur) {
		if c.IsPrimitive(cur) {
			return cur
		}
	}
	return corpus.NilType
}

func TestDerivedProperties(t *testing.T) {
	t.Parallel()

	h, c := buildCorpus(t)
	for _, e := range h.Table().Entries() {
		if e.Primitive || e.Variety != corpus.VarietyAtomic {
			continue
		}
		id := h.LookupBySerial(e.Serial)
		assert.False(t, c.IsPrimitive(id), e.Name)
		prim := nearestPrimitive(c, id)
		require.NotEqual(t, corpus.NilType, prim, e.Name)
		assert.Equal(t, c.AncestryIDOf(prim), c.AncestryIDOf(id), e.Name)
	}
	assert.Equal(t, corpus.SerialDecimal, c.AncestryIDOf(h.Lookup(XSDNamespace, TypeNameByte)))
	assert.Equal(t, corpus.SerialString, c.AncestryIDOf(h.Lookup(XSDNamespace, TypeNameID)))
}

func TestIntegralProperties(t *testing.T) {
	t.Parallel()

	h, c := buildCorpus(t)
	for _, e := range h.Table().Entries() {
		id := h.LookupBySerial(e.Serial)
		assert.Equal(t, integralNames[e.Name], c.IsIntegral(id), e.Name)
	}
}

func TestListBuiltins(t *testing.T) {
	t.Parallel()

	h, c := buildCorpus(t)
	tests := map[string]string{
		TypeNameENTITIES: TypeNameENTITY,
		TypeNameIDREFS:   TypeNameIDREF,
		TypeNameNMTOKENS: TypeNameNMTOKEN,
	}
	for list, item := range tests {
		id := h.Lookup(XSDNamespace, list)
		assert.Equal(t, corpus.VarietyList, c.VarietyOfSimpleType(id), list)
		assert.Equal(t, h.Lookup(XSDNamespace, item), c.ItemTypeOfList(id), list)
		assert.Equal(t, corpus.Untyped, c.AncestryIDOf(id), list)
		assert.Equal(t, 1, c.FacetsOf(id).MinLength, list)
		got, ok := h.Table().ListItem(list)
		assert.True(t, ok)
		assert.Equal(t, item, got)
	}
}

func TestIntrinsicBounds(t *testing.T) {
	t.Parallel()

	h, c := buildCorpus(t)
	lo, ok := c.MinInclusiveOf(h.Lookup(XSDNamespace, TypeNameByte))
	require.True(t, ok)
	assert.Equal(t, "-128", lo.Canonical())
	hi, ok := c.MaxInclusiveOf(h.Lookup(XSDNamespace, TypeNameUnsignedShort))
	require.True(t, ok)
	assert.Equal(t, "65535", hi.Canonical())
	_, ok = c.MaxInclusiveOf(h.Lookup(XSDNamespace, TypeNameInteger))
	assert.False(t, ok)
}

func TestWhitespaceFacets(t *testing.T) {
	t.Parallel()

	h, c := buildCorpus(t)
	assert.Equal(t, corpus.WhitespacePreserve, c.WhitespaceFacetOf(h.Lookup(XSDNamespace, TypeNameString)))
	assert.Equal(t, corpus.WhitespaceReplace, c.WhitespaceFacetOf(h.Lookup(XSDNamespace, TypeNameNormalizedString)))
	assert.Equal(t, corpus.WhitespaceCollapse, c.WhitespaceFacetOf(h.Lookup(XSDNamespace, TypeNameToken)))
	assert.Equal(t, corpus.WhitespaceCollapse, c.WhitespaceFacetOf(h.Lookup(XSDNamespace, TypeNameDate)))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	h, _ := buildCorpus(t)
	assert.Equal(t, corpus.NilType, h.Lookup("urn:other", TypeNameString))
	assert.Equal(t, corpus.NilType, h.Lookup(XSDNamespace, "nope"))
	assert.Equal(t, corpus.NilType, h.LookupBySerial(corpus.NumBuiltinSerials))
	s, ok := h.SerialOf(h.Lookup(XSDNamespace, TypeNameGDay))
	assert.True(t, ok)
	assert.Equal(t, corpus.SerialGDay, s)
}

func TestLexicalRules(t *testing.T) {
	t.Parallel()

	assert.True(t, LexicalNCName.Check("a1"))
	assert.False(t, LexicalNCName.Check("a:b"))
	assert.True(t, LexicalLanguage.Check("en-GB"))
	assert.True(t, LexicalAny.Check(""))
}

func TestTablesAreIndependent(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	ea := a.Entries()
	ea[0].Name = "mutated"
	assert.Equal(t, TypeNameAnyType, b.Entries()[0].Name)
	assert.Equal(t, TypeNameAnyType, a.Entries()[0].Name)
}
