package facets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/builtins"
	"github.com/jacoelho/xsdcorpus/internal/whitespace"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

func builtin(t *testing.T, name string) *Validator {
	t.Helper()
	table := builtins.New()
	e, ok := table.Lookup(builtins.XSDNamespace, name)
	require.True(t, ok, name)
	var item *Validator
	if itemName, ok := table.ListItem(name); ok {
		item = builtin(t, itemName)
	}
	return ForBuiltin(e, item)
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func requireRule(t *testing.T, err error, rule xsderrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	errs := Errors(err)
	require.Len(t, errs, 1, err.Error())
	assert.Equal(t, rule, errs[0].Rule)
}

func TestEnumerationRespectsMaxLength(t *testing.T) {
	t.Parallel()

	v := builtin(t, "string").Restrict()
	require.NoError(t, v.SetLengthFacets(LengthFacets{MaxLength: intPtr(1)}))

	requireRule(t, v.AddEnumeration("ab"), xsderrors.ErrEnumerationRestriction)
	assert.Empty(t, v.Set.Enumerations)

	require.NoError(t, v.AddEnumeration("a"))
	require.Len(t, v.Set.Enumerations, 1)
	assert.Equal(t, "a", v.Set.Enumerations[0].Text())
}

func TestEnumerationChecksInheritedFacets(t *testing.T) {
	t.Parallel()

	base := builtin(t, "int").Restrict()
	require.NoError(t, base.SetBoundsFacets(BoundsFacets{MaxExclusive: strPtr("10")}))
	require.NoError(t, base.AddEnumeration("1"))
	require.NoError(t, base.AddEnumeration("5"))

	derived := base.Restrict()
	require.Len(t, derived.Set.Enumerations, 2, "enumerations are inherited")
	requireRule(t, derived.AddEnumeration("7"), xsderrors.ErrEnumerationRestriction)
	require.NoError(t, derived.AddEnumeration("05"))
	require.Len(t, derived.Set.Enumerations, 1)
	assert.Equal(t, "5", derived.Set.Enumerations[0].Canonical())

	requireRule(t, base.Restrict().AddEnumeration("10"), xsderrors.ErrEnumerationRestriction)
}

func TestEnumerationLexicalChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		typ   string
		value string
		ok    bool
	}{
		{name: "byte in range", typ: "byte", value: " 127 ", ok: true},
		{name: "byte overflow", typ: "byte", value: "128"},
		{name: "NCName colon", typ: "NCName", value: "a:b"},
		{name: "NCName", typ: "NCName", value: "ab", ok: true},
		{name: "language", typ: "language", value: "en-GB", ok: true},
		{name: "date", typ: "date", value: "2001-02-30"},
		{name: "duration", typ: "duration", value: "P1Y2MT3H", ok: true},
		{name: "boolean", typ: "boolean", value: "yes"},
		{name: "NMTOKENS empty", typ: "NMTOKENS", value: "  "},
		{name: "NMTOKENS", typ: "NMTOKENS", value: "a b", ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := builtin(t, tt.typ).Restrict().AddEnumeration(tt.value)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			requireRule(t, err, xsderrors.ErrEnumerationRestriction)
		})
	}
}

func TestEnumerationOnUnion(t *testing.T) {
	t.Parallel()

	small := builtin(t, "int").Restrict()
	require.NoError(t, small.SetBoundsFacets(BoundsFacets{MaxInclusive: strPtr("3")}))
	u := NewUnion([]*Validator{small, builtin(t, "boolean")}).Restrict()

	require.NoError(t, u.AddEnumeration("2"))
	require.NoError(t, u.AddEnumeration("true"))
	requireRule(t, u.AddEnumeration("4"), xsderrors.ErrEnumerationRestriction)
	require.Len(t, u.Set.Enumerations, 2)
	assert.Equal(t, variant.Integer, u.Set.Enumerations[0].Kind())
	assert.Equal(t, variant.Boolean, u.Set.Enumerations[1].Kind())
}

func TestListEnumerationAndLength(t *testing.T) {
	t.Parallel()

	l := NewList(builtin(t, "int")).Restrict()
	require.NoError(t, l.SetLengthFacets(LengthFacets{MaxLength: intPtr(2)}))
	require.NoError(t, l.AddEnumeration(" 1   02 "))
	assert.Equal(t, "1 2", l.Set.Enumerations[0].Text())
	requireRule(t, l.AddEnumeration("1 2 3"), xsderrors.ErrEnumerationRestriction)
	requireRule(t, l.AddEnumeration("x"), xsderrors.ErrEnumerationRestriction)
}

func TestClearEnumerations(t *testing.T) {
	t.Parallel()

	v := builtin(t, "token").Restrict()
	require.NoError(t, v.AddEnumeration("a"))
	v.Set.ClearEnumerations()
	assert.True(t, v.Set.EnumerationsCleared())
	assert.Empty(t, v.Set.Enumerations)
	_, err := v.Validate("b")
	require.NoError(t, err, "a cleared list does not constrain values")
}

func TestLengthRestriction(t *testing.T) {
	t.Parallel()

	base := builtin(t, "string").Restrict()
	require.NoError(t, base.SetLengthFacets(LengthFacets{MinLength: intPtr(2), MaxLength: intPtr(5)}))

	d := base.Restrict()
	err := d.SetLengthFacets(LengthFacets{MinLength: intPtr(1), MaxLength: intPtr(6)})
	errs := Errors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, xsderrors.ErrorCode("minLength-valid-restriction"), errs[0].Rule)
	assert.Equal(t, xsderrors.ErrorCode("maxLength-valid-restriction"), errs[1].Rule)
	assert.Equal(t, 2, d.Set.Facets.MinLength)
	assert.Equal(t, 5, d.Set.Facets.MaxLength)

	requireRule(t, base.Restrict().SetLengthFacets(LengthFacets{Length: intPtr(9)}), xsderrors.ErrLengthRestriction)
	requireRule(t, builtin(t, "int").Restrict().SetLengthFacets(LengthFacets{Length: intPtr(1)}), xsderrors.ErrApplicableFacets)
}

func TestBoundsRestriction(t *testing.T) {
	t.Parallel()

	v := builtin(t, "int").Restrict()
	requireRule(t, v.SetBoundsFacets(BoundsFacets{MaxInclusive: strPtr("3000000000")}), "maxInclusive-valid-restriction")
	requireRule(t, v.SetBoundsFacets(BoundsFacets{MinInclusive: strPtr("abc")}), xsderrors.ErrDatatypeInvalid)
	require.NoError(t, v.SetBoundsFacets(BoundsFacets{MinExclusive: strPtr("0"), MaxInclusive: strPtr("100")}))
	assert.False(t, v.Set.Facets.MinInclusive.IsValid(), "exclusive bound replaces the base inclusive bound")
	assert.Equal(t, "0", v.Set.Facets.MinExclusive.Canonical())

	d := v.Restrict()
	require.NoError(t, d.SetBoundsFacets(BoundsFacets{MinExclusive: strPtr("0")}))
	requireRule(t, d.SetBoundsFacets(BoundsFacets{MinInclusive: strPtr("0")}), "minInclusive-valid-restriction")
	require.NoError(t, d.SetBoundsFacets(BoundsFacets{MinInclusive: strPtr("1")}))

	requireRule(t, builtin(t, "decimal").Restrict().SetBoundsFacets(BoundsFacets{
		MinInclusive: strPtr("5"), MaxInclusive: strPtr("4"),
	}), "minInclusive-less-than-equal-to-maxInclusive")

	requireRule(t, builtin(t, "string").Restrict().SetBoundsFacets(BoundsFacets{MaxInclusive: strPtr("a")}), xsderrors.ErrApplicableFacets)
}

func TestBoundsEqualAcrossSides(t *testing.T) {
	t.Parallel()

	base := builtin(t, "int").Restrict()
	require.NoError(t, base.SetBoundsFacets(BoundsFacets{MaxInclusive: strPtr("10")}))
	require.NoError(t, base.Restrict().SetBoundsFacets(BoundsFacets{MinExclusive: strPtr("10")}))
	requireRule(t, base.Restrict().SetBoundsFacets(BoundsFacets{MinExclusive: strPtr("11")}), "minExclusive-valid-restriction")

	exclusive := builtin(t, "int").Restrict()
	require.NoError(t, exclusive.SetBoundsFacets(BoundsFacets{MaxExclusive: strPtr("10")}))
	requireRule(t, exclusive.Restrict().SetBoundsFacets(BoundsFacets{MinExclusive: strPtr("10")}), "minExclusive-valid-restriction")

	require.NoError(t, builtin(t, "decimal").Restrict().SetBoundsFacets(BoundsFacets{
		MinExclusive: strPtr("5"), MaxExclusive: strPtr("5"),
	}))
	require.NoError(t, builtin(t, "decimal").Restrict().SetBoundsFacets(BoundsFacets{
		MinExclusive: strPtr("5"), MaxInclusive: strPtr("5"),
	}))
	requireRule(t, builtin(t, "decimal").Restrict().SetBoundsFacets(BoundsFacets{
		MinInclusive: strPtr("5"), MaxExclusive: strPtr("5"),
	}), "minInclusive-less-than-maxExclusive")
}

func TestDateTimeBounds(t *testing.T) {
	t.Parallel()

	v := builtin(t, "dateTime").Restrict()
	require.NoError(t, v.SetBoundsFacets(BoundsFacets{MaxInclusive: strPtr("2000-01-01T12:00:00Z")}))
	_, err := v.Validate("2000-01-01T13:00:00+02:00")
	require.NoError(t, err)
	_, err = v.Validate("2000-01-01T12:00:01Z")
	require.Error(t, err)
	_, err = v.Validate("2000-01-01T12:00:00")
	require.NoError(t, err, "indeterminate values pass the bound")
	_, err = v.Validate("2000-01-02T12:00:00")
	require.Error(t, err)
}

func TestEnumerationIndeterminateAgainstBound(t *testing.T) {
	t.Parallel()

	v := builtin(t, "dateTime").Restrict()
	require.NoError(t, v.SetBoundsFacets(BoundsFacets{MaxInclusive: strPtr("2000-01-01T00:00:00Z")}))
	require.NoError(t, v.AddEnumeration("2000-01-01T05:00:00"))
	require.Len(t, v.Set.Enumerations, 1)
	requireRule(t, v.AddEnumeration("2000-01-02T05:00:00"), xsderrors.ErrEnumerationRestriction)
}

func TestDigits(t *testing.T) {
	t.Parallel()

	v := builtin(t, "decimal").Restrict()
	require.NoError(t, v.SetDigits(intPtr(5), intPtr(2)))
	_, err := v.Validate("123.45")
	require.NoError(t, err)
	_, err = v.Validate("1.234")
	require.Error(t, err)
	_, err = v.Validate("1234.56")
	require.Error(t, err)

	requireRule(t, v.Restrict().SetDigits(intPtr(6), nil), "totalDigits-valid-restriction")
	requireRule(t, v.Restrict().SetDigits(nil, intPtr(3)), "fractionDigits-valid-restriction")
	requireRule(t, builtin(t, "decimal").Restrict().SetDigits(intPtr(2), intPtr(3)), "fractionDigits-totalDigits")
	requireRule(t, builtin(t, "string").Restrict().SetDigits(intPtr(2), nil), xsderrors.ErrApplicableFacets)
}

func TestWhitespace(t *testing.T) {
	t.Parallel()

	s := builtin(t, "string").Restrict()
	require.NoError(t, s.SetWhitespace(whitespace.Replace))
	require.NoError(t, s.SetWhitespace(whitespace.Collapse))
	requireRule(t, s.SetWhitespace(whitespace.Preserve), xsderrors.ErrWhitespaceRestriction)
	requireRule(t, builtin(t, "int").Restrict().SetWhitespace(whitespace.Replace), xsderrors.ErrWhitespaceRestriction)
	requireRule(t, NewUnion(nil).SetWhitespace(whitespace.Collapse), xsderrors.ErrApplicableFacets)
}

func TestPatternSteps(t *testing.T) {
	t.Parallel()

	v := builtin(t, "string").Restrict()
	require.NoError(t, v.SetPattern([]string{"[a-z]+", "[0-9]+"}))
	assert.Equal(t, 36, v.RestrictedChars(), "patterns of one step union their alphabets")

	_, err := v.Validate("abc")
	require.NoError(t, err)
	_, err = v.Validate("42")
	require.NoError(t, err)

	d := v.Restrict()
	require.NoError(t, d.SetPattern([]string{"[a-c]*"}))
	assert.Equal(t, 3, d.RestrictedChars())
	_, err = d.Validate("42")
	require.Error(t, err, "steps are combined with AND")
	_, err = d.Validate("cab")
	require.NoError(t, err)

	requireRule(t, d.Restrict().SetPattern([]string{"(?i)a"}), xsderrors.ErrPattern)
}

func TestRestrictedCharsOnlyForStrings(t *testing.T) {
	t.Parallel()

	v := builtin(t, "int").Restrict()
	require.NoError(t, v.SetPattern([]string{"[0-3]"}))
	assert.Equal(t, 0, v.RestrictedChars())

	s := builtin(t, "string").Restrict()
	s.Limit = 2
	require.NoError(t, s.SetPattern([]string{"[abc]"}))
	assert.Equal(t, 0, s.RestrictedChars())
}
