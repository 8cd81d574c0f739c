package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEncode(t *testing.T, kind Kind, lexical string) Variant {
	t.Helper()
	v, err := Encode(kind, lexical)
	require.NoError(t, err, "%s %q", kind, lexical)
	return v
}

func TestBinaryOriginsDecodeToSameOctets(t *testing.T) {
	b64 := mustEncode(t, Base64Binary, "YWFhYWE=")
	hexv := mustEncode(t, HexBinary, "6161616161")

	assert.Equal(t, []byte("aaaaa"), b64.Octets())
	assert.Equal(t, []byte("aaaaa"), hexv.Octets())
	assert.Equal(t, Equal, Compare(b64, hexv))
	assert.Equal(t, OriginBase64, b64.Origin())
	assert.Equal(t, OriginHex, hexv.Origin())
	assert.Equal(t, "6161616161", hexv.Canonical())

	n, ok := b64.Length()
	assert.True(t, ok)
	assert.Equal(t, 5, n)
}

func TestEncodeRejects(t *testing.T) {
	tests := []struct {
		kind Kind
		in   string
	}{
		{Duration, "P1Q"},
		{Boolean, "yes"},
		{Decimal, "1e3"},
		{Integer, "1.5"},
		{Float, "+INF"},
		{HexBinary, "abc"},
		{Base64Binary, "YWFh*"},
		{DateTime, "2001-13-01T00:00:00"},
		{QName, "p:local"},
		{QName, "1bad"},
	}
	for _, tc := range tests {
		t.Run(tc.kind.String()+"/"+tc.in, func(t *testing.T) {
			_, err := Encode(tc.kind, tc.in)
			var lexErr *LexicalError
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, tc.kind, lexErr.Kind)
			assert.Equal(t, tc.in, lexErr.Lexical)
		})
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		kind Kind
		in   string
		want string
	}{
		{String, "  a  b ", "  a  b "},
		{AnyURI, " http://example.com/ ", "http://example.com/"},
		{Boolean, "1", "true"},
		{Decimal, "+010.50", "10.5"},
		{Integer, "-007", "-7"},
		{Double, "100", "1.0E2"},
		{Float, "-0.5e1", "-5.0E0"},
		{Duration, "PT36H", "P1DT12H"},
		{DateTime, "2002-10-10T12:00:00-05:00", "2002-10-10T17:00:00Z"},
		{HexBinary, "0fb7", "0FB7"},
		{Base64Binary, "YWFh YWE=", "YWFhYWE="},
	}
	for _, tc := range tests {
		t.Run(tc.kind.String()+"/"+tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, mustEncode(t, tc.kind, tc.in).Canonical())
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Variant
		want Ordering
	}{
		{"decimal integer share space", mustEncode(t, Decimal, "2.0"), mustEncode(t, Integer, "2"), Equal},
		{"decimal less", mustEncode(t, Decimal, "1.5"), mustEncode(t, Integer, "2"), Less},
		{"nan equals nan", mustEncode(t, Double, "NaN"), mustEncode(t, Double, "NaN"), Equal},
		{"nan vs number", mustEncode(t, Double, "NaN"), mustEncode(t, Double, "1"), Incomparable},
		{"float vs double", mustEncode(t, Float, "1"), mustEncode(t, Double, "1"), Incomparable},
		{"inf greater", mustEncode(t, Float, "INF"), mustEncode(t, Float, "3.4E38"), Greater},
		{"string code points", mustEncode(t, String, "B"), mustEncode(t, String, "a"), Less},
		{"string vs decimal", mustEncode(t, String, "1"), mustEncode(t, Decimal, "1"), Incomparable},
		{"duration partial order", mustEncode(t, Duration, "P1M"), mustEncode(t, Duration, "P30D"), Incomparable},
		{"duration ordered", mustEncode(t, Duration, "P1Y"), mustEncode(t, Duration, "P366DT1S"), Less},
		{"dateTime zones", mustEncode(t, DateTime, "2000-01-01T12:00:00Z"), mustEncode(t, DateTime, "2000-01-01T11:00:00-01:00"), Equal},
		{"dateTime indeterminate", mustEncode(t, DateTime, "2000-01-01T12:00:00Z"), mustEncode(t, DateTime, "2000-01-01T12:00:00"), Incomparable},
		{"time across midnight", mustEncode(t, Time, "23:00:00-02:00"), mustEncode(t, Time, "01:00:00Z"), Equal},
		{"boolean", mustEncode(t, Boolean, "true"), mustEncode(t, Boolean, "1"), Equal},
		{"invalid", Variant{}, Variant{}, Incomparable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compare(tc.a, tc.b))
		})
	}
}

func TestEncoderResolvesPrefixes(t *testing.T) {
	enc := Encoder{Namespaces: map[string]string{"p": "urn:p", "": "urn:default"}}
	v, err := enc.Encode(QName, " p:item ")
	require.NoError(t, err)
	uri, local := v.QName()
	assert.Equal(t, "urn:p", uri)
	assert.Equal(t, "item", local)

	v, err = enc.Encode(QName, "item")
	require.NoError(t, err)
	uri, _ = v.QName()
	assert.Equal(t, "urn:default", uri)

	assert.Equal(t, Equal, Compare(FromQName("urn:p", "item"), mustEncodeWith(t, enc, "p:item")))

	v, err = Encoder{}.Encode(Notation, "xml:lang")
	require.NoError(t, err)
	assert.Equal(t, "{http://www.w3.org/XML/1998/namespace}lang", v.Canonical())
}

func mustEncodeWith(t *testing.T, enc Encoder, lexical string) Variant {
	t.Helper()
	v, err := enc.Encode(QName, lexical)
	require.NoError(t, err)
	return v
}

func TestLength(t *testing.T) {
	n, ok := FromString("héllo").Length()
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = mustEncode(t, Decimal, "1").Length()
	assert.False(t, ok)
}
