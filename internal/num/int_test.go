package num

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	got, err := ParseInt([]byte("-000123"))
	require.Nil(t, err)
	assert.Equal(t, "-123", got.String())

	zero, err := ParseInt([]byte("+000"))
	require.Nil(t, err)
	assert.Equal(t, IntZero.Sign, zero.Sign)

	_, err = ParseInt([]byte("1.0"))
	require.NotNil(t, err)
	assert.Equal(t, ParseFraction, err.Kind)

	_, err = ParseInt([]byte("-"))
	require.NotNil(t, err)
	assert.Equal(t, ParseNoDigits, err.Kind)
}

func TestIntBoundsOrdering(t *testing.T) {
	assert.Equal(t, -1, MinInt64.Compare(MinInt32))
	assert.Equal(t, 1, MaxUint64.Compare(MaxInt64))
	assert.Equal(t, -1, MaxInt8.Compare(MaxUint8))
	assert.Equal(t, 0, MaxInt8.CompareDec(DecFromInt64(127)))
}

func TestQuickIntRoundTrip(t *testing.T) {
	cfg := &quick.Config{MaxCount: 1000}
	err := quick.Check(func(v int64) bool {
		if v == math.MinInt64 {
			return true
		}
		got, err := ParseInt(FromInt64(v).RenderCanonical(nil))
		if err != nil {
			return false
		}
		back, ok := got.Int64()
		return ok && back == v
	}, cfg)
	require.NoError(t, err)
}

func TestQuickIntCompare(t *testing.T) {
	cfg := &quick.Config{MaxCount: 1000}
	err := quick.Check(func(a, b int64) bool {
		got := FromInt64(a).Compare(FromInt64(b))
		switch {
		case a < b:
			return got == -1
		case a > b:
			return got == 1
		default:
			return got == 0
		}
	}, cfg)
	require.NoError(t, err)
}
