package num

import (
	"math/big"
	"strconv"
)

// Int represents an arbitrary-precision integer.
type Int struct {
	Sign   int8
	Digits []byte
}

// IntZero is the canonical zero integer.
var IntZero = Int{Sign: 0, Digits: zeroDigits}

// ParseInt parses an integer lexical value into an Int.
func ParseInt(b []byte) (Int, *ParseError) {
	if len(b) == 0 {
		return Int{}, &ParseError{Kind: ParseEmpty}
	}
	sign := int8(1)
	i := 0
	switch b[0] {
	case '+':
		i++
	case '-':
		sign = -1
		i++
	}
	if i >= len(b) {
		return Int{}, &ParseError{Kind: ParseNoDigits}
	}
	for _, c := range b[i:] {
		switch {
		case isDigit(c):
		case c == '+' || c == '-':
			return Int{}, &ParseError{Kind: ParseMultipleSigns}
		case c == '.':
			return Int{}, &ParseError{Kind: ParseFraction}
		default:
			return Int{}, &ParseError{Kind: ParseBadChar}
		}
	}
	digits := trimLeadingZeros(b[i:])
	if len(digits) == 0 || allZeros(digits) {
		return IntZero, nil
	}
	return Int{Sign: sign, Digits: digits}, nil
}

// FromInt64 converts a machine integer.
func FromInt64(v int64) Int {
	if v == 0 {
		return IntZero
	}
	sign := int8(1)
	u := uint64(v)
	if v < 0 {
		sign = -1
		u = uint64(-v)
	}
	return Int{Sign: sign, Digits: strconv.AppendUint(nil, u, 10)}
}

// Int64 returns the value as int64 when it fits.
func (a Int) Int64() (int64, bool) {
	if a.Sign == 0 {
		return 0, true
	}
	v := digitsToBig(a.Sign, a.Digits)
	if !v.IsInt64() {
		return 0, false
	}
	return v.Int64(), true
}

// Compare compares two Int values.
func (a Int) Compare(b Int) int {
	if a.Sign == 0 && b.Sign == 0 {
		return 0
	}
	if a.Sign != b.Sign {
		if a.Sign < b.Sign {
			return -1
		}
		return 1
	}
	cmp := compareDigits(a.Digits, b.Digits)
	if a.Sign < 0 {
		return -cmp
	}
	return cmp
}

// CompareDec compares an Int to a Dec.
func (a Int) CompareDec(b Dec) int {
	return a.AsDec().Compare(b)
}

// AsDec converts an Int to a Dec.
func (a Int) AsDec() Dec {
	if a.Sign == 0 {
		return DecZero
	}
	return Dec{Sign: a.Sign, Coef: a.Digits, Scale: 0}
}

// RenderCanonical appends the canonical lexical form to dst.
func (a Int) RenderCanonical(dst []byte) []byte {
	if a.Sign == 0 {
		return append(dst, '0')
	}
	if a.Sign < 0 {
		dst = append(dst, '-')
	}
	return append(dst, a.Digits...)
}

// String returns the canonical lexical form.
func (a Int) String() string {
	return string(a.RenderCanonical(nil))
}

// Big returns the value as a newly allocated big.Int.
func (a Int) Big() *big.Int {
	return digitsToBig(a.Sign, a.Digits)
}

// IntFromBig converts a big.Int.
func IntFromBig(v *big.Int) Int {
	sign, digits := bigToDigits(v)
	return Int{Sign: sign, Digits: digits}
}
