package num

import "math/big"

// Dec is an arbitrary-precision decimal: Sign * Coef * 10^-Scale.
// Coef carries no leading zeros and, when Scale > 0, no trailing zeros.
type Dec struct {
	Sign  int8
	Coef  []byte
	Scale uint32
}

// DecZero is the canonical zero decimal.
var DecZero = Dec{Sign: 0, Coef: zeroDigits, Scale: 0}

// ParseDec parses an xs:decimal lexical value.
func ParseDec(b []byte) (Dec, *ParseError) {
	if len(b) == 0 {
		return Dec{}, &ParseError{Kind: ParseEmpty}
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
	intStart := i
	dot := -1
	for j := i; j < len(b); j++ {
		c := b[j]
		switch {
		case isDigit(c):
		case c == '.':
			if dot >= 0 {
				return Dec{}, &ParseError{Kind: ParseMultipleDots}
			}
			dot = j
		case c == '+' || c == '-':
			return Dec{}, &ParseError{Kind: ParseMultipleSigns}
		default:
			return Dec{}, &ParseError{Kind: ParseBadChar}
		}
	}
	var intPart, fracPart []byte
	if dot >= 0 {
		intPart = b[intStart:dot]
		fracPart = b[dot+1:]
	} else {
		intPart = b[intStart:]
	}
	if len(intPart) == 0 && len(fracPart) == 0 {
		return Dec{}, &ParseError{Kind: ParseNoDigits}
	}
	fracPart = trimTrailingZeros(fracPart)
	coef := make([]byte, 0, len(intPart)+len(fracPart))
	coef = append(coef, intPart...)
	coef = append(coef, fracPart...)
	coef = trimLeadingZeros(coef)
	if len(coef) == 0 {
		return DecZero, nil
	}
	return Dec{Sign: sign, Coef: coef, Scale: uint32(len(fracPart))}, nil
}

// DecFromInt64 converts a machine integer.
func DecFromInt64(v int64) Dec {
	return FromInt64(v).AsDec()
}

// IsInteger reports whether the value has no fractional part.
func (d Dec) IsInteger() bool {
	return d.Sign == 0 || d.Scale == 0
}

// Int returns the integral value; ok is false when a fraction is present.
func (d Dec) Int() (Int, bool) {
	if d.Sign == 0 {
		return IntZero, true
	}
	if d.Scale != 0 {
		return Int{}, false
	}
	return Int{Sign: d.Sign, Digits: d.Coef}, true
}

// Compare compares two decimals by value.
func (d Dec) Compare(o Dec) int {
	if d.Sign != o.Sign {
		if d.Sign < o.Sign {
			return -1
		}
		return 1
	}
	if d.Sign == 0 {
		return 0
	}
	cmp := compareMagnitude(d, o)
	if d.Sign < 0 {
		return -cmp
	}
	return cmp
}

func compareMagnitude(a, b Dec) int {
	aInt := len(a.Coef) - int(a.Scale)
	bInt := len(b.Coef) - int(b.Scale)
	if aInt != bInt {
		if aInt < bInt {
			return -1
		}
		return 1
	}
	n := max(len(a.Coef), len(b.Coef))
	for i := 0; i < n; i++ {
		var ac, bc byte = '0', '0'
		if i < len(a.Coef) {
			ac = a.Coef[i]
		}
		if i < len(b.Coef) {
			bc = b.Coef[i]
		}
		if ac != bc {
			if ac < bc {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Add returns d + o.
func (d Dec) Add(o Dec) Dec {
	if d.Sign == 0 {
		return o
	}
	if o.Sign == 0 {
		return d
	}
	scale := max(d.Scale, o.Scale)
	sum := new(big.Int).Add(d.scaled(scale), o.scaled(scale))
	return fromScaled(sum, scale)
}

// Neg returns -d.
func (d Dec) Neg() Dec {
	d.Sign = -d.Sign
	return d
}

// MulInt64 returns d * k.
func (d Dec) MulInt64(k int64) Dec {
	if d.Sign == 0 || k == 0 {
		return DecZero
	}
	prod := new(big.Int).Mul(d.scaled(d.Scale), big.NewInt(k))
	return fromScaled(prod, d.Scale)
}

// Rat returns the value as a big.Rat.
func (d Dec) Rat() *big.Rat {
	num := d.scaled(d.Scale)
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)
	return new(big.Rat).SetFrac(num, den)
}

func (d Dec) scaled(scale uint32) *big.Int {
	v := digitsToBig(d.Sign, d.Coef)
	if scale > d.Scale {
		shift := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale-d.Scale)), nil)
		v.Mul(v, shift)
	}
	return v
}

func fromScaled(v *big.Int, scale uint32) Dec {
	sign, digits := bigToDigits(v)
	if sign == 0 {
		return DecZero
	}
	for scale > 0 && len(digits) > 1 && digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
		scale--
	}
	return Dec{Sign: sign, Coef: digits, Scale: scale}
}

// TotalDigits returns the number of significant digits for totalDigits checks.
func (d Dec) TotalDigits() int {
	if d.Sign == 0 {
		return 1
	}
	if int(d.Scale) >= len(d.Coef) {
		return int(d.Scale)
	}
	return len(d.Coef)
}

// FractionDigits returns the number of fraction digits.
func (d Dec) FractionDigits() int {
	return int(d.Scale)
}

// RenderCanonical appends the canonical xs:decimal form to dst.
func (d Dec) RenderCanonical(dst []byte) []byte {
	if d.Sign == 0 {
		return append(dst, "0.0"...)
	}
	if d.Sign < 0 {
		dst = append(dst, '-')
	}
	intLen := len(d.Coef) - int(d.Scale)
	switch {
	case d.Scale == 0:
		dst = append(dst, d.Coef...)
		return append(dst, ".0"...)
	case intLen <= 0:
		dst = append(dst, "0."...)
		for range -intLen {
			dst = append(dst, '0')
		}
		return append(dst, d.Coef...)
	default:
		dst = append(dst, d.Coef[:intLen]...)
		dst = append(dst, '.')
		return append(dst, d.Coef[intLen:]...)
	}
}

// String returns the canonical lexical form.
func (d Dec) String() string {
	return string(d.RenderCanonical(nil))
}

// Trunc splits d into its integer part and the fraction left over,
// both carrying the sign of d.
func (d Dec) Trunc() (Int, Dec) {
	if d.Sign == 0 {
		return IntZero, DecZero
	}
	if d.Scale == 0 {
		return Int{Sign: d.Sign, Digits: d.Coef}, DecZero
	}
	intLen := len(d.Coef) - int(d.Scale)
	if intLen <= 0 {
		return IntZero, d
	}
	whole := Int{Sign: d.Sign, Digits: d.Coef[:intLen]}
	frac := fromScaled(digitsToBig(d.Sign, d.Coef[intLen:]), d.Scale)
	return whole, frac
}
