package num

import "math/big"

var zeroDigits = []byte{'0'}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == '0' {
		i++
	}
	return b[i:]
}

func trimTrailingZeros(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == '0' {
		end--
	}
	return b[:end]
}

func allZeros(b []byte) bool {
	for _, c := range b {
		if c != '0' {
			return false
		}
	}
	return true
}

func compareDigits(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := 0; i < len(a); i++ {
		if a[i] == b[i] {
			continue
		}
		if a[i] < b[i] {
			return -1
		}
		return 1
	}
	return 0
}

func digitsToBig(sign int8, digits []byte) *big.Int {
	v := new(big.Int)
	if sign == 0 || len(digits) == 0 {
		return v
	}
	v.SetString(string(digits), 10)
	if sign < 0 {
		v.Neg(v)
	}
	return v
}

func bigToDigits(v *big.Int) (int8, []byte) {
	switch v.Sign() {
	case 0:
		return 0, zeroDigits
	case -1:
		return -1, []byte(new(big.Int).Neg(v).String())
	default:
		return 1, []byte(v.String())
	}
}
