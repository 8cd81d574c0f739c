package durationlex

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/jacoelho/xsdcorpus/internal/num"
	"github.com/jacoelho/xsdcorpus/internal/temporal"
)

// ErrIndeterminateComparison reports that two durations are incomparable in XSD value space.
var ErrIndeterminateComparison = errors.New("duration comparison indeterminate")

// referenceMonths are the XSD 1.0 reference dateTimes for duration
// ordering, each falling on the first of a month at midnight.
var referenceMonths = [4]struct {
	year  int64
	month int
}{
	{1696, 9},
	{1697, 2},
	{1903, 3},
	{1903, 7},
}

// Compare orders durations using the XSD 1.0 partial order.
func Compare(left, right Duration) (int, error) {
	lm, rm := left.SignedMonths(), right.SignedMonths()
	ls, rs := left.SignedSeconds(), right.SignedSeconds()
	switch {
	case lm == rm:
		return ls.Compare(rs), nil
	case ls.Compare(rs) == 0:
		if lm < rm {
			return -1, nil
		}
		return 1, nil
	}
	sign := 0
	for _, ref := range referenceMonths {
		cmp := endpoint(ref.year, ref.month, lm, ls).Compare(endpoint(ref.year, ref.month, rm, rs))
		if cmp == 0 || (sign != 0 && cmp != sign) {
			return 0, ErrIndeterminateComparison
		}
		sign = cmp
	}
	return sign, nil
}

// endpoint returns the second offset from 1970 reached by adding months and
// seconds to the first day of the reference month.
func endpoint(year int64, month int, months int64, seconds num.Dec) num.Dec {
	total := year*12 + int64(month-1) + months
	y := floorDiv(total, 12)
	m := int(total-y*12) + 1
	if y <= 0 {
		y--
	}
	days := temporal.DaysFromCivil(y, m, 1)
	return num.DecFromInt64(days).MulInt64(86400).Add(seconds)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// CanonicalString renders the reduced form PnYnMnDTnHnMnS with zero
// components omitted.
func CanonicalString(d Duration) string {
	if d.IsZero() {
		return "PT0S"
	}
	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if y := d.Months / 12; y != 0 {
		b.WriteString(strconv.FormatInt(y, 10))
		b.WriteByte('Y')
	}
	if m := d.Months % 12; m != 0 {
		b.WriteString(strconv.FormatInt(m, 10))
		b.WriteByte('M')
	}
	if d.Seconds.Sign == 0 {
		return b.String()
	}

	whole, frac := d.Seconds.Trunc()
	rest := whole.Big()
	days, rest := new(big.Int).QuoRem(rest, big.NewInt(86400), new(big.Int))
	hours, rest := new(big.Int).QuoRem(rest, big.NewInt(3600), new(big.Int))
	minutes, secs := new(big.Int).QuoRem(rest, big.NewInt(60), new(big.Int))
	if days.Sign() != 0 {
		b.WriteString(days.String())
		b.WriteByte('D')
	}
	if hours.Sign() == 0 && minutes.Sign() == 0 && secs.Sign() == 0 && frac.Sign == 0 {
		return b.String()
	}
	b.WriteByte('T')
	if hours.Sign() != 0 {
		b.WriteString(hours.String())
		b.WriteByte('H')
	}
	if minutes.Sign() != 0 {
		b.WriteString(minutes.String())
		b.WriteByte('M')
	}
	if secs.Sign() != 0 || frac.Sign != 0 {
		s := num.IntFromBig(secs).AsDec().Add(frac)
		text := s.String()
		text = strings.TrimSuffix(text, ".0")
		b.WriteString(text)
		b.WriteByte('S')
	}
	return b.String()
}
