package temporal

import (
	"errors"
	"strconv"
	"strings"
)

// ErrIndeterminate reports that a zoned and an unzoned value overlap within
// the +/-14:00 window and have no defined order.
var ErrIndeterminate = errors.New("temporal comparison indeterminate")

const maxOffsetSeconds = 14 * 3600

// instant is a position on the timeline: whole seconds plus fraction digits.
type instant struct {
	secs int64
	frac string
}

// timeline places v on the timeline using the XSD 1.0 reference values for
// missing fields, without applying the timezone.
func (v Value) timeline() instant {
	year, month, day := int64(1972), 12, 31
	switch v.Kind {
	case KindDateTime, KindDate:
		year, month, day = v.Year, v.Month, v.Day
	case KindGYearMonth:
		year, month, day = v.Year, v.Month, 1
	case KindGYear:
		year, month, day = v.Year, 1, 1
	case KindGMonthDay:
		month, day = v.Month, v.Day
	case KindGDay:
		day = v.Day
	case KindGMonth:
		month, day = v.Month, 1
	}
	secs := DaysFromCivil(year, month, day)*86400 + int64(v.Hour*3600+v.Minute*60+v.Second)
	return instant{secs: secs, frac: v.Frac}
}

// utc applies the timezone. Zoned time values wrap onto the reference day,
// matching their canonical form.
func (v Value) utc() instant {
	in := v.timeline()
	if !v.HasTZ {
		return in
	}
	in.secs -= int64(v.TZ) * 60
	if v.Kind == KindTime {
		day := DaysFromCivil(1972, 12, 31) * 86400
		in.secs = day + floorMod(in.secs-day, 86400)
	}
	return in
}

func compareInstant(a, b instant) int {
	switch {
	case a.secs < b.secs:
		return -1
	case a.secs > b.secs:
		return 1
	}
	n := max(len(a.frac), len(b.frac))
	af := a.frac + strings.Repeat("0", n-len(a.frac))
	bf := b.frac + strings.Repeat("0", n-len(b.frac))
	return strings.Compare(af, bf)
}

// Compare orders two values of the same kind. Values of different kinds are
// reported as indeterminate.
func Compare(a, b Value) (int, error) {
	if a.Kind != b.Kind {
		return 0, ErrIndeterminate
	}
	if a.HasTZ == b.HasTZ {
		return compareInstant(a.utc(), b.utc()), nil
	}
	zoned, local, flip := a, b, 1
	if !a.HasTZ {
		zoned, local, flip = b, a, -1
	}
	z := zoned.utc()
	l := local.timeline()
	earliest := instant{secs: l.secs - maxOffsetSeconds, frac: l.frac}
	latest := instant{secs: l.secs + maxOffsetSeconds, frac: l.frac}
	if compareInstant(z, earliest) < 0 {
		return -flip, nil
	}
	if compareInstant(z, latest) > 0 {
		return flip, nil
	}
	return 0, ErrIndeterminate
}

// Equal reports whether a and b denote the same point or period.
func Equal(a, b Value) bool {
	cmp, err := Compare(a, b)
	return err == nil && cmp == 0
}

// Canonical renders the canonical lexical form. Zoned dateTime and time
// values are normalized to UTC.
func Canonical(v Value) string {
	if v.HasTZ && v.Kind.hasTime() && v.TZ != 0 {
		in := v.utc()
		days := floorDiv(in.secs, 86400)
		rem := int(in.secs - days*86400)
		n := v
		n.Hour, n.Minute, n.Second = rem/3600, rem/60%60, rem%60
		n.TZ = 0
		if v.Kind == KindDateTime {
			n.Year, n.Month, n.Day = CivilFromDays(days)
		}
		v = n
	}
	var b strings.Builder
	switch v.Kind {
	case KindDateTime:
		writeDate(&b, v, true, true)
		b.WriteByte('T')
		writeClock(&b, v)
	case KindTime:
		writeClock(&b, v)
	case KindDate:
		writeDate(&b, v, true, true)
	case KindGYearMonth:
		writeDate(&b, v, true, false)
	case KindGYear:
		writeDate(&b, v, false, false)
	case KindGMonthDay:
		b.WriteString("--")
		write2(&b, v.Month)
		b.WriteByte('-')
		write2(&b, v.Day)
	case KindGDay:
		b.WriteString("---")
		write2(&b, v.Day)
	case KindGMonth:
		b.WriteString("--")
		write2(&b, v.Month)
	}
	if v.HasTZ {
		writeTZ(&b, v.TZ)
	}
	return b.String()
}

func writeDate(b *strings.Builder, v Value, month, day bool) {
	y := v.Year
	if y < 0 {
		b.WriteByte('-')
		y = -y
	}
	s := strconv.FormatInt(y, 10)
	for i := len(s); i < 4; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
	if month {
		b.WriteByte('-')
		write2(b, v.Month)
	}
	if day {
		b.WriteByte('-')
		write2(b, v.Day)
	}
}

func writeClock(b *strings.Builder, v Value) {
	write2(b, v.Hour)
	b.WriteByte(':')
	write2(b, v.Minute)
	b.WriteByte(':')
	write2(b, v.Second)
	if v.Frac != "" {
		b.WriteByte('.')
		b.WriteString(v.Frac)
	}
}

func writeTZ(b *strings.Builder, tz int) {
	if tz == 0 {
		b.WriteByte('Z')
		return
	}
	if tz < 0 {
		b.WriteByte('-')
		tz = -tz
	} else {
		b.WriteByte('+')
	}
	write2(b, tz/60)
	b.WriteByte(':')
	write2(b, tz%60)
}

func write2(b *strings.Builder, n int) {
	b.WriteByte(byte('0' + n/10))
	b.WriteByte(byte('0' + n%10))
}
