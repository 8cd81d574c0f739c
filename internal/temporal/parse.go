package temporal

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	errTruncated = errors.New("truncated value")
	errTrailing  = errors.New("unexpected trailing characters")
)

// Value is a parsed calendar value. Fields not carried by Kind are zero.
type Value struct {
	Kind   Kind
	Year   int64
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
	// Frac holds fractional second digits without trailing zeros.
	Frac  string
	HasTZ bool
	// TZ is the timezone offset in minutes east of UTC.
	TZ int
}

// Parse parses lexical as a value of kind. Whitespace must already be collapsed.
func Parse(kind Kind, lexical []byte) (Value, error) {
	p := parser{in: lexical}
	v := Value{Kind: kind}
	var err error
	switch kind {
	case KindDateTime:
		if err = p.date(&v, true, true); err == nil {
			if err = p.expect('T'); err == nil {
				err = p.clock(&v)
			}
		}
	case KindTime:
		err = p.clock(&v)
	case KindDate:
		err = p.date(&v, true, true)
	case KindGYearMonth:
		err = p.date(&v, true, false)
	case KindGYear:
		err = p.date(&v, false, false)
	case KindGMonthDay:
		if err = p.literal("--"); err == nil {
			if v.Month, err = p.twoDigits("month", 1, 12); err == nil {
				if err = p.expect('-'); err == nil {
					v.Day, err = p.twoDigits("day", 1, 31)
				}
			}
		}
		if err == nil && v.Day > DaysInMonth(2000, v.Month) {
			err = fmt.Errorf("day %d out of range for month %d", v.Day, v.Month)
		}
	case KindGDay:
		if err = p.literal("---"); err == nil {
			v.Day, err = p.twoDigits("day", 1, 31)
		}
	case KindGMonth:
		if err = p.literal("--"); err == nil {
			v.Month, err = p.twoDigits("month", 1, 12)
		}
	default:
		return Value{}, fmt.Errorf("unknown temporal kind %d", kind)
	}
	if err != nil {
		return Value{}, fmt.Errorf("invalid %s %q: %w", kind, lexical, err)
	}
	if err := p.timezone(&v); err != nil {
		return Value{}, fmt.Errorf("invalid %s %q: %w", kind, lexical, err)
	}
	if p.pos != len(p.in) {
		return Value{}, fmt.Errorf("invalid %s %q: %w", kind, lexical, errTrailing)
	}
	if v.Hour == 24 {
		v.Hour = 0
		if kind == KindDateTime {
			v.Year, v.Month, v.Day = CivilFromDays(DaysFromCivil(v.Year, v.Month, v.Day) + 1)
		}
	}
	return v, nil
}

type parser struct {
	in  []byte
	pos int
}

func (p *parser) expect(c byte) error {
	if p.pos >= len(p.in) {
		return errTruncated
	}
	if p.in[p.pos] != c {
		return fmt.Errorf("expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) literal(s string) error {
	for i := 0; i < len(s); i++ {
		if err := p.expect(s[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) digits() []byte {
	start := p.pos
	for p.pos < len(p.in) && p.in[p.pos] >= '0' && p.in[p.pos] <= '9' {
		p.pos++
	}
	return p.in[start:p.pos]
}

func (p *parser) twoDigits(field string, lo, hi int) (int, error) {
	if p.pos+2 > len(p.in) {
		return 0, errTruncated
	}
	a, b := p.in[p.pos], p.in[p.pos+1]
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, fmt.Errorf("%s must be two digits", field)
	}
	p.pos += 2
	n := int(a-'0')*10 + int(b-'0')
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s %d out of range", field, n)
	}
	return n, nil
}

func (p *parser) year(v *Value) error {
	negative := false
	if p.pos < len(p.in) && p.in[p.pos] == '-' {
		negative = true
		p.pos++
	}
	d := p.digits()
	switch {
	case len(d) < 4:
		return errors.New("year must have at least four digits")
	case len(d) > 4 && d[0] == '0':
		return errors.New("year has leading zeros")
	}
	y, err := strconv.ParseInt(string(d), 10, 64)
	if err != nil || y > MaxYear {
		return errors.New("year out of range")
	}
	if y == 0 {
		return errors.New("year 0000 is not allowed")
	}
	if negative {
		y = -y
	}
	v.Year = y
	return nil
}

func (p *parser) date(v *Value, month, day bool) error {
	if err := p.year(v); err != nil {
		return err
	}
	if !month {
		return nil
	}
	var err error
	if err = p.expect('-'); err != nil {
		return err
	}
	if v.Month, err = p.twoDigits("month", 1, 12); err != nil {
		return err
	}
	if !day {
		return nil
	}
	if err = p.expect('-'); err != nil {
		return err
	}
	if v.Day, err = p.twoDigits("day", 1, 31); err != nil {
		return err
	}
	if v.Day > DaysInMonth(v.Year, v.Month) {
		return fmt.Errorf("day %d out of range for %d-%02d", v.Day, v.Year, v.Month)
	}
	return nil
}

func (p *parser) clock(v *Value) error {
	var err error
	if v.Hour, err = p.twoDigits("hour", 0, 24); err != nil {
		return err
	}
	if err = p.expect(':'); err != nil {
		return err
	}
	if v.Minute, err = p.twoDigits("minute", 0, 59); err != nil {
		return err
	}
	if err = p.expect(':'); err != nil {
		return err
	}
	if v.Second, err = p.twoDigits("second", 0, 59); err != nil {
		return err
	}
	if p.pos < len(p.in) && p.in[p.pos] == '.' {
		p.pos++
		frac := p.digits()
		if len(frac) == 0 {
			return errors.New("fractional seconds need at least one digit")
		}
		end := len(frac)
		for end > 0 && frac[end-1] == '0' {
			end--
		}
		v.Frac = string(frac[:end])
	}
	if v.Hour == 24 && (v.Minute != 0 || v.Second != 0 || v.Frac != "") {
		return errors.New("hour 24 is only allowed as 24:00:00")
	}
	return nil
}

func (p *parser) timezone(v *Value) error {
	if p.pos >= len(p.in) {
		return nil
	}
	c := p.in[p.pos]
	if c == 'Z' {
		p.pos++
		v.HasTZ = true
		return nil
	}
	if c != '+' && c != '-' {
		return nil
	}
	p.pos++
	hh, err := p.twoDigits("timezone hour", 0, 14)
	if err != nil {
		return err
	}
	if err = p.expect(':'); err != nil {
		return err
	}
	mm, err := p.twoDigits("timezone minute", 0, 59)
	if err != nil {
		return err
	}
	if hh == 14 && mm != 0 {
		return errors.New("timezone offset exceeds 14:00")
	}
	v.HasTZ = true
	v.TZ = hh*60 + mm
	if c == '-' {
		v.TZ = -v.TZ
	}
	return nil
}
