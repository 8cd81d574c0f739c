package durationlex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jacoelho/xsdcorpus/internal/num"
)

// Duration is an xs:duration reduced to its two independent components:
// a month count and a second count. Both magnitudes are non-negative and
// Negative carries the sign of the whole value.
type Duration struct {
	Seconds  num.Dec
	Months   int64
	Negative bool
}

const maxMonths = 1 << 53

var (
	errNoDesignator  = errors.New("duration must start with P")
	errNoComponent   = errors.New("duration must have at least one component")
	errEmptyTimePart = errors.New("time designator present but no time components specified")
)

// Parse parses an XSD duration lexical value.
func Parse(s string) (Duration, error) {
	if s == "" {
		return Duration{}, errors.New("empty duration")
	}
	in := s
	var d Duration
	if s[0] == '-' {
		d.Negative = true
		s = s[1:]
	}
	if s == "" || s[0] != 'P' {
		return Duration{}, errNoDesignator
	}
	s = s[1:]

	d.Seconds = num.DecZero
	units := "YMD"
	next := 0
	seen, inTime, timeSeen := false, false, false
	for s != "" {
		if s[0] == 'T' {
			if inTime {
				return Duration{}, fmt.Errorf("invalid duration %q: repeated T", in)
			}
			inTime = true
			units, next = "HMS", 0
			s = s[1:]
			continue
		}
		i := 0
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
			i++
		}
		if i == 0 || i == len(s) {
			return Duration{}, fmt.Errorf("invalid duration %q", in)
		}
		value, designator := s[:i], s[i]
		s = s[i+1:]
		j := strings.IndexByte(units[next:], designator)
		if j < 0 {
			return Duration{}, fmt.Errorf("invalid duration %q: unexpected %q", in, designator)
		}
		component := next + j
		next = component + 1
		if inTime {
			component += 3
			timeSeen = true
		}
		seen = true
		if err := d.addComponent(component, value); err != nil {
			return Duration{}, fmt.Errorf("invalid duration %q: %w", in, err)
		}
	}
	if inTime && !timeSeen {
		return Duration{}, errEmptyTimePart
	}
	if !seen {
		return Duration{}, errNoComponent
	}
	if d.IsZero() {
		d.Negative = false
	}
	return d, nil
}

// addComponent folds one component into d. Components are numbered
// Y, M, D, H, M, S from zero.
func (d *Duration) addComponent(pos int, value string) error {
	if pos == 5 {
		if value[0] == '.' || value[len(value)-1] == '.' {
			return errors.New("bad seconds")
		}
		sec, perr := num.ParseDec([]byte(value))
		if perr != nil {
			return perr
		}
		d.Seconds = d.Seconds.Add(sec)
		return nil
	}
	for i := 0; i < len(value); i++ {
		if value[i] == '.' {
			return errors.New("only seconds may carry a fraction")
		}
	}
	switch pos {
	case 0, 1:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n > maxMonths {
			return errors.New("month component too large")
		}
		if pos == 0 {
			if n > maxMonths/12 {
				return errors.New("year component too large")
			}
			n *= 12
		}
		if d.Months+n > maxMonths {
			return errors.New("month component too large")
		}
		d.Months += n
	default:
		n, perr := num.ParseInt([]byte(value))
		if perr != nil {
			return perr
		}
		unit := int64(60)
		switch pos {
		case 2:
			unit = 86400
		case 3:
			unit = 3600
		}
		d.Seconds = d.Seconds.Add(n.AsDec().MulInt64(unit))
	}
	return nil
}

// IsZero reports whether the duration has no length.
func (d Duration) IsZero() bool {
	return d.Months == 0 && d.Seconds.Sign == 0
}

// SignedMonths returns the month component with the sign applied.
func (d Duration) SignedMonths() int64 {
	if d.Negative {
		return -d.Months
	}
	return d.Months
}

// SignedSeconds returns the second component with the sign applied.
func (d Duration) SignedSeconds() num.Dec {
	if d.Negative {
		return d.Seconds.Neg()
	}
	return d.Seconds
}
