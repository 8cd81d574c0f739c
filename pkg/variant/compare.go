package variant

import (
	"bytes"
	"strings"

	"github.com/jacoelho/xsdcorpus/internal/durationlex"
	"github.com/jacoelho/xsdcorpus/internal/num"
	"github.com/jacoelho/xsdcorpus/internal/temporal"
)

// Ordering is the outcome of comparing two Variants.
type Ordering int8

const (
	Less Ordering = iota - 1
	Equal
	Greater
	Incomparable
)

// String returns a label for the ordering.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "incomparable"
	}
}

func fromCmp(c int) Ordering {
	switch {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	default:
		return Equal
	}
}

// Compare orders a and b within their shared value space. Values from
// different value spaces are Incomparable.
func Compare(a, b Variant) Ordering {
	if a.kind == Invalid || a.kind.family() != b.kind.family() {
		return Incomparable
	}
	switch a.kind.family() {
	case String, AnyURI:
		return fromCmp(strings.Compare(a.text, b.text))
	case Boolean:
		if a.boolean == b.boolean {
			return Equal
		}
		return Incomparable
	case Decimal:
		return fromCmp(a.dec.Compare(b.dec))
	case Float, Double:
		if a.fclass == num.FloatNaN && b.fclass == num.FloatNaN {
			return Equal
		}
		c, ok := num.CompareFloat(a.float, a.fclass, b.float, b.fclass)
		if !ok {
			return Incomparable
		}
		return fromCmp(c)
	case Duration:
		c, err := durationlex.Compare(a.duration, b.duration)
		if err != nil {
			return Incomparable
		}
		return fromCmp(c)
	case DateTime, Date, Time, GYearMonth, GYear, GMonthDay, GDay, GMonth:
		c, err := temporal.Compare(a.temporal, b.temporal)
		if err != nil {
			return Incomparable
		}
		return fromCmp(c)
	case Base64Binary:
		return fromCmp(bytes.Compare(a.octets, b.octets))
	case QName, Notation:
		if c := strings.Compare(a.uri, b.uri); c != 0 {
			return fromCmp(c)
		}
		return fromCmp(strings.Compare(a.text, b.text))
	default:
		return Incomparable
	}
}

// Same reports whether a and b are equal values.
func Same(a, b Variant) bool {
	return Compare(a, b) == Equal
}
