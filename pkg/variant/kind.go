package variant

import "github.com/jacoelho/xsdcorpus/internal/temporal"

// Kind identifies the value space a Variant belongs to.
type Kind uint8

const (
	Invalid Kind = iota
	String
	AnyURI
	Boolean
	Decimal
	Integer
	Float
	Double
	Duration
	DateTime
	Date
	Time
	GYearMonth
	GYear
	GMonthDay
	GDay
	GMonth
	Base64Binary
	HexBinary
	QName
	Notation
)

// String returns the XSD local name of the primitive behind the kind.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case AnyURI:
		return "anyURI"
	case Boolean:
		return "boolean"
	case Decimal:
		return "decimal"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Double:
		return "double"
	case Duration:
		return "duration"
	case DateTime:
		return "dateTime"
	case Date:
		return "date"
	case Time:
		return "time"
	case GYearMonth:
		return "gYearMonth"
	case GYear:
		return "gYear"
	case GMonthDay:
		return "gMonthDay"
	case GDay:
		return "gDay"
	case GMonth:
		return "gMonth"
	case Base64Binary:
		return "base64Binary"
	case HexBinary:
		return "hexBinary"
	case QName:
		return "QName"
	case Notation:
		return "NOTATION"
	default:
		return "invalid"
	}
}

// IsOrdered reports whether bounds facets apply to the kind.
func (k Kind) IsOrdered() bool {
	switch k {
	case Decimal, Integer, Float, Double, Duration,
		DateTime, Date, Time, GYearMonth, GYear, GMonthDay, GDay, GMonth:
		return true
	default:
		return false
	}
}

// HasLength reports whether length facets measure values of the kind.
func (k Kind) HasLength() bool {
	switch k {
	case String, AnyURI, Base64Binary, HexBinary, QName, Notation:
		return true
	default:
		return false
	}
}

// HasDigits reports whether totalDigits and fractionDigits apply.
func (k Kind) HasDigits() bool {
	return k == Decimal || k == Integer
}

func temporalKind(k Kind) (temporal.Kind, bool) {
	switch k {
	case DateTime:
		return temporal.KindDateTime, true
	case Date:
		return temporal.KindDate, true
	case Time:
		return temporal.KindTime, true
	case GYearMonth:
		return temporal.KindGYearMonth, true
	case GYear:
		return temporal.KindGYear, true
	case GMonthDay:
		return temporal.KindGMonthDay, true
	case GDay:
		return temporal.KindGDay, true
	case GMonth:
		return temporal.KindGMonth, true
	default:
		return 0, false
	}
}

// family groups kinds whose values share a value space.
func (k Kind) family() Kind {
	switch k {
	case Integer:
		return Decimal
	case HexBinary:
		return Base64Binary
	default:
		return k
	}
}
