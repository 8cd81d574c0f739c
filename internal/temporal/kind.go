package temporal

// Kind identifies one of the eight XSD calendar primitives.
type Kind uint8

const (
	KindDateTime Kind = iota
	KindTime
	KindDate
	KindGYearMonth
	KindGYear
	KindGMonthDay
	KindGDay
	KindGMonth
)

// String returns the XSD local name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDateTime:
		return "dateTime"
	case KindTime:
		return "time"
	case KindDate:
		return "date"
	case KindGYearMonth:
		return "gYearMonth"
	case KindGYear:
		return "gYear"
	case KindGMonthDay:
		return "gMonthDay"
	case KindGDay:
		return "gDay"
	case KindGMonth:
		return "gMonth"
	default:
		return "unknown"
	}
}

func (k Kind) hasDate() bool {
	switch k {
	case KindDateTime, KindDate, KindGYearMonth, KindGYear:
		return true
	default:
		return false
	}
}

func (k Kind) hasTime() bool {
	return k == KindDateTime || k == KindTime
}
