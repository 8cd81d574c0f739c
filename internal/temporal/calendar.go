package temporal

// MaxYear bounds the absolute year accepted by Parse so that timeline
// arithmetic stays within int64.
const MaxYear = 999_999_999

// DaysInMonth returns the number of days of month in year.
// Year numbering follows XSD 1.0: there is no year zero and -1 is 1 BCE.
func DaysInMonth(year int64, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// IsLeapYear reports the Gregorian leap rule for an XSD 1.0 year.
func IsLeapYear(year int64) bool {
	y := astronomical(year)
	return floorMod(y, 4) == 0 && (floorMod(y, 100) != 0 || floorMod(y, 400) == 0)
}

// DaysFromCivil returns days since 1970-01-01 for the given proleptic
// Gregorian date.
func DaysFromCivil(year int64, month, day int) int64 {
	y := astronomical(year)
	m := int64(month)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + int64(day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// CivilFromDays is the inverse of DaysFromCivil.
func CivilFromDays(days int64) (int64, int, int) {
	z := days + 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := int(doy - (153*mp+2)/5 + 1)
	m := int(mp + 3)
	if m > 12 {
		m -= 12
	}
	if m <= 2 {
		y++
	}
	return fromAstronomical(y), m, d
}

func astronomical(year int64) int64 {
	if year < 0 {
		return year + 1
	}
	return year
}

func fromAstronomical(y int64) int64 {
	if y <= 0 {
		return y - 1
	}
	return y
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
