package corpus

// Serial is the stable type identity used by codec tables.
type Serial int32

// Untyped is the ancestry of types whose encoding does not depend on a primitive.
const Untyped Serial = -1

// Built-in serials. The numbering is part of the corpus format.
const (
	SerialAnyType Serial = iota
	SerialAnySimpleType
	SerialString
	SerialBoolean
	SerialDecimal
	SerialFloat
	SerialDouble
	SerialDuration
	SerialDateTime
	SerialTime
	SerialDate
	SerialGYearMonth
	SerialGYear
	SerialGMonthDay
	SerialGDay
	SerialGMonth
	SerialHexBinary
	SerialBase64Binary
	SerialAnyURI
	SerialQName
	SerialNOTATION
	SerialInteger
	SerialNonNegativeInteger
	SerialUnsignedLong
	SerialPositiveInteger
	SerialNonPositiveInteger
	SerialNegativeInteger
	SerialInt
	SerialShort
	SerialByte
	SerialUnsignedShort
	SerialUnsignedByte
	SerialLong
	SerialUnsignedInt
	SerialNormalizedString
	SerialToken
	SerialLanguage
	SerialName
	SerialNCName
	SerialNMTOKEN
	SerialENTITY
	SerialIDREF
	SerialID
	SerialENTITIES
	SerialIDREFS
	SerialNMTOKENS

	// NumBuiltinSerials is the count of built-in types; user types start here.
	NumBuiltinSerials
)
