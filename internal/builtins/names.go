package builtins

import "github.com/jacoelho/xsdcorpus/internal/xmlnames"

// XSDNamespace is the namespace of every built-in type.
const XSDNamespace = xmlnames.XSDNamespace

const (
	TypeNameAnyType       = "anyType"
	TypeNameAnySimpleType = "anySimpleType"

	TypeNameString       = "string"
	TypeNameBoolean      = "boolean"
	TypeNameDecimal      = "decimal"
	TypeNameFloat        = "float"
	TypeNameDouble       = "double"
	TypeNameDuration     = "duration"
	TypeNameDateTime     = "dateTime"
	TypeNameTime         = "time"
	TypeNameDate         = "date"
	TypeNameGYearMonth   = "gYearMonth"
	TypeNameGYear        = "gYear"
	TypeNameGMonthDay    = "gMonthDay"
	TypeNameGDay         = "gDay"
	TypeNameGMonth       = "gMonth"
	TypeNameHexBinary    = "hexBinary"
	TypeNameBase64Binary = "base64Binary"
	TypeNameAnyURI       = "anyURI"
	TypeNameQName        = "QName"
	TypeNameNOTATION     = "NOTATION"

	TypeNameNormalizedString = "normalizedString"
	TypeNameToken            = "token"
	TypeNameLanguage         = "language"
	TypeNameName             = "Name"
	TypeNameNCName           = "NCName"
	TypeNameID               = "ID"
	TypeNameIDREF            = "IDREF"
	TypeNameIDREFS           = "IDREFS"
	TypeNameENTITY           = "ENTITY"
	TypeNameENTITIES         = "ENTITIES"
	TypeNameNMTOKEN          = "NMTOKEN"
	TypeNameNMTOKENS         = "NMTOKENS"

	TypeNameInteger            = "integer"
	TypeNameLong               = "long"
	TypeNameInt                = "int"
	TypeNameShort              = "short"
	TypeNameByte               = "byte"
	TypeNameNonNegativeInteger = "nonNegativeInteger"
	TypeNamePositiveInteger    = "positiveInteger"
	TypeNameUnsignedLong       = "unsignedLong"
	TypeNameUnsignedInt        = "unsignedInt"
	TypeNameUnsignedShort      = "unsignedShort"
	TypeNameUnsignedByte       = "unsignedByte"
	TypeNameNegativeInteger    = "negativeInteger"
	TypeNameNonPositiveInteger = "nonPositiveInteger"
)
