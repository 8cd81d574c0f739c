package variant

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/jacoelho/xsdcorpus/internal/durationlex"
	"github.com/jacoelho/xsdcorpus/internal/num"
	"github.com/jacoelho/xsdcorpus/internal/temporal"
)

// Canonical renders the canonical lexical form of v. QName and Notation
// variants render as {uri}local since prefixes are not retained.
func (v Variant) Canonical() string {
	switch v.kind {
	case String, AnyURI:
		return v.text
	case Boolean:
		if v.boolean {
			return "true"
		}
		return "false"
	case Decimal:
		return v.dec.String()
	case Integer:
		i, _ := v.dec.Int()
		return i.String()
	case Float:
		return num.CanonicalFloat(v.float, v.fclass, 32)
	case Double:
		return num.CanonicalFloat(v.float, v.fclass, 64)
	case Duration:
		return durationlex.CanonicalString(v.duration)
	case DateTime, Date, Time, GYearMonth, GYear, GMonthDay, GDay, GMonth:
		return temporal.Canonical(v.temporal)
	case Base64Binary:
		return base64.StdEncoding.EncodeToString(v.octets)
	case HexBinary:
		return strings.ToUpper(hex.EncodeToString(v.octets))
	case QName, Notation:
		if v.uri == "" {
			return v.text
		}
		return "{" + v.uri + "}" + v.text
	default:
		return ""
	}
}
