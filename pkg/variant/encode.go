package variant

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jacoelho/xsdcorpus/internal/durationlex"
	"github.com/jacoelho/xsdcorpus/internal/num"
	"github.com/jacoelho/xsdcorpus/internal/temporal"
	"github.com/jacoelho/xsdcorpus/internal/whitespace"
	"github.com/jacoelho/xsdcorpus/internal/xmlnames"
)

// Encoder turns lexical forms into Variants. Namespaces maps prefixes to
// namespace URIs for QName and NOTATION literals; the empty prefix is the
// default namespace.
type Encoder struct {
	Namespaces map[string]string
}

// Encode encodes lexical with no namespace context.
func Encode(kind Kind, lexical string) (Variant, error) {
	return Encoder{}.Encode(kind, lexical)
}

// Encode validates lexical against kind and returns its canonical value.
// Every kind except String collapses whitespace first.
func (e Encoder) Encode(kind Kind, lexical string) (Variant, error) {
	in := lexical
	if kind != String {
		in = whitespace.Normalize(whitespace.Collapse, lexical)
	}
	v, err := e.encode(kind, in)
	if err != nil {
		return Variant{}, &LexicalError{Kind: kind, Lexical: lexical, Err: err}
	}
	return v, nil
}

func (e Encoder) encode(kind Kind, in string) (Variant, error) {
	v := Variant{kind: kind}
	switch kind {
	case String:
		if !utf8.ValidString(in) {
			return Variant{}, errors.New("invalid UTF-8")
		}
		v.text = in
	case AnyURI:
		if strings.ContainsAny(in, "<>\"{}|\\^`") {
			return Variant{}, errors.New("character not allowed in URI reference")
		}
		v.text = in
	case Boolean:
		switch in {
		case "true", "1":
			v.boolean = true
		case "false", "0":
		default:
			return Variant{}, errors.New("expected true, false, 1 or 0")
		}
	case Decimal:
		d, perr := num.ParseDec([]byte(in))
		if perr != nil {
			return Variant{}, perr
		}
		v.dec = d
	case Integer:
		i, perr := num.ParseInt([]byte(in))
		if perr != nil {
			return Variant{}, perr
		}
		v.dec = i.AsDec()
	case Float, Double:
		bits := 64
		if kind == Float {
			bits = 32
		}
		f, class, perr := num.ParseFloat([]byte(in), bits)
		if perr != nil {
			return Variant{}, perr
		}
		v.float, v.fclass = f, class
	case Duration:
		d, err := durationlex.Parse(in)
		if err != nil {
			return Variant{}, err
		}
		v.duration = d
	case DateTime, Date, Time, GYearMonth, GYear, GMonthDay, GDay, GMonth:
		tk, _ := temporalKind(kind)
		t, err := temporal.Parse(tk, []byte(in))
		if err != nil {
			return Variant{}, err
		}
		v.temporal = t
	case Base64Binary:
		compact := strings.ReplaceAll(in, " ", "")
		octets, err := base64.StdEncoding.Strict().DecodeString(compact)
		if err != nil {
			return Variant{}, err
		}
		v.octets, v.origin = octets, OriginBase64
	case HexBinary:
		if len(in)%2 != 0 {
			return Variant{}, errors.New("odd number of hex digits")
		}
		octets, err := hex.DecodeString(in)
		if err != nil {
			return Variant{}, err
		}
		v.octets, v.origin = octets, OriginHex
	case QName, Notation:
		prefix, local, ok := xmlnames.SplitQName(in)
		if !ok {
			return Variant{}, errors.New("not a QName")
		}
		uri, bound := e.resolve(prefix)
		if !bound {
			return Variant{}, fmt.Errorf("prefix %q is not bound", prefix)
		}
		v.uri, v.text = uri, local
	default:
		return Variant{}, fmt.Errorf("unknown kind %d", kind)
	}
	return v, nil
}

func (e Encoder) resolve(prefix string) (string, bool) {
	if prefix == xmlnames.XMLPrefix {
		return xmlnames.XMLNamespace, true
	}
	uri, ok := e.Namespaces[prefix]
	if prefix == "" {
		return uri, true
	}
	return uri, ok
}
