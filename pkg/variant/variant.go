package variant

import (
	"slices"
	"unicode/utf8"

	"github.com/jacoelho/xsdcorpus/internal/durationlex"
	"github.com/jacoelho/xsdcorpus/internal/num"
	"github.com/jacoelho/xsdcorpus/internal/temporal"
)

// Origin records the lexical encoding a binary value was written in.
type Origin uint8

const (
	OriginNone Origin = iota
	OriginBase64
	OriginHex
)

// Variant is a canonicalized typed literal. The zero Variant is Invalid.
type Variant struct {
	text     string
	uri      string
	octets   []byte
	temporal temporal.Value
	duration durationlex.Duration
	dec      num.Dec
	float    float64
	fclass   num.FloatClass
	kind     Kind
	origin   Origin
	boolean  bool
}

// Kind returns the value space of v.
func (v Variant) Kind() Kind {
	return v.kind
}

// IsValid reports whether v holds a value.
func (v Variant) IsValid() bool {
	return v.kind != Invalid
}

// Text returns the value of String and AnyURI variants, and the local
// part of QName and Notation variants.
func (v Variant) Text() string {
	return v.text
}

// Bool returns the value of a Boolean variant.
func (v Variant) Bool() bool {
	return v.boolean
}

// Dec returns the value of a Decimal or Integer variant.
func (v Variant) Dec() num.Dec {
	return v.dec
}

// Int returns the value of an Integer variant.
func (v Variant) Int() (num.Int, bool) {
	if v.kind != Integer {
		return num.Int{}, false
	}
	return v.dec.Int()
}

// Float returns the value and ordering class of a Float or Double variant.
func (v Variant) Float() (float64, num.FloatClass) {
	return v.float, v.fclass
}

// Duration returns the value of a Duration variant.
func (v Variant) Duration() durationlex.Duration {
	return v.duration
}

// Temporal returns the value of a calendar variant.
func (v Variant) Temporal() temporal.Value {
	return v.temporal
}

// Octets returns a copy of the decoded binary payload.
func (v Variant) Octets() []byte {
	return slices.Clone(v.octets)
}

// Origin returns the lexical encoding of a binary variant.
func (v Variant) Origin() Origin {
	return v.origin
}

// QName returns the namespace and local part of a QName or Notation variant.
func (v Variant) QName() (uri, local string) {
	return v.uri, v.text
}

// Length measures v for the length, minLength and maxLength facets:
// characters for string kinds, octets for binary kinds. ok is false for
// kinds the length facets do not apply to.
func (v Variant) Length() (n int, ok bool) {
	switch v.kind {
	case String, AnyURI:
		return utf8.RuneCountInString(v.text), true
	case Base64Binary, HexBinary:
		return len(v.octets), true
	case QName, Notation:
		// length facets on QName and NOTATION are deprecated and always satisfied
		return 0, false
	default:
		return 0, false
	}
}

// FromString returns a String variant without normalization.
func FromString(s string) Variant {
	return Variant{kind: String, text: s}
}

// FromDec returns a Decimal variant.
func FromDec(d num.Dec) Variant {
	return Variant{kind: Decimal, dec: d}
}

// FromInt returns an Integer variant.
func FromInt(i num.Int) Variant {
	return Variant{kind: Integer, dec: i.AsDec()}
}

// FromQName returns a QName variant.
func FromQName(uri, local string) Variant {
	return Variant{kind: QName, uri: uri, text: local}
}

// String returns the canonical lexical form.
func (v Variant) String() string {
	return v.Canonical()
}
