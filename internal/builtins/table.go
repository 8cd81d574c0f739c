package builtins

import (
	"github.com/jacoelho/xsdcorpus/internal/num"
	"github.com/jacoelho/xsdcorpus/internal/whitespace"
	"github.com/jacoelho/xsdcorpus/internal/xmlnames"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// LexicalRule is an intrinsic lexical constraint a derived string type
// adds on top of its primitive.
type LexicalRule uint8

const (
	LexicalAny LexicalRule = iota
	LexicalLanguage
	LexicalName
	LexicalNCName
	LexicalNMTOKEN
)

// Check reports whether s satisfies the rule. s must be whitespace-normalized.
func (r LexicalRule) Check(s string) bool {
	switch r {
	case LexicalLanguage:
		return xmlnames.IsLanguage(s)
	case LexicalName:
		return xmlnames.IsName(s)
	case LexicalNCName:
		return xmlnames.IsNCName(s)
	case LexicalNMTOKEN:
		return xmlnames.IsNMTOKEN(s)
	default:
		return true
	}
}

// Entry describes one built-in type.
type Entry struct {
	Name       string
	MinInt     *num.Int
	MaxInt     *num.Int
	Serial     corpus.Serial
	Base       corpus.Serial
	Item       corpus.Serial
	MinLength  int
	Variety    corpus.Variety
	Kind       variant.Kind
	Whitespace whitespace.Mode
	Lexical    LexicalRule
	Primitive  bool
}

// Table is the immutable built-in lattice.
type Table struct {
	byName  map[string]corpus.Serial
	entries []Entry
}

func bound(v num.Int) *num.Int {
	return &v
}

// New builds a fresh table.
func New() *Table {
	collapse := whitespace.Collapse
	atomic := func(s corpus.Serial, name string, base corpus.Serial, kind variant.Kind) Entry {
		return Entry{
			Serial: s, Name: name, Base: base, Item: corpus.Untyped, MinLength: -1,
			Variety: corpus.VarietyAtomic, Kind: kind, Whitespace: collapse,
		}
	}
	primitive := func(s corpus.Serial, name string, kind variant.Kind) Entry {
		e := atomic(s, name, corpus.SerialAnySimpleType, kind)
		e.Primitive = true
		return e
	}
	integer := func(s corpus.Serial, name string, base corpus.Serial, lo, hi *num.Int) Entry {
		e := atomic(s, name, base, variant.Integer)
		e.MinInt, e.MaxInt = lo, hi
		return e
	}
	token := func(s corpus.Serial, name string, base corpus.Serial, rule LexicalRule) Entry {
		e := atomic(s, name, base, variant.String)
		e.Lexical = rule
		return e
	}
	list := func(s corpus.Serial, name string, item corpus.Serial) Entry {
		return Entry{
			Serial: s, Name: name, Base: corpus.SerialAnySimpleType, Item: item, MinLength: 1,
			Variety: corpus.VarietyList, Whitespace: collapse,
		}
	}
	zero, one, minusOne := num.IntZero, num.IntOne, num.IntMinusOne

	stringEntry := primitive(corpus.SerialString, TypeNameString, variant.String)
	stringEntry.Whitespace = whitespace.Preserve
	normalized := atomic(corpus.SerialNormalizedString, TypeNameNormalizedString, corpus.SerialString, variant.String)
	normalized.Whitespace = whitespace.Replace

	entries := []Entry{
		{Serial: corpus.SerialAnyType, Name: TypeNameAnyType, Base: corpus.Untyped, Item: corpus.Untyped, MinLength: -1},
		{Serial: corpus.SerialAnySimpleType, Name: TypeNameAnySimpleType, Base: corpus.SerialAnyType, Item: corpus.Untyped, MinLength: -1, Variety: corpus.VarietyUr},
		stringEntry,
		primitive(corpus.SerialBoolean, TypeNameBoolean, variant.Boolean),
		primitive(corpus.SerialDecimal, TypeNameDecimal, variant.Decimal),
		primitive(corpus.SerialFloat, TypeNameFloat, variant.Float),
		primitive(corpus.SerialDouble, TypeNameDouble, variant.Double),
		primitive(corpus.SerialDuration, TypeNameDuration, variant.Duration),
		primitive(corpus.SerialDateTime, TypeNameDateTime, variant.DateTime),
		primitive(corpus.SerialTime, TypeNameTime, variant.Time),
		primitive(corpus.SerialDate, TypeNameDate, variant.Date),
		primitive(corpus.SerialGYearMonth, TypeNameGYearMonth, variant.GYearMonth),
		primitive(corpus.SerialGYear, TypeNameGYear, variant.GYear),
		primitive(corpus.SerialGMonthDay, TypeNameGMonthDay, variant.GMonthDay),
		primitive(corpus.SerialGDay, TypeNameGDay, variant.GDay),
		primitive(corpus.SerialGMonth, TypeNameGMonth, variant.GMonth),
		primitive(corpus.SerialHexBinary, TypeNameHexBinary, variant.HexBinary),
		primitive(corpus.SerialBase64Binary, TypeNameBase64Binary, variant.Base64Binary),
		primitive(corpus.SerialAnyURI, TypeNameAnyURI, variant.AnyURI),
		primitive(corpus.SerialQName, TypeNameQName, variant.QName),
		primitive(corpus.SerialNOTATION, TypeNameNOTATION, variant.Notation),
		integer(corpus.SerialInteger, TypeNameInteger, corpus.SerialDecimal, nil, nil),
		integer(corpus.SerialNonNegativeInteger, TypeNameNonNegativeInteger, corpus.SerialInteger, bound(zero), nil),
		integer(corpus.SerialUnsignedLong, TypeNameUnsignedLong, corpus.SerialNonNegativeInteger, bound(zero), bound(num.MaxUint64)),
		integer(corpus.SerialPositiveInteger, TypeNamePositiveInteger, corpus.SerialNonNegativeInteger, bound(one), nil),
		integer(corpus.SerialNonPositiveInteger, TypeNameNonPositiveInteger, corpus.SerialInteger, nil, bound(zero)),
		integer(corpus.SerialNegativeInteger, TypeNameNegativeInteger, corpus.SerialNonPositiveInteger, nil, bound(minusOne)),
		integer(corpus.SerialInt, TypeNameInt, corpus.SerialLong, bound(num.MinInt32), bound(num.MaxInt32)),
		integer(corpus.SerialShort, TypeNameShort, corpus.SerialInt, bound(num.MinInt16), bound(num.MaxInt16)),
		integer(corpus.SerialByte, TypeNameByte, corpus.SerialShort, bound(num.MinInt8), bound(num.MaxInt8)),
		integer(corpus.SerialUnsignedShort, TypeNameUnsignedShort, corpus.SerialUnsignedInt, bound(zero), bound(num.MaxUint16)),
		integer(corpus.SerialUnsignedByte, TypeNameUnsignedByte, corpus.SerialUnsignedShort, bound(zero), bound(num.MaxUint8)),
		integer(corpus.SerialLong, TypeNameLong, corpus.SerialInteger, bound(num.MinInt64), bound(num.MaxInt64)),
		integer(corpus.SerialUnsignedInt, TypeNameUnsignedInt, corpus.SerialUnsignedLong, bound(zero), bound(num.MaxUint32)),
		normalized,
		token(corpus.SerialToken, TypeNameToken, corpus.SerialNormalizedString, LexicalAny),
		token(corpus.SerialLanguage, TypeNameLanguage, corpus.SerialToken, LexicalLanguage),
		token(corpus.SerialName, TypeNameName, corpus.SerialToken, LexicalName),
		token(corpus.SerialNCName, TypeNameNCName, corpus.SerialName, LexicalNCName),
		token(corpus.SerialNMTOKEN, TypeNameNMTOKEN, corpus.SerialToken, LexicalNMTOKEN),
		token(corpus.SerialENTITY, TypeNameENTITY, corpus.SerialNCName, LexicalNCName),
		token(corpus.SerialIDREF, TypeNameIDREF, corpus.SerialNCName, LexicalNCName),
		token(corpus.SerialID, TypeNameID, corpus.SerialNCName, LexicalNCName),
		list(corpus.SerialENTITIES, TypeNameENTITIES, corpus.SerialENTITY),
		list(corpus.SerialIDREFS, TypeNameIDREFS, corpus.SerialIDREF),
		list(corpus.SerialNMTOKENS, TypeNameNMTOKENS, corpus.SerialNMTOKEN),
	}

	t := &Table{entries: entries, byName: make(map[string]corpus.Serial, len(entries))}
	for _, e := range entries {
		t.byName[e.Name] = e.Serial
	}
	return t
}

// Entries returns the built-ins in serial order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Entry returns the entry for serial s.
func (t *Table) Entry(s corpus.Serial) (Entry, bool) {
	if s < 0 || int(s) >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[s], true
}

// Lookup finds a built-in by name.
func (t *Table) Lookup(uri, name string) (Entry, bool) {
	if uri != XSDNamespace {
		return Entry{}, false
	}
	s, ok := t.byName[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[s], true
}

// ListItem returns the item type of a built-in list type.
func (t *Table) ListItem(name string) (string, bool) {
	e, ok := t.Lookup(XSDNamespace, name)
	if !ok || e.Variety != corpus.VarietyList {
		return "", false
	}
	return t.entries[e.Item].Name, true
}
