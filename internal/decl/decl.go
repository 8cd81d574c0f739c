// Package decl is the schema declaration graph handed from the schema
// reader to the compiler. Model group and attribute group references are
// already expanded; type, element and attribute references are still
// qualified names.
package decl

import (
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

// QName is a namespace-qualified component name.
type QName = corpus.QName

// Set is a schema set in load order.
type Set struct {
	Schemas []*Schema
}

// Schema is one schema document after include and import processing.
// Chameleon-included documents are folded into the includer's namespace.
type Schema struct {
	TargetNamespace string
	Location        string
	Imports         []string
	Includes        []string
	SimpleTypes     []*SimpleType
	ComplexTypes    []*ComplexType
	Elements        []*Element
	Attributes      []*Attribute
}

// Namespaces are the prefix bindings in scope at a declaration.
// The empty prefix is the default namespace.
type Namespaces map[string]string

// Pos locates a declaration in its source document.
type Pos struct {
	SystemID string
	Line     int
}

// SimpleType is a simple type definition, global or anonymous.
type SimpleType struct {
	Pos
	Name QName
	// Base names the restriction base; BaseType is an inline base.
	Base     QName
	BaseType *SimpleType
	// ItemType names the list item type; Item is an inline item type.
	ItemType QName
	Item     *SimpleType
	// MemberTypes names union members; Members are inline members and
	// follow the named ones.
	MemberTypes []QName
	Members     []*SimpleType
	Facets      []Facet
	Namespaces  Namespaces
	Derivation  corpus.Derivation
	Final       corpus.DerivationSet
}

// Anonymous reports whether t has no name.
func (t *SimpleType) Anonymous() bool {
	return t.Name.Local == ""
}

// Facet is one constraining facet element in document order.
type Facet struct {
	Name  string
	Value string
	Line  int
	Fixed bool
}

// ComplexType is a complex type definition, global or anonymous.
type ComplexType struct {
	Pos
	Name QName
	Base QName
	// SimpleContent holds the facets and inline type of a simpleContent
	// restriction; its Base is unused.
	SimpleContent     *SimpleType
	Particle          *Particle
	AttributeWildcard *Wildcard
	Attributes        []*AttributeUse
	Derivation        corpus.Derivation
	Block             corpus.DerivationSet
	Final             corpus.DerivationSet
	Simple            bool
	Mixed             bool
	Abstract          bool
}

// Anonymous reports whether t has no name.
func (t *ComplexType) Anonymous() bool {
	return t.Name.Local == ""
}

// Value is a default or fixed value constraint.
type Value struct {
	Lexical string
	Fixed   bool
}

// Element is an element declaration or, with Ref set, a reference to a
// global one.
type Element struct {
	Pos
	Name              QName
	Ref               QName
	Type              QName
	SimpleType        *SimpleType
	ComplexType       *ComplexType
	SubstitutionGroup QName
	Value             *Value
	Namespaces        Namespaces
	Block             corpus.DerivationSet
	Final             corpus.DerivationSet
	Global            bool
	Abstract          bool
	Nillable          bool
}

// IsRef reports whether e refers to a global element.
func (e *Element) IsRef() bool {
	return e.Ref.Local != ""
}

// Attribute is an attribute declaration.
type Attribute struct {
	Pos
	Name       QName
	Type       QName
	SimpleType *SimpleType
	Value      *Value
	Namespaces Namespaces
	Global     bool
}

// Use is the use attribute of an attribute reference or local declaration.
type Use uint8

const (
	UseOptional Use = iota
	UseRequired
	UseProhibited
)

// AttributeUse places an attribute in a complex type.
type AttributeUse struct {
	Pos
	// Ref names a global attribute; otherwise Attribute is local.
	Ref        QName
	Attribute  *Attribute
	Value      *Value
	Namespaces Namespaces
	Use        Use
}

// Particle is a content model node with occurrence bounds.
// Max is corpus.Unbounded for maxOccurs="unbounded".
type Particle struct {
	Pos
	Element    *Element
	Wildcard   *Wildcard
	Particles  []*Particle
	Min        int
	Max        int
	Term       corpus.TermKind
	Compositor corpus.Compositor
}

// Wildcard is an any or anyAttribute wildcard.
type Wildcard struct {
	Pos
	Def corpus.WildcardDef
}
