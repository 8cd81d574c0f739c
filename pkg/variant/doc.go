// Package variant holds schema-typed literal values in canonical form.
// A Variant is a closed sum over the XSD primitive value spaces; Encode
// turns a lexical form into a Variant and Compare orders two of them the
// way facet checks require.
package variant
