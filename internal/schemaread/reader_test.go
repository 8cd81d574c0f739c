package schemaread

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/decl"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

const mainSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:t="urn:main" targetNamespace="urn:main"
           elementFormDefault="qualified" blockDefault="substitution">
  <xs:simpleType name="code">
    <xs:restriction base="xs:string">
      <xs:maxLength value="3"/>
      <xs:enumeration value="abc"/>
      <xs:pattern value="[a-z]+"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:simpleType name="codes">
    <xs:list itemType="t:code"/>
  </xs:simpleType>
  <xs:simpleType name="either">
    <xs:union memberTypes="t:code xs:int">
      <xs:simpleType><xs:restriction base="xs:boolean"/></xs:simpleType>
    </xs:union>
  </xs:simpleType>
  <xs:group name="pair">
    <xs:sequence>
      <xs:element name="first" type="xs:string"/>
      <xs:element ref="t:root" minOccurs="0"/>
    </xs:sequence>
  </xs:group>
  <xs:attributeGroup name="common">
    <xs:attribute name="id" type="xs:ID" use="required"/>
    <xs:anyAttribute namespace="##other" processContents="lax"/>
  </xs:attributeGroup>
  <xs:complexType name="pairType" block="#all">
    <xs:choice maxOccurs="unbounded">
      <xs:group ref="t:pair" maxOccurs="2"/>
      <xs:any namespace="##local urn:x" processContents="skip"/>
    </xs:choice>
    <xs:attributeGroup ref="t:common"/>
    <xs:attribute name="lang" type="xs:language" default="en"/>
  </xs:complexType>
  <xs:element name="root" type="t:pairType" nillable="true"/>
  <xs:element name="fixed" type="xs:int" fixed="7" substitutionGroup="t:root"/>
</xs:schema>`

func TestReadComponents(t *testing.T) {
	t.Parallel()

	r := &Reader{FS: fstest.MapFS{"main.xsd": {Data: []byte(mainSchema)}}}
	set, err := r.Read("main.xsd")
	require.NoError(t, err)
	require.Len(t, set.Schemas, 1)
	s := set.Schemas[0]
	assert.Equal(t, "urn:main", s.TargetNamespace)

	require.Len(t, s.SimpleTypes, 3)
	code := s.SimpleTypes[0]
	assert.Equal(t, decl.QName{URI: "urn:main", Local: "code"}, code.Name)
	assert.Equal(t, 5, code.Line)
	assert.Equal(t, "main.xsd", code.SystemID)
	assert.Equal(t, corpus.DerivationRestriction, code.Derivation)
	assert.Equal(t, decl.QName{URI: XSDNamespace, Local: "string"}, code.Base)
	require.Len(t, code.Facets, 3)
	assert.Equal(t, decl.Facet{Name: "maxLength", Value: "3", Line: 7}, code.Facets[0])
	assert.Equal(t, "enumeration", code.Facets[1].Name)
	assert.Equal(t, "urn:main", code.Namespaces["t"])

	codes := s.SimpleTypes[1]
	assert.Equal(t, corpus.DerivationList, codes.Derivation)
	assert.Equal(t, code.Name, codes.ItemType)

	either := s.SimpleTypes[2]
	assert.Equal(t, corpus.DerivationUnion, either.Derivation)
	assert.Equal(t, []decl.QName{code.Name, {URI: XSDNamespace, Local: "int"}}, either.MemberTypes)
	require.Len(t, either.Members, 1)
	assert.True(t, either.Members[0].Anonymous())

	require.Len(t, s.ComplexTypes, 1)
	ct := s.ComplexTypes[0]
	assert.Equal(t, AnyType, ct.Base)
	assert.Equal(t, corpus.DerivationSetExtension|corpus.DerivationSetRestriction, ct.Block)
	require.NotNil(t, ct.Particle)
	assert.Equal(t, corpus.Choice, ct.Particle.Compositor)
	assert.Equal(t, corpus.Unbounded, ct.Particle.Max)
	require.Len(t, ct.Particle.Particles, 2)

	pair := ct.Particle.Particles[0]
	assert.Equal(t, corpus.Sequence, pair.Compositor)
	assert.Equal(t, 2, pair.Max)
	require.Len(t, pair.Particles, 2)
	assert.Equal(t, decl.QName{URI: "urn:main", Local: "first"}, pair.Particles[0].Element.Name)
	assert.True(t, pair.Particles[1].Element.IsRef())
	assert.Equal(t, 0, pair.Particles[1].Min)

	wc := ct.Particle.Particles[1].Wildcard
	require.NotNil(t, wc)
	assert.Equal(t, corpus.NamespaceSet, wc.Def.Kind)
	assert.Equal(t, []string{"", "urn:x"}, wc.Def.URIs)
	assert.Equal(t, corpus.ProcessSkip, wc.Def.Process)

	require.Len(t, ct.Attributes, 2)
	assert.Equal(t, decl.UseRequired, ct.Attributes[0].Use)
	assert.Equal(t, decl.QName{Local: "id"}, ct.Attributes[0].Attribute.Name)
	assert.Equal(t, &decl.Value{Lexical: "en"}, ct.Attributes[1].Value)
	require.NotNil(t, ct.AttributeWildcard)
	assert.Equal(t, corpus.NamespaceNot, ct.AttributeWildcard.Def.Kind)

	require.Len(t, s.Elements, 2)
	root := s.Elements[0]
	assert.True(t, root.Global)
	assert.True(t, root.Nillable)
	assert.Equal(t, corpus.DerivationSetSubstitution, root.Block)
	fixed := s.Elements[1]
	assert.Equal(t, &decl.Value{Lexical: "7", Fixed: true}, fixed.Value)
	assert.Equal(t, root.Name, fixed.SubstitutionGroup)
}

func TestChameleonInclude(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a/main.xsd": {Data: []byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:a">
  <xs:include schemaLocation="../common/types.xsd"/>
</xs:schema>`)},
		"common/types.xsd": {Data: []byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:simpleType name="word"><xs:restriction base="xs:token"/></xs:simpleType>
  <xs:element name="w" type="word"/>
</xs:schema>`)},
	}
	set, err := (&Reader{FS: fsys}).Read("a/main.xsd")
	require.NoError(t, err)
	require.Len(t, set.Schemas, 2)
	inc := set.Schemas[1]
	assert.Equal(t, "common/types.xsd", inc.Location)
	assert.Equal(t, "urn:a", inc.TargetNamespace)
	assert.Equal(t, []string{"common/types.xsd"}, set.Schemas[0].Includes)
	assert.Equal(t, decl.QName{URI: "urn:a", Local: "word"}, inc.SimpleTypes[0].Name)
	assert.Equal(t, decl.QName{URI: "urn:a", Local: "word"}, inc.Elements[0].Type)
	assert.Equal(t, "urn:a", inc.Elements[0].Namespaces[""])
}

func TestImportOrderAndCompression(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:b">
  <xs:element name="b" type="xs:string"/>
</xs:schema>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := &Reader{
		Documents: map[string][]byte{
			"main.xsd": []byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:a">
  <xs:import namespace="urn:b" schemaLocation="b.xsd.xz"/>
  <xs:import namespace="http://www.w3.org/XML/1998/namespace" schemaLocation="http://www.w3.org/2001/xml.xsd"/>
  <xs:element name="a" type="xs:string"/>
</xs:schema>`),
			"b.xsd.xz": buf.Bytes(),
		},
	}
	set, err := r.Read("main.xsd")
	require.NoError(t, err)
	require.Len(t, set.Schemas, 2)
	assert.Equal(t, "urn:a", set.Schemas[0].TargetNamespace)
	assert.Equal(t, "urn:b", set.Schemas[1].TargetNamespace)
	assert.Equal(t, []string{"b.xsd.xz"}, set.Schemas[0].Imports)
	assert.Equal(t, "b", set.Schemas[1].Elements[0].Name.Local)
}

func TestReadFatalErrors(t *testing.T) {
	t.Parallel()

	const head = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:t="urn:t" targetNamespace="urn:t">`
	tests := []struct {
		name string
		doc  string
		code xsderrors.ErrorCode
		line int
	}{
		{name: "malformed", doc: head + `<xs:element name="a">`, code: xsderrors.ErrSchemaParse},
		{name: "not a schema", doc: `<root/>`, code: xsderrors.ErrSchemaParse, line: 1},
		{name: "missing include", doc: head + "\n" + `<xs:include schemaLocation="nope.xsd"/></xs:schema>`, code: xsderrors.ErrSchemaLocation, line: 2},
		{name: "unbound prefix", doc: head + "\n" + `<xs:element name="a" type="q:x"/></xs:schema>`, code: xsderrors.ErrResolve, line: 2},
		{name: "unknown group", doc: head + `<xs:complexType name="c"><xs:group ref="t:g"/></xs:complexType></xs:schema>`, code: xsderrors.ErrResolve},
		{name: "group cycle", doc: head + `<xs:group name="g"><xs:sequence><xs:group ref="t:g"/></xs:sequence></xs:group>
<xs:complexType name="c"><xs:group ref="t:g"/></xs:complexType></xs:schema>`, code: xsderrors.ErrGroupCycle},
		{name: "duplicate group", doc: head + `<xs:group name="g"><xs:sequence/></xs:group><xs:group name="g"><xs:sequence/></xs:group></xs:schema>`, code: xsderrors.ErrDuplicateGlobal},
		{name: "bad occurs", doc: head + `<xs:complexType name="c"><xs:sequence minOccurs="2" maxOccurs="1"/></xs:complexType></xs:schema>`, code: xsderrors.ErrSchemaParse},
		{name: "bad block", doc: head + `<xs:element name="e" block="#all extension"/></xs:schema>`, code: xsderrors.ErrSchemaParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := &Reader{Documents: map[string][]byte{"s.xsd": []byte(tt.doc)}}
			_, err := r.Read("s.xsd")
			require.Error(t, err)
			var ce *xsderrors.CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.code, ce.Code())
			assert.True(t, ce.Diagnostic.IsFatal())
			if tt.line > 0 {
				assert.Equal(t, tt.line, ce.Diagnostic.Line)
			}
		})
	}
}

func TestElementLines(t *testing.T) {
	t.Parallel()

	doc := "<a>\n  <b/>\n\n  <c\n   x='1'/>\n</a>"
	assert.Equal(t, []int{1, 2, 4}, elementLines([]byte(doc)))
}

func TestResolveLocation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a/b.xsd", resolveLocation("a/main.xsd", "b.xsd"))
	assert.Equal(t, "common/c.xsd", resolveLocation("a/main.xsd", "../common/c.xsd"))
	assert.Equal(t, "x/y.xsd", resolveLocation("a/main.xsd", "/x/y.xsd"))
	assert.Equal(t, "main.xsd", resolveLocation("", "./main.xsd"))
}
