package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/schemaread"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

const header = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:p="urn:p" targetNamespace="urn:p" elementFormDefault="qualified">
`

func schema(body string) string {
	return header + body + "</xs:schema>\n"
}

func compileDocs(t *testing.T, docs map[string]string, roots ...string) (*corpus.Corpus, xsderrors.DiagnosticList, error) {
	t.Helper()
	src := make(map[string][]byte, len(docs))
	for k, v := range docs {
		src[k] = []byte(v)
	}
	set, err := (&schemaread.Reader{Documents: src}).Read(roots...)
	if err != nil {
		return nil, nil, err
	}
	var diags xsderrors.Collector
	c, err := Compile(set, Config{Monitor: &diags})
	return c, diags.Diagnostics(), err
}

func compileOne(t *testing.T, body string) (*corpus.Corpus, xsderrors.DiagnosticList) {
	t.Helper()
	c, diags, err := compileDocs(t, map[string]string{"main.xsd": schema(body)}, "main.xsd")
	require.NoError(t, err)
	return c, diags
}

func requireFatal(t *testing.T, err error, code xsderrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var ce *xsderrors.CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, code, ce.Code())
}

func lineOf(src, needle string) int {
	i := strings.Index(src, needle)
	if i < 0 {
		return 0
	}
	return strings.Count(src[:i], "\n") + 1
}

func TestEnumerationRestriction(t *testing.T) {
	t.Parallel()

	c, diags := compileOne(t, `
  <xs:simpleType name="bad">
    <xs:restriction base="xs:string">
      <xs:maxLength value="1"/>
      <xs:enumeration value="ab"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:simpleType name="good">
    <xs:restriction base="xs:string">
      <xs:maxLength value="1"/>
      <xs:enumeration value="a"/>
    </xs:restriction>
  </xs:simpleType>
`)
	require.Len(t, diags, 1)
	assert.Equal(t, xsderrors.ErrEnumerationRestriction, diags[0].Code)
	assert.Equal(t, 0, c.EnumerationCountOf(c.TypeOf("urn:p", "bad")))

	good := c.TypeOf("urn:p", "good")
	require.Equal(t, 1, c.EnumerationCountOf(good))
	assert.Equal(t, "a", c.EnumerationValueOf(good, 0).Text())
	assert.Equal(t, 1, c.FacetsOf(good).MaxLength)
}

func TestSimpleTypeShapes(t *testing.T) {
	t.Parallel()

	c, diags := compileOne(t, `
  <xs:simpleType name="small">
    <xs:restriction base="xs:int">
      <xs:minInclusive value="1"/>
      <xs:maxInclusive value="10"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:simpleType name="smalls">
    <xs:list itemType="p:small"/>
  </xs:simpleType>
  <xs:simpleType name="either">
    <xs:union memberTypes="p:small xs:boolean"/>
  </xs:simpleType>
`)
	require.Empty(t, diags)

	small := c.TypeOf("urn:p", "small")
	assert.Equal(t, corpus.VarietyAtomic, c.VarietyOfSimpleType(small))
	assert.Equal(t, c.BuiltinTypeOf(corpus.SerialInt), c.BaseTypeOfSimpleType(small))
	assert.True(t, c.IsIntegral(small))
	hi, ok := c.MaxInclusiveOf(small)
	require.True(t, ok)
	assert.Equal(t, "10", hi.Canonical())

	smalls := c.TypeOf("urn:p", "smalls")
	assert.Equal(t, corpus.VarietyList, c.VarietyOfSimpleType(smalls))
	assert.Equal(t, small, c.ItemTypeOfList(smalls))

	either := c.TypeOf("urn:p", "either")
	assert.Equal(t, corpus.VarietyUnion, c.VarietyOfSimpleType(either))
	assert.Equal(t, []corpus.TypeID{small, c.BuiltinTypeOf(corpus.SerialBoolean)}, c.MemberTypesOfUnion(either))
}

func TestFacetDiagnostics(t *testing.T) {
	t.Parallel()

	src := schema(`
  <xs:simpleType name="loose">
    <xs:restriction base="xs:token">
      <xs:whiteSpace value="preserve"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:simpleType name="digits">
    <xs:restriction base="xs:boolean">
      <xs:totalDigits value="3"/>
    </xs:restriction>
  </xs:simpleType>
`)
	_, diags, err := compileDocs(t, map[string]string{"main.xsd": src}, "main.xsd")
	require.NoError(t, err)
	assert.Equal(t, []xsderrors.ErrorCode{xsderrors.ErrWhitespaceRestriction, xsderrors.ErrApplicableFacets}, diags.Codes())
	assert.Equal(t, lineOf(src, `<xs:whiteSpace`), diags[0].Line)
	assert.Equal(t, lineOf(src, `<xs:totalDigits`), diags[1].Line)
}

func TestFinalBlocksDerivation(t *testing.T) {
	t.Parallel()

	_, diags := compileOne(t, `
  <xs:simpleType name="sealed" final="restriction">
    <xs:restriction base="xs:string"/>
  </xs:simpleType>
  <xs:simpleType name="derived">
    <xs:restriction base="p:sealed"/>
  </xs:simpleType>
`)
	assert.Equal(t, []xsderrors.ErrorCode{xsderrors.ErrFinal}, diags.Codes())
}

func TestFatalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		docs map[string]string
		code xsderrors.ErrorCode
	}{
		{
			name: "simple type cycle",
			docs: map[string]string{"main.xsd": schema(`
  <xs:simpleType name="a"><xs:restriction base="p:b"/></xs:simpleType>
  <xs:simpleType name="b"><xs:restriction base="p:a"/></xs:simpleType>
`)},
			code: xsderrors.ErrSimpleTypeCycle,
		},
		{
			name: "complex type cycle",
			docs: map[string]string{"main.xsd": schema(`
  <xs:complexType name="a"><xs:complexContent><xs:extension base="p:b"/></xs:complexContent></xs:complexType>
  <xs:complexType name="b"><xs:complexContent><xs:extension base="p:a"/></xs:complexContent></xs:complexType>
`)},
			code: xsderrors.ErrComplexTypeCycle,
		},
		{
			name: "unresolved type",
			docs: map[string]string{"main.xsd": schema(`
  <xs:element name="e" type="p:missing"/>
`)},
			code: xsderrors.ErrResolve,
		},
		{
			name: "unresolved element ref",
			docs: map[string]string{"main.xsd": schema(`
  <xs:complexType name="t"><xs:sequence><xs:element ref="p:missing"/></xs:sequence></xs:complexType>
`)},
			code: xsderrors.ErrResolve,
		},
		{
			name: "duplicate global type",
			docs: map[string]string{
				"main.xsd":  schema(`<xs:include schemaLocation="other.xsd"/><xs:simpleType name="t"><xs:restriction base="xs:string"/></xs:simpleType>`),
				"other.xsd": schema(`<xs:simpleType name="t"><xs:restriction base="xs:int"/></xs:simpleType>`),
			},
			code: xsderrors.ErrDuplicateGlobal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := compileDocs(t, tt.docs, "main.xsd")
			requireFatal(t, err, tt.code)
		})
	}
}

func TestRecursiveContentIsNotACycle(t *testing.T) {
	t.Parallel()

	c, diags := compileOne(t, `
  <xs:complexType name="node">
    <xs:sequence>
      <xs:element name="child" type="p:node" minOccurs="0" maxOccurs="unbounded"/>
    </xs:sequence>
  </xs:complexType>
`)
	require.Empty(t, diags)
	node := c.TypeOf("urn:p", "node")
	p := c.Particle(c.ParticleOf(node))
	require.Equal(t, corpus.TermGroup, p.Term)
	child := c.Particle(c.Group(p.Group).Particles[0])
	assert.Equal(t, node, c.TypeOfElement(child.Element))
	assert.Equal(t, corpus.Unbounded, child.Max)
}

func TestComplexExtension(t *testing.T) {
	t.Parallel()

	c, diags := compileOne(t, `
  <xs:complexType name="base">
    <xs:sequence><xs:element name="a" type="xs:string"/></xs:sequence>
    <xs:attribute name="id" type="xs:ID" use="required"/>
  </xs:complexType>
  <xs:complexType name="derived">
    <xs:complexContent>
      <xs:extension base="p:base">
        <xs:sequence><xs:element name="b" type="xs:int"/></xs:sequence>
        <xs:attribute name="lang" type="xs:language" default="en"/>
      </xs:extension>
    </xs:complexContent>
  </xs:complexType>
`)
	require.Empty(t, diags)

	base := c.TypeOf("urn:p", "base")
	derived := c.TypeOf("urn:p", "derived")
	assert.Equal(t, base, c.BaseTypeOf(derived))
	assert.Equal(t, corpus.DerivationExtension, c.DerivationOf(derived))
	assert.Equal(t, corpus.ContentElementOnly, c.ContentClassOf(derived))

	p := c.Particle(c.ParticleOf(derived))
	require.Equal(t, corpus.TermGroup, p.Term)
	g := c.Group(p.Group)
	assert.Equal(t, corpus.Sequence, g.Compositor)
	require.Len(t, g.Particles, 2)
	assert.Equal(t, c.ParticleOf(base), g.Particles[0])

	uses := c.AttributeUsesOf(derived)
	require.Len(t, uses, 2)
	assert.Equal(t, corpus.QName{Local: "id"}, c.AttributeQName(uses[0].Attr))
	assert.True(t, uses[0].Required)
	assert.Equal(t, corpus.QName{Local: "lang"}, c.AttributeQName(uses[1].Attr))
	assert.Equal(t, corpus.ConstraintDefault, uses[1].Constraint.Kind)
	assert.Equal(t, "en", uses[1].Constraint.Value.Text())
}

func TestProhibitedAttributeRemovesInheritedUse(t *testing.T) {
	t.Parallel()

	c, diags := compileOne(t, `
  <xs:complexType name="base">
    <xs:attribute name="a" type="xs:string"/>
    <xs:attribute name="b" type="xs:string"/>
  </xs:complexType>
  <xs:complexType name="derived">
    <xs:complexContent>
      <xs:restriction base="p:base">
        <xs:attribute name="a" use="prohibited"/>
      </xs:restriction>
    </xs:complexContent>
  </xs:complexType>
`)
	require.Empty(t, diags)
	uses := c.AttributeUsesOf(c.TypeOf("urn:p", "derived"))
	require.Len(t, uses, 1)
	assert.Equal(t, corpus.QName{Local: "b"}, c.AttributeQName(uses[0].Attr))
}

func TestSimpleContent(t *testing.T) {
	t.Parallel()

	c, diags := compileOne(t, `
  <xs:complexType name="price">
    <xs:simpleContent>
      <xs:extension base="xs:decimal">
        <xs:attribute name="currency" type="xs:string"/>
      </xs:extension>
    </xs:simpleContent>
  </xs:complexType>
  <xs:complexType name="cheap">
    <xs:simpleContent>
      <xs:restriction base="p:price">
        <xs:maxInclusive value="5"/>
      </xs:restriction>
    </xs:simpleContent>
  </xs:complexType>
  <xs:element name="total" type="p:price" fixed="1.50"/>
`)
	require.Empty(t, diags)

	price := c.TypeOf("urn:p", "price")
	assert.False(t, c.IsSimpleType(price))
	assert.Equal(t, corpus.ContentSimple, c.ContentClassOf(price))
	assert.Equal(t, c.BuiltinTypeOf(corpus.SerialDecimal), c.ContentTypeOf(price))
	require.Len(t, c.AttributeUsesOf(price), 1)

	cheap := c.TypeOf("urn:p", "cheap")
	content := c.ContentTypeOf(cheap)
	assert.Equal(t, c.BuiltinTypeOf(corpus.SerialDecimal), c.BaseTypeOfSimpleType(content))
	hi, ok := c.MaxInclusiveOf(content)
	require.True(t, ok)
	assert.Equal(t, "5.0", hi.Canonical())
	assert.Len(t, c.AttributeUsesOf(cheap), 1)

	total := c.ConstraintOf(c.GlobalElementOf("urn:p", "total"))
	assert.Equal(t, corpus.ConstraintFixed, total.Kind)
	assert.Equal(t, variant.Decimal, total.Value.Kind())
	assert.Equal(t, "1.50", total.Lexical)
}

func TestValueConstraints(t *testing.T) {
	t.Parallel()

	src := schema(`
  <xs:element name="count" type="xs:int" default="abc"/>
  <xs:element name="size" type="xs:int" fixed="7"/>
  <xs:element name="any" default="text"/>
  <xs:attribute name="flag" type="xs:boolean" default="maybe"/>
  <xs:complexType name="empty"/>
  <xs:element name="none" type="p:empty" default="x"/>
`)
	c, diags, err := compileDocs(t, map[string]string{"main.xsd": src}, "main.xsd")
	require.NoError(t, err)
	assert.Equal(t, []xsderrors.ErrorCode{
		xsderrors.ErrElementDefault,
		xsderrors.ErrElementDefault,
		xsderrors.ErrAttributeDefault,
	}, diags.Codes())
	assert.Equal(t, lineOf(src, `name="count"`), diags[0].Line)

	assert.Equal(t, corpus.ConstraintNone, c.ConstraintOf(c.GlobalElementOf("urn:p", "count")).Kind)
	size := c.ConstraintOf(c.GlobalElementOf("urn:p", "size"))
	assert.Equal(t, corpus.ConstraintFixed, size.Kind)
	assert.Equal(t, "7", size.Value.Canonical())

	anyElem := c.GlobalElementOf("urn:p", "any")
	assert.Equal(t, c.BuiltinTypeOf(corpus.SerialAnyType), c.TypeOfElement(anyElem))
	assert.Equal(t, "text", c.ConstraintOf(anyElem).Value.Text())
	assert.Equal(t, corpus.ConstraintNone, c.AttributeConstraintOf(c.GlobalAttributeOf("urn:p", "flag")).Kind)
}

func TestSubstitutionGroups(t *testing.T) {
	t.Parallel()

	c, diags := compileOne(t, `
  <xs:element name="head" type="xs:decimal"/>
  <xs:element name="member" substitutionGroup="p:head"/>
  <xs:element name="self" type="xs:string" substitutionGroup="p:self"/>
`)
	require.Equal(t, []xsderrors.ErrorCode{xsderrors.ErrSubstitutionCycle}, diags.Codes())

	head := c.GlobalElementOf("urn:p", "head")
	member := c.GlobalElementOf("urn:p", "member")
	assert.Equal(t, []corpus.ElemID{member}, c.SubstitutablesOf(head))
	assert.Equal(t, head, c.SubstitutionHeadOf(member))
	assert.Equal(t, c.BuiltinTypeOf(corpus.SerialDecimal), c.TypeOfElement(member))
	assert.Empty(t, c.SubstitutablesOf(c.GlobalElementOf("urn:p", "self")))
}

const restrictionSchema = `
  <xs:element name="B" type="xs:string"/>
  <xs:element name="C" type="xs:string"/>
  <xs:element name="D" type="xs:string" substitutionGroup="p:C"/>
  <xs:element name="E" type="xs:string"%s/>
  <xs:complexType name="base">
    <xs:choice minOccurs="0" maxOccurs="unbounded">
      <xs:element ref="p:B"/>
      <xs:element ref="p:C"/>
    </xs:choice>
  </xs:complexType>
  <xs:complexType name="derived">
    <xs:complexContent>
      <xs:restriction base="p:base">
        <xs:choice minOccurs="0" maxOccurs="unbounded">
          <xs:element ref="p:B"/>
          <xs:choice>
            <xs:element ref="p:D"/>
            <xs:element ref="p:E"/>
          </xs:choice>
        </xs:choice>
      </xs:restriction>
    </xs:complexContent>
  </xs:complexType>
`

func TestParticleRestriction(t *testing.T) {
	t.Parallel()

	t.Run("members cover the derived choice", func(t *testing.T) {
		t.Parallel()
		c, diags := compileOne(t, strings.Replace(restrictionSchema, "%s", ` substitutionGroup="p:C"`, 1))
		require.Empty(t, diags)
		assert.NotEqual(t, corpus.NilType, c.TypeOf("urn:p", "derived"))
	})

	t.Run("missing member", func(t *testing.T) {
		t.Parallel()
		src := schema(strings.Replace(restrictionSchema, "%s", "", 1))
		c, diags, err := compileDocs(t, map[string]string{"main.xsd": src}, "main.xsd")
		require.NoError(t, err)
		require.Equal(t, []xsderrors.ErrorCode{xsderrors.ErrRecurseLax, xsderrors.ErrDerivationRestriction}, diags.Codes())
		line := lineOf(src, `<xs:complexType name="derived">`)
		assert.Equal(t, line, diags[0].Line)
		assert.Equal(t, line, diags[1].Line)
		assert.NotEqual(t, corpus.NilType, c.TypeOf("urn:p", "derived"))
	})
}

func TestSerialOrder(t *testing.T) {
	t.Parallel()

	c, _ := compileOne(t, `
  <xs:simpleType name="zeta"><xs:restriction base="xs:string"/></xs:simpleType>
  <xs:element name="e"><xs:simpleType><xs:restriction base="xs:int"/></xs:simpleType></xs:element>
  <xs:simpleType name="alpha"><xs:restriction base="xs:string"/></xs:simpleType>
`)
	assert.Equal(t, corpus.NumBuiltinSerials, c.SerialOf(c.TypeOf("urn:p", "alpha")))
	assert.Equal(t, corpus.NumBuiltinSerials+1, c.SerialOf(c.TypeOf("urn:p", "zeta")))
	anon := c.TypeOfElement(c.GlobalElementOf("urn:p", "e"))
	assert.Equal(t, corpus.NumBuiltinSerials+2, c.SerialOf(anon))
	assert.Equal(t, corpus.SerialDecimal, c.AncestryIDOf(anon))
}
