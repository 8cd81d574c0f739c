package schemaread

import (
	"bytes"
	"maps"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/decl"
	"github.com/jacoelho/xsdcorpus/internal/whitespace"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

const (
	// XSDNamespace is the XML Schema namespace.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema"
	xmlNamespace = "http://www.w3.org/XML/1998/namespace"
)

var (
	xpSchema   = xpath.MustCompile(`/*[local-name()='schema' and namespace-uri()='` + XSDNamespace + `']`)
	xpChildren = xpath.MustCompile(`*[namespace-uri()='` + XSDNamespace + `']`)
)

// document is one parsed schema document read in the namespace it
// contributes to.
type document struct {
	root     *xmlquery.Node
	lines    map[*xmlquery.Node]int
	scopes   map[*xmlquery.Node]decl.Namespaces
	schema   *decl.Schema
	systemID string
	// tns is the effective target namespace; a chameleon include uses
	// the includer's.
	tns                string
	chameleon          bool
	elementQualified   bool
	attributeQualified bool
	blockDefault       corpus.DerivationSet
	finalDefault       corpus.DerivationSet
}

func parseDocument(systemID string, data []byte) (*document, error) {
	top, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, xsderrors.WrapFatal(err, xsderrors.NewDiagnosticf(xsderrors.ErrSchemaParse, systemID, 0,
			"malformed schema document: %v", err))
	}
	root := xmlquery.QuerySelector(top, xpSchema)
	if root == nil {
		return nil, xsderrors.Fatalf(xsderrors.ErrSchemaParse, systemID, 1, "document element is not xs:schema")
	}
	d := &document{
		root:     root,
		lines:    make(map[*xmlquery.Node]int),
		scopes:   make(map[*xmlquery.Node]decl.Namespaces),
		systemID: systemID,
	}
	lines := elementLines(data)
	i := 0
	var walk func(n *xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			if i < len(lines) {
				d.lines[c] = lines[i]
			}
			i++
			walk(c)
		}
	}
	walk(top)
	return d, nil
}

func (d *document) line(n *xmlquery.Node) int {
	return d.lines[n]
}

func (d *document) pos(n *xmlquery.Node) decl.Pos {
	return decl.Pos{SystemID: d.systemID, Line: d.line(n)}
}

func (d *document) fatalf(code xsderrors.ErrorCode, n *xmlquery.Node, format string, args ...any) error {
	return xsderrors.Fatalf(code, d.systemID, d.line(n), format, args...)
}

// children returns the XML Schema element children of n, skipping
// annotations.
func children(n *xmlquery.Node) []*xmlquery.Node {
	all := xmlquery.QuerySelectorAll(n, xpChildren)
	out := all[:0]
	for _, c := range all {
		if c.Data != "annotation" {
			out = append(out, c)
		}
	}
	return out
}

func attr(n *xmlquery.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func attrOr(n *xmlquery.Node, name, def string) string {
	if v, ok := attr(n, name); ok {
		return v
	}
	return def
}

func boolAttr(n *xmlquery.Node, name string) bool {
	v, _ := attr(n, name)
	v = whitespace.Normalize(whitespace.Collapse, v)
	return v == "true" || v == "1"
}

// namespaces returns the prefix bindings in scope at n.
func (d *document) namespaces(n *xmlquery.Node) decl.Namespaces {
	if n == nil || n.Type != xmlquery.ElementNode {
		return decl.Namespaces{"xml": xmlNamespace}
	}
	if ns, ok := d.scopes[n]; ok {
		return ns
	}
	// cached scopes are shared with descendants and never mutated
	ns := d.namespaces(n.Parent)
	copied := false
	for _, a := range n.Attr {
		prefix, isDecl := "", false
		switch {
		case a.Name.Space == "xmlns":
			prefix, isDecl = a.Name.Local, true
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			isDecl = true
		}
		if !isDecl {
			continue
		}
		if !copied {
			ns = maps.Clone(ns)
			copied = true
		}
		ns[prefix] = a.Value
	}
	d.scopes[n] = ns
	return ns
}

// qname resolves a QName-valued attribute of n.
func (d *document) qname(n *xmlquery.Node, value string) (decl.QName, error) {
	value = whitespace.Normalize(whitespace.Collapse, value)
	prefix, local, found := strings.Cut(value, ":")
	if !found {
		prefix, local = "", value
	}
	uri, ok := d.namespaces(n)[prefix]
	if !ok && prefix != "" {
		return decl.QName{}, d.fatalf(xsderrors.ErrResolve, n, "prefix %q of %q is not bound", prefix, value)
	}
	if uri == "" && d.chameleon {
		uri = d.tns
	}
	return decl.QName{URI: uri, Local: local}, nil
}

// qnameAttr resolves the QName attribute name of n, if present.
func (d *document) qnameAttr(n *xmlquery.Node, name string) (decl.QName, error) {
	v, ok := attr(n, name)
	if !ok {
		return decl.QName{}, nil
	}
	return d.qname(n, v)
}

// scopeFor returns the bindings a QName-valued literal at n resolves
// with. Chameleon documents rebind the absent default namespace.
func (d *document) scopeFor(n *xmlquery.Node) decl.Namespaces {
	ns := d.namespaces(n)
	if !d.chameleon || ns[""] != "" {
		return ns
	}
	out := maps.Clone(ns)
	out[""] = d.tns
	return out
}
