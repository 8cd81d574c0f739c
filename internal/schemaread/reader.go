// Package schemaread loads schema documents and their include and import
// closure into a declaration graph.
package schemaread

import (
	"io/fs"
	"log/slog"
	"strings"

	"github.com/antchfx/xmlquery"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/decl"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

// Reader loads schema documents. Documents are consulted before FS, so
// in-memory sources can shadow files. Sources starting with the xz magic
// are decompressed.
type Reader struct {
	FS        fs.FS
	Documents map[string][]byte
	Logger    *slog.Logger
}

type docKey struct {
	location string
	tns      string
}

type namedNode struct {
	doc  *document
	node *xmlquery.Node
}

type loader struct {
	r          *Reader
	seen       map[docKey]*document
	groups     map[decl.QName]namedNode
	attrGroups map[decl.QName]namedNode
	activeG    map[decl.QName]bool
	activeAG   map[decl.QName]bool
	docs       []*document
}

// Read loads the documents at locations and everything they include or
// import. Schemas appear in the order they were first reached. Malformed
// documents, missing locations and unresolved group references fail with
// a *errors.CompileError.
func (r *Reader) Read(locations ...string) (*decl.Set, error) {
	l := &loader{
		r:          r,
		seen:       make(map[docKey]*document),
		groups:     make(map[decl.QName]namedNode),
		attrGroups: make(map[decl.QName]namedNode),
		activeG:    make(map[decl.QName]bool),
		activeAG:   make(map[decl.QName]bool),
	}
	for _, loc := range locations {
		if _, err := l.load(resolveLocation("", loc), nil, nil, false); err != nil {
			return nil, err
		}
	}
	set := &decl.Set{}
	for _, d := range l.docs {
		if err := l.components(d); err != nil {
			return nil, err
		}
		set.Schemas = append(set.Schemas, d.schema)
	}
	l.logger().Debug("schema documents read", "documents", len(l.docs), "groups", len(l.groups), "attributeGroups", len(l.attrGroups))
	return set, nil
}

func (l *loader) logger() *slog.Logger {
	if l.r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.r.Logger
}

// load reads location. from and at locate the referencing directive;
// include requests the includer's namespace.
func (l *loader) load(location string, from *document, at *xmlquery.Node, include bool) (*document, error) {
	data, err := l.r.readSource(location)
	if err != nil {
		sys, line := "", 0
		if from != nil {
			sys, line = from.systemID, from.line(at)
		}
		return nil, xsderrors.WrapFatal(err, xsderrors.NewDiagnosticf(xsderrors.ErrSchemaLocation, sys, line,
			"cannot load schema %s: %v", location, err))
	}
	d, err := parseDocument(location, data)
	if err != nil {
		return nil, err
	}
	d.tns = attrOr(d.root, "targetNamespace", "")
	if include {
		switch {
		case d.tns == "" && from.tns != "":
			d.tns, d.chameleon = from.tns, true
		case d.tns != from.tns:
			return nil, from.fatalf(xsderrors.ErrSchemaLocation, at,
				"included schema %s has target namespace %q, expected %q", location, d.tns, from.tns)
		}
	}
	key := docKey{location: location, tns: d.tns}
	if prev, ok := l.seen[key]; ok {
		return prev, nil
	}
	if err := d.readDefaults(); err != nil {
		return nil, err
	}
	d.schema = &decl.Schema{TargetNamespace: d.tns, Location: location}
	l.seen[key] = d
	l.docs = append(l.docs, d)
	l.logger().Debug("schema document loaded", "location", location, "targetNamespace", d.tns, "chameleon", d.chameleon)

	for _, n := range children(d.root) {
		switch n.Data {
		case "include", "redefine":
			loc, ok := attr(n, "schemaLocation")
			if !ok {
				return nil, d.fatalf(xsderrors.ErrSchemaParse, n, "%s without schemaLocation", n.Data)
			}
			target := resolveLocation(location, loc)
			if _, err := l.load(target, d, n, true); err != nil {
				return nil, err
			}
			d.schema.Includes = append(d.schema.Includes, target)
		case "import":
			ns, _ := attr(n, "namespace")
			loc, ok := attr(n, "schemaLocation")
			if !ok || strings.Contains(loc, "://") {
				l.logger().Debug("import not followed", "namespace", ns, "schemaLocation", loc)
				continue
			}
			target := resolveLocation(location, loc)
			imported, err := l.load(target, d, n, false)
			if err != nil {
				return nil, err
			}
			if imported.tns != ns {
				return nil, d.fatalf(xsderrors.ErrSchemaLocation, n,
					"imported schema %s has target namespace %q, expected %q", target, imported.tns, ns)
			}
			d.schema.Imports = append(d.schema.Imports, target)
		case "group":
			if err := l.register(l.groups, d, n, "group"); err != nil {
				return nil, err
			}
		case "attributeGroup":
			if err := l.register(l.attrGroups, d, n, "attributeGroup"); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

func (l *loader) register(into map[decl.QName]namedNode, d *document, n *xmlquery.Node, kind string) error {
	name := decl.QName{URI: d.tns, Local: attrOr(n, "name", "")}
	if _, dup := into[name]; dup {
		return d.fatalf(xsderrors.ErrDuplicateGlobal, n, "duplicate global %s %s", kind, name)
	}
	into[name] = namedNode{doc: d, node: n}
	return nil
}

func (d *document) readDefaults() error {
	d.elementQualified = attrOr(d.root, "elementFormDefault", "") == "qualified"
	d.attributeQualified = attrOr(d.root, "attributeFormDefault", "") == "qualified"
	var err error
	if d.blockDefault, err = d.derivationSet(d.root, "blockDefault", blockAllowed, 0); err != nil {
		return err
	}
	d.finalDefault, err = d.derivationSet(d.root, "finalDefault", corpus.DerivationSetAll&^corpus.DerivationSetSubstitution, 0)
	return err
}

// components reads the top-level declarations of d.
func (l *loader) components(d *document) error {
	for _, n := range children(d.root) {
		switch n.Data {
		case "simpleType":
			st, err := l.simpleType(d, n, true)
			if err != nil {
				return err
			}
			d.schema.SimpleTypes = append(d.schema.SimpleTypes, st)
		case "complexType":
			ct, err := l.complexType(d, n, true)
			if err != nil {
				return err
			}
			d.schema.ComplexTypes = append(d.schema.ComplexTypes, ct)
		case "element":
			e, err := l.element(d, n, true)
			if err != nil {
				return err
			}
			d.schema.Elements = append(d.schema.Elements, e)
		case "attribute":
			a, err := l.attribute(d, n, true)
			if err != nil {
				return err
			}
			d.schema.Attributes = append(d.schema.Attributes, a)
		}
	}
	return nil
}
