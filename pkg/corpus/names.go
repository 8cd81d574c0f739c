package corpus

import (
	"slices"
	"strings"

	"github.com/jacoelho/xsdcorpus/internal/xmlnames"
)

// fixedURIs lead the URI table in this order; schema URIs follow sorted.
var fixedURIs = [...]string{"", xmlnames.XMLNamespace, xmlnames.XSINamespace, xmlnames.XSDNamespace}

// predefined local names per fixed URI, as the EXI string tables expect.
var fixedLocalNames = map[string][]string{
	xmlnames.XMLNamespace: {"base", "id", "lang", "space"},
	xmlnames.XSINamespace: {"nil", "type"},
}

type nameBuilder struct {
	locals map[string]map[string]struct{}
}

func newNameBuilder() nameBuilder {
	nb := nameBuilder{locals: make(map[string]map[string]struct{})}
	for _, uri := range fixedURIs {
		nb.intern(QName{URI: uri})
		for _, local := range fixedLocalNames[uri] {
			nb.intern(QName{URI: uri, Local: local})
		}
	}
	return nb
}

func (nb *nameBuilder) intern(name QName) {
	set, ok := nb.locals[name.URI]
	if !ok {
		set = make(map[string]struct{})
		nb.locals[name.URI] = set
	}
	if name.Local != "" {
		set[name.Local] = struct{}{}
	}
}

// nameTable is the sealed URI and local-name tables.
type nameTable struct {
	uriIndex   map[string]URIID
	localIndex []map[string]NameID
	uris       []string
	locals     [][]string
}

func (nb *nameBuilder) build() nameTable {
	var rest []string
	for uri := range nb.locals {
		if !slices.Contains(fixedURIs[:], uri) {
			rest = append(rest, uri)
		}
	}
	slices.Sort(rest)
	ordered := append(slices.Clone(fixedURIs[:]), rest...)

	t := nameTable{
		uriIndex:   make(map[string]URIID, len(ordered)),
		localIndex: make([]map[string]NameID, len(ordered)),
		uris:       ordered,
		locals:     make([][]string, len(ordered)),
	}
	for i, uri := range ordered {
		t.uriIndex[uri] = URIID(i)
		names := make([]string, 0, len(nb.locals[uri]))
		for local := range nb.locals[uri] {
			names = append(names, local)
		}
		slices.SortFunc(names, strings.Compare)
		t.locals[i] = names
		idx := make(map[string]NameID, len(names))
		for j, local := range names {
			idx[local] = NameID(j)
		}
		t.localIndex[i] = idx
	}
	return t
}

func (t *nameTable) lookup(name QName) (URIID, NameID, bool) {
	uri, ok := t.uriIndex[name.URI]
	if !ok {
		return 0, NoName, false
	}
	if name.Local == "" {
		return uri, NoName, true
	}
	local, ok := t.localIndex[uri][name.Local]
	if !ok {
		return uri, NoName, false
	}
	return uri, local, true
}
