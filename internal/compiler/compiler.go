// Package compiler builds a schema corpus from a declaration graph.
package compiler

import (
	"log/slog"

	pkgerrors "github.com/pkg/errors"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/internal/builtins"
	"github.com/jacoelho/xsdcorpus/internal/decl"
	"github.com/jacoelho/xsdcorpus/internal/facets"
	"github.com/jacoelho/xsdcorpus/internal/substgroup"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

// Config carries the knobs of one compilation.
type Config struct {
	Monitor xsderrors.Monitor
	Logger  *slog.Logger
	// MaxRestrictedCharacters caps restricted alphabets; 0 means
	// facets.MaxAlphabet.
	MaxRestrictedCharacters int
}

type buildState uint8

const (
	statePending buildState = iota
	stateBuilding
	stateDone
)

// Compiler holds the state of one compilation. It is not reused.
type Compiler struct {
	cfg     Config
	b       *corpus.Builder
	handles *builtins.Handles

	simpleDecls  map[corpus.TypeID]*decl.SimpleType
	complexDecls map[corpus.TypeID]*decl.ComplexType
	elemDecls    map[decl.QName]*decl.Element
	attrDecls    map[corpus.AttrID]*decl.Attribute
	attrDone     map[corpus.AttrID]bool
	state        map[corpus.TypeID]buildState
	validators   map[corpus.TypeID]*facets.Validator

	globalElems map[*decl.Element]corpus.ElemID
	elemTypes   map[*decl.Element]corpus.TypeID
	elemActive  map[*decl.Element]bool
	substElems  []substgroup.Element
	localValues []localValue

	restrictions []corpus.TypeID
	diagnostics  int
}

// Compile builds the corpus of set.
func Compile(set *decl.Set, cfg Config) (*corpus.Corpus, error) {
	if cfg.Monitor == nil {
		cfg.Monitor = xsderrors.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	c := &Compiler{
		cfg:          cfg,
		b:            corpus.NewBuilder(),
		simpleDecls:  make(map[corpus.TypeID]*decl.SimpleType),
		complexDecls: make(map[corpus.TypeID]*decl.ComplexType),
		elemDecls:    make(map[decl.QName]*decl.Element),
		attrDecls:    make(map[corpus.AttrID]*decl.Attribute),
		attrDone:     make(map[corpus.AttrID]bool),
		state:        make(map[corpus.TypeID]buildState),
		validators:   make(map[corpus.TypeID]*facets.Validator),
		globalElems:  make(map[*decl.Element]corpus.ElemID),
		elemTypes:    make(map[*decl.Element]corpus.TypeID),
		elemActive:   make(map[*decl.Element]bool),
	}
	return c.compile(set)
}

func (c *Compiler) compile(set *decl.Set) (*corpus.Corpus, error) {
	if err := c.seed(); err != nil {
		return nil, err
	}
	if err := c.register(set); err != nil {
		return nil, err
	}
	c.cfg.Logger.Debug("globals registered", "types", c.b.NumTypes(), "elements", len(c.globalElems))

	for _, s := range set.Schemas {
		for _, st := range s.SimpleTypes {
			id, _ := c.b.LookupType(st.Name)
			if err := c.compileSimple(id); err != nil {
				return nil, err
			}
		}
	}
	c.cfg.Logger.Debug("simple types compiled", "validators", len(c.validators))

	for _, s := range set.Schemas {
		for _, ct := range s.ComplexTypes {
			id, _ := c.b.LookupType(ct.Name)
			if err := c.compileComplex(id); err != nil {
				return nil, err
			}
		}
	}
	c.encodeLocalValues()
	c.cfg.Logger.Debug("complex types compiled", "types", c.b.NumTypes(), "restrictions", len(c.restrictions))

	for _, s := range set.Schemas {
		for _, e := range s.Elements {
			if err := c.compileGlobalElement(e); err != nil {
				return nil, err
			}
		}
		for _, a := range s.Attributes {
			id, _ := c.b.LookupAttribute(a.Name)
			if err := c.compileAttribute(id); err != nil {
				return nil, err
			}
		}
	}
	c.encodeLocalValues()
	c.cfg.Logger.Debug("declarations compiled", "elements", len(c.globalElems))

	groups := substgroup.Resolve(c.substElems, xsderrors.MonitorFunc(c.report))
	if err := groups.Apply(c.b); err != nil {
		return nil, pkgerrors.Wrap(err, "apply substitution groups")
	}
	c.cfg.Logger.Debug("substitution groups resolved", "heads", len(groups.Heads()))

	c.checkRestrictions(groups)

	out, err := c.b.Build()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "seal corpus")
	}
	c.cfg.Logger.Debug("corpus built", "types", out.NumTypes(), "diagnostics", c.diagnostics)
	return out, nil
}

// seed adds the built-in types and their validators.
func (c *Compiler) seed() error {
	table := builtins.New()
	h, err := table.Seed(c.b)
	if err != nil {
		return pkgerrors.Wrap(err, "seed built-in types")
	}
	c.handles = h
	for _, e := range table.Entries() {
		var item *facets.Validator
		if e.Item != corpus.Untyped {
			item = c.validators[h.LookupBySerial(e.Item)]
		}
		id := h.LookupBySerial(e.Serial)
		c.state[id] = stateDone
		if e.Serial == corpus.SerialAnyType {
			continue
		}
		v := facets.ForBuiltin(e, item)
		v.Limit = c.cfg.MaxRestrictedCharacters
		c.validators[id] = v
	}
	return nil
}

// register adds a node for every global component so references resolve
// regardless of declaration order.
func (c *Compiler) register(set *decl.Set) error {
	for _, s := range set.Schemas {
		for _, st := range s.SimpleTypes {
			id, err := c.b.NewType(corpus.TypeDef{Name: st.Name, SystemID: st.SystemID, Line: st.Line, Simple: true})
			if err != nil {
				return c.duplicate(err, st.Pos)
			}
			c.simpleDecls[id] = st
		}
		for _, ct := range s.ComplexTypes {
			id, err := c.b.NewType(corpus.TypeDef{Name: ct.Name, SystemID: ct.SystemID, Line: ct.Line})
			if err != nil {
				return c.duplicate(err, ct.Pos)
			}
			c.complexDecls[id] = ct
		}
		for _, e := range s.Elements {
			id, err := c.b.NewElement(corpus.ElementDef{Name: e.Name, SystemID: e.SystemID, Line: e.Line, Global: true})
			if err != nil {
				return c.duplicate(err, e.Pos)
			}
			c.globalElems[e] = id
			c.elemDecls[e.Name] = e
		}
		for _, a := range s.Attributes {
			id, err := c.b.NewAttribute(corpus.AttributeDef{Name: a.Name, SystemID: a.SystemID, Line: a.Line, Global: true})
			if err != nil {
				return c.duplicate(err, a.Pos)
			}
			c.attrDecls[id] = a
		}
	}
	return nil
}

func (c *Compiler) duplicate(err error, pos decl.Pos) error {
	var dup *corpus.DuplicateError
	if pkgerrors.As(err, &dup) {
		return xsderrors.WrapFatal(err, xsderrors.NewDiagnosticf(xsderrors.ErrDuplicateGlobal, pos.SystemID, pos.Line,
			"duplicate global %s %s", dup.Component, dup.Name))
	}
	return pkgerrors.Wrap(err, "register global")
}

// report forwards a recoverable diagnostic to the monitor.
func (c *Compiler) report(d xsderrors.Diagnostic) {
	c.diagnostics++
	c.cfg.Logger.Warn("schema diagnostic", "code", string(d.Code), "systemID", d.SystemID, "line", d.Line, "message", d.Message)
	c.cfg.Monitor.Report(d)
}

func (c *Compiler) reportf(code xsderrors.ErrorCode, pos decl.Pos, format string, args ...any) {
	c.report(xsderrors.NewDiagnosticf(code, pos.SystemID, pos.Line, format, args...))
}

func (c *Compiler) builtin(s corpus.Serial) corpus.TypeID {
	return c.handles.LookupBySerial(s)
}

// typeID resolves a type reference without compiling it.
func (c *Compiler) typeID(name decl.QName, pos decl.Pos) (corpus.TypeID, error) {
	if id, ok := c.b.LookupType(name); ok {
		return id, nil
	}
	return corpus.NilType, xsderrors.Fatalf(xsderrors.ErrResolve, pos.SystemID, pos.Line, "type %s is not declared", name)
}

// ensure compiles the type id if it is a pending user type.
func (c *Compiler) ensure(id corpus.TypeID) error {
	if _, ok := c.simpleDecls[id]; ok {
		return c.compileSimple(id)
	}
	if _, ok := c.complexDecls[id]; ok {
		return c.compileComplex(id)
	}
	return nil
}

// derivedFrom reports whether derived reaches base through its base chain.
func (c *Compiler) derivedFrom(derived, base corpus.TypeID) bool {
	if base == c.builtin(corpus.SerialAnyType) {
		return true
	}
	for id, steps := derived, 0; id != corpus.NilType && steps <= c.b.NumTypes(); steps++ {
		if id == base {
			return true
		}
		def := c.b.Type(id)
		if def == nil {
			return false
		}
		id = def.Base
	}
	return false
}
