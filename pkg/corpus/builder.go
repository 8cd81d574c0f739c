package corpus

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// ErrSealed is returned by Builder methods after Build.
var ErrSealed = errors.New("corpus.Builder used after Build")

// DuplicateError reports a second global component with the same name.
type DuplicateError struct {
	Name      QName
	Component string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate global %s %s", e.Component, e.Name)
}

// Builder accumulates nodes and seals them into a Corpus.
type Builder struct {
	names        nameBuilder
	typeByName   map[QName]TypeID
	elemByName   map[QName]ElemID
	attrByName   map[QName]AttrID
	substitution map[ElemID][]ElemID
	types        []TypeDef
	elems        []ElementDef
	attrs        []AttributeDef
	particles    []ParticleDef
	groups       []GroupDef
	wildcards    []WildcardDef
	sealed       bool
}

// NewBuilder returns an empty builder whose URI table holds the four fixed URIs.
func NewBuilder() *Builder {
	return &Builder{
		names:        newNameBuilder(),
		typeByName:   make(map[QName]TypeID),
		elemByName:   make(map[QName]ElemID),
		attrByName:   make(map[QName]AttrID),
		substitution: make(map[ElemID][]ElemID),
		types:        make([]TypeDef, 1),
		elems:        make([]ElementDef, 1),
		attrs:        make([]AttributeDef, 1),
		particles:    make([]ParticleDef, 1),
		groups:       make([]GroupDef, 1),
		wildcards:    make([]WildcardDef, 1),
	}
}

func (b *Builder) ensureMutable() error {
	if b.sealed {
		return ErrSealed
	}
	return nil
}

// InternName adds name to the URI and local-name tables.
func (b *Builder) InternName(name QName) error {
	if err := b.ensureMutable(); err != nil {
		return err
	}
	b.names.intern(name)
	return nil
}

// NewType adds a type node. Named types are registered as globals.
func (b *Builder) NewType(def TypeDef) (TypeID, error) {
	if err := b.ensureMutable(); err != nil {
		return NilType, err
	}
	if def.Name.Local != "" {
		if _, dup := b.typeByName[def.Name]; dup {
			return NilType, &DuplicateError{Component: "type", Name: def.Name}
		}
	}
	id := TypeID(len(b.types))
	b.types = append(b.types, def)
	b.names.intern(def.Name)
	if def.Name.Local != "" {
		b.typeByName[def.Name] = id
	}
	return id, nil
}

// Type returns the mutable definition of id, or nil after Build.
func (b *Builder) Type(id TypeID) *TypeDef {
	if b.sealed || id == NilType || int(id) >= len(b.types) {
		return nil
	}
	return &b.types[id]
}

// LookupType finds a global type by name.
func (b *Builder) LookupType(name QName) (TypeID, bool) {
	id, ok := b.typeByName[name]
	return id, ok
}

// NewElement adds an element declaration.
func (b *Builder) NewElement(def ElementDef) (ElemID, error) {
	if err := b.ensureMutable(); err != nil {
		return NilElem, err
	}
	if def.Global {
		if _, dup := b.elemByName[def.Name]; dup {
			return NilElem, &DuplicateError{Component: "element", Name: def.Name}
		}
	}
	id := ElemID(len(b.elems))
	b.elems = append(b.elems, def)
	b.names.intern(def.Name)
	if def.Global {
		b.elemByName[def.Name] = id
	}
	return id, nil
}

// Element returns the mutable declaration of id, or nil after Build.
func (b *Builder) Element(id ElemID) *ElementDef {
	if b.sealed || id == NilElem || int(id) >= len(b.elems) {
		return nil
	}
	return &b.elems[id]
}

// LookupElement finds a global element by name.
func (b *Builder) LookupElement(name QName) (ElemID, bool) {
	id, ok := b.elemByName[name]
	return id, ok
}

// NewAttribute adds an attribute declaration.
func (b *Builder) NewAttribute(def AttributeDef) (AttrID, error) {
	if err := b.ensureMutable(); err != nil {
		return NilAttr, err
	}
	if def.Global {
		if _, dup := b.attrByName[def.Name]; dup {
			return NilAttr, &DuplicateError{Component: "attribute", Name: def.Name}
		}
	}
	id := AttrID(len(b.attrs))
	b.attrs = append(b.attrs, def)
	b.names.intern(def.Name)
	if def.Global {
		b.attrByName[def.Name] = id
	}
	return id, nil
}

// Attribute returns the mutable declaration of id, or nil after Build.
func (b *Builder) Attribute(id AttrID) *AttributeDef {
	if b.sealed || id == NilAttr || int(id) >= len(b.attrs) {
		return nil
	}
	return &b.attrs[id]
}

// LookupAttribute finds a global attribute by name.
func (b *Builder) LookupAttribute(name QName) (AttrID, bool) {
	id, ok := b.attrByName[name]
	return id, ok
}

// NewParticle adds a particle.
func (b *Builder) NewParticle(def ParticleDef) (ParticleID, error) {
	if err := b.ensureMutable(); err != nil {
		return NilParticle, err
	}
	b.particles = append(b.particles, def)
	return ParticleID(len(b.particles) - 1), nil
}

// Particle returns the definition of id, or nil after Build.
func (b *Builder) Particle(id ParticleID) *ParticleDef {
	if b.sealed || id == NilParticle || int(id) >= len(b.particles) {
		return nil
	}
	return &b.particles[id]
}

// NewGroup adds a model group.
func (b *Builder) NewGroup(def GroupDef) (GroupID, error) {
	if err := b.ensureMutable(); err != nil {
		return NilGroup, err
	}
	b.groups = append(b.groups, def)
	return GroupID(len(b.groups) - 1), nil
}

// Group returns the definition of id, or nil after Build.
func (b *Builder) Group(id GroupID) *GroupDef {
	if b.sealed || id == NilGroup || int(id) >= len(b.groups) {
		return nil
	}
	return &b.groups[id]
}

// NewWildcard adds a wildcard.
func (b *Builder) NewWildcard(def WildcardDef) (WildcardID, error) {
	if err := b.ensureMutable(); err != nil {
		return NilWildcard, err
	}
	for _, uri := range def.URIs {
		b.names.intern(QName{URI: uri})
	}
	b.wildcards = append(b.wildcards, def)
	return WildcardID(len(b.wildcards) - 1), nil
}

// Wildcard returns the definition of id, or nil after Build.
func (b *Builder) Wildcard(id WildcardID) *WildcardDef {
	if b.sealed || id == NilWildcard || int(id) >= len(b.wildcards) {
		return nil
	}
	return &b.wildcards[id]
}

// SetSubstitutables records the ordered substitution-group members of head.
func (b *Builder) SetSubstitutables(head ElemID, members []ElemID) error {
	if err := b.ensureMutable(); err != nil {
		return err
	}
	if len(members) == 0 {
		delete(b.substitution, head)
		return nil
	}
	b.substitution[head] = slices.Clone(members)
	return nil
}

// NumTypes returns the number of type nodes added so far.
func (b *Builder) NumTypes() int {
	return len(b.types) - 1
}

// Build assigns serials and ancestry, seals the builder and returns the corpus.
func (b *Builder) Build() (*Corpus, error) {
	if err := b.ensureMutable(); err != nil {
		return nil, err
	}
	b.sealed = true

	c := &Corpus{
		names:        b.names.build(),
		types:        b.types,
		elems:        b.elems,
		attrs:        b.attrs,
		particles:    b.particles,
		groups:       b.groups,
		wildcards:    b.wildcards,
		typeByName:   b.typeByName,
		elemByName:   b.elemByName,
		attrByName:   b.attrByName,
		substitution: b.substitution,
		buildID:      uuid.New(),
	}
	if err := c.assignSerials(); err != nil {
		return nil, fmt.Errorf("corpus build: %w", err)
	}
	c.computeAncestry()
	c.fingerprint = c.computeFingerprint()
	return c, nil
}

func (c *Corpus) assignSerials() error {
	c.bySerial = make([]TypeID, NumBuiltinSerials, len(c.types))
	var named, anonymous []TypeID
	for i := 1; i < len(c.types); i++ {
		id := TypeID(i)
		t := &c.types[i]
		switch {
		case t.Builtin:
			if t.Serial < 0 || t.Serial >= NumBuiltinSerials || c.bySerial[t.Serial] != NilType {
				return fmt.Errorf("built-in %s has bad serial %d", t.Name, t.Serial)
			}
			c.bySerial[t.Serial] = id
		case t.Name.Local != "":
			named = append(named, id)
		default:
			anonymous = append(anonymous, id)
		}
	}
	for s, id := range c.bySerial {
		if id == NilType {
			return fmt.Errorf("built-in serial %d missing", s)
		}
	}
	slices.SortStableFunc(named, func(a, b TypeID) int {
		na, nb := c.types[a].Name, c.types[b].Name
		return cmp.Or(strings.Compare(na.URI, nb.URI), strings.Compare(na.Local, nb.Local))
	})
	for _, id := range append(named, anonymous...) {
		c.types[id].Serial = Serial(len(c.bySerial))
		c.bySerial = append(c.bySerial, id)
	}
	return nil
}

func (c *Corpus) computeAncestry() {
	c.ancestry = make([]Serial, len(c.bySerial))
	c.integral = make([]bool, len(c.types))
	integer := c.bySerial[SerialInteger]
	for serial, id := range c.bySerial {
		c.ancestry[serial] = Untyped
		t := &c.types[id]
		if !t.Simple || t.Variety != VarietyAtomic {
			continue
		}
		for cur, steps := id, 0; cur != NilType && steps < len(c.types); cur, steps = c.types[cur].Base, steps+1 {
			if cur == integer {
				c.integral[id] = true
			}
			if c.types[cur].Primitive {
				if k := c.types[cur].Kind; k != variant.QName && k != variant.Notation {
					c.ancestry[serial] = c.types[cur].Serial
				}
				break
			}
		}
	}
}
