package builtins

import (
	"fmt"

	"github.com/jacoelho/xsdcorpus/pkg/corpus"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// Handles maps built-in serials to the nodes Seed created.
type Handles struct {
	table *Table
	ids   [corpus.NumBuiltinSerials]corpus.TypeID
}

// Seed adds every built-in to b in serial order. anyType receives its
// lax any-element content and any-attribute wildcard.
func (t *Table) Seed(b *corpus.Builder) (*Handles, error) {
	h := &Handles{table: t}
	for _, e := range t.entries {
		def := corpus.TypeDef{
			Name:       corpus.QName{URI: XSDNamespace, Local: e.Name},
			Serial:     e.Serial,
			Builtin:    true,
			Primitive:  e.Primitive,
			Simple:     e.Serial != corpus.SerialAnyType,
			Variety:    e.Variety,
			Kind:       e.Kind,
			Whitespace: e.Whitespace,
			Facets:     corpus.NoFacets(),
		}
		def.Facets.MinLength = e.MinLength
		if e.MinInt != nil {
			def.Facets.MinInclusive = variant.FromInt(*e.MinInt)
		}
		if e.MaxInt != nil {
			def.Facets.MaxInclusive = variant.FromInt(*e.MaxInt)
		}
		id, err := b.NewType(def)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", e.Name, err)
		}
		h.ids[e.Serial] = id
	}
	// bases may have higher serials than their derivations (int from long)
	for _, e := range t.entries {
		def := b.Type(h.ids[e.Serial])
		if e.Base != corpus.Untyped {
			def.Base = h.ids[e.Base]
			def.Derivation = corpus.DerivationRestriction
		}
		if e.Item != corpus.Untyped {
			def.Item = h.ids[e.Item]
			def.Derivation = corpus.DerivationList
		}
	}
	if err := seedAnyTypeContent(b, h.ids[corpus.SerialAnyType]); err != nil {
		return nil, err
	}
	return h, nil
}

func seedAnyTypeContent(b *corpus.Builder, anyType corpus.TypeID) error {
	elems, err := b.NewWildcard(corpus.WildcardDef{Kind: corpus.NamespaceAny, Process: corpus.ProcessLax})
	if err != nil {
		return err
	}
	attrs, err := b.NewWildcard(corpus.WildcardDef{Kind: corpus.NamespaceAny, Process: corpus.ProcessLax})
	if err != nil {
		return err
	}
	term, err := b.NewParticle(corpus.ParticleDef{Min: 1, Max: 1, Term: corpus.TermWildcard, Wildcard: elems})
	if err != nil {
		return err
	}
	seq, err := b.NewGroup(corpus.GroupDef{Compositor: corpus.Sequence, Particles: []corpus.ParticleID{term}})
	if err != nil {
		return err
	}
	root, err := b.NewParticle(corpus.ParticleDef{Min: 0, Max: corpus.Unbounded, Term: corpus.TermGroup, Group: seq})
	if err != nil {
		return err
	}
	def := b.Type(anyType)
	def.Content = corpus.ContentMixed
	def.Particle = root
	def.AttributeWildcard = attrs
	return nil
}

// Table returns the table the handles were seeded from.
func (h *Handles) Table() *Table {
	return h.table
}

// LookupBySerial returns the node of the built-in with serial s.
func (h *Handles) LookupBySerial(s corpus.Serial) corpus.TypeID {
	if s < 0 || s >= corpus.NumBuiltinSerials {
		return corpus.NilType
	}
	return h.ids[s]
}

// Lookup returns the node of a built-in by name.
func (h *Handles) Lookup(uri, name string) corpus.TypeID {
	e, ok := h.table.Lookup(uri, name)
	if !ok {
		return corpus.NilType
	}
	return h.ids[e.Serial]
}

// SerialOf maps a node back to its built-in serial.
func (h *Handles) SerialOf(id corpus.TypeID) (corpus.Serial, bool) {
	for s, got := range h.ids {
		if got == id && id != corpus.NilType {
			return corpus.Serial(s), true
		}
	}
	return corpus.Untyped, false
}
