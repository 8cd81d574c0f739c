// Package substgroup computes substitution group membership over every
// element declaration of a schema set.
package substgroup

import (
	"slices"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
	"github.com/jacoelho/xsdcorpus/pkg/corpus"
)

// Element is an element declaration as seen by the resolver. Resolve takes
// elements in declaration order across the whole schema set.
type Element struct {
	Name     corpus.QName
	SystemID string
	Line     int
	ID       corpus.ElemID
	Head     corpus.ElemID
	Block    corpus.DerivationSet
}

// Result maps heads to their transitive members in declaration order.
type Result struct {
	members map[corpus.ElemID][]corpus.ElemID
	heads   []corpus.ElemID
}

// Members returns the members of head. The head itself is never a member.
func (r *Result) Members(head corpus.ElemID) []corpus.ElemID {
	return slices.Clone(r.members[head])
}

// Heads returns every head with at least one member, in declaration order.
func (r *Result) Heads() []corpus.ElemID {
	return slices.Clone(r.heads)
}

// Apply records the membership on the corpus builder.
func (r *Result) Apply(b *corpus.Builder) error {
	for _, h := range r.heads {
		if err := b.SetSubstitutables(h, r.members[h]); err != nil {
			return err
		}
	}
	return nil
}

type visitState uint8

const (
	stateUnvisited visitState = iota
	stateVisiting
	stateDone
)

// Resolve builds the head to members closure. Self-references and cycles
// raise e-props-correct.6; a member of a head that blocks substitution
// raises e-props-correct.4 and the edge is dropped. Elements are never
// removed.
func Resolve(elems []Element, m xsderrors.Monitor) *Result {
	if m == nil {
		m = xsderrors.Discard
	}
	order := make(map[corpus.ElemID]int, len(elems))
	byID := make(map[corpus.ElemID]*Element, len(elems))
	for i := range elems {
		order[elems[i].ID] = i
		byID[elems[i].ID] = &elems[i]
	}

	heads := make(map[corpus.ElemID]corpus.ElemID)
	direct := make(map[corpus.ElemID][]corpus.ElemID)
	for i := range elems {
		e := &elems[i]
		if e.Head == corpus.NilElem {
			continue
		}
		if e.Head == e.ID {
			m.Report(xsderrors.NewDiagnosticf(xsderrors.ErrSubstitutionCycle, e.SystemID, e.Line,
				"element %s is its own substitution group head", e.Name))
			continue
		}
		head, ok := byID[e.Head]
		if !ok {
			continue
		}
		if head.Block.Has(corpus.DerivationSetSubstitution) {
			m.Report(xsderrors.NewDiagnosticf(xsderrors.ErrSubstitutionBlocked, e.SystemID, e.Line,
				"element %s cannot substitute for %s: head blocks substitution", e.Name, head.Name))
			continue
		}
		heads[e.ID] = e.Head
		direct[e.Head] = append(direct[e.Head], e.ID)
	}

	reportCycles(elems, heads, order, m)

	r := &Result{members: make(map[corpus.ElemID][]corpus.ElemID)}
	for i := range elems {
		h := elems[i].ID
		if len(direct[h]) == 0 {
			continue
		}
		seen := map[corpus.ElemID]bool{h: true}
		var out []corpus.ElemID
		stack := slices.Clone(direct[h])
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
			stack = append(stack, direct[id]...)
		}
		if len(out) == 0 {
			continue
		}
		slices.SortFunc(out, func(a, b corpus.ElemID) int { return order[a] - order[b] })
		r.members[h] = out
		r.heads = append(r.heads, h)
	}
	return r
}

// reportCycles raises one diagnostic per cycle of the head relation,
// at the first declared element on the cycle.
func reportCycles(elems []Element, heads map[corpus.ElemID]corpus.ElemID, order map[corpus.ElemID]int, m xsderrors.Monitor) {
	states := make(map[corpus.ElemID]visitState, len(elems))
	for i := range elems {
		start := elems[i].ID
		if states[start] != stateUnvisited {
			continue
		}
		var path []corpus.ElemID
		id := start
		for {
			states[id] = stateVisiting
			path = append(path, id)
			next, ok := heads[id]
			if !ok || states[next] == stateDone {
				break
			}
			if states[next] == stateVisiting {
				cycle := path[slices.Index(path, next):]
				first := &elems[order[slices.MinFunc(cycle, func(a, b corpus.ElemID) int {
					return order[a] - order[b]
				})]]
				m.Report(xsderrors.NewDiagnosticf(xsderrors.ErrSubstitutionCycle, first.SystemID, first.Line,
					"circular substitution group through element %s", first.Name))
				break
			}
			id = next
		}
		for _, p := range path {
			states[p] = stateDone
		}
	}
}
