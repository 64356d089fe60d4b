// Package synpat is the pattern parser (spec.md §4.5): it tokenises and
// parses an ECMAScript pattern string into the flat automaton.State array
// spec.md §3 describes, with Next1/Next2 left as relative offsets for the
// optimizer package to rewrite.
//
// Grounded on the teacher's nfa/builder.go incremental builder API
// (Emit-then-Patch, dangling-pointer fragments), generalized from
// Thompson byte-states to the ECMAScript tag set, and on
// quasilyte-regex/syntax's lexer/parser split for the branch → piece →
// atom → quantifier grammar shape (spec.md §4.5).
package synpat

import "github.com/ecmacore/ecmacore/automaton"

// slot identifies which successor field of a State a patch point targets.
type slot uint8

const (
	slotNext1 slot = 1
	slotNext2 slot = 2
)

// patchPoint is a dangling successor edge awaiting a target index —
// Thompson construction's classic "patch list," matching the teacher
// builder's Patch(stateID, target) calls but batched into a list so a
// single fragment can have many loose ends (every alternative of a
// top-level alternation, for instance).
type patchPoint struct {
	idx  int
	slot slot
}

// frag is a compiled sub-expression: Start is its entry index, Out is the
// list of dangling successor edges the caller must Patch to whatever
// follows the fragment.
type frag struct {
	start int
	out   []patchPoint
}

// builder accumulates automaton.State values for one Parser.
type builder struct {
	states []automaton.State
}

func newBuilder() *builder {
	b := &builder{}
	// Index 0 is reserved for metadata (spec.md §3); emit a placeholder so
	// every real state starts at index 1.
	b.states = append(b.states, automaton.State{})
	return b
}

// emit appends s and returns its absolute index.
func (b *builder) emit(s automaton.State) int {
	idx := len(b.states)
	b.states = append(b.states, s)
	return idx
}

// patch resolves every patch point in pts to point at target, storing the
// *relative* offset (target - idx) into the addressed Next slot.
func (b *builder) patch(pts []patchPoint, target int) {
	for _, p := range pts {
		rel := int32(target - p.idx)
		switch p.slot {
		case slotNext1:
			b.states[p.idx].Next1 = rel
		case slotNext2:
			b.states[p.idx].Next2 = rel
		}
	}
}

// concat sequences two fragments: a's dangling edges are patched to b's
// start, and the result carries b's own dangling edges forward.
func concat(bld *builder, a, b frag) frag {
	bld.patch(a.out, b.start)
	return frag{start: a.start, out: b.out}
}

// next returns the index the next emitted state will get — used to record
// a join point before emitting anything there.
func (b *builder) next() int {
	return len(b.states)
}
