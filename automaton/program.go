package automaton

import (
	"github.com/ecmacore/ecmacore/charclass"
	"github.com/ecmacore/ecmacore/groupmap"
	"github.com/ecmacore/ecmacore/rangeset"
)

// FirstCharInfo is the fast-path metadata the optimiser's first-character
// pass (spec.md §4.6 step 5) derives: the union of possible first
// characters, in both range-set and ASCII-bitset form, plus the singleton
// fast path when exactly one code unit can start a match.
type FirstCharInfo struct {
	Set      *rangeset.Set
	ASCII    [256]bool // bit i set iff byte i can start a match, for i < 0x80
	Single   rangeset.CodePoint
	IsSingle bool
	// Complete is false when the union could not be computed exhaustively
	// (e.g. the pattern can match the empty string or reaches a
	// backreference before consuming any character), in which case the
	// fast path must not be used.
	Complete bool
}

// Program is the immutable, compiled form of a pattern: the flat state
// array from spec.md §3 plus the registries and metadata every pass from
// spec.md §4.6 attaches. A Program is safe for concurrent use by readers
// once built (spec.md §5) — nothing here is mutated after Freeze.
type Program struct {
	States []State

	Classes *charclass.Registry
	Groups  *groupmap.Mapper

	// CaptureCount includes group 0 (the whole match).
	CaptureCount int

	CompileFlags Flags

	// EntryState is the index of the first real state (index 0 is
	// reserved for metadata per spec.md §3).
	EntryState int

	// ContinuousEntryState is NFA[0].Next2 in spec.md's terms: the entry
	// point used for match_continuous, bypassing any rewinder/BMH fast
	// path that assumes unanchored search.
	ContinuousEntryState int

	FirstChar FirstCharInfo

	StepBudget int

	// CounterCount and RepeatCount size vmexec's counter[] and repeat[]
	// scratch arrays: one slot per general-counted quantifier and one per
	// unbounded loop's zero-width guard, respectively (spec.md §4.8).
	CounterCount int
	RepeatCount  int

	// HasPureLiteral reports whether the whole pattern reduces to a single
	// mandatory literal run with no alternation, quantifier range, or
	// capturing structure around it (spec.md §4.6 step 9). When true,
	// PureLiteral/PureLiteralFold let the bmh package search directly
	// instead of driving the automaton at all.
	HasPureLiteral  bool
	PureLiteral     []rune
	PureLiteralFold bool

	frozen bool
}

// Freeze converts every state's Next1/Next2 from a relative offset into an
// absolute state-array index (spec.md §4.6 step 8) and locks the Program
// against further structural mutation. It is a no-op if already frozen.
func (p *Program) Freeze() {
	if p.frozen {
		return
	}
	for i := range p.States {
		s := &p.States[i]
		if s.Next1 != 0 {
			s.Next1 += int32(i)
		}
		if s.Next2 != 0 {
			s.Next2 += int32(i)
		}
	}
	p.frozen = true
}

// Frozen reports whether Freeze has run.
func (p *Program) Frozen() bool {
	return p.frozen
}

// State returns a pointer to the state at absolute index idx.
func (p *Program) State(idx int) *State {
	return &p.States[idx]
}

// Len returns the number of states in the array, including the reserved
// head state.
func (p *Program) Len() int {
	return len(p.States)
}
