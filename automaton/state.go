// Package automaton defines the compiled-pattern data model spec.md §3
// describes: a flat, tagged state array with relative (later absolute)
// successor offsets and an overloaded Quantifier field whose meaning
// depends on the state's Tag.
//
// Grounded on the teacher's nfa.State/nfa.StateKind (nfa/nfa.go), widened
// from a Thompson byte-NFA's six state kinds to the full ECMAScript
// backtracking-automaton tag set, and kept uniform-sized the way spec.md
// §9 mandates rather than switching to a tagged union per kind.
package automaton

import "github.com/ecmacore/ecmacore/rangeset"

// Tag identifies the kind of a compiled State.
type Tag uint8

const (
	TagCharacter Tag = iota
	TagCharacterClass
	TagEpsilon
	TagCheckCounter
	TagDecrementCounter
	TagSaveAndResetCounter
	TagRestoreCounter
	TagRoundBracketOpen
	TagRoundBracketPop
	TagRoundBracketClose
	TagRepeatInPush
	TagRepeatInPop
	TagCheck0WidthRepeat
	TagBackreference
	TagLookaroundOpen
	TagBOL
	TagEOL
	TagBoundary
	// TagSuccess is also "lookaround-close": the state an enclosing
	// lookaround-open jumps past via Next1, and the state the inner
	// automaton of a lookaround terminates on.
	TagSuccess
)

func (t Tag) String() string {
	switch t {
	case TagCharacter:
		return "character"
	case TagCharacterClass:
		return "character-class"
	case TagEpsilon:
		return "epsilon"
	case TagCheckCounter:
		return "check-counter"
	case TagDecrementCounter:
		return "decrement-counter"
	case TagSaveAndResetCounter:
		return "save-and-reset-counter"
	case TagRestoreCounter:
		return "restore-counter"
	case TagRoundBracketOpen:
		return "round-bracket-open"
	case TagRoundBracketPop:
		return "round-bracket-pop"
	case TagRoundBracketClose:
		return "round-bracket-close"
	case TagRepeatInPush:
		return "repeat-in-push"
	case TagRepeatInPop:
		return "repeat-in-pop"
	case TagCheck0WidthRepeat:
		return "check-0-width-repeat"
	case TagBackreference:
		return "backreference"
	case TagLookaroundOpen:
		return "lookaround-open"
	case TagBOL:
		return "bol"
	case TagEOL:
		return "eol"
	case TagBoundary:
		return "boundary"
	case TagSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// EpsilonKind is the advisory secondary tag an epsilon state carries for
// the optimiser's benefit; the executor never branches on it.
type EpsilonKind uint8

const (
	EpsilonDefault EpsilonKind = iota
	EpsilonGroupOpen
	EpsilonGroupClose
	EpsilonAltBranch
	EpsilonLoopEntry
	EpsilonLoopExit
)

// Infinity marks an unbounded quantifier upper bound (spec.md §3).
const Infinity = -1

// Quantifier is the overloaded triple every tag reinterprets per spec.md
// §3: loop bounds/greediness for counters, (offset,length) into the
// charclass Eytzinger arena for classes/anchors after optimisation,
// (min,max) bracket indices for round-bracket states and for
// repeat-in-push (the full range of groups its loop body can assign, for
// re-entry reset), or a lookaround direction/width code for lookaround-open.
type Quantifier struct {
	AtLeast int
	AtMost  int // Infinity for unbounded
	Greedy  bool
}

// Lookaround direction/rewind codes, the AtLeast values a lookaround-open
// state's Quantifier carries.
const (
	LookAhead          = 0
	LookBehind         = 1
	LookBehindRewinder = 2
	LookBehindRerun    = 3
)

// State is one entry in the compiled pattern's flat state array.
// Next1/Next2 are relative offsets until Program.Freeze converts them to
// absolute indices (spec.md §4.6 step 8); zero means "no such successor."
type State struct {
	Tag         Tag
	EpsilonKind EpsilonKind

	// CharNum is the semantic payload: a code point (TagCharacter), a
	// charclass.ID (TagCharacterClass, before Finalize), a bracket number
	// (TagRoundBracketOpen/Pop/Close, TagBackreference), a counter index
	// (TagCheckCounter and friends), or a repeat-slot index
	// (TagRepeatInPush/Pop). Unused by tags that don't need a payload.
	CharNum int32

	Next1, Next2 int32

	Quantifier Quantifier

	IsNot     bool
	Multiline bool
	ICase     bool
	DotAll    bool
}

// Character returns the code point a TagCharacter state matches.
func (s *State) Character() rangeset.CodePoint {
	return rangeset.CodePoint(s.CharNum)
}
