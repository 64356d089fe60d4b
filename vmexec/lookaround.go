package vmexec

import "github.com/ecmacore/ecmacore/automaton"

// lookaroundFrame is the "new bottom marker on the stacks" spec.md §9
// describes in place of a recursive call: entering lookaround-open pushes
// one of these instead of calling back into the matcher, redirecting the
// same run loop at the assertion body's entry state. btMark/capMark/
// cntMark/repMark freeze the four stacks' lengths at entry so the run loop
// can tell "the inner attempt's own alternatives are exhausted" (bt_stack
// back down to btMark) apart from "an outer alternative remains".
type lookaroundFrame struct {
	btMark, capMark, cntMark, repMark int

	direction int32 // automaton.LookAhead or automaton.LookBehind
	negate    bool

	innerEntry int // s.Next2 of the lookaround-open state: the body's entry
	contState  int // s.Next1 of the lookaround-open state: resume point on success
	pos0       int // position lookaround-open fired at; the non-consuming resume position, and (lookbehind only) the required landing position

	// retryFrom is the next earlier start position a lookbehind body should
	// attempt once the current one's alternatives are exhausted; -1 once
	// every candidate position has been tried. Unused for lookahead.
	retryFrom int
}

func newLookaroundFrame(m *matcher, pos int, s *automaton.State) lookaroundFrame {
	lf := lookaroundFrame{
		btMark:     len(m.btStack),
		capMark:    len(m.capUndo),
		cntMark:    len(m.cntUndo),
		repMark:    len(m.repUndo),
		direction:  int32(s.Quantifier.AtLeast),
		negate:     s.IsNot,
		innerEntry: int(s.Next2),
		contState:  int(s.Next1),
		pos0:       pos,
	}
	if lf.direction != automaton.LookAhead {
		lf.retryFrom = pos - 1
	}
	return lf
}
