package vmexec

import "github.com/ecmacore/ecmacore/automaton"

// Search tries to match prog against input, starting the unanchored search
// no earlier than from. MatchContinuous restricts the attempt to exactly
// position from (spec.md §6's "sticky" semantics), bypassing the
// first-character fast path since there is only one candidate start left
// to try. It returns (nil, nil) when no match exists, and a non-nil error
// only when the step budget was exhausted (spec.md §7).
func Search(prog *automaton.Program, input []rune, from int, flags automaton.Flags) (*Result, error) {
	maxSteps := prog.StepBudget
	if maxSteps <= 0 {
		maxSteps = DefaultStepBudget
	}

	entry := prog.EntryState
	if flags.Has(automaton.MatchContinuous) {
		entry = prog.ContinuousEntryState
		if entry == 0 {
			entry = prog.EntryState
		}
		return attempt(prog, input, from, from, entry, flags, maxSteps)
	}

	for start := from; start <= len(input); start++ {
		if !candidateStart(prog, input, start) {
			continue
		}
		res, err := attempt(prog, input, from, start, entry, flags, maxSteps)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}

// candidateStart applies the first-character fast path (spec.md §4.6 step
// 5): when the compiled pattern's set of possible first characters is
// known exhaustively, positions that cannot possibly start a match are
// skipped without ever driving the automaton.
func candidateStart(prog *automaton.Program, input []rune, start int) bool {
	fc := prog.FirstChar
	if !fc.Complete {
		return true
	}
	if start >= len(input) {
		// A pattern that can match the empty string must still be tried at
		// the end-of-input position; Complete is only ever true for
		// patterns that require at least one character, so this position
		// simply cannot match.
		return false
	}
	c := input[start]
	if fc.IsSingle {
		return c == rune(fc.Single)
	}
	if c < 0x80 {
		return fc.ASCII[c]
	}
	return fc.Set == nil || fc.Set.IsIncluded(codePoint(c))
}

func attempt(prog *automaton.Program, input []rune, searchFrom, start, entry int, flags automaton.Flags, maxSteps int) (*Result, error) {
	m := newMatcher(prog, input, flags, maxSteps)
	ok := m.run(start, entry)
	if m.exceeded {
		return nil, automaton.NewExecError(automaton.ErrComplexity)
	}
	if !ok {
		return nil, nil
	}
	if flags.Has(automaton.MatchNotNull) && m.matchEnd == start {
		return nil, nil
	}
	m.captures[0] = [2]int{start, m.matchEnd}
	return &Result{Captures: m.captures}, nil
}
