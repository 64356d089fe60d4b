package optimize

import "github.com/ecmacore/ecmacore/automaton"

// skipEpsilons implements spec.md §4.6 step 6: chase chains of bare,
// single-successor epsilon states (no alternative/loop fallback — Next2
// unset) and rewrite every real predecessor edge to jump straight to the
// chain's end, so the executor never dispatches through a no-op state at
// match time. States left orphaned by this are simply never visited again;
// nothing frees them from the array, matching spec.md §4.6's description of
// the pass as an edge rewrite, not a compaction.
func skipEpsilons(prog *automaton.Program) {
	resolve := func(idx int) int {
		seen := make(map[int]bool)
		for {
			if idx <= 0 || idx >= len(prog.States) || seen[idx] {
				return idx
			}
			seen[idx] = true
			s := &prog.States[idx]
			if s.Tag != automaton.TagEpsilon || s.EpsilonKind != automaton.EpsilonDefault || s.Next2 != 0 || s.Next1 == 0 {
				return idx
			}
			idx = idx + int(s.Next1)
		}
	}

	for i := range prog.States {
		s := &prog.States[i]
		if s.Next1 != 0 {
			target := resolve(i + int(s.Next1))
			s.Next1 = int32(target - i)
		}
		if s.Next2 != 0 {
			target := resolve(i + int(s.Next2))
			s.Next2 = int32(target - i)
		}
	}
	prog.EntryState = resolve(prog.EntryState)
	prog.ContinuousEntryState = resolve(prog.ContinuousEntryState)
}
