package optimize

import "github.com/ecmacore/ecmacore/automaton"

// foldLiteralPrefixes implements spec.md §4.6 step 1 (branch-optimisation-2):
// fold adjacent alternatives that share a literal prefix into a common stem,
// so the executor checks the shared prefix once instead of once per
// alternative that starts with it. Only a split whose two arms both begin
// with a character or class state is folded: in "a|ab|abc" the last two
// alternatives share the stem "ab", while the first split, whose second
// arm is another split, is left as it is.
//
// This folds one alternation split at a time: when both of a split's arms
// begin with an identical character or character-class state, it splices a
// fresh inner split between their two continuations and repoints the outer
// split straight at the shared state, then repeats at the new inner split —
// which is how a run of several shared characters (not just one) collapses
// into a single stem. The old second arm is left in the state array,
// unreachable: spec.md §4.6 describes this pass as a rewrite of edges, not
// a compaction (the array is never resized downward).
func foldLiteralPrefixes(prog *automaton.Program) {
	n := len(prog.States)
	for i := 0; i < n; i++ {
		foldAt(prog, i)
	}
}

func foldAt(prog *automaton.Program, i int) {
	for {
		st := prog.States[i]
		if st.Tag != automaton.TagEpsilon || st.EpsilonKind != automaton.EpsilonAltBranch {
			return
		}
		if st.Next1 == 0 || st.Next2 == 0 {
			return
		}
		aIdx := i + int(st.Next1)
		bIdx := i + int(st.Next2)
		a := prog.States[aIdx]
		b := prog.States[bIdx]

		if a.Tag != b.Tag {
			return
		}
		if a.Tag != automaton.TagCharacter && a.Tag != automaton.TagCharacterClass {
			return
		}
		if a.CharNum != b.CharNum || a.IsNot != b.IsNot || a.ICase != b.ICase {
			return
		}
		if a.Next1 == 0 || b.Next1 == 0 {
			return
		}

		aCont := aIdx + int(a.Next1)
		bCont := bIdx + int(b.Next1)

		innerIdx := len(prog.States)
		prog.States = append(prog.States, automaton.State{
			Tag:         automaton.TagEpsilon,
			EpsilonKind: automaton.EpsilonAltBranch,
			Next1:       int32(aCont - innerIdx),
			Next2:       int32(bCont - innerIdx),
		})

		prog.States[aIdx].Next1 = int32(innerIdx - aIdx)
		prog.States[i].Next1 = int32(aIdx - i)
		prog.States[i].Next2 = 0

		i = innerIdx
	}
}
