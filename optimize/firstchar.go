package optimize

import (
	"github.com/ecmacore/ecmacore/automaton"
	"github.com/ecmacore/ecmacore/charclass"
	"github.com/ecmacore/ecmacore/rangeset"
)

// computeFirstChar implements spec.md §4.6 step 5: walk from the entry state
// through every zero-width assertion and loop-decision state, gathering the
// union of code points that can legally start a match. Grounded on the
// teacher's nfa/firstbytes.go ExtractFirstBytes, generalized from a single
// byte lookup table to a full code-point range-set plus an ASCII fast-path
// bitset.
func computeFirstChar(prog *automaton.Program) automaton.FirstCharInfo {
	return firstCharFrom(prog, prog.EntryState)
}

// firstCharFrom runs the same union-gathering walk from an arbitrary state
// index, used by the exclusive-loop and exclusive-branch passes to test two
// sub-chains for first-character disjointness.
func firstCharFrom(prog *automaton.Program, start int) automaton.FirstCharInfo {
	info := automaton.FirstCharInfo{Set: rangeset.New(), Complete: true}
	visited := make(map[int]bool)
	var walk func(idx int)
	walk = func(idx int) {
		if idx <= 0 || idx >= len(prog.States) || visited[idx] {
			return
		}
		visited[idx] = true
		s := &prog.States[idx]

		switch s.Tag {
		case automaton.TagCharacter:
			info.Set.Join(rangeset.Range{First: s.Character(), Second: s.Character()})
			return
		case automaton.TagCharacterClass:
			set := prog.Classes.Set(charclass.ID(s.CharNum))
			if s.IsNot {
				set = set.Negated()
			}
			info.Set.Merge(set)
			return
		case automaton.TagSuccess:
			// Reachable without consuming anything: the pattern can match
			// empty here, so no first-character requirement is safe to use.
			info.Complete = false
			return
		case automaton.TagBackreference:
			// Content depends on a runtime capture; cannot be known here.
			info.Complete = false
			return
		}

		// Every other tag is zero-width for matching purposes (anchors,
		// boundaries, bracket/lookaround/counter/repeat bookkeeping, plain
		// epsilon); follow whichever successors are wired.
		if s.Next1 != 0 {
			walk(idx + int(s.Next1))
		}
		if s.Next2 != 0 {
			walk(idx + int(s.Next2))
		}
	}
	walk(start)

	if !info.Complete {
		return info
	}

	for i := 0; i < 0x80; i++ {
		if info.Set.IsIncluded(rangeset.CodePoint(i)) {
			info.ASCII[i] = true
		}
	}
	if info.Set.Len() == 1 && info.Set.Ranges()[0].Len() == 1 {
		info.Single = info.Set.Ranges()[0].First
		info.IsSingle = true
	}
	return info
}
