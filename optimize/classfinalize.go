package optimize

import (
	"github.com/ecmacore/ecmacore/automaton"
	"github.com/ecmacore/ecmacore/charclass"
)

// finalizeClasses implements spec.md §4.6 step 7: once every rewriting pass
// above has had its chance to intern new classes (the exclusive-loop and
// exclusive-branch passes each intern a first-character set), finalize()
// the class registry into its shared Eytzinger arena and overwrite every
// class-referencing state's Quantifier with its (offset,length) position,
// so the executor never needs a registry lookup on the hot path.
//
// Two state shapes reference a class by CharNum at this point:
// TagCharacterClass (set by synpat) and the exclusive-loop/branch epsilon
// markers markExclusiveLoops/markExclusiveBranches leave behind (IsNot set
// as the marker, CharNum holding the interned class id). Both are rewritten
// the same way.
func finalizeClasses(prog *automaton.Program) {
	prog.Classes.Finalize()
	for i := range prog.States {
		s := &prog.States[i]
		isClassRef := s.Tag == automaton.TagCharacterClass
		isExclusiveMarker := s.Tag == automaton.TagEpsilon && s.IsNot &&
			(s.EpsilonKind == automaton.EpsilonLoopEntry || s.EpsilonKind == automaton.EpsilonAltBranch)
		if !isClassRef && !isExclusiveMarker {
			continue
		}
		pos := prog.Classes.PositionOf(charclass.ID(s.CharNum))
		s.Quantifier.AtLeast = pos.Offset
		s.Quantifier.AtMost = pos.Len
	}
}
