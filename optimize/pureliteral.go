package optimize

import "github.com/ecmacore/ecmacore/automaton"

// extractPureLiteral implements spec.md §4.6 step 9 (BMH extraction):
// detect the degenerate case where the whole pattern is nothing but a
// mandatory run of literal characters back to back, with no alternation,
// group, assertion, or quantifier anywhere in the chain. When the entry
// state walks straight through a run of TagCharacter states to TagSuccess
// with no branching, the automaton is never needed at match time at all;
// the bmh package searches prog.PureLiteral directly. Grounded on
// literal/extractor.go's whole-pattern literal detection, narrowed from
// a tree walk to a flat forward walk since automaton.Program has no tree.
func extractPureLiteral(prog *automaton.Program) {
	var lit []rune
	fold := false
	first := true

	idx := prog.EntryState
	for {
		if idx <= 0 || idx >= len(prog.States) {
			return
		}
		s := &prog.States[idx]
		switch s.Tag {
		case automaton.TagCharacter:
			if s.IsNot {
				return
			}
			if first {
				fold = s.ICase
				first = false
			} else if s.ICase != fold {
				return
			}
			lit = append(lit, rune(s.Character()))
			if s.Next1 == 0 || s.Next2 != 0 {
				return
			}
			idx = idx + int(s.Next1)
		case automaton.TagSuccess:
			if len(lit) == 0 {
				return
			}
			prog.PureLiteral = lit
			prog.PureLiteralFold = fold
			prog.HasPureLiteral = true
			return
		default:
			return
		}
	}
}
