package optimize

import "github.com/ecmacore/ecmacore/automaton"

// markExclusiveLoops implements spec.md §4.6 step 3 (asterisk-exclusive-
// sequence): for every loop-entry decision epsilon (the "take the body
// again, or leave the loop" choice wrapLoop/wrapCounted compile), test
// whether the loop body's first-character set is disjoint from whatever
// follows the loop. When it is, re-entering the loop can never be the
// wrong choice once the current character matches the body — backtracking
// into "one fewer repetition" could never let the continuation match
// something it couldn't already. The epsilon is marked (IsNot = true) with
// the first-character set of its Next1 arm interned (the body's for a
// greedy loop, the continuation's for a lazy one, whose Next1 is the exit)
// so vmexec can dispatch on the current input character directly, instead
// of pushing a backtrack frame it will never need to pop.
//
// firstCharFrom is a forward walk that does not know where "the loop body"
// ends and "what follows" begins, so in patterns where the body can itself
// match the empty string it may over-count — its result can include
// characters that only the continuation actually owns. That only ever
// makes the two sets look bigger and more likely to overlap, which makes
// the disjointness test fail closed: the optimisation is skipped, never
// wrongly applied.
func markExclusiveLoops(prog *automaton.Program) {
	for i := range prog.States {
		s := &prog.States[i]
		if s.Tag != automaton.TagEpsilon || s.EpsilonKind != automaton.EpsilonLoopEntry {
			continue
		}
		if s.Next1 == 0 || s.Next2 == 0 {
			continue
		}
		t1, t2 := i+int(s.Next1), i+int(s.Next2)
		var pushIdx, exitIdx int
		switch {
		case prog.States[t1].Tag == automaton.TagRepeatInPush:
			pushIdx, exitIdx = t1, t2
		case prog.States[t2].Tag == automaton.TagRepeatInPush:
			pushIdx, exitIdx = t2, t1
		default:
			continue
		}
		push := &prog.States[pushIdx]
		if push.Next1 == 0 {
			continue
		}
		bodyInfo := firstCharFrom(prog, pushIdx+int(push.Next1))
		if !bodyInfo.Complete || bodyInfo.Set.IsEmpty() {
			continue
		}
		exitInfo := firstCharFrom(prog, exitIdx)
		if !exitInfo.Complete || exitInfo.Set.IsEmpty() {
			continue
		}
		if !bodyInfo.Set.Intersect(exitInfo.Set).IsEmpty() {
			continue
		}
		next1Set := bodyInfo.Set
		if pushIdx == t2 {
			next1Set = exitInfo.Set
		}
		id := prog.Classes.Intern(next1Set, false)
		s.IsNot = true
		s.CharNum = int32(id)
	}
}

// markExclusiveBranches implements spec.md §4.6 step 4 (branch-
// optimisation): for every alternation split whose first arm's first-
// character set is disjoint from the remaining arms', mark it the same way
// markExclusiveLoops does, so vmexec can switch on the input character
// instead of always trying arm one speculatively and pushing a fallback
// frame for arm two onward.
func markExclusiveBranches(prog *automaton.Program) {
	for i := range prog.States {
		s := &prog.States[i]
		if s.Tag != automaton.TagEpsilon || s.EpsilonKind != automaton.EpsilonAltBranch {
			continue
		}
		if s.Next1 == 0 || s.Next2 == 0 {
			continue
		}
		firstArm := firstCharFrom(prog, i+int(s.Next1))
		if !firstArm.Complete || firstArm.Set.IsEmpty() {
			continue
		}
		restArms := firstCharFrom(prog, i+int(s.Next2))
		if !restArms.Complete || restArms.Set.IsEmpty() {
			continue
		}
		if !firstArm.Set.Intersect(restArms.Set).IsEmpty() {
			continue
		}
		id := prog.Classes.Intern(firstArm.Set, false)
		s.IsNot = true
		s.CharNum = int32(id)
	}
}
