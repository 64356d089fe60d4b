package vmexec

import (
	"github.com/ecmacore/ecmacore/automaton"
	"github.com/ecmacore/ecmacore/rangeset"
)

// run drives the explicit-stack backtracking machine spec.md §4.8
// describes: a single loop dispatching on the current state's tag, with
// MATCHED (fall through to the next iteration with state/pos already
// advanced), NOT_MATCHED (the notMatched block below, draining btStack and
// any enclosing lookaroundFrame), and JUDGE (the conditional branches
// inside each case) all expressed directly rather than through Go
// recursion. Every dispatch that would have recursed in a call-stack-based
// design instead either falls through to a new state/pos pair or pushes a
// btFrame and falls through to the state it chose to try first.
func (m *matcher) run(pos, state int) bool {
mainloop:
	for {
		if m.exceeded {
			return false
		}
		m.steps++
		if m.steps > m.maxSteps {
			m.exceeded = true
			return false
		}

		s := m.prog.State(state)
		switch s.Tag {

		case automaton.TagCharacter:
			if pos >= len(m.input) {
				goto notMatched
			}
			ok := codePoint(m.input[pos]) == s.Character()
			if s.ICase {
				ok = foldEqual(m.input[pos], rune(s.Character()))
			}
			if s.IsNot {
				ok = !ok
			}
			if !ok {
				goto notMatched
			}
			pos++
			state = int(s.Next1)
			continue mainloop

		case automaton.TagCharacterClass:
			if pos >= len(m.input) {
				goto notMatched
			}
			included := rangeset.IsIncludedEytzinger(m.arena, s.Quantifier.AtLeast, s.Quantifier.AtMost, codePoint(m.input[pos]))
			if s.IsNot {
				included = !included
			}
			if !included {
				goto notMatched
			}
			pos++
			state = int(s.Next1)
			continue mainloop

		case automaton.TagEpsilon:
			// An exclusive-loop/branch marker (optimize.markExclusiveLoops/
			// markExclusiveBranches) has already proven the two arms'
			// first-character sets disjoint: dispatch straight off the
			// current character through the shared Eytzinger arena instead
			// of pushing a backtrack frame that can never need popping.
			if s.IsNot && (s.EpsilonKind == automaton.EpsilonLoopEntry || s.EpsilonKind == automaton.EpsilonAltBranch) {
				included := false
				if pos < len(m.input) {
					included = rangeset.IsIncludedEytzinger(m.arena, s.Quantifier.AtLeast, s.Quantifier.AtMost, codePoint(m.input[pos]))
				}
				if included {
					state = int(s.Next1)
				} else {
					state = int(s.Next2)
				}
				continue mainloop
			}
			if s.Next2 != 0 {
				m.btStack = append(m.btStack, btFrame{
					state: int(s.Next2), pos: pos,
					capMark: len(m.capUndo), cntMark: len(m.cntUndo), repMark: len(m.repUndo),
				})
			}
			state = int(s.Next1)
			continue mainloop

		case automaton.TagSaveAndResetCounter:
			// restore-counter sits at a fixed +4 offset from save
			// (save, check-counter, decrement-counter, force-check, restore
			// — see synpat/quantifier.go's wrapCounted), reached only by
			// backtracking all the way out of every iteration this
			// construct tried.
			m.btStack = append(m.btStack, btFrame{
				state: state + 4, pos: pos,
				capMark: len(m.capUndo), cntMark: len(m.cntUndo), repMark: len(m.repUndo),
			})
			m.setCounter(int(s.CharNum), 0)
			state = int(s.Next1)
			continue mainloop

		case automaton.TagCheckCounter:
			state = m.dispatchCheckCounter(pos, state, s)
			continue mainloop

		case automaton.TagDecrementCounter:
			m.setCounter(int(s.CharNum), m.counters[s.CharNum]-1)
			state = int(s.Next1)
			continue mainloop

		case automaton.TagRestoreCounter:
			// Reached only via a btFrame popped from save-and-reset-counter;
			// unwindTo (run when that frame was popped) has already restored
			// the counter. This construct has nothing left to try.
			goto notMatched

		case automaton.TagRoundBracketOpen:
			lo := int(s.CharNum)
			hi := s.Quantifier.AtMost
			// round-bracket-pop sits immediately after open (synpat/groups.go's
			// parseCapturingGroup), the backtrack target that rolls every
			// inner capture in [lo,hi] back atomically.
			m.btStack = append(m.btStack, btFrame{
				state: state + 1, pos: pos,
				capMark: len(m.capUndo), cntMark: len(m.cntUndo), repMark: len(m.repUndo),
			})
			m.setCapture(lo, [2]int{pos, -1})
			for i := lo + 1; i <= hi; i++ {
				m.setCapture(i, [2]int{-1, -1})
			}
			state = int(s.Next1)
			continue mainloop

		case automaton.TagRoundBracketPop:
			// Reached only via backtrack; unwindTo already restored the
			// captures this open mutated. Nothing else to try here.
			goto notMatched

		case automaton.TagRoundBracketClose:
			old := m.captures[s.CharNum]
			m.setCapture(int(s.CharNum), [2]int{old[0], pos})
			state = int(s.Next1)
			continue mainloop

		case automaton.TagRepeatInPush:
			m.setRepeat(int(s.CharNum), pos)
			// Reset every group the loop body can assign (spec.md §4.8's
			// ECMAScript group re-entry rule), not just whichever one its
			// own round-bracket-open reaches this iteration: a sibling
			// alternative not taken this time around must not keep a
			// stale capture from an earlier iteration.
			for i := s.Quantifier.AtLeast; i <= s.Quantifier.AtMost; i++ {
				m.setCapture(i, [2]int{-1, -1})
			}
			state = int(s.Next1)
			continue mainloop

		case automaton.TagRepeatInPop:
			state = int(s.Next1)
			continue mainloop

		case automaton.TagCheck0WidthRepeat:
			if pos == m.repeats[s.CharNum] {
				state = int(s.Next2)
			} else {
				state = int(s.Next1)
			}
			continue mainloop

		case automaton.TagBackreference:
			newPos, ok := m.checkBackreference(pos, s)
			if !ok {
				goto notMatched
			}
			pos = newPos
			state = int(s.Next1)
			continue mainloop

		case automaton.TagLookaroundOpen:
			lf := newLookaroundFrame(m, pos, s)
			m.lookStack = append(m.lookStack, lf)
			state = lf.innerEntry
			pos = lf.pos0
			continue mainloop

		case automaton.TagBOL:
			if !m.checkBOL(pos, s) {
				goto notMatched
			}
			state = int(s.Next1)
			continue mainloop

		case automaton.TagEOL:
			if !m.checkEOL(pos, s) {
				goto notMatched
			}
			state = int(s.Next1)
			continue mainloop

		case automaton.TagBoundary:
			if !m.checkBoundary(pos, s) {
				goto notMatched
			}
			state = int(s.Next1)
			continue mainloop

		case automaton.TagSuccess:
			if n := len(m.lookStack); n > 0 {
				lf := m.lookStack[n-1]
				landed := lf.direction == automaton.LookAhead || pos == lf.pos0
				if !landed {
					// Wrong landing position for this lookbehind candidate:
					// an ordinary failure of the current attempt, handled
					// by draining this inner attempt's own alternatives.
					goto notMatched
				}
				m.lookStack = m.lookStack[:n-1]
				if lf.negate {
					// The assertion itself fails: discard whatever the
					// inner attempt mutated and propagate failure outward.
					m.unwindTo(lf.capMark, lf.cntMark, lf.repMark)
					m.btStack = m.btStack[:lf.btMark]
					goto notMatched
				}
				// Positive assertion succeeds: keep the inner captures,
				// drop its now-irrelevant leftover alternatives.
				m.discardTo(lf.capMark, lf.cntMark, lf.repMark)
				m.btStack = m.btStack[:lf.btMark]
				pos = lf.pos0
				state = lf.contState
				continue mainloop
			}
			if m.flags.Has(automaton.MatchWholeString) && pos != len(m.input) {
				goto notMatched
			}
			m.matchEnd = pos
			return true
		}
		continue mainloop

	notMatched:
		for {
			if n := len(m.lookStack); n > 0 {
				lf := &m.lookStack[n-1]
				if len(m.btStack) == lf.btMark {
					if lf.direction == automaton.LookAhead {
						m.lookStack = m.lookStack[:n-1]
						if lf.negate {
							// Inner body never matched: the negative
							// lookahead succeeds.
							m.discardTo(lf.capMark, lf.cntMark, lf.repMark)
							pos = lf.pos0
							state = lf.contState
							continue mainloop
						}
						// Positive lookahead exhausted: the assertion
						// fails, propagate to whatever encloses it.
						continue
					}
					// LookBehind: try an earlier candidate start position,
					// or give up if every one has been tried.
					if lf.retryFrom >= 0 {
						p := lf.retryFrom
						lf.retryFrom = p - 1
						pos = p
						state = lf.innerEntry
						continue mainloop
					}
					m.lookStack = m.lookStack[:n-1]
					if lf.negate {
						pos = lf.pos0
						state = lf.contState
						continue mainloop
					}
					continue
				}
			}
			if len(m.btStack) == 0 {
				return false
			}
			f := m.btStack[len(m.btStack)-1]
			m.btStack = m.btStack[:len(m.btStack)-1]
			m.unwindTo(f.capMark, f.cntMark, f.repMark)
			pos, state = f.pos, f.state
			continue mainloop
		}
	}
}

// dispatchCheckCounter implements the chk/force pair of a counted
// quantifier (synpat/quantifier.go's wrapCounted) and returns the state to
// resume forward dispatch at. decrement-counter sits at a fixed +1 offset
// from check-counter and the unconditional "force" variant at +2 (s.IsNot
// distinguishes force from the ordinary check), the same fixed-offset
// convention save-and-reset-counter uses for its own restore-counter
// companion.
func (m *matcher) dispatchCheckCounter(pos, state int, s *automaton.State) int {
	q := s.Quantifier
	n := m.counters[s.CharNum]
	canIterateMore := q.AtMost == automaton.Infinity || n < q.AtMost
	mustIterate := n < q.AtLeast

	pushFrame := func(resume int) {
		m.btStack = append(m.btStack, btFrame{
			state: resume, pos: pos,
			capMark: len(m.capUndo), cntMark: len(m.cntUndo), repMark: len(m.repUndo),
		})
	}

	switch {
	case s.IsNot:
		// force: reached only via backtrack, unconditional iterate.
		m.setCounter(int(s.CharNum), n+1)
		return int(s.Next1)
	case mustIterate:
		m.setCounter(int(s.CharNum), n+1)
		return int(s.Next1)
	case q.Greedy:
		if canIterateMore {
			pushFrame(state + 1) // decrement-counter
			m.setCounter(int(s.CharNum), n+1)
			return int(s.Next1)
		}
		return int(s.Next2)
	default: // lazy
		if canIterateMore {
			pushFrame(state + 2) // force
		}
		return int(s.Next2)
	}
}

// checkBackreference implements \N / \k<name>: an unresolved (never
// entered) group always matches the empty string, per ECMAScript's
// "undefined group" backreference rule.
func (m *matcher) checkBackreference(pos int, s *automaton.State) (int, bool) {
	cap := m.captures[s.CharNum]
	if cap[0] < 0 || cap[1] < 0 {
		return pos, true
	}
	n := cap[1] - cap[0]
	if pos+n > len(m.input) {
		return 0, false
	}
	for i := 0; i < n; i++ {
		want, got := m.input[cap[0]+i], m.input[pos+i]
		if s.ICase {
			if !foldEqual(want, got) {
				return 0, false
			}
		} else if want != got {
			return 0, false
		}
	}
	return pos + n, true
}

// checkBOL implements "^": in multiline mode it also accepts the position
// right after any line terminator.
func (m *matcher) checkBOL(pos int, s *automaton.State) bool {
	atStart := pos == 0 && !m.flags.Has(automaton.MatchNotBOL)
	if s.Multiline {
		return atStart || (pos > 0 && m.isNewlineAt(pos-1))
	}
	return atStart
}

// checkEOL implements "$": in multiline mode it also accepts the position
// right before any line terminator.
func (m *matcher) checkEOL(pos int, s *automaton.State) bool {
	atEnd := pos == len(m.input) && !m.flags.Has(automaton.MatchNotEOL)
	if s.Multiline {
		return atEnd || m.isNewlineAt(pos)
	}
	return atEnd
}

// checkBoundary implements \b/\B: a boundary is a transition between a word
// and a non-word position (the string's ends count as non-word).
func (m *matcher) checkBoundary(pos int, s *automaton.State) bool {
	before := m.isWordAt(pos-1, s.ICase)
	after := m.isWordAt(pos, s.ICase)
	atBoundary := before != after
	if s.IsNot {
		atBoundary = !atBoundary
	}
	return atBoundary
}
