// Package vmexec executes a compiled automaton.Program against decoded
// input, implementing spec.md §4.8's automaton-executor semantics.
//
// Grounded on the teacher's nfa/backtrack.go BoundedBacktracker for the
// overall "try a branch, fall back on failure" shape, but widened into the
// explicit four-stack iterative machine spec.md §4.8/§4.9/§9 mandates
// ("backtracking without recursion... the only stack usage is the explicit
// backtrack/capture/counter/repeat stacks") rather than kept as Go
// recursion: every dispatch that would have been a recursive call instead
// pushes a btFrame recording where to resume, and every mutation of a
// capture/counter/repeat slot is logged on its own undo stack so a
// backtrack can unwind exactly the slots a given frame's subtree touched,
// without unwinding Go's own call stack. Lookaround re-enters this same
// loop with a new bottom marker on the four stacks (a lookaroundFrame,
// see lookaround.go) instead of a nested function call.
package vmexec

import (
	"github.com/ecmacore/ecmacore/automaton"
	"github.com/ecmacore/ecmacore/charclass"
	"github.com/ecmacore/ecmacore/rangeset"
)

// DefaultStepBudget bounds the number of state dispatches a single search
// attempt may perform before it is abandoned as pathological, mirroring
// synpat.DefaultConfig's own generator-side budget.
const DefaultStepBudget = 16 * 1024 * 1024

// Result is one successful match: Captures[0] is the whole match,
// Captures[n] is capture group n (1-based), each a [start,end) pair of
// code-point offsets into the input, or [-1,-1] if the group did not
// participate.
type Result struct {
	Captures [][2]int
}

// btFrame is one explicit backtrack-stack entry (spec.md §4.9's bt_stack):
// the state/position to resume forward dispatch at once everything tried
// since this frame was pushed is abandoned, plus the lengths the three
// undo logs must be truncated back to so only the mutations made during
// that abandoned attempt are undone.
type btFrame struct {
	state              int
	pos                int
	capMark, cntMark, repMark int
}

type captureUndo struct {
	idx int
	old [2]int
}

type counterUndo struct {
	idx int
	old int
}

type repeatUndo struct {
	idx int
	old int
}

// matcher holds one search attempt's mutable state. A fresh matcher is
// used per candidate start position; Program/input/flags are read-only and
// shared.
type matcher struct {
	prog  *automaton.Program
	input []rune
	flags automaton.Flags
	arena []rangeset.Range

	captures [][2]int
	counters []int
	repeats  []int

	btStack  []btFrame
	capUndo  []captureUndo
	cntUndo  []counterUndo
	repUndo  []repeatUndo
	lookStack []lookaroundFrame

	wordPos, icaseWordPos, newlinePos charclass.Position

	matchEnd int

	steps    int
	maxSteps int
	exceeded bool
}

func newMatcher(prog *automaton.Program, input []rune, flags automaton.Flags, maxSteps int) *matcher {
	m := &matcher{
		prog:     prog,
		input:    input,
		flags:    flags,
		arena:    prog.Classes.Arena(),
		captures: make([][2]int, prog.CaptureCount),
		counters: make([]int, prog.CounterCount),
		repeats:  make([]int, prog.RepeatCount),
		maxSteps: maxSteps,
	}
	for i := range m.captures {
		m.captures[i] = [2]int{-1, -1}
	}
	for i := range m.repeats {
		m.repeats[i] = -1
	}
	m.wordPos = prog.Classes.PositionOf(charclass.Word)
	m.icaseWordPos = prog.Classes.PositionOf(charclass.ICaseWord)
	m.newlinePos = prog.Classes.PositionOf(charclass.Newline)
	return m
}

// setCapture mutates captures[idx], logging the prior value on capUndo so a
// later backtrack can restore it.
func (m *matcher) setCapture(idx int, v [2]int) {
	m.capUndo = append(m.capUndo, captureUndo{idx, m.captures[idx]})
	m.captures[idx] = v
}

func (m *matcher) setCounter(idx, v int) {
	m.cntUndo = append(m.cntUndo, counterUndo{idx, m.counters[idx]})
	m.counters[idx] = v
}

func (m *matcher) setRepeat(idx, v int) {
	m.repUndo = append(m.repUndo, repeatUndo{idx, m.repeats[idx]})
	m.repeats[idx] = v
}

// unwindTo restores every capture/counter/repeat mutation logged after the
// given marks, in reverse order, and truncates the undo logs to those
// marks. Used when a btFrame is popped: the abandoned attempt's mutations
// must not leak into the alternative this frame resumes.
func (m *matcher) unwindTo(capMark, cntMark, repMark int) {
	for i := len(m.capUndo) - 1; i >= capMark; i-- {
		u := m.capUndo[i]
		m.captures[u.idx] = u.old
	}
	m.capUndo = m.capUndo[:capMark]
	for i := len(m.cntUndo) - 1; i >= cntMark; i-- {
		u := m.cntUndo[i]
		m.counters[u.idx] = u.old
	}
	m.cntUndo = m.cntUndo[:cntMark]
	for i := len(m.repUndo) - 1; i >= repMark; i-- {
		u := m.repUndo[i]
		m.repeats[u.idx] = u.old
	}
	m.repUndo = m.repUndo[:repMark]
}

// discardTo simply forgets every undo entry logged after the given marks,
// keeping the mutated values as they are. Used when a positive lookaround
// succeeds: its inner captures/counters/repeats are kept (spec.md §4.8's
// lookaround-open dispatch), only the now-irrelevant undo history and any
// leftover inner backtrack frames are dropped.
func (m *matcher) discardTo(capMark, cntMark, repMark int) {
	m.capUndo = m.capUndo[:capMark]
	m.cntUndo = m.cntUndo[:cntMark]
	m.repUndo = m.repUndo[:repMark]
}

// isWordAt reports whether input[i] is a "word" character under the class
// a \b/\B assertion's ICase flag selects, per spec.md §4.3's icase_word
// closure. Out-of-range positions are never word characters, matching
// ECMAScript's treatment of the string boundary as a non-word character.
func (m *matcher) isWordAt(i int, icase bool) bool {
	if i < 0 || i >= len(m.input) {
		return false
	}
	pos := m.wordPos
	if icase {
		pos = m.icaseWordPos
	}
	return rangeset.IsIncludedEytzinger(m.arena, pos.Offset, pos.Len, codePoint(m.input[i]))
}

func (m *matcher) isNewlineAt(i int) bool {
	if i < 0 || i >= len(m.input) {
		return false
	}
	return rangeset.IsIncludedEytzinger(m.arena, m.newlinePos.Offset, m.newlinePos.Len, codePoint(m.input[i]))
}
