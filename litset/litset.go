// Package litset accelerates patterns that are nothing but a large
// alternation of plain literals ("cat|dog|bird|..."), the way
// meta/compile.go's buildStrategyEngines bypasses the NFA entirely for
// exact literal alternations with more than 32 branches: scanning a
// shared Aho-Corasick automaton once is far cheaper than trying each
// branch in turn per candidate start position.
package litset

import (
	"github.com/coregx/ahocorasick"

	"github.com/ecmacore/ecmacore/automaton"
)

// MinPatterns is the smallest branch count at which Extract builds the
// automaton, the point where it pays for itself, mirroring the teacher's >32-pattern Aho-Corasick threshold
// (below it, Teddy/plain backtracking already does well).
const MinPatterns = 33

// Set wraps a compiled Aho-Corasick automaton over a pattern's literal
// alternatives, plus whether matching is case-insensitive (in which case
// every literal was folded to its canonical case before insertion, and
// Find must be called with haystack bytes already folded the same way).
type Set struct {
	auto *ahocorasick.Automaton
	fold bool
}

// Extract inspects prog's entry point for a top-level alternation whose
// every branch is a plain literal run (no class, group, assertion, or
// quantifier) ending directly at TagSuccess, and builds a Set if there are
// at least MinPatterns such branches. It returns nil when the pattern does
// not have this shape or has too few branches to be worth it.
func Extract(prog *automaton.Program) *Set {
	branches := collectAltChain(prog, prog.EntryState)
	if len(branches) < MinPatterns {
		return nil
	}

	fold := false
	literals := make([][]byte, 0, len(branches))
	for i, b := range branches {
		lit, litFold, ok := literalRun(prog, b)
		if !ok || len(lit) == 0 {
			return nil
		}
		if i == 0 {
			fold = litFold
		} else if litFold != fold {
			// Mixed case-sensitivity across branches cannot share one
			// automaton; bail rather than search incorrectly.
			return nil
		}
		literals = append(literals, []byte(string(lit)))
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &Set{auto: auto, fold: fold}
}

// collectAltChain walks a right-leaning EpsilonAltBranch chain (the shape
// buildAlternation in synpat/parser.go produces) and returns every
// branch's entry state index, in declaration order. Extract is only ever
// called on a Frozen Program (ecmacore.Compile runs it after Freeze), so
// Next1/Next2 are already absolute state indices, not offsets to add.
func collectAltChain(prog *automaton.Program, idx int) []int {
	var branches []int
	for {
		if idx <= 0 || idx >= len(prog.States) {
			return nil
		}
		s := &prog.States[idx]
		if s.Tag != automaton.TagEpsilon || s.EpsilonKind != automaton.EpsilonAltBranch {
			branches = append(branches, idx)
			return branches
		}
		if s.Next1 == 0 || s.Next2 == 0 {
			return nil
		}
		branches = append(branches, int(s.Next1))
		idx = int(s.Next2)
	}
}

// literalRun walks forward from idx through a chain of same-flagged
// TagCharacter states to TagSuccess, returning the literal it spells out.
// Any other shape (class, group, anchor, quantifier, branch) disqualifies
// the whole Set, since Aho-Corasick only accelerates exact literals.
func literalRun(prog *automaton.Program, idx int) ([]rune, bool, bool) {
	var lit []rune
	fold := false
	first := true
	for {
		if idx <= 0 || idx >= len(prog.States) {
			return nil, false, false
		}
		s := &prog.States[idx]
		switch s.Tag {
		case automaton.TagCharacter:
			if s.IsNot {
				return nil, false, false
			}
			if first {
				fold = s.ICase
				first = false
			} else if s.ICase != fold {
				return nil, false, false
			}
			lit = append(lit, rune(s.Character()))
			if s.Next1 == 0 || s.Next2 != 0 {
				return nil, false, false
			}
			idx = int(s.Next1)
		case automaton.TagSuccess:
			return lit, fold, true
		default:
			return nil, false, false
		}
	}
}

// Find reports the leftmost-starting, longest-at-that-start match among
// the Set's literals in haystack at or after byte offset at, mirroring
// ahocorasick.Automaton.Find's own leftmost-longest semantics.
func (s *Set) Find(haystack []byte, at int) (start, end int, ok bool) {
	m := s.auto.Find(haystack, at)
	if m == nil {
		return 0, 0, false
	}
	return m.Start, m.End, true
}

// IsMatch reports whether any literal in the Set occurs anywhere in
// haystack.
func (s *Set) IsMatch(haystack []byte) bool {
	return s.auto.IsMatch(haystack)
}

// Fold reports whether the Set's literals were folded to canonical case at
// build time (prog's branches were compiled under the i flag).
func (s *Set) Fold() bool { return s.fold }
