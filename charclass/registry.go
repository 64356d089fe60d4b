// Package charclass interns compiled character classes — predefined
// classes (newline, dotall, space, digit, word, icase_word) plus every
// user class the parser compiles — so that automaton states reference a
// class by a small integer index instead of embedding a full range-set.
//
// Grounded on the teacher's nfa/alphabet.go ByteClasses: the same
// intern-and-deduplicate idiom, generalized from byte equivalence classes
// to Unicode code-point range-sets, plus a Finalize pass that plays the
// role of nfa/charclass_extract.go's per-state class rewriting.
package charclass

import (
	"fmt"
	"strings"

	"github.com/ecmacore/ecmacore/rangeset"
	"github.com/ecmacore/ecmacore/unicodedata"
)

// ID identifies an interned class. The predefined classes occupy the first
// few IDs at fixed positions so the parser can reference them without a
// registry lookup.
type ID int

// Predefined class IDs, registered by NewRegistry in this exact order.
const (
	Newline ID = iota
	DotAll
	Space
	Digit
	Word
	ICaseWord
)

// Position addresses a class's ranges within the registry's Eytzinger
// arena after Finalize: (Offset, Len) is exactly the pair spec.md §3
// describes states overloading into their Quantifier field once class
// lookup moves off CharNum.
type Position struct {
	Offset, Len int
}

// Registry interns compiled character classes. Equal classes (same
// ranges, same negation) de-duplicate to the same ID.
type Registry struct {
	sets      []*rangeset.Set
	negated   []bool
	index     map[string]ID
	finalized bool
	arena     []rangeset.Range
	positions []Position

	asciiWord *rangeset.Set
}

// NewRegistry builds a Registry with the six predefined classes already
// registered at their fixed IDs.
func NewRegistry() *Registry {
	r := &Registry{index: make(map[string]ID)}

	newline := rangeset.New(
		rangeset.Range{First: '\n', Second: '\n'},
		rangeset.Range{First: '\r', Second: '\r'},
		rangeset.Range{First: 0x2028, Second: 0x2029},
	)
	r.mustRegisterAt(Newline, newline, false)

	dotall := rangeset.New(rangeset.Range{First: 0, Second: rangeset.MaxCodePoint})
	r.mustRegisterAt(DotAll, dotall, false)

	space := rangeset.New(
		rangeset.Range{First: '\t', Second: '\t'},
		rangeset.Range{First: '\n', Second: '\n'},
		rangeset.Range{First: 0x0B, Second: 0x0D},
		rangeset.Range{First: ' ', Second: ' '},
		rangeset.Range{First: 0xA0, Second: 0xA0},
		rangeset.Range{First: 0x1680, Second: 0x1680},
		rangeset.Range{First: 0x2000, Second: 0x200A},
		rangeset.Range{First: 0x2028, Second: 0x2029},
		rangeset.Range{First: 0x202F, Second: 0x202F},
		rangeset.Range{First: 0x205F, Second: 0x205F},
		rangeset.Range{First: 0x3000, Second: 0x3000},
		rangeset.Range{First: 0xFEFF, Second: 0xFEFF},
	)
	r.mustRegisterAt(Space, space, false)

	digit := rangeset.New(rangeset.Range{First: '0', Second: '9'})
	r.mustRegisterAt(Digit, digit, false)

	word := rangeset.New(
		rangeset.Range{First: '0', Second: '9'},
		rangeset.Range{First: 'A', Second: 'Z'},
		rangeset.Range{First: '_', Second: '_'},
		rangeset.Range{First: 'a', Second: 'z'},
	)
	r.asciiWord = word
	r.mustRegisterAt(Word, word, false)

	// icase_word starts identical to word; ExpandICaseWord performs the
	// lazy case-unfolding closure the first time an icase \w/\b needs it.
	// It is appended directly: interning it would de-duplicate it onto
	// Word's ID.
	r.sets = append(r.sets, word.Clone())
	r.negated = append(r.negated, false)

	return r
}

func (r *Registry) mustRegisterAt(want ID, set *rangeset.Set, negated bool) {
	got := r.intern(set, negated)
	if got != want {
		panic(fmt.Sprintf("charclass: predefined class %d registered at %d", want, got))
	}
}

func key(set *rangeset.Set, negated bool) string {
	var b strings.Builder
	if negated {
		b.WriteByte('!')
	}
	for _, r := range set.Ranges() {
		fmt.Fprintf(&b, "%d-%d,", r.First, r.Second)
	}
	return b.String()
}

func (r *Registry) intern(set *rangeset.Set, negated bool) ID {
	k := key(set, negated)
	if id, ok := r.index[k]; ok {
		return id
	}
	id := ID(len(r.sets))
	r.sets = append(r.sets, set)
	r.negated = append(r.negated, negated)
	r.index[k] = id
	return id
}

// Intern registers set (already case-unfolded by the caller if icase
// applies) and returns its ID, de-duplicating against any equal class
// already interned.
func (r *Registry) Intern(set *rangeset.Set, negated bool) ID {
	if r.finalized {
		panic("charclass: Intern called after Finalize")
	}
	return r.intern(set, negated)
}

// ExpandICaseWord performs the lazy icase_word expansion described in
// spec.md §4.3: the first icase-aware \w/\b that needs it case-unfolds the
// ASCII word set. Safe to call more than once; only the first call has an
// effect.
func (r *Registry) ExpandICaseWord() {
	if r.finalized {
		panic("charclass: ExpandICaseWord called after Finalize")
	}
	expanded := unicodedata.ICaseWordSet(r.asciiWord)
	r.sets[ICaseWord] = expanded
	// Re-key the entry so future Intern calls against the expanded class
	// still de-duplicate correctly.
	for k, id := range r.index {
		if id == ICaseWord {
			delete(r.index, k)
			break
		}
	}
	r.index[key(expanded, false)] = ICaseWord
}

// Set returns the range-set backing id. Valid at any time, before or after
// Finalize.
func (r *Registry) Set(id ID) *rangeset.Set {
	return r.sets[id]
}

// Negated reports whether id was interned as a negated class.
func (r *Registry) Negated(id ID) bool {
	return r.negated[id]
}

// Count returns the number of interned classes.
func (r *Registry) Count() int {
	return len(r.sets)
}

// Finalize rebuilds an Eytzinger-ordered copy of every interned class into
// a single shared arena and records each class's (Offset, Len) position
// within it. After Finalize, callers address a class via Position instead
// of ID-based Set lookups — this is the "character-class position-info"
// optimiser pass from spec.md §4.6 step 7, factored out of the optimizer
// package so both it and the executor can share one arena.
func (r *Registry) Finalize() {
	if r.finalized {
		return
	}
	r.positions = make([]Position, len(r.sets))
	for i, set := range r.sets {
		eytz := set.CreateEytzinger()
		r.positions[i] = Position{Offset: len(r.arena), Len: len(eytz)}
		r.arena = append(r.arena, eytz...)
	}
	r.finalized = true
}

// Arena returns the shared Eytzinger arena built by Finalize.
func (r *Registry) Arena() []rangeset.Range {
	return r.arena
}

// PositionOf returns id's (Offset, Len) into Arena. Panics if Finalize has
// not run yet.
func (r *Registry) PositionOf(id ID) Position {
	if !r.finalized {
		panic("charclass: PositionOf called before Finalize")
	}
	return r.positions[id]
}

// IsIncluded tests c against id, consulting Negated(id) — valid both
// before and after Finalize (it always falls back to the plain range-set,
// since the Eytzinger arena is purely a cache-friendly lookup fast path
// with identical results).
func (r *Registry) IsIncluded(id ID, c rangeset.CodePoint) bool {
	in := r.sets[id].IsIncluded(c)
	if r.negated[id] {
		return !in
	}
	return in
}
