// Package bmh implements Boyer-Moore-Horspool search over decoded code
// points, the fast path optimize.extractPureLiteral's whole-pattern literal
// detection hands off to: when a compiled pattern is nothing but a
// mandatory literal run, the facade searches with a Searcher instead of
// driving the automaton at all.
//
// Grounded on the teacher's simd/memmem.go (the rare-byte-candidate,
// verify-on-hit search shape) and simd/byte_frequencies.go (the bad-
// character shift table, generalized here from a fixed 256-byte table
// keyed by byte value to a map keyed by code point, since ECMAScript
// literals run over runes rather than bytes).
package bmh

import (
	"github.com/ecmacore/ecmacore/rangeset"
	"github.com/ecmacore/ecmacore/unicodedata"
)

// Searcher holds the precomputed Horspool bad-character shift table for one
// literal needle, reusable across many searches of the same pattern.
type Searcher struct {
	needle []rune
	fold   bool
	shift  map[rune]int
	last   rune
}

// New builds a Searcher for needle. When fold is true, matching is done
// under ECMAScript's canonical case-fold (unicodedata.CaseFold) rather than
// exact rune equality.
func New(needle []rune, fold bool) *Searcher {
	s := &Searcher{needle: needle, fold: fold}
	n := len(needle)
	if n == 0 {
		return s
	}
	s.last = s.key(needle[n-1])
	s.shift = make(map[rune]int, n)
	for i := 0; i < n-1; i++ {
		s.shift[s.key(needle[i])] = n - 1 - i
	}
	return s
}

func (s *Searcher) key(r rune) rune {
	if s.fold {
		return rune(unicodedata.CaseFold(rangeset.CodePoint(r)))
	}
	return r
}

// shiftFor returns the Horspool skip distance for the rune that aligned
// with the needle's final position, defaulting to a full needle-length
// skip when that rune does not occur anywhere else in the needle.
func (s *Searcher) shiftFor(r rune) int {
	if d, ok := s.shift[s.key(r)]; ok {
		return d
	}
	return len(s.needle)
}

func (s *Searcher) equalAt(text []rune, at int) bool {
	for i, want := range s.needle {
		got := text[at+i]
		if s.fold {
			if unicodedata.CaseFold(rangeset.CodePoint(got)) != unicodedata.CaseFold(rangeset.CodePoint(want)) {
				return false
			}
		} else if got != want {
			return false
		}
	}
	return true
}

// Index returns the code-point index of the first occurrence of the
// Searcher's needle in text at or after from, or -1 if absent. An empty
// needle matches immediately at from.
func (s *Searcher) Index(text []rune, from int) int {
	n := len(s.needle)
	if n == 0 {
		if from < 0 {
			from = 0
		}
		return from
	}
	if from < 0 {
		from = 0
	}
	end := len(text)
	pos := from + n - 1
	for pos < end {
		c := s.key(text[pos])
		if c == s.last && s.equalAt(text, pos-n+1) {
			return pos - n + 1
		}
		pos += s.shiftFor(text[pos])
	}
	return -1
}

// Len reports the needle's length in code points.
func (s *Searcher) Len() int { return len(s.needle) }
