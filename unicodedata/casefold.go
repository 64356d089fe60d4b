// Package unicodedata adapts the Go standard library's Unicode tables —
// themselves generated offline by the same cmd/unicode/maketable lineage
// SRELL's ucfdataout2.cpp/updataout2.cpp/updataout3.cpp sidecar tools
// produce for the C++ original — into the shapes the ECMAScript core needs:
// a canonical case-fold function, a bounded case-unfold equivalence set,
// and rangeset.Set values for binary/category/script properties.
package unicodedata

import (
	"unicode"

	"github.com/ecmacore/ecmacore/rangeset"
)

// RevMaxSet bounds the size of a case-fold equivalence set, matching
// SRELL's REV_MAXSET.
const RevMaxSet = 4

// CaseFold returns the canonical representative of c's case-equivalence
// class: the smallest code point reachable from c by repeated simple case
// folding. This is ECMAScript's u-mode "Canonicalize" operation.
func CaseFold(c rangeset.CodePoint) rangeset.CodePoint {
	r := rune(c)
	min := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < min {
			min = f
		}
	}
	return rangeset.CodePoint(min)
}

// CaseUnfold returns c's case-equivalence set — every code point that folds
// to the same canonical representative as c, c included — bounded to
// RevMaxSet members as SRELL's reverse table guarantees.
func CaseUnfold(c rangeset.CodePoint) []rangeset.CodePoint {
	r := rune(c)
	set := make([]rangeset.CodePoint, 0, RevMaxSet)
	set = append(set, c)
	for f := unicode.SimpleFold(r); f != r && len(set) < RevMaxSet; f = unicode.SimpleFold(f) {
		set = append(set, rangeset.CodePoint(f))
	}
	return set
}

// ICaseWordSet lazily expands the ASCII \w set with the icase folding
// closure required by icase_word (see charclass.Registry): case-unfolding
// every ASCII word character. U+017F (LATIN SMALL LETTER LONG S) and
// U+212A (KELVIN SIGN) fall out of this closure naturally, since both fold
// to ASCII letters under simple case folding — which is exactly the
// ECMAScript quirk spec.md §4.3 describes: they end up added to icase
// /[\w]/ and, being members of the icase word set, excluded from icase
// /[\W]/'s negation.
func ICaseWordSet(ascii *rangeset.Set) *rangeset.Set {
	out := ascii.Clone()
	for _, r := range ascii.Ranges() {
		for c := r.First; c <= r.Second; c++ {
			for _, u := range CaseUnfold(c) {
				out.Join(rangeset.Range{First: u, Second: u})
			}
		}
	}
	return out
}
