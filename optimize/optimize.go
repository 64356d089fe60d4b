// Package optimize runs the post-parse rewriting and analysis passes over a
// freshly built automaton.Program, in the fixed order spec.md §4.6
// prescribes. Each pass operates directly on the flat, still-relative-offset
// state array synpat hands it; Run is the only exported entry point and is
// meant to be called once, before Program.Freeze.
//
// Grounded on nfa/firstbytes.go (first-byte set extraction, generalized to
// code points for firstChar), nfa/pattern_analysis.go (loop/anchor shape
// analysis, generalized to the asterisk-exclusive-sequence pass), and
// literal/extractor.go (literal sequence extraction, generalized to the
// entry-point rewinder and BMH-extraction passes).
package optimize

import "github.com/ecmacore/ecmacore/automaton"

// Run applies all eight spec.md §4.6 passes to prog that operate on
// relative offsets, in order:
//
//  1. branch-optimisation-2 (literal-prefix trie fold)
//  2. entry-point rewinder
//  3. asterisk-exclusive-sequence
//  4. branch-optimisation (disjoint-first-character two-way dispatch)
//  5. first-character class extraction
//  6. epsilon skipping
//  7. character-class position-info finalize
//  8. BMH extraction
//
// Pass 7 runs here rather than inside synpat.Parse: passes 3 and 4 intern
// new first-character sets of their own (the exclusive-loop/branch
// markers), and Registry.Intern panics once Finalize has built the shared
// arena, so Finalize must wait until after those two passes have had their
// chance to run.
//
// The relative-to-absolute jump freeze (Program.Freeze) runs after Run
// returns, invoked by the caller (the root facade): every pass above reads
// and rewrites relative Next1/Next2 offsets, so Freeze must wait until all
// of them are done. Any analysis that instead needs absolute offsets (such
// as litset.Extract's alternation-chain walk) runs after that point, not
// inside Run.
func Run(prog *automaton.Program) {
	foldLiteralPrefixes(prog)
	rewindEntryPoint(prog)
	markExclusiveLoops(prog)
	markExclusiveBranches(prog)
	prog.FirstChar = computeFirstChar(prog)
	skipEpsilons(prog)
	finalizeClasses(prog)
	extractPureLiteral(prog)
}
