package optimize

import (
	"testing"

	"github.com/ecmacore/ecmacore/automaton"
	"github.com/ecmacore/ecmacore/charclass"
	"github.com/ecmacore/ecmacore/rangeset"
	"github.com/ecmacore/ecmacore/synpat"
)

func compile(t *testing.T, pattern string, flags automaton.Flags) *automaton.Program {
	t.Helper()
	prog, err := synpat.Parse(pattern, flags, synpat.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", pattern, err)
	}
	return prog
}

func TestComputeFirstCharLiteral(t *testing.T) {
	prog := compile(t, "abc", 0)
	info := computeFirstChar(prog)
	if !info.Complete {
		t.Fatalf("expected Complete for a pattern that cannot match empty")
	}
	if !info.IsSingle || info.Single != 'a' {
		t.Fatalf("got %+v, want a single first character 'a'", info)
	}
}

func TestComputeFirstCharAlternation(t *testing.T) {
	prog := compile(t, "cat|dog", 0)
	info := computeFirstChar(prog)
	if !info.Complete {
		t.Fatalf("expected Complete for cat|dog")
	}
	if info.IsSingle {
		t.Fatalf("expected more than one possible first character")
	}
	if !info.Set.IsIncluded(rangeset.CodePoint('c')) || !info.Set.IsIncluded(rangeset.CodePoint('d')) {
		t.Fatalf("expected both c and d in the first-character set, got %+v", info.Set)
	}
	if info.Set.IsIncluded(rangeset.CodePoint('x')) {
		t.Fatalf("x should not be a possible first character of cat|dog")
	}
}

func TestComputeFirstCharIncompleteOnOptional(t *testing.T) {
	prog := compile(t, "a?b", 0)
	info := computeFirstChar(prog)
	if !info.Complete {
		t.Fatalf("a?b can only match starting with a or b, both known, want Complete")
	}
	prog2 := compile(t, "a*", 0)
	info2 := computeFirstChar(prog2)
	if info2.Complete {
		t.Fatalf("a* can match the empty string, want Complete=false")
	}
}

func TestComputeFirstCharIncompleteOnBackreference(t *testing.T) {
	prog := compile(t, `(a)\1`, 0)
	info := computeFirstChar(prog)
	// The pattern always requires an 'a' first, but firstCharFrom gives up
	// as soon as it can reach a TagBackreference state without consuming,
	// which is never true of (a)\1's own entry (the (a) group must be
	// entered and its literal consumed before \1 is even reachable), so
	// this is actually Complete; use a pattern where the backreference is
	// reachable with nothing consumed first instead.
	if !info.Complete {
		t.Fatalf("(a)\\1 requires the literal a first, want Complete=true, got %+v", info)
	}

	prog2 := compile(t, `(a)?\1b`, 0)
	info2 := computeFirstChar(prog2)
	if info2.Complete {
		t.Fatalf("(a)?\\1b can reach the backreference with nothing consumed, want Complete=false")
	}
}

func TestExtractPureLiteral(t *testing.T) {
	prog := compile(t, "hello", 0)
	extractPureLiteral(prog)
	if !prog.HasPureLiteral {
		t.Fatalf("expected HasPureLiteral for a plain literal pattern")
	}
	if string(prog.PureLiteral) != "hello" {
		t.Fatalf("got PureLiteral %q, want hello", string(prog.PureLiteral))
	}
	if prog.PureLiteralFold {
		t.Fatalf("expected PureLiteralFold=false for a non-i pattern")
	}
}

func TestExtractPureLiteralRejectsNonLiteralShape(t *testing.T) {
	for _, pat := range []string{"a|b", "a+", "(a)", "a[bc]", "^a"} {
		prog := compile(t, pat, 0)
		extractPureLiteral(prog)
		if prog.HasPureLiteral {
			t.Errorf("pattern %q: expected HasPureLiteral=false, got true", pat)
		}
	}
}

func TestExtractPureLiteralICase(t *testing.T) {
	prog := compile(t, "abc", automaton.ICase)
	extractPureLiteral(prog)
	if !prog.HasPureLiteral || !prog.PureLiteralFold {
		t.Fatalf("expected a case-folded pure literal under the i flag")
	}
}

func TestSkipEpsilonsPreservesMatch(t *testing.T) {
	prog := compile(t, "(?:(?:(?:a)))", 0)
	skipEpsilons(prog)
	// Entry state must still resolve to a real, in-range state after
	// chasing through the nested non-capturing groups' bare epsilons.
	if prog.EntryState <= 0 || prog.EntryState >= len(prog.States) {
		t.Fatalf("EntryState %d out of range after skipEpsilons", prog.EntryState)
	}
}

func TestFinalizeClassesAssignsPosition(t *testing.T) {
	prog := compile(t, "[a-z]+", 0)
	markExclusiveLoops(prog)
	markExclusiveBranches(prog)
	finalizeClasses(prog)

	found := false
	for i := range prog.States {
		s := &prog.States[i]
		if s.Tag == automaton.TagCharacterClass {
			found = true
			if s.Quantifier.AtMost <= 0 {
				t.Errorf("class state Quantifier.AtMost = %d, want a positive Eytzinger span length", s.Quantifier.AtMost)
			}
		}
	}
	if !found {
		t.Fatalf("expected at least one TagCharacterClass state for [a-z]+")
	}
	// Finalize must have run: registry lookups stay correct afterward even
	// though a further Intern call would now panic.
	for _, s := range prog.States {
		if s.Tag == automaton.TagCharacterClass {
			if !prog.Classes.IsIncluded(charclass.ID(s.CharNum), rangeset.CodePoint('m')) {
				t.Errorf("expected 'm' to be included in the [a-z] class after Finalize")
			}
			break
		}
	}
}

func TestRunAppliesPassesInOrder(t *testing.T) {
	prog := compile(t, "abc", 0)
	Run(prog)
	if !prog.HasPureLiteral {
		t.Fatalf("expected Run to end with extractPureLiteral populating HasPureLiteral")
	}
	if !prog.FirstChar.Complete || !prog.FirstChar.IsSingle || prog.FirstChar.Single != 'a' {
		t.Fatalf("got FirstChar %+v, want a single required first character 'a'", prog.FirstChar)
	}
}

func TestRunOnAlternationNoPureLiteral(t *testing.T) {
	prog := compile(t, "cat|dog", 0)
	Run(prog)
	if prog.HasPureLiteral {
		t.Fatalf("an alternation is not a pure literal, want HasPureLiteral=false")
	}
}
