package vmexec

import (
	"testing"

	"github.com/ecmacore/ecmacore/automaton"
	"github.com/ecmacore/ecmacore/optimize"
	"github.com/ecmacore/ecmacore/synpat"
)

func compile(t *testing.T, pattern string, flags automaton.Flags) *automaton.Program {
	t.Helper()
	prog, err := synpat.Parse(pattern, flags, synpat.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", pattern, err)
	}
	optimize.Run(prog)
	prog.Freeze()
	return prog
}

func search(t *testing.T, prog *automaton.Program, text string, from int) *Result {
	t.Helper()
	res, err := Search(prog, []rune(text), from, 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	return res
}

func TestLiteral(t *testing.T) {
	prog := compile(t, "abc", 0)
	res := search(t, prog, "xxabcyy", 0)
	if res == nil || res.Captures[0] != [2]int{2, 5} {
		t.Fatalf("got %+v, want match at [2,5]", res)
	}
	if search(t, prog, "xyz", 0) != nil {
		t.Fatalf("expected no match")
	}
}

func TestAlternation(t *testing.T) {
	prog := compile(t, "cat|dog|bird", 0)
	for _, text := range []string{"a dog ran", "the cat sat", "bird song"} {
		if search(t, prog, text, 0) == nil {
			t.Errorf("expected match in %q", text)
		}
	}
	if search(t, prog, "no animal here", 0) != nil {
		t.Fatalf("expected no match")
	}
}

func TestQuantifiers(t *testing.T) {
	cases := []struct {
		pattern, text string
		want          [2]int
	}{
		{"a*", "aaab", [2]int{0, 3}},
		{"a+", "baaab", [2]int{1, 4}},
		{"a?b", "ab", [2]int{0, 2}},
		{"a{2,4}", "aaaaa", [2]int{0, 4}},
		{"a{2,}", "aaaaa", [2]int{0, 5}},
		{"a{3}", "aaaaa", [2]int{0, 3}},
	}
	for _, tc := range cases {
		prog := compile(t, tc.pattern, 0)
		res := search(t, prog, tc.text, 0)
		if res == nil || res.Captures[0] != tc.want {
			t.Errorf("pattern %q on %q: got %+v, want %v", tc.pattern, tc.text, res, tc.want)
		}
	}
}

func TestLazyQuantifier(t *testing.T) {
	prog := compile(t, "a+?", 0)
	res := search(t, prog, "aaa", 0)
	if res == nil || res.Captures[0] != [2]int{0, 1} {
		t.Fatalf("got %+v, want shortest match [0,1]", res)
	}
}

func TestCharacterClass(t *testing.T) {
	prog := compile(t, "[a-c]+", 0)
	res := search(t, prog, "xxabcaacbxx", 0)
	if res == nil || res.Captures[0] != [2]int{2, 9} {
		t.Fatalf("got %+v", res)
	}
}

func TestCapturingGroups(t *testing.T) {
	prog := compile(t, "(a+)(b+)", 0)
	res := search(t, prog, "aaabbb", 0)
	if res == nil {
		t.Fatalf("expected match")
	}
	if res.Captures[1] != [2]int{0, 3} || res.Captures[2] != [2]int{3, 6} {
		t.Fatalf("got captures %+v", res.Captures)
	}
}

func TestGroupResetOnLoopReentry(t *testing.T) {
	// Re-entering a capturing group on a later loop iteration resets it, so
	// only the final iteration's span survives, not the first's.
	prog := compile(t, "(a)+", 0)
	res := search(t, prog, "aaa", 0)
	if res == nil {
		t.Fatalf("expected match")
	}
	if res.Captures[1] != [2]int{2, 3} {
		t.Fatalf("group 1 should be the last iteration's match only, got %+v", res.Captures[1])
	}
}

func TestGroupResetOnLoopReentrySiblingAlternation(t *testing.T) {
	// A loop body with sibling alternatives is the case plain "(a)+" can't
	// exercise: iteration 2 takes the (b) branch, never touching group 1's
	// own round-bracket-open, so only a reset at the loop's own re-entry
	// point (not each bracket's private nested range) clears group 1's
	// stale span from iteration 1.
	prog := compile(t, "(?:(a)|(b))+", 0)
	res := search(t, prog, "ab", 0)
	if res == nil {
		t.Fatalf("expected match")
	}
	if res.Captures[1] != [2]int{-1, -1} {
		t.Fatalf("group 1 should be reset by the (b) iteration, got %+v", res.Captures[1])
	}
	if res.Captures[2] != [2]int{1, 2} {
		t.Fatalf("group 2 should be the (b) iteration's match, got %+v", res.Captures[2])
	}
}

func TestBackreference(t *testing.T) {
	prog := compile(t, `(\w+) \1`, 0)
	if search(t, prog, "hello hello", 0) == nil {
		t.Fatalf("expected match")
	}
	if search(t, prog, "hello world", 0) != nil {
		t.Fatalf("expected no match")
	}
}

func TestBackreferenceUndefinedGroup(t *testing.T) {
	prog := compile(t, `(a)?\1b`, 0)
	res := search(t, prog, "b", 0)
	if res == nil || res.Captures[0] != [2]int{0, 1} {
		t.Fatalf("got %+v, want an undefined backreference to match empty", res)
	}
}

func TestAnchors(t *testing.T) {
	prog := compile(t, "^abc$", 0)
	if search(t, prog, "abc", 0) == nil {
		t.Fatalf("expected match")
	}
	if search(t, prog, "xabc", 0) != nil {
		t.Fatalf("expected no match before ^")
	}
	if search(t, prog, "abcx", 0) != nil {
		t.Fatalf("expected no match after $")
	}
}

func TestMultilineAnchors(t *testing.T) {
	prog := compile(t, "^b", automaton.Multiline)
	res := search(t, prog, "a\nb", 0)
	if res == nil || res.Captures[0] != [2]int{2, 3} {
		t.Fatalf("got %+v, want match after newline in multiline mode", res)
	}
}

func TestWordBoundary(t *testing.T) {
	prog := compile(t, `\bcat\b`, 0)
	if search(t, prog, "a cat sat", 0) == nil {
		t.Fatalf("expected match")
	}
	if search(t, prog, "concatenate", 0) != nil {
		t.Fatalf("expected no match inside a longer word")
	}
}

func TestCaseInsensitive(t *testing.T) {
	prog := compile(t, "HELLO", automaton.ICase)
	res := search(t, prog, "say hello now", 0)
	if res == nil || res.Captures[0] != [2]int{4, 9} {
		t.Fatalf("got %+v", res)
	}
}

func TestLookaheadPositive(t *testing.T) {
	prog := compile(t, `\d+(?=px)`, 0)
	res := search(t, prog, "100px", 0)
	if res == nil || res.Captures[0] != [2]int{0, 3} {
		t.Fatalf("got %+v, want the lookahead to not consume \"px\"", res)
	}
}

func TestLookaheadNegative(t *testing.T) {
	prog := compile(t, `foo(?!bar)`, 0)
	if search(t, prog, "foobar", 0) != nil {
		t.Fatalf("expected no match: foo is followed by bar")
	}
	if search(t, prog, "foobaz", 0) == nil {
		t.Fatalf("expected a match: foo is not followed by bar")
	}
}

func TestLookbehindPositive(t *testing.T) {
	prog := compile(t, `(?<=\$)\d+`, 0)
	res := search(t, prog, "$100", 0)
	if res == nil || res.Captures[0] != [2]int{1, 4} {
		t.Fatalf("got %+v, want the lookbehind to not consume \"$\"", res)
	}
	if search(t, prog, "100", 0) != nil {
		t.Fatalf("expected no match without a preceding $")
	}
}

func TestLookbehindNegative(t *testing.T) {
	prog := compile(t, `(?<!\$)\d+`, 0)
	if search(t, prog, "5", 0) == nil {
		t.Fatalf("expected a match when there is no preceding $")
	}
	res := search(t, prog, "$5", 0)
	if res != nil && res.Captures[0][0] == 1 {
		t.Fatalf("the digit run right after $ should have been rejected, got %+v", res)
	}
}

func TestPureLiteralFastPath(t *testing.T) {
	prog := compile(t, "hello", 0)
	if !prog.HasPureLiteral {
		t.Fatalf("expected HasPureLiteral for a plain literal pattern")
	}
	res := search(t, prog, "say hello", 0)
	if res == nil || res.Captures[0] != [2]int{4, 9} {
		t.Fatalf("got %+v", res)
	}
}

func TestMatchNotNull(t *testing.T) {
	prog := compile(t, "a*", 0)
	res, err := Search(prog, []rune("bbb"), 0, automaton.MatchNotNull)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res != nil {
		t.Fatalf("got %+v, want MatchNotNull to reject every empty match in an a-free string", res)
	}
}
