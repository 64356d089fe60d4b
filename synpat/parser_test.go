package synpat

import (
	"errors"
	"testing"

	"github.com/ecmacore/ecmacore/automaton"
)

func mustParse(t *testing.T, pattern string, flags automaton.Flags) *automaton.Program {
	t.Helper()
	prog, err := Parse(pattern, flags, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", pattern, err)
	}
	return prog
}

func TestParseValidPatterns(t *testing.T) {
	patterns := []string{
		"abc", "a|b|c", "a*", "a+?", "[a-z]+", "(a)(b)",
		"(?:a)", "(?<name>a)", `\d{2,4}`, `\bword\b`, `(?=a)b`, `(?<=a)b`,
		`(?!a)b`, `(?<!a)b`, `a\1`, ".", "^abc$", `\p{Letter}`,
	}
	for _, pat := range patterns {
		if _, err := Parse(pat, 0, DefaultConfig()); err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", pat, err)
		}
	}
}

func TestParseErrorCodes(t *testing.T) {
	tests := []struct {
		pattern string
		code    automaton.ErrorCode
	}{
		{"(a", automaton.ErrParen},
		{"a)", automaton.ErrParen},
		{"a{2,1}", automaton.ErrBadBrace},
		{"[a-z", automaton.ErrBrack},
		{`\p{NotAProperty}`, automaton.ErrProperty},
		{`\k<missing>`, automaton.ErrBackref},
		{"(?<dup>a)(?<dup>b)", automaton.ErrBackref},
	}
	for _, tt := range tests {
		_, err := Parse(tt.pattern, 0, DefaultConfig())
		if err == nil {
			t.Errorf("Parse(%q): expected error code %v, got nil", tt.pattern, tt.code)
			continue
		}
		var ce *automaton.CompileError
		if !errors.As(err, &ce) {
			t.Errorf("Parse(%q): error %v is not a *automaton.CompileError", tt.pattern, err)
			continue
		}
		if ce.Code != tt.code {
			t.Errorf("Parse(%q): got code %v, want %v", tt.pattern, ce.Code, tt.code)
		}
	}
}

func TestParseCaptureCount(t *testing.T) {
	prog := mustParse(t, "(a)(b(c))(?:d)(?<e>f)", 0)
	// group 0 (whole match) + a, b(c), c, e = 5
	if prog.CaptureCount != 5 {
		t.Fatalf("CaptureCount = %d, want 5", prog.CaptureCount)
	}
	if idx := prog.Groups.Lookup("e"); idx != 4 {
		t.Fatalf("Lookup(e) = %d, want 4", idx)
	}
	if name := prog.Groups.NameOf(4); name != "e" {
		t.Fatalf("NameOf(4) = %q, want e", name)
	}
	if name := prog.Groups.NameOf(1); name != "" {
		t.Fatalf("NameOf(1) = %q, want unnamed group to report \"\"", name)
	}
}

func TestParseNamedBackrefResolution(t *testing.T) {
	// A \k<year> that follows its named group parses, and the group
	// counts as capture 1 alongside the implicit whole-match capture 0.
	prog := mustParse(t, `(?<year>\d{4})-\k<year>`, 0)
	if prog.CaptureCount != 2 {
		t.Fatalf("CaptureCount = %d, want 2", prog.CaptureCount)
	}
}

func TestParseCompileFlagsCarried(t *testing.T) {
	prog := mustParse(t, "abc", automaton.ICase|automaton.Multiline)
	if !prog.CompileFlags.Has(automaton.ICase) {
		t.Fatalf("expected ICase to be carried onto CompileFlags")
	}
	if !prog.CompileFlags.Has(automaton.Multiline) {
		t.Fatalf("expected Multiline to be carried onto CompileFlags")
	}
}

func TestParseEntryStateValid(t *testing.T) {
	prog := mustParse(t, "abc", 0)
	if prog.EntryState <= 0 || prog.EntryState >= len(prog.States) {
		t.Fatalf("EntryState %d out of range [1,%d)", prog.EntryState, len(prog.States))
	}
}

func TestParseUnicodePropertyClass(t *testing.T) {
	if _, err := Parse(`\p{Letter}+`, 0, DefaultConfig()); err != nil {
		t.Fatalf("Parse property escape: %v", err)
	}
	if _, err := Parse(`\P{Letter}+`, 0, DefaultConfig()); err != nil {
		t.Fatalf("Parse negated property escape: %v", err)
	}
}

func TestParseVModeSetOperations(t *testing.T) {
	// Unicode set mode (v flag) allows class subtraction/intersection;
	// confirm the parser accepts the operator syntax under UnicodeSets.
	if _, err := Parse(`[\d--[13579]]`, automaton.UnicodeSets, DefaultConfig()); err != nil {
		t.Fatalf("Parse v-mode subtraction: %v", err)
	}
}

func TestParseMaxDepthGuardsRecursion(t *testing.T) {
	deep := ""
	for i := 0; i < 500; i++ {
		deep += "(?:"
	}
	deep += "a"
	for i := 0; i < 500; i++ {
		deep += ")"
	}
	cfg := Config{StepBudget: DefaultStepBudget, MaxDepth: 50}
	if _, err := Parse(deep, 0, cfg); err == nil {
		t.Fatalf("expected a stack-depth error for 500 levels of nesting against MaxDepth 50")
	}
}
