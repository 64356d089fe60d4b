package ecmacore

import (
	"strings"
	"testing"
)

func TestCompileAndMatch(t *testing.T) {
	re := MustCompile(`\d+`)
	if !re.Match("age: 42") {
		t.Fatalf("expected a match")
	}
	if re.Match("no digits here") {
		t.Fatalf("expected no match")
	}
}

func TestFind(t *testing.T) {
	re := MustCompile(`\d+`)
	if got := re.Find("age: 42 and 7"); got != "42" {
		t.Fatalf("got %q, want 42", got)
	}
	if got := re.FindIndex("age: 42"); len(got) != 2 || got[0] != 5 || got[1] != 7 {
		t.Fatalf("got %v, want [5 7]", got)
	}
}

func TestFindSubmatch(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)\.(\w+)`)
	got := re.FindSubmatch("user@example.com")
	want := []string{"user@example.com", "user", "example", "com"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("group %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindAll(t *testing.T) {
	re := MustCompile(`\d+`)
	got := re.FindAll("1 22 333", -1)
	want := []string{"1", "22", "333"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("match %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNamedGroups(t *testing.T) {
	re := MustCompile(`(?<year>\d{4})-(?<month>\d{2})`)
	if re.SubexpIndex("year") != 1 || re.SubexpIndex("month") != 2 {
		t.Fatalf("unexpected subexp indices")
	}
	if re.SubexpName(1) != "year" {
		t.Fatalf("got %q, want year", re.SubexpName(1))
	}
	got := re.FindSubmatch("2024-03")
	if got == nil || got[1] != "2024" || got[2] != "03" {
		t.Fatalf("got %v", got)
	}
}

func TestPureLiteralPath(t *testing.T) {
	re := MustCompile(`hello`)
	if re.literal == nil {
		t.Fatalf("expected the pure-literal fast path to be wired in")
	}
	if !re.Match("say hello now") {
		t.Fatalf("expected a match via the literal fast path")
	}
}

func manyWordAlternation(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = string(rune('a'+i%26)) + "zq" + string(rune('A'+i%26))
	}
	return strings.Join(words, "|")
}

func TestLitsetPath(t *testing.T) {
	re := MustCompile(manyWordAlternation(40))
	if re.litset == nil {
		t.Fatalf("expected the literal-alternation fast path to be wired in for 40 branches")
	}
	target := "czqC"
	got := re.Find("xxx" + target + "yyy")
	if got != target {
		t.Fatalf("got %q, want %q", got, target)
	}
	if re.Match("no branch occurs here") {
		t.Fatalf("expected no match")
	}
}
