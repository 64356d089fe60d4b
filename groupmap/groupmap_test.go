package groupmap

import "testing"

func TestPushBackAndLookup(t *testing.T) {
	m := New()
	if !m.PushBack("year", 1) {
		t.Fatalf("expected PushBack to succeed for a fresh name")
	}
	if got := m.Lookup("year"); got != 1 {
		t.Fatalf("Lookup(year) = %d, want 1", got)
	}
	if got := m.NameOf(1); got != "year" {
		t.Fatalf("NameOf(1) = %q, want year", got)
	}
	if got := m.Lookup("missing"); got != NotFound {
		t.Fatalf("Lookup(missing) = %d, want NotFound", got)
	}
}

func TestPushBackRejectsDuplicateNameDifferentBracket(t *testing.T) {
	m := New()
	if !m.PushBack("dup", 1) {
		t.Fatalf("expected the first registration to succeed")
	}
	if m.PushBack("dup", 2) {
		t.Fatalf("expected a second bracket reusing the same name to be rejected")
	}
}

func TestPushBackSameNameSameBracketIsIdempotent(t *testing.T) {
	m := New()
	if !m.PushBack("x", 3) || !m.PushBack("x", 3) {
		t.Fatalf("expected re-registering the same name at the same bracket to succeed both times")
	}
}

func TestNameOfUnnamedGroup(t *testing.T) {
	m := New()
	if got := m.NameOf(5); got != "" {
		t.Fatalf("NameOf on an unregistered bracket = %q, want \"\"", got)
	}
}

func TestParkForwardRefResolvedByLaterPushBack(t *testing.T) {
	m := New()
	m.ParkForwardRef("year")
	if got := m.Resolve(); len(got) != 1 || got[0] != "year" {
		t.Fatalf("Resolve() = %v, want [year] while still parked", got)
	}
	m.PushBack("year", 2)
	if got := m.Resolve(); len(got) != 0 {
		t.Fatalf("Resolve() = %v, want none once the name is registered", got)
	}
}

func TestParkForwardRefAlreadyRegisteredIsNoop(t *testing.T) {
	m := New()
	m.PushBack("year", 2)
	m.ParkForwardRef("year")
	if got := m.Resolve(); len(got) != 0 {
		t.Fatalf("Resolve() = %v, want none: the name was already registered before parking", got)
	}
}

func TestCount(t *testing.T) {
	m := New()
	m.PushBack("a", 1)
	m.PushBack("b", 2)
	if m.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", m.Count())
	}
}
