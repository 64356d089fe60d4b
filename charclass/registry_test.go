package charclass

import (
	"testing"

	"github.com/ecmacore/ecmacore/rangeset"
)

func TestPredefinedClassesFixedIDs(t *testing.T) {
	r := NewRegistry()
	if !r.IsIncluded(Digit, rangeset.CodePoint('5')) {
		t.Fatalf("expected 5 to be a digit")
	}
	if r.IsIncluded(Digit, rangeset.CodePoint('a')) {
		t.Fatalf("expected a to not be a digit")
	}
	if !r.IsIncluded(Word, rangeset.CodePoint('_')) {
		t.Fatalf("expected _ to be a word character")
	}
	if !r.IsIncluded(Newline, rangeset.CodePoint('\n')) {
		t.Fatalf("expected \\n to be a newline character")
	}
	if !r.IsIncluded(Space, rangeset.CodePoint(' ')) {
		t.Fatalf("expected space to be a space character")
	}
	if !r.IsIncluded(DotAll, rangeset.CodePoint('\n')) {
		t.Fatalf("expected DotAll to include every code point, including \\n")
	}
}

func TestInternDeduplicates(t *testing.T) {
	r := NewRegistry()
	set := rangeset.New(rangeset.Range{First: 'x', Second: 'z'})
	id1 := r.Intern(set.Clone(), false)
	id2 := r.Intern(set.Clone(), false)
	if id1 != id2 {
		t.Fatalf("expected two equal classes to intern to the same ID, got %d and %d", id1, id2)
	}
	negID := r.Intern(set.Clone(), true)
	if negID == id1 {
		t.Fatalf("expected a negated class to intern to a distinct ID")
	}
}

func TestNegatedClass(t *testing.T) {
	r := NewRegistry()
	set := rangeset.New(rangeset.Range{First: 'a', Second: 'c'})
	id := r.Intern(set, true)
	if r.IsIncluded(id, rangeset.CodePoint('b')) {
		t.Fatalf("expected b to be excluded by the negated [a-c] class")
	}
	if !r.IsIncluded(id, rangeset.CodePoint('z')) {
		t.Fatalf("expected z to be included by the negated [a-c] class")
	}
}

func TestExpandICaseWord(t *testing.T) {
	r := NewRegistry()
	r.ExpandICaseWord()
	// A non-ASCII letter whose simple case fold maps to an ASCII word
	// character should now be included; 'K' (U+004B) folds from Kelvin
	// sign U+212A under Unicode simple case folding.
	if !r.IsIncluded(ICaseWord, rangeset.CodePoint(0x212A)) {
		t.Fatalf("expected the Kelvin sign to fold into the icase word class")
	}
	if !r.IsIncluded(ICaseWord, rangeset.CodePoint('a')) {
		t.Fatalf("expected plain ASCII word characters to still be included")
	}
}

func TestFinalizeAndPositionOf(t *testing.T) {
	r := NewRegistry()
	custom := r.Intern(rangeset.New(rangeset.Range{First: 'm', Second: 'q'}), false)
	r.Finalize()

	pos := r.PositionOf(custom)
	if pos.Len <= 0 {
		t.Fatalf("expected a positive arena span for the custom class, got %+v", pos)
	}
	if r.Arena()[pos.Offset].First != 'm' {
		t.Fatalf("got arena entry %+v, want First='m'", r.Arena()[pos.Offset])
	}
	// IsIncluded must remain correct post-Finalize.
	if !r.IsIncluded(custom, rangeset.CodePoint('o')) {
		t.Fatalf("expected o to be included in [m-q] after Finalize")
	}
}

func TestInternPanicsAfterFinalize(t *testing.T) {
	r := NewRegistry()
	r.Finalize()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Intern to panic after Finalize")
		}
	}()
	r.Intern(rangeset.New(rangeset.Range{First: 'a', Second: 'a'}), false)
}

func TestPositionOfPanicsBeforeFinalize(t *testing.T) {
	r := NewRegistry()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected PositionOf to panic before Finalize")
		}
	}()
	r.PositionOf(Digit)
}
