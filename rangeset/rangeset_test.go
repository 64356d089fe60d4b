package rangeset

import "testing"

func TestJoinCoalesces(t *testing.T) {
	tests := []struct {
		name  string
		input []Range
		want  []Range
	}{
		{
			name:  "abutting ranges merge",
			input: []Range{{0, 5}, {6, 10}},
			want:  []Range{{0, 10}},
		},
		{
			name:  "overlapping ranges merge",
			input: []Range{{0, 5}, {3, 10}},
			want:  []Range{{0, 10}},
		},
		{
			name:  "disjoint ranges stay apart",
			input: []Range{{0, 5}, {10, 20}},
			want:  []Range{{0, 5}, {10, 20}},
		},
		{
			name:  "out of order insertion sorts",
			input: []Range{{10, 20}, {0, 5}},
			want:  []Range{{0, 5}, {10, 20}},
		},
		{
			name:  "bridging range merges three into one",
			input: []Range{{0, 2}, {10, 12}, {3, 9}},
			want:  []Range{{0, 12}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.input...)
			if got := s.Ranges(); !equalRanges(got, tt.want) {
				t.Fatalf("Ranges() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNegateIsInvolution(t *testing.T) {
	s := New(Range{10, 20}, Range{30, 30})
	neg := s.Negated()
	negneg := neg.Negated()
	if !equalRanges(s.Ranges(), negneg.Ranges()) {
		t.Fatalf("double negate = %v, want %v", negneg.Ranges(), s.Ranges())
	}
}

func TestNegationLawForClasses(t *testing.T) {
	// Property 3 from spec.md §8: C.is_included(c) XOR (!C).is_included(c) == true.
	s := New(Range{'a', 'z'}, Range{'0', '9'})
	neg := s.Negated()
	for _, c := range []CodePoint{'a', 'm', 'z', '5', 'A', ' ', 0x1F600} {
		in, ninv := s.IsIncluded(c), neg.IsIncluded(c)
		if in == ninv {
			t.Fatalf("negation law violated for %U: in=%v, negIn=%v", c, in, ninv)
		}
	}
}

func TestIntersectAndSubtract(t *testing.T) {
	a := New(Range{0, 10})
	b := New(Range{5, 15})

	inter := a.Intersect(b)
	if !equalRanges(inter.Ranges(), []Range{{5, 10}}) {
		t.Fatalf("Intersect = %v, want [5,10]", inter.Ranges())
	}

	sub := a.Subtract(b)
	if !equalRanges(sub.Ranges(), []Range{{0, 4}}) {
		t.Fatalf("Subtract = %v, want [0,4]", sub.Ranges())
	}
}

func TestSplitRanges(t *testing.T) {
	a := New(Range{0, 20})
	b := New(Range{5, 10}, Range{15, 15})

	kept, removed := a.SplitRanges(b)
	if !equalRanges(kept.Ranges(), []Range{{0, 4}, {11, 14}, {16, 20}}) {
		t.Fatalf("kept = %v", kept.Ranges())
	}
	if !equalRanges(removed.Ranges(), []Range{{5, 10}, {15, 15}}) {
		t.Fatalf("removed = %v", removed.Ranges())
	}
}

func TestConsistsOfOneCharacter(t *testing.T) {
	single := New(Range{'a', 'a'})
	if c, ok := single.ConsistsOfOneCharacter(false, nil); !ok || c != 'a' {
		t.Fatalf("single char set: got (%v,%v)", c, ok)
	}

	multi := New(Range{'a', 'b'})
	if _, ok := multi.ConsistsOfOneCharacter(false, nil); ok {
		t.Fatalf("multi char set should not reduce to one character")
	}

	fold := func(c CodePoint) CodePoint {
		if c >= 'A' && c <= 'Z' {
			return c + ('a' - 'A')
		}
		return c
	}
	foldable := New(Range{'A', 'A'}, Range{'a', 'a'})
	if c, ok := foldable.ConsistsOfOneCharacter(true, fold); !ok || c != 'a' {
		t.Fatalf("folded set: got (%v,%v)", c, ok)
	}
}

func TestEytzingerLookupMatchesLinear(t *testing.T) {
	s := New(Range{2, 4}, Range{10, 10}, Range{20, 30}, Range{100, 200})
	eytz := s.CreateEytzinger()
	for c := CodePoint(0); c <= 210; c++ {
		want := s.IsIncluded(c)
		got := IsIncludedEytzinger(eytz, 0, len(eytz), c)
		if got != want {
			t.Fatalf("IsIncludedEytzinger(%d) = %v, want %v", c, got, want)
		}
	}
}

func equalRanges(a, b []Range) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
