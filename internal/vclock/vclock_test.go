package vclock_test

import (
	"testing"

	"github.com/moraneus/PoET/internal/vclock"
)

func TestCompareBeforeAfter(t *testing.T) {
	a := vclock.Clock{1, 0}
	b := vclock.Clock{1, 1}

	if rel := a.Compare(b); rel != vclock.Before {
		t.Errorf("a.Compare(b) = %v, want Before", rel)
	}
	if rel := b.Compare(a); rel != vclock.After {
		t.Errorf("b.Compare(a) = %v, want After", rel)
	}
}

func TestCompareEqual(t *testing.T) {
	a := vclock.Clock{2, 2}
	b := vclock.Clock{2, 2}

	if rel := a.Compare(b); rel != vclock.Equal {
		t.Errorf("a.Compare(b) = %v, want Equal", rel)
	}
}

func TestCompareConcurrent(t *testing.T) {
	a := vclock.Clock{1, 0}
	b := vclock.Clock{0, 1}

	if rel := a.Compare(b); rel != vclock.Concurrent {
		t.Errorf("a.Compare(b) = %v, want Concurrent", rel)
	}
}

func TestMax(t *testing.T) {
	a := vclock.Clock{1, 0, 3}
	b := vclock.Clock{0, 2, 2}

	got := a.Max(b)
	want := vclock.Clock{1, 2, 3}
	if !got.Equal(want) {
		t.Errorf("a.Max(b) = %v, want %v", got, want)
	}
}

func TestLess(t *testing.T) {
	a := vclock.Clock{1, 1}
	b := vclock.Clock{1, 1}
	if a.Less(b) {
		t.Errorf("equal clocks should not be Less")
	}

	c := vclock.Clock{1, 2}
	if !a.Less(c) {
		t.Errorf("a should be Less than c")
	}
}
