package reduce_test

import (
	"testing"

	"github.com/moraneus/PoET/internal/frontier"
	"github.com/moraneus/PoET/internal/reduce"
)

func TestFullyBehind(t *testing.T) {
	cases := []struct {
		cut, global frontier.Cut
		want        bool
	}{
		{frontier.Cut{0, 0}, frontier.Cut{1, 1}, true},
		{frontier.Cut{1, 0}, frontier.Cut{1, 1}, false}, // tie on dim 0
		{frontier.Cut{1, 1}, frontier.Cut{1, 1}, false}, // the maximal cut itself
		{frontier.Cut{2, 2}, frontier.Cut{1, 1}, false},
	}
	for _, c := range cases {
		if got := reduce.FullyBehind(c.cut, c.global); got != c.want {
			t.Errorf("FullyBehind(%v, %v) = %v, want %v", c.cut, c.global, got, c.want)
		}
	}
}

func TestApplyPrunesOnlyFullyBehindFrontiers(t *testing.T) {
	root := frontier.New(0, frontier.Cut{0, 0})
	mid := frontier.New(1, frontier.Cut{1, 0})
	maximal := frontier.New(2, frontier.Cut{1, 1})

	n := reduce.Apply([]*frontier.Frontier{root, mid, maximal}, frontier.Cut{1, 1})
	if n != 1 {
		t.Fatalf("pruned %d frontiers, want 1", n)
	}
	if !root.Tombstoned() {
		t.Errorf("root should be pruned: strictly behind on both dimensions")
	}
	if mid.Tombstoned() {
		t.Errorf("mid should survive: ties on dimension 0")
	}
	if maximal.Tombstoned() {
		t.Errorf("the maximal frontier itself should never be pruned")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	f := frontier.New(0, frontier.Cut{0, 0})
	reduce.Apply([]*frontier.Frontier{f}, frontier.Cut{1, 1})
	if !f.Tombstoned() {
		t.Fatalf("expected f to be pruned")
	}
	n := reduce.Apply([]*frontier.Frontier{f}, frontier.Cut{1, 1})
	if n != 0 {
		t.Errorf("re-applying Apply should not re-count an already-tombstoned frontier, got %d", n)
	}
}
