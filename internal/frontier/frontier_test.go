package frontier_test

import (
	"testing"

	"github.com/moraneus/PoET/internal/event"
	"github.com/moraneus/PoET/internal/frontier"
)

func TestCutKeyIsCanonicalAndDistinct(t *testing.T) {
	a := frontier.Cut{1, 0, 2}
	b := frontier.Cut{1, 0, 2}
	c := frontier.Cut{1, 2, 0}
	if a.Key() != b.Key() {
		t.Errorf("equal cuts produced different keys: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Errorf("distinct cuts produced the same key: %q", a.Key())
	}
}

func TestCutLessEqAndEqual(t *testing.T) {
	a := frontier.Cut{1, 0}
	b := frontier.Cut{1, 1}
	if !a.LessEq(b) {
		t.Errorf("expected %v <= %v", a, b)
	}
	if b.LessEq(a) {
		t.Errorf("expected %v NOT <= %v", b, a)
	}
	if a.Equal(b) {
		t.Errorf("expected %v != %v", a, b)
	}
	if !a.Equal(a.Copy()) {
		t.Errorf("expected a copy to be Equal to its source")
	}
}

func TestSetProcessPropsFlattensUnion(t *testing.T) {
	f := frontier.New(0, frontier.Cut{1, 1})
	f.SetProcessProps([]map[string]bool{
		{"a": true},
		{"b": true, "c": true},
	})
	if !f.Has("a") || !f.Has("b") || !f.Has("c") {
		t.Errorf("expected Props to be the union of per-process sets, got %v", f.Props)
	}
	if f.Has("d") {
		t.Errorf("unexpected proposition d in %v", f.Props)
	}
}

func TestAddParentReturnsFalseOnDuplicateEdge(t *testing.T) {
	f := frontier.New(1, frontier.Cut{1, 0})
	e := &event.Event{ID: "e1", Processes: []int{1}}
	if added := f.AddParent(e, 0); !added {
		t.Fatal("expected the first AddParent to report a new edge")
	}
	if added := f.AddParent(e, 0); added {
		t.Errorf("expected a repeated AddParent from the same frontier to report no new edge")
	}
	if len(f.Parents) != 1 {
		t.Errorf("expected exactly one parent edge, got %d", len(f.Parents))
	}
}

func TestVerdictCacheSetAndInvalidate(t *testing.T) {
	f := frontier.New(0, frontier.Cut{0})
	f.SetVerdict(1, true)
	f.SetVerdict(2, false)

	if v, ok := f.CachedVerdict(1); !ok || !v {
		t.Errorf("CachedVerdict(1) = (%v, %v), want (true, true)", v, ok)
	}

	f.InvalidateTemporal(map[int]bool{1: true})
	if _, ok := f.CachedVerdict(1); ok {
		t.Errorf("expected node 1's cache entry evicted after InvalidateTemporal")
	}
	if _, ok := f.CachedVerdict(2); !ok {
		t.Errorf("expected node 2 (non-temporal) to survive InvalidateTemporal")
	}
}

func TestTombstoneMarksFrontier(t *testing.T) {
	f := frontier.New(0, frontier.Cut{0})
	if f.Tombstoned() {
		t.Fatal("expected a fresh frontier to not be tombstoned")
	}
	f.Tombstone()
	if !f.Tombstoned() {
		t.Errorf("expected Tombstoned() true after Tombstone()")
	}
}

func TestIsRoot(t *testing.T) {
	root := frontier.New(0, frontier.Cut{0, 0})
	if !root.IsRoot() {
		t.Errorf("expected a frontier with no parents to be root")
	}
	root.AddParent(&event.Event{ID: "e1"}, 5)
	if root.IsRoot() {
		t.Errorf("expected IsRoot() false once a parent edge exists")
	}
}
