// Package frontier implements the consistent-cut global state ("frontier")
// of spec.md §3: a length-N vector of per-process local event indices, the
// propositions that hold there, parent/child edges to neighboring
// frontiers, and a lazily-populated per-AST-node verdict cache.
//
// Frontiers are stored in a flat, integer-indexed container and referenced
// by ID rather than by pointer cycles (spec.md §9: "no cycles ever arise
// because edges always increase some cut[i] by one"), the same antichain-
// over-pointstamps bookkeeping style as other_examples'
// daviddao-clockmail/frontier.go, adapted from a single flat antichain to a
// growing DAG of antichains.
package frontier

import (
	"fmt"
	"strings"

	"github.com/moraneus/PoET/internal/event"
)

// Cut is a length-N vector of per-process local event indices: Cut[i] is
// the number of Pi+1's local events included in this consistent cut.
type Cut []uint64

// Key returns a canonical, comparable string form of the cut, used by the
// State Manager to deduplicate frontiers on cut equality (spec.md §3).
func (c Cut) Key() string {
	var b strings.Builder
	for i, v := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	return b.String()
}

// Copy returns an independent copy of c.
func (c Cut) Copy() Cut {
	out := make(Cut, len(c))
	copy(out, c)
	return out
}

// LessEq reports whether c <= other componentwise (spec.md §8 property 1).
func (c Cut) LessEq(other Cut) bool {
	for i := range c {
		if c[i] > other[i] {
			return false
		}
	}
	return true
}

// Equal reports whether c and other are componentwise equal.
func (c Cut) Equal(other Cut) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Edge is a labeled parent/child edge: the Event that was appended, and the
// Frontier on the other end.
type Edge struct {
	Event *event.Event
	To    int // frontier ID
}

// Frontier is one node of the consistent-cut DAG.
type Frontier struct {
	ID       int
	Cut      Cut
	Props    map[string]bool
	Parents  []Edge // edges pointing backward (toward the root)
	Children []Edge // edges pointing forward (away from the root)

	// ProcessProps holds, per process index, the proposition set of that
	// process's most recent local event included in this cut. Props is
	// always the flattened union of ProcessProps, kept in sync by
	// SetProcessProps; evaluation only ever reads the flattened Props, but
	// the State Manager needs the per-process breakdown to implement the
	// carry-over rule of spec.md §4.3 step 2c when deriving a child's props
	// from its parent.
	ProcessProps []map[string]bool

	// cache memoizes PCTL evaluation results keyed by ast.Formula.ID().
	// Boolean-only nodes (Atom/True/False/Not/And/Or/Implies/Iff) never need
	// invalidation; temporal nodes are evicted when a new parent edge is
	// added after they were first evaluated (spec.md §4.4).
	cache map[int]bool

	// tombstoned marks a frontier pruned by the Reduction Policy (spec.md
	// §3: "the Reduction Policy... may replace disabled frontiers with a
	// tombstone reference so that edge-consumers do not dereference them").
	tombstoned bool
}

// New creates a Frontier with the given id and cut. Props should be filled
// in by the caller (the State Manager owns proposition aggregation).
func New(id int, cut Cut) *Frontier {
	return &Frontier{
		ID:    id,
		Cut:   cut.Copy(),
		Props: make(map[string]bool),
		cache: make(map[int]bool),
	}
}

// IsRoot reports whether this frontier has no parents, i.e. is the all-zero
// initial cut.
func (f *Frontier) IsRoot() bool {
	return len(f.Parents) == 0
}

// Tombstoned reports whether the Reduction Policy has pruned this frontier.
func (f *Frontier) Tombstoned() bool {
	return f.tombstoned
}

// Tombstone marks the frontier pruned. Callers must have already snapshotted
// every subformula's verdict (spec.md §4.5) before calling this.
func (f *Frontier) Tombstone() {
	f.tombstoned = true
}

// Has reports whether proposition p holds at this frontier.
func (f *Frontier) Has(p string) bool {
	return f.Props[p]
}

// SetProcessProps installs the per-process proposition breakdown and
// recomputes the flattened Props union from it (spec.md §4.3 step 2c).
func (f *Frontier) SetProcessProps(perProcess []map[string]bool) {
	f.ProcessProps = perProcess
	f.Props = make(map[string]bool)
	for _, m := range perProcess {
		for p := range m {
			f.Props[p] = true
		}
	}
}

// AddParent records a backward edge to parent frontier id `from`, labeled
// by the event that was appended to reach this frontier. Returns true if a
// genuinely new edge was added (as opposed to one already present), which
// is the condition under which the evaluator must invalidate temporal
// caches per spec.md §4.4.
func (f *Frontier) AddParent(e *event.Event, from int) bool {
	for _, p := range f.Parents {
		if p.To == from {
			return false
		}
	}
	f.Parents = append(f.Parents, Edge{Event: e, To: from})
	return true
}

// AddChild records a forward edge from this frontier to child frontier id
// `to`, labeled by the event that was appended.
func (f *Frontier) AddChild(e *event.Event, to int) {
	for _, c := range f.Children {
		if c.To == to {
			return
		}
	}
	f.Children = append(f.Children, Edge{Event: e, To: to})
}

// CachedVerdict returns the memoized verdict for AST node id, if any.
func (f *Frontier) CachedVerdict(nodeID int) (bool, bool) {
	v, ok := f.cache[nodeID]
	return v, ok
}

// SetVerdict memoizes the verdict for AST node id.
func (f *Frontier) SetVerdict(nodeID int, value bool) {
	f.cache[nodeID] = value
}

// InvalidateTemporal evicts every memoized temporal-operator verdict,
// keeping boolean-local entries (spec.md §4.4: "Boolean-only... caches
// never need invalidation"). temporalIDs is the set of AST node IDs that
// are temporal operators, supplied by the caller (package eval knows the
// formula; frontier does not).
func (f *Frontier) InvalidateTemporal(temporalIDs map[int]bool) {
	for id := range f.cache {
		if temporalIDs[id] {
			delete(f.cache, id)
		}
	}
}

func (f *Frontier) String() string {
	return fmt.Sprintf("F%d%v", f.ID, []uint64(f.Cut))
}

// InvariantError reports an internal inconsistency in the frontier DAG
// (spec.md §7 EvaluatorInvariantError): a bug-class failure, such as a
// duplicate cut or a non-monotone edge, that should never occur in correct
// operation and is therefore unrecoverable rather than reported to the
// trace author.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("evaluator invariant violated: %s", e.Message)
}
