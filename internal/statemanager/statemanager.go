// Package statemanager implements the State Manager of spec.md §4.3: it
// owns the frontier DAG, drives the frontier-expansion protocol for each
// arriving event, invalidates and re-evaluates caches per spec.md §4.4,
// optionally runs the Reduction Policy (spec.md §4.5), and reports the
// run summary statistics named in spec.md §6 and SPEC_FULL.md's
// supplemented feature 5.
//
// Grounded on internal/store/store.go's orchestration style (a single
// owning type mediating between a WAL, an in-memory map, and snapshotting)
// adapted from key-value mutation to frontier-DAG expansion, and on
// original_source/core/state_manager.py's on_event / find_state_by_frontier
// surface.
package statemanager

import (
	"fmt"
	"sort"
	"time"

	"github.com/moraneus/PoET/internal/ast"
	"github.com/moraneus/PoET/internal/deliver"
	"github.com/moraneus/PoET/internal/eval"
	"github.com/moraneus/PoET/internal/event"
	"github.com/moraneus/PoET/internal/frontier"
	"github.com/moraneus/PoET/internal/reduce"
)

// Stats is the run summary of spec.md §6 / SPEC_FULL.md supplemented
// feature 5.
type Stats struct {
	TotalEvents  int
	TotalStates  int
	MaxEventTime time.Duration
	MinEventTime time.Duration
	AvgEventTime time.Duration
	FinalVerdict bool
}

// ObservationRecord is one per-event observation line of spec.md §6:
// (event_id, cut-after, props-at-maximal, verdict).
type ObservationRecord struct {
	EventID        string
	Cut            []uint64
	PropsAtMaximal []map[string]bool
	Verdict        bool
}

// DebugLogger receives category-gated diagnostic lines (satisfied by
// *internal/obslog.Logger; defined locally rather than imported to avoid a
// package cycle, since obslog itself depends on statemanager's types for
// observation records).
type DebugLogger interface {
	Debugf(category, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, string, ...interface{}) {}

// StateManager owns the frontier DAG for one verification run against one
// formula. It is not safe for concurrent use — spec.md §5 mandates strictly
// sequential event ingestion.
type StateManager struct {
	n           int
	formula     ast.Formula
	temporalIDs map[int]bool
	reduce      bool
	logger      DebugLogger

	frontiers []*frontier.Frontier
	byCut     map[string]int
	holding   deliver.HoldingQueue

	globalCut  frontier.Cut // per-process count of events delivered so far
	eventTimes []time.Duration
}

// SetLogger installs a diagnostic logger (categories "deliver", "eval",
// "reduce"); passing nil restores the no-op default.
func (sm *StateManager) SetLogger(l DebugLogger) {
	if l == nil {
		l = noopLogger{}
	}
	sm.logger = l
}

// New creates a State Manager for a trace over n processes, evaluating
// formula, with the Reduction Policy enabled iff withReduction is true.
func New(n int, formula ast.Formula, withReduction bool) *StateManager {
	sm := &StateManager{
		n:           n,
		formula:     formula,
		temporalIDs: eval.TemporalIDs(formula),
		reduce:      withReduction,
		logger:      noopLogger{},
		byCut:       make(map[string]int),
		globalCut:   make(frontier.Cut, n),
	}
	root := frontier.New(0, make(frontier.Cut, n))
	root.SetProcessProps(make([]map[string]bool, n))
	sm.frontiers = append(sm.frontiers, root)
	sm.byCut[root.Cut.Key()] = 0
	eval.Evaluate(sm.lookup, root, formula)
	return sm
}

func (sm *StateManager) lookup(id int) *frontier.Frontier {
	return sm.frontiers[id]
}

// Frontiers returns every frontier materialized so far, in creation order,
// including tombstoned ones.
func (sm *StateManager) Frontiers() []*frontier.Frontier {
	return sm.frontiers
}

// Find returns the frontier with the given cut, if one has been
// materialized (SPEC_FULL.md supplemented feature 3, grounded on
// original_source/core/state_manager.py's find_state_by_frontier).
func (sm *StateManager) Find(cut frontier.Cut) (*frontier.Frontier, bool) {
	id, ok := sm.byCut[cut.Key()]
	if !ok {
		return nil, false
	}
	return sm.frontiers[id], true
}

// OnEvent runs the full frontier-expansion protocol of spec.md §4.3 for one
// arriving event, returning the verdict after this event and an
// ObservationRecord for it. Returns a *deliver.CausalityError if e is not
// deliverable at any existing frontier.
func (sm *StateManager) OnEvent(e *event.Event) (bool, *ObservationRecord, error) {
	start := time.Now()

	parents := sm.deliverableFrontiers(e)
	if len(parents) == 0 {
		sm.holding.Add(e)
		sm.logger.Debugf("deliver", "%s not deliverable at any frontier, holding (pending: %v)", e.ID, sm.holding.Names())
		return false, nil, &deliver.CausalityError{EventID: e.ID, Pending: sm.holding.Names()}
	}
	sm.logger.Debugf("deliver", "%s deliverable at %d frontier(s)", e.ID, len(parents))

	var newIDs []int
	var invalidated []int
	for _, f := range parents {
		c := deliver.NextCut(f, e)
		if existingID, ok := sm.byCut[c.Key()]; ok {
			existing := sm.frontiers[existingID]
			added := existing.AddParent(e, f.ID)
			f.AddChild(e, existingID)
			if added {
				invalidated = append(invalidated, existingID)
			}
			continue
		}
		nf := frontier.New(len(sm.frontiers), c)
		nf.SetProcessProps(sm.deriveProcessProps(f, e))
		nf.AddParent(e, f.ID)
		f.AddChild(e, nf.ID)
		sm.byCut[c.Key()] = nf.ID
		sm.frontiers = append(sm.frontiers, nf)
		newIDs = append(newIDs, nf.ID)
	}

	for _, id := range invalidated {
		sm.invalidateAndReevaluate(id)
	}
	for _, id := range newIDs {
		eval.Evaluate(sm.lookup, sm.frontiers[id], sm.formula)
	}

	for _, p := range e.Processes {
		sm.globalCut[p-1]++
	}

	if sm.reduce {
		pruned := reduce.Apply(sm.frontiers, sm.globalCut)
		if pruned > 0 {
			sm.logger.Debugf("reduce", "tombstoned %d frontier(s) behind cut %v", pruned, []uint64(sm.globalCut))
		}
	}

	sm.eventTimes = append(sm.eventTimes, time.Since(start))

	if err := sm.checkInvariants(); err != nil {
		return false, nil, err
	}

	verdict := sm.Verdict()
	rec := &ObservationRecord{
		EventID:        e.ID,
		Cut:            []uint64(sm.globalCut.Copy()),
		PropsAtMaximal: sm.maximalProps(),
		Verdict:        verdict,
	}
	return verdict, rec, nil
}

// deriveProcessProps computes the child's per-process proposition
// breakdown: participating processes get e's propositions (their local
// state just changed); everyone else carries over the parent's entry
// unchanged (spec.md §4.3 step 2c, spec.md §9 carry-over convention).
func (sm *StateManager) deriveProcessProps(parent *frontier.Frontier, e *event.Event) []map[string]bool {
	out := make([]map[string]bool, sm.n)
	participants := e.ParticipantSet()
	for i := 0; i < sm.n; i++ {
		proc := i + 1
		if participants[proc] {
			set := make(map[string]bool, len(e.Propositions))
			for _, p := range e.Propositions {
				set[p] = true
			}
			out[i] = set
		} else if i < len(parent.ProcessProps) && parent.ProcessProps[i] != nil {
			out[i] = parent.ProcessProps[i]
		}
	}
	return out
}

// deliverableFrontiers returns every non-tombstoned frontier at which e is
// currently deliverable (spec.md §4.2), in frontier-id order.
func (sm *StateManager) deliverableFrontiers(e *event.Event) []*frontier.Frontier {
	var out []*frontier.Frontier
	for _, f := range sm.frontiers {
		if f.Tombstoned() {
			continue
		}
		if deliver.Deliverable(f, e) {
			out = append(out, f)
		}
	}
	return out
}

// invalidateAndReevaluate evicts temporal verdict-cache entries on
// startID and every transitively reachable descendant, then re-evaluates
// the formula over the affected set in topological (id) order — the
// explicit worklist pass spec.md §9 calls for, scoped to the subtree
// actually touched by the new edge (spec.md §4.4).
func (sm *StateManager) invalidateAndReevaluate(startID int) {
	visited := make(map[int]bool)
	var walk func(id int)
	walk = func(id int) {
		if visited[id] {
			return
		}
		visited[id] = true
		f := sm.frontiers[id]
		f.InvalidateTemporal(sm.temporalIDs)
		for _, c := range f.Children {
			walk(c.To)
		}
	}
	walk(startID)
	sm.logger.Debugf("eval", "invalidating and re-evaluating %d frontier(s) from F%d", len(visited), startID)

	ids := make([]int, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		eval.Evaluate(sm.lookup, sm.frontiers[id], sm.formula)
	}
}

// maximalIDs returns the ids of every non-tombstoned frontier whose cut
// equals the current global per-process progress (spec.md §4.3 step 5).
func (sm *StateManager) maximalIDs() []int {
	var ids []int
	for _, f := range sm.frontiers {
		if f.Tombstoned() {
			continue
		}
		if f.Cut.Equal(sm.globalCut) {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// Verdict is the conjunction of the root formula's truth value across every
// current maximal frontier (spec.md §4.3 step 5).
func (sm *StateManager) Verdict() bool {
	ids := sm.maximalIDs()
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !eval.Evaluate(sm.lookup, sm.frontiers[id], sm.formula) {
			return false
		}
	}
	return true
}

// GetMaximalFrontiers returns every current maximal (non-tombstoned)
// frontier.
func (sm *StateManager) GetMaximalFrontiers() []*frontier.Frontier {
	var out []*frontier.Frontier
	for _, id := range sm.maximalIDs() {
		out = append(out, sm.frontiers[id])
	}
	return out
}

func (sm *StateManager) maximalProps() []map[string]bool {
	var out []map[string]bool
	for _, f := range sm.GetMaximalFrontiers() {
		out = append(out, f.Props)
	}
	return out
}

// Stats computes the run summary of spec.md §6 / supplemented feature 5.
func (sm *StateManager) Stats() Stats {
	s := Stats{
		TotalEvents:  len(sm.eventTimes),
		FinalVerdict: sm.Verdict(),
	}
	for _, f := range sm.frontiers {
		if !f.Tombstoned() {
			s.TotalStates++
		}
	}
	if len(sm.eventTimes) == 0 {
		return s
	}
	s.MinEventTime = sm.eventTimes[0]
	s.MaxEventTime = sm.eventTimes[0]
	var total time.Duration
	for _, d := range sm.eventTimes {
		total += d
		if d < s.MinEventTime {
			s.MinEventTime = d
		}
		if d > s.MaxEventTime {
			s.MaxEventTime = d
		}
	}
	s.AvgEventTime = total / time.Duration(len(sm.eventTimes))
	return s
}

// checkInvariants defends the dedup/monotonicity invariants spec.md §8
// properties 1-2 require, surfacing any violation as a
// *frontier.InvariantError (spec.md §7 EvaluatorInvariantError) rather than
// silently producing a wrong verdict. It is cheap relative to one event
// step and only ever fires on an internal bug.
func (sm *StateManager) checkInvariants() error {
	seen := make(map[string]int, len(sm.frontiers))
	for _, f := range sm.frontiers {
		key := f.Cut.Key()
		if other, ok := seen[key]; ok {
			return &frontier.InvariantError{
				Message: fmt.Sprintf("duplicate frontier for cut %v: ids %d and %d", f.Cut, other, f.ID),
			}
		}
		seen[key] = f.ID
		for _, edge := range f.Children {
			child := sm.frontiers[edge.To]
			if !f.Cut.LessEq(child.Cut) {
				return &frontier.InvariantError{
					Message: fmt.Sprintf("edge %d -> %d violates monotone cuts: %v -> %v", f.ID, child.ID, f.Cut, child.Cut),
				}
			}
		}
	}
	return nil
}
