// Package deliver implements the vector-clock deliverability check of
// spec.md §4.2: whether an event may be appended to a given frontier.
//
// Grounded on original_source/core/vector_clock_manager.py
// (get_involved_indices / is_event_in_order) and
// internal/store/vector_clock.go's componentwise Compare reasoning, with
// the original's holding queue carried over as a supplemented diagnostic
// feature (SPEC_FULL.md "Supplemented features" #2).
package deliver

import (
	"fmt"
	"strings"

	"github.com/moraneus/PoET/internal/event"
	"github.com/moraneus/PoET/internal/frontier"
)

// CausalityError reports an event that is not deliverable at any existing
// frontier and is not the first event of its participating processes
// (spec.md §7).
type CausalityError struct {
	EventID string
	Pending []string // other events still stuck in the holding queue
}

func (e *CausalityError) Error() string {
	if len(e.Pending) == 0 {
		return fmt.Sprintf("causality violation: event %q is not deliverable at any frontier", e.EventID)
	}
	return fmt.Sprintf("causality violation: event %q is not deliverable at any frontier (also pending: %s)",
		e.EventID, strings.Join(e.Pending, ", "))
}

// Deliverable reports whether e may be appended to f, per spec.md §4.2:
//
//  1. every participating process Pi has c[i] == vc(e)[i] - 1 (e is
//     exactly Pi's next local event at this cut);
//  2. every non-participating process Pj has c[j] >= vc(e)[j] (the cut
//     already reflects everything e depends on via Pj).
func Deliverable(f *frontier.Frontier, e *event.Event) bool {
	participants := e.ParticipantSet()
	for i := range f.Cut {
		proc := i + 1
		if participants[proc] {
			if f.Cut[i] != e.VC[i]-1 {
				return false
			}
		} else {
			if f.Cut[i] < e.VC[i] {
				return false
			}
		}
	}
	return true
}

// NextCut returns the cut obtained by appending e to f: every participating
// process's slot advances by exactly one, everything else is unchanged
// (spec.md §8 property 1: "Monotone cuts").
func NextCut(f *frontier.Frontier, e *event.Event) frontier.Cut {
	next := f.Cut.Copy()
	for _, p := range e.Processes {
		next[p-1]++
	}
	return next
}

// HoldingQueue tracks events that were not deliverable at any frontier when
// first attempted. PoET's batch pipeline processes one linearization and
// stops at the first causality violation (spec.md §7), so in normal
// operation the queue stays empty; it exists so a CausalityError can name
// every event still stuck, not just the one that triggered the failure —
// the same diagnostic the original Python engine exposed via
// get_pending_event_names.
type HoldingQueue struct {
	pending []*event.Event
}

// Add parks an event that could not be delivered.
func (q *HoldingQueue) Add(e *event.Event) {
	q.pending = append(q.pending, e)
}

// Names returns the IDs of every currently pending event.
func (q *HoldingQueue) Names() []string {
	names := make([]string, len(q.pending))
	for i, e := range q.pending {
		names[i] = e.ID
	}
	return names
}

// Ready returns (and removes from the queue) every pending event that is
// now deliverable against at least one of the given frontiers.
func (q *HoldingQueue) Ready(frontiers []*frontier.Frontier) []*event.Event {
	var ready []*event.Event
	var remaining []*event.Event
	for _, e := range q.pending {
		deliverable := false
		for _, f := range frontiers {
			if Deliverable(f, e) {
				deliverable = true
				break
			}
		}
		if deliverable {
			ready = append(ready, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	q.pending = remaining
	return ready
}

// Empty reports whether the holding queue has no pending events.
func (q *HoldingQueue) Empty() bool {
	return len(q.pending) == 0
}
