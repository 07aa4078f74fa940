// Package event defines the immutable event record PoET consumes from a
// trace (spec.md §3): an identifier, the set of processes that jointly
// perform it, the atomic propositions it makes true, and its vector clock.
package event

import (
	"fmt"

	"github.com/moraneus/PoET/internal/vclock"
)

// Event is one entry of the linearized trace.
type Event struct {
	ID           string
	Processes    []int // 1-based process numbers, e.g. {1, 3} for P1 and P3
	Propositions []string
	VC           vclock.Clock
}

// Participates reports whether process number p (1-based) is among the
// event's participants.
func (e Event) Participates(p int) bool {
	for _, q := range e.Processes {
		if q == p {
			return true
		}
	}
	return false
}

// ParticipantSet returns the participant set as a lookup table keyed by
// 1-based process number.
func (e Event) ParticipantSet() map[int]bool {
	set := make(map[int]bool, len(e.Processes))
	for _, p := range e.Processes {
		set[p] = true
	}
	return set
}

func (e Event) String() string {
	return fmt.Sprintf("%s(procs=%v, props=%v, vc=%s)", e.ID, e.Processes, e.Propositions, e.VC)
}
