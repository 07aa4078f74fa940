package deliver_test

import (
	"strings"
	"testing"

	"github.com/moraneus/PoET/internal/deliver"
	"github.com/moraneus/PoET/internal/event"
	"github.com/moraneus/PoET/internal/frontier"
)

func TestDeliverableAtRootRequiresFirstLocalEvent(t *testing.T) {
	root := frontier.New(0, frontier.Cut{0, 0})
	e1 := &event.Event{ID: "e1", Processes: []int{1}, VC: []uint64{1, 0}}
	if !deliver.Deliverable(root, e1) {
		t.Errorf("expected e1 (P1's first event) deliverable at root")
	}

	e2 := &event.Event{ID: "e2", Processes: []int{1}, VC: []uint64{2, 0}}
	if deliver.Deliverable(root, e2) {
		t.Errorf("expected e2 (P1's second event) NOT deliverable at root")
	}
}

func TestDeliverableRequiresNonParticipantsCaughtUp(t *testing.T) {
	f := frontier.New(0, frontier.Cut{1, 0})
	// e depends on P2 already having delivered its first event (vc[1]=1),
	// but the cut shows P2 at 0.
	e := &event.Event{ID: "e3", Processes: []int{1}, VC: []uint64{2, 1}}
	if deliver.Deliverable(f, e) {
		t.Errorf("expected e3 NOT deliverable: P2 dependency not yet satisfied")
	}
}

func TestNextCutIncrementsOnlyParticipants(t *testing.T) {
	f := frontier.New(0, frontier.Cut{1, 0})
	e := &event.Event{ID: "e3", Processes: []int{1, 2}, VC: []uint64{2, 1}}
	next := deliver.NextCut(f, e)
	want := frontier.Cut{2, 1}
	if !next.Equal(want) {
		t.Errorf("NextCut = %v, want %v", next, want)
	}
}

func TestHoldingQueueTracksAndReleasesPendingEvents(t *testing.T) {
	var q deliver.HoldingQueue
	e := &event.Event{ID: "e2", Processes: []int{2}, VC: []uint64{0, 1}}
	q.Add(e)
	if q.Empty() {
		t.Fatal("expected queue non-empty after Add")
	}
	if got := q.Names(); len(got) != 1 || got[0] != "e2" {
		t.Errorf("Names() = %v, want [e2]", got)
	}

	root := frontier.New(0, frontier.Cut{0, 0})
	ready := q.Ready([]*frontier.Frontier{root})
	if len(ready) != 1 || ready[0].ID != "e2" {
		t.Errorf("Ready() = %v, want [e2]", ready)
	}
	if !q.Empty() {
		t.Errorf("expected queue empty after Ready drained it")
	}
}

func TestCausalityErrorMessageListsPending(t *testing.T) {
	err := &deliver.CausalityError{EventID: "e5", Pending: []string{"e3", "e4"}}
	msg := err.Error()
	if !strings.Contains(msg, "e5") || !strings.Contains(msg, "e3") || !strings.Contains(msg, "e4") {
		t.Errorf("Error() = %q, missing expected event ids", msg)
	}
}
