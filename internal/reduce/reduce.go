// Package reduce implements the Reduction Policy of spec.md §4.5: pruning
// frontiers that can no longer influence any future verdict, so a streaming
// run's live frontier set stays bounded instead of growing with the full
// consistent-cut lattice.
//
// Grounded on spec.md §4.5's own characterization of "disabled": a frontier
// all of whose dimensions have fallen strictly behind the global per-process
// progress. That characterization is streaming-safe (it needs no lookahead):
// if every process has already delivered at least one event past f's cut on
// every dimension, the event that would be required to extend f along any
// dimension has already been delivered to some other frontier, so f can
// never gain another child. internal/store/store.go's snapshot-before-
// mutate discipline is the model for "evaluate before you prune."
package reduce

import "github.com/moraneus/PoET/internal/frontier"

// FullyBehind reports whether cut is strictly less than globalCut on every
// dimension — the soundness condition under which a frontier is guaranteed
// disabled (spec.md §4.5, §9 "Reduction correctness").
func FullyBehind(cut, globalCut frontier.Cut) bool {
	for i := range cut {
		if cut[i] >= globalCut[i] {
			return false
		}
	}
	return true
}

// Apply tombstones every non-tombstoned frontier that is fully behind
// globalCut. Callers must have already evaluated (and thereby memoized)
// every subformula at each frontier before calling Apply, so that
// tombstoning never discards an unevaluated verdict (spec.md §9: "the
// reduction step must snapshot all subformula truth values on a frontier
// before removing it"). Tombstoning never deletes the frontier or its cut
// registration — only the State Manager's external-facing views
// (GetMaximalFrontiers, run statistics) treat tombstoned frontiers as gone —
// so cut-based deduplication and parent/child edges stay valid forever.
// Returns the number of frontiers newly tombstoned.
func Apply(frontiers []*frontier.Frontier, globalCut frontier.Cut) int {
	pruned := 0
	for _, f := range frontiers {
		if f.Tombstoned() {
			continue
		}
		if FullyBehind(f.Cut, globalCut) {
			f.Tombstone()
			pruned++
		}
	}
	return pruned
}
