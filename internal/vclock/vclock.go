// Package vclock implements fixed-width Fidge-Mattern vector clocks.
//
// Interview explanation:
//
//	A vector clock is a tuple of N counters, one per process in the system.
//	Process Pi advances its own slot by one on every local event it
//	participates in, and folds in the max of any other process's slots it
//	learns about during a joint event. Comparing two clocks componentwise
//	tells you whether one causally precedes the other, or whether they are
//	concurrent — exactly the information PoET needs to decide which events
//	can be appended to which frontier (see package deliver).
//
// Unlike a distributed key-value store's vector clock (one counter per
// dynamically-joining node, naturally modeled as a map), PoET's process set
// is declared up front by the trace file, so the clock is a fixed-width
// slice indexed by process number.
package vclock

import "fmt"

// Relation describes the causal relationship between two vector clocks.
type Relation int

const (
	Equal      Relation = iota // identical
	Before                     // self happened-before other
	After                      // self happened-after other
	Concurrent                 // neither dominates — concurrent
)

// Clock is a fixed-width vector clock: Clock[i] is process Pi+1's counter.
type Clock []uint64

// New returns a zero clock of the given width.
func New(width int) Clock {
	return make(Clock, width)
}

// Copy returns an independent copy of vc.
func (vc Clock) Copy() Clock {
	c := make(Clock, len(vc))
	copy(c, vc)
	return c
}

// LessEq reports whether vc <= other componentwise.
func (vc Clock) LessEq(other Clock) bool {
	if len(vc) != len(other) {
		panic(fmt.Sprintf("vclock: width mismatch %d != %d", len(vc), len(other)))
	}
	for i := range vc {
		if vc[i] > other[i] {
			return false
		}
	}
	return true
}

// Less reports whether vc < other: vc <= other and vc != other.
func (vc Clock) Less(other Clock) bool {
	return vc.LessEq(other) && !vc.Equal(other)
}

// Equal reports whether vc and other have identical counters.
func (vc Clock) Equal(other Clock) bool {
	if len(vc) != len(other) {
		return false
	}
	for i := range vc {
		if vc[i] != other[i] {
			return false
		}
	}
	return true
}

// Compare returns the causal relationship of vc relative to other.
func (vc Clock) Compare(other Clock) Relation {
	switch {
	case vc.Equal(other):
		return Equal
	case vc.LessEq(other):
		return Before
	case other.LessEq(vc):
		return After
	default:
		return Concurrent
	}
}

// Max returns a new clock holding the componentwise maximum of vc and other.
func (vc Clock) Max(other Clock) Clock {
	if len(vc) != len(other) {
		panic(fmt.Sprintf("vclock: width mismatch %d != %d", len(vc), len(other)))
	}
	merged := make(Clock, len(vc))
	for i := range vc {
		merged[i] = vc[i]
		if other[i] > merged[i] {
			merged[i] = other[i]
		}
	}
	return merged
}

func (vc Clock) String() string {
	return fmt.Sprintf("%v", []uint64(vc))
}
