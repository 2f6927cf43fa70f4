// Package metric implements the pluggable metric algebra from §4.7: a
// small value type carrying the criteria PCS optimizes, plus the
// comparator shapes (Pareto, Profile, Chained) used to order frontier
// entries.
package metric

import "github.com/antigravity/transitcore/internal/connstore"

// Ordering is the result of comparing two metric values. Incomparable
// is the Pareto case: neither value is at least as good as the other in
// every criterion.
type Ordering int

const (
	Less Ordering = iota
	Greater
	Equal
	Incomparable
)

// Standard is the canonical metric from §4.7:
// (numberOfVehiclesTaken, travelTime, walkingDistance).
type Standard struct {
	Vehicles        uint32
	TravelTime      uint32
	WalkingDistance uint32
	DepartureTime   uint32
	ArrivalTime     uint32
}

// Zero returns the identity value: no vehicles boarded, no time spent.
func Zero() Standard { return Standard{} }

// Add accumulates the cost of riding one more connection onto a metric
// already measured up to conn's arrival stop. continuation is set both
// when the rider stays aboard the same physical vehicle (no alighting
// between conn and the journey already measured) and when the step was
// synthesised by the metric guesser (a teleport): neither counts as a
// new vehicle boarding.
func Add(prev Standard, conn connstore.Connection, continuation bool) Standard {
	next := prev
	next.TravelTime += uint32(conn.TravelTime)
	next.DepartureTime = conn.DepartureTime
	if prev.ArrivalTime != 0 {
		next.ArrivalTime = prev.ArrivalTime
	} else {
		next.ArrivalTime = conn.ArrivalTime()
	}
	if !continuation {
		next.Vehicles++
	}
	return next
}

// AddWalk accumulates a walking leg of the given duration/distance onto
// prev without counting a vehicle boarding.
func AddWalk(prev Standard, seconds, meters uint32) Standard {
	next := prev
	next.TravelTime += seconds
	next.WalkingDistance += meters
	return next
}

// Comparator orders two Standard values; the shape (Pareto, Profile,
// Chained) determines which criteria participate and how.
type Comparator func(a, b Standard) Ordering

// Pareto compares on (#vehicles, travelTime): a dominates b iff a is <=
// in both and < in at least one; otherwise incomparable (or equal).
func Pareto(a, b Standard) Ordering {
	aLE := a.Vehicles <= b.Vehicles && a.TravelTime <= b.TravelTime
	bLE := b.Vehicles <= a.Vehicles && b.TravelTime <= a.TravelTime
	switch {
	case aLE && bLE:
		return Equal
	case aLE:
		return Less
	case bLE:
		return Greater
	default:
		return Incomparable
	}
}

// Profile compares on (#vehicles, departureTime, arrivalTime) per
// §4.7's rule 2: a is "better in at least one" iff a has fewer
// vehicles, a later departure, or an earlier arrival. Betterness in
// both directions is incomparable; one-sided betterness dominates;
// neither is equal.
func Profile(a, b Standard) Ordering {
	aBetter := a.Vehicles < b.Vehicles || a.DepartureTime > b.DepartureTime || a.ArrivalTime < b.ArrivalTime
	bBetter := b.Vehicles < a.Vehicles || b.DepartureTime > a.DepartureTime || b.ArrivalTime < a.ArrivalTime
	switch {
	case aBetter && bBetter:
		return Incomparable
	case aBetter:
		return Less
	case bBetter:
		return Greater
	default:
		return Equal
	}
}

// Chained builds a lexicographic comparator: apply first; if Equal,
// fall back to second. Used to build "minimize transfers, then time".
func Chained(first, second Comparator) Comparator {
	return func(a, b Standard) Ordering {
		if o := first(a, b); o != Equal {
			return o
		}
		return second(a, b)
	}
}

// Dominates reports whether a is strictly better than b (Less under the
// given comparator).
func Dominates(cmp Comparator, a, b Standard) bool {
	return cmp(a, b) == Less
}
