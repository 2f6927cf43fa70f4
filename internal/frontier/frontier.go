// Package frontier implements the Pareto frontier data structures from
// §4.8: a flat-list set with bidirectional domination scanning, plus
// the single-entry trip-frontier variant.
package frontier

import "github.com/antigravity/transitcore/internal/metric"

// Entry pairs a metric value with the journey it was measured from.
// Journey is left as `any` so this package stays independent of the
// journey package's concrete type (the scanner is the only caller that
// needs both).
type Entry struct {
	Metric  metric.Standard
	Journey any
}

// AddResult classifies the outcome of TryAdd.
type AddResult int

const (
	// Added means the entry was appended; nothing existing dominated it.
	Added AddResult = iota
	// DominatedByExisting means an existing entry already dominates the
	// candidate; the frontier is unchanged.
	DominatedByExisting
	// DominatesExisting means the candidate dominates one or more
	// existing entries, which were removed before it was appended.
	DominatesExisting
)

// Frontier is the mutable Pareto set from §4.8: insertion order is
// preserved for surviving entries, and TryAdd is O(n) with a
// bidirectional domination scan.
type Frontier struct {
	cmp     metric.Comparator
	entries []Entry
}

// New creates an empty frontier ordered by cmp.
func New(cmp metric.Comparator) *Frontier {
	return &Frontier{cmp: cmp}
}

// TryAdd inserts entry if it is not dominated by any existing member,
// removing any existing members it dominates. removed lists whatever
// was evicted (nil when the result is DominatedByExisting or Added with
// nothing evicted).
func (f *Frontier) TryAdd(entry Entry) (result AddResult, removed []Entry) {
	kept := f.entries[:0]
	var evicted []Entry
	dominated := false

	for _, existing := range f.entries {
		switch f.cmp(existing.Metric, entry.Metric) {
		case metric.Less:
			dominated = true
			kept = append(kept, existing)
		case metric.Equal:
			// Equal under the active comparator: keep the one inserted
			// first (stable tie-breaking per §4.9).
			dominated = true
			kept = append(kept, existing)
		case metric.Greater:
			evicted = append(evicted, existing)
		case metric.Incomparable:
			kept = append(kept, existing)
		}
	}

	f.entries = kept
	if dominated {
		return DominatedByExisting, nil
	}

	f.entries = append(f.entries, entry)
	if len(evicted) > 0 {
		return DominatesExisting, evicted
	}
	return Added, nil
}

// Merge folds other's entries into f via TryAdd, preserving f's
// domination invariant.
func (f *Frontier) Merge(other *Frontier) {
	for _, e := range other.entries {
		f.TryAdd(e)
	}
}

// Entries returns the current frontier members in insertion order. The
// returned slice must not be mutated by the caller.
func (f *Frontier) Entries() []Entry { return f.entries }

// Len reports the number of live entries.
func (f *Frontier) Len() int { return len(f.entries) }

// Remove deletes every entry for which keep returns false.
func (f *Frontier) Remove(keep func(Entry) bool) {
	out := f.entries[:0]
	for _, e := range f.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	f.entries = out
}

// TripFrontier stores a single best-so-far entry under the Pareto
// comparator: the cost of staying on a trip until the destination
// (§4.8).
type TripFrontier struct {
	cmp   metric.Comparator
	best  Entry
	valid bool
}

// NewTrip creates an empty trip frontier ordered by cmp.
func NewTrip(cmp metric.Comparator) *TripFrontier {
	return &TripFrontier{cmp: cmp}
}

// TryAdd replaces the stored entry if candidate is strictly better
// (Less) than it, or if nothing has been stored yet. It reports whether
// the candidate was adopted.
func (t *TripFrontier) TryAdd(candidate Entry) bool {
	if !t.valid {
		t.best = candidate
		t.valid = true
		return true
	}
	if t.cmp(candidate.Metric, t.best.Metric) == metric.Less {
		t.best = candidate
		return true
	}
	return false
}

// Best returns the current best entry, if any.
func (t *TripFrontier) Best() (Entry, bool) { return t.best, t.valid }
