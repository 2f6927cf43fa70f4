package pcs

import (
	"context"

	"github.com/antigravity/transitcore/internal/connstore"
	"github.com/antigravity/transitcore/internal/frontier"
	"github.com/antigravity/transitcore/internal/metric"
	"github.com/antigravity/transitcore/internal/transfer"
)

// arrivalAscending orders by arrival time alone: the single-dimensional
// comparator §4.9 calls for in the EAS reduction.
func arrivalAscending(a, b metric.Standard) metric.Ordering {
	switch {
	case a.ArrivalTime < b.ArrivalTime:
		return metric.Less
	case a.ArrivalTime > b.ArrivalTime:
		return metric.Greater
	default:
		return metric.Equal
	}
}

// departureDescending orders by departure time alone, preferring later
// departures: the single-dimensional comparator for the LAS reduction.
func departureDescending(a, b metric.Standard) metric.Ordering {
	switch {
	case a.DepartureTime > b.DepartureTime:
		return metric.Less
	case a.DepartureTime < b.DepartureTime:
		return metric.Greater
	default:
		return metric.Equal
	}
}

func bestBy(entries []frontier.Entry, cmp metric.Comparator) (frontier.Entry, bool) {
	if len(entries) == 0 {
		return frontier.Entry{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if cmp(e.Metric, best.Metric) == metric.Less {
			best = e
		}
	}
	return best, true
}

// EarliestArrival runs the EAS degenerate reduction of PCS (§4.9): a full
// backward scan of the window with a single-dimensional arrival-time
// comparator. Because the comparator imposes a total order, S[origin]
// converges to a single surviving entry as better connections are found;
// bestBy is a defensive final pick rather than a genuine tie-break.
// As in the general multi-criteria scan, the window is scanned to
// WindowStart in full: the earliest-arriving connection is not
// necessarily the first one the backward scan encounters.
func EarliestArrival(ctx context.Context, db *connstore.ConnectionsDb, origin, destination connstore.StopId, windowStart, windowEnd uint32, gen transfer.Generator, maxTransfers int) (frontier.Entry, bool) {
	res := Run(ctx, db, Settings{
		Origin:            origin,
		Destination:       destination,
		WindowStart:       windowStart,
		WindowEnd:         windowEnd,
		ProfileComparator: arrivalAscending,
		ParetoComparator:  arrivalAscending,
		TransferGenerator: gen,
		MaxTransfers:      maxTransfers,
	})
	return bestBy(res.Entries, arrivalAscending)
}

// LatestDeparture runs the LAS degenerate reduction of PCS (§4.9): the
// same full backward scan, ordered by a single-dimensional
// departure-time comparator that prefers later departures.
func LatestDeparture(ctx context.Context, db *connstore.ConnectionsDb, origin, destination connstore.StopId, windowStart, windowEnd uint32, gen transfer.Generator, maxTransfers int) (frontier.Entry, bool) {
	res := Run(ctx, db, Settings{
		Origin:            origin,
		Destination:       destination,
		WindowStart:       windowStart,
		WindowEnd:         windowEnd,
		ProfileComparator: departureDescending,
		ParetoComparator:  departureDescending,
		TransferGenerator: gen,
		MaxTransfers:      maxTransfers,
	})
	return bestBy(res.Entries, departureDescending)
}
