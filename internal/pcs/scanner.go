// Package pcs implements the Profiled Connection Scan from §4.9: a
// backward-in-time sweep over a ConnectionsDb that builds, per stop, a
// Pareto frontier of non-dominated journeys to a fixed destination.
package pcs

import (
	"context"

	"github.com/antigravity/transitcore/internal/connstore"
	"github.com/antigravity/transitcore/internal/frontier"
	"github.com/antigravity/transitcore/internal/journey"
	"github.com/antigravity/transitcore/internal/metric"
	"github.com/antigravity/transitcore/internal/transfer"
)

// Settings bundles everything the scanner needs for one scan (§4.9).
type Settings struct {
	Origin      connstore.StopId
	Destination connstore.StopId
	WindowStart uint32
	WindowEnd   uint32

	ProfileComparator metric.Comparator
	ParetoComparator  metric.Comparator

	TransferGenerator transfer.Generator
	MaxTransfers      int

	Guesser          Guesser
	ConnectionFilter func(connstore.Connection) bool

	// Deadline is checked once per enumerator advance (§5); when it
	// returns true the scan halts and Result.Truncated is set.
	Deadline func() bool
}

// Result is the scanner's output: the surviving non-dominated journeys
// to the origin, filtered to departureTime >= WindowStart.
type Result struct {
	Entries   []frontier.Entry
	Truncated bool
}

type candidate struct {
	metric  metric.Standard
	journey *journey.Journey
	// viaWalk marks a candidate built by actually walking between two
	// distinct stops. Such a candidate never seeds T[conn.Trip]: the
	// rider left conn's trip to walk somewhere else, so "stay aboard
	// conn's trip" is not a valid continuation of it.
	viaWalk bool
}

func entryTip(e frontier.Entry) *journey.Journey {
	j, _ := e.Journey.(*journey.Journey)
	return j
}

func entryDepartsAt(e frontier.Entry) uint32 {
	if j := entryTip(e); j != nil {
		return j.Time
	}
	return 0
}

func boardable(c connstore.Connection) bool {
	return !c.Mode.Cancelled() && c.Mode.CanBoard()
}

// Run executes the scan described by s over db (the scanner never
// mutates db; callers that need to scan while a writer is active must
// pass db.Clone()).
func Run(ctx context.Context, db *connstore.ConnectionsDb, s Settings) *Result {
	S := make(map[connstore.StopId]*frontier.Frontier)
	T := make(map[connstore.TripId]*frontier.TripFrontier)

	getS := func(stop connstore.StopId) *frontier.Frontier {
		f, ok := S[stop]
		if !ok {
			f = frontier.New(s.ProfileComparator)
			S[stop] = f
		}
		return f
	}
	getT := func(trip connstore.TripId) *frontier.TripFrontier {
		f, ok := T[trip]
		if !ok {
			f = frontier.NewTrip(s.ParetoComparator)
			T[trip] = f
		}
		return f
	}

	destFrontier := getS(s.Destination)
	destFrontier.TryAdd(frontier.Entry{
		Metric:  metric.Zero(),
		Journey: journey.Genesis("destination", s.WindowEnd, s.Destination),
	})

	enum := db.NewEnumerator()
	enum.MoveTo(s.WindowEnd)

	result := &Result{}

	for enum.MovePrevious() {
		if ctx.Err() != nil {
			result.Truncated = true
			break
		}
		if s.Deadline != nil && s.Deadline() {
			result.Truncated = true
			break
		}

		id, _ := enum.Current()
		conn, ok := db.Get(id)
		if !ok {
			continue
		}
		if conn.DepartureTime < s.WindowStart {
			break
		}
		if !boardable(conn) {
			continue
		}
		if s.ConnectionFilter != nil && !s.ConnectionFilter(conn) {
			continue
		}

		candidates := s.buildCandidates(conn, S, T)
		if len(candidates) == 0 {
			continue
		}

		reduced := frontier.New(s.ProfileComparator)
		for _, c := range candidates {
			reduced.TryAdd(frontier.Entry{Metric: c.metric, Journey: c.journey})
		}
		survivors := reduced.Entries()

		tf := getT(conn.Trip)
		for _, c := range candidates {
			if c.viaWalk {
				continue
			}
			if survivorContains(survivors, c.journey) {
				tf.TryAdd(frontier.Entry{Metric: c.metric, Journey: c.journey})
			}
		}

		sf := getS(conn.DepartureStop)
		mutated := false
		for _, entry := range survivors {
			res, _ := sf.TryAdd(entry)
			if res != frontier.DominatedByExisting {
				mutated = true
			}
		}

		if mutated && s.Guesser != nil && s.Guesser.ShouldBeChecked(conn.DepartureStop, enum.CurrentTime()) {
			pruneWithGuesser(sf, getS(s.Origin), s.Guesser, s.ParetoComparator, conn.DepartureStop, enum.CurrentTime())
		}
	}

	if originFrontier, ok := S[s.Origin]; ok {
		for _, e := range originFrontier.Entries() {
			if entryDepartsAt(e) >= s.WindowStart {
				result.Entries = append(result.Entries, e)
			}
		}
	}
	return result
}

// buildCandidates computes the three continuation shapes from §4.9 step
// 2: stay-on-trip (from T[conn.Trip]), same-stop/direct-to-destination
// (from S[conn.ArrivalStop] with no walking), and walk-transfer (from
// S[stop] for every stop the transfer generator reports as reachable on
// foot from conn.ArrivalStop). The first two both seed T[conn.Trip] for
// connections processed earlier in the backward scan; only genuine
// walk-transfers are excluded from that, per candidate.viaWalk.
// Candidates are reduced to the surviving (non-dominated) set by the
// caller.
func (s Settings) buildCandidates(conn connstore.Connection, S map[connstore.StopId]*frontier.Frontier, T map[connstore.TripId]*frontier.TripFrontier) []candidate {
	var out []candidate
	arrival := conn.ArrivalTime()

	if tf, ok := T[conn.Trip]; ok {
		if best, ok := tf.Best(); ok {
			// Staying aboard the same trip: riding conn costs no extra
			// boarding.
			m := metric.Add(best.Metric, conn, true)
			j := journey.Chain(entryTip(best), conn, conn.DepartureTime, conn.DepartureStop, conn.Trip)
			out = append(out, candidate{metric: m, journey: j})
		}
	}

	if !conn.Mode.CanAlight() {
		return out
	}

	if sf, ok := S[conn.ArrivalStop]; ok {
		for _, entry := range sf.Entries() {
			if entryDepartsAt(entry) < arrival {
				continue
			}
			m := metric.Add(entry.Metric, conn, false)
			j := journey.Chain(entryTip(entry), conn, conn.DepartureTime, conn.DepartureStop, conn.Trip)
			// No walking is involved (same stop, or conn.ArrivalStop is
			// the destination itself): this still starts a fresh trip
			// continuation, so it must be eligible to seed T[conn.Trip].
			out = append(out, candidate{metric: m, journey: j})
		}
	}

	if s.TransferGenerator != nil && s.MaxTransfers > 0 {
		stops := make([]connstore.StopId, 0, len(S))
		for stop := range S {
			if stop != conn.ArrivalStop {
				stops = append(stops, stop)
			}
		}
		reachable := s.TransferGenerator.TimesBetween(conn.ArrivalStop, stops)
		for stop, walkSeconds := range reachable {
			sf, ok := S[stop]
			if !ok {
				continue
			}
			for _, entry := range sf.Entries() {
				if entryDepartsAt(entry) < arrival+walkSeconds {
					continue
				}
				base := metric.Add(entry.Metric, conn, false)
				m := metric.AddWalk(base, walkSeconds, 0)
				walkNode := journey.ChainSpecial(entryTip(entry), "walk", arrival, conn.ArrivalStop, connstore.TripId{}, walkSeconds, 0)
				j := journey.Chain(walkNode, conn, conn.DepartureTime, conn.DepartureStop, conn.Trip)
				out = append(out, candidate{metric: m, journey: j, viaWalk: true})
			}
		}
	}

	return out
}

func survivorContains(survivors []frontier.Entry, j *journey.Journey) bool {
	for _, e := range survivors {
		if entryTip(e) == j {
			return true
		}
	}
	return false
}

// pruneWithGuesser implements §4.9 step 6: combine every entry in sf
// with the guesser's optimistic completion-to-origin estimate, and drop
// entries whose best-possible total is already dominated by a known
// journey in the origin frontier.
func pruneWithGuesser(sf, originFrontier *frontier.Frontier, g Guesser, cmp metric.Comparator, at connstore.StopId, tick uint32) {
	knownBest, ok := bestOriginMetric(originFrontier, cmp)
	if !ok {
		return
	}
	sf.Remove(func(e frontier.Entry) bool {
		lowerBound := g.LeastTheoreticalContinuation(at, tick)
		optimistic := metric.Standard{
			Vehicles:        e.Metric.Vehicles + lowerBound.Vehicles,
			TravelTime:      e.Metric.TravelTime + lowerBound.TravelTime,
			WalkingDistance: e.Metric.WalkingDistance + lowerBound.WalkingDistance,
		}
		// Keep e unless even its best-possible completion cannot beat
		// the journey already known to reach the origin.
		return cmp(knownBest, optimistic) != metric.Less
	})
}

func bestOriginMetric(f *frontier.Frontier, cmp metric.Comparator) (metric.Standard, bool) {
	entries := f.Entries()
	if len(entries) == 0 {
		return metric.Standard{}, false
	}
	best := entries[0].Metric
	for _, e := range entries[1:] {
		if cmp(e.Metric, best) == metric.Less {
			best = e.Metric
		}
	}
	return best, true
}
