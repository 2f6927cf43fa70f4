// Package query provides the fluent public façade from §4.12: build up
// a journey query with SelectProfile/SelectStops/SelectTimeFrame, then
// run it as a full Pareto scan (CalculateAllJourneys) or one of the two
// degenerate single-criterion reductions (EarliestArrival,
// LatestDeparture).
package query

import (
	"context"
	"fmt"

	"github.com/antigravity/transitcore/internal/connstore"
	"github.com/antigravity/transitcore/internal/frontier"
	"github.com/antigravity/transitcore/internal/metric"
	"github.com/antigravity/transitcore/internal/pcs"
	"github.com/antigravity/transitcore/internal/transfer"
)

// Builder accumulates a query's configuration. Every Select* method
// returns the receiver so calls chain; nothing runs until
// CalculateAllJourneys, EarliestArrival, or LatestDeparture is called.
type Builder struct {
	db *connstore.ConnectionsDb

	origin, destination connstore.StopId
	haveStops           bool

	windowStart, windowEnd uint32
	haveWindow             bool

	profileComparator metric.Comparator
	paretoComparator  metric.Comparator

	transferGenerator transfer.Generator
	maxTransfers      int

	guesser pcs.Guesser
}

// New starts a query against db. The default profile is metric.Profile
// (time-dependent Pareto over vehicles/departure/arrival) with
// metric.Pareto used to collapse trip-frontier candidates. maxTransfers
// starts at 1, but no transfer generator is set, so walking transfers
// stay off until WithTransfers supplies one.
func New(db *connstore.ConnectionsDb) *Builder {
	return &Builder{
		db:                db,
		profileComparator: metric.Profile,
		paretoComparator:  metric.Pareto,
		maxTransfers:      1,
	}
}

// SelectProfile overrides the comparator used to build each stop's
// Pareto frontier. The trip-frontier comparator is left at its default
// (metric.Pareto) unless WithParetoComparator is also called: the two
// serve different purposes (§4.8) and a caller tuning one rarely means
// to tune the other.
func (b *Builder) SelectProfile(cmp metric.Comparator) *Builder {
	b.profileComparator = cmp
	return b
}

// WithParetoComparator overrides the comparator used to reduce
// candidates within a single trip's frontier (§4.8's TripFrontier).
func (b *Builder) WithParetoComparator(cmp metric.Comparator) *Builder {
	b.paretoComparator = cmp
	return b
}

// SelectStops fixes the origin and destination.
func (b *Builder) SelectStops(from, to connstore.StopId) *Builder {
	b.origin = from
	b.destination = to
	b.haveStops = true
	return b
}

// SelectTimeFrame fixes the scan window [t0, t1). t0 must be strictly
// before t1; Build rejects the query otherwise.
func (b *Builder) SelectTimeFrame(t0, t1 uint32) *Builder {
	b.windowStart = t0
	b.windowEnd = t1
	b.haveWindow = true
	return b
}

// WithTransfers enables the walk-transfer candidate shape (§4.9 step 2)
// using gen whenever maxTransfers > 0. The scanner uses maxTransfers only
// as that on/off switch: it does not count walking legs, so a journey
// may contain more than maxTransfers of them. Passing a nil generator or
// maxTransfers <= 0 disables walking transfers, which is also the
// default.
func (b *Builder) WithTransfers(gen transfer.Generator, maxTransfers int) *Builder {
	b.transferGenerator = gen
	b.maxTransfers = maxTransfers
	return b
}

// WithGuesser installs a metric guesser (§4.10) to prune stop frontiers
// mid-scan. Without one, the scan keeps every non-dominated entry it
// ever produces.
func (b *Builder) WithGuesser(g pcs.Guesser) *Builder {
	b.guesser = g
	return b
}

// Build validates the accumulated configuration and returns the
// pcs.Settings it describes. Exported so callers that want to tweak a
// field pcs.Settings exposes but Builder doesn't (e.g. Deadline) can do
// so before calling pcs.Run directly.
func (b *Builder) Build() (pcs.Settings, error) {
	if err := b.validate(); err != nil {
		return pcs.Settings{}, err
	}
	return pcs.Settings{
		Origin:            b.origin,
		Destination:       b.destination,
		WindowStart:       b.windowStart,
		WindowEnd:         b.windowEnd,
		ProfileComparator: b.profileComparator,
		ParetoComparator:  b.paretoComparator,
		TransferGenerator: b.transferGenerator,
		MaxTransfers:      b.maxTransfers,
		Guesser:           b.guesser,
	}, nil
}

// validate checks the two fail-fast conditions from §7: an incomplete
// query (no origin/destination) is ErrConfig; a missing, empty or
// inverted window is ErrConfig wrapping connstore.ErrInvalidWindow, so
// errors.Is matches either sentinel.
func (b *Builder) validate() error {
	if !b.haveStops {
		return ErrConfig
	}
	if !b.haveWindow || b.windowStart >= b.windowEnd {
		return fmt.Errorf("%w: %w", ErrConfig, connstore.ErrInvalidWindow)
	}
	return nil
}

// CalculateAllJourneys runs the full Pareto scan (§4.9), applying filter
// (if non-nil) to decide which connections are boardable at all. It
// fails fast with ErrConfig before touching the enumerator if the query
// is incomplete.
func (b *Builder) CalculateAllJourneys(ctx context.Context, filter func(connstore.Connection) bool) (*pcs.Result, error) {
	settings, err := b.Build()
	if err != nil {
		return nil, err
	}
	settings.ConnectionFilter = filter
	return pcs.Run(ctx, b.db, settings), nil
}

// EarliestArrival runs the EAS degenerate reduction (§4.9) and reports
// whether any journey was found within the window.
func (b *Builder) EarliestArrival(ctx context.Context) (frontier.Entry, bool, error) {
	if err := b.validate(); err != nil {
		return frontier.Entry{}, false, err
	}
	entry, ok := pcs.EarliestArrival(ctx, b.db, b.origin, b.destination, b.windowStart, b.windowEnd, b.transferGenerator, b.maxTransfers)
	return entry, ok, nil
}

// LatestDeparture runs the LAS degenerate reduction (§4.9) and reports
// whether any journey was found within the window.
func (b *Builder) LatestDeparture(ctx context.Context) (frontier.Entry, bool, error) {
	if err := b.validate(); err != nil {
		return frontier.Entry{}, false, err
	}
	entry, ok := pcs.LatestDeparture(ctx, b.db, b.origin, b.destination, b.windowStart, b.windowEnd, b.transferGenerator, b.maxTransfers)
	return entry, ok, nil
}
