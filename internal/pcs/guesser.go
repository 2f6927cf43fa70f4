package pcs

import (
	"github.com/antigravity/transitcore/internal/connstore"
	"github.com/antigravity/transitcore/internal/metric"
	"github.com/antigravity/transitcore/internal/transfer"
)

// Guesser is the metric-guesser oracle from §4.10: an optimistic lower
// bound on the cost of completing a partial journey back to the scan's
// origin, used to prune frontier entries that can no longer win.
type Guesser interface {
	// LeastTheoreticalContinuation estimates the best-possible metric
	// cost of getting from at to the origin, starting no earlier than
	// currentTime (the enumerator's clock).
	LeastTheoreticalContinuation(at connstore.StopId, currentTime uint32) metric.Standard
	// ShouldBeChecked returns true at most once per clock tick per
	// stop's frontier; state resets when tick changes for that stop.
	ShouldBeChecked(stop connstore.StopId, tick uint32) bool
}

// TeleportGuesser is the "teleport" guesser from §4.9/§4.10: it treats
// the transfer generator's walking-time estimate between a stop and the
// scan origin as an optimistic (usually unrealistic) lower bound on
// completing the journey, since no scheduled service can be slower than
// a straight walk under the generator's speed assumption.
type TeleportGuesser struct {
	origin   connstore.StopId
	gen      transfer.Generator
	lastTick map[connstore.StopId]uint32
}

// NewTeleportGuesser builds a guesser anchored at origin. gen may be nil,
// in which case the lower bound degenerates to zero (never prunes).
func NewTeleportGuesser(origin connstore.StopId, gen transfer.Generator) *TeleportGuesser {
	return &TeleportGuesser{origin: origin, gen: gen, lastTick: make(map[connstore.StopId]uint32)}
}

func (g *TeleportGuesser) LeastTheoreticalContinuation(at connstore.StopId, currentTime uint32) metric.Standard {
	if g.gen == nil || at == g.origin {
		return metric.Zero()
	}
	walk := g.gen.TimeBetween(at, g.origin)
	if walk == transfer.Unreachable {
		return metric.Zero()
	}
	return metric.Standard{TravelTime: walk}
}

func (g *TeleportGuesser) ShouldBeChecked(stop connstore.StopId, tick uint32) bool {
	if last, ok := g.lastTick[stop]; ok && last == tick {
		return false
	}
	g.lastTick[stop] = tick
	return true
}
