// Package transfer implements the pluggable transfer-generator
// interface from §6: the callback PCS uses to find stops reachable on
// foot from a connection's arrival stop, bounded by maxTransfers.
package transfer

import (
	"math"

	"github.com/antigravity/transitcore/internal/connstore"
)

// Unreachable is returned by TimeBetween when no walking path exists
// between the two stops under a generator's policy.
const Unreachable = ^uint32(0)

// Generator is the callback the scanner uses to expand a connection's
// arrival stop into the set of stops reachable on foot (§6).
type Generator interface {
	// TimeBetween returns the walking time in seconds from one stop to
	// another, or Unreachable.
	TimeBetween(from, to connstore.StopId) uint32
	// TimesBetween returns the subset of targets reachable from from,
	// mapped to their walking time in seconds.
	TimesBetween(from connstore.StopId, targets []connstore.StopId) map[connstore.StopId]uint32
	// Range reports the generator's maximum walking radius in meters,
	// used by spatial prefilters upstream of the scanner.
	Range() uint32
	// Identifier returns a stable cache key for this generator instance.
	Identifier() string
}

// StaticGenerator is a precomputed from->to->duration table: the
// degenerate case used by tests and by callers that already have a
// transfer matrix.
type StaticGenerator struct {
	id    string
	times map[connstore.StopId]map[connstore.StopId]uint32
	rng   uint32
}

// NewStaticGenerator wraps a precomputed matrix. rangeMeters is reported
// verbatim by Range; it does not constrain lookups.
func NewStaticGenerator(id string, times map[connstore.StopId]map[connstore.StopId]uint32, rangeMeters uint32) *StaticGenerator {
	return &StaticGenerator{id: id, times: times, rng: rangeMeters}
}

func (g *StaticGenerator) TimeBetween(from, to connstore.StopId) uint32 {
	row, ok := g.times[from]
	if !ok {
		return Unreachable
	}
	t, ok := row[to]
	if !ok {
		return Unreachable
	}
	return t
}

func (g *StaticGenerator) TimesBetween(from connstore.StopId, targets []connstore.StopId) map[connstore.StopId]uint32 {
	out := make(map[connstore.StopId]uint32)
	row, ok := g.times[from]
	if !ok {
		return out
	}
	for _, to := range targets {
		if t, ok := row[to]; ok {
			out[to] = t
		}
	}
	return out
}

func (g *StaticGenerator) Range() uint32      { return g.rng }
func (g *StaticGenerator) Identifier() string { return g.id }

// Coordinates is a stop's position, in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// HaversineGenerator derives walking times from great-circle distance
// and a fixed walking speed, standing in for a geospatial-DB transfer
// generator (§4.11) without taking on a database dependency.
type HaversineGenerator struct {
	id          string
	coords      map[connstore.StopId]Coordinates
	speedMPS    float64
	rangeMeters uint32
}

// NewHaversineGenerator builds a generator over the given stop
// coordinates. speedMPS is the assumed walking speed in meters/second;
// rangeMeters bounds which pairs are considered reachable at all.
func NewHaversineGenerator(id string, coords map[connstore.StopId]Coordinates, speedMPS float64, rangeMeters uint32) *HaversineGenerator {
	return &HaversineGenerator{id: id, coords: coords, speedMPS: speedMPS, rangeMeters: rangeMeters}
}

const earthRadiusMeters = 6371000.0

func haversineMeters(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

func (g *HaversineGenerator) TimeBetween(from, to connstore.StopId) uint32 {
	a, ok := g.coords[from]
	if !ok {
		return Unreachable
	}
	b, ok := g.coords[to]
	if !ok {
		return Unreachable
	}
	dist := haversineMeters(a, b)
	if dist > float64(g.rangeMeters) {
		return Unreachable
	}
	return uint32(math.Ceil(dist / g.speedMPS))
}

func (g *HaversineGenerator) TimesBetween(from connstore.StopId, targets []connstore.StopId) map[connstore.StopId]uint32 {
	out := make(map[connstore.StopId]uint32)
	for _, to := range targets {
		if t := g.TimeBetween(from, to); t != Unreachable {
			out[to] = t
		}
	}
	return out
}

func (g *HaversineGenerator) Range() uint32      { return g.rangeMeters }
func (g *HaversineGenerator) Identifier() string { return g.id }

// CompositeGenerator is the "first/last-mile" policy from §6: it
// dispatches to one of up to three underlying generators depending on
// whether the from-stop belongs to firstMileStops, lastMileStops, or
// neither (the "middle" policy).
type CompositeGenerator struct {
	id             string
	firstMileStops map[connstore.StopId]bool
	lastMileStops  map[connstore.StopId]bool
	firstMile      Generator
	lastMile       Generator
	middle         Generator
}

// NewCompositeGenerator builds a dispatcher. Any of firstMile/lastMile
// may be nil, in which case middle serves that case too.
func NewCompositeGenerator(id string, firstMileStops, lastMileStops map[connstore.StopId]bool, firstMile, lastMile, middle Generator) *CompositeGenerator {
	return &CompositeGenerator{
		id:             id,
		firstMileStops: firstMileStops,
		lastMileStops:  lastMileStops,
		firstMile:      firstMile,
		lastMile:       lastMile,
		middle:         middle,
	}
}

func (g *CompositeGenerator) pick(from connstore.StopId) Generator {
	if g.firstMileStops[from] && g.firstMile != nil {
		return g.firstMile
	}
	if g.lastMileStops[from] && g.lastMile != nil {
		return g.lastMile
	}
	return g.middle
}

func (g *CompositeGenerator) TimeBetween(from, to connstore.StopId) uint32 {
	return g.pick(from).TimeBetween(from, to)
}

func (g *CompositeGenerator) TimesBetween(from connstore.StopId, targets []connstore.StopId) map[connstore.StopId]uint32 {
	return g.pick(from).TimesBetween(from, targets)
}

func (g *CompositeGenerator) Range() uint32 {
	r := g.middle.Range()
	if g.firstMile != nil && g.firstMile.Range() > r {
		r = g.firstMile.Range()
	}
	if g.lastMile != nil && g.lastMile.Range() > r {
		r = g.lastMile.Range()
	}
	return r
}

func (g *CompositeGenerator) Identifier() string { return g.id }
