// Package journey implements the persistent, structurally-shared
// itinerary representation from §4.6: a singly-linked chain of steps
// built back-to-front by the scanner, with branch points where two
// journeys merge into a shared tail.
package journey

import (
	"fmt"

	"github.com/antigravity/transitcore/internal/connstore"
	"github.com/antigravity/transitcore/internal/metric"
)

// StepKind distinguishes an ordinary ride from a synthesised step.
type StepKind uint8

const (
	StepRide StepKind = iota
	StepWalk
	StepTransfer
	StepGenesis
)

func (k StepKind) String() string {
	switch k {
	case StepRide:
		return "ride"
	case StepWalk:
		return "walk"
	case StepTransfer:
		return "transfer"
	case StepGenesis:
		return "genesis"
	default:
		return "unknown"
	}
}

// Journey is one node of the chain. Normal nodes have exactly one
// Previous; a Joined node additionally carries AlternativePrevious,
// marking the point where two equivalent tails converge on the same
// continuation.
//
// The scanner builds journeys backward in time: it creates the genesis
// node at the destination first and chains each earlier connection onto
// it, so in a scanner journey Previous points toward the destination
// (later in wall-clock time, earlier in construction order).
type Journey struct {
	Kind  StepKind
	Time  uint32
	Stop  connstore.StopId
	Trip  connstore.TripId
	Tag   string // populated for StepTransfer/StepWalk/StepGenesis

	Previous            *Journey
	AlternativePrevious *Journey // non-nil only for a JOINED_JOURNEYS node

	// Conn and the walk fields carry the data MeasureWith needs to
	// replay this single step under a different metric. Conn is the
	// zero value for anything but a StepRide node.
	Conn        connstore.Connection
	WalkSeconds uint32
	WalkMeters  uint32
}

// Genesis creates the terminal node of a chain: no predecessor, carrying
// only a time and location. PCS seeds S[destination] with one of these.
func Genesis(tag string, t uint32, loc connstore.StopId) *Journey {
	return &Journey{Kind: StepGenesis, Time: t, Stop: loc, Tag: tag}
}

// Chain appends an ordinary ride step onto prev. conn is retained so
// MeasureWith can replay this step's cost under a different metric.
func Chain(prev *Journey, conn connstore.Connection, t uint32, loc connstore.StopId, trip connstore.TripId) *Journey {
	return &Journey{
		Kind:     StepRide,
		Time:     t,
		Stop:     loc,
		Trip:     trip,
		Previous: prev,
		Conn:     conn,
	}
}

// ChainSpecial appends a synthesised step: a walk leg (tag "walk", with
// its duration and distance), an explicit transfer, or (rarely) a
// second genesis marker mid-chain.
func ChainSpecial(prev *Journey, tag string, t uint32, loc connstore.StopId, trip connstore.TripId, walkSeconds, walkMeters uint32) *Journey {
	kind := StepTransfer
	if tag == "walk" {
		kind = StepWalk
	}
	return &Journey{
		Kind:        kind,
		Time:        t,
		Stop:        loc,
		Trip:        trip,
		Tag:         tag,
		Previous:    prev,
		WalkSeconds: walkSeconds,
		WalkMeters:  walkMeters,
	}
}

// Join produces a JOINED_JOURNEYS node: a single node from which two
// equivalent-cost tails (a and b) both continue. Callers that walk the
// chain for a single itinerary must pick one side; Reverse enumerates
// both.
func Join(a, b *Journey) *Journey {
	return &Journey{
		Kind:                a.Kind,
		Time:                a.Time,
		Stop:                a.Stop,
		Trip:                a.Trip,
		Tag:                 a.Tag,
		Previous:            a,
		AlternativePrevious: b,
	}
}

// ToList flattens a single-chain journey (no Joined branch points) from
// genesis to tip, in chronological construction order (i.e. reversed
// relative to Previous links, since those point from tip toward
// genesis).
func ToList(j *Journey) []*Journey {
	var rev []*Journey
	for n := j; n != nil; n = n.Previous {
		rev = append(rev, n)
		if n.AlternativePrevious != nil {
			panic("journey: ToList called on a chain containing a Joined node; use Reverse instead")
		}
	}
	list := make([]*Journey, len(rev))
	for i, n := range rev {
		list[len(rev)-1-i] = n
	}
	return list
}

// Reverse rebuilds every branch implied by Joined nodes, returning one
// flattened list (genesis-to-tip order, as ToList) per branch. A chain
// with no Joined nodes returns a single-element slice.
func Reverse(j *Journey) [][]*Journey {
	if j == nil {
		return nil
	}
	if j.AlternativePrevious == nil {
		if j.Previous == nil {
			return [][]*Journey{{j}}
		}
		var out [][]*Journey
		for _, tail := range Reverse(j.Previous) {
			out = append(out, append(append([]*Journey(nil), tail...), j))
		}
		return out
	}

	var out [][]*Journey
	for _, tail := range Reverse(j.Previous) {
		out = append(out, append(append([]*Journey(nil), tail...), j))
	}
	for _, tail := range Reverse(j.AlternativePrevious) {
		out = append(out, append(append([]*Journey(nil), tail...), j))
	}
	return out
}

// Summary is the result of collapsing consecutive same-trip steps into
// a single synthetic leg spanning first boarding to last alighting.
type Summary struct {
	Trip          connstore.TripId
	Kind          StepKind
	FromStop      connstore.StopId
	ToStop        connstore.StopId
	DepartureTime uint32
	ArrivalTime   uint32
}

// Summarize walks a flattened (genesis-to-tip) journey and merges
// adjacent steps riding the same trip into one Summary leg (§4.6).
func Summarize(steps []*Journey) []Summary {
	var out []Summary
	for i := 1; i < len(steps); i++ {
		cur := steps[i]
		if len(out) > 0 {
			last := &out[len(out)-1]
			if cur.Kind == StepRide && last.Kind == StepRide && last.Trip == cur.Trip {
				last.ToStop = cur.Stop
				last.ArrivalTime = cur.Time
				continue
			}
		}
		out = append(out, Summary{
			Trip:          cur.Trip,
			Kind:          cur.Kind,
			FromStop:      steps[i-1].Stop,
			ToStop:        cur.Stop,
			DepartureTime: steps[i-1].Time,
			ArrivalTime:   cur.Time,
		})
	}
	return out
}

// MeasureWith replays a flattened (genesis-to-tip) journey under a
// possibly different metric definition, preserving the chain's
// structure: each step's contribution is recomputed from its retained
// Conn/walk fields rather than from a cached total (§4.6). A ride step
// counts as a continuation of the previous one (no new vehicle boarded)
// exactly when both are StepRide on the same trip with nothing riding
// between them, mirroring the adjacency check Summarize uses.
func MeasureWith(steps []*Journey) metric.Standard {
	m := metric.Zero()
	prevRideTrip := connstore.TripId{}
	havePrevRide := false
	for _, step := range steps {
		switch step.Kind {
		case StepRide:
			continuation := havePrevRide && step.Trip == prevRideTrip
			m = metric.Add(m, step.Conn, continuation)
			prevRideTrip = step.Trip
			havePrevRide = true
		case StepWalk:
			m = metric.AddWalk(m, step.WalkSeconds, step.WalkMeters)
			havePrevRide = false
		case StepTransfer, StepGenesis:
			// No cost contribution: a bare transfer marker or the
			// chain's origin carries no travel of its own.
			havePrevRide = false
		}
	}
	return m
}

func (j *Journey) String() string {
	return fmt.Sprintf("%s@%d(%s)", j.Kind, j.Time, j.Stop)
}
