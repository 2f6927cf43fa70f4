// Package connstore implements ConnectionsDb: the mutable, append/update
// friendly store of connections with a packed binary layout, a
// globalId->internalId hash index, and a windowed departure index.
package connstore

import "fmt"

// DatabaseId distinguishes federated databases. Never serialized; assigned
// per load.
type DatabaseId uint32

// InternalId indexes a connection inside a single database. Stable within
// a session; may be reused across sessions.
type InternalId uint32

// ConnectionId identifies a connection across federated databases.
type ConnectionId struct {
	Database DatabaseId
	Internal InternalId
}

func (c ConnectionId) String() string {
	return fmt.Sprintf("%d:%d", c.Database, c.Internal)
}

// TripId identifies an ordered chain of connections served by one vehicle
// run.
type TripId struct {
	Database DatabaseId
	Internal uint32
}

// StopId splits into a tile and a local id so spatial clustering is
// possible upstream; the core treats both as opaque.
type StopId struct {
	Database DatabaseId
	Tile     uint32
	Local    uint32
}

func (s StopId) String() string {
	return fmt.Sprintf("%d:%d.%d", s.Database, s.Tile, s.Local)
}

// invalidTile marks an unwritten packed-storage slot (§4.1's sentinel).
const invalidTile uint32 = 0xFFFFFFFF

// GlobalId is the opaque upstream feed identifier.
type GlobalId string

// Mode packs boarding policy in its low two bits and a cancellation flag
// in bit 2. Any other bits are reserved.
type Mode uint16

const (
	ModeBoardAndAlight Mode = 0b00
	ModeBoardOnly      Mode = 0b01
	ModeAlightOnly     Mode = 0b10
	ModeNeither        Mode = 0b11

	modeBoardMask Mode = 0b011
	ModeCancelled Mode = 1 << 2
)

// BoardingPolicy returns the low two bits of Mode.
func (m Mode) BoardingPolicy() Mode { return m & modeBoardMask }

// CanBoard reports whether a rider may board at the departure stop.
func (m Mode) CanBoard() bool {
	p := m.BoardingPolicy()
	return p == ModeBoardAndAlight || p == ModeBoardOnly
}

// CanAlight reports whether a rider may alight at the arrival stop.
func (m Mode) CanAlight() bool {
	p := m.BoardingPolicy()
	return p == ModeBoardAndAlight || p == ModeAlightOnly
}

// Cancelled reports the cancellation flag.
func (m Mode) Cancelled() bool { return m&ModeCancelled != 0 }

// Connection is the logical, unpacked record. ArrivalTime is always
// derived from DepartureTime+TravelTime, never stored.
type Connection struct {
	DepartureStop StopId
	ArrivalStop   StopId
	DepartureTime uint32 // seconds since epoch
	TravelTime    uint16 // seconds
	DepartureDelay uint16
	ArrivalDelay   uint16
	Mode           Mode

	GlobalId GlobalId
	Trip     TripId
}

// ArrivalTime derives the arrival instant; it is never itself stored.
func (c Connection) ArrivalTime() uint32 {
	return c.DepartureTime + uint32(c.TravelTime)
}

// Record is the subset of Connection that lives in packed storage (28
// bytes); GlobalId and Trip live in the parallel arrays described in
// §4.4.
type Record struct {
	DepartureStop  StopId
	ArrivalStop    StopId
	DepartureTime  uint32
	TravelTime     uint16
	DepartureDelay uint16
	ArrivalDelay   uint16
	Mode           Mode
}

func (r Record) valid() bool { return r.DepartureStop.Tile != invalidTile }

func (c Connection) record() Record {
	return Record{
		DepartureStop:  c.DepartureStop,
		ArrivalStop:    c.ArrivalStop,
		DepartureTime:  c.DepartureTime,
		TravelTime:     c.TravelTime,
		DepartureDelay: c.DepartureDelay,
		ArrivalDelay:   c.ArrivalDelay,
		Mode:           c.Mode,
	}
}

func (r Record) ArrivalTime() uint32 {
	return r.DepartureTime + uint32(r.TravelTime)
}
