package connstore

// Input is what callers hand to AddOrUpdate: the wire fields of a
// connection plus its upstream identifiers (§4.4).
type Input struct {
	GlobalId       GlobalId
	DepartureStop  StopId
	ArrivalStop    StopId
	DepartureTime  uint32
	TravelTime     uint16
	DepartureDelay uint16
	ArrivalDelay   uint16
	Mode           Mode
	Trip           uint32
}

// ConnectionsDb is the façade from §4.4: packed storage + globalId index +
// windowed departure index, with EarliestDate/LatestDate bookkeeping.
//
// Concurrency (§5): a ConnectionsDb is mutable by exactly one writer.
// Concurrent readers must first take a Clone() snapshot; mutating the
// live instance while an Enumerator holds a cursor into it is undefined.
type ConnectionsDb struct {
	Database DatabaseId

	packed  *packedStore
	globals *globalIndex
	window  *windowedIndex
	trips   []TripId

	nextInternal InternalId
	earliest     uint32
	latest       uint32
	hasAny       bool
}

// New creates an empty ConnectionsDb with the given windowing parameters.
// Pass 0 for windowSeconds/windowCount to use the §3 defaults.
func New(db DatabaseId, windowSeconds, windowCount uint32) *ConnectionsDb {
	if windowSeconds == 0 {
		windowSeconds = DefaultWindowSeconds
	}
	if windowCount == 0 {
		windowCount = DefaultWindowCount
	}
	c := &ConnectionsDb{
		Database: db,
		packed:   newPackedStore(),
		globals:  newGlobalIndex(),
	}
	c.window = newWindowedIndex(windowSeconds, windowCount, c.departureOf)
	return c
}

func (c *ConnectionsDb) departureOf(id InternalId) uint32 {
	r, ok := c.packed.Get(int(id))
	if !ok {
		return 0
	}
	return r.DepartureTime
}

// AddOrUpdate implements §4.4: resolve-or-assign the internalId by
// globalId, write the packed record, adjust the departure index only if
// the departure second changed, and overwrite the trip slot if the trip
// id differs. It is idempotent: calling it twice with identical fields
// returns the same internalId and leaves every index structure
// unchanged.
func (c *ConnectionsDb) AddOrUpdate(in Input) InternalId {
	id, existed := c.globals.Lookup(in.GlobalId)
	var oldRecord Record
	var hadOldRecord bool
	if existed {
		oldRecord, hadOldRecord = c.packed.Get(int(id))
	} else {
		id = c.nextInternal
		c.nextInternal++
		c.globals.Insert(in.GlobalId, id)
		c.trips = append(c.trips, TripId{})
	}

	newRecord := Record{
		DepartureStop:  StopId{Tile: in.DepartureStop.Tile, Local: in.DepartureStop.Local},
		ArrivalStop:    StopId{Tile: in.ArrivalStop.Tile, Local: in.ArrivalStop.Local},
		DepartureTime:  in.DepartureTime,
		TravelTime:     in.TravelTime,
		DepartureDelay: in.DepartureDelay,
		ArrivalDelay:   in.ArrivalDelay,
		Mode:           in.Mode,
	}

	departureChanged := !hadOldRecord || oldRecord.DepartureTime != newRecord.DepartureTime
	fieldsUnchanged := hadOldRecord && oldRecord == newRecord

	c.packed.Put(int(id), newRecord)
	c.touchDates(in.DepartureTime)

	if departureChanged {
		if hadOldRecord {
			oldWindow := c.window.windowOf(oldRecord.DepartureTime)
			c.window.remove(id, oldWindow)
		}
		c.window.add(id, in.DepartureTime)
	} else if !fieldsUnchanged {
		// Same departure second, other fields changed: the window still
		// needs a re-sort only if departure ordering could have shifted,
		// which it can't when the second is identical, but §4.3 calls
		// for a resort on every update whose window didn't change.
		c.window.sort(c.window.windowOf(newRecord.DepartureTime))
	}

	newTrip := TripId{Database: c.Database, Internal: in.Trip}
	if c.trips[id] != newTrip {
		c.trips[id] = newTrip
	}

	return id
}

func (c *ConnectionsDb) touchDates(depTime uint32) {
	if !c.hasAny {
		c.earliest = depTime
		c.latest = depTime
		c.hasAny = true
		return
	}
	if depTime < c.earliest {
		c.earliest = depTime
	}
	if depTime > c.latest {
		c.latest = depTime
	}
}

// Get fills out with the connection stored under id, adding the globalId
// and tripId from the side arrays. ok is false for an unwritten slot
// (ErrBadRecord territory for callers that want to distinguish it).
func (c *ConnectionsDb) Get(id InternalId) (Connection, bool) {
	r, ok := c.packed.Get(int(id))
	if !ok {
		return Connection{}, false
	}
	conn := Connection{
		DepartureStop:  StopId{Database: c.Database, Tile: r.DepartureStop.Tile, Local: r.DepartureStop.Local},
		ArrivalStop:    StopId{Database: c.Database, Tile: r.ArrivalStop.Tile, Local: r.ArrivalStop.Local},
		DepartureTime:  r.DepartureTime,
		TravelTime:     r.TravelTime,
		DepartureDelay: r.DepartureDelay,
		ArrivalDelay:   r.ArrivalDelay,
		Mode:           r.Mode,
		GlobalId:       c.globals.GlobalIdOf(id),
	}
	if int(id) < len(c.trips) {
		conn.Trip = c.trips[id]
	}
	return conn, true
}

// EarliestDate and LatestDate bound every stored departure time (§3's
// invariant).
func (c *ConnectionsDb) EarliestDate() uint32 { return c.earliest }
func (c *ConnectionsDb) LatestDate() uint32   { return c.latest }

// Len returns the number of internalIds ever assigned (including any
// that were later updated, never any that were "deleted" -- connections
// are never deleted).
func (c *ConnectionsDb) Len() int { return int(c.nextInternal) }

// Clone returns a deep in-memory copy suitable for concurrent read-only
// use while this instance continues to be written (§5).
func (c *ConnectionsDb) Clone() *ConnectionsDb {
	clone := &ConnectionsDb{
		Database:     c.Database,
		nextInternal: c.nextInternal,
		earliest:     c.earliest,
		latest:       c.latest,
		hasAny:       c.hasAny,
	}
	clone.packed = packedStoreFromBytes(c.packed.bytes())

	clone.globals = newGlobalIndex()
	clone.globals.heads = c.globals.heads
	clone.globals.pool = append([]globalIndexEntry(nil), c.globals.pool...)
	clone.globals.globals = append([]GlobalId(nil), c.globals.globals...)

	clone.trips = append([]TripId(nil), c.trips...)

	clone.window = newWindowedIndex(c.window.windowSeconds, c.window.windowCount, clone.departureOf)
	clone.window.windows = append([]windowMeta(nil), c.window.windows...)
	clone.window.body = append([]InternalId(nil), c.window.body...)

	return clone
}

// NewEnumerator returns a fresh departure enumerator coupled to this
// ConnectionsDb. The enumerator is single-threaded and single-cursor;
// it must not be shared across goroutines and the database must not be
// mutated while the cursor is in use (§5).
func (c *ConnectionsDb) NewEnumerator() *Enumerator {
	return newEnumerator(c)
}
