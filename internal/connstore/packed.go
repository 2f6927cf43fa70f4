package connstore

import "encoding/binary"

// recordSize is the fixed packed layout from spec §4.1: departureStop(8),
// arrivalStop(8), departureTime(4), travelTime(2), departureDelay(2),
// arrivalDelay(2), mode(2) = 28 bytes.
const recordSize = 28

// chunkBytes is the growth quantum: once the buffer is at least this
// long, ensure grows it by chunkBytes/recordSize records at a time
// instead of doubling. The first allocation (64 records) is already
// past that size, so every later growth is a chunk append.
const chunkBytes = 1024

// packedStore is the fixed-width record store from §4.1. It does not
// interpret the bytes it holds; callers encode/decode Records.
type packedStore struct {
	buf      []byte
	capacity int // in records
}

func newPackedStore() *packedStore {
	return &packedStore{}
}

func (s *packedStore) ensure(i int) {
	if i < s.capacity {
		return
	}
	newCap := s.capacity
	if newCap == 0 {
		newCap = 64
	}
	for newCap <= i {
		if newCap*recordSize >= chunkBytes {
			newCap += chunkBytes / recordSize
		} else {
			newCap *= 2
		}
	}
	grown := make([]byte, newCap*recordSize)
	for j := range grown {
		grown[j] = 0xFF
	}
	copy(grown, s.buf)
	s.buf = grown
	s.capacity = newCap
}

// Put writes r at index i, growing the store if necessary.
func (s *packedStore) Put(i int, r Record) {
	s.ensure(i)
	off := i * recordSize
	b := s.buf[off : off+recordSize]

	binary.LittleEndian.PutUint32(b[0:4], r.DepartureStop.Tile)
	binary.LittleEndian.PutUint32(b[4:8], r.DepartureStop.Local)
	binary.LittleEndian.PutUint32(b[8:12], r.ArrivalStop.Tile)
	binary.LittleEndian.PutUint32(b[12:16], r.ArrivalStop.Local)
	binary.LittleEndian.PutUint32(b[16:20], r.DepartureTime)
	binary.LittleEndian.PutUint16(b[20:22], r.TravelTime)
	binary.LittleEndian.PutUint16(b[22:24], r.DepartureDelay)
	binary.LittleEndian.PutUint16(b[24:26], r.ArrivalDelay)
	binary.LittleEndian.PutUint16(b[26:28], uint16(r.Mode))
}

// Get reads the record at index i. ok is false (and ErrBadRecord should be
// reported by the caller) when the slot was never written or is out of
// range.
func (s *packedStore) Get(i int) (Record, bool) {
	if i < 0 || i >= s.capacity {
		return Record{}, false
	}
	off := i * recordSize
	b := s.buf[off : off+recordSize]

	r := Record{
		DepartureStop: StopId{
			Tile:  binary.LittleEndian.Uint32(b[0:4]),
			Local: binary.LittleEndian.Uint32(b[4:8]),
		},
		ArrivalStop: StopId{
			Tile:  binary.LittleEndian.Uint32(b[8:12]),
			Local: binary.LittleEndian.Uint32(b[12:16]),
		},
		DepartureTime:  binary.LittleEndian.Uint32(b[16:20]),
		TravelTime:     binary.LittleEndian.Uint16(b[20:22]),
		DepartureDelay: binary.LittleEndian.Uint16(b[22:24]),
		ArrivalDelay:   binary.LittleEndian.Uint16(b[24:26]),
		Mode:           Mode(binary.LittleEndian.Uint16(b[26:28])),
	}
	if !r.valid() {
		return Record{}, false
	}
	return r, true
}

// Len reports the current capacity in records (including never-written
// slots); it is not the count of live records.
func (s *packedStore) Len() int { return s.capacity }

// bytes exposes the raw backing buffer for serialization.
func (s *packedStore) bytes() []byte { return s.buf }

func packedStoreFromBytes(b []byte) *packedStore {
	cap := len(b) / recordSize
	buf := make([]byte, cap*recordSize)
	copy(buf, b)
	return &packedStore{buf: buf, capacity: cap}
}
