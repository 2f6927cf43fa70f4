package connstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// wireVersion is the only version this package writes or accepts (§6).
const wireVersion byte = 2

// errWriter accumulates writes and sticks on the first error, so Encode
// can read as a flat sequence of field writes instead of a chain of "if
// err != nil { return err }".
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *errWriter) byteVal(v byte) { e.write([]byte{v}) }

func (e *errWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.write(b[:])
}

func (e *errWriter) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.write(b[:])
}

// sizedBlob writes a u64 length prefix followed by data, per §6.
func (e *errWriter) sizedBlob(data []byte) {
	e.u64(uint64(len(data)))
	e.write(data)
}

// Encode writes the ConnectionsDb in the §6 wire format. DatabaseId is
// never written; it is assigned by the caller of Decode.
func (c *ConnectionsDb) Encode(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.byteVal(wireVersion)
	ew.sizedBlob(c.packed.bytes())
	ew.sizedBlob(encodeGlobalIds(c.globals.globals))
	ew.sizedBlob(encodeTripIds(c.trips))
	ew.sizedBlob(encodeBucketHeads(c.globals.heads[:]))
	ew.sizedBlob(encodeIndexPool(c.globals.pool))
	ew.u32(uint32(len(c.globals.pool)))
	ew.sizedBlob(encodeWindowMeta(c.window.windows))
	ew.sizedBlob(encodeBody(c.window.body))
	ew.u32(uint32(len(c.window.body)))
	ew.u32(c.window.windowSeconds)
	ew.u32(c.window.windowCount)
	ew.u32(uint32(c.nextInternal))
	ew.u64(uint64(c.earliest))
	ew.u64(uint64(c.latest))

	return ew.err
}

func encodeGlobalIds(ids []GlobalId) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(ids)))
	for _, g := range ids {
		binary.Write(&buf, binary.LittleEndian, uint32(len(g)))
		buf.WriteString(string(g))
	}
	return buf.Bytes()
}

func encodeTripIds(trips []TripId) []byte {
	var buf bytes.Buffer
	for _, t := range trips {
		binary.Write(&buf, binary.LittleEndian, t.Internal)
	}
	return buf.Bytes()
}

func encodeBucketHeads(heads []uint32) []byte {
	var buf bytes.Buffer
	for _, h := range heads {
		binary.Write(&buf, binary.LittleEndian, h)
	}
	return buf.Bytes()
}

func encodeIndexPool(pool []globalIndexEntry) []byte {
	var buf bytes.Buffer
	for _, e := range pool {
		binary.Write(&buf, binary.LittleEndian, uint32(e.internal))
		binary.Write(&buf, binary.LittleEndian, e.next)
	}
	return buf.Bytes()
}

func encodeWindowMeta(windows []windowMeta) []byte {
	var buf bytes.Buffer
	for _, m := range windows {
		binary.Write(&buf, binary.LittleEndian, uint32(m.pointer))
		binary.Write(&buf, binary.LittleEndian, uint32(m.size))
	}
	return buf.Bytes()
}

func encodeBody(body []InternalId) []byte {
	var buf bytes.Buffer
	for _, id := range body {
		binary.Write(&buf, binary.LittleEndian, uint32(id))
	}
	return buf.Bytes()
}

// errReader is the read-side dual of errWriter.
type errReader struct {
	r   io.Reader
	err error
}

func (e *errReader) read(n int) []byte {
	if e.err != nil {
		return nil
	}
	b := make([]byte, n)
	_, e.err = io.ReadFull(e.r, b)
	return b
}

func (e *errReader) byteVal() byte {
	b := e.read(1)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

func (e *errReader) u32() uint32 {
	b := e.read(4)
	if e.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (e *errReader) u64() uint64 {
	b := e.read(8)
	if e.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (e *errReader) sizedBlob() []byte {
	n := e.u64()
	if e.err != nil {
		return nil
	}
	return e.read(int(n))
}

// Decode reads a ConnectionsDb written by Encode and assigns it the
// given DatabaseId (never itself serialized). It returns
// ErrIncompatibleVersion if the version byte does not match.
func Decode(r io.Reader, db DatabaseId) (*ConnectionsDb, error) {
	er := &errReader{r: r}

	version := er.byteVal()
	if er.err == nil && version != wireVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrIncompatibleVersion, version, wireVersion)
	}

	data := er.sizedBlob()
	globalsRaw := er.sizedBlob()
	tripsRaw := er.sizedBlob()
	headsRaw := er.sizedBlob()
	poolRaw := er.sizedBlob()
	_ = er.u32() // globalIdLinkedListPointer: redundant with len(pool), kept for format symmetry
	metaRaw := er.sizedBlob()
	bodyRaw := er.sizedBlob()
	_ = er.u32() // nextDeparturePointer: redundant with len(body)
	windowSeconds := er.u32()
	windowCount := er.u32()
	nextInternal := er.u32()
	earliest := er.u64()
	latest := er.u64()

	if er.err != nil {
		return nil, fmt.Errorf("connstore: decode: %w", er.err)
	}

	c := New(db, windowSeconds, windowCount)
	c.packed = packedStoreFromBytes(data)
	c.nextInternal = InternalId(nextInternal)
	c.earliest = uint32(earliest)
	c.latest = uint32(latest)
	c.hasAny = c.nextInternal > 0

	c.globals.globals = decodeGlobalIds(globalsRaw)
	c.trips = decodeTripIds(tripsRaw, db)
	decodeBucketHeads(headsRaw, c.globals.heads[:])
	c.globals.pool = decodeIndexPool(poolRaw)
	c.window.windows = decodeWindowMeta(metaRaw, windowCount)
	c.window.body = decodeBody(bodyRaw)

	return c, nil
}

func decodeGlobalIds(raw []byte) []GlobalId {
	r := bytes.NewReader(raw)
	var count uint32
	binary.Read(r, binary.LittleEndian, &count)
	ids := make([]GlobalId, count)
	for i := range ids {
		var l uint32
		binary.Read(r, binary.LittleEndian, &l)
		buf := make([]byte, l)
		io.ReadFull(r, buf)
		ids[i] = GlobalId(buf)
	}
	return ids
}

func decodeTripIds(raw []byte, db DatabaseId) []TripId {
	r := bytes.NewReader(raw)
	trips := make([]TripId, len(raw)/4)
	for i := range trips {
		var v uint32
		binary.Read(r, binary.LittleEndian, &v)
		trips[i] = TripId{Database: db, Internal: v}
	}
	return trips
}

func decodeBucketHeads(raw []byte, heads []uint32) {
	r := bytes.NewReader(raw)
	for i := range heads {
		binary.Read(r, binary.LittleEndian, &heads[i])
	}
}

func decodeIndexPool(raw []byte) []globalIndexEntry {
	r := bytes.NewReader(raw)
	pool := make([]globalIndexEntry, len(raw)/8)
	for i := range pool {
		var internal, next uint32
		binary.Read(r, binary.LittleEndian, &internal)
		binary.Read(r, binary.LittleEndian, &next)
		pool[i] = globalIndexEntry{internal: InternalId(internal), next: next}
	}
	return pool
}

func decodeWindowMeta(raw []byte, windowCount uint32) []windowMeta {
	r := bytes.NewReader(raw)
	windows := make([]windowMeta, windowCount)
	for i := range windows {
		var pointer, size uint32
		binary.Read(r, binary.LittleEndian, &pointer)
		binary.Read(r, binary.LittleEndian, &size)
		windows[i] = windowMeta{
			pointer:  int(pointer),
			size:     int(size),
			capacity: nextPowerOfTwo(int(size)),
		}
	}
	return windows
}

func decodeBody(raw []byte) []InternalId {
	r := bytes.NewReader(raw)
	body := make([]InternalId, len(raw)/4)
	for i := range body {
		var v uint32
		binary.Read(r, binary.LittleEndian, &v)
		body[i] = InternalId(v)
	}
	return body
}

// nextPowerOfTwo reconstructs a window's capacity from its size: the
// wire format only stores (pointer, size) pairs. The real region is a
// power of two >= size (remove can leave it larger than needed), so the
// smallest such power is a safe lower bound: add() writes below it or
// doubles first.
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 0
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
