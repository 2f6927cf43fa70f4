package connstore

// DefaultWindowSeconds and DefaultWindowCount are spec §3's defaults:
// W=60s windows, N=24*60 of them (one day's worth of one-minute buckets,
// the network repeating on a daily modular cycle).
const (
	DefaultWindowSeconds = 60
	DefaultWindowCount   = 24 * 60
)

// windowMeta is the per-window metadata from §4.3: a pointer into the
// shared body store and the window's current live size. capacity is kept
// alongside size so add() knows how long the region it doubles is; the
// decision to double is taken when size is a power of two. §4.3
// describes the region ("capacity-power-of-two array") without naming a
// third field.
type windowMeta struct {
	pointer  int
	size     int
	capacity int
}

// departureGetter resolves an internalId to its departure time, so the
// windowed index can sort/compare without owning packed storage itself.
type departureGetter func(InternalId) uint32

// windowedIndex is the windowed departure index from §4.3: an array of
// per-window sorted lists of internalIds, backed by a monotonically
// growing body store. Outgrown window bodies are copied to a fresh tail
// region; the old region becomes garbage and is never reclaimed.
type windowedIndex struct {
	windowSeconds uint32
	windowCount   uint32
	windows       []windowMeta
	body          []InternalId
	getDeparture  departureGetter
}

func newWindowedIndex(windowSeconds, windowCount uint32, getDeparture departureGetter) *windowedIndex {
	return &windowedIndex{
		windowSeconds: windowSeconds,
		windowCount:   windowCount,
		windows:       make([]windowMeta, windowCount),
		getDeparture:  getDeparture,
	}
}

func (idx *windowedIndex) windowOf(departureTime uint32) uint32 {
	return (departureTime / idx.windowSeconds) % idx.windowCount
}

func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

// add inserts internalId i (whose departure time is depTime) into its
// window, growing and re-sorting the window body as needed.
func (idx *windowedIndex) add(i InternalId, depTime uint32) {
	w := idx.windowOf(depTime)
	m := idx.windows[w]

	switch {
	case m.size == 0:
		m.pointer = len(idx.body)
		m.capacity = 1
		idx.body = append(idx.body, 0)
	case isPowerOfTwo(m.size):
		newCap := m.capacity * 2
		newPtr := len(idx.body)
		idx.body = append(idx.body, make([]InternalId, newCap)...)
		copy(idx.body[newPtr:newPtr+m.size], idx.body[m.pointer:m.pointer+m.size])
		m.pointer = newPtr
		m.capacity = newCap
	}

	idx.body[m.pointer+m.size] = i
	m.size++
	idx.windows[w] = m

	idx.sort(w)
}

// remove deletes internalId i from window w via a linear scan and
// shift-left, per §4.3.
func (idx *windowedIndex) remove(i InternalId, w uint32) {
	m := idx.windows[w]
	for k := 0; k < m.size; k++ {
		if idx.body[m.pointer+k] == i {
			copy(idx.body[m.pointer+k:m.pointer+m.size-1], idx.body[m.pointer+k+1:m.pointer+m.size])
			m.size--
			idx.windows[w] = m
			return
		}
	}
}

// sort performs the in-place quicksort keyed by departure time described
// in §4.3. It is NOT stable: callers (and tests) must not depend on the
// relative order of entries with equal departure times.
func (idx *windowedIndex) sort(w uint32) {
	m := idx.windows[w]
	idx.quicksort(m.pointer, m.pointer+m.size-1)
}

func (idx *windowedIndex) quicksort(lo, hi int) {
	if lo >= hi {
		return
	}
	pivot := idx.getDeparture(idx.body[(lo+hi)/2])
	i, j := lo, hi
	for i <= j {
		for idx.getDeparture(idx.body[i]) < pivot {
			i++
		}
		for idx.getDeparture(idx.body[j]) > pivot {
			j--
		}
		if i <= j {
			idx.body[i], idx.body[j] = idx.body[j], idx.body[i]
			i++
			j--
		}
	}
	idx.quicksort(lo, j)
	idx.quicksort(i, hi)
}

// entries returns the live internalIds in window w, in their current
// (sorted, non-stable) order.
func (idx *windowedIndex) entries(w uint32) []InternalId {
	m := idx.windows[w]
	return idx.body[m.pointer : m.pointer+m.size]
}

func (idx *windowedIndex) meta(w uint32) windowMeta { return idx.windows[w] }
