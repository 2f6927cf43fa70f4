package connstore

// noIndex marks "binary search not yet performed this anchor" for
// indexInWindow (rightBound also returns it when no entry qualifies). It
// is -2, not -1: MovePrevious steps indexInWindow down to -1 after
// consuming a window's first entry, and that value must read as "window
// exhausted", not trigger a fresh search.
const noIndex = -2

// Enumerator is the stateful departure cursor from §4.5: a single-
// threaded, single-cursor walk over a ConnectionsDb's windowed index,
// advancing in strictly monotone departure-time order. It is the clock
// PCS and the metric guesser consume.
//
// alreadyUsed[w] remembers how far window w has been consumed so far,
// because a single window holds departures from many modular cycles
// and the cursor revisits the same window once per cycle.
type Enumerator struct {
	db            *ConnectionsDb
	currentTime   uint32
	indexInWindow int
	alreadyUsed   []int
	valid         bool
	currentId     InternalId
}

func newEnumerator(db *ConnectionsDb) *Enumerator {
	e := &Enumerator{
		db:          db,
		alreadyUsed: make([]int, db.window.windowCount),
	}
	e.resetUsed()
	e.indexInWindow = noIndex
	return e
}

func (e *Enumerator) resetUsed() {
	for i := range e.alreadyUsed {
		e.alreadyUsed[i] = noIndex
	}
}

// MoveTo resets the cursor and anchors currentTime = t. Neither
// MoveNext nor MovePrevious has been called yet after this; the first
// call performs the initial binary search.
func (e *Enumerator) MoveTo(t uint32) {
	e.currentTime = t
	e.indexInWindow = noIndex
	e.resetUsed()
	e.valid = false
}

// Current returns the internalId the cursor currently sits on, and
// whether the cursor is positioned on a real connection (false before
// the first successful Move* call, or after one returns false).
func (e *Enumerator) Current() (InternalId, bool) { return e.currentId, e.valid }

// CurrentTime returns the cursor's anchor time, which equals the last
// matched connection's departure time once the cursor is valid.
func (e *Enumerator) CurrentTime() uint32 { return e.currentTime }

func (e *Enumerator) nextWindowStart(t uint32) uint32 {
	ws := e.db.window.windowSeconds
	return (t/ws + 1) * ws
}

// prevWindowEnd returns the last second of the window strictly before
// t's window. ok is false when that would underflow past second 0.
func (e *Enumerator) prevWindowEnd(t uint32) (uint32, bool) {
	ws := e.db.window.windowSeconds
	if t < ws {
		return 0, false
	}
	return (t/ws)*ws - 1, true
}

// MoveNext advances to the connection with the smallest departure time
// that is >= currentTime, in modular order (§4.5). It returns false once
// currentTime has passed LatestDate.
func (e *Enumerator) MoveNext() bool {
	for {
		if e.currentTime > e.db.LatestDate() {
			e.valid = false
			return false
		}

		w := e.db.window.windowOf(e.currentTime)
		meta := e.db.window.meta(w)
		if meta.size == 0 {
			e.currentTime = e.nextWindowStart(e.currentTime)
			nw := e.db.window.windowOf(e.currentTime)
			e.indexInWindow = e.alreadyUsed[nw]
			continue
		}

		entries := e.db.window.entries(w)
		if e.indexInWindow == noIndex {
			e.indexInWindow = lowerBound(entries, e.currentTime, e.db.departureOf)
			e.alreadyUsed[w] = e.indexInWindow
		}

		jumped := false
		for e.indexInWindow < len(entries) {
			id := entries[e.indexInWindow]
			depTime := e.db.departureOf(id)
			e.indexInWindow++
			if depTime < e.currentTime {
				continue
			}
			e.alreadyUsed[w] = e.indexInWindow

			if depTime-e.currentTime > e.db.window.windowSeconds {
				// The match actually belongs to a later window; this
				// window's remaining entries are all from a future
				// cycle. Back off the one we consumed and jump ahead.
				e.indexInWindow--
				e.alreadyUsed[w] = e.indexInWindow
				e.currentTime = e.nextWindowStart(e.currentTime)
				nw := e.db.window.windowOf(e.currentTime)
				e.indexInWindow = e.alreadyUsed[nw]
				jumped = true
				break
			}

			e.currentTime = depTime
			e.currentId = id
			e.valid = true
			return true
		}
		if jumped {
			continue
		}

		e.alreadyUsed[w] = len(entries)
		e.currentTime = e.nextWindowStart(e.currentTime)
		nw := e.db.window.windowOf(e.currentTime)
		e.indexInWindow = e.alreadyUsed[nw]
	}
}

// MovePrevious is the symmetric dual of MoveNext: it advances to the
// connection with the largest departure time that is <= currentTime,
// guarding against underflow past second 0.
func (e *Enumerator) MovePrevious() bool {
	for {
		if e.currentTime < e.db.EarliestDate() {
			e.valid = false
			return false
		}

		w := e.db.window.windowOf(e.currentTime)
		meta := e.db.window.meta(w)
		if meta.size == 0 {
			nt, ok := e.prevWindowEnd(e.currentTime)
			if !ok {
				e.valid = false
				return false
			}
			e.currentTime = nt
			nw := e.db.window.windowOf(e.currentTime)
			e.indexInWindow = e.alreadyUsed[nw]
			continue
		}

		entries := e.db.window.entries(w)
		if e.indexInWindow == noIndex {
			e.indexInWindow = rightBound(entries, e.currentTime, e.db.departureOf)
			e.alreadyUsed[w] = e.indexInWindow
		}

		jumped := false
		for e.indexInWindow >= 0 {
			id := entries[e.indexInWindow]
			depTime := e.db.departureOf(id)
			e.indexInWindow--
			if depTime > e.currentTime {
				continue
			}
			e.alreadyUsed[w] = e.indexInWindow

			if e.currentTime-depTime > e.db.window.windowSeconds {
				e.indexInWindow++
				e.alreadyUsed[w] = e.indexInWindow
				nt, ok := e.prevWindowEnd(e.currentTime)
				if !ok {
					e.valid = false
					return false
				}
				e.currentTime = nt
				nw := e.db.window.windowOf(e.currentTime)
				e.indexInWindow = e.alreadyUsed[nw]
				jumped = true
				break
			}

			e.currentTime = depTime
			e.currentId = id
			e.valid = true
			return true
		}
		if jumped {
			continue
		}

		e.alreadyUsed[w] = noIndex
		nt, ok := e.prevWindowEnd(e.currentTime)
		if !ok {
			e.valid = false
			return false
		}
		e.currentTime = nt
		nw := e.db.window.windowOf(e.currentTime)
		e.indexInWindow = e.alreadyUsed[nw]
	}
}

// lowerBound returns the leftmost index in the ascending-by-departure
// entries whose departure time is >= target (len(entries) if none).
func lowerBound(entries []InternalId, target uint32, dep departureGetter) int {
	lo, hi := 0, len(entries)
	for lo < hi {
		mid := (lo + hi) / 2
		if dep(entries[mid]) < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// rightBound returns the rightmost index in the ascending-by-departure
// entries whose departure time is <= target (noIndex if none).
func rightBound(entries []InternalId, target uint32, dep departureGetter) int {
	if len(entries) == 0 || dep(entries[0]) > target {
		return noIndex
	}
	lo, hi := 0, len(entries)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if dep(entries[mid]) <= target {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
