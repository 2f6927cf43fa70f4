package connstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnumeratorForwardVisitsEveryInsertInOrder(t *testing.T) {
	db := New(1, 0, 0)
	times := []uint32{500, 100, 900, 300, 700}
	for i, tm := range times {
		db.AddOrUpdate(sampleInput(GlobalId(string(rune('a'+i))), tm))
	}

	e := db.NewEnumerator()
	e.MoveTo(db.EarliestDate())

	var seen []uint32
	for e.MoveNext() {
		seen = append(seen, e.CurrentTime())
	}

	require.Equal(t, []uint32{100, 300, 500, 700, 900}, seen)
}

func TestEnumeratorBackwardVisitsEveryInsertInOrder(t *testing.T) {
	db := New(1, 0, 0)
	times := []uint32{500, 100, 900, 300, 700}
	for i, tm := range times {
		db.AddOrUpdate(sampleInput(GlobalId(string(rune('a'+i))), tm))
	}

	e := db.NewEnumerator()
	e.MoveTo(db.LatestDate())

	var seen []uint32
	for e.MovePrevious() {
		seen = append(seen, e.CurrentTime())
	}

	require.Equal(t, []uint32{900, 700, 500, 300, 100}, seen)
}

func TestEnumeratorForwardStopsPastLatestDate(t *testing.T) {
	db := New(1, 0, 0)
	db.AddOrUpdate(sampleInput("only", 1000))

	e := db.NewEnumerator()
	e.MoveTo(1000)
	require.True(t, e.MoveNext())
	require.False(t, e.MoveNext())
}

func TestEnumeratorBackwardStopsBeforeEarliestDate(t *testing.T) {
	db := New(1, 0, 0)
	db.AddOrUpdate(sampleInput("only", 1000))

	e := db.NewEnumerator()
	e.MoveTo(1000)
	require.True(t, e.MovePrevious())
	require.False(t, e.MovePrevious())
}

func TestEnumeratorCycleSpanningSameWindowResidue(t *testing.T) {
	db := New(1, DefaultWindowSeconds, DefaultWindowCount)
	cycle := uint32(DefaultWindowSeconds) * uint32(DefaultWindowCount)

	t1 := uint32(6005)
	t2 := t1 + cycle // exactly one full modular cycle later: same window bucket
	db.AddOrUpdate(sampleInput("early", t1))
	db.AddOrUpdate(sampleInput("late", t2))
	require.Equal(t, db.window.windowOf(t1), db.window.windowOf(t2))

	fwd := db.NewEnumerator()
	fwd.MoveTo(0)
	var seen []uint32
	for fwd.MoveNext() {
		seen = append(seen, fwd.CurrentTime())
	}
	require.Equal(t, []uint32{t1, t2}, seen)

	back := db.NewEnumerator()
	back.MoveTo(db.LatestDate())
	seen = nil
	for back.MovePrevious() {
		seen = append(seen, back.CurrentTime())
	}
	require.Equal(t, []uint32{t2, t1}, seen)
}

func TestEnumeratorMoveToResetsCursor(t *testing.T) {
	db := New(1, 0, 0)
	db.AddOrUpdate(sampleInput("a", 100))
	db.AddOrUpdate(sampleInput("b", 200))

	e := db.NewEnumerator()
	e.MoveTo(0)
	require.True(t, e.MoveNext())
	require.Equal(t, uint32(100), e.CurrentTime())

	e.MoveTo(0)
	require.True(t, e.MoveNext())
	require.Equal(t, uint32(100), e.CurrentTime(), "MoveTo must restart the scan from the beginning")
}
