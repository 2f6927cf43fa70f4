package connstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleInput(globalId GlobalId, depTime uint32) Input {
	return Input{
		GlobalId:      globalId,
		DepartureStop: StopId{Tile: 1, Local: 1},
		ArrivalStop:   StopId{Tile: 1, Local: 2},
		DepartureTime: depTime,
		TravelTime:    120,
		Mode:          ModeBoardAndAlight,
		Trip:          42,
	}
}

func TestAddOrUpdateAssignsStableInternalIds(t *testing.T) {
	db := New(1, 0, 0)

	id1 := db.AddOrUpdate(sampleInput("a", 1000))
	id2 := db.AddOrUpdate(sampleInput("b", 2000))
	id1Again := db.AddOrUpdate(sampleInput("a", 1000))

	require.Equal(t, id1, id1Again)
	require.NotEqual(t, id1, id2)
	require.Equal(t, 2, db.Len())
}

func TestAddOrUpdateIsIdempotent(t *testing.T) {
	db := New(1, 0, 0)
	in := sampleInput("a", 1000)

	id := db.AddOrUpdate(in)
	w := db.window.windowOf(1000)
	sizeBefore := db.window.meta(w).size

	db.AddOrUpdate(in)
	require.Equal(t, sizeBefore, db.window.meta(w).size, "re-adding identical fields must not duplicate the window entry")

	got, ok := db.Get(id)
	require.True(t, ok)
	require.Equal(t, uint32(1000), got.DepartureTime)
}

func TestAddOrUpdateMovesDepartureIndexOnRescheduling(t *testing.T) {
	db := New(1, 0, 0)
	id := db.AddOrUpdate(sampleInput("a", 1000))

	oldWindow := db.window.windowOf(1000)
	db.AddOrUpdate(sampleInput("a", 5000))
	newWindow := db.window.windowOf(5000)

	require.Equal(t, 0, db.window.meta(oldWindow).size)
	require.Equal(t, 1, db.window.meta(newWindow).size)

	got, ok := db.Get(id)
	require.True(t, ok)
	require.Equal(t, uint32(5000), got.DepartureTime)
}

func TestEarliestAndLatestDateTrackAllInserts(t *testing.T) {
	db := New(1, 0, 0)
	db.AddOrUpdate(sampleInput("a", 5000))
	db.AddOrUpdate(sampleInput("b", 1000))
	db.AddOrUpdate(sampleInput("c", 9000))

	require.Equal(t, uint32(1000), db.EarliestDate())
	require.Equal(t, uint32(9000), db.LatestDate())
}

func TestCloneIsIndependentOfLiveWrites(t *testing.T) {
	db := New(1, 0, 0)
	db.AddOrUpdate(sampleInput("a", 1000))

	snap := db.Clone()
	db.AddOrUpdate(sampleInput("b", 2000))

	require.Equal(t, 1, snap.Len())
	require.Equal(t, 2, db.Len())

	_, ok := snap.globals.Lookup("b")
	require.False(t, ok, "clone must not observe writes made after it was taken")
}

func TestGetReturnsGlobalIdAndTrip(t *testing.T) {
	db := New(1, 0, 0)
	id := db.AddOrUpdate(sampleInput("my-global-id", 1000))

	got, ok := db.Get(id)
	require.True(t, ok)
	require.Equal(t, GlobalId("my-global-id"), got.GlobalId)
	require.Equal(t, uint32(42), got.Trip.Internal)
}
