package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/connstore"
)

func stop(local uint32) connstore.StopId {
	return connstore.StopId{Database: 1, Tile: 1, Local: local}
}

func newTestDb(t *testing.T) *connstore.ConnectionsDb {
	t.Helper()
	db := connstore.New(1, 0, 0)
	db.AddOrUpdate(connstore.Input{
		GlobalId:      "c1",
		DepartureStop: stop(0),
		ArrivalStop:   stop(1),
		DepartureTime: 1000,
		TravelTime:    300,
		Trip:          1,
	})
	return db
}

func TestBuildFailsFastWithoutStops(t *testing.T) {
	db := newTestDb(t)
	_, err := New(db).SelectTimeFrame(0, 2000).Build()
	require.ErrorIs(t, err, ErrConfig)
}

func TestBuildFailsFastWithoutWindow(t *testing.T) {
	db := newTestDb(t)
	_, err := New(db).SelectStops(stop(0), stop(1)).Build()
	require.ErrorIs(t, err, connstore.ErrInvalidWindow)
}

func TestBuildFailsFastWithInvertedWindow(t *testing.T) {
	db := newTestDb(t)
	_, err := New(db).SelectStops(stop(0), stop(1)).SelectTimeFrame(2000, 1000).Build()
	require.ErrorIs(t, err, connstore.ErrInvalidWindow)
}

func TestCalculateAllJourneysFindsDirectConnection(t *testing.T) {
	db := newTestDb(t)
	res, err := New(db).
		SelectStops(stop(0), stop(1)).
		SelectTimeFrame(0, 2000).
		CalculateAllJourneys(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	require.Equal(t, uint32(1), res.Entries[0].Metric.Vehicles)
}

func TestCalculateAllJourneysFailsFastOnIncompleteQuery(t *testing.T) {
	db := newTestDb(t)
	_, err := New(db).SelectStops(stop(0), stop(1)).CalculateAllJourneys(context.Background(), nil)
	require.ErrorIs(t, err, ErrConfig)
}

func TestEarliestArrivalFindsDirectConnection(t *testing.T) {
	db := newTestDb(t)
	entry, ok, err := New(db).
		SelectStops(stop(0), stop(1)).
		SelectTimeFrame(0, 2000).
		EarliestArrival(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(1300), entry.Metric.ArrivalTime)
}

func TestLatestDepartureFindsDirectConnection(t *testing.T) {
	db := newTestDb(t)
	entry, ok, err := New(db).
		SelectStops(stop(0), stop(1)).
		SelectTimeFrame(0, 2000).
		LatestDeparture(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(1000), entry.Metric.DepartureTime)
}

func TestEarliestArrivalFailsFastOnIncompleteQuery(t *testing.T) {
	db := newTestDb(t)
	_, _, err := New(db).SelectTimeFrame(0, 2000).EarliestArrival(context.Background())
	require.ErrorIs(t, err, ErrConfig)
}
