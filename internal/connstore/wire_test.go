package connstore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWireRoundTripPreservesConnections(t *testing.T) {
	db := New(7, 0, 0)
	db.AddOrUpdate(sampleInput("a", 1000))
	db.AddOrUpdate(sampleInput("b", 2000))
	db.AddOrUpdate(sampleInput("c", 3000))

	var buf bytes.Buffer
	require.NoError(t, db.Encode(&buf))

	loaded, err := Decode(&buf, 99)
	require.NoError(t, err)

	require.Equal(t, db.Len(), loaded.Len())
	require.Equal(t, db.EarliestDate(), loaded.EarliestDate())
	require.Equal(t, db.LatestDate(), loaded.LatestDate())

	for i := 0; i < db.Len(); i++ {
		want, ok := db.Get(InternalId(i))
		require.True(t, ok)
		got, ok := loaded.Get(InternalId(i))
		require.True(t, ok)

		require.Equal(t, want.GlobalId, got.GlobalId)
		require.Equal(t, want.DepartureTime, got.DepartureTime)
		require.Equal(t, want.Trip.Internal, got.Trip.Internal)
		require.Equal(t, DatabaseId(99), got.DepartureStop.Database, "DatabaseId is assigned per load, not serialized")
	}
}

func TestWireRoundTripPreservesEnumeration(t *testing.T) {
	db := New(7, 0, 0)
	for i, tm := range []uint32{500, 100, 900, 300} {
		db.AddOrUpdate(sampleInput(GlobalId(string(rune('a'+i))), tm))
	}

	var buf bytes.Buffer
	require.NoError(t, db.Encode(&buf))
	loaded, err := Decode(&buf, 1)
	require.NoError(t, err)

	e := loaded.NewEnumerator()
	e.MoveTo(loaded.EarliestDate())
	var seen []uint32
	for e.MoveNext() {
		seen = append(seen, e.CurrentTime())
	}
	require.Equal(t, []uint32{100, 300, 500, 900}, seen)
}

func TestDecodeRejectsIncompatibleVersion(t *testing.T) {
	db := New(1, 0, 0)
	db.AddOrUpdate(sampleInput("a", 1000))

	var buf bytes.Buffer
	require.NoError(t, db.Encode(&buf))

	raw := buf.Bytes()
	raw[0] = wireVersion + 1

	_, err := Decode(bytes.NewReader(raw), 1)
	require.ErrorIs(t, err, ErrIncompatibleVersion)
}
