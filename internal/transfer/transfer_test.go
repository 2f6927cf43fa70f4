package transfer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/connstore"
)

func TestStaticGeneratorLookup(t *testing.T) {
	a := connstore.StopId{Tile: 1, Local: 1}
	b := connstore.StopId{Tile: 1, Local: 2}

	g := NewStaticGenerator("static", map[connstore.StopId]map[connstore.StopId]uint32{
		a: {b: 120},
	}, 500)

	require.Equal(t, uint32(120), g.TimeBetween(a, b))
	require.Equal(t, Unreachable, g.TimeBetween(b, a))
	require.Equal(t, "static", g.Identifier())
}

func TestHaversineGeneratorRespectsRange(t *testing.T) {
	a := connstore.StopId{Tile: 1, Local: 1}
	b := connstore.StopId{Tile: 1, Local: 2}
	c := connstore.StopId{Tile: 1, Local: 3}

	g := NewHaversineGenerator("walk", map[connstore.StopId]Coordinates{
		a: {Lat: 33.5892, Lon: -7.6036}, // Casablanca
		b: {Lat: 33.5950, Lon: -7.6187}, // ~1.6km away
		c: {Lat: 34.0209, Lon: -6.8416}, // Rabat, far away
	}, 1.4, 2000)

	tb := g.TimeBetween(a, b)
	require.NotEqual(t, Unreachable, tb)
	require.Greater(t, tb, uint32(0))

	require.Equal(t, Unreachable, g.TimeBetween(a, c))
}

func TestHaversineGeneratorUnknownStopIsUnreachable(t *testing.T) {
	g := NewHaversineGenerator("walk", map[connstore.StopId]Coordinates{}, 1.4, 1000)
	a := connstore.StopId{Tile: 1, Local: 1}
	b := connstore.StopId{Tile: 1, Local: 2}
	require.Equal(t, Unreachable, g.TimeBetween(a, b))
}

func TestCompositeGeneratorDispatchesByStopMembership(t *testing.T) {
	a := connstore.StopId{Tile: 1, Local: 1} // first-mile
	b := connstore.StopId{Tile: 1, Local: 2} // last-mile
	c := connstore.StopId{Tile: 1, Local: 3} // middle
	dest := connstore.StopId{Tile: 1, Local: 9}

	firstMile := NewStaticGenerator("first", map[connstore.StopId]map[connstore.StopId]uint32{
		a: {dest: 10},
	}, 1000)
	lastMile := NewStaticGenerator("last", map[connstore.StopId]map[connstore.StopId]uint32{
		b: {dest: 20},
	}, 1000)
	middle := NewStaticGenerator("middle", map[connstore.StopId]map[connstore.StopId]uint32{
		c: {dest: 30},
	}, 1000)

	composite := NewCompositeGenerator("composite",
		map[connstore.StopId]bool{a: true},
		map[connstore.StopId]bool{b: true},
		firstMile, lastMile, middle)

	require.Equal(t, uint32(10), composite.TimeBetween(a, dest))
	require.Equal(t, uint32(20), composite.TimeBetween(b, dest))
	require.Equal(t, uint32(30), composite.TimeBetween(c, dest))
}
