package frontier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/metric"
)

func e(vehicles, travelTime uint32) Entry {
	return Entry{Metric: metric.Standard{Vehicles: vehicles, TravelTime: travelTime}}
}

func TestTryAddAppendsIncomparableEntries(t *testing.T) {
	f := New(metric.Pareto)

	res, _ := f.TryAdd(e(1, 500))
	require.Equal(t, Added, res)

	res, _ = f.TryAdd(e(2, 100))
	require.Equal(t, Added, res)
	require.Equal(t, 2, f.Len())
}

func TestTryAddRejectsDominatedEntry(t *testing.T) {
	f := New(metric.Pareto)
	f.TryAdd(e(1, 500))

	res, removed := f.TryAdd(e(1, 600))
	require.Equal(t, DominatedByExisting, res)
	require.Nil(t, removed)
	require.Equal(t, 1, f.Len())
}

func TestTryAddEvictsDominatedExisting(t *testing.T) {
	f := New(metric.Pareto)
	f.TryAdd(e(1, 600))

	res, removed := f.TryAdd(e(1, 500))
	require.Equal(t, DominatesExisting, res)
	require.Len(t, removed, 1)
	require.Equal(t, 1, f.Len())
}

func TestTryAddTieBreaksOnEqualByKeepingFirst(t *testing.T) {
	f := New(metric.Pareto)
	first := e(1, 500)
	first.Journey = "first"
	f.TryAdd(first)

	second := e(1, 500)
	second.Journey = "second"
	res, _ := f.TryAdd(second)

	require.Equal(t, DominatedByExisting, res)
	require.Equal(t, "first", f.Entries()[0].Journey)
}

func TestMergeUnionsTwoFrontiers(t *testing.T) {
	a := New(metric.Pareto)
	a.TryAdd(e(1, 500))

	b := New(metric.Pareto)
	b.TryAdd(e(2, 100))
	b.TryAdd(e(1, 600)) // dominated by a's entry once merged

	a.Merge(b)
	require.Equal(t, 2, a.Len())
}

func TestTripFrontierKeepsSingleBest(t *testing.T) {
	tf := NewTrip(metric.Pareto)
	require.True(t, tf.TryAdd(e(1, 500)))
	require.False(t, tf.TryAdd(e(1, 600)), "worse candidate must not replace the best")
	require.True(t, tf.TryAdd(e(1, 400)))

	best, ok := tf.Best()
	require.True(t, ok)
	require.Equal(t, uint32(400), best.Metric.TravelTime)
}
