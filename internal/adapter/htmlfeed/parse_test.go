package htmlfeed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleTimetable = `
<html><body>
<div class="timetable-row">
  <span class="from">Sidi Moumen</span>
  <span class="to">Hay Hassani</span>
  <span class="departure">08:15:00</span>
  <span class="duration">42 min</span>
</div>
<div class="timetable-row">
  <span class="from">Casa Port</span>
  <span class="to">Ain Diab</span>
  <span class="departure">bogus</span>
  <span class="duration">5 min 30s</span>
</div>
</body></html>
`

func TestParseTimetableExtractsWellFormedRows(t *testing.T) {
	tuples, err := ParseTimetable(strings.NewReader(sampleTimetable))
	require.NoError(t, err)
	require.Len(t, tuples, 1)
	require.Equal(t, "Sidi Moumen", tuples[0].FromStop)
	require.Equal(t, "Hay Hassani", tuples[0].ToStop)
	require.Equal(t, uint32(8*3600+15*60), tuples[0].Departure)
	require.Equal(t, uint16(42*60), tuples[0].TravelTime)
}

func TestParseClockTimeAcceptsHHMMAndHHMMSS(t *testing.T) {
	v, err := parseClockTime("08:15")
	require.NoError(t, err)
	require.Equal(t, uint32(8*3600+15*60), v)

	v, err = parseClockTime("08:15:30")
	require.NoError(t, err)
	require.Equal(t, uint32(8*3600+15*60+30), v)

	_, err = parseClockTime("not a time")
	require.Error(t, err)
}

func TestParseDurationHandlesMinutesAndSeconds(t *testing.T) {
	require.Equal(t, uint16(5*60+30), parseDuration("5 min 30s"))
	require.Equal(t, uint16(42*60), parseDuration("42 min"))
	require.Equal(t, uint16(0), parseDuration("unknown"))
}
