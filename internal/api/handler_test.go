package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/connstore"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db := connstore.New(1, 0, 0)
	db.AddOrUpdate(connstore.Input{
		GlobalId:      "c1",
		DepartureStop: connstore.StopId{Tile: 1, Local: 0},
		ArrivalStop:   connstore.StopId{Tile: 1, Local: 1},
		DepartureTime: 1000,
		TravelTime:    300,
		Trip:          1,
	})
	return NewHandler(db, nil, nil)
}

func TestGetHealthReportsConnectionCount(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.GetHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.EqualValues(t, 1, body["connections"])
}

func TestGetJourneysReturnsParetoFrontier(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/journeys?from=1.0&to=1.1&t0=0&t1=2000&profile=pareto", nil)
	rec := httptest.NewRecorder()

	h.GetJourneys(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Journeys []journeyResponse `json:"journeys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Journeys, 1)
	require.EqualValues(t, 1, body.Journeys[0].Vehicles)
}

func TestGetJourneysEarliestArrival(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/journeys?from=1.0&to=1.1&t0=0&t1=2000&profile=earliest", nil)
	rec := httptest.NewRecorder()

	h.GetJourneys(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body journeyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.EqualValues(t, 1300, body.ArrivalTime)
}

func TestGetJourneysRejectsMalformedStop(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/journeys?from=bogus&to=1.1&t0=0&t1=2000", nil)
	rec := httptest.NewRecorder()

	h.GetJourneys(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJourneysRejectsInvertedWindow(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/journeys?from=1.0&to=1.1&t0=2000&t1=0", nil)
	rec := httptest.NewRecorder()

	h.GetJourneys(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJourneysRejectsUnknownProfile(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/journeys?from=1.0&to=1.1&t0=0&t1=2000&profile=bogus", nil)
	rec := httptest.NewRecorder()

	h.GetJourneys(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
