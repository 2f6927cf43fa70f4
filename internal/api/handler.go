// Package api exposes the query builder over HTTP (§6.1): a thin demo
// layer above internal/query, grounded on the teacher's
// TransportHandler/GetRoute shape, not part of the core's invariants or
// size budget.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/antigravity/transitcore/internal/connstore"
	"github.com/antigravity/transitcore/internal/frontier"
	"github.com/antigravity/transitcore/internal/journey"
	"github.com/antigravity/transitcore/internal/query"
	"github.com/antigravity/transitcore/internal/transfer"
)

// Handler wraps the store a request reads journeys from, mirroring the
// teacher's TransportHandler wrapping a *repository.LineRepository and
// *routing.Raptor.
type Handler struct {
	DB       *connstore.ConnectionsDb
	Transfer transfer.Generator
	Log      *slog.Logger
}

// NewHandler builds a Handler. gen may be nil, in which case journeys
// queries never expand walking transfers.
func NewHandler(db *connstore.ConnectionsDb, gen transfer.Generator, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{DB: db, Transfer: gen, Log: log}
}

// stopQueryParam parses "tile.local" into a StopId on the handler's
// database. An empty or malformed value reports ok=false.
func (h *Handler) stopQueryParam(raw string) (connstore.StopId, bool) {
	parts := strings.SplitN(raw, ".", 2)
	if len(parts) != 2 {
		return connstore.StopId{}, false
	}
	tile, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return connstore.StopId{}, false
	}
	local, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return connstore.StopId{}, false
	}
	return connstore.StopId{Database: h.DB.Database, Tile: uint32(tile), Local: uint32(local)}, true
}

// journeyResponse is the wire shape for one surviving frontier entry:
// its metric plus the summarized leg list (§4.6's Summarize).
type journeyResponse struct {
	Vehicles        uint32            `json:"vehicles"`
	TravelTime      uint32            `json:"travelTimeSeconds"`
	WalkingDistance uint32            `json:"walkingDistanceMeters"`
	DepartureTime   uint32            `json:"departureTime"`
	ArrivalTime     uint32            `json:"arrivalTime"`
	Legs            []journey.Summary `json:"legs"`
}

// GetJourneys implements GET /api/v1/journeys?from=&to=&t0=&t1=&profile=.
// profile selects pareto (default, the full multi-criteria scan),
// earliest, or latest.
func (h *Handler) GetJourneys(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, ok := h.stopQueryParam(q.Get("from"))
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or malformed from stop")
		return
	}
	to, ok := h.stopQueryParam(q.Get("to"))
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or malformed to stop")
		return
	}
	t0, err := strconv.ParseUint(q.Get("t0"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or malformed t0")
		return
	}
	t1, err := strconv.ParseUint(q.Get("t1"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or malformed t1")
		return
	}

	builder := query.New(h.DB).SelectStops(from, to).SelectTimeFrame(uint32(t0), uint32(t1))
	if h.Transfer != nil {
		builder = builder.WithTransfers(h.Transfer, 1)
	}

	profile := q.Get("profile")
	if profile == "" {
		profile = "pareto"
	}

	h.Log.Info("journeys query", "from", from, "to", to, "t0", t0, "t1", t1, "profile", profile)

	switch profile {
	case "earliest":
		entry, found, err := builder.EarliestArrival(r.Context())
		h.respondSingle(w, entry, found, err)
	case "latest":
		entry, found, err := builder.LatestDeparture(r.Context())
		h.respondSingle(w, entry, found, err)
	case "pareto":
		result, err := builder.CalculateAllJourneys(r.Context(), nil)
		if err != nil {
			h.respondConfigError(w, err)
			return
		}
		resp := make([]journeyResponse, 0, len(result.Entries))
		for _, e := range result.Entries {
			resp = append(resp, toJourneyResponse(e))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"journeys":  resp,
			"truncated": result.Truncated,
		})
	default:
		writeError(w, http.StatusBadRequest, "profile must be one of pareto, earliest, latest")
	}
}

func (h *Handler) respondSingle(w http.ResponseWriter, entry frontier.Entry, found bool, err error) {
	if err != nil {
		h.respondConfigError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "no journey found in the given window")
		return
	}
	writeJSON(w, http.StatusOK, toJourneyResponse(entry))
}

func (h *Handler) respondConfigError(w http.ResponseWriter, err error) {
	if errors.Is(err, query.ErrConfig) || errors.Is(err, connstore.ErrInvalidWindow) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// GetHealth implements GET /health: no external dependency to ping (the
// store is in-process), so this reports liveness and the row count.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"connections": h.DB.Len(),
	})
}

// toJourneyResponse flattens a scanner result entry into the wire
// shape: entry.Journey is always a *journey.Journey built via
// Chain/ChainSpecial (the scanner never calls Join), so ToList is safe.
func toJourneyResponse(e frontier.Entry) journeyResponse {
	resp := journeyResponse{
		Vehicles:        e.Metric.Vehicles,
		TravelTime:      e.Metric.TravelTime,
		WalkingDistance: e.Metric.WalkingDistance,
		DepartureTime:   e.Metric.DepartureTime,
		ArrivalTime:     e.Metric.ArrivalTime,
	}
	if j, ok := e.Journey.(*journey.Journey); ok {
		resp.Legs = journey.Summarize(journey.ToList(j))
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
