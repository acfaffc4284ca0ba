// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/holmgang/pkg/metrics"
)

// DuelsDependencies defines the interface for per-duel breakdown lookups.
type DuelsDependencies interface {
	Lookup(ctx context.Context, viewpoint string) (Lookup, error)
}

// DuelsHandler handles per-duel breakdown requests.
type DuelsHandler struct {
	deps DuelsDependencies
}

// NewDuelsHandler creates a new duels handler.
func NewDuelsHandler(deps DuelsDependencies) *DuelsHandler {
	return &DuelsHandler{deps: deps}
}

// HandleGetDuels handles GET /duels/{address} requests. The breakdown
// keeps the fetch order of the underlying records.
func (h *DuelsHandler) HandleGetDuels(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_duels"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	address, ok := addressParam(r, "/duels/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	lookup, err := h.deps.Lookup(r.Context(), address)
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	metrics.RecordLookup("duels")
	writeJSON(w, http.StatusOK, duelsResponse{
		Viewpoint: lookup.Viewpoint,
		Total:     lookup.Total,
		Count:     len(lookup.Projections),
		Duels:     lookup.Projections,
	})
}
