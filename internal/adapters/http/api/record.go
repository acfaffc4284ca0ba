// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/holmgang/pkg/metrics"
)

// RecordDependencies defines the interface for aggregate record lookups.
type RecordDependencies interface {
	Lookup(ctx context.Context, viewpoint string) (Lookup, error)
}

// RecordHandler handles aggregate win/loss record requests.
type RecordHandler struct {
	deps RecordDependencies
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler(deps RecordDependencies) *RecordHandler {
	return &RecordHandler{deps: deps}
}

// HandleGetRecord handles GET /record/{address} requests.
func (h *RecordHandler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_record"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	address, ok := addressParam(r, "/record/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	lookup, err := h.deps.Lookup(r.Context(), address)
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	metrics.RecordLookup("record")
	writeJSON(w, http.StatusOK, recordResponse{
		Viewpoint: lookup.Viewpoint,
		Total:     lookup.Total,
		Wins:      lookup.Summary.Wins,
		Losses:    lookup.Summary.Losses,
	})
}
