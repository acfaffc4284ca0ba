// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// RefreshDependencies defines the interface for refresh intake.
type RefreshDependencies interface {
	EnqueueRefresh(ctx context.Context, address string) (string, bool)
}

// RefreshHandler handles refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandlePostRefresh handles POST /refresh/{address} requests. The fetch
// itself happens on the worker pool; the response only acknowledges
// intake.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	address, ok := addressParam(r, "/refresh/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	id, ok := h.deps.EnqueueRefresh(r.Context(), address)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, refreshResponse{Status: "accepted", RequestID: id})
}
