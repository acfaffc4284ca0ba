// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	repository "github.com/okian/holmgang/internal/adapters/repository"
)

// StandingDependencies defines the interface for single-standing reads.
type StandingDependencies interface {
	Standing(ctx context.Context, address string) (Standing, error)
}

// StandingHandler handles standing requests.
type StandingHandler struct {
	deps StandingDependencies
}

// NewStandingHandler creates a new standing handler.
func NewStandingHandler(deps StandingDependencies) *StandingHandler {
	return &StandingHandler{deps: deps}
}

// HandleGetStanding handles GET /standing/{address} requests.
func (h *StandingHandler) HandleGetStanding(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standing"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	address, ok := addressParam(r, "/standing/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Standing(r.Context(), address)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
