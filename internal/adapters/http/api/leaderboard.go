// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	repository "github.com/okian/holmgang/internal/adapters/repository"
)

// LeaderboardDependencies defines the interface for leaderboard reads.
type LeaderboardDependencies interface {
	TopN(ctx context.Context, n int) ([]Standing, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps         LeaderboardDependencies
	defaultLimit int
	maxLimit     int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, defaultLimit, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:         deps,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N requests. A
// missing limit falls back to the configured default; anything above the
// configured maximum is rejected.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := h.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	standings, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidLimit) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, standings)
}
