// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/holmgang/internal/adapters/source"
	"github.com/okian/holmgang/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Lookup fetches the duel record for one viewpoint address and
	// projects it into viewpoint-relative terms.
	Lookup(ctx context.Context, viewpoint string) (Lookup, error)

	// EnqueueRefresh queues a background re-fetch for an address.
	// Returns false on backpressure.
	EnqueueRefresh(ctx context.Context, address string) (string, bool)

	// Read operations expose the observed standings.
	TopN(ctx context.Context, n int) ([]Standing, error)
	Standing(ctx context.Context, address string) (Standing, error)
}

// Lookup mirrors the read shape returned by record lookups.
type Lookup = types.Lookup

// Standing mirrors the read shape returned by standings queries.
type Standing = types.Standing

// Projection mirrors one viewpoint-relative duel row.
type Projection = types.Projection

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	recordHandler      *RecordHandler
	duelsHandler       *DuelsHandler
	leaderboardHandler *LeaderboardHandler
	standingHandler    *StandingHandler
	refreshHandler     *RefreshHandler
	dashboardHandler   *dashboardHandler
}

// NewServer creates a new API server with all handlers. The two limits
// bound GET /leaderboard: defaultLimit applies when the query carries no
// limit, maxLimit caps what a client may request.
func NewServer(deps Dependencies, statsProvider StatsProvider, defaultLimit, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		recordHandler:      NewRecordHandler(deps),
		duelsHandler:       NewDuelsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, defaultLimit, maxLimit),
		standingHandler:    NewStandingHandler(deps),
		refreshHandler:     NewRefreshHandler(deps),
		dashboardHandler:   newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(MetricsHandler().ServeHTTP, "metrics"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/static/", MetricsMiddleware(s.dashboardHandler.HandleStatic, "static"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/record/", MetricsMiddleware(s.recordHandler.HandleGetRecord, "record"))
	mux.HandleFunc("/duels/", MetricsMiddleware(s.duelsHandler.HandleGetDuels, "duels"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/standing/", MetricsMiddleware(s.standingHandler.HandleGetStanding, "standing"))
	mux.HandleFunc("/refresh/", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))
}

// recordResponse is the aggregate view served by GET /record/{address}.
type recordResponse struct {
	Viewpoint string `json:"viewpoint"`
	Total     int    `json:"total"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
}

// duelsResponse is the per-duel breakdown served by GET /duels/{address}.
// Count may be smaller than Total: records where the viewpoint is not a
// participant carry no projection.
type duelsResponse struct {
	Viewpoint string       `json:"viewpoint"`
	Total     int          `json:"total"`
	Count     int          `json:"count"`
	Duels     []Projection `json:"duels"`
}

// refreshResponse acknowledges an accepted refresh request.
type refreshResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLookupError translates a failed source fetch into a response.
// Query rejections and transport failures surface as 502 so the caller
// can tell an upstream fault from a fault in this service.
func writeLookupError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, source.ErrQuery) || errors.Is(err, source.ErrTransport) {
		writeError(w, http.StatusBadGateway, "upstream_error", Wrap(op, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
}

// addressParam extracts the trailing address segment from r.URL.Path.
// The address is passed through verbatim; empty or nested segments are
// rejected.
func addressParam(r *http.Request, prefix string) (string, bool) {
	p := strings.TrimPrefix(r.URL.Path, prefix)
	if p == "" || strings.Contains(p, "/") {
		return "", false
	}
	return p, true
}
