// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"net/url"
)

var staticServer = http.StripPrefix("/static/", http.FileServer(http.FS(dashboardFS)))

// dashboardPageServer serves files from the embedded dashboard filesystem.
var dashboardPageServer = http.FileServer(http.FS(dashboardFS))

// dashboardHandler handles dashboard requests
type dashboardHandler struct{}

// newdashboardHandler creates a new dashboard handler
func newdashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard requests
// Returns an HTML page that drives /record, /duels, /leaderboard, and /stats
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	// Serve embedded dashboard page with the file path pinned, leaving all
	// content negotiation to the standard file server.
	r2 := new(http.Request)
	*r2 = *r
	r2.URL = new(url.URL)
	*r2.URL = *r.URL
	r2.URL.Path = "/dashboard.html"
	r2.URL.RawPath = ""
	dashboardPageServer.ServeHTTP(w, r2)
}

// HandleStatic handles GET /static/ requests for embedded dashboard assets
func (h *dashboardHandler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	staticServer.ServeHTTP(w, r)
}
