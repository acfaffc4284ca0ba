package duelcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/okian/holmgang/pkg/logger"
)

const stubReadHeaderTimeout = 5 * time.Second

// StubSource serves the generated pool over the record-source wire
// protocol so the service under test can fetch from it. Point the
// service's source URL at URL().
type StubSource struct {
	pool *Pool
	srv  *http.Server
	ln   net.Listener
}

// NewStubSource creates a stub source over the pool.
func NewStubSource(pool *Pool) *StubSource {
	return &StubSource{pool: pool}
}

// Start listens on addr and serves duel queries in the background.
func (s *StubSource) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("stub source listen on %s: %w", addr, err)
	}

	s.ln = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/duels", s.handleDuels)

	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: stubReadHeaderTimeout,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Error(context.Background(), "stub source serve failed", logger.Error(err))
		}
	}()

	return nil
}

// URL returns the base URL the service under test should fetch from.
func (s *StubSource) URL() string {
	return "http://" + s.ln.Addr().String()
}

// Stop shuts the stub source down.
func (s *StubSource) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("stub source shutdown: %w", err)
	}

	return nil
}

// handleDuels answers GET /duels?participant=addr with every duel the
// address took part in. Matching is case-insensitive like the real
// upstream.
func (s *StubSource) handleDuels(w http.ResponseWriter, r *http.Request) {
	participant := r.URL.Query().Get("participant")

	matched := make([]Duel, 0)

	for _, d := range s.pool.Duels {
		if strings.EqualFold(d.ParticipantA.Address, participant) ||
			strings.EqualFold(d.ParticipantB.Address, participant) {
			matched = append(matched, d)
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if err := json.NewEncoder(w).Encode(map[string][]Duel{"duels": matched}); err != nil {
		logger.Get().Error(r.Context(), "stub source encode failed", logger.Error(err))
	}
}
