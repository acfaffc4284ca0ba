// Package source fetches duel records from the upstream record source.
//
// One lookup is one GET; there is no retrying, no pagination, and no
// partial results. Upstream rejections carry a display-only message which
// is preserved for callers.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/holmgang/internal/domain/model"
	"github.com/okian/holmgang/pkg/logger"
	"github.com/okian/holmgang/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBaseURL = "http://localhost:9090"
	defaultTimeout = 10 * time.Second
)

// wireParticipant mirrors one participant slot on the wire.
type wireParticipant struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name,omitempty"`
}

// wireDuel mirrors one duel record on the wire.
type wireDuel struct {
	ID           string          `json:"id"`
	ParticipantA wireParticipant `json:"participant_a"`
	ParticipantB wireParticipant `json:"participant_b"`
	StepsA1      []string        `json:"steps_a1,omitempty"`
	StepsA2      []string        `json:"steps_a2,omitempty"`
	StepsB1      []string        `json:"steps_b1,omitempty"`
	StepsB2      []string        `json:"steps_b2,omitempty"`
	Winner       string          `json:"winner,omitempty"`
}

func (w wireDuel) toModel() model.Duel {
	return model.Duel{
		ID: w.ID,
		ParticipantA: model.Participant{
			Address:     w.ParticipantA.Address,
			DisplayName: w.ParticipantA.DisplayName,
		},
		ParticipantB: model.Participant{
			Address:     w.ParticipantB.Address,
			DisplayName: w.ParticipantB.DisplayName,
		},
		StepsA1: w.StepsA1,
		StepsA2: w.StepsA2,
		StepsB1: w.StepsB1,
		StepsB2: w.StepsB2,
		Winner:  w.Winner,
	}
}

// duelsResponse is the success payload.
type duelsResponse struct {
	Duels []wireDuel `json:"duels"`
}

// errorPayload is the structured rejection payload.
type errorPayload struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client queries the upstream record source over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

// NewClient creates a source client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger.Get().Named("source"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Duels fetches every duel record the upstream holds for an address.
// The address is passed through verbatim; matching semantics live in the
// upstream and in the domain core, not here.
func (c *Client) Duels(ctx context.Context, address string) ([]model.Duel, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSourceLatency(float64(time.Since(start).Milliseconds()))
	}()

	metrics.RecordSourceRequest()

	reqURL := fmt.Sprintf("%s/duels?participant=%s", c.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		metrics.RecordSourceError("transport")
		return nil, fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordSourceError("transport")
		c.logger.Error(ctx, "source request failed",
			logger.String("address", address),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordSourceError("transport")
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		msg := upstreamMessage(body)
		metrics.RecordSourceError("query")
		c.logger.Warn(ctx, "source rejected query",
			logger.String("address", address),
			logger.Int("status", resp.StatusCode),
			logger.String("message", msg),
		)
		if msg == "" {
			return nil, fmt.Errorf("%w: status %d", ErrQuery, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", ErrQuery, msg)
	}

	var payload duelsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.RecordSourceError("decode")
		return nil, fmt.Errorf("%w: decoding response: %v", ErrTransport, err)
	}

	records := make([]model.Duel, 0, len(payload.Duels))
	for _, wd := range payload.Duels {
		records = append(records, wd.toModel())
	}

	metrics.RecordFetchSize(len(records))

	return records, nil
}

// upstreamMessage extracts the display-only message from a structured
// rejection, or returns "" when the body carries none.
func upstreamMessage(body []byte) string {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error.Message
}
