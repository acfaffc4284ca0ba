// Package types contains the public result types served to clients.
package types

import (
	"encoding/json"
	"fmt"
)

// Outcome classifies one duel from the viewpoint's perspective.
type Outcome int

// Outcome values. The zero value is Undetermined so an unresolved duel
// never accidentally reads as a win or a loss.
const (
	OutcomeUndetermined Outcome = iota
	OutcomeYou
	OutcomeOpponent
)

// String returns the wire label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeYou:
		return "you"
	case OutcomeOpponent:
		return "opponent"
	default:
		return "undetermined"
	}
}

// MarshalJSON encodes the outcome as its wire label.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON decodes an outcome from its wire label.
func (o *Outcome) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "you":
		*o = OutcomeYou
	case "opponent":
		*o = OutcomeOpponent
	case "undetermined":
		*o = OutcomeUndetermined
	default:
		return fmt.Errorf("unknown outcome %q", s)
	}
	return nil
}

// Projection is a viewpoint-relative reshaping of one duel record into
// "you" vs "opponent" terms.
type Projection struct {
	DuelID         string   `json:"duel_id"`
	OpponentLabel  string   `json:"opponent"`
	YourSteps1     []string `json:"your_steps1"`
	YourSteps2     []string `json:"your_steps2"`
	OpponentSteps1 []string `json:"opponent_steps1"`
	OpponentSteps2 []string `json:"opponent_steps2"`
	Outcome        Outcome  `json:"outcome"`
}

// Summary is the two-category win/loss partition of a record collection.
// Wins and Losses always sum to the number of records summarized.
type Summary struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Lookup bundles everything derived from one fetch for a viewpoint.
// Total counts every fetched record; Projections may be shorter because
// records where the viewpoint is not a participant carry no projection.
type Lookup struct {
	Viewpoint   string       `json:"viewpoint"`
	Total       int          `json:"total"`
	Summary     Summary      `json:"summary"`
	Projections []Projection `json:"duels"`
}

// Standing is one participant's row in the observed standings.
type Standing struct {
	Rank    int     `json:"rank"`
	Address string  `json:"address"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Total   int     `json:"total"`
	WinRate float64 `json:"win_rate"`
}
