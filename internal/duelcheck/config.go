// Package duelcheck drives an end-to-end check of the duel record
// service. It generates a synthetic duel pool, serves it over the
// record-source wire protocol, replays lookups through the service's
// HTTP API, and verifies every response against ground truth.
package duelcheck

import "time"

// Config holds configuration for the duel check
type Config struct {
	BaseURL         string        // Base URL of the service under test
	StubAddr        string        // Listen address for the stub record source
	NumParticipants int           // Number of synthetic participants
	NumDuels        int           // Number of synthetic duels
	TopN            int           // Number of leaderboard entries to fetch
	Workers         int           // Number of concurrent workers
	Timeout         time.Duration // HTTP request timeout
	Settle          time.Duration // Wait after queueing refreshes
	OutputFile      string        // Output file for the generated pool
	LogFile         string        // Log file for check output
	Verbose         bool          // Enable verbose logging
}

// Participant is one side of a duel on the source wire.
type Participant struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name,omitempty"`
}

// Duel is one duel record on the source wire.
type Duel struct {
	ID           string      `json:"id"`
	ParticipantA Participant `json:"participant_a"`
	ParticipantB Participant `json:"participant_b"`
	StepsA1      []string    `json:"steps_a1,omitempty"`
	StepsA2      []string    `json:"steps_a2,omitempty"`
	StepsB1      []string    `json:"steps_b1,omitempty"`
	StepsB2      []string    `json:"steps_b2,omitempty"`
	Winner       string      `json:"winner,omitempty"`
}

// Pool holds the synthetic participants, duels, and the addresses the
// runner looks up, including mixed-case variants of real participants.
type Pool struct {
	Participants []Participant `json:"participants"`
	Duels        []Duel        `json:"duels"`
	Lookups      []string      `json:"lookups"`
}

// RecordResult mirrors GET /record/{address} responses.
type RecordResult struct {
	Viewpoint string `json:"viewpoint"`
	Total     int    `json:"total"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
}

// Projection mirrors one row of the duels breakdown.
type Projection struct {
	DuelID         string   `json:"duel_id"`
	Opponent       string   `json:"opponent"`
	YourSteps1     []string `json:"your_steps1"`
	YourSteps2     []string `json:"your_steps2"`
	OpponentSteps1 []string `json:"opponent_steps1"`
	OpponentSteps2 []string `json:"opponent_steps2"`
	Outcome        string   `json:"outcome"`
}

// DuelsResult mirrors GET /duels/{address} responses.
type DuelsResult struct {
	Viewpoint string       `json:"viewpoint"`
	Total     int          `json:"total"`
	Count     int          `json:"count"`
	Duels     []Projection `json:"duels"`
}

// Standing mirrors leaderboard and standing responses.
type Standing struct {
	Rank    int     `json:"rank"`
	Address string  `json:"address"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Total   int     `json:"total"`
	WinRate float64 `json:"win_rate"`
}

// Stats holds check statistics
type Stats struct {
	ParticipantsGenerated int
	DuelsGenerated        int
	LookupsIssued         int
	LookupsFailed         int
	RefreshesQueued       int
	ChecksFailed          int
	LeaderboardEntries    int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
