package duelcheck

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/holmgang/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestFlipCase(t *testing.T) {
	if got := flipCase("0xAbC9f"); got != "0XaBc9F" {
		t.Errorf("expected 0XaBc9F, got %s", got)
	}

	original := "0xDeadBeef"
	if got := flipCase(flipCase(original)); got != original {
		t.Errorf("double flip changed the address: %s", got)
	}
}

func TestBuildExpectations(t *testing.T) {
	pool := &Pool{
		Participants: []Participant{
			{Address: "0xAA"},
			{Address: "0xBB", DisplayName: "Bjorn"},
			{Address: "0xCC"},
		},
		Duels: []Duel{
			// Winner recorded with flipped case still counts for A.
			{ID: "d1", ParticipantA: Participant{Address: "0xAA"}, ParticipantB: Participant{Address: "0xBB", DisplayName: "Bjorn"}, Winner: "0Xaa"},
			// Draw.
			{ID: "d2", ParticipantA: Participant{Address: "0xBB", DisplayName: "Bjorn"}, ParticipantB: Participant{Address: "0xCC"}},
			{ID: "d3", ParticipantA: Participant{Address: "0xAA"}, ParticipantB: Participant{Address: "0xCC"}, Winner: "0xCC"},
		},
	}

	expectations := buildExpectations(pool)

	cases := []struct {
		address string
		total   int
		wins    int
	}{
		{"0xAA", 2, 1},
		{"0xBB", 2, 0},
		{"0xCC", 2, 1},
	}

	for _, tc := range cases {
		exp, ok := expectations[strings.ToLower(tc.address)]
		if !ok {
			t.Fatalf("no expectation for %s", tc.address)
		}

		if exp.total != tc.total || exp.wins != tc.wins {
			t.Errorf("%s: expected total %d wins %d, got total %d wins %d",
				tc.address, tc.total, tc.wins, exp.total, exp.wins)
		}

		if len(exp.duels) != tc.total {
			t.Errorf("%s: expected %d duels, got %d", tc.address, tc.total, len(exp.duels))
		}
	}
}

func TestGeneratePool(t *testing.T) {
	config := &Config{NumParticipants: 5, NumDuels: 40}
	stats := &Stats{}

	pool, err := generatePool(context.Background(), config, stats)
	if err != nil {
		t.Fatalf("generatePool failed: %v", err)
	}

	if len(pool.Participants) != 5 || len(pool.Duels) != 40 {
		t.Fatalf("expected 5 participants and 40 duels, got %d and %d",
			len(pool.Participants), len(pool.Duels))
	}

	if stats.ParticipantsGenerated != 5 || stats.DuelsGenerated != 40 {
		t.Errorf("stats not updated: %+v", stats)
	}

	if len(pool.Lookups) < len(pool.Participants) {
		t.Errorf("expected at least one lookup per participant, got %d", len(pool.Lookups))
	}

	for _, p := range pool.Participants {
		if !strings.HasPrefix(p.Address, "0x") || len(p.Address) != 34 {
			t.Errorf("unexpected address format: %s", p.Address)
		}
	}

	for _, d := range pool.Duels {
		if strings.EqualFold(d.ParticipantA.Address, d.ParticipantB.Address) {
			t.Errorf("duel %s pairs a participant with itself", d.ID)
		}

		if d.Winner != "" &&
			!strings.EqualFold(d.Winner, d.ParticipantA.Address) &&
			!strings.EqualFold(d.Winner, d.ParticipantB.Address) {
			t.Errorf("duel %s has winner %s who is not a participant", d.ID, d.Winner)
		}

		if len(d.StepsA1) == 0 || len(d.StepsB1) == 0 {
			t.Errorf("duel %s has empty step sequences", d.ID)
		}
	}
}

func TestGeneratePoolRejectsTooFewParticipants(t *testing.T) {
	if _, err := generatePool(context.Background(), &Config{NumParticipants: 1}, &Stats{}); err == nil {
		t.Error("expected error for a single participant")
	}
}

func TestCheckLookup(t *testing.T) {
	duel := Duel{
		ID:           "d1",
		ParticipantA: Participant{Address: "0xAA"},
		ParticipantB: Participant{Address: "0xBB", DisplayName: "Bjorn"},
		StepsA1:      []string{"shot:3"},
		StepsA2:      []string{"dodge:left"},
		StepsB1:      []string{"shot:7"},
		StepsB2:      []string{"shot:1"},
		Winner:       "0xAA",
	}
	pool := &Pool{
		Participants: []Participant{{Address: "0xAA"}, {Address: "0xBB", DisplayName: "Bjorn"}},
		Duels:        []Duel{duel},
	}
	expectations := buildExpectations(pool)

	record := RecordResult{Viewpoint: "0xAA", Total: 1, Wins: 1, Losses: 0}
	good := lookupResult{
		address: "0xAA",
		record:  record,
		repeat:  record,
		duels: DuelsResult{
			Viewpoint: "0xAA",
			Total:     1,
			Count:     1,
			Duels: []Projection{{
				DuelID:         "d1",
				Opponent:       "Bjorn",
				YourSteps1:     []string{"shot:3"},
				YourSteps2:     []string{"dodge:left"},
				OpponentSteps1: []string{"shot:7"},
				OpponentSteps2: []string{"shot:1"},
				Outcome:        "you",
			}},
		},
	}

	if failures := checkLookup(expectations, &good); failures != 0 {
		t.Errorf("expected clean lookup to pass, got %d failures", failures)
	}

	bad := good
	bad.record.Wins = 0
	bad.record.Losses = 1
	bad.repeat = bad.record

	if failures := checkLookup(expectations, &bad); failures == 0 {
		t.Error("expected wrong tally to fail verification")
	}

	stale := good
	stale.repeat = RecordResult{Viewpoint: "0xAA", Total: 2, Wins: 1, Losses: 1}

	if failures := checkLookup(expectations, &stale); failures == 0 {
		t.Error("expected disagreeing repeat lookup to fail verification")
	}

	mislabeled := good
	mislabeled.duels.Duels = []Projection{good.duels.Duels[0]}
	mislabeled.duels.Duels[0].Opponent = "0xBB"

	if failures := checkLookup(expectations, &mislabeled); failures == 0 {
		t.Error("expected address label to fail when a display name exists")
	}
}

func TestCheckLeaderboard(t *testing.T) {
	sorted := []Standing{
		{Rank: 1, Address: "0xaa", Wins: 5, Losses: 1, Total: 6},
		{Rank: 1, Address: "0xbb", Wins: 5, Losses: 2, Total: 7},
		{Rank: 2, Address: "0xcc", Wins: 3, Losses: 3, Total: 6},
	}
	standings := map[string]Standing{
		"0xaa": sorted[0],
		"0xbb": sorted[1],
		"0xcc": sorted[2],
	}

	if failures := checkLeaderboard(sorted, standings); failures != 0 {
		t.Errorf("expected dense sorted leaderboard to pass, got %d failures", failures)
	}

	unsorted := []Standing{sorted[2], sorted[0], sorted[1]}
	if failures := checkLeaderboard(unsorted, standings); failures == 0 {
		t.Error("expected unsorted leaderboard to fail")
	}

	splitTie := []Standing{
		{Rank: 1, Address: "0xaa", Wins: 5},
		{Rank: 2, Address: "0xbb", Wins: 5},
	}
	if failures := checkLeaderboard(splitTie, nil); failures == 0 {
		t.Error("expected tied entries with different ranks to fail")
	}

	disagreeing := map[string]Standing{
		"0xaa": {Rank: 1, Address: "0xaa", Wins: 4, Losses: 2, Total: 6},
	}
	if failures := checkLeaderboard(sorted[:1], disagreeing); failures == 0 {
		t.Error("expected standing mismatch to fail")
	}

	if failures := checkLeaderboard(nil, nil); failures != 0 {
		t.Errorf("expected empty leaderboard to pass, got %d failures", failures)
	}
}

func TestStubSourceFilter(t *testing.T) {
	pool := &Pool{
		Duels: []Duel{
			{ID: "d1", ParticipantA: Participant{Address: "0xAA"}, ParticipantB: Participant{Address: "0xBB"}},
			{ID: "d2", ParticipantA: Participant{Address: "0xBB"}, ParticipantB: Participant{Address: "0xCC"}},
		},
	}
	stub := NewStubSource(pool)

	fetch := func(participant string) []Duel {
		t.Helper()

		req := httptest.NewRequest("GET", "/duels?participant="+participant, nil)
		w := httptest.NewRecorder()
		stub.handleDuels(w, req)

		if w.Code != StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var envelope struct {
			Duels []Duel `json:"duels"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("failed to decode stub response: %v", err)
		}

		if envelope.Duels == nil {
			t.Fatal("expected duels array to be present")
		}

		return envelope.Duels
	}

	// Case-insensitive match on either side.
	if duels := fetch("0xaa"); len(duels) != 1 || duels[0].ID != "d1" {
		t.Errorf("expected d1 for 0xaa, got %+v", duels)
	}

	if duels := fetch("0xBB"); len(duels) != 2 {
		t.Errorf("expected both duels for 0xBB, got %d", len(duels))
	}

	if duels := fetch("0xZZ"); len(duels) != 0 {
		t.Errorf("expected no duels for unknown address, got %d", len(duels))
	}
}
