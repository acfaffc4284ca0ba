package duelcheck

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/okian/holmgang/pkg/logger"
)

// expectation is the ground truth derived for one participant.
type expectation struct {
	total int
	wins  int
	duels []Duel
}

// buildExpectations derives per-address ground truth from the pool,
// keyed by lowercased address. Winner matching is case-insensitive and
// draws count toward the total only.
func buildExpectations(pool *Pool) map[string]expectation {
	expectations := make(map[string]expectation, len(pool.Participants))

	for _, p := range pool.Participants {
		expectations[strings.ToLower(p.Address)] = expectation{}
	}

	for _, d := range pool.Duels {
		for _, address := range []string{d.ParticipantA.Address, d.ParticipantB.Address} {
			key := strings.ToLower(address)

			exp := expectations[key]
			exp.total++

			if d.Winner != "" && strings.EqualFold(d.Winner, address) {
				exp.wins++
			}

			exp.duels = append(exp.duels, d)
			expectations[key] = exp
		}
	}

	return expectations
}

// verifyResults checks every lookup against ground truth and the
// leaderboard against the standing endpoint.
func verifyResults(ctx context.Context, pool *Pool, results []lookupResult, leaderboard []Standing, standings map[string]Standing, stats *Stats) error {
	log.Println("🔍 Verifying results...")
	logger.Get().Info(ctx, "verifying responses against ground truth",
		logger.Int("lookups", len(results)),
		logger.Int("leaderboardEntries", len(leaderboard)))

	expectations := buildExpectations(pool)
	failures := 0

	for i := range results {
		if results[i].err != nil {
			continue
		}

		failures += checkLookup(expectations, &results[i])
	}

	failures += checkLeaderboard(leaderboard, standings)

	stats.ChecksFailed = failures

	if failures > 0 {
		return fmt.Errorf("%d verification checks failed", failures)
	}

	log.Println("✅ All verification checks passed")

	return nil
}

// checkLookup verifies one address's record and duels breakdown against
// ground truth, returning the number of failed checks.
func checkLookup(expectations map[string]expectation, result *lookupResult) int {
	failures := 0
	fail := func(format string, args ...any) {
		failures++

		log.Printf("❌ %s: "+format, append([]any{result.address}, args...)...)
	}

	exp, known := expectations[strings.ToLower(result.address)]
	if !known {
		fail("lookup address missing from ground truth")

		return failures
	}

	record := result.record
	if record.Viewpoint != result.address {
		fail("viewpoint %q does not echo the queried address", record.Viewpoint)
	}

	if record.Wins+record.Losses != record.Total {
		fail("wins %d + losses %d != total %d", record.Wins, record.Losses, record.Total)
	}

	if record.Total != exp.total {
		fail("total %d, expected %d", record.Total, exp.total)
	}

	if record.Wins != exp.wins {
		fail("wins %d, expected %d", record.Wins, exp.wins)
	}

	if result.repeat != record {
		fail("repeat lookup disagrees: %+v vs %+v", result.repeat, record)
	}

	duels := result.duels
	if duels.Viewpoint != result.address {
		fail("breakdown viewpoint %q does not echo the queried address", duels.Viewpoint)
	}

	if duels.Total != exp.total || duels.Count != len(exp.duels) {
		fail("breakdown total %d count %d, expected %d participant duels", duels.Total, duels.Count, len(exp.duels))
	}

	if len(duels.Duels) != len(exp.duels) {
		fail("breakdown rows %d, expected %d", len(duels.Duels), len(exp.duels))

		return failures
	}

	for i := range duels.Duels {
		failures += checkProjection(result.address, i, exp.duels[i], duels.Duels[i])
	}

	return failures
}

// checkProjection verifies one breakdown row against the duel it was
// projected from.
func checkProjection(address string, index int, truth Duel, row Projection) int {
	failures := 0
	fail := func(format string, args ...any) {
		failures++

		log.Printf("❌ %s row %d: "+format, append([]any{address, index}, args...)...)
	}

	if row.DuelID != truth.ID {
		fail("id %q, expected %q", row.DuelID, truth.ID)

		return failures
	}

	youAreA := strings.EqualFold(truth.ParticipantA.Address, address)

	opponent := truth.ParticipantB
	if !youAreA {
		opponent = truth.ParticipantA
	}

	wantLabel := opponent.DisplayName
	if wantLabel == "" {
		wantLabel = opponent.Address
	}

	if row.Opponent != wantLabel {
		fail("opponent %q, expected %q", row.Opponent, wantLabel)
	}

	wantOutcome := "undetermined"

	switch {
	case truth.Winner == "":
	case strings.EqualFold(truth.Winner, address):
		wantOutcome = "you"
	default:
		wantOutcome = "opponent"
	}

	if row.Outcome != wantOutcome {
		fail("outcome %q, expected %q", row.Outcome, wantOutcome)
	}

	yourSteps1, yourSteps2 := truth.StepsA1, truth.StepsA2
	opponentSteps1, opponentSteps2 := truth.StepsB1, truth.StepsB2

	if !youAreA {
		yourSteps1, yourSteps2 = truth.StepsB1, truth.StepsB2
		opponentSteps1, opponentSteps2 = truth.StepsA1, truth.StepsA2
	}

	if !equalSteps(row.YourSteps1, yourSteps1) || !equalSteps(row.YourSteps2, yourSteps2) {
		fail("your step sequences do not match ground truth")
	}

	if !equalSteps(row.OpponentSteps1, opponentSteps1) || !equalSteps(row.OpponentSteps2, opponentSteps2) {
		fail("opponent step sequences do not match ground truth")
	}

	return failures
}

// checkLeaderboard verifies ordering, dense shared ranks, and agreement
// with the per-address standing endpoint.
func checkLeaderboard(leaderboard []Standing, standings map[string]Standing) int {
	failures := 0

	if len(leaderboard) == 0 {
		log.Println("⚠️  Leaderboard empty; skipping ordering checks")

		return 0
	}

	if leaderboard[0].Rank != 1 {
		failures++

		log.Printf("❌ leaderboard starts at rank %d, expected 1", leaderboard[0].Rank)
	}

	for i := 1; i < len(leaderboard); i++ {
		prev, cur := leaderboard[i-1], leaderboard[i]

		if cur.Wins > prev.Wins {
			failures++

			log.Printf("❌ leaderboard not sorted: entry %d has more wins than entry %d", i, i-1)
		}

		switch {
		case cur.Wins == prev.Wins && cur.Rank != prev.Rank:
			failures++

			log.Printf("❌ tied entries %d and %d do not share a rank", i-1, i)
		case cur.Wins < prev.Wins && cur.Rank != prev.Rank+1:
			failures++

			log.Printf("❌ ranks not dense between entries %d and %d", i-1, i)
		}
	}

	for _, entry := range leaderboard {
		got, ok := standings[entry.Address]
		if !ok {
			continue
		}

		if got != entry {
			failures++

			log.Printf("❌ standing endpoint disagrees for %s: %+v vs %+v", entry.Address, got, entry)
		}
	}

	return failures
}

func equalSteps(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
