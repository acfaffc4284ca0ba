package duelcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/holmgang/pkg/logger"
)

// Run executes the complete duel check: generate a pool, serve it over
// the source wire, replay lookups through the service, and verify the
// responses.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting duel check",
		logger.String("baseURL", config.BaseURL),
		logger.String("stubAddr", config.StubAddr),
		logger.Int("participants", config.NumParticipants),
		logger.Int("duels", config.NumDuels),
		logger.Int("topN", config.TopN),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Generate the synthetic pool
	pool, err := generatePool(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("pool generation failed: %w", err)
	}

	// Step 2: Serve the pool over the record-source wire protocol
	stub := NewStubSource(pool)
	if err := stub.Start(config.StubAddr); err != nil {
		return fmt.Errorf("stub source start failed: %w", err)
	}

	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stubStopTimeout)
		defer cancel()

		if err := stub.Stop(stopCtx); err != nil {
			logger.Get().Warn(context.Background(), "stub source stop failed", logger.Error(err))
		}
	}()

	log.Printf("📡 Stub source serving %d duels at %s (set HOLMGANG_SOURCE_URL to this)", len(pool.Duels), stub.URL())

	// Step 3: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 4: Replay lookups through the service
	results, err := runLookups(ctx, config, pool, stats)
	if err != nil {
		return fmt.Errorf("lookups failed: %w", err)
	}

	// Step 5: Queue refreshes for a sample and let the workers settle
	queueRefreshes(ctx, config, pool, stats)

	if config.Settle > 0 {
		logger.Get().Info(ctx, "waiting for refresh workers to settle",
			logger.Duration("settle", config.Settle))
		time.Sleep(config.Settle)
	}

	// Step 6: Fetch the leaderboard and its standings
	leaderboard, err := getLeaderboard(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	standings := getStandings(ctx, config, leaderboard)

	// Step 7: Verify everything against ground truth
	verifyErr := verifyResults(ctx, pool, results, leaderboard, standings, stats)

	// Step 8: Save the pool for replay and report
	if err := savePoolToFile(ctx, config, pool); err != nil {
		logger.Get().Warn(ctx, "failed to save pool to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return verifyErr
	}

	logger.Get().Info(ctx, "duel check completed successfully")

	return nil
}

// checkServiceHealth confirms the service under test is reachable.
func checkServiceHealth(ctx context.Context, config *Config) error {
	log.Println("🏥 Checking service health...")

	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service unhealthy: HTTP %d: %s", resp.StatusCode, string(body))
	}

	log.Println("✅ Service is healthy")

	return nil
}

// savePoolToFile writes the generated pool as JSON so a failing run can
// be replayed against the same data.
func savePoolToFile(ctx context.Context, config *Config, pool *Pool) error {
	filename := config.OutputFile
	if filename == "" {
		filename = fmt.Sprintf("generated_duels_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(pool, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pool: %w", err)
	}

	if err := os.WriteFile(filename, data, outputPermission); err != nil {
		return fmt.Errorf("failed to write pool file: %w", err)
	}

	logger.Get().Info(ctx, "saved generated pool",
		logger.String("file", filename),
		logger.Int("participants", len(pool.Participants)),
		logger.Int("duels", len(pool.Duels)))

	return nil
}

// displayFinalStats reports the check outcome.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var failureRate, lookupsPerSecond float64

	if stats.LookupsIssued > 0 {
		failureRate = float64(stats.LookupsFailed) / float64(stats.LookupsIssued) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		lookupsPerSecond = float64(stats.LookupsIssued) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("participantsGenerated", stats.ParticipantsGenerated),
		logger.Int("duelsGenerated", stats.DuelsGenerated),
		logger.Int("lookupsIssued", stats.LookupsIssued),
		logger.Int("lookupsFailed", stats.LookupsFailed),
		logger.Int("refreshesQueued", stats.RefreshesQueued),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("failureRate", failureRate),
		logger.Float64("lookupsPerSecond", lookupsPerSecond))

	log.Printf("📊 Done: %d lookups, %d failed, %d checks failed in %s",
		stats.LookupsIssued, stats.LookupsFailed, stats.ChecksFailed, stats.Duration.Round(time.Millisecond))
}
