package duelcheck

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/okian/holmgang/pkg/logger"
)

// getLeaderboard fetches the top N standings from the service.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Standing, error) {
	log.Printf("🏆 Fetching top %d leaderboard entries...", config.TopN)

	client := newHTTPClient(config.Timeout)

	var leaderboard []Standing

	rawURL := config.BaseURL + "/leaderboard?limit=" + strconv.Itoa(config.TopN)
	if err := getJSON(ctx, client, rawURL, &leaderboard); err != nil {
		return nil, fmt.Errorf("leaderboard request failed: %w", err)
	}

	stats.LeaderboardEntries = len(leaderboard)

	log.Printf("✅ Leaderboard returned %d entries", len(leaderboard))

	return leaderboard, nil
}

// getStandings fetches the per-address standing for every leaderboard
// entry, keyed by the address the leaderboard reported.
func getStandings(ctx context.Context, config *Config, leaderboard []Standing) map[string]Standing {
	client := newHTTPClient(config.Timeout)
	standings := make(map[string]Standing, len(leaderboard))

	for _, entry := range leaderboard {
		var got Standing

		rawURL := config.BaseURL + "/standing/" + url.PathEscape(entry.Address)
		if err := getJSON(ctx, client, rawURL, &got); err != nil {
			logger.Get().Warn(ctx, "standing fetch failed",
				logger.String("address", entry.Address),
				logger.Error(err))

			continue
		}

		standings[entry.Address] = got
	}

	return standings
}
