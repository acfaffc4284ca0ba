package duelcheck

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/holmgang/pkg/logger"
)

// SetupLogging initializes logging to both console and file
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		logFile = fmt.Sprintf("check_log_%s.log", time.Now().Format("20060102_150405"))
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)

	log.Printf("📝 Logging to console and file: %s", logFile)

	return nil
}

// ShowHelp displays usage information
func ShowHelp() {
	fmt.Println(`Holmgang Duel Check

Generates a synthetic duel pool, serves it over the record-source wire
protocol, replays lookups through a running holmgang service, and
verifies every response against ground truth.

Usage:
  duel-check [options]

Options:
  -url string          Base URL of the service under test (default "http://localhost:9080")
  -stub-addr string    Listen address for the stub record source (default "127.0.0.1:9090")
  -participants int    Number of synthetic participants (default 200)
  -duels int           Number of synthetic duels (default 2000)
  -top int             Number of leaderboard entries to fetch (default 50)
  -workers int         Number of concurrent lookup workers (default 2x CPU cores)
  -timeout duration    HTTP request timeout (default 30s)
  -settle duration     Wait after queueing refreshes (default 2s)
  -output string       Output file for the generated pool (default generated_duels_TIMESTAMP.json)
  -log string          Log file for check output (default check_log_TIMESTAMP.log)
  -verbose             Enable verbose logging
  -help                Show this help

Examples:
  # Start the stub, point the service at it, then run the check
  duel-check -stub-addr 127.0.0.1:9090 -url http://localhost:9080

  # Small smoke check with verbose output
  duel-check -participants 20 -duels 100 -verbose

  # Heavier run with more workers and a custom output file
  duel-check -duels 10000 -workers 32 -output pool.json

The service must be running with its source URL pointed at the stub
address before the check starts, for example:
  HOLMGANG_SOURCE_URL=http://127.0.0.1:9090 ./holmgang`)
}
