// Command duel-check runs an end-to-end check against a running
// holmgang service. It generates a synthetic duel pool, serves it over
// the record-source wire protocol, replays lookups through the
// service's HTTP API, and verifies every response against ground truth.
package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/holmgang/internal/duelcheck"
)

// Default configuration constants.
const (
	defaultParticipants    = 200
	defaultDuels           = 2000
	defaultTopN            = 50
	defaultWorkerPerCore   = 2
	defaultRequestTimeout  = 30 * time.Second
	defaultOverallDeadline = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service under test")
		stubAddr     = flag.String("stub-addr", "127.0.0.1:9090", "Listen address for the stub record source")
		participants = flag.Int("participants", defaultParticipants, "Number of synthetic participants")
		duels        = flag.Int("duels", defaultDuels, "Number of synthetic duels")
		topN         = flag.Int("top", defaultTopN, "Number of leaderboard entries to fetch")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkerPerCore, "Number of concurrent lookup workers")
		timeout      = flag.Duration("timeout", defaultRequestTimeout, "HTTP request timeout")
		settle       = flag.Duration("settle", duelcheck.DefaultSettleDelay, "Wait after queueing refreshes")
		outputFile   = flag.String("output", "", "Output file for the generated pool (default: generated_duels_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for check output (default: check_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)

	flag.Parse()

	if *help {
		duelcheck.ShowHelp()

		return
	}

	if err := duelcheck.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultOverallDeadline)
	defer cancel()

	config := &duelcheck.Config{
		BaseURL:         *baseURL,
		StubAddr:        *stubAddr,
		NumParticipants: *participants,
		NumDuels:        *duels,
		TopN:            *topN,
		Workers:         *workers,
		Timeout:         *timeout,
		Settle:          *settle,
		OutputFile:      *outputFile,
		LogFile:         *logFile,
		Verbose:         *verbose,
	}

	if err := duelcheck.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
