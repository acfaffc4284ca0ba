package duelcheck

import "time"

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusAccepted = 202
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	DefaultSettleDelay   = 2 * time.Second
	PercentageMultiplier = 100

	refreshSampleStride = 5
	stubStopTimeout     = 5 * time.Second
)

// File permission constants.
const (
	logFilePermission   = 0600
	outputPermission    = 0600
	directoryPermission = 0750
)
