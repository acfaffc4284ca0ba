package source

import "errors"

// Sentinel kinds for upstream source errors.
var (
	// ErrQuery marks a structured rejection from the upstream source. The
	// wrapped message is display-only for callers.
	ErrQuery = errors.New("source query rejected")

	// ErrTransport marks connectivity, timeout, and decoding failures.
	ErrTransport = errors.New("source unreachable")
)
