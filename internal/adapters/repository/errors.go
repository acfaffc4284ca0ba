package repository

import "errors"

// Sentinel kinds for standings errors.
var (
	ErrNotFound     = errors.New("standing not found")
	ErrInvalidLimit = errors.New("invalid standings limit")
)
