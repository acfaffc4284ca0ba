package config

import (
	"errors"
)

// Sentinel kinds for configuration failures, matched with errors.Is.
var (
	// ErrInvalidConfig marks a config that loaded but failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLoadConfig marks a failure reading or parsing config sources.
	ErrLoadConfig = errors.New("configuration load failed")
)
