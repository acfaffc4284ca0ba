// Package api declares HTTP contracts and route registration helpers.
package api

// This file contains common types and utilities for the API package.
// Shared helpers live in http.go to avoid circular dependencies.
