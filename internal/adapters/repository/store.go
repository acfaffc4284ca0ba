// Package repository defines the standings store interface and errors.
package repository

import "context"

// Entry represents a standings row. Addresses are held in lowercased form
// since address identity is case-insensitive.
type Entry struct {
	Rank    int
	Address string
	Wins    int
	Losses  int
}

// Store provides read/write access to participant standings.
type Store interface {
	// Update replaces the standing recorded for address with the given
	// counts, whether better or worse than what was there before.
	Update(ctx context.Context, address string, wins, losses int) error

	// Rank returns the current standing for address.
	// Returns ErrNotFound if the address is unknown.
	Rank(ctx context.Context, address string) (Entry, error)

	// TopN returns the top-N standings ordered by wins desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Size returns the number of participants tracked.
	Size(ctx context.Context) int
}
