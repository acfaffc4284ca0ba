// Package model contains domain models passed between layers.
package model

// Participant names one side of a duel.
type Participant struct {
	Address     string // case-insensitive identity, e.g. "0xa1b2..."
	DisplayName string // optional; empty means unset
}

// Label returns the participant's display name, falling back to the address.
func (p Participant) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Address
}

// Duel represents one raw head-to-head record as returned by the source.
// The two participant slots are symmetric; nothing about slot A or B implies
// the caller. Step sequences are opaque ordered values (e.g. shots and
// dodges); this layer never interprets them.
type Duel struct {
	ID           string
	ParticipantA Participant
	ParticipantB Participant
	StepsA1      []string
	StepsA2      []string
	StepsB1      []string
	StepsB2      []string
	Winner       string // winner address; empty means unresolved/draw
}
