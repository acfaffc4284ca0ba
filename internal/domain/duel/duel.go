// Package duel turns raw head-to-head records into viewpoint-relative
// projections and win/loss summaries. Every function here is pure and
// total: no I/O, no shared state, no panics for any well-typed input.
package duel

import (
	"strings"

	"github.com/okian/holmgang/internal/domain/model"
	"github.com/okian/holmgang/internal/domain/types"
)

// Role identifies which participant slot a viewpoint occupies in a record.
type Role int

const (
	// NotParticipant means the viewpoint matches neither slot.
	NotParticipant Role = iota
	// First means the viewpoint is participant A.
	First
	// Second means the viewpoint is participant B.
	Second
)

// String returns a short label for the role.
func (r Role) String() string {
	switch r {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return "not_participant"
	}
}

// equalAddr compares two addresses by lowercasing both sides. No trimming,
// no hex normalization. Callers guard empty strings; two empty addresses
// compare equal here.
func equalAddr(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}

// Resolve determines which participant slot the viewpoint occupies.
// Slot A is checked before slot B, so a degenerate record where both
// participants share an address resolves to First. An empty viewpoint
// never matches, even when a participant address is itself empty.
func Resolve(d model.Duel, viewpoint string) Role {
	if viewpoint == "" {
		return NotParticipant
	}
	if equalAddr(d.ParticipantA.Address, viewpoint) {
		return First
	}
	if equalAddr(d.ParticipantB.Address, viewpoint) {
		return Second
	}
	return NotParticipant
}

// Outcome classifies a duel by direct comparison of the winner address to
// the viewpoint, independent of which slot the viewpoint occupies. An
// absent winner is Undetermined; a case-insensitive match is a win for the
// viewpoint; anything else counts for the opponent.
func Outcome(winner, viewpoint string) types.Outcome {
	if winner == "" {
		return types.OutcomeUndetermined
	}
	if equalAddr(winner, viewpoint) {
		return types.OutcomeYou
	}
	return types.OutcomeOpponent
}

// Project reshapes one record into the viewpoint's perspective. It reports
// ok=false when the viewpoint is not a participant: such a record has no
// "you" side, so it is skipped instead of being projected from a defaulted
// slot. Absent step sequences come back as empty lists, never nil.
func Project(d model.Duel, viewpoint string) (types.Projection, bool) {
	var opp model.Participant
	var yours1, yours2, theirs1, theirs2 []string

	switch Resolve(d, viewpoint) {
	case First:
		opp = d.ParticipantB
		yours1, yours2 = d.StepsA1, d.StepsA2
		theirs1, theirs2 = d.StepsB1, d.StepsB2
	case Second:
		opp = d.ParticipantA
		yours1, yours2 = d.StepsB1, d.StepsB2
		theirs1, theirs2 = d.StepsA1, d.StepsA2
	default:
		return types.Projection{}, false
	}

	return types.Projection{
		DuelID:         d.ID,
		OpponentLabel:  opp.Label(),
		YourSteps1:     orEmpty(yours1),
		YourSteps2:     orEmpty(yours2),
		OpponentSteps1: orEmpty(theirs1),
		OpponentSteps2: orEmpty(theirs2),
		Outcome:        Outcome(d.Winner, viewpoint),
	}, true
}

// ProjectAll projects every record in input order. Records where the
// viewpoint is not a participant are skipped, so the result may be shorter
// than the input. The result is never nil and recomputing from the same
// input yields a structurally identical sequence.
func ProjectAll(duels []model.Duel, viewpoint string) []types.Projection {
	out := make([]types.Projection, 0, len(duels))
	for _, d := range duels {
		if p, ok := Project(d, viewpoint); ok {
			out = append(out, p)
		}
	}
	return out
}

// Summarize folds a record collection into the two-category win/loss
// partition. A record is a win when its winner address case-insensitively
// equals the viewpoint; being a participant is not a precondition. Every
// other record, including unresolved duels and records the viewpoint never
// appears in, counts as a loss. Wins and losses always sum to the length
// of the input.
func Summarize(duels []model.Duel, viewpoint string) types.Summary {
	wins := 0
	for _, d := range duels {
		if Outcome(d.Winner, viewpoint) == types.OutcomeYou {
			wins++
		}
	}
	return types.Summary{Wins: wins, Losses: len(duels) - wins}
}

// orEmpty keeps absent step sequences renderable as empty lists.
func orEmpty(steps []string) []string {
	if steps == nil {
		return []string{}
	}
	return steps
}
