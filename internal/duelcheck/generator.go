package duelcheck

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/holmgang/pkg/logger"
)

// Generation constants.
const (
	winnerSlots  = 20 // slots 0-8 -> A wins, 9-17 -> B wins, rest draw
	winnerSlotsA = 9
	winnerSlotsB = 18

	namedSlots  = 7 // 7 in 10 participants carry a display name
	namedChance = 10

	caseVariantStride = 3 // every third address gains a case-flipped lookup
	winnerFlipChance  = 4 // 1 in 4 winner fields is case-flipped

	maxStepsPerSequence = 4
	maxShotNumber       = 10
)

// displayNames seeds the synthetic participant names.
var displayNames = []string{
	"Asgeir", "Brynhild", "Eirik", "Gunnhild", "Hakon", "Ingrid",
	"Leif", "Ragnhild", "Sigurd", "Thyra", "Ulf", "Yrsa",
}

var dodgeDirections = []string{"left", "right", "low", "high"}

// randInt returns a random int in [0, n) using crypto/rand.
func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform source is broken.
		panic(fmt.Sprintf("random source failed: %v", err))
	}

	return int(v.Int64())
}

// generatePool builds the synthetic participants, duels, and lookup
// addresses the checker replays against the service.
func generatePool(ctx context.Context, config *Config, stats *Stats) (*Pool, error) {
	logger.Get().Info(ctx, "generating duel pool",
		logger.Int("participants", config.NumParticipants),
		logger.Int("duels", config.NumDuels))

	if config.NumParticipants < 2 {
		return nil, fmt.Errorf("need at least two participants, got %d", config.NumParticipants)
	}

	pool := &Pool{
		Participants: make([]Participant, config.NumParticipants),
		Duels:        make([]Duel, 0, config.NumDuels),
	}

	for i := range pool.Participants {
		pool.Participants[i] = generateParticipant(i)
	}

	for i := 0; i < config.NumDuels; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		default:
		}

		pool.Duels = append(pool.Duels, generateDuel(pool.Participants))
	}

	pool.Lookups = lookupAddresses(pool.Participants)

	stats.ParticipantsGenerated = len(pool.Participants)
	stats.DuelsGenerated = len(pool.Duels)

	logger.Get().Info(ctx, "generated duel pool",
		logger.Int("participants", len(pool.Participants)),
		logger.Int("duels", len(pool.Duels)),
		logger.Int("lookups", len(pool.Lookups)))

	return pool, nil
}

// generateParticipant creates a participant with a mixed-case address.
// Roughly a third of participants stay anonymous so opponent labels
// exercise the address fallback.
func generateParticipant(index int) Participant {
	p := Participant{Address: generateAddress()}
	if randInt(namedChance) < namedSlots {
		p.DisplayName = displayNames[randInt(len(displayNames))] + "-" + strconv.Itoa(index)
	}

	return p
}

// generateAddress returns a hex address with randomly mixed letter case.
func generateAddress() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")

	var b strings.Builder

	b.WriteString("0x")

	for _, r := range hex {
		if r >= 'a' && r <= 'f' && randInt(2) == 1 {
			r = r - 'a' + 'A'
		}

		b.WriteRune(r)
	}

	return b.String()
}

// generateDuel pairs two distinct participants and rolls the outcome.
// The winner field sometimes carries a case-flipped copy of the
// winner's address so tallying must match case-insensitively.
func generateDuel(participants []Participant) Duel {
	ai := randInt(len(participants))

	bi := randInt(len(participants) - 1)
	if bi >= ai {
		bi++
	}

	a := participants[ai]
	b := participants[bi]

	duel := Duel{
		ID:           uuid.NewString(),
		ParticipantA: a,
		ParticipantB: b,
		StepsA1:      generateSteps(),
		StepsA2:      generateSteps(),
		StepsB1:      generateSteps(),
		StepsB2:      generateSteps(),
	}

	switch slot := randInt(winnerSlots); {
	case slot < winnerSlotsA:
		duel.Winner = maybeFlipCase(a.Address)
	case slot < winnerSlotsB:
		duel.Winner = maybeFlipCase(b.Address)
	default:
		// Draw: winner stays empty.
	}

	return duel
}

// generateSteps produces a short shot/dodge sequence.
func generateSteps() []string {
	n := 1 + randInt(maxStepsPerSequence)
	steps := make([]string, 0, n)

	for i := 0; i < n; i++ {
		if randInt(2) == 0 {
			steps = append(steps, "shot:"+strconv.Itoa(1+randInt(maxShotNumber)))
		} else {
			steps = append(steps, "dodge:"+dodgeDirections[randInt(len(dodgeDirections))])
		}
	}

	return steps
}

// lookupAddresses lists every participant address plus case-flipped
// variants so lookups exercise case-insensitive matching.
func lookupAddresses(participants []Participant) []string {
	lookups := make([]string, 0, len(participants)+len(participants)/caseVariantStride+1)

	for i, p := range participants {
		lookups = append(lookups, p.Address)
		if i%caseVariantStride == 0 {
			lookups = append(lookups, flipCase(p.Address))
		}
	}

	return lookups
}

func maybeFlipCase(address string) string {
	if randInt(winnerFlipChance) == 0 {
		return flipCase(address)
	}

	return address
}

// flipCase swaps the case of every ASCII letter in the address.
func flipCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		default:
			return r
		}
	}, s)
}
