// Package sim runs Cambio matches and tournaments between policy
// variants and aggregates the results.
package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/HannahHughes30/cambio.ai/agent"
	"github.com/HannahHughes30/cambio.ai/engine"
)

// DefaultPointLimit is the cumulative score at which a match ends. The
// first seat to reach it loses.
const DefaultPointLimit = 100

// SeatConfig names one seat in a match and the policy variant it runs.
type SeatConfig struct {
	Kind agent.Kind
	Name string
}

// RoundResult records one completed round.
type RoundResult struct {
	Scores       []int
	Winner       int
	CambioCaller int // -1 when the turn cap ended the round
	Turns        int
}

// MatchResult records a completed match: rounds played until one seat's
// cumulative score reached the point limit.
type MatchResult struct {
	ID          uuid.UUID
	Winner      int
	Loser       int
	FinalScores []int
	Rounds      []RoundResult
}

// Match plays rounds between a fixed set of seats until one seat
// reaches the point limit. Every round gets fresh policies so no belief
// state carries across deals.
type Match struct {
	Seats      []SeatConfig
	PointLimit int
	MaxTurns   int

	rng *rand.Rand
	log logrus.FieldLogger
}

// NewMatch creates a match over the given seats. The RNG drives every
// shuffle and policy decision in the match, so a fixed seed replays the
// exact same rounds.
func NewMatch(seats []SeatConfig, rng *rand.Rand, log logrus.FieldLogger) *Match {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}
	return &Match{
		Seats:      seats,
		PointLimit: DefaultPointLimit,
		MaxTurns:   engine.DefaultMaxTurns,
		rng:        rng,
		log:        log,
	}
}

// Play runs rounds until a seat reaches the point limit. The loser is
// the highest cumulative score among seats at or over the limit; the
// winner is the lowest cumulative score overall, earliest seat on ties.
func (m *Match) Play() (*MatchResult, error) {
	id := uuid.New()
	log := m.log.WithField("match_id", id)

	cumulative := make([]int, len(m.Seats))
	var rounds []RoundResult

	for {
		round, err := m.playRound()
		if err != nil {
			return nil, err
		}
		for seat, score := range round.Scores {
			cumulative[seat] += score
		}
		rounds = append(rounds, *round)

		log.WithFields(logrus.Fields{
			"round":  len(rounds),
			"scores": cumulative,
		}).Debug("round complete")

		loser := -1
		for seat, total := range cumulative {
			if total >= m.PointLimit && (loser < 0 || total > cumulative[loser]) {
				loser = seat
			}
		}
		if loser < 0 {
			continue
		}

		winner := 0
		for seat, total := range cumulative {
			if total < cumulative[winner] {
				winner = seat
			}
		}
		return &MatchResult{
			ID:          id,
			Winner:      winner,
			Loser:       loser,
			FinalScores: cumulative,
			Rounds:      rounds,
		}, nil
	}
}

// playRound deals a fresh game with fresh policies and plays it out.
func (m *Match) playRound() (*RoundResult, error) {
	players := make([]*engine.Player, len(m.Seats))
	for seat, cfg := range m.Seats {
		pol, err := agent.New(cfg.Kind, m.rng)
		if err != nil {
			return nil, fmt.Errorf("sim: seat %d: %w", seat, err)
		}
		players[seat] = engine.NewPlayer(cfg.Name, pol)
		pol.Bind(players[seat], seat)
	}

	g := engine.NewGame(players, m.rng, m.log)
	g.MaxTurns = m.MaxTurns
	g.Deal()

	for !g.GameOver() {
		if g.PlayTurn() == nil {
			break
		}
	}

	return &RoundResult{
		Scores:       g.Scores(),
		Winner:       g.Winner(),
		CambioCaller: g.CambioCaller(),
		Turns:        g.Turn(),
	}, nil
}
