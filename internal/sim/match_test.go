package sim

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HannahHughes30/cambio.ai/agent"
)

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func twoSeats() []SeatConfig {
	return []SeatConfig{
		{Kind: agent.KindEVGreedy, Name: "ev"},
		{Kind: agent.KindSmart, Name: "smart"},
	}
}

// TestMatchReproducible: the same seed replays the exact same match.
func TestMatchReproducible(t *testing.T) {
	play := func() *MatchResult {
		m := NewMatch(twoSeats(), rand.New(rand.NewPCG(42, 0)), quietLog())
		res, err := m.Play()
		require.NoError(t, err)
		return res
	}

	a, b := play(), play()
	assert.Equal(t, a.Winner, b.Winner)
	assert.Equal(t, a.Loser, b.Loser)
	assert.Equal(t, a.FinalScores, b.FinalScores)
	require.Equal(t, len(a.Rounds), len(b.Rounds))
	for i := range a.Rounds {
		assert.Equal(t, a.Rounds[i].Scores, b.Rounds[i].Scores)
	}
}

// TestMatchEndsAtPointLimit: the loser crossed the limit and nobody
// could have lost earlier.
func TestMatchEndsAtPointLimit(t *testing.T) {
	m := NewMatch(twoSeats(), rand.New(rand.NewPCG(7, 0)), quietLog())
	m.PointLimit = 50

	res, err := m.Play()
	require.NoError(t, err)
	require.NotEmpty(t, res.Rounds)

	assert.GreaterOrEqual(t, res.FinalScores[res.Loser], 50)
	assert.NotEqual(t, res.Winner, res.Loser)
	for seat, total := range res.FinalScores {
		assert.GreaterOrEqual(t, total, res.FinalScores[res.Winner],
			"seat %d finished below the declared winner", seat)
	}

	// No earlier round may already have pushed someone over the limit.
	cumulative := make([]int, len(res.FinalScores))
	for i, round := range res.Rounds[:len(res.Rounds)-1] {
		for seat, score := range round.Scores {
			cumulative[seat] += score
		}
		for seat, total := range cumulative {
			assert.Less(t, total, 50, "seat %d over the limit after round %d", seat, i+1)
		}
	}
}

// TestMatchRoundAccounting: round scores sum to the final totals and
// every round has a plausible shape.
func TestMatchRoundAccounting(t *testing.T) {
	m := NewMatch(twoSeats(), rand.New(rand.NewPCG(11, 0)), quietLog())
	res, err := m.Play()
	require.NoError(t, err)

	sums := make([]int, len(res.FinalScores))
	for _, round := range res.Rounds {
		require.Len(t, round.Scores, 2)
		assert.Greater(t, round.Turns, 0)
		if round.CambioCaller >= 0 {
			assert.Less(t, round.CambioCaller, 2)
		}
		for seat, score := range round.Scores {
			sums[seat] += score
		}
	}
	assert.Equal(t, res.FinalScores, sums)
}

func TestMatchUnknownKindFails(t *testing.T) {
	seats := []SeatConfig{
		{Kind: agent.Kind("nope"), Name: "x"},
		{Kind: agent.KindHeuristic, Name: "h"},
	}
	m := NewMatch(seats, rand.New(rand.NewPCG(1, 0)), quietLog())
	_, err := m.Play()
	assert.Error(t, err)
}
