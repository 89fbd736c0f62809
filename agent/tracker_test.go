package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HannahHughes30/cambio.ai/engine"
)

func newSeededTracker() *CardTracker {
	t := NewCardTracker(0)
	t.Initialize(map[int]engine.Card{
		0: engine.NewCard(engine.SuitHearts, engine.RankFive),
		1: engine.NewCard(engine.SuitSpades, engine.RankKing),
	}, 4, []int{1, 2}, 4)
	return t
}

// TestUnaccountedCards checks the 54-card conservation invariant:
// every placed card reduces the unaccounted multiset by exactly one.
func TestUnaccountedCards(t *testing.T) {
	tr := newSeededTracker()
	assert.Len(t, tr.UnaccountedCards(), 52, "54 minus two verified own slots")

	tr.SyncDiscard([]engine.Card{engine.NewCard(engine.SuitClubs, engine.RankNine)})
	assert.Len(t, tr.UnaccountedCards(), 51)

	tr.SetOpponentCard(1, 2, engine.NewCard(engine.SuitDiamonds, engine.RankAce))
	assert.Len(t, tr.UnaccountedCards(), 50)

	// Re-verifying the same slot must not double-count.
	tr.SetOpponentCard(1, 2, engine.NewCard(engine.SuitDiamonds, engine.RankTwo))
	assert.Len(t, tr.UnaccountedCards(), 50)
}

// TestExpectedUnknown checks the mean shifts the right way as low cards
// leave the unknown pool, and the fallback when nothing is left.
func TestExpectedUnknown(t *testing.T) {
	tr := NewCardTracker(0)
	tr.Initialize(nil, 4, []int{1}, 4)
	baseline := tr.ExpectedUnknown()

	// Account all four aces: the remaining pool must look worse.
	tr.SyncDiscard([]engine.Card{
		engine.NewCard(engine.SuitHearts, engine.RankAce),
		engine.NewCard(engine.SuitDiamonds, engine.RankAce),
		engine.NewCard(engine.SuitClubs, engine.RankAce),
		engine.NewCard(engine.SuitSpades, engine.RankAce),
	})
	assert.Greater(t, tr.ExpectedUnknown(), baseline)

	// Everything accounted: fallback value.
	tr2 := NewCardTracker(0)
	tr2.Initialize(nil, 0, nil, 0)
	tr2.SyncDiscard(engine.FullDeck())
	assert.Equal(t, 5.0, tr2.ExpectedUnknown())
}

// TestExpectedScores checks per-slot expectations combine exact values
// with the unknown mean.
func TestExpectedScores(t *testing.T) {
	tr := newSeededTracker()
	eUnknown := tr.ExpectedUnknown()

	// Own: 5 + 10 (black king) + two unknowns.
	assert.InDelta(t, 15+2*eUnknown, tr.ExpectedOwnScore(), 1e-9)

	// Opponent with one verified slot.
	tr.SetOpponentCard(1, 0, engine.NewCard(engine.SuitHearts, engine.RankTwo))
	eUnknown = tr.ExpectedUnknown()
	assert.InDelta(t, 2+3*eUnknown, tr.ExpectedOpponentScore(1), 1e-9)
}

// TestWorstOwnPosition picks the highest verified value, red King
// included.
func TestWorstOwnPosition(t *testing.T) {
	tr := NewCardTracker(0)
	tr.Initialize(map[int]engine.Card{
		1: engine.NewCard(engine.SuitHearts, engine.RankKing), // -1
		2: engine.NewCard(engine.SuitClubs, engine.RankSeven),
	}, 4, []int{1}, 4)

	pos, val, ok := tr.WorstOwnPosition()
	require.True(t, ok)
	assert.Equal(t, 2, pos)
	assert.Equal(t, 7, val)

	empty := NewCardTracker(0)
	empty.Initialize(nil, 4, []int{1}, 4)
	_, _, ok = empty.WorstOwnPosition()
	assert.False(t, ok)
}

// TestRemovalShiftsSlots mirrors the engine's compaction: removing a
// slot renumbers everything above it.
func TestRemovalShiftsSlots(t *testing.T) {
	tr := NewCardTracker(0)
	tr.Initialize(nil, 4, []int{1}, 4)

	two := engine.NewCard(engine.SuitHearts, engine.RankTwo)
	nine := engine.NewCard(engine.SuitSpades, engine.RankNine)
	tr.SetOpponentCard(1, 1, two)
	tr.SetOpponentCard(1, 3, nine)

	tr.RemoveOpponentPosition(1, 1)
	assert.Equal(t, 3, tr.OpponentHandSize(1))
	c, known := tr.OpponentCardAt(1, 2)
	require.True(t, known, "slot 3 should have shifted to slot 2")
	assert.Equal(t, nine, c)
	_, known = tr.OpponentCardAt(1, 1)
	assert.False(t, known)

	// Own-hand removal shifts the same way.
	tr.SetOwnCard(2, two)
	tr.RemoveOwnPosition(0)
	assert.Equal(t, 3, tr.OwnHandSize())
	c, known = tr.OwnCardAt(1)
	require.True(t, known)
	assert.Equal(t, two, c)
}

// TestResize grows with unknown slots and truncates opponents.
func TestResize(t *testing.T) {
	tr := NewCardTracker(0)
	tr.Initialize(nil, 4, []int{1}, 4)

	tr.ResizeOwnHand(6)
	assert.Equal(t, 6, tr.OwnHandSize())
	assert.Len(t, tr.OwnUnknownPositions(), 6)

	tr.ResizeOpponentHand(1, 5)
	assert.Equal(t, 5, tr.OpponentHandSize(1))
	tr.ResizeOpponentHand(1, 3)
	assert.Equal(t, 3, tr.OpponentHandSize(1))
}

// TestOpponentSelfKnowledge covers the second-order belief set.
func TestOpponentSelfKnowledge(t *testing.T) {
	tr := NewCardTracker(0)
	tr.Initialize(nil, 4, []int{1}, 4)
	tr.InitOpponentSelfKnowledge(1)

	assert.True(t, tr.OpponentKnowsSlot(1, 0))
	assert.True(t, tr.OpponentKnowsSlot(1, 1))
	assert.False(t, tr.OpponentKnowsSlot(1, 2))

	tr.OpponentGainsKnowledge(1, 3)
	tr.OpponentLosesKnowledge(1, 0)
	assert.Equal(t, []int{1, 3}, tr.OpponentSelfKnownPositions(1))
}
