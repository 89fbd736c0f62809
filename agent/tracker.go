// Package agent implements the decision policies that play Cambio and
// the per-seat belief tracker they share. A tracker reconstructs, from
// the public turn/stick records alone, where all 54 cards could be:
// discard pile, verified own slots, verified opponent slots, and the
// unaccounted remainder that expected-value queries average over.
package agent

import (
	"github.com/HannahHughes30/cambio.ai/engine"
)

// evFallback is returned by ExpectedUnknown when every card is
// accounted for and there is nothing left to average.
const evFallback = 5.0

// CardTracker is one observing seat's belief state for a single round.
// Hands are slot slices where engine.EmptyCard marks "unknown"; slots
// are keyed by integer seat index, never display name.
type CardTracker struct {
	selfSeat int
	discard  []engine.Card
	ownHand  []engine.Card
	oppHands map[int][]engine.Card

	// oppSelfKnowledge is second-order belief: the slot set each
	// opponent is believed to currently remember about its own hand.
	oppSelfKnowledge map[int]map[int]bool
}

// NewCardTracker creates an empty tracker for the given observing seat.
func NewCardTracker(selfSeat int) *CardTracker {
	return &CardTracker{
		selfSeat:         selfSeat,
		oppHands:         make(map[int][]engine.Card),
		oppSelfKnowledge: make(map[int]map[int]bool),
	}
}

// Initialize seeds the tracker after the deal: the seat's verified own
// slots, its hand size, and every opponent seat at oppHandSize unknown
// slots.
func (t *CardTracker) Initialize(ownKnown map[int]engine.Card, handSize int, oppSeats []int, oppHandSize int) {
	t.ownHand = make([]engine.Card, handSize)
	for i := range t.ownHand {
		t.ownHand[i] = engine.EmptyCard
	}
	for pos, c := range ownKnown {
		if pos >= 0 && pos < handSize {
			t.ownHand[pos] = c
		}
	}
	for _, seat := range oppSeats {
		hand := make([]engine.Card, oppHandSize)
		for i := range hand {
			hand[i] = engine.EmptyCard
		}
		t.oppHands[seat] = hand
	}
}

// SyncDiscard replaces the mirrored discard pile with the engine's.
// Always replacing (rather than appending) keeps the mirror correct
// across reshuffles, which shrink the pile.
func (t *CardTracker) SyncDiscard(pile []engine.Card) {
	t.discard = t.discard[:0]
	t.discard = append(t.discard, pile...)
}

// SetOwnCard records a verified card at an own slot.
func (t *CardTracker) SetOwnCard(pos int, c engine.Card) {
	if pos >= 0 && pos < len(t.ownHand) {
		t.ownHand[pos] = c
	}
}

// ClearOwnCard marks an own slot unknown (it was swapped away).
func (t *CardTracker) ClearOwnCard(pos int) {
	if pos >= 0 && pos < len(t.ownHand) {
		t.ownHand[pos] = engine.EmptyCard
	}
}

// SetOpponentCard records a verified card at an opponent slot.
func (t *CardTracker) SetOpponentCard(seat, pos int, c engine.Card) {
	hand := t.oppHands[seat]
	if pos >= 0 && pos < len(hand) {
		hand[pos] = c
	}
}

// ClearOpponentCard marks an opponent slot unknown.
func (t *CardTracker) ClearOpponentCard(seat, pos int) {
	hand := t.oppHands[seat]
	if pos >= 0 && pos < len(hand) {
		hand[pos] = engine.EmptyCard
	}
}

// RemoveOwnPosition drops an own slot (successful stick) and shifts
// higher slots down, mirroring the engine's compaction.
func (t *CardTracker) RemoveOwnPosition(pos int) {
	if pos >= 0 && pos < len(t.ownHand) {
		t.ownHand = append(t.ownHand[:pos], t.ownHand[pos+1:]...)
	}
}

// RemoveOpponentPosition drops an opponent slot with the same shift.
func (t *CardTracker) RemoveOpponentPosition(seat, pos int) {
	hand := t.oppHands[seat]
	if pos >= 0 && pos < len(hand) {
		t.oppHands[seat] = append(hand[:pos], hand[pos+1:]...)
	}
}

// ResizeOwnHand grows the own-hand model with unknown slots (penalty
// draws). Shrinking is handled by RemoveOwnPosition, which knows which
// slot went away.
func (t *CardTracker) ResizeOwnHand(n int) {
	for len(t.ownHand) < n {
		t.ownHand = append(t.ownHand, engine.EmptyCard)
	}
}

// ResizeOpponentHand adjusts an opponent's slot count: growth appends
// unknown slots, shrink truncates.
func (t *CardTracker) ResizeOpponentHand(seat, n int) {
	hand := t.oppHands[seat]
	for len(hand) < n {
		hand = append(hand, engine.EmptyCard)
	}
	if len(hand) > n {
		hand = hand[:n]
	}
	t.oppHands[seat] = hand
}

// OwnHandSize returns the tracked own slot count.
func (t *CardTracker) OwnHandSize() int { return len(t.ownHand) }

// OpponentHandSize returns the tracked slot count for an opponent.
func (t *CardTracker) OpponentHandSize(seat int) int { return len(t.oppHands[seat]) }

// OwnCardAt returns the verified card at an own slot, if any.
func (t *CardTracker) OwnCardAt(pos int) (engine.Card, bool) {
	if pos < 0 || pos >= len(t.ownHand) || t.ownHand[pos] == engine.EmptyCard {
		return engine.EmptyCard, false
	}
	return t.ownHand[pos], true
}

// OpponentCardAt returns the verified card at an opponent slot, if any.
func (t *CardTracker) OpponentCardAt(seat, pos int) (engine.Card, bool) {
	hand := t.oppHands[seat]
	if pos < 0 || pos >= len(hand) || hand[pos] == engine.EmptyCard {
		return engine.EmptyCard, false
	}
	return hand[pos], true
}

// OpponentSeats returns the tracked opponent seat indices in seat order.
func (t *CardTracker) OpponentSeats() []int {
	out := make([]int, 0, len(t.oppHands))
	max := -1
	for seat := range t.oppHands {
		if seat > max {
			max = seat
		}
	}
	for seat := 0; seat <= max; seat++ {
		if _, ok := t.oppHands[seat]; ok {
			out = append(out, seat)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// EV queries
// ---------------------------------------------------------------------------

// UnaccountedCards returns the full 54-card multiset minus every card
// currently placed (discard, verified own slots, verified opponent
// slots). Duplicates — the jokers — are removed one-for-one.
func (t *CardTracker) UnaccountedCards() []engine.Card {
	counts := make(map[engine.Card]int, engine.DeckSize)
	full := engine.FullDeck()
	for _, c := range full {
		counts[c]++
	}
	account := func(c engine.Card) {
		if counts[c] > 0 {
			counts[c]--
		}
	}
	for _, c := range t.discard {
		account(c)
	}
	for _, c := range t.ownHand {
		if c != engine.EmptyCard {
			account(c)
		}
	}
	for _, hand := range t.oppHands {
		for _, c := range hand {
			if c != engine.EmptyCard {
				account(c)
			}
		}
	}
	out := make([]engine.Card, 0, engine.DeckSize)
	for _, c := range full {
		if counts[c] > 0 {
			counts[c]--
			out = append(out, c)
		}
	}
	return out
}

// ExpectedUnknown is the mean value over the unaccounted multiset.
func (t *CardTracker) ExpectedUnknown() float64 {
	remaining := t.UnaccountedCards()
	if len(remaining) == 0 {
		return evFallback
	}
	sum := 0
	for _, c := range remaining {
		sum += c.Value()
	}
	return float64(sum) / float64(len(remaining))
}

// ExpectedValueAt returns the exact value of a verified own slot, or
// the unknown-card expectation otherwise.
func (t *CardTracker) ExpectedValueAt(pos int) float64 {
	if c, ok := t.OwnCardAt(pos); ok {
		return float64(c.Value())
	}
	return t.ExpectedUnknown()
}

// ExpectedOwnScore sums per-slot expectations over the whole own hand.
func (t *CardTracker) ExpectedOwnScore() float64 {
	total := 0.0
	for pos := range t.ownHand {
		total += t.ExpectedValueAt(pos)
	}
	return total
}

// ExpectedOpponentScore sums per-slot expectations for an opponent,
// using the unknown expectation for every unverified slot.
func (t *CardTracker) ExpectedOpponentScore(seat int) float64 {
	hand, ok := t.oppHands[seat]
	if !ok {
		return float64(engine.DealSize) * t.ExpectedUnknown()
	}
	eUnknown := t.ExpectedUnknown()
	total := 0.0
	for _, c := range hand {
		if c != engine.EmptyCard {
			total += float64(c.Value())
		} else {
			total += eUnknown
		}
	}
	return total
}

// OwnUnknownPositions lists own slots with no verified card.
func (t *CardTracker) OwnUnknownPositions() []int {
	out := []int{}
	for pos, c := range t.ownHand {
		if c == engine.EmptyCard {
			out = append(out, pos)
		}
	}
	return out
}

// OwnKnownCount returns the number of verified own slots.
func (t *CardTracker) OwnKnownCount() int {
	n := 0
	for _, c := range t.ownHand {
		if c != engine.EmptyCard {
			n++
		}
	}
	return n
}

// OpponentUnknownPositions lists an opponent's unverified slots.
func (t *CardTracker) OpponentUnknownPositions(seat int) []int {
	out := []int{}
	for pos, c := range t.oppHands[seat] {
		if c == engine.EmptyCard {
			out = append(out, pos)
		}
	}
	return out
}

// OpponentKnownCount returns the number of verified slots for a seat.
func (t *CardTracker) OpponentKnownCount(seat int) int {
	n := 0
	for _, c := range t.oppHands[seat] {
		if c != engine.EmptyCard {
			n++
		}
	}
	return n
}

// WorstOwnPosition returns the highest-value verified own slot.
// ok is false when no own slot is verified.
func (t *CardTracker) WorstOwnPosition() (pos, val int, ok bool) {
	pos, val = -1, -2 // below the red King
	for p, c := range t.ownHand {
		if c == engine.EmptyCard {
			continue
		}
		if v := c.Value(); v > val {
			pos, val = p, v
		}
	}
	return pos, val, pos >= 0
}

// ---------------------------------------------------------------------------
// Opponent self-knowledge (second-order belief)
// ---------------------------------------------------------------------------

// InitOpponentSelfKnowledge seeds the belief that a seat remembers its
// two dealt-and-revealed slots.
func (t *CardTracker) InitOpponentSelfKnowledge(seat int) {
	t.oppSelfKnowledge[seat] = map[int]bool{0: true, 1: true}
}

// OpponentGainsKnowledge records that a seat now knows one of its own
// slots (it drew and swapped into it).
func (t *CardTracker) OpponentGainsKnowledge(seat, pos int) {
	set, ok := t.oppSelfKnowledge[seat]
	if !ok {
		set = make(map[int]bool)
		t.oppSelfKnowledge[seat] = set
	}
	set[pos] = true
}

// OpponentLosesKnowledge records that a slot a seat knew was disturbed
// by a blind, king, or third-party swap.
func (t *CardTracker) OpponentLosesKnowledge(seat, pos int) {
	if set, ok := t.oppSelfKnowledge[seat]; ok {
		delete(set, pos)
	}
}

// OpponentKnowsSlot reports the belief that a seat remembers one of its
// own slots.
func (t *CardTracker) OpponentKnowsSlot(seat, pos int) bool {
	return t.oppSelfKnowledge[seat][pos]
}

// OpponentSelfKnownPositions lists the slots a seat is believed to
// remember, in ascending order.
func (t *CardTracker) OpponentSelfKnownPositions(seat int) []int {
	set := t.oppSelfKnowledge[seat]
	out := []int{}
	for pos := 0; pos < t.OpponentHandSize(seat); pos++ {
		if set[pos] {
			out = append(out, pos)
		}
	}
	return out
}
