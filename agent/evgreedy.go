package agent

import (
	"math/rand/v2"

	"github.com/HannahHughes30/cambio.ai/engine"
)

// EVGreedy tuning. The Cambio gate has two independent paths: a
// high-confidence call when nearly every own slot is verified, and an
// EV-dominance call when the expected score is far ahead of every
// opponent regardless of certainty.
const (
	cambioThreshold   = 10.0 // expected own score must beat this to call
	cambioMargin      = 4.0  // required lead over every opponent, shrinks with knowledge
	cambioKnowledge   = 1    // max unverified own slots for the confident path
	evDominanceMargin = 8.0  // lead that justifies calling on expectation alone

	discardImprovement = 3.0 // EV gain required to draw from the discard
	infoBonus          = 1.0 // extra score for swapping a low card into an unknown slot
	lowCardMax         = 3   // drawn value at or below this earns the info bonus
)

// EVGreedy plays from the full belief tracker: every decision compares
// expected values over the unaccounted card multiset.
type EVGreedy struct {
	trackerCore
}

// NewEVGreedy creates the belief-driven policy.
func NewEVGreedy(rng *rand.Rand) *EVGreedy {
	a := &EVGreedy{}
	a.rng = rng
	return a
}

// ChooseDraw takes the discard only when it is clearly better than an
// unknown deck card: always for zero-or-negative values, otherwise when
// some slot improves by at least discardImprovement.
func (a *EVGreedy) ChooseDraw(g *engine.Game, self *engine.Player) engine.DrawSource {
	a.ensureTracker(g)
	top := g.DiscardTop()
	if top == engine.EmptyCard {
		return engine.DrawDeck
	}
	if top.Value() <= 0 {
		return engine.DrawDiscard
	}
	discardValue := float64(top.Value())
	best := 0.0
	for pos := 0; pos < a.tracker.OwnHandSize(); pos++ {
		if imp := a.tracker.ExpectedValueAt(pos) - discardValue; imp > best {
			best = imp
		}
	}
	if best >= discardImprovement {
		return engine.DrawDiscard
	}
	return engine.DrawDeck
}

// ChooseAction swaps into the slot with the biggest EV improvement. A
// low drawn card aimed at an unknown slot earns a small bonus: the swap
// also buys certainty, which feeds the Cambio gate.
func (a *EVGreedy) ChooseAction(g *engine.Game, self *engine.Player, drawn engine.Card) engine.Action {
	a.ensureTracker(g)
	drawnValue := drawn.Value()

	bestPos := -1
	bestScore := 0.0
	limit := a.tracker.OwnHandSize()
	if n := len(self.Hand); n < limit {
		limit = n
	}
	for pos := 0; pos < limit; pos++ {
		score := a.tracker.ExpectedValueAt(pos) - float64(drawnValue)
		if _, known := a.tracker.OwnCardAt(pos); !known && drawnValue <= lowCardMax {
			score += infoBonus
		}
		if score > bestScore {
			bestScore = score
			bestPos = pos
		}
	}
	if bestPos >= 0 && bestScore > 0 {
		return engine.SwapInto(bestPos)
	}
	return engine.Discard()
}

func (a *EVGreedy) ChoosePowerAction(g *engine.Game, self *engine.Player, card engine.Card) engine.PowerAction {
	a.ensureTracker(g)
	opps := g.Opponents(a.seat)

	switch card.Power() {
	case engine.PowerPeekOwn:
		if unknowns := a.ownUnknowns(self); len(unknowns) > 0 {
			return engine.PowerAction{Kind: engine.PowerActPeekOwn, Pos: unknowns[0]}
		}

	case engine.PowerPeekOther:
		if seat, pos, ok := a.bestPeekTarget(opps); ok {
			return engine.PowerAction{Kind: engine.PowerActPeekOpponent, Seat: seat, Pos: pos}
		}

	case engine.PowerBlindSwap:
		worstPos, worstVal, ok := a.tracker.WorstOwnPosition()
		if !ok || len(opps) == 0 || worstPos >= len(self.Hand) {
			break
		}
		if float64(worstVal) > a.tracker.ExpectedUnknown()+1 {
			if seat, pos, ok := a.findBestSwapTarget(g, opps); ok {
				return engine.PowerAction{Kind: engine.PowerActBlindSwap, MyPos: worstPos, Seat: seat, Pos: pos}
			}
			seat := opps[a.rng.IntN(len(opps))]
			if n := g.HandSize(seat); n > 0 {
				return engine.PowerAction{Kind: engine.PowerActBlindSwap, MyPos: worstPos, Seat: seat, Pos: a.rng.IntN(n)}
			}
		}

	case engine.PowerKingSwap:
		worstPos, worstVal, ok := a.tracker.WorstOwnPosition()
		if !ok || len(opps) == 0 || worstPos >= len(self.Hand) {
			break
		}
		// Looser gate than the blind swap: the peek happens before the
		// commit, so a marginal worst slot is still worth the look.
		if float64(worstVal) > a.tracker.ExpectedUnknown()-2 {
			if seat, pos, ok := a.mostUnknownTarget(opps); ok {
				return engine.PowerAction{Kind: engine.PowerActKingSwap, MyPos: worstPos, Seat: seat, Pos: pos}
			}
		}
	}
	return engine.PowerAction{Kind: engine.PowerActNone}
}

// ConfirmKingSwap takes the swap only when the peeked card beats the
// committed own slot.
func (a *EVGreedy) ConfirmKingSwap(g *engine.Game, self *engine.Player, act engine.PowerAction, peeked engine.Card) bool {
	ownPos := act.MyPos
	if act.Kind == engine.PowerActKingPeekSwap {
		// The own slot is whichever side of the pair belongs to us.
		switch a.seat {
		case act.Seat:
			ownPos = act.Pos
		case act.Seat2:
			ownPos = act.Pos2
		}
	}
	if ownPos < 0 || ownPos >= len(self.Hand) {
		return false
	}
	return peeked.Value() < self.Hand[ownPos].Value()
}

func (a *EVGreedy) ChooseStick(g *engine.Game, self *engine.Player) []int {
	a.ensureTracker(g)
	top := g.DiscardTop()
	if top == engine.EmptyCard {
		return nil
	}
	var out []int
	for pos := 0; pos < a.tracker.OwnHandSize(); pos++ {
		if c, known := a.tracker.OwnCardAt(pos); known && c.Rank() == top.Rank() {
			out = append(out, pos)
		}
	}
	return out
}

// CallCambio fires on either of two paths. Path one needs near-total
// self-knowledge, a low expected score, and a lead over every opponent;
// the required lead shrinks as more opponent slots are verified, since
// exact estimates need no buffer. Path two ignores certainty and calls
// whenever the expected score dominates every opponent by a wide
// margin.
func (a *EVGreedy) CallCambio(g *engine.Game, self *engine.Player) bool {
	a.ensureTracker(g)
	t := a.tracker

	knownCount := t.OwnKnownCount()
	handSize := len(self.Hand)
	myExpected := t.ExpectedOwnScore()
	oppSeats := t.OpponentSeats()

	oppKnown, oppPositions := 0, 0
	for _, seat := range oppSeats {
		oppPositions += t.OpponentHandSize(seat)
		oppKnown += t.OpponentKnownCount(seat)
	}
	adaptiveMargin := cambioMargin
	if oppPositions > 0 {
		knowledgeRatio := float64(oppKnown) / float64(oppPositions)
		adaptiveMargin = cambioMargin * (1 - knowledgeRatio)
	}

	if knownCount >= handSize-cambioKnowledge {
		adaptiveThreshold := cambioThreshold
		if handSize <= 3 {
			// Shrunk hands reach lower totals; demand one.
			adaptiveThreshold = 7
		}

		hasMargin := true
		for _, seat := range oppSeats {
			if myExpected >= t.ExpectedOpponentScore(seat)-adaptiveMargin {
				hasMargin = false
				break
			}
		}
		if hasMargin && myExpected < adaptiveThreshold {
			return true
		}
		if knownCount == handSize && myExpected < 8 {
			return true
		}
	}

	for _, seat := range oppSeats {
		if myExpected >= t.ExpectedOpponentScore(seat)-evDominanceMargin {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// targeting helpers
// ---------------------------------------------------------------------------

// ownUnknowns lists own unknown slots clamped to the live hand size.
func (a *EVGreedy) ownUnknowns(self *engine.Player) []int {
	var out []int
	for _, pos := range a.tracker.OwnUnknownPositions() {
		if pos < len(self.Hand) {
			out = append(out, pos)
		}
	}
	return out
}

// bestPeekTarget prefers an unknown slot on the opponent most likely to
// be winning (lowest expected score), falling back to any opponent with
// unknown slots.
func (a *EVGreedy) bestPeekTarget(opps []int) (seat, pos int, ok bool) {
	bestSeat, bestPos := -1, -1
	bestScore := 0.0
	for _, opp := range opps {
		unknowns := a.tracker.OpponentUnknownPositions(opp)
		if len(unknowns) == 0 {
			continue
		}
		score := a.tracker.ExpectedOpponentScore(opp)
		if bestSeat < 0 || score < bestScore {
			bestScore = score
			bestSeat = opp
			bestPos = unknowns[a.rng.IntN(len(unknowns))]
		}
	}
	if bestSeat < 0 {
		return 0, 0, false
	}
	return bestSeat, bestPos, true
}

// findBestSwapTarget picks the known-lowest opponent slot: a blind swap
// into it trades our worst card for their best.
func (a *EVGreedy) findBestSwapTarget(g *engine.Game, opps []int) (seat, pos int, ok bool) {
	bestSeat, bestPos := -1, -1
	bestVal := 0
	for _, opp := range opps {
		limit := a.tracker.OpponentHandSize(opp)
		if n := g.HandSize(opp); n < limit {
			limit = n
		}
		for p := 0; p < limit; p++ {
			c, known := a.tracker.OpponentCardAt(opp, p)
			if !known {
				continue
			}
			if v := c.Value(); bestSeat < 0 || v < bestVal {
				bestVal = v
				bestSeat = opp
				bestPos = p
			}
		}
	}
	if bestSeat < 0 {
		return 0, 0, false
	}
	return bestSeat, bestPos, true
}

// mostUnknownTarget picks the opponent with the most unverified slots
// and a random unknown slot on it.
func (a *EVGreedy) mostUnknownTarget(opps []int) (seat, pos int, ok bool) {
	bestSeat, bestPos := -1, -1
	mostUnknowns := -1
	for _, opp := range opps {
		unknowns := a.tracker.OpponentUnknownPositions(opp)
		if len(unknowns) > mostUnknowns {
			mostUnknowns = len(unknowns)
			bestSeat = opp
			if len(unknowns) > 0 {
				bestPos = unknowns[a.rng.IntN(len(unknowns))]
			} else {
				bestPos = -1
			}
		}
	}
	if bestSeat < 0 || bestPos < 0 {
		return 0, 0, false
	}
	return bestSeat, bestPos, true
}
