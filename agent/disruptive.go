package agent

import (
	"math/rand/v2"
	"sort"

	"github.com/HannahHughes30/cambio.ai/engine"
)

const (
	// disruptionBonus is added to a swap target's score when its owner
	// is believed to remember that slot. Voiding a remembered low card
	// hurts more than taking an equal card the owner forgot about.
	disruptionBonus = 3.0

	// goodHandThreshold: when our worst known slot is at or below this,
	// the hand does not need improving and powers shift to sabotage.
	goodHandThreshold = 5
)

// Disruptive extends EVGreedy with second-order belief: it tracks which
// slots each opponent remembers and spends blind swaps, third-party
// swaps, and the black king on scrambling that knowledge once its own
// hand is in shape.
type Disruptive struct {
	EVGreedy
}

// NewDisruptive creates the sabotage-aware policy.
func NewDisruptive(rng *rand.Rand) *Disruptive {
	a := &Disruptive{}
	a.rng = rng
	a.trackSelfKnowledge = true
	return a
}

func (a *Disruptive) ChoosePowerAction(g *engine.Game, self *engine.Player, card engine.Card) engine.PowerAction {
	a.ensureTracker(g)
	opps := g.Opponents(a.seat)

	switch card.Power() {
	case engine.PowerPeekOwn, engine.PowerPeekOther:
		return a.EVGreedy.ChoosePowerAction(g, self, card)
	case engine.PowerBlindSwap:
		return a.chooseJackQueen(g, self, opps)
	case engine.PowerKingSwap:
		return a.chooseBlackKing(g, self, opps)
	}
	return engine.PowerAction{Kind: engine.PowerActNone}
}

// chooseJackQueen tries a self-improving swap first; when the hand is
// already good it spends the power scrambling two opponents instead.
func (a *Disruptive) chooseJackQueen(g *engine.Game, self *engine.Player, opps []int) engine.PowerAction {
	worstPos, worstVal, hasWorst := a.tracker.WorstOwnPosition()
	eUnknown := a.tracker.ExpectedUnknown()

	if hasWorst && len(opps) > 0 && worstPos < len(self.Hand) && float64(worstVal) > eUnknown+1 {
		if seat, pos, ok := a.findDisruptiveSwapTarget(g, opps); ok {
			return engine.PowerAction{Kind: engine.PowerActBlindSwap, MyPos: worstPos, Seat: seat, Pos: pos}
		}
		seat := opps[a.rng.IntN(len(opps))]
		if n := g.HandSize(seat); n > 0 {
			return engine.PowerAction{Kind: engine.PowerActBlindSwap, MyPos: worstPos, Seat: seat, Pos: a.rng.IntN(n)}
		}
	}

	handVal := eUnknown
	if hasWorst {
		handVal = float64(worstVal)
	}
	if handVal <= goodHandThreshold && len(opps) >= 2 {
		if pair, ok := a.findBestDisruptionSwap(g, opps); ok {
			return engine.PowerAction{
				Kind:  engine.PowerActThirdPartySwap,
				Seat:  pair.seat1,
				Pos:   pair.pos1,
				Seat2: pair.seat2,
				Pos2:  pair.pos2,
			}
		}
	}
	return engine.PowerAction{Kind: engine.PowerActNone}
}

// chooseBlackKing runs in one of two modes. With a strong hand and two
// or more opponents it peeks for intel (own unknown slots first) and
// swaps two opponents' remembered slots. Otherwise it falls back to the
// peek-then-maybe-swap of the parent variant.
func (a *Disruptive) chooseBlackKing(g *engine.Game, self *engine.Player, opps []int) engine.PowerAction {
	worstPos, worstVal, hasWorst := a.tracker.WorstOwnPosition()
	eUnknown := a.tracker.ExpectedUnknown()

	handVal := eUnknown
	if hasWorst {
		handVal = float64(worstVal)
	} else {
		worstPos = 0
	}

	if handVal <= goodHandThreshold && len(opps) >= 2 {
		peekSeat, peekPos, havePeek := a.bestPeekTargetAny(self, opps)
		pair, havePair := a.findBestDisruptionSwap(g, opps)
		if havePeek && havePair {
			return engine.PowerAction{
				Kind:     engine.PowerActKingPeekSwap,
				PeekSeat: peekSeat,
				PeekPos:  peekPos,
				Seat:     pair.seat1,
				Pos:      pair.pos1,
				Seat2:    pair.seat2,
				Pos2:     pair.pos2,
			}
		}
		// No disruption available; fall through to info mode.
	}

	if hasWorst && worstPos < len(self.Hand) && handVal > eUnknown-2 && len(opps) > 0 {
		if seat, pos, ok := a.mostUnknownTarget(opps); ok {
			return engine.PowerAction{Kind: engine.PowerActKingSwap, MyPos: worstPos, Seat: seat, Pos: pos}
		}
	}
	return engine.PowerAction{Kind: engine.PowerActNone}
}

// findDisruptiveSwapTarget scores every verified opponent slot by
// -value, plus disruptionBonus when its owner remembers it, and returns
// the best.
func (a *Disruptive) findDisruptiveSwapTarget(g *engine.Game, opps []int) (seat, pos int, ok bool) {
	bestSeat, bestPos := -1, -1
	bestScore := 0.0
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
			score := -float64(c.Value())
			if a.tracker.OpponentKnowsSlot(opp, p) {
				score += disruptionBonus
			}
			if bestSeat < 0 || score > bestScore {
				bestScore = score
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

type disruptionPair struct {
	seat1, pos1 int
	seat2, pos2 int
}

// findBestDisruptionSwap picks two remembered slots on two different
// opponents, lowest believed values first; those are the cards their
// owners are counting on.
func (a *Disruptive) findBestDisruptionSwap(g *engine.Game, opps []int) (disruptionPair, bool) {
	type candidate struct {
		seat, pos int
		val       float64
	}
	eUnknown := a.tracker.ExpectedUnknown()

	var candidates []candidate
	for _, opp := range opps {
		limit := a.tracker.OpponentHandSize(opp)
		if n := g.HandSize(opp); n < limit {
			limit = n
		}
		for _, pos := range a.tracker.OpponentSelfKnownPositions(opp) {
			if pos >= limit {
				continue
			}
			val := eUnknown
			if c, known := a.tracker.OpponentCardAt(opp, pos); known {
				val = float64(c.Value())
			}
			candidates = append(candidates, candidate{seat: opp, pos: pos, val: val})
		}
	}
	if len(candidates) < 2 {
		return disruptionPair{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].val < candidates[j].val })

	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[i].seat != candidates[j].seat {
				return disruptionPair{
					seat1: candidates[i].seat, pos1: candidates[i].pos,
					seat2: candidates[j].seat, pos2: candidates[j].pos,
				}, true
			}
		}
	}
	return disruptionPair{}, false
}

// bestPeekTargetAny prefers peeking an own unknown slot: self-intel
// feeds the Cambio gate and reveals nothing to anyone else. It falls
// back to the parent's opponent-peek choice.
func (a *Disruptive) bestPeekTargetAny(self *engine.Player, opps []int) (seat, pos int, ok bool) {
	if unknowns := a.ownUnknowns(self); len(unknowns) > 0 {
		return a.seat, unknowns[a.rng.IntN(len(unknowns))], true
	}
	return a.bestPeekTarget(opps)
}
