package agent

import (
	"math/rand/v2"

	"github.com/HannahHughes30/cambio.ai/engine"
)

// defaultDiscardThreshold is the face value below which the memory-only
// variants consider a discard worth taking.
const defaultDiscardThreshold = 4

// Heuristic is the baseline variant. It plays from the engine-maintained
// knowledge map only, keeps min(max known, drawn) each turn, spends
// powers on fixed first-choice targets, and never calls Cambio.
type Heuristic struct {
	seatCore
	discardThreshold int
}

// NewHeuristic creates the baseline policy.
func NewHeuristic(rng *rand.Rand) *Heuristic {
	return &Heuristic{
		seatCore:         seatCore{rng: rng},
		discardThreshold: defaultDiscardThreshold,
	}
}

func (h *Heuristic) ChooseDraw(g *engine.Game, self *engine.Player) engine.DrawSource {
	if top := g.DiscardTop(); top != engine.EmptyCard && top.Value() < h.discardThreshold {
		return engine.DrawDiscard
	}
	return engine.DrawDeck
}

func (h *Heuristic) ChooseAction(g *engine.Game, self *engine.Player, drawn engine.Card) engine.Action {
	pos, val, ok := maxKnownPosition(self)
	if ok && drawn.Value() < val {
		return engine.SwapInto(pos)
	}
	return engine.Discard()
}

func (h *Heuristic) ChoosePowerAction(g *engine.Game, self *engine.Player, card engine.Card) engine.PowerAction {
	opps := g.Opponents(h.seat)

	switch card.Power() {
	case engine.PowerPeekOwn:
		if pos, ok := firstUnknownPosition(self); ok {
			return engine.PowerAction{Kind: engine.PowerActPeekOwn, Pos: pos}
		}
	case engine.PowerPeekOther:
		if len(opps) > 0 && g.HandSize(opps[0]) > 0 {
			return engine.PowerAction{Kind: engine.PowerActPeekOpponent, Seat: opps[0], Pos: 0}
		}
	case engine.PowerBlindSwap:
		pos, _, ok := maxKnownPosition(self)
		if ok && len(opps) > 0 && g.HandSize(opps[0]) > 0 {
			return engine.PowerAction{Kind: engine.PowerActBlindSwap, MyPos: pos, Seat: opps[0], Pos: 0}
		}
	case engine.PowerKingSwap:
		pos, _, ok := maxKnownPosition(self)
		if ok && len(opps) > 0 && g.HandSize(opps[0]) > 0 {
			return engine.PowerAction{Kind: engine.PowerActKingSwap, MyPos: pos, Seat: opps[0], Pos: 0}
		}
	}
	return engine.PowerAction{Kind: engine.PowerActNone}
}

// ConfirmKingSwap always takes the swap; the baseline committed to its
// worst slot before peeking and does not second-guess.
func (h *Heuristic) ConfirmKingSwap(g *engine.Game, self *engine.Player, act engine.PowerAction, peeked engine.Card) bool {
	return true
}

func (h *Heuristic) ChooseStick(g *engine.Game, self *engine.Player) []int {
	return knownMatchingRank(self, g.DiscardTop())
}

// CallCambio never fires; the baseline exists to measure everyone else.
func (h *Heuristic) CallCambio(g *engine.Game, self *engine.Player) bool { return false }

func (h *Heuristic) ObservePeek(g *engine.Game, seat, pos int, card engine.Card) {}
func (h *Heuristic) ObserveTurn(g *engine.Game, ev *engine.TurnEvent)            {}
func (h *Heuristic) ObserveStick(g *engine.Game, ev *engine.StickEvent)          {}

// ---------------------------------------------------------------------------
// knowledge-map helpers shared by the memory-only variants
// ---------------------------------------------------------------------------

// maxKnownPosition returns the highest-value slot in the engine's
// knowledge map, scanning in slot order so ties resolve to the lowest
// position.
func maxKnownPosition(self *engine.Player) (pos, val int, ok bool) {
	pos, val = -1, -2 // below the red King
	for p := 0; p < len(self.Hand); p++ {
		c, known := self.KnownAt(p)
		if !known {
			continue
		}
		if v := c.Value(); v > val {
			pos, val = p, v
		}
	}
	return pos, val, pos >= 0
}

// firstUnknownPosition returns the lowest slot absent from the
// knowledge map.
func firstUnknownPosition(self *engine.Player) (int, bool) {
	for p := 0; p < len(self.Hand); p++ {
		if _, known := self.KnownAt(p); !known {
			return p, true
		}
	}
	return 0, false
}

// knownMatchingRank lists known slots whose rank matches the discard
// top.
func knownMatchingRank(self *engine.Player, top engine.Card) []int {
	if top == engine.EmptyCard {
		return nil
	}
	var out []int
	for p := 0; p < len(self.Hand); p++ {
		if c, known := self.KnownAt(p); known && c.Rank() == top.Rank() {
			out = append(out, p)
		}
	}
	return out
}
