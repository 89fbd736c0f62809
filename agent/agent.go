package agent

import (
	"fmt"
	"math/rand/v2"

	"github.com/HannahHughes30/cambio.ai/engine"
)

// Kind selects a policy variant. Simulation configs refer to variants
// by these tags.
type Kind string

const (
	KindHeuristic  Kind = "heuristic"
	KindSmart      Kind = "smart"
	KindEVGreedy   Kind = "evgreedy"
	KindDisruptive Kind = "disruptive"
)

// Kinds lists every variant tag in a stable order.
func Kinds() []Kind {
	return []Kind{KindHeuristic, KindSmart, KindEVGreedy, KindDisruptive}
}

// Bindable is an engine.Policy that must learn its seat before play.
// The match harness calls Bind once after seating is decided.
type Bindable interface {
	engine.Policy
	Bind(self *engine.Player, seat int)
}

// New constructs a fresh policy of the given kind with its own RNG.
func New(kind Kind, rng *rand.Rand) (Bindable, error) {
	switch kind {
	case KindHeuristic:
		return NewHeuristic(rng), nil
	case KindSmart:
		return NewSmart(rng), nil
	case KindEVGreedy:
		return NewEVGreedy(rng), nil
	case KindDisruptive:
		return NewDisruptive(rng), nil
	default:
		return nil, fmt.Errorf("agent: unknown policy kind %q", kind)
	}
}

// ---------------------------------------------------------------------------
// shared seat binding
// ---------------------------------------------------------------------------

// seatCore carries the seat identity every variant needs. Policies are
// created unbound; Bind attaches them to their player and seat index.
type seatCore struct {
	self *engine.Player
	seat int
	rng  *rand.Rand
}

func (c *seatCore) Bind(self *engine.Player, seat int) {
	c.self = self
	c.seat = seat
}

// ---------------------------------------------------------------------------
// shared belief maintenance
// ---------------------------------------------------------------------------

// trackerCore folds the public turn/stick records into a CardTracker.
// The EV-driven variants embed it; the memory-only variants do not.
// When trackSelfKnowledge is set it additionally maintains the
// second-order model of what each opponent remembers about its own
// hand.
type trackerCore struct {
	seatCore
	tracker            *CardTracker
	trackSelfKnowledge bool
}

// ensureTracker lazily initializes the belief state. Deferring to the
// first observation (rather than Bind) lets the same policy survive the
// deal, whose initial peeks land in self.Known before any turn runs.
func (c *trackerCore) ensureTracker(g *engine.Game) {
	if c.tracker != nil {
		return
	}
	c.tracker = NewCardTracker(c.seat)
	opps := g.Opponents(c.seat)
	c.tracker.Initialize(c.self.Known, len(c.self.Hand), opps, engine.DealSize)
	c.tracker.SyncDiscard(g.DiscardPile())
	if c.trackSelfKnowledge {
		for _, seat := range opps {
			c.tracker.InitOpponentSelfKnowledge(seat)
		}
	}
}

// ObservePeek records a privately revealed card.
func (c *trackerCore) ObservePeek(g *engine.Game, seat, pos int, card engine.Card) {
	c.ensureTracker(g)
	if seat == c.seat {
		c.tracker.SetOwnCard(pos, card)
	} else {
		c.tracker.SetOpponentCard(seat, pos, card)
	}
}

// ObserveTurn folds one resolved turn into the belief state.
func (c *trackerCore) ObserveTurn(g *engine.Game, ev *engine.TurnEvent) {
	c.ensureTracker(g)
	t := c.tracker

	t.SyncDiscard(g.DiscardPile())
	t.ResizeOwnHand(len(c.self.Hand))
	for _, seat := range g.Opponents(c.seat) {
		t.ResizeOpponentHand(seat, g.HandSize(seat))
	}

	c.applySwapEffects(ev)

	if ev.Seat != c.seat && ev.Action == engine.ActionSwap {
		// An opponent kept the drawn card. A discard draw is public,
		// so the destination slot is now verified; a deck draw voids
		// whatever was believed there.
		if ev.Source == engine.DrawDiscard && ev.DrawnDiscard != engine.EmptyCard {
			t.SetOpponentCard(ev.Seat, ev.SwapPos, ev.DrawnDiscard)
		} else {
			t.ClearOpponentCard(ev.Seat, ev.SwapPos)
		}
		if c.trackSelfKnowledge {
			t.OpponentGainsKnowledge(ev.Seat, ev.SwapPos)
		}
	}

	// Re-verify own slots from the engine's knowledge map; the engine
	// keeps it current across swaps on our behalf.
	for pos, card := range c.self.Known {
		t.SetOwnCard(pos, card)
	}
}

// applySwapEffects voids belief at every slot a power swap disturbed.
func (c *trackerCore) applySwapEffects(ev *engine.TurnEvent) {
	t := c.tracker

	clearSlot := func(seat, pos int) {
		if seat == c.seat {
			t.ClearOwnCard(pos)
		} else {
			t.ClearOpponentCard(seat, pos)
			if c.trackSelfKnowledge {
				t.OpponentLosesKnowledge(seat, pos)
			}
		}
	}

	switch ev.Power {
	case engine.PowerActBlindSwap:
		clearSlot(ev.Seat, ev.MyPos)
		clearSlot(ev.Seat1, ev.Pos1)
	case engine.PowerActKingSwap:
		if ev.Swapped {
			clearSlot(ev.Seat, ev.MyPos)
			clearSlot(ev.Seat1, ev.Pos1)
		}
	case engine.PowerActThirdPartySwap:
		clearSlot(ev.Seat1, ev.Pos1)
		clearSlot(ev.Seat2, ev.Pos2)
	case engine.PowerActKingPeekSwap:
		if ev.Swapped {
			clearSlot(ev.Seat1, ev.Pos1)
			clearSlot(ev.Seat2, ev.Pos2)
		}
	}
}

// ObserveStick folds a stick attempt into the belief state. Successful
// sticks remove the slot with the engine's index shift; failures grow
// the attempting hand by one unknown penalty slot.
func (c *trackerCore) ObserveStick(g *engine.Game, ev *engine.StickEvent) {
	c.ensureTracker(g)
	t := c.tracker

	if ev.Seat == c.seat {
		if ev.Success {
			t.RemoveOwnPosition(ev.Pos)
		} else {
			t.ResizeOwnHand(ev.HandSize)
		}
		for pos, card := range c.self.Known {
			t.SetOwnCard(pos, card)
		}
	} else {
		if ev.Success {
			t.RemoveOpponentPosition(ev.Seat, ev.Pos)
		} else {
			t.ResizeOpponentHand(ev.Seat, ev.HandSize)
		}
	}
	t.SyncDiscard(g.DiscardPile())
}
