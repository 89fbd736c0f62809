package engine

import "github.com/sirupsen/logrus"

// PlayTurn advances exactly one seat through the full turn cycle:
// DRAW → ACTION → POWER → STICK_WINDOW → CAMBIO_DECISION → advance.
// It returns the public record of the turn, already broadcast to every
// seat, or nil when the round is over.
func (g *Game) PlayTurn() *TurnEvent {
	if g.GameOver() {
		return nil
	}

	seat := g.current
	p := g.players[seat]
	ev := &TurnEvent{
		Turn:         g.turn,
		Seat:         seat,
		SeatName:     p.Name,
		DrawnDiscard: EmptyCard,
		Discarded:    EmptyCard,
		MyPos:        -1,
		Seat1:        -1,
		Pos1:         -1,
		Seat2:        -1,
		Pos2:         -1,
		PeekSeat:     -1,
		PeekPos:      -1,
	}

	// DRAW
	drawn, ok := g.drawPhase(p, ev)
	if !ok {
		// Deck and discard both exhausted: the turn is abandoned.
		ev.HandSize = len(p.Hand)
		g.finishTurn(ev)
		return ev
	}

	// ACTION
	placed := g.actionPhase(p, drawn, ev)

	// POWER
	if placed.HasPower() {
		g.powerPhase(seat, placed, ev)
	}

	// STICK_WINDOW — one attempt, acting seat only
	g.stickWindow(seat)

	// CAMBIO_DECISION
	if !g.cambioCalled && p.Policy.CallCambio(g, p) {
		g.cambioCalled = true
		g.cambioCaller = seat
		g.finalRoundActive = true
		ev.CalledCambio = true
		g.log.WithField("seat", p.Name).Info("cambio called")
	}

	ev.HandSize = len(p.Hand)
	g.finishTurn(ev)
	return ev
}

// finishTurn broadcasts the event to every seat and rotates play.
func (g *Game) finishTurn(ev *TurnEvent) {
	g.turn++
	for _, p := range g.players {
		p.Policy.ObserveTurn(g, ev)
	}
	g.advanceTurn()
}

// drawPhase resolves the draw choice. Drawing from an empty discard
// silently falls back to the deck; an exhausted deck triggers a
// reshuffle first. ok is false only when no card can be produced.
func (g *Game) drawPhase(p *Player, ev *TurnEvent) (Card, bool) {
	choice := p.Policy.ChooseDraw(g, p)
	if choice == DrawDiscard && len(g.discard) > 0 {
		drawn := g.discard[len(g.discard)-1]
		g.discard = g.discard[:len(g.discard)-1]
		ev.Source = DrawDiscard
		ev.DrawnDiscard = drawn
		return drawn, true
	}
	drawn, ok := g.drawFromDeck()
	if !ok {
		ev.Source = DrawNone
		ev.Action = ActionNone
		g.log.WithField("seat", p.Name).Warn("no cards left to draw, turn abandoned")
		return EmptyCard, false
	}
	ev.Source = DrawDeck
	return drawn, true
}

// actionPhase applies the seat's swap-or-discard decision and returns
// the card that landed on the discard pile. An out-of-range swap slot
// degrades to a discard.
func (g *Game) actionPhase(p *Player, drawn Card, ev *TurnEvent) Card {
	act := p.Policy.ChooseAction(g, p, drawn)
	if act.Kind == ActionSwap && act.Pos >= 0 && act.Pos < len(p.Hand) {
		old := p.Hand[act.Pos]
		p.Hand[act.Pos] = drawn
		p.Known[act.Pos] = drawn
		g.discard = append(g.discard, old)
		ev.Action = ActionSwap
		ev.SwapPos = act.Pos
		ev.Discarded = old
		g.log.WithFields(logrus.Fields{
			"seat": p.Name, "pos": act.Pos, "out": old,
		}).Debug("swap")
		return old
	}
	g.discard = append(g.discard, drawn)
	ev.Action = ActionDiscard
	ev.Discarded = drawn
	return drawn
}

// stickWindow gives the acting seat its post-turn stick opportunity.
// At most one attempt is processed per turn.
func (g *Game) stickWindow(seat int) {
	p := g.players[seat]
	candidates := p.Policy.ChooseStick(g, p)
	if len(candidates) == 0 {
		return
	}
	pos := candidates[0]
	sev := &StickEvent{
		Turn:     g.turn,
		Seat:     seat,
		SeatName: p.Name,
		Pos:      pos,
		Stuck:    EmptyCard,
	}
	sev.Success = g.AttemptStick(seat, pos)
	if sev.Success {
		sev.Stuck = g.DiscardTop()
	}
	sev.HandSize = len(p.Hand)
	for _, obs := range g.players {
		obs.Policy.ObserveStick(g, sev)
	}
}

// ---------------------------------------------------------------------------
// Power resolution
// ---------------------------------------------------------------------------

// powerPhase lets the acting seat spend the power of the card it just
// placed on the discard. Invalid or mismatched requests degrade to a
// no-op; the triggering card is on the discard pile either way.
func (g *Game) powerPhase(seat int, card Card, ev *TurnEvent) {
	p := g.players[seat]
	act := p.Policy.ChoosePowerAction(g, p, card)
	if act.Kind == PowerActNone || !powerKindAllowed(card.Power(), act.Kind) {
		return
	}

	switch act.Kind {
	case PowerActPeekOwn:
		g.applyPeekOwn(seat, act, ev)
	case PowerActPeekOpponent:
		g.applyPeekOpponent(seat, act, ev)
	case PowerActBlindSwap:
		g.applyBlindSwap(seat, act, ev)
	case PowerActThirdPartySwap:
		g.applyThirdPartySwap(seat, act, ev)
	case PowerActKingSwap:
		g.applyKingSwap(seat, act, ev)
	case PowerActKingPeekSwap:
		g.applyKingPeekSwap(seat, act, ev)
	}
}

// powerKindAllowed maps a card's power class to the action kinds it
// permits.
func powerKindAllowed(pt PowerType, kind PowerKind) bool {
	switch pt {
	case PowerPeekOwn:
		return kind == PowerActPeekOwn
	case PowerPeekOther:
		return kind == PowerActPeekOpponent
	case PowerBlindSwap:
		return kind == PowerActBlindSwap || kind == PowerActThirdPartySwap
	case PowerKingSwap:
		return kind == PowerActKingSwap || kind == PowerActKingPeekSwap
	}
	return false
}

func (g *Game) applyPeekOwn(seat int, act PowerAction, ev *TurnEvent) {
	p := g.players[seat]
	c, err := g.Peek(seat, act.Pos)
	if err != nil {
		return
	}
	p.Policy.ObservePeek(g, seat, act.Pos, c)
	ev.Power = PowerActPeekOwn
	ev.Seat1 = seat
	ev.Pos1 = act.Pos
}

// applyPeekOpponent reveals one opponent slot to the acting seat only.
// The opponent's own knowledge is untouched.
func (g *Game) applyPeekOpponent(seat int, act PowerAction, ev *TurnEvent) {
	if act.Seat == seat || act.Seat < 0 || act.Seat >= len(g.players) {
		return
	}
	target := g.players[act.Seat]
	if act.Pos < 0 || act.Pos >= len(target.Hand) {
		return
	}
	p := g.players[seat]
	p.Policy.ObservePeek(g, act.Seat, act.Pos, target.Hand[act.Pos])
	ev.Power = PowerActPeekOpponent
	ev.Seat1 = act.Seat
	ev.Pos1 = act.Pos
}

// applyBlindSwap exchanges an own slot with another seat's slot; neither
// side sees either card, so both seats' verified knowledge at the
// swapped slots is dropped.
func (g *Game) applyBlindSwap(seat int, act PowerAction, ev *TurnEvent) {
	p := g.players[seat]
	if act.Seat == seat || act.Seat < 0 || act.Seat >= len(g.players) {
		return
	}
	target := g.players[act.Seat]
	if act.MyPos < 0 || act.MyPos >= len(p.Hand) || act.Pos < 0 || act.Pos >= len(target.Hand) {
		return
	}
	g.Swap(seat, act.Seat, act.MyPos, act.Pos)
	delete(p.Known, act.MyPos)
	delete(target.Known, act.Pos)
	ev.Power = PowerActBlindSwap
	ev.MyPos = act.MyPos
	ev.Seat1 = act.Seat
	ev.Pos1 = act.Pos
}

// applyThirdPartySwap exchanges slots between two seats that are both
// not the actor. Nobody sees a card.
func (g *Game) applyThirdPartySwap(seat int, act PowerAction, ev *TurnEvent) {
	if act.Seat == seat || act.Seat2 == seat || act.Seat == act.Seat2 {
		return
	}
	if act.Seat < 0 || act.Seat >= len(g.players) || act.Seat2 < 0 || act.Seat2 >= len(g.players) {
		return
	}
	a, b := g.players[act.Seat], g.players[act.Seat2]
	if act.Pos < 0 || act.Pos >= len(a.Hand) || act.Pos2 < 0 || act.Pos2 >= len(b.Hand) {
		return
	}
	g.Swap(act.Seat, act.Seat2, act.Pos, act.Pos2)
	delete(a.Known, act.Pos)
	delete(b.Known, act.Pos2)
	ev.Power = PowerActThirdPartySwap
	ev.Seat1 = act.Seat
	ev.Pos1 = act.Pos
	ev.Seat2 = act.Seat2
	ev.Pos2 = act.Pos2
}

// applyKingSwap is the plain Black King: the actor looks at one
// opponent slot, then decides whether to swap it with an own slot.
func (g *Game) applyKingSwap(seat int, act PowerAction, ev *TurnEvent) {
	p := g.players[seat]
	if act.Seat == seat || act.Seat < 0 || act.Seat >= len(g.players) {
		return
	}
	target := g.players[act.Seat]
	if act.MyPos < 0 || act.MyPos >= len(p.Hand) || act.Pos < 0 || act.Pos >= len(target.Hand) {
		return
	}
	peeked := target.Hand[act.Pos]
	p.Policy.ObservePeek(g, act.Seat, act.Pos, peeked)

	ev.Power = PowerActKingSwap
	ev.MyPos = act.MyPos
	ev.Seat1 = act.Seat
	ev.Pos1 = act.Pos

	if !p.Policy.ConfirmKingSwap(g, p, act, peeked) {
		return
	}
	g.Swap(seat, act.Seat, act.MyPos, act.Pos)
	// The actor saw the incoming card; the displaced owner did not.
	p.Known[act.MyPos] = p.Hand[act.MyPos]
	delete(target.Known, act.Pos)
	ev.Swapped = true
}

// applyKingPeekSwap is the extended Black King: peek any seat's slot
// (including the actor's own), then optionally swap any two slots.
// When the swap pairs the actor's own slot against the slot just
// peeked, the swap is confirmed against the peeked card; any other
// pairing swaps unconditionally.
func (g *Game) applyKingPeekSwap(seat int, act PowerAction, ev *TurnEvent) {
	p := g.players[seat]
	if act.PeekSeat < 0 || act.PeekSeat >= len(g.players) {
		return
	}
	peekTarget := g.players[act.PeekSeat]
	if act.PeekPos < 0 || act.PeekPos >= len(peekTarget.Hand) {
		return
	}
	peeked := peekTarget.Hand[act.PeekPos]
	if act.PeekSeat == seat {
		p.Known[act.PeekPos] = peeked
	}
	p.Policy.ObservePeek(g, act.PeekSeat, act.PeekPos, peeked)

	ev.Power = PowerActKingPeekSwap
	ev.PeekSeat = act.PeekSeat
	ev.PeekPos = act.PeekPos

	// Optional swap step.
	if act.Seat < 0 || act.Seat2 < 0 {
		return
	}
	if act.Seat >= len(g.players) || act.Seat2 >= len(g.players) || act.Seat == act.Seat2 {
		return
	}
	a, b := g.players[act.Seat], g.players[act.Seat2]
	if act.Pos < 0 || act.Pos >= len(a.Hand) || act.Pos2 < 0 || act.Pos2 >= len(b.Hand) {
		return
	}

	ev.Seat1 = act.Seat
	ev.Pos1 = act.Pos
	ev.Seat2 = act.Seat2
	ev.Pos2 = act.Pos2

	ownSide := act.Seat == seat || act.Seat2 == seat
	peekedIsCounterpart := (act.Seat == act.PeekSeat && act.Pos == act.PeekPos && act.Seat2 == seat) ||
		(act.Seat2 == act.PeekSeat && act.Pos2 == act.PeekPos && act.Seat == seat)
	if ownSide && peekedIsCounterpart {
		if !p.Policy.ConfirmKingSwap(g, p, act, peeked) {
			return
		}
	}

	g.Swap(act.Seat, act.Seat2, act.Pos, act.Pos2)
	ev.Swapped = true

	// Verified-knowledge bookkeeping: the actor knows an own slot that
	// just received the peeked card; every other touched slot is stale.
	for _, side := range [2]struct {
		pl  *Player
		pos int
	}{{a, act.Pos}, {b, act.Pos2}} {
		if side.pl == p && side.pl.Hand[side.pos] == peeked {
			side.pl.Known[side.pos] = peeked
		} else {
			delete(side.pl.Known, side.pos)
		}
	}
}
