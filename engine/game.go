// Package engine implements the Cambio round state machine: deck and
// discard management, the draw/action/power/stick/Cambio turn cycle,
// and the structured event records through which seats observe play.
package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// DefaultMaxTurns bounds a round defensively; pathological play that
// never calls Cambio is cut off here.
const DefaultMaxTurns = 50

// Sentinel errors for caller protocol violations.
var (
	ErrPeekOutOfRange = fmt.Errorf("peek position out of range")
	ErrInvalidAction  = fmt.Errorf("action not valid in current phase")
)

// Player is one seat at the table: an ordered sequence of card slots
// plus the sparse set of positions the seat itself has verified. Known
// keys are always valid indices into Hand; removals re-index them.
type Player struct {
	Name   string
	Hand   []Card
	Known  map[int]Card
	Policy Policy
}

// NewPlayer creates an empty seat driven by the given policy.
func NewPlayer(name string, policy Policy) *Player {
	return &Player{Name: name, Known: make(map[int]Card), Policy: policy}
}

// KnownAt returns the verified card at pos, if any.
func (p *Player) KnownAt(pos int) (Card, bool) {
	c, ok := p.Known[pos]
	return c, ok
}

// removeSlot drops slot pos from the hand and shifts higher-indexed
// known entries down by one, mirroring the physical compaction.
func (p *Player) removeSlot(pos int) Card {
	removed := p.Hand[pos]
	p.Hand = append(p.Hand[:pos], p.Hand[pos+1:]...)
	shifted := make(map[int]Card, len(p.Known))
	for k, c := range p.Known {
		switch {
		case k == pos:
			// removed slot — knowledge goes with it
		case k > pos:
			shifted[k-1] = c
		default:
			shifted[k] = c
		}
	}
	p.Known = shifted
	return removed
}

// Game is the state of a single round. A fresh instance is created per
// round; nothing carries over.
type Game struct {
	deck    *Deck
	discard []Card
	players []*Player

	current          int
	turn             int
	cambioCalled     bool
	cambioCaller     int
	finalRoundActive bool

	MaxTurns int

	rng *rand.Rand
	log logrus.FieldLogger
}

// NewGame creates a round over the given seats with an independent
// random stream. Seat order is the slice order; seat indices are stable
// for the life of the round.
func NewGame(players []*Player, rng *rand.Rand, log logrus.FieldLogger) *Game {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}
	return &Game{
		deck:         NewDeck(rng),
		players:      players,
		cambioCaller: -1,
		MaxTurns:     DefaultMaxTurns,
		rng:          rng,
		log:          log,
	}
}

// Deal distributes four cards to every seat, reveals each seat's first
// two slots to itself, and flips the first discard card.
func (g *Game) Deal() {
	for _, p := range g.players {
		p.Hand = make([]Card, 0, DealSize)
		p.Known = make(map[int]Card, DealSize)
		for i := 0; i < DealSize; i++ {
			c, _ := g.deck.Draw()
			p.Hand = append(p.Hand, c)
		}
		p.Known[0] = p.Hand[0]
		p.Known[1] = p.Hand[1]
	}
	if first, ok := g.deck.Draw(); ok {
		g.discard = append(g.discard, first)
	}
}

// ---------------------------------------------------------------------------
// Rules-legal queries (safe for policies)
// ---------------------------------------------------------------------------

// NumSeats returns the number of seats in the round.
func (g *Game) NumSeats() int { return len(g.players) }

// SeatName returns the display label for a seat.
func (g *Game) SeatName(seat int) string { return g.players[seat].Name }

// CurrentSeat returns the seat whose turn it is.
func (g *Game) CurrentSeat() int { return g.current }

// Turn returns the number of turns completed so far.
func (g *Game) Turn() int { return g.turn }

// HandSize returns the number of slots held by a seat.
func (g *Game) HandSize(seat int) int { return len(g.players[seat].Hand) }

// DeckLen returns the number of cards left in the draw pile.
func (g *Game) DeckLen() int { return g.deck.Len() }

// DiscardTop returns the top of the discard pile, or EmptyCard.
func (g *Game) DiscardTop() Card {
	if len(g.discard) == 0 {
		return EmptyCard
	}
	return g.discard[len(g.discard)-1]
}

// DiscardPile returns a copy of the discard pile, oldest first. The
// pile is public information.
func (g *Game) DiscardPile() []Card {
	out := make([]Card, len(g.discard))
	copy(out, g.discard)
	return out
}

// CambioCalled reports whether Cambio has been called this round.
func (g *Game) CambioCalled() bool { return g.cambioCalled }

// CambioCaller returns the calling seat index, or -1.
func (g *Game) CambioCaller() int { return g.cambioCaller }

// Opponents returns every seat index except the given one, in seat order.
func (g *Game) Opponents(seat int) []int {
	out := make([]int, 0, len(g.players)-1)
	for i := range g.players {
		if i != seat {
			out = append(out, i)
		}
	}
	return out
}

// Seat returns the Player at the given index. The engine hands each
// policy its own seat; policies must not reach into other seats' hands.
func (g *Game) Seat(seat int) *Player { return g.players[seat] }

// ---------------------------------------------------------------------------
// Primitive mutators
// ---------------------------------------------------------------------------

// Swap exchanges the cards at (seatA, posA) and (seatB, posB).
func (g *Game) Swap(seatA, seatB, posA, posB int) {
	pa, pb := g.players[seatA], g.players[seatB]
	pa.Hand[posA], pb.Hand[posB] = pb.Hand[posB], pa.Hand[posA]
}

// Peek reveals the card at pos to its owning seat, recording it in the
// seat's known map. An out-of-range pos is a policy bug and fails fast.
func (g *Game) Peek(seat, pos int) (Card, error) {
	p := g.players[seat]
	if pos < 0 || pos >= len(p.Hand) {
		return EmptyCard, fmt.Errorf("%w: seat %d pos %d (hand size %d)", ErrPeekOutOfRange, seat, pos, len(p.Hand))
	}
	p.Known[pos] = p.Hand[pos]
	return p.Hand[pos], nil
}

// AttemptStick tries to discard the card at (seat, pos) onto a
// matching-rank discard top. On success the slot is removed and known
// positions above it shift down. On failure the seat draws one penalty
// card appended to its hand, unknown to it.
func (g *Game) AttemptStick(seat, pos int) bool {
	p := g.players[seat]
	if len(g.discard) == 0 || pos < 0 || pos >= len(p.Hand) {
		return false
	}
	if p.Hand[pos].Rank() == g.DiscardTop().Rank() {
		stuck := p.removeSlot(pos)
		g.discard = append(g.discard, stuck)
		g.log.WithFields(logrus.Fields{"seat": p.Name, "card": stuck}).Debug("stick succeeded")
		return true
	}
	if penalty, ok := g.drawFromDeck(); ok {
		p.Hand = append(p.Hand, penalty)
	}
	g.log.WithField("seat", p.Name).Debug("stick failed, penalty drawn")
	return false
}

// drawFromDeck draws one card, reshuffling the discard (minus its top)
// into the deck if the deck is empty. ok is false only when both piles
// are exhausted.
func (g *Game) drawFromDeck() (Card, bool) {
	if g.deck.Len() == 0 {
		g.reshuffleDiscard()
	}
	return g.deck.Draw()
}

// reshuffleDiscard moves all discard cards except the top back into the
// deck and reshuffles, leaving a singleton discard.
func (g *Game) reshuffleDiscard() {
	if len(g.discard) <= 1 {
		return
	}
	back := make([]Card, len(g.discard)-1)
	copy(back, g.discard[:len(g.discard)-1])
	top := g.discard[len(g.discard)-1]
	g.discard = g.discard[:0]
	g.discard = append(g.discard, top)
	g.deck.Refill(back)
	g.log.WithField("cards", len(back)).Debug("reshuffled discard into deck")
}

// ---------------------------------------------------------------------------
// Round end and scoring
// ---------------------------------------------------------------------------

// GameOver reports whether the round has terminated: every other seat
// has taken exactly one turn after the Cambio call, or the turn cutoff
// was hit.
func (g *Game) GameOver() bool {
	if g.turn >= g.MaxTurns {
		return true
	}
	return g.cambioCalled && !g.finalRoundActive
}

// CalculateScore sums the current hand values for a seat.
func (g *Game) CalculateScore(seat int) int {
	total := 0
	for _, c := range g.players[seat].Hand {
		total += c.Value()
	}
	return total
}

// Scores returns every seat's current score, indexed by seat.
func (g *Game) Scores() []int {
	out := make([]int, len(g.players))
	for i := range g.players {
		out[i] = g.CalculateScore(i)
	}
	return out
}

// Winner returns the winning seat for the round: lowest score wins. On
// an exact tie the Cambio caller wins if among the tied seats;
// otherwise the lowest tied seat index wins.
func (g *Game) Winner() int {
	best := 0
	bestScore := g.CalculateScore(0)
	for i := 1; i < len(g.players); i++ {
		s := g.CalculateScore(i)
		if s < bestScore {
			best, bestScore = i, s
		} else if s == bestScore && i == g.cambioCaller && best != g.cambioCaller {
			best = i
		}
	}
	return best
}

// advanceTurn increments the seat index with wrap-around. When the
// final round is active and the pointer lands back on the caller, the
// final round ends — the caller takes no further turn.
func (g *Game) advanceTurn() {
	g.current = (g.current + 1) % len(g.players)
	if g.finalRoundActive && g.current == g.cambioCaller {
		g.finalRoundActive = false
	}
}
