package engine

// DrawSource identifies where the acting seat drew from.
type DrawSource uint8

const (
	DrawNone    DrawSource = iota // draw aborted (deck and discard empty)
	DrawDeck                      // top of the draw pile
	DrawDiscard                   // top of the discard pile (previously public)
)

func (s DrawSource) String() string {
	switch s {
	case DrawDeck:
		return "deck"
	case DrawDiscard:
		return "discard"
	}
	return "none"
}

// ActionKind is what the acting seat did with the drawn card.
type ActionKind uint8

const (
	ActionNone    ActionKind = iota // turn aborted before the action step
	ActionDiscard                   // drawn card placed straight on the discard
	ActionSwap                      // drawn card swapped into a hand slot
)

// Action is a seat's response to a drawn card: swap it into Pos, or
// discard it. An out-of-range Pos degrades to a discard.
type Action struct {
	Kind ActionKind
	Pos  int // target slot when Kind == ActionSwap
}

// SwapInto returns a swap action targeting the given slot.
func SwapInto(pos int) Action { return Action{Kind: ActionSwap, Pos: pos} }

// Discard returns the discard action.
func Discard() Action { return Action{Kind: ActionDiscard} }

// PowerKind tags a PowerAction with the concrete effect requested.
// Only the fields documented for a kind are meaningful.
type PowerKind uint8

const (
	PowerActNone          PowerKind = iota
	PowerActPeekOwn                 // Pos: own slot to peek
	PowerActPeekOpponent            // Seat, Pos: opponent slot to peek
	PowerActBlindSwap               // MyPos ↔ Seat/Pos, unseen
	PowerActThirdPartySwap          // Seat/Pos ↔ Seat2/Pos2, both belong to other seats
	PowerActKingSwap                // peek Seat/Pos, then optionally swap with MyPos
	PowerActKingPeekSwap            // peek PeekSeat/PeekPos, then swap Seat/Pos ↔ Seat2/Pos2
)

// PowerAction describes how a seat exercises a power card. The Kind tag
// determines which target fields apply; everything else is ignored.
type PowerAction struct {
	Kind PowerKind

	MyPos int // acting seat's slot (blind/king swap)

	Seat int // primary target seat
	Pos  int // primary target slot

	Seat2 int // secondary target seat (third-party / king peek-swap)
	Pos2  int // secondary target slot

	PeekSeat int // king peek-swap: seat to look at first (may be the actor)
	PeekPos  int
}

// TurnEvent is the structured record broadcast to every seat after a
// turn resolves. It carries only information that the described turn
// inherently makes public: card identities appear only when the card
// was already visible (discard draws, discarded cards). Peeked cards
// are never included; they reach the acting seat via ObservePeek.
type TurnEvent struct {
	Turn     int
	Seat     int
	SeatName string

	Source       DrawSource
	DrawnDiscard Card // identity of a discard-sourced draw (was public); EmptyCard otherwise

	Action    ActionKind
	SwapPos   int  // destination slot when Action == ActionSwap
	Discarded Card // card now on top of the discard (swap displacee or drawn card)

	Power    PowerKind
	MyPos    int // acting seat's slot in a blind/king swap
	Seat1    int // primary power target seat
	Pos1     int
	Seat2    int // secondary power target seat
	Pos2     int
	PeekSeat int // king peek-swap look target
	PeekPos  int
	Swapped  bool // king swap: whether the optional swap was taken

	HandSize     int // acting seat's hand size after the turn
	CalledCambio bool
}

// StickEvent records an out-of-turn stick attempt.
type StickEvent struct {
	Turn     int
	Seat     int
	SeatName string
	Pos      int
	Success  bool
	Stuck    Card // card moved to the discard on success; EmptyCard on failure
	HandSize int  // attempting seat's hand size after resolution
}

// Policy is the decision interface implemented by every agent variant.
// The engine calls into the active seat's policy at each decision point
// and broadcasts turn/stick records to every seat. Policies must read
// only their own seat's hand/knowledge plus the rules-legal queries on
// Game — never another seat's hand.
type Policy interface {
	// ChooseDraw picks the draw source for this turn.
	ChooseDraw(g *Game, self *Player) DrawSource

	// ChooseAction decides what to do with the drawn card.
	ChooseAction(g *Game, self *Player, drawn Card) Action

	// ChoosePowerAction picks how to spend a discarded power card.
	// Returning a PowerAction with Kind PowerActNone skips the power.
	ChoosePowerAction(g *Game, self *Player, card Card) PowerAction

	// ConfirmKingSwap is asked after a king peek resolves: peeked is the
	// card seen at the peeked slot. Returning true performs the swap.
	ConfirmKingSwap(g *Game, self *Player, act PowerAction, peeked Card) bool

	// ChooseStick returns candidate own slots to stick on the current
	// discard top. The engine processes at most the first entry.
	ChooseStick(g *Game, self *Player) []int

	// CallCambio reports whether the seat calls Cambio this turn.
	CallCambio(g *Game, self *Player) bool

	// ObservePeek privately reveals a peeked card to the acting seat.
	// It is invoked only on the policy that performed the peek.
	ObservePeek(g *Game, seat, pos int, card Card)

	// ObserveTurn receives the public record of every resolved turn,
	// including the policy's own.
	ObserveTurn(g *Game, ev *TurnEvent)

	// ObserveStick receives the public record of every stick attempt.
	ObserveStick(g *Game, ev *StickEvent)
}
