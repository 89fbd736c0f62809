package engine

// Suit constants — packed into upper 4 bits of Card.
const (
	SuitHearts   uint8 = 0
	SuitDiamonds uint8 = 1
	SuitClubs    uint8 = 2
	SuitSpades   uint8 = 3
	SuitNone     uint8 = 4 // jokers
)

// Rank constants — packed into lower 4 bits of Card.
const (
	RankAce   uint8 = 0
	RankTwo   uint8 = 1
	RankThree uint8 = 2
	RankFour  uint8 = 3
	RankFive  uint8 = 4
	RankSix   uint8 = 5
	RankSeven uint8 = 6
	RankEight uint8 = 7
	RankNine  uint8 = 8
	RankTen   uint8 = 9
	RankJack  uint8 = 10
	RankQueen uint8 = 11
	RankKing  uint8 = 12
	RankJoker uint8 = 13
)

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
// Cards are immutable values.
type Card uint8

// EmptyCard represents the absence of a card (empty discard, unknown slot).
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((suit << 4) | (rank & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() uint8 { return uint8(c) >> 4 }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// IsRed reports whether the card is Hearts or Diamonds.
func (c Card) IsRed() bool {
	s := c.Suit()
	return s == SuitHearts || s == SuitDiamonds
}

// Value returns the point value of the card:
//   - Ace → 1
//   - Two–Ten → face value
//   - Jack, Queen → 10
//   - King: Hearts/Diamonds → -1, Clubs/Spades → 10
//   - Joker → 0
func (c Card) Value() int {
	r := c.Rank()
	switch {
	case r == RankJoker:
		return 0
	case r == RankAce:
		return 1
	case r <= RankTen: // ranks 1–9: Two–Ten
		return int(r + 1)
	case r == RankJack, r == RankQueen:
		return 10
	case r == RankKing:
		if c.IsRed() {
			return -1
		}
		return 10
	}
	// EmptyCard or malformed
	return 0
}

// HasPower reports whether discarding this card grants a special action.
// Ranks Seven through King qualify, except the Red King, which scores -1
// but carries no power.
func (c Card) HasPower() bool {
	r := c.Rank()
	if r < RankSeven || r > RankKing {
		return false
	}
	if r == RankKing && c.IsRed() {
		return false
	}
	return true
}

// PowerType classifies the special action granted by a discarded power card.
type PowerType uint8

const (
	PowerNone       PowerType = iota
	PowerPeekOwn              // Seven, Eight — look at one of your own slots
	PowerPeekOther            // Nine, Ten — look at one opponent slot
	PowerBlindSwap            // Jack, Queen — swap two slots unseen
	PowerKingSwap             // Black King — look at one slot, then optionally swap
)

// Power returns the power class for this card, or PowerNone.
func (c Card) Power() PowerType {
	switch c.Rank() {
	case RankSeven, RankEight:
		return PowerPeekOwn
	case RankNine, RankTen:
		return PowerPeekOther
	case RankJack, RankQueen:
		return PowerBlindSwap
	case RankKing:
		if c.IsRed() {
			return PowerNone
		}
		return PowerKingSwap
	}
	return PowerNone
}

var rankNames = [...]string{
	"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "Joker",
}

var suitNames = [...]string{"♥", "♦", "♣", "♠", ""}

// String renders the card as rank+suit symbol, e.g. "K♠" or "Joker".
func (c Card) String() string {
	if c == EmptyCard {
		return "??"
	}
	r, s := c.Rank(), c.Suit()
	if int(r) >= len(rankNames) || int(s) >= len(suitNames) {
		return "??"
	}
	if r == RankJoker {
		return "Joker"
	}
	return rankNames[r] + suitNames[s]
}

// FullDeck returns the 54-card deck in canonical order: 4 suits × 13 ranks
// followed by two jokers.
func FullDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := RankAce; rank <= RankKing; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	cards = append(cards, NewCard(SuitNone, RankJoker), NewCard(SuitNone, RankJoker))
	return cards
}
