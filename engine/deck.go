package engine

import "math/rand/v2"

const (
	// DeckSize is the full deck: 52 standard cards + 2 jokers.
	DeckSize = 54
	// DealSize is the number of slots dealt to each seat.
	DealSize = 4
)

// Deck is a shuffled draw pile. The top of the pile is the last element.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck builds the full 54-card deck and shuffles it with the given
// random stream. The stream is retained for later reshuffles.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{cards: FullDeck(), rng: rng}
	d.shuffle()
	return d
}

func (d *Deck) shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw pops the top card. ok is false when the deck is exhausted.
func (d *Deck) Draw() (c Card, ok bool) {
	if len(d.cards) == 0 {
		return EmptyCard, false
	}
	c = d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int { return len(d.cards) }

// Refill adds the given cards to the deck and reshuffles.
func (d *Deck) Refill(cards []Card) {
	d.cards = append(d.cards, cards...)
	d.shuffle()
}
