package engine

import "testing"

// TestCardValues verifies the scoring value of every rank, including
// the red/black King split.
func TestCardValues(t *testing.T) {
	cases := []struct {
		name string
		card Card
		want int
	}{
		{"ace of hearts", NewCard(SuitHearts, RankAce), 1},
		{"two of clubs", NewCard(SuitClubs, RankTwo), 2},
		{"five of diamonds", NewCard(SuitDiamonds, RankFive), 5},
		{"seven of spades", NewCard(SuitSpades, RankSeven), 7},
		{"ten of hearts", NewCard(SuitHearts, RankTen), 10},
		{"jack of clubs", NewCard(SuitClubs, RankJack), 10},
		{"queen of diamonds", NewCard(SuitDiamonds, RankQueen), 10},
		{"king of hearts", NewCard(SuitHearts, RankKing), -1},
		{"king of diamonds", NewCard(SuitDiamonds, RankKing), -1},
		{"king of spades", NewCard(SuitSpades, RankKing), 10},
		{"king of clubs", NewCard(SuitClubs, RankKing), 10},
		{"joker", NewCard(SuitNone, RankJoker), 0},
	}
	for _, tc := range cases {
		if got := tc.card.Value(); got != tc.want {
			t.Errorf("%s: Value() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

// TestCardPower verifies power classification by rank and the red King
// exclusion.
func TestCardPower(t *testing.T) {
	cases := []struct {
		card Card
		want PowerType
	}{
		{NewCard(SuitHearts, RankSix), PowerNone},
		{NewCard(SuitHearts, RankSeven), PowerPeekOwn},
		{NewCard(SuitClubs, RankEight), PowerPeekOwn},
		{NewCard(SuitSpades, RankNine), PowerPeekOther},
		{NewCard(SuitDiamonds, RankTen), PowerPeekOther},
		{NewCard(SuitHearts, RankJack), PowerBlindSwap},
		{NewCard(SuitClubs, RankQueen), PowerBlindSwap},
		{NewCard(SuitSpades, RankKing), PowerKingSwap},
		{NewCard(SuitClubs, RankKing), PowerKingSwap},
		{NewCard(SuitHearts, RankKing), PowerNone},
		{NewCard(SuitDiamonds, RankKing), PowerNone},
		{NewCard(SuitNone, RankJoker), PowerNone},
		{NewCard(SuitHearts, RankAce), PowerNone},
	}
	for _, tc := range cases {
		if got := tc.card.Power(); got != tc.want {
			t.Errorf("%v: Power() = %d, want %d", tc.card, got, tc.want)
		}
	}

	if NewCard(SuitHearts, RankKing).HasPower() {
		t.Error("red King reports HasPower() = true")
	}
	if !NewCard(SuitSpades, RankKing).HasPower() {
		t.Error("black King reports HasPower() = false")
	}
}

// TestFullDeck verifies the 54-card composition: 52 standard cards plus
// two jokers, no duplicates among the standard cards.
func TestFullDeck(t *testing.T) {
	deck := FullDeck()
	if len(deck) != DeckSize {
		t.Fatalf("len(FullDeck()) = %d, want %d", len(deck), DeckSize)
	}

	jokers := 0
	seen := make(map[Card]bool)
	for _, c := range deck {
		if c.Rank() == RankJoker {
			jokers++
			continue
		}
		if seen[c] {
			t.Errorf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if jokers != 2 {
		t.Errorf("jokers = %d, want 2", jokers)
	}
	if len(seen) != 52 {
		t.Errorf("standard cards = %d, want 52", len(seen))
	}

	// Total deck value is fixed: four suits of A..Q plus two black 10s,
	// two red -1s, two 0 jokers.
	total := 0
	for _, c := range deck {
		total += c.Value()
	}
	want := 4*(1+2+3+4+5+6+7+8+9+10+10+10) + 10 + 10 - 1 - 1
	if total != want {
		t.Errorf("deck value total = %d, want %d", total, want)
	}
}
