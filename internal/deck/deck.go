package deck

// Size is the number of cards in a standard deck.
const Size = 52

// Standard returns the canonical 52-card deck in fixed enumeration order:
// suit-major (♠ ♥ ♦ ♣), ranks 2 through A within each suit.
func Standard() []Card {
	cards := make([]Card, 0, Size)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Deck is an ordered pile of cards dealt from the top.
type Deck struct {
	cards []Card
}

// NewDeck wraps an ordered card sequence. The slice is copied.
func NewDeck(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Deal removes and returns the top n cards. When fewer than n cards remain it
// returns nil and leaves the deck untouched; callers treat that as "no cards
// available" rather than a failure.
func (d *Deck) Deal(n int) []Card {
	if n <= 0 || n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

