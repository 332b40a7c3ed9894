package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

type cardJSON struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// MarshalJSON encodes a card as {"rank":"10","suit":"♠"}.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Rank: c.Rank.String(), Suit: c.Suit.String()})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parseCard(raw.Rank, raw.Suit)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

var suitLetters = map[byte]Suit{'s': Spades, 'h': Hearts, 'd': Diamonds, 'c': Clubs}

var rankLetters = map[byte]Rank{
	'2': Two, '3': Three, '4': Four, '5': Five, '6': Six, '7': Seven, '8': Eight,
	'9': Nine, 't': Ten, 'j': Jack, 'q': Queen, 'k': King, 'a': Ace,
}

// ParseCards parses compact notation such as "AsKh7d" into cards.
func ParseCards(s string) ([]Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string %q: odd length", s)
	}
	s = strings.ToLower(s)
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		rank, ok := rankLetters[s[i]]
		if !ok {
			return nil, fmt.Errorf("invalid rank %q at position %d", s[i], i)
		}
		suit, ok := suitLetters[s[i+1]]
		if !ok {
			return nil, fmt.Errorf("invalid suit %q at position %d", s[i+1], i+1)
		}
		cards = append(cards, NewCard(suit, rank))
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

func parseCard(rank, suit string) (Card, error) {
	var c Card
	found := false
	for s := Spades; s <= Clubs; s++ {
		if s.String() == suit {
			c.Suit = s
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("invalid suit %q", suit)
	}
	for r := Two; r <= Ace; r++ {
		if r.String() == rank {
			c.Rank = r
			return c, nil
		}
	}
	return Card{}, fmt.Errorf("invalid rank %q", rank)
}
