package game

import (
	"github.com/paulhankin/poker"

	"github.com/lox/fairholdem/internal/deck"
)

// describeHands labels each live player's best hand at a multi-way
// showdown. Labels are informational only and never affect the award.
func (t *Table) describeHands(players []*Player) {
	if len(t.community) != 5 {
		return
	}
	for _, p := range players {
		if len(p.Hand) != 2 {
			continue
		}
		cards := make([]deck.Card, 0, 7)
		cards = append(cards, p.Hand...)
		cards = append(cards, t.community...)
		p.Description = Describe(cards)
	}
}

// Describe names the best poker hand in 5 to 7 cards, e.g. "two pair, kings
// and fives". It returns "" if the cards cannot be described.
func Describe(cards []deck.Card) string {
	if len(cards) < 5 || len(cards) > 7 {
		return ""
	}
	converted := make([]poker.Card, 0, len(cards))
	for _, c := range cards {
		pc, err := toPoker(c)
		if err != nil {
			return ""
		}
		converted = append(converted, pc)
	}
	desc, err := poker.Describe(converted)
	if err != nil {
		return ""
	}
	return desc
}

// toPoker converts to the evaluator's card type, which ranks aces as 1.
func toPoker(c deck.Card) (poker.Card, error) {
	var s poker.Suit
	switch c.Suit {
	case deck.Clubs:
		s = poker.Club
	case deck.Diamonds:
		s = poker.Diamond
	case deck.Hearts:
		s = poker.Heart
	default:
		s = poker.Spade
	}
	r := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		r = poker.Rank(1)
	}
	return poker.MakeCard(s, r)
}
