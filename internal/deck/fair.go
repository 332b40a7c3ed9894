package deck

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/lox/fairholdem/internal/randutil"
)

// seedBytes is the amount of entropy drawn for each hand's seed.
const seedBytes = 32

// ErrNoSeed is returned when shuffling before any seed was generated or supplied.
var ErrNoSeed = errors.New("no seed committed")

// FairDeck is a provably fair dealer. A fresh seed is drawn for every hand and
// its sha256 commitment is published before any card is dealt; revealing the
// seed later lets anyone reproduce the exact card order and check it against
// the commitment.
//
// Each FairDeck owns its own generator, so shuffles in different rooms never
// share random state. A FairDeck is not safe for concurrent use.
type FairDeck struct {
	entropy    io.Reader
	seed       string
	commitment string
	deck       *Deck
}

// NewFairDeck returns a dealer drawing seeds from crypto/rand.
func NewFairDeck() *FairDeck {
	return NewFairDeckWithEntropy(rand.Reader)
}

// NewFairDeckWithEntropy returns a dealer drawing seed bytes from r.
func NewFairDeckWithEntropy(r io.Reader) *FairDeck {
	return &FairDeck{entropy: r, deck: NewDeck(nil)}
}

// GenerateSeed draws a new secret seed, retains it with its commitment and
// returns the commitment. Call once per hand, before Shuffle.
func (f *FairDeck) GenerateSeed() (string, error) {
	buf := make([]byte, seedBytes)
	if _, err := io.ReadFull(f.entropy, buf); err != nil {
		return "", fmt.Errorf("reading seed entropy: %w", err)
	}
	f.seed = hex.EncodeToString(buf)
	f.commitment = Commit(f.seed)
	return f.commitment, nil
}

// Shuffle rebuilds the canonical deck and permutes it from the retained seed.
func (f *FairDeck) Shuffle() ([]Card, error) {
	if f.seed == "" {
		return nil, ErrNoSeed
	}
	cards := ShuffleSeed(f.seed)
	f.deck = NewDeck(cards)
	return cards, nil
}

// ShuffleWithSeed replaces the retained seed (and its commitment) with seed and
// shuffles from it.
func (f *FairDeck) ShuffleWithSeed(seed string) []Card {
	f.seed = seed
	f.commitment = Commit(seed)
	cards := ShuffleSeed(seed)
	f.deck = NewDeck(cards)
	return cards
}

// Verify reports whether revealedSeed hashes to the published commitment.
func (f *FairDeck) Verify(revealedSeed string) bool {
	if f.commitment == "" {
		return false
	}
	return VerifyCommitment(revealedSeed, f.commitment)
}

// Deal removes the top n cards, or returns nil if fewer than n remain.
func (f *FairDeck) Deal(n int) []Card {
	return f.deck.Deal(n)
}

// Remaining returns how many cards are left to deal.
func (f *FairDeck) Remaining() int {
	return f.deck.Remaining()
}

// Commitment returns the published hash of the current seed.
func (f *FairDeck) Commitment() string {
	return f.commitment
}

// Seed returns the current secret seed. Only for reveal.
func (f *FairDeck) Seed() string {
	return f.seed
}

// Commit returns the hex sha256 commitment of seed.
func Commit(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// VerifyCommitment reports whether seed hashes to commitment.
func VerifyCommitment(seed, commitment string) bool {
	return subtle.ConstantTimeCompare([]byte(Commit(seed)), []byte(commitment)) == 1
}

// ShuffleSeed returns the canonical deck permuted by a Fisher-Yates shuffle
// driven by the seed's generator: for i from the last index down to 1, draw j
// uniformly from [0, i] and swap positions i and j.
func ShuffleSeed(seed string) []Card {
	src := randutil.ForSeed(seed)
	cards := Standard()
	for i := len(cards) - 1; i > 0; i-- {
		j := randutil.Below(src, uint64(i+1))
		cards[i], cards[j] = cards[j], cards[i]
	}
	return cards
}
