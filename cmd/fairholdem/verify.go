package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/fairholdem/internal/deck"
)

// VerifyCmd recomputes a hand's deck from its revealed seed.
type VerifyCmd struct {
	Seed     string `arg:"" help:"Revealed seed (hex)"`
	SeedHash string `arg:"" help:"Commitment published before the hand (hex sha256)"`
	Deal     int    `short:"d" default:"0" help:"Only show the first N cards"`
}

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	redCard    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	blackCard  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

func (c *VerifyCmd) Run() error {
	return verify(os.Stdout, c.Seed, c.SeedHash, c.Deal)
}

func verify(w io.Writer, seed, seedHash string, n int) error {
	seed = strings.TrimSpace(seed)
	seedHash = strings.ToLower(strings.TrimSpace(seedHash))

	if !deck.VerifyCommitment(seed, seedHash) {
		fmt.Fprintln(w, failStyle.Render("MISMATCH"), labelStyle.Render("sha256(seed) = "+deck.Commit(seed)))
		return fmt.Errorf("seed does not match commitment %s", seedHash)
	}

	cards := deck.ShuffleSeed(seed)
	if n > 0 && n < len(cards) {
		cards = cards[:n]
	}
	fmt.Fprintln(w, okStyle.Render("VERIFIED"), labelStyle.Render(seedHash))
	for i := 0; i < len(cards); i += 13 {
		end := min(i+13, len(cards))
		fmt.Fprintln(w, formatCards(cards[i:end]))
	}
	return nil
}

// formatCards renders cards with red and black suits.
func formatCards(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, redCard.Render(card.String()))
		} else {
			formatted = append(formatted, blackCard.Render(card.String()))
		}
	}
	return strings.Join(formatted, " ")
}
