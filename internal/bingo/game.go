package bingo

import (
	"time"

	"github.com/google/uuid"
)

type GameStatus string

const (
	GameActive   GameStatus = "active"
	GameFinished GameStatus = "finished"
)

// Visitor is a room participant.
type Visitor struct {
	VisitorID string    `json:"visitorId"`
	Nickname  string    `json:"nickname"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// Game is one playthrough within a room. Cards are kept in creation order,
// which is the original visitor join order; win detection walks them in
// that order and the first card to satisfy a rule wins.
type Game struct {
	ID            string    `json:"id"`
	RoomID        string    `json:"roomId"`
	DrawnNumbers  []int     `json:"drawnNumbers"`
	Cards         []*Card   `json:"cards"`
	Rules         []Rule    `json:"rules"`
	Winner        *string   `json:"winner"`
	WinnerName    string    `json:"winnerName,omitempty"`
	WinningCardID string    `json:"winningCardId,omitempty"`
	WinningRule   Rule      `json:"winningRule,omitempty"`
	IsFinished    bool      `json:"isFinished"`
	StartedAt     time.Time `json:"startedAt"`
}

// NewGame deals one card per visitor.
func NewGame(src Source, roomID string, visitors []Visitor, rules []Rule, now time.Time) *Game {
	cards := make([]*Card, 0, len(visitors))
	for _, v := range visitors {
		cards = append(cards, GenerateCard(src, v.VisitorID, v.Nickname))
	}
	return newGameWithCards(roomID, cards, rules, now)
}

func newGameWithCards(roomID string, cards []*Card, rules []Rule, now time.Time) *Game {
	return &Game{
		ID:           "game-" + uuid.NewString(),
		RoomID:       roomID,
		DrawnNumbers: []int{},
		Cards:        cards,
		Rules:        append([]Rule(nil), rules...),
		StartedAt:    now.UTC(),
	}
}

func (g *Game) Status() GameStatus {
	if g.IsFinished {
		return GameFinished
	}
	return GameActive
}

// Remaining returns the undrawn numbers in ascending order.
func (g *Game) Remaining() []int {
	drawn := make(map[int]struct{}, len(g.DrawnNumbers))
	for _, n := range g.DrawnNumbers {
		drawn[n] = struct{}{}
	}
	out := make([]int, 0, MaxNumber-len(drawn))
	for n := MinNumber; n <= MaxNumber; n++ {
		if _, ok := drawn[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// DrawNumber reveals one undrawn number, marks it on every card and runs
// win detection.
func (g *Game) DrawNumber(src Source) (int, error) {
	if g.IsFinished {
		return 0, ErrGameAlreadyFinished
	}
	remaining := g.Remaining()
	if len(remaining) == 0 {
		return 0, ErrNoNumbersRemaining
	}
	number := remaining[src.IntN(len(remaining))]

	g.DrawnNumbers = append(g.DrawnNumbers, number)
	for _, card := range g.Cards {
		card.MarkNumber(number)
	}
	g.detectWinner()
	return number, nil
}

func (g *Game) detectWinner() {
	for _, card := range g.Cards {
		rule, ok := firstSatisfied(g.Rules, card)
		if !ok {
			continue
		}
		winner := card.OwnerID
		g.Winner = &winner
		g.WinnerName = card.OwnerName
		g.WinningCardID = card.ID
		g.WinningRule = rule
		g.IsFinished = true
		return
	}
}

// ValidateBingo confirms a claim for cardID without touching game state.
func (g *Game) ValidateBingo(cardID string) bool {
	card, ok := g.CardByID(cardID)
	if !ok {
		return false
	}
	if g.IsFinished && g.Winner != nil && *g.Winner == card.OwnerID {
		return true
	}
	_, satisfied := firstSatisfied(g.Rules, card)
	return satisfied
}

func (g *Game) CardByID(cardID string) (*Card, bool) {
	for _, card := range g.Cards {
		if card.ID == cardID {
			return card, true
		}
	}
	return nil, false
}

func (g *Game) CardByOwner(ownerID string) (*Card, bool) {
	for _, card := range g.Cards {
		if card.OwnerID == ownerID {
			return card, true
		}
	}
	return nil, false
}
