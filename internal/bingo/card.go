package bingo

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	CardSize  = 5
	CardCells = CardSize * CardSize
	MinNumber = 1
	MaxNumber = 75
)

type Cell struct {
	Number int  `json:"number"`
	Marked bool `json:"marked"`
}

// Card is a 5x5 grid assigned to one participant for one game.
type Card struct {
	ID        string                   `json:"id"`
	OwnerID   string                   `json:"ownerId"`
	OwnerName string                   `json:"ownerName"`
	Cells     [CardSize][CardSize]Cell `json:"cells"`
}

// GenerateCard draws 25 distinct numbers from [1,75] and lays them out
// row-major, all unmarked.
func GenerateCard(src Source, ownerID, ownerName string) *Card {
	used := make(map[int]struct{}, CardCells)
	card := &Card{
		ID:        "card-" + uuid.NewString(),
		OwnerID:   ownerID,
		OwnerName: ownerName,
	}
	for n := 0; n < CardCells; {
		number := src.IntN(MaxNumber) + MinNumber
		if _, taken := used[number]; taken {
			continue
		}
		used[number] = struct{}{}
		card.Cells[n/CardSize][n%CardSize] = Cell{Number: number}
		n++
	}
	return card
}

// NewCard builds an unmarked card from explicit numbers given row-major.
func NewCard(id, ownerID, ownerName string, numbers [CardCells]int) (*Card, error) {
	seen := make(map[int]struct{}, CardCells)
	card := &Card{ID: id, OwnerID: ownerID, OwnerName: ownerName}
	for i, number := range numbers {
		if number < MinNumber || number > MaxNumber {
			return nil, Errorf(KindInvalidArgument, fmt.Sprintf("card number %d out of range", number))
		}
		if _, dup := seen[number]; dup {
			return nil, Errorf(KindInvalidArgument, fmt.Sprintf("card number %d repeated", number))
		}
		seen[number] = struct{}{}
		card.Cells[i/CardSize][i%CardSize] = Cell{Number: number}
	}
	return card, nil
}

// MarkNumber marks the cell holding n, if any. Absent numbers are ignored.
func (c *Card) MarkNumber(n int) {
	for i := range c.Cells {
		for j := range c.Cells[i] {
			cell := &c.Cells[i][j]
			if cell.Number == n && !cell.Marked {
				cell.Marked = true
				return
			}
		}
	}
}

func (c *Card) CheckLine(i int) bool {
	if i < 0 || i >= CardSize {
		return false
	}
	for j := 0; j < CardSize; j++ {
		if !c.Cells[i][j].Marked {
			return false
		}
	}
	return true
}

func (c *Card) CheckColumn(j int) bool {
	if j < 0 || j >= CardSize {
		return false
	}
	for i := 0; i < CardSize; i++ {
		if !c.Cells[i][j].Marked {
			return false
		}
	}
	return true
}

func (c *Card) CheckFull() bool {
	return c.MarkedCount() == CardCells
}

// CheckDiagonal checks the main diagonal (top-left to bottom-right) or,
// when main is false, the anti-diagonal.
func (c *Card) CheckDiagonal(main bool) bool {
	for i := 0; i < CardSize; i++ {
		j := i
		if !main {
			j = CardSize - 1 - i
		}
		if !c.Cells[i][j].Marked {
			return false
		}
	}
	return true
}

func (c *Card) MarkedCount() int {
	count := 0
	for i := range c.Cells {
		for j := range c.Cells[i] {
			if c.Cells[i][j].Marked {
				count++
			}
		}
	}
	return count
}

// Numbers returns the card numbers row-major.
func (c *Card) Numbers() [CardCells]int {
	var out [CardCells]int
	for i := range c.Cells {
		for j := range c.Cells[i] {
			out[i*CardSize+j] = c.Cells[i][j].Number
		}
	}
	return out
}
