package bingo

import "testing"

// countingSource returns 0, 1, 2, ... modulo n.
type countingSource struct {
	next int
}

func (s *countingSource) IntN(n int) int {
	v := s.next % n
	s.next++
	return v
}

func firstSource() Source {
	return SourceFunc(func(int) int { return 0 })
}

func mustCard(t *testing.T, id, owner string, numbers [CardCells]int) *Card {
	t.Helper()
	card, err := NewCard(id, owner, owner+"-name", numbers)
	if err != nil {
		t.Fatalf("build card: %v", err)
	}
	return card
}

func sequentialNumbers(start int) [CardCells]int {
	var out [CardCells]int
	for i := range out {
		out[i] = start + i
	}
	return out
}

func TestGenerateCardNumbersAreDistinctAndInRange(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		card := GenerateCard(NewSeededSource(seed), "v1", "Ada")
		seen := make(map[int]struct{}, CardCells)
		for _, n := range card.Numbers() {
			if n < MinNumber || n > MaxNumber {
				t.Fatalf("seed %d: number %d out of range", seed, n)
			}
			if _, dup := seen[n]; dup {
				t.Fatalf("seed %d: number %d repeated", seed, n)
			}
			seen[n] = struct{}{}
		}
		if card.MarkedCount() != 0 {
			t.Fatalf("seed %d: expected unmarked card, got %d marks", seed, card.MarkedCount())
		}
	}
}

func TestGenerateCardResamplesOnCollision(t *testing.T) {
	calls := 0
	src := SourceFunc(func(n int) int {
		calls++
		// every other pick repeats the previous one
		return (calls / 2) % n
	})
	card := GenerateCard(src, "v1", "Ada")
	if got := card.Numbers(); got != sequentialNumbers(1) {
		t.Fatalf("expected 1..25 row-major, got %v", got)
	}
	if calls <= CardCells {
		t.Fatalf("expected collisions to force extra draws, got %d calls", calls)
	}
}

func TestGenerateCardIDsAreUnique(t *testing.T) {
	a := GenerateCard(&countingSource{}, "v1", "Ada")
	b := GenerateCard(&countingSource{}, "v1", "Ada")
	if a.ID == b.ID {
		t.Fatalf("expected unique card ids, got %s twice", a.ID)
	}
	if a.OwnerID != "v1" || a.OwnerName != "Ada" {
		t.Fatalf("unexpected owner %s/%s", a.OwnerID, a.OwnerName)
	}
}

func TestNewCardRejectsBadNumbers(t *testing.T) {
	numbers := sequentialNumbers(1)
	numbers[3] = 1
	if _, err := NewCard("c", "v", "n", numbers); KindOf(err) != KindInvalidArgument {
		t.Fatalf("expected invalid argument for repeat, got %v", err)
	}
	numbers = sequentialNumbers(60)
	if _, err := NewCard("c", "v", "n", numbers); KindOf(err) != KindInvalidArgument {
		t.Fatalf("expected invalid argument for out of range, got %v", err)
	}
}

func TestMarkNumber(t *testing.T) {
	card := mustCard(t, "c1", "v1", sequentialNumbers(1))
	card.MarkNumber(7)
	if !card.Cells[1][1].Marked {
		t.Fatalf("expected cell (1,1) marked")
	}
	if card.MarkedCount() != 1 {
		t.Fatalf("expected one mark, got %d", card.MarkedCount())
	}
	card.MarkNumber(70)
	if card.MarkedCount() != 1 {
		t.Fatalf("expected absent number to be ignored, got %d marks", card.MarkedCount())
	}
	card.MarkNumber(7)
	if card.MarkedCount() != 1 {
		t.Fatalf("expected re-mark to be a no-op, got %d marks", card.MarkedCount())
	}
}

func TestCheckLineAndColumn(t *testing.T) {
	card := mustCard(t, "c1", "v1", sequentialNumbers(1))
	for n := 6; n <= 10; n++ {
		card.MarkNumber(n)
	}
	if !card.CheckLine(1) {
		t.Fatalf("expected row 1 complete")
	}
	if card.CheckLine(0) {
		t.Fatalf("expected row 0 incomplete")
	}
	for _, n := range []int{3, 8, 13, 18, 23} {
		card.MarkNumber(n)
	}
	if !card.CheckColumn(2) {
		t.Fatalf("expected column 2 complete")
	}
	if card.CheckColumn(0) {
		t.Fatalf("expected column 0 incomplete")
	}
}

func TestChecksOutOfRangeReturnFalse(t *testing.T) {
	card := mustCard(t, "c1", "v1", sequentialNumbers(1))
	for n := 1; n <= 25; n++ {
		card.MarkNumber(n)
	}
	for _, idx := range []int{-1, CardSize, 99} {
		if card.CheckLine(idx) {
			t.Fatalf("expected line %d to be false", idx)
		}
		if card.CheckColumn(idx) {
			t.Fatalf("expected column %d to be false", idx)
		}
	}
}

func TestCheckFullAndDiagonal(t *testing.T) {
	card := mustCard(t, "c1", "v1", sequentialNumbers(1))
	for _, n := range []int{1, 7, 13, 19, 25} {
		card.MarkNumber(n)
	}
	if !card.CheckDiagonal(true) {
		t.Fatalf("expected main diagonal complete")
	}
	if card.CheckDiagonal(false) {
		t.Fatalf("expected anti-diagonal incomplete")
	}
	for _, n := range []int{5, 9, 17, 21} {
		card.MarkNumber(n)
	}
	if !card.CheckDiagonal(false) {
		t.Fatalf("expected anti-diagonal complete")
	}
	if card.CheckFull() {
		t.Fatalf("expected card not full")
	}
	for n := 1; n <= 25; n++ {
		card.MarkNumber(n)
	}
	if !card.CheckFull() {
		t.Fatalf("expected card full")
	}
}
