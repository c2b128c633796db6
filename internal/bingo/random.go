package bingo

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Source picks indexes for card generation and draws.
// IntN returns a value in [0, n) and is only called with n > 0.
type Source interface {
	IntN(n int) int
}

// SourceFunc adapts a function to Source.
type SourceFunc func(n int) int

func (f SourceFunc) IntN(n int) int {
	return f(n)
}

// DefaultSource draws from the runtime-seeded math/rand/v2 generator,
// which is safe for concurrent use.
var DefaultSource Source = SourceFunc(rand.IntN)

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a reproducible Source that can be shared
// between goroutines.
func NewSeededSource(seed uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// NewSeed generates a seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
