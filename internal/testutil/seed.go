package testutil

import (
	"sync"

	"github.com/roach88/graphsmith/internal/ir"
)

// SeedSequence yields seeds 1, 2, 3, ... for tests that need generated
// defaults to be predictable.
//
// Unlike params.RandomSeed, a SeedSequence can be reset for test reuse, so
// the same scenario run twice observes identical seeds.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SeedSequence struct {
	mu  sync.Mutex
	seq int64
}

// NewSeedSequence creates a sequence starting at 0.
//
// The first call to Next() returns 1.
func NewSeedSequence() *SeedSequence {
	return &SeedSequence{}
}

// Next increments and returns the next seed.
func (s *SeedSequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Current returns the last issued seed without incrementing.
func (s *SeedSequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset resets the sequence to 0.
func (s *SeedSequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}

// Generate returns the next seed as a literal value.
//
// Matches params.Generator, so a sequence can replace a random seed:
//
//	spec.Validate(raw, params.OverrideGenerator("seed", seq.Generate))
func (s *SeedSequence) Generate() ir.Value {
	return ir.Int(s.Next())
}
