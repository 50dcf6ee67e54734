package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphsmith/internal/ir"
)

func TestSeedSequence_StartsAtZero(t *testing.T) {
	seq := NewSeedSequence()
	assert.Equal(t, int64(0), seq.Current())
}

func TestSeedSequence_NextIncrementsMonotonically(t *testing.T) {
	seq := NewSeedSequence()

	assert.Equal(t, int64(1), seq.Next())
	assert.Equal(t, int64(1), seq.Current())

	assert.Equal(t, int64(2), seq.Next())
	assert.Equal(t, int64(3), seq.Next())
	assert.Equal(t, int64(3), seq.Current())
}

func TestSeedSequence_Reset(t *testing.T) {
	seq := NewSeedSequence()
	seq.Next()
	seq.Next()

	seq.Reset()
	assert.Equal(t, int64(0), seq.Current())
	assert.Equal(t, int64(1), seq.Next())
}

func TestSeedSequence_Generate(t *testing.T) {
	seq := NewSeedSequence()

	assert.Equal(t, ir.Int(1), seq.Generate())
	assert.Equal(t, ir.Int(2), seq.Generate())
}

func TestSeedSequence_ThreadSafe(t *testing.T) {
	seq := NewSeedSequence()
	const numGoroutines = 50
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make([][]int64, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		results[i] = make([]int64, callsPerGoroutine)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				results[idx][j] = seq.Next()
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for i := range results {
		for _, v := range results[i] {
			require.False(t, seen[v], "duplicate value %d", v)
			seen[v] = true
		}
	}
	assert.Len(t, seen, numGoroutines*callsPerGoroutine)
}

func TestFixedIDGenerator(t *testing.T) {
	gen := NewFixedIDGenerator("client-7")
	assert.Equal(t, "client-7", gen.Generate())
	assert.Equal(t, "client-7", gen.Generate())

	assert.Equal(t, "00000000-0000-0000-0000-000000000001", NewFixedIDGenerator("").Generate())
}
