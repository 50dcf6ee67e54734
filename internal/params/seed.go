package params

import (
	"math/rand/v2"

	"github.com/roach88/graphsmith/internal/ir"
)

// SeedLimit is the exclusive upper bound of generated seeds.
const SeedLimit = 1_000_000_000_000_000

// Generator computes a default at validation time.
type Generator func() ir.Value

// RandomSeed draws a seed uniformly from [0, SeedLimit).
func RandomSeed() ir.Value {
	return ir.Int(rand.Int64N(SeedLimit))
}

// Fixed returns a generator that always yields v.
func Fixed(v ir.Value) Generator {
	return func() ir.Value { return v }
}
