// Package params declares parameter specifications and validates raw input
// against them.
//
// A Spec is an ordered, immutable list of fields. Validate checks every field
// in one pass, applies literal defaults, evaluates default generators exactly
// once and returns an immutable Set.
//
//	spec := params.MustSpec(
//		params.String("prompt", params.Required()),
//		params.Int("width", params.Default(1024), params.Range(256, 2048), params.MultipleOf(8)),
//		params.Int("seed", params.Generate(params.RandomSeed), params.Range(0, params.SeedLimit-1)),
//	)
//	set, err := spec.Validate(raw)
//
// Errors from Validate are ValidationErrors and match ErrValidation with
// errors.Is.
package params
