// Package ir provides the graph document types emitted by graphsmith.
//
// This package contains value and document definitions only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Node inputs are a sealed Value: String, Int, Float, Bool or Ref
//   - A Ref is serialized as a two element array ["node-id", slot]
//   - Documents serialize through MarshalCanonical only, so identical
//     parameters produce byte-identical output
//   - Wire keys follow the execution engine: class_type, inputs, _meta
package ir
