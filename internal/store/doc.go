// Package store provides SQLite-backed durable storage for built documents.
//
// Each build record keeps the recipe name, the canonical JSON of the
// validated parameters, the canonical JSON of the document and its content
// hash. Records are append-only.
//
// # Ordering
//
//   - All ordering uses seq INTEGER (logical insertion order), never timestamps
//   - List returns newest first: ORDER BY seq DESC
//
// # Reproducibility
//
// A record carries everything needed to rebuild its document: feeding the
// stored parameters back through the same recipe must yield the stored hash.
// The verify command relies on this.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
