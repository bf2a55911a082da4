// Package datastore orchestrates the record codec, the predicate resolver,
// and the row store into the four table-scoped operations the store exposes:
// Add, Fetch, Update, and Remove. Every operation validates against the
// table's schema before touching the engine, never affects rows outside the
// resolved match set, and returns the uniform {status, value} envelope.
//
// Predicate resolution strategy depends on whether the active configuration
// preserves equality under the value transform:
//
//   - plain, encoded, deterministic encrypted: the predicate's expected
//     values are encoded with the same transform used for storage and pushed
//     down as an engine-native exact-match lookup (O(matching rows),
//     typically index-assisted);
//   - randomized encrypted: every row is read back, decrypted, and compared
//     in-process against the plaintext predicate (O(table size) per call,
//     the documented cost of that configuration).
//
// The two strategies never mix within a store instance: Mode, Secret, and
// the deterministic flag are fixed at construction.
//
// Multi-row Update and Remove are not atomic across rows; a mid-sequence
// engine failure surfaces a STORAGE_ERROR carrying the count applied so far.
package datastore
