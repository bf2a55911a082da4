// Package codec converts plaintext field values to and from their storage
// representation.
//
// Three modes are supported:
//
//   - Plain: identity, values stored as-is.
//   - Encoded: a type-tagged serialization of the scalar, base64-encoded.
//     Deterministic and injective, so equality survives the transform.
//   - Encrypted: AES-256-GCM over the same tagged serialization, keyed by
//     SHA-256 of the configured secret.
//
// Encrypted mode defaults to deterministic encryption: the GCM nonce is
// derived from the plaintext via HMAC-SHA256 (SIV-style), so identical
// plaintext and secret always produce identical ciphertext. That keeps
// equality matching engine-native at the cost of leaking which stored values
// are equal to each other. Setting
// Deterministic to false uses a random nonce instead; equality matching then
// requires a full-table decrypt-and-compare scan per predicate operation.
//
// Null values pass through untransformed in every mode, avoiding ambiguity
// between "absent" and "encrypted null".
package codec
