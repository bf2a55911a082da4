// Package harness provides a conformance harness for the record store.
//
// Scenarios are YAML scripts: a table definition followed by a sequence of
// add/fetch/update/remove steps with expected response envelopes. Each run
// executes against a fresh in-memory database, so scenarios are isolated and
// reproducible.
//
// Because operations accept and return plaintext records regardless of the
// configured at-rest representation, a scenario's trace is identical in every
// mode. Golden files exploit this: one golden trace per scenario, asserted
// under plain, encoded, and both encrypted configurations.
package harness
