// Package rowstore wraps the relational engine (SQLite) behind the narrow
// interface the data store consumes: table creation and description, plus
// insert / select-all / select-by-exact / update / delete keyed by the
// engine-native row identifier (_rowid_).
//
// The package never interprets stored values; it moves storage-representation
// records in and out of the engine. Value transformation and predicate
// resolution live above it.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// All selects emit ORDER BY _rowid_ ASC so multi-match results are returned
// in stable insertion order. Values are always parameterized, never
// interpolated; identifiers are validated before being spliced into SQL.
package rowstore
