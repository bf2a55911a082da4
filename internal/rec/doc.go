// Package rec defines the value model shared by every layer of the store:
// sealed scalar values, ordered field→value records, table descriptors, and
// the error taxonomy surfaced by store operations.
//
// Records are partial-by-construction: a Record naming a subset of a table's
// columns doubles as a predicate for fetch/update/remove targeting. Schema
// validation happens at the boundary of every operation: a Record written
// to a table must name exactly the table's columns, and a predicate must
// name a non-empty subset of them.
//
// Field and column names are NFC-normalized on entry so that Unicode-equal
// names always compare equal, regardless of how the caller composed them.
package rec
