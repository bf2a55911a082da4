package datastore

import (
	"context"

	"github.com/veilstore/veil/internal/codec"
	"github.com/veilstore/veil/internal/rec"
	"github.com/veilstore/veil/internal/rowstore"
)

// MatchSet is the ordered set of stored rows satisfying a predicate under
// the active mode's matching rule. Rows carry their storage representation;
// order is the engine's natural row order. A MatchSet is computed per call
// and never cached - rows may change between calls.
type MatchSet []rowstore.StoredRow

// Resolver determines which stored rows match a partial-record predicate.
type Resolver struct {
	codec *codec.Codec
	rows  *rowstore.Store
}

// NewResolver creates a Resolver over the given codec and row store.
func NewResolver(c *codec.Codec, rows *rowstore.Store) *Resolver {
	return &Resolver{codec: c, rows: rows}
}

// Resolve returns the rows matching the predicate.
//
// A predicate matches a row iff every field it names equals the
// corresponding field of the row post-decoding; fields it does not name are
// ignored. The predicate is validated before any engine access: it must be
// non-empty and name only declared columns.
func (r *Resolver) Resolve(ctx context.Context, schema rec.TableSchema, predicate *rec.Record) (MatchSet, error) {
	if err := rec.ValidatePredicate(predicate); err != nil {
		return nil, err
	}
	if err := schema.ValidateSubset(predicate.Fields()); err != nil {
		return nil, err
	}
	if r.codec.EqualityPreserving() {
		return r.resolveExact(ctx, schema, predicate)
	}
	return r.resolveScan(ctx, schema, predicate)
}

// resolveExact encodes the predicate's expected values with the storage
// transform and lets the engine find the candidate rows.
//
// Engine equality is affinity-coerced, which is looser than value equality:
// on an INT column, '69420' = 69420 holds in SQL. Candidates are therefore
// re-checked against the plaintext predicate post-decoding, so a text
// predicate never matches an integer field. Only candidate rows are decoded.
func (r *Resolver) resolveExact(ctx context.Context, schema rec.TableSchema, predicate *rec.Record) (MatchSet, error) {
	criteria, err := r.codec.EncodePartial(schema, predicate)
	if err != nil {
		return nil, err
	}
	rows, err := r.rows.SelectByExact(ctx, schema, criteria)
	if err != nil {
		return nil, rec.NewStorageError(schema.Name, "predicate lookup failed", err)
	}
	var matched MatchSet
	for _, row := range rows {
		decoded, err := r.codec.DecodeRecord(schema, row.Values)
		if err != nil {
			return nil, err
		}
		if matchesPredicate(decoded, predicate) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

// resolveScan reads the whole table, decrypts each row, and compares in
// process. The only path for randomized encryption, where ciphertext
// equality says nothing about plaintext equality.
func (r *Resolver) resolveScan(ctx context.Context, schema rec.TableSchema, predicate *rec.Record) (MatchSet, error) {
	rows, err := r.rows.SelectAll(ctx, schema)
	if err != nil {
		return nil, rec.NewStorageError(schema.Name, "table scan failed", err)
	}
	var matched MatchSet
	for _, row := range rows {
		decoded, err := r.codec.DecodeRecord(schema, row.Values)
		if err != nil {
			return nil, err
		}
		if matchesPredicate(decoded, predicate) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

// matchesPredicate reports whether every predicate field equals the
// corresponding decoded row field.
func matchesPredicate(decoded, predicate *rec.Record) bool {
	for _, name := range predicate.Fields() {
		want, _ := predicate.Get(name)
		got, ok := decoded.Get(name)
		if !ok || !rec.Equal(got, want) {
			return false
		}
	}
	return true
}
