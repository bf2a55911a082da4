package datastore

import (
	"context"
	"errors"
	"fmt"

	"github.com/veilstore/veil/internal/codec"
	"github.com/veilstore/veil/internal/rec"
	"github.com/veilstore/veil/internal/rowstore"
)

// FetchMode selects how many matches Fetch and Remove act on.
type FetchMode int

const (
	// FetchOne acts on at most the first match in engine row order.
	FetchOne FetchMode = 1

	// FetchAll acts on every match.
	FetchAll FetchMode = 2
)

// DataStore implements add/fetch/update/remove against named tables,
// transparently transforming field values to and from the configured
// storage representation.
//
// The configuration (mode, secret, deterministic flag) is captured at
// construction and immutable for the instance's lifetime: changing the
// representation mid-lifetime would break matching over already-stored rows.
// Multiple instances with different configurations can coexist safely.
type DataStore struct {
	cfg      codec.Config
	codec    *codec.Codec
	rows     *rowstore.Store
	resolver *Resolver
}

// New creates a DataStore over an open row store.
func New(cfg codec.Config, rows *rowstore.Store) (*DataStore, error) {
	c, err := codec.New(cfg)
	if err != nil {
		return nil, err
	}
	return &DataStore{
		cfg:      cfg,
		codec:    c,
		rows:     rows,
		resolver: NewResolver(c, rows),
	}, nil
}

// Config returns the instance's immutable configuration.
func (d *DataStore) Config() codec.Config {
	return d.cfg
}

// CreateTable creates a table from the descriptor if it does not exist.
func (d *DataStore) CreateTable(ctx context.Context, schema rec.TableSchema) error {
	if err := d.rows.CreateTable(ctx, schema); err != nil {
		return rec.NewStorageError(schema.Name, "create table failed", err)
	}
	return nil
}

// Table returns the descriptor of an existing table.
func (d *DataStore) Table(ctx context.Context, name string) (rec.TableSchema, error) {
	return d.schema(ctx, name)
}

// Tables lists the user tables in the database.
func (d *DataStore) Tables(ctx context.Context) ([]string, error) {
	names, err := d.rows.Tables(ctx)
	if err != nil {
		return nil, rec.NewStorageError("", "list tables failed", err)
	}
	return names, nil
}

// DropTable removes a table and all its rows.
func (d *DataStore) DropTable(ctx context.Context, name string) error {
	if err := d.rows.DropTable(ctx, name); err != nil {
		return rec.NewStorageError(name, "drop table failed", err)
	}
	return nil
}

// Add validates a record against the table's schema, encodes it, and inserts
// it. Returns {status: true, value: the original plaintext record}.
func (d *DataStore) Add(ctx context.Context, table string, record *rec.Record) (Response, error) {
	schema, err := d.schema(ctx, table)
	if err != nil {
		return None(), err
	}
	stored, err := d.codec.EncodeRecord(schema, record)
	if err != nil {
		return None(), err
	}
	if _, err := d.rows.Insert(ctx, schema, stored); err != nil {
		return None(), d.storageErr(schema.Name, "insert failed", err, 0)
	}
	return OfRecord(record), nil
}

// Fetch resolves the predicate and returns the matching plaintext records:
// the first match for FetchOne, the ordered sequence of all matches for
// FetchAll. "First" means first in the engine's natural row order (insertion
// order); that order is a documented contract, not an accident.
// No match yields {status: false, value: null}.
func (d *DataStore) Fetch(ctx context.Context, table string, predicate *rec.Record, mode FetchMode) (Response, error) {
	schema, err := d.schema(ctx, table)
	if err != nil {
		return None(), err
	}
	matches, err := d.resolver.Resolve(ctx, schema, predicate)
	if err != nil {
		return None(), err
	}
	if len(matches) == 0 {
		return None(), nil
	}
	if mode == FetchOne {
		decoded, err := d.codec.DecodeRecord(schema, matches[0].Values)
		if err != nil {
			return None(), err
		}
		return OfRecord(decoded), nil
	}
	records := make([]*rec.Record, 0, len(matches))
	for _, m := range matches {
		decoded, err := d.codec.DecodeRecord(schema, m.Values)
		if err != nil {
			return None(), err
		}
		records = append(records, decoded)
	}
	return OfRecords(records), nil
}

// Update merges newValues into every row matching the predicate, re-encodes,
// and writes back. Fields not named in newValues are preserved unchanged.
// Returns {status: matched > 0, value: count of rows affected}.
//
// Not atomic across rows: a mid-sequence engine failure surfaces a
// STORAGE_ERROR carrying the count applied before the failure.
func (d *DataStore) Update(ctx context.Context, table string, predicate, newValues *rec.Record) (Response, error) {
	if newValues.Len() == 0 {
		return None(), rec.NewInvalidPredicate("update values must name at least one column")
	}
	schema, err := d.schema(ctx, table)
	if err != nil {
		return None(), err
	}
	if err := schema.ValidateSubset(newValues.Fields()); err != nil {
		return None(), err
	}
	matches, err := d.resolver.Resolve(ctx, schema, predicate)
	if err != nil {
		return None(), err
	}

	var applied int64
	for _, m := range matches {
		decoded, err := d.codec.DecodeRecord(schema, m.Values)
		if err != nil {
			return None(), err
		}
		merged := decoded.Clone()
		for _, name := range newValues.Fields() {
			v, _ := newValues.Get(name)
			merged.Set(name, v)
		}
		stored, err := d.codec.EncodeRecord(schema, merged)
		if err != nil {
			return None(), err
		}
		if err := d.rows.UpdateByID(ctx, schema, m.ID, stored); err != nil {
			return None(), d.storageErr(schema.Name, "update failed partway", err, applied)
		}
		applied++
	}
	return OfCount(applied), nil
}

// Remove deletes the rows matching the predicate: at most the first match
// for FetchOne, every match for FetchAll.
// Returns {status: deleted > 0, value: count deleted}.
func (d *DataStore) Remove(ctx context.Context, table string, predicate *rec.Record, mode FetchMode) (Response, error) {
	schema, err := d.schema(ctx, table)
	if err != nil {
		return None(), err
	}
	matches, err := d.resolver.Resolve(ctx, schema, predicate)
	if err != nil {
		return None(), err
	}
	if mode == FetchOne && len(matches) > 1 {
		matches = matches[:1]
	}

	var deleted int64
	for _, m := range matches {
		n, err := d.rows.DeleteByID(ctx, schema.Name, m.ID)
		if err != nil {
			return None(), d.storageErr(schema.Name, "remove failed partway", err, deleted)
		}
		deleted += n
	}
	return OfCount(deleted), nil
}

// schema loads the table descriptor, mapping a missing table to a storage
// error.
func (d *DataStore) schema(ctx context.Context, table string) (rec.TableSchema, error) {
	schema, err := d.rows.Describe(ctx, table)
	if err != nil {
		if errors.Is(err, rowstore.ErrNoTable) {
			return rec.TableSchema{}, rec.NewStorageError(table, "table does not exist", err)
		}
		return rec.TableSchema{}, rec.NewStorageError(table, "describe table failed", err)
	}
	return schema, nil
}

// storageErr wraps an engine failure with an operation token and the number
// of rows applied before the failure.
func (d *DataStore) storageErr(table, message string, err error, applied int64) error {
	se := rec.NewStorageError(table, message, err)
	se.Op = newOpToken()
	se.Applied = int(applied)
	if applied > 0 {
		se.Message = fmt.Sprintf("%s (%d rows applied)", message, applied)
	}
	return se
}
