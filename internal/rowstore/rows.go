package rowstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/veilstore/veil/internal/rec"
)

// StoredRow pairs the engine-native row identifier with the
// storage-representation record it identifies. The identifier is owned by
// the engine and never exposed to clients of the data store.
type StoredRow struct {
	ID     int64
	Values *rec.Record
}

// Insert adds a storage-representation record to a table and returns the
// engine-assigned row identifier.
func (s *Store) Insert(ctx context.Context, schema rec.TableSchema, row *rec.Record) (int64, error) {
	cols, args, err := bindColumns(schema, row)
	if err != nil {
		return 0, err
	}
	holes := make([]string, len(cols))
	for i := range holes {
		holes[i] = "?"
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(schema.Name), strings.Join(cols, ", "), strings.Join(holes, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert into %q: %w", schema.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert into %q: last insert id: %w", schema.Name, err)
	}
	return id, nil
}

// SelectAll returns every row of a table in _rowid_ order.
// An empty table yields an empty slice, not an error.
func (s *Store) SelectAll(ctx context.Context, schema rec.TableSchema) ([]StoredRow, error) {
	query := fmt.Sprintf("SELECT _rowid_, %s FROM %s ORDER BY _rowid_ ASC",
		columnList(schema), quoteIdent(schema.Name))
	return s.selectRows(ctx, schema, query)
}

// SelectByExact returns the rows whose columns exactly equal the given
// storage-representation values, in _rowid_ order. Used only when the active
// representation preserves equality, so the engine can resolve the match
// natively (typically index-assisted).
func (s *Store) SelectByExact(ctx context.Context, schema rec.TableSchema, criteria *rec.Record) ([]StoredRow, error) {
	if err := validIdent(schema.Name); err != nil {
		return nil, err
	}
	fields := criteria.Fields()
	if len(fields) == 0 {
		return nil, fmt.Errorf("no criteria to bind for table %q", schema.Name)
	}
	// SQL equality never matches NULL, so null criteria become IS NULL.
	var frags []string
	var args []any
	for _, name := range fields {
		if err := validIdent(name); err != nil {
			return nil, err
		}
		v, _ := criteria.Get(name)
		if rec.IsNull(v) {
			frags = append(frags, quoteIdent(name)+" IS NULL")
			continue
		}
		frags = append(frags, quoteIdent(name)+" = ?")
		args = append(args, rec.ToDriver(v))
	}
	query := fmt.Sprintf("SELECT _rowid_, %s FROM %s WHERE %s ORDER BY _rowid_ ASC",
		columnList(schema), quoteIdent(schema.Name), strings.Join(frags, " AND "))
	return s.selectRows(ctx, schema, query, args...)
}

// UpdateByID overwrites the row with the given identifier.
func (s *Store) UpdateByID(ctx context.Context, schema rec.TableSchema, id int64, row *rec.Record) error {
	cols, args, err := bindColumns(schema, row)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE _rowid_ = ?",
		quoteIdent(schema.Name), strings.Join(equalsFragments(cols), ", "))
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %q row %d: %w", schema.Name, id, err)
	}
	return nil
}

// DeleteByID removes the row with the given identifier and returns the
// number of rows affected (0 or 1).
func (s *Store) DeleteByID(ctx context.Context, table string, id int64) (int64, error) {
	if err := validIdent(table); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE _rowid_ = ?", quoteIdent(table)), id)
	if err != nil {
		return 0, fmt.Errorf("delete from %q row %d: %w", table, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete from %q row %d: rows affected: %w", table, id, err)
	}
	return affected, nil
}

// selectRows runs a select whose first column is _rowid_ followed by the
// schema's columns in declaration order.
func (s *Store) selectRows(ctx context.Context, schema rec.TableSchema, query string, args ...any) ([]StoredRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %q: %w", schema.Name, err)
	}
	defer rows.Close()

	var out []StoredRow
	for rows.Next() {
		scan := make([]any, len(schema.Columns)+1)
		ptrs := make([]any, len(scan))
		for i := range scan {
			ptrs[i] = &scan[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("select from %q: %w", schema.Name, err)
		}
		id, ok := scan[0].(int64)
		if !ok {
			return nil, fmt.Errorf("select from %q: unexpected rowid type %T", schema.Name, scan[0])
		}
		record := rec.NewRecord()
		for i, col := range schema.Columns {
			v, err := rec.FromDriver(scan[i+1])
			if err != nil {
				return nil, fmt.Errorf("select from %q column %q: %w", schema.Name, col.Name, err)
			}
			record.Set(col.Name, v)
		}
		out = append(out, StoredRow{ID: id, Values: record})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select from %q: %w", schema.Name, err)
	}
	return out, nil
}

// columnList renders the schema's quoted column names in declaration order.
func columnList(schema rec.TableSchema) string {
	quoted := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		quoted[i] = quoteIdent(col.Name)
	}
	return strings.Join(quoted, ", ")
}

// bindColumns validates and quotes the record's column names and collects
// the parameter values in the same order. Values are never interpolated.
func bindColumns(schema rec.TableSchema, r *rec.Record) (cols []string, args []any, err error) {
	if err := validIdent(schema.Name); err != nil {
		return nil, nil, err
	}
	fields := r.Fields()
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("no columns to bind for table %q", schema.Name)
	}
	for _, name := range fields {
		if err := validIdent(name); err != nil {
			return nil, nil, err
		}
		v, _ := r.Get(name)
		cols = append(cols, quoteIdent(name))
		args = append(args, rec.ToDriver(v))
	}
	return cols, args, nil
}

// equalsFragments turns quoted column names into "col = ?" fragments.
func equalsFragments(cols []string) []string {
	frags := make([]string, len(cols))
	for i, col := range cols {
		frags[i] = col + " = ?"
	}
	return frags
}
