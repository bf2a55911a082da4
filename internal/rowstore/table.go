package rowstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/veilstore/veil/internal/rec"
)

// ErrNoTable is returned by Describe when the table does not exist.
var ErrNoTable = errors.New("rowstore: no such table")

// declPattern restricts declared column types spliced into DDL.
// Covers multi-word SQL types like "DOUBLE PRECISION".
var declPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 ()]*$`)

// CreateTable creates a table from the descriptor if it does not already
// exist. The column set is fixed for the table's lifetime.
func (s *Store) CreateTable(ctx context.Context, schema rec.TableSchema) error {
	if err := validIdent(schema.Name); err != nil {
		return err
	}
	if len(schema.Columns) == 0 {
		return fmt.Errorf("table %q needs at least one column", schema.Name)
	}
	defs := make([]string, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		if err := validIdent(col.Name); err != nil {
			return err
		}
		decl := strings.TrimSpace(col.DeclaredType)
		if decl == "" {
			decl = rec.AffinityBlob
		}
		if !declPattern.MatchString(decl) {
			return fmt.Errorf("invalid declared type %q for column %q", col.DeclaredType, col.Name)
		}
		defs = append(defs, quoteIdent(col.Name)+" "+decl)
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(schema.Name), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %q: %w", schema.Name, err)
	}
	return nil
}

// Describe returns the table descriptor for an existing table, built from
// PRAGMA table_info. Returns ErrNoTable if the table does not exist.
func (s *Store) Describe(ctx context.Context, name string) (rec.TableSchema, error) {
	if err := validIdent(name); err != nil {
		return rec.TableSchema{}, err
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(name)))
	if err != nil {
		return rec.TableSchema{}, fmt.Errorf("describe table %q: %w", name, err)
	}
	defer rows.Close()

	schema := rec.TableSchema{Name: rec.NormalizeName(name)}
	for rows.Next() {
		var (
			cid        int
			colName    string
			declType   sql.NullString
			notNull    int
			dfltValue  any
			primaryKey int
		)
		if err := rows.Scan(&cid, &colName, &declType, &notNull, &dfltValue, &primaryKey); err != nil {
			return rec.TableSchema{}, fmt.Errorf("describe table %q: %w", name, err)
		}
		schema.Columns = append(schema.Columns, rec.Column{
			Name:         rec.NormalizeName(colName),
			DeclaredType: declType.String,
		})
	}
	if err := rows.Err(); err != nil {
		return rec.TableSchema{}, fmt.Errorf("describe table %q: %w", name, err)
	}
	if len(schema.Columns) == 0 {
		return rec.TableSchema{}, fmt.Errorf("%w: %s", ErrNoTable, name)
	}
	return schema, nil
}

// Tables lists the user tables in the database, sorted by name.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

// DropTable removes a table and all its rows.
func (s *Store) DropTable(ctx context.Context, name string) error {
	if err := validIdent(name); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DROP TABLE "+quoteIdent(name)); err != nil {
		return fmt.Errorf("drop table %q: %w", name, err)
	}
	return nil
}
