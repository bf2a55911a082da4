package rec

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Affinity names for declared column types.
const (
	AffinityText    = "TEXT"
	AffinityInteger = "INTEGER"
	AffinityReal    = "REAL"
	AffinityBoolean = "BOOLEAN"
	AffinityBlob    = "BLOB"
)

// Column describes one column of a table.
type Column struct {
	Name         string
	DeclaredType string
}

// TableSchema describes a table: its name and ordered column set.
// The column set is fixed at table creation; every record written to the
// table must match it exactly.
type TableSchema struct {
	Name    string
	Columns []Column
}

// NormalizeName returns the NFC normal form of a field or column name.
// Applied at every boundary so Unicode-equal names compare equal.
func NormalizeName(s string) string {
	return norm.NFC.String(s)
}

// Affinity maps a declared column type to one of the five affinity names.
// Mirrors SQLite's affinity rules for the type lists the store supports.
func Affinity(declared string) string {
	d := strings.ToUpper(strings.TrimSpace(declared))
	switch {
	case d == "BOOLEAN" || d == "BOOL":
		return AffinityBoolean
	case strings.Contains(d, "INT"):
		return AffinityInteger
	case d == "REAL" || d == "FLOAT" || d == "DOUBLE" || d == "DOUBLE PRECISION":
		return AffinityReal
	case d == "" || d == "BLOB":
		return AffinityBlob
	default:
		return AffinityText
	}
}

// Column returns the column with the given (normalized) name.
func (s TableSchema) Column(name string) (Column, bool) {
	name = NormalizeName(name)
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order.
func (s TableSchema) ColumnNames() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

// ValidateExact checks that the record's field set equals the table's column
// set. Rows with missing or unknown fields are a contract violation.
func (s TableSchema) ValidateExact(r *Record) error {
	if err := s.ValidateSubset(r.Fields()); err != nil {
		return err
	}
	if r.Len() != len(s.Columns) {
		for _, c := range s.Columns {
			if _, ok := r.Get(c.Name); !ok {
				return NewSchemaMismatch(s.Name, c.Name, "record is missing column")
			}
		}
	}
	return nil
}

// ValidateSubset checks that every named field is a declared column.
// Used for predicates and partial updates.
func (s TableSchema) ValidateSubset(fields []string) error {
	for _, f := range fields {
		if _, ok := s.Column(f); !ok {
			return NewSchemaMismatch(s.Name, f, "field is not a column of the table")
		}
	}
	return nil
}
