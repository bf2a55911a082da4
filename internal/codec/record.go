package codec

import (
	"github.com/veilstore/veil/internal/rec"
)

// EncodeRecord converts a full plaintext record to its storage
// representation, applying the value transform field by field.
// Fails with SCHEMA_MISMATCH if the record's field set does not equal the
// table's declared columns.
func (c *Codec) EncodeRecord(schema rec.TableSchema, r *rec.Record) (*rec.Record, error) {
	if err := schema.ValidateExact(r); err != nil {
		return nil, err
	}
	return c.encodeFields(schema, r)
}

// EncodePartial converts a partial record (a predicate or the new values of
// an update) to its storage representation. The field set must be a subset
// of the table's columns.
func (c *Codec) EncodePartial(schema rec.TableSchema, r *rec.Record) (*rec.Record, error) {
	if err := schema.ValidateSubset(r.Fields()); err != nil {
		return nil, err
	}
	return c.encodeFields(schema, r)
}

// DecodeRecord converts a storage-representation record back to plaintext.
// Column order follows the schema, matching the engine's row shape.
func (c *Codec) DecodeRecord(schema rec.TableSchema, stored *rec.Record) (*rec.Record, error) {
	out := rec.NewRecord()
	for _, col := range schema.Columns {
		v, ok := stored.Get(col.Name)
		if !ok {
			return nil, rec.NewSchemaMismatch(schema.Name, col.Name, "stored row is missing column")
		}
		decoded, err := c.DecodeValue(v, col)
		if err != nil {
			return nil, err
		}
		out.Set(col.Name, decoded)
	}
	return out, nil
}

func (c *Codec) encodeFields(schema rec.TableSchema, r *rec.Record) (*rec.Record, error) {
	out := rec.NewRecord()
	for _, name := range r.Fields() {
		v, _ := r.Get(name)
		encoded, err := c.EncodeValue(v)
		if err != nil {
			return nil, err
		}
		out.Set(name, encoded)
	}
	return out, nil
}
