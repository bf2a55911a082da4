package rec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strconv"
)

// Record is an ordered mapping from field name to scalar value.
//
// A Record naming every column of a table is a full row; one naming a subset
// of the columns serves as a predicate or a partial update. Field names are
// NFC-normalized by Set.
//
// Records are value objects: store operations never mutate a Record handed
// to them.
type Record struct {
	names []string
	vals  map[string]Value
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{vals: make(map[string]Value)}
}

// Set assigns a field value, preserving first-insertion order for new
// fields. Returns the record for chaining.
func (r *Record) Set(name string, v Value) *Record {
	name = NormalizeName(name)
	if _, ok := r.vals[name]; !ok {
		r.names = append(r.names, name)
	}
	r.vals[name] = v
	return r
}

// Get returns the value for a field and whether the field is present.
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.vals[NormalizeName(name)]
	return v, ok
}

// Fields returns the field names in insertion order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	out := NewRecord()
	for _, name := range r.names {
		out.Set(name, r.vals[name])
	}
	return out
}

// Equal reports whether two records have the same field set and equal values
// field-for-field. Field order does not participate in equality.
func (r *Record) Equal(other *Record) bool {
	if r.Len() != other.Len() {
		return false
	}
	for _, name := range r.names {
		ov, ok := other.vals[name]
		if !ok || !Equal(r.vals[name], ov) {
			return false
		}
	}
	return true
}

// ValidatePredicate rejects predicates that would match every row.
// An empty predicate is a caller bug, not a wildcard.
func ValidatePredicate(p *Record) error {
	if p.Len() == 0 {
		return NewInvalidPredicate("predicate must name at least one field")
	}
	return nil
}

// MarshalJSON renders the record as a JSON object in field insertion order.
// Blobs are emitted as base64 strings.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := appendValueJSON(&buf, r.vals[name]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func appendValueJSON(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case Text:
		b, err := json.Marshal(string(val))
		if err != nil {
			return err
		}
		buf.Write(b)
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Real:
		b, err := json.Marshal(float64(val))
		if err != nil {
			return err
		}
		buf.Write(b)
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case Blob:
		b, err := json.Marshal(base64.StdEncoding.EncodeToString(val))
		if err != nil {
			return err
		}
		buf.Write(b)
	case Null, nil:
		buf.WriteString("null")
	}
	return nil
}
