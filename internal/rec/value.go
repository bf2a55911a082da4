package rec

import (
	"bytes"
	"fmt"
	"strconv"
)

// Value is a sealed interface over the scalar types a field may hold.
// Only Text, Int, Real, Bool, Null, and Blob implement it.
type Value interface {
	recValue() // Sealed - only these types implement it
}

// Text represents a string value.
type Text string

func (Text) recValue() {}

// Int represents an integer value. Always int64.
type Int int64

func (Int) recValue() {}

// Real represents a floating-point value.
type Real float64

func (Real) recValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) recValue() {}

// Null represents an absent value. Null passes through every storage
// representation untransformed.
type Null struct{}

func (Null) recValue() {}

// Blob represents raw bytes.
type Blob []byte

func (Blob) recValue() {}

// Equal reports whether two values are equal. Values of different kinds are
// never equal; Blobs compare byte-wise.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Real:
		bv, ok := b.(Real)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Null:
		_, ok := b.(Null)
		return ok
	case Blob:
		bv, ok := b.(Blob)
		return ok && bytes.Equal(av, bv)
	default:
		return false
	}
}

// IsNull reports whether v is the Null value.
func IsNull(v Value) bool {
	_, ok := v.(Null)
	return v == nil || ok
}

// ToDriver converts a Value to the native type accepted by database/sql
// parameter binding.
func ToDriver(v Value) any {
	switch val := v.(type) {
	case Text:
		return string(val)
	case Int:
		return int64(val)
	case Real:
		return float64(val)
	case Bool:
		return bool(val)
	case Blob:
		return []byte(val)
	case Null, nil:
		return nil
	default:
		// Unreachable: Value is sealed.
		return nil
	}
}

// FromDriver converts a value scanned from database/sql into a Value.
// The sqlite3 driver produces int64, float64, string, []byte, bool, or nil.
func FromDriver(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case int64:
		return Int(val), nil
	case float64:
		return Real(val), nil
	case string:
		return Text(val), nil
	case []byte:
		// Copy: the driver may reuse the buffer between scans.
		b := make([]byte, len(val))
		copy(b, val)
		return Blob(b), nil
	case bool:
		return Bool(val), nil
	default:
		return nil, fmt.Errorf("unsupported driver value type %T", v)
	}
}

// FormatValue renders a value for human-readable output.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case Text:
		return string(val)
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Real:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(val))
	case Null, nil:
		return "null"
	case Blob:
		return fmt.Sprintf("0x%x", []byte(val))
	default:
		return fmt.Sprintf("%v", v)
	}
}
