package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/veilstore/veil/internal/rec"
)

// ParseAssignments turns "field=value" arguments into a record.
//
// Value literals are typed by shape: "null" is NULL, "true"/"false" are
// booleans, integer literals are integers, decimal literals are reals, and
// everything else is text. Prefix a value with "text:" to force text (so
// `smth=text:123` stores the string "123").
func ParseAssignments(args []string) (*rec.Record, error) {
	r := rec.NewRecord()
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		if name == "" {
			return nil, fmt.Errorf("empty field name in %q", arg)
		}
		r.Set(name, parseLiteral(raw))
	}
	return r, nil
}

func parseLiteral(raw string) rec.Value {
	if forced, ok := strings.CutPrefix(raw, "text:"); ok {
		return rec.Text(forced)
	}
	switch raw {
	case "null":
		return rec.Null{}
	case "true":
		return rec.Bool(true)
	case "false":
		return rec.Bool(false)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return rec.Int(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return rec.Real(f)
	}
	return rec.Text(raw)
}
