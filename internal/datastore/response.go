package datastore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/veilstore/veil/internal/rec"
)

// ResponseKind identifies the shape of a Response's value.
type ResponseKind string

const (
	// KindNone means no value: a failed match. Always pairs with Status=false.
	KindNone ResponseKind = "none"

	// KindRecord means the value is a single record.
	KindRecord ResponseKind = "record"

	// KindRecords means the value is an ordered sequence of records.
	KindRecords ResponseKind = "records"

	// KindCount means the value is an affected-row count.
	KindCount ResponseKind = "count"
)

// Response is the uniform envelope returned by every store operation.
// The value is a tagged union: exactly one of the typed accessors yields a
// value, selected by Kind. Status=false always pairs with KindNone except
// for counts, where a zero count keeps the count visible.
type Response struct {
	Status bool
	Kind   ResponseKind

	record  *rec.Record
	records []*rec.Record
	count   int64
}

// None returns the no-match envelope: {status: false, value: null}.
func None() Response {
	return Response{Status: false, Kind: KindNone}
}

// OfRecord returns a successful single-record envelope.
func OfRecord(r *rec.Record) Response {
	return Response{Status: true, Kind: KindRecord, record: r}
}

// OfRecords returns a successful record-sequence envelope.
func OfRecords(rs []*rec.Record) Response {
	return Response{Status: true, Kind: KindRecords, records: rs}
}

// OfCount returns a count envelope (update/remove). Status reflects whether
// any row was affected; a zero count keeps KindCount rather than collapsing
// to the null envelope, so callers never lose the count.
func OfCount(n int64) Response {
	return Response{Status: n > 0, Kind: KindCount, count: n}
}

// Record returns the single record value, if Kind is KindRecord.
func (r Response) Record() (*rec.Record, bool) {
	return r.record, r.Kind == KindRecord
}

// Records returns the record sequence value, if Kind is KindRecords.
func (r Response) Records() ([]*rec.Record, bool) {
	return r.records, r.Kind == KindRecords
}

// Count returns the affected-row count, if Kind is KindCount.
func (r Response) Count() (int64, bool) {
	return r.count, r.Kind == KindCount
}

// String renders the envelope for diagnostics.
func (r Response) String() string {
	switch r.Kind {
	case KindRecord:
		b, _ := json.Marshal(r.record)
		return fmt.Sprintf("<Response status=%t value=%s>", r.Status, b)
	case KindRecords:
		return fmt.Sprintf("<Response status=%t records=%d>", r.Status, len(r.records))
	case KindCount:
		return fmt.Sprintf("<Response status=%t count=%d>", r.Status, r.count)
	default:
		return fmt.Sprintf("<Response status=%t value=null>", r.Status)
	}
}

// MarshalJSON renders the envelope as {"status": ..., "value": ...}.
func (r Response) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"status":`)
	buf.WriteString(strconv.FormatBool(r.Status))
	buf.WriteString(`,"value":`)
	switch r.Kind {
	case KindRecord:
		b, err := json.Marshal(r.record)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	case KindRecords:
		b, err := json.Marshal(r.records)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	case KindCount:
		buf.WriteString(strconv.FormatInt(r.count, 10))
	default:
		buf.WriteString("null")
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
