package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/veilstore/veil/internal/codec"
	"github.com/veilstore/veil/internal/datastore"
	"github.com/veilstore/veil/internal/rec"
	"github.com/veilstore/veil/internal/rowstore"
)

// TraceEvent records one executed step and its response envelope.
type TraceEvent struct {
	Seq      int                `json:"seq"`
	Op       string             `json:"op"`
	Envelope datastore.Response `json:"envelope"`
}

// Result holds the outcome of a scenario run.
type Result struct {
	// Passed is true when every expectation held.
	Passed bool

	// Failures lists expectation mismatches, one message per mismatch.
	Failures []string

	// Trace records each executed step's envelope, in order.
	Trace []TraceEvent
}

// NewResult creates an empty passing result.
func NewResult() *Result {
	return &Result{Passed: true}
}

func (r *Result) fail(format string, args ...any) {
	r.Passed = false
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// harness executes a scenario's steps against one store.
type harness struct {
	ds     *datastore.DataStore
	schema rec.TableSchema
	logger *slog.Logger
}

// Run executes a scenario against a fresh in-memory database configured with
// the given value-transformation settings.
//
// Execution flow:
//  1. Create a fresh in-memory database
//  2. Create the scenario's table
//  3. Execute each step, recording its envelope in the trace
//  4. Validate expectations, collecting mismatches
//
// A step error is an expectation failure, not a run failure: the run only
// errors when the harness itself cannot proceed (bad store, bad table).
func Run(scenario *Scenario, cfg codec.Config) (*Result, error) {
	rows, err := rowstore.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer rows.Close()

	ds, err := datastore.New(cfg, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to configure store: %w", err)
	}

	ctx := context.Background()
	schema := scenario.Table.Schema()
	if err := ds.CreateTable(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", schema.Name, err)
	}

	h := &harness{
		ds:     ds,
		schema: schema,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		seq := i + 1
		resp, err := h.execute(ctx, step)
		if err != nil {
			result.fail("step %d (%s): %v", seq, step.Op, err)
			continue
		}
		result.Trace = append(result.Trace, TraceEvent{Seq: seq, Op: step.Op, Envelope: resp})
		for _, msg := range checkExpect(seq, step, resp) {
			result.fail("%s", msg)
		}
	}
	return result, nil
}

// execute runs one step and returns its envelope.
func (h *harness) execute(ctx context.Context, step Step) (datastore.Response, error) {
	h.logger.Debug("executing step", "op", step.Op, "table", h.schema.Name)
	mode := datastore.FetchAll
	if step.One {
		mode = datastore.FetchOne
	}
	switch step.Op {
	case OpAdd:
		record, err := h.toRecord(step.Values)
		if err != nil {
			return datastore.None(), err
		}
		return h.ds.Add(ctx, h.schema.Name, record)
	case OpFetch:
		predicate, err := h.toRecord(step.Where)
		if err != nil {
			return datastore.None(), err
		}
		return h.ds.Fetch(ctx, h.schema.Name, predicate, mode)
	case OpUpdate:
		predicate, err := h.toRecord(step.Where)
		if err != nil {
			return datastore.None(), err
		}
		newValues, err := h.toRecord(step.Set)
		if err != nil {
			return datastore.None(), err
		}
		return h.ds.Update(ctx, h.schema.Name, predicate, newValues)
	case OpRemove:
		predicate, err := h.toRecord(step.Where)
		if err != nil {
			return datastore.None(), err
		}
		return h.ds.Remove(ctx, h.schema.Name, predicate, mode)
	default:
		return datastore.None(), fmt.Errorf("unknown op %q", step.Op)
	}
}

// toRecord converts a YAML field map to a record. Fields follow the table's
// column order so that traces are deterministic; fields not in the schema
// follow in sorted order (and will be rejected downstream by validation).
func (h *harness) toRecord(fields map[string]any) (*rec.Record, error) {
	record := rec.NewRecord()
	seen := make(map[string]bool, len(fields))
	for _, col := range h.schema.Columns {
		raw, ok := fields[col.Name]
		if !ok {
			continue
		}
		v, err := toValue(raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", col.Name, err)
		}
		record.Set(col.Name, v)
		seen[col.Name] = true
	}
	var rest []string
	for name := range fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		v, err := toValue(fields[name])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		record.Set(name, v)
	}
	return record, nil
}

// toValue converts a decoded YAML scalar to a store value.
func toValue(raw any) (rec.Value, error) {
	switch v := raw.(type) {
	case nil:
		return rec.Null{}, nil
	case string:
		return rec.Text(v), nil
	case int:
		return rec.Int(int64(v)), nil
	case int64:
		return rec.Int(v), nil
	case float64:
		return rec.Real(v), nil
	case bool:
		return rec.Bool(v), nil
	default:
		return nil, fmt.Errorf("unsupported scalar type %T", raw)
	}
}
