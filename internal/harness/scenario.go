package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veilstore/veil/internal/rec"
)

// Scenario defines a conformance test scenario: one table and a sequence of
// store operations with expected response envelopes.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Table defines the table the steps operate on. It is created fresh for
	// every run.
	Table TableDef `yaml:"table"`

	// Steps contains the operations to execute, in order.
	Steps []Step `yaml:"steps"`
}

// TableDef defines the scenario's table.
type TableDef struct {
	Name    string      `yaml:"name"`
	Columns []ColumnDef `yaml:"columns"`
}

// ColumnDef defines one column of the scenario's table.
type ColumnDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Schema converts the table definition to a table schema.
func (t TableDef) Schema() rec.TableSchema {
	schema := rec.TableSchema{Name: t.Name}
	for _, col := range t.Columns {
		schema.Columns = append(schema.Columns, rec.Column{
			Name:         rec.NormalizeName(col.Name),
			DeclaredType: col.Type,
		})
	}
	return schema
}

// Step represents one store operation.
type Step struct {
	// Op is the operation: "add", "fetch", "update", or "remove".
	Op string `yaml:"op"`

	// Values contains the record to add (add only).
	Values map[string]any `yaml:"values,omitempty"`

	// Where contains the query-by-example predicate (fetch, update, remove).
	Where map[string]any `yaml:"where,omitempty"`

	// Set contains the new field values (update only).
	Set map[string]any `yaml:"set,omitempty"`

	// One restricts fetch/remove to the first match in row order.
	One bool `yaml:"one,omitempty"`

	// Expect specifies the expected response envelope.
	// If nil, only the absence of an error is validated.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies expected envelope contents. All fields are subset checks:
// only what the scenario names is validated.
type Expect struct {
	// Status is the expected envelope status.
	Status *bool `yaml:"status,omitempty"`

	// Count is the expected affected-row count (update, remove).
	Count *int64 `yaml:"count,omitempty"`

	// Record contains expected field values of a single-record envelope.
	Record map[string]any `yaml:"record,omitempty"`

	// Records contains the expected record sequence of a multi-record
	// envelope, in row order.
	Records []map[string]any `yaml:"records,omitempty"`
}

// Operation name constants.
const (
	OpAdd    = "add"
	OpFetch  = "fetch"
	OpUpdate = "update"
	OpRemove = "remove"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "step:" vs "steps:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Table.Name == "" {
		return fmt.Errorf("table.name is required")
	}
	if len(s.Table.Columns) == 0 {
		return fmt.Errorf("table.columns is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	switch step.Op {
	case OpAdd:
		if len(step.Values) == 0 {
			return fmt.Errorf("add requires values")
		}
	case OpFetch, OpRemove:
		if len(step.Where) == 0 {
			return fmt.Errorf("%s requires where", step.Op)
		}
	case OpUpdate:
		if len(step.Where) == 0 || len(step.Set) == 0 {
			return fmt.Errorf("update requires where and set")
		}
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}
