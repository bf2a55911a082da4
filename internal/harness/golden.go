package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/veilstore/veil/internal/codec"
)

// snapshotHeader is the first line of a golden trace.
type snapshotHeader struct {
	Scenario string `json:"scenario"`
}

// TraceJSON serializes a result's trace as JSON lines: one header line
// naming the scenario, then one line per trace event. The format is
// line-oriented so golden diffs point at the exact step that changed.
func TraceJSON(scenarioName string, result *Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(snapshotHeader{Scenario: scenarioName}); err != nil {
		return nil, err
	}
	for _, event := range result.Trace {
		if err := enc.Encode(event); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario under the given configuration and
// compares the trace against a golden file in testdata/golden.
//
// Traces carry plaintext envelopes, so the same golden file holds for every
// configuration the scenario runs under.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, cfg codec.Config) error {
	t.Helper()

	result, err := Run(scenario, cfg)
	if err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("scenario %s failed: %v", scenario.Name, result.Failures)
	}

	traceJSON, err := TraceJSON(scenario.Name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)
	return nil
}
