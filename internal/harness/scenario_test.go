package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "add-fetch-remove.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "add-fetch-remove", s.Name)
	assert.Equal(t, "items", s.Table.Name)
	require.Len(t, s.Steps, 4)
	assert.Equal(t, OpAdd, s.Steps[0].Op)
	require.NotNil(t, s.Steps[2].Expect)
	require.NotNil(t, s.Steps[2].Expect.Count)
	assert.Equal(t, int64(1), *s.Steps[2].Expect.Count)

	schema := s.Table.Schema()
	require.Len(t, schema.Columns, 2)
	assert.Equal(t, "value", schema.Columns[0].Name)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "scenarios", "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	path := writeScenarioFile(t, `
name: typo
description: has a typo
table:
  name: items
  columns:
    - name: value
      type: TEXT
step:
  - op: add
    values: {value: x}
`)
	_, err := LoadScenario(path)
	assert.Error(t, err, "unknown field \"step\" must be rejected")
}

func TestLoadScenario_Validation(t *testing.T) {
	cases := map[string]string{
		"missing name": `
description: d
table:
  name: items
  columns: [{name: value, type: TEXT}]
steps: [{op: add, values: {value: x}}]
`,
		"missing description": `
name: n
table:
  name: items
  columns: [{name: value, type: TEXT}]
steps: [{op: add, values: {value: x}}]
`,
		"no columns": `
name: n
description: d
table: {name: items}
steps: [{op: add, values: {value: x}}]
`,
		"no steps": `
name: n
description: d
table:
  name: items
  columns: [{name: value, type: TEXT}]
`,
		"unknown op": `
name: n
description: d
table:
  name: items
  columns: [{name: value, type: TEXT}]
steps: [{op: upsert, values: {value: x}}]
`,
		"fetch without where": `
name: n
description: d
table:
  name: items
  columns: [{name: value, type: TEXT}]
steps: [{op: fetch}]
`,
		"update without set": `
name: n
description: d
table:
  name: items
  columns: [{name: value, type: TEXT}]
steps: [{op: update, where: {value: x}}]
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadScenario(writeScenarioFile(t, content))
			assert.Error(t, err)
		})
	}
}
