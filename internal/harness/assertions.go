package harness

import (
	"fmt"

	"github.com/veilstore/veil/internal/datastore"
	"github.com/veilstore/veil/internal/rec"
)

// checkExpect validates a step's expectations against its envelope.
// Returns one message per mismatch; nil when everything holds.
func checkExpect(seq int, step Step, resp datastore.Response) []string {
	expect := step.Expect
	if expect == nil {
		return nil
	}
	var failures []string
	prefix := fmt.Sprintf("step %d (%s)", seq, step.Op)

	if expect.Status != nil && resp.Status != *expect.Status {
		failures = append(failures,
			fmt.Sprintf("%s: status = %v, want %v", prefix, resp.Status, *expect.Status))
	}

	if expect.Count != nil {
		n, ok := resp.Count()
		if !ok {
			failures = append(failures,
				fmt.Sprintf("%s: envelope carries no count", prefix))
		} else if n != *expect.Count {
			failures = append(failures,
				fmt.Sprintf("%s: count = %d, want %d", prefix, n, *expect.Count))
		}
	}

	if expect.Record != nil {
		record, ok := resp.Record()
		if !ok {
			failures = append(failures,
				fmt.Sprintf("%s: envelope carries no record", prefix))
		} else {
			failures = append(failures, matchFields(prefix, record, expect.Record)...)
		}
	}

	if expect.Records != nil {
		records, ok := resp.Records()
		if !ok {
			failures = append(failures,
				fmt.Sprintf("%s: envelope carries no record sequence", prefix))
		} else if len(records) != len(expect.Records) {
			failures = append(failures,
				fmt.Sprintf("%s: %d records, want %d", prefix, len(records), len(expect.Records)))
		} else {
			for i, want := range expect.Records {
				rowPrefix := fmt.Sprintf("%s record %d", prefix, i+1)
				failures = append(failures, matchFields(rowPrefix, records[i], want)...)
			}
		}
	}

	return failures
}

// matchFields checks that every expected field compares equal in the record.
// Subset match: record fields the expectation does not name are ignored.
func matchFields(prefix string, record *rec.Record, want map[string]any) []string {
	var failures []string
	for name, raw := range want {
		wantVal, err := toValue(raw)
		if err != nil {
			failures = append(failures,
				fmt.Sprintf("%s: field %s: %v", prefix, name, err))
			continue
		}
		got, ok := record.Get(name)
		if !ok {
			failures = append(failures,
				fmt.Sprintf("%s: field %s missing", prefix, name))
			continue
		}
		if !rec.Equal(got, wantVal) {
			failures = append(failures,
				fmt.Sprintf("%s: field %s = %s, want %s",
					prefix, name, rec.FormatValue(got), rec.FormatValue(wantVal)))
		}
	}
	return failures
}
