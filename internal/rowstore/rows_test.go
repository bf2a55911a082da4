package rowstore

import (
	"context"
	"testing"

	"github.com/veilstore/veil/internal/rec"
)

func seedTestRows(t *testing.T, s *Store) rec.TableSchema {
	t.Helper()
	ctx := context.Background()
	schema := testTableSchema()
	if err := s.CreateTable(ctx, schema); err != nil {
		t.Fatalf("CreateTable() failed: %v", err)
	}
	rows := []*rec.Record{
		rec.NewRecord().Set("value", rec.Text("alpha")).Set("smth", rec.Int(1)),
		rec.NewRecord().Set("value", rec.Text("beta")).Set("smth", rec.Int(2)),
		rec.NewRecord().Set("value", rec.Text("alpha")).Set("smth", rec.Int(3)),
	}
	for _, r := range rows {
		if _, err := s.Insert(ctx, schema, r); err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
	}
	return schema
}

func TestInsert_AssignsIncreasingRowIDs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	schema := testTableSchema()
	if err := s.CreateTable(ctx, schema); err != nil {
		t.Fatalf("CreateTable() failed: %v", err)
	}

	var last int64
	for i := 0; i < 3; i++ {
		id, err := s.Insert(ctx, schema,
			rec.NewRecord().Set("value", rec.Text("v")).Set("smth", rec.Int(int64(i))))
		if err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
		if id <= last {
			t.Errorf("row id %d not increasing after %d", id, last)
		}
		last = id
	}
}

func TestSelectAll_EmptyTable(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	schema := testTableSchema()
	if err := s.CreateTable(ctx, schema); err != nil {
		t.Fatalf("CreateTable() failed: %v", err)
	}

	rows, err := s.SelectAll(ctx, schema)
	if err != nil {
		t.Fatalf("SelectAll() failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("SelectAll() on empty table = %d rows, want 0", len(rows))
	}
}

func TestSelectAll_InsertionOrder(t *testing.T) {
	s := createTestStore(t)
	schema := seedTestRows(t, s)

	rows, err := s.SelectAll(context.Background(), schema)
	if err != nil {
		t.Fatalf("SelectAll() failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("SelectAll() = %d rows, want 3", len(rows))
	}
	for i, want := range []int64{1, 2, 3} {
		got, _ := rows[i].Values.Get("smth")
		if !rec.Equal(got, rec.Int(want)) {
			t.Errorf("row %d smth = %v, want %d", i, got, want)
		}
	}
}

func TestSelectByExact_MatchesAndOrder(t *testing.T) {
	s := createTestStore(t)
	schema := seedTestRows(t, s)

	rows, err := s.SelectByExact(context.Background(), schema,
		rec.NewRecord().Set("value", rec.Text("alpha")))
	if err != nil {
		t.Fatalf("SelectByExact() failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("SelectByExact() = %d rows, want 2", len(rows))
	}
	first, _ := rows[0].Values.Get("smth")
	second, _ := rows[1].Values.Get("smth")
	if !rec.Equal(first, rec.Int(1)) || !rec.Equal(second, rec.Int(3)) {
		t.Errorf("matches out of insertion order: %v, %v", first, second)
	}
}

func TestSelectByExact_MultipleCriteria(t *testing.T) {
	s := createTestStore(t)
	schema := seedTestRows(t, s)

	rows, err := s.SelectByExact(context.Background(), schema,
		rec.NewRecord().Set("value", rec.Text("alpha")).Set("smth", rec.Int(3)))
	if err != nil {
		t.Fatalf("SelectByExact() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("SelectByExact() = %d rows, want 1", len(rows))
	}
}

func TestSelectByExact_NullCriterion(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	schema := testTableSchema()
	if err := s.CreateTable(ctx, schema); err != nil {
		t.Fatalf("CreateTable() failed: %v", err)
	}
	if _, err := s.Insert(ctx, schema,
		rec.NewRecord().Set("value", rec.Null{}).Set("smth", rec.Int(1))); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	rows, err := s.SelectByExact(ctx, schema, rec.NewRecord().Set("value", rec.Null{}))
	if err != nil {
		t.Fatalf("SelectByExact() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("SelectByExact(NULL) = %d rows, want 1", len(rows))
	}
}

func TestSelectByExact_NoMatch(t *testing.T) {
	s := createTestStore(t)
	schema := seedTestRows(t, s)

	rows, err := s.SelectByExact(context.Background(), schema,
		rec.NewRecord().Set("value", rec.Text("missing")))
	if err != nil {
		t.Fatalf("SelectByExact() failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("SelectByExact() = %d rows, want 0", len(rows))
	}
}

func TestUpdateByID(t *testing.T) {
	s := createTestStore(t)
	schema := seedTestRows(t, s)
	ctx := context.Background()

	rows, err := s.SelectByExact(ctx, schema, rec.NewRecord().Set("smth", rec.Int(2)))
	if err != nil || len(rows) != 1 {
		t.Fatalf("SelectByExact() = %v rows, err %v", len(rows), err)
	}

	updated := rec.NewRecord().Set("value", rec.Text("gamma")).Set("smth", rec.Int(2))
	if err := s.UpdateByID(ctx, schema, rows[0].ID, updated); err != nil {
		t.Fatalf("UpdateByID() failed: %v", err)
	}

	after, err := s.SelectByExact(ctx, schema, rec.NewRecord().Set("value", rec.Text("gamma")))
	if err != nil {
		t.Fatalf("SelectByExact() failed: %v", err)
	}
	if len(after) != 1 || after[0].ID != rows[0].ID {
		t.Errorf("updated row not found by new value")
	}
}

func TestDeleteByID(t *testing.T) {
	s := createTestStore(t)
	schema := seedTestRows(t, s)
	ctx := context.Background()

	rows, err := s.SelectAll(ctx, schema)
	if err != nil {
		t.Fatalf("SelectAll() failed: %v", err)
	}

	n, err := s.DeleteByID(ctx, schema.Name, rows[0].ID)
	if err != nil {
		t.Fatalf("DeleteByID() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteByID() affected = %d, want 1", n)
	}

	// Deleting the same row again affects nothing
	n, err = s.DeleteByID(ctx, schema.Name, rows[0].ID)
	if err != nil {
		t.Fatalf("second DeleteByID() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second DeleteByID() affected = %d, want 0", n)
	}

	remaining, err := s.SelectAll(ctx, schema)
	if err != nil {
		t.Fatalf("SelectAll() failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("rows remaining = %d, want 2", len(remaining))
	}
}
