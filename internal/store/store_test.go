package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	tables := []string{"Customer", "Mechanic", "Car", "Owns", "Service_Request", "Closed_Request"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/shop.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestExecUpdate_And_QueryRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.ExecUpdate(ctx,
		"INSERT INTO Customer (id, fname, lname, phone, address) VALUES (?, ?, ?, ?, ?)",
		1, "Ann", "Lee", "555-0100", "1 Oak St")
	if err != nil {
		t.Fatalf("ExecUpdate() failed: %v", err)
	}

	rows, err := s.QueryRows(ctx, "SELECT id, fname, lname FROM Customer WHERE lname = ?", "Lee")
	if err != nil {
		t.Fatalf("QueryRows() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	want := []string{"1", "Ann", "Lee"}
	for i, col := range want {
		if rows[0][i] != col {
			t.Errorf("column %d = %q, want %q", i, rows[0][i], col)
		}
	}
}

func TestQueryRows_EmptyResult(t *testing.T) {
	s := openTestStore(t)

	rows, err := s.QueryRows(context.Background(), "SELECT id FROM Customer")
	if err != nil {
		t.Fatalf("QueryRows() failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows from empty table, want 0", len(rows))
	}
}

func TestCurrentMax_EmptyTable(t *testing.T) {
	s := openTestStore(t)

	max, err := s.CurrentMax(context.Background(), "Customer", "id")
	if err != nil {
		t.Fatalf("CurrentMax() failed: %v", err)
	}
	if max != 0 {
		t.Errorf("CurrentMax() on empty table = %d, want 0", max)
	}
}

func TestCurrentMax_AfterInserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for id := 1; id <= 3; id++ {
		err := s.ExecUpdate(ctx,
			"INSERT INTO Mechanic (id, fname, lname, experience) VALUES (?, ?, ?, ?)",
			id, "M", "W", 5)
		if err != nil {
			t.Fatalf("insert %d failed: %v", id, err)
		}
	}

	max, err := s.CurrentMax(ctx, "Mechanic", "id")
	if err != nil {
		t.Fatalf("CurrentMax() failed: %v", err)
	}
	if max != 3 {
		t.Errorf("CurrentMax() = %d, want 3", max)
	}
}

func TestCurrentMax_RejectsInvalidIdentifier(t *testing.T) {
	s := openTestStore(t)

	_, err := s.CurrentMax(context.Background(), "Customer; DROP TABLE Customer", "id")
	if err == nil {
		t.Fatal("expected error for invalid table identifier, got nil")
	}
	if !IsStorageError(err) {
		t.Errorf("error is not a StorageError: %v", err)
	}
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(q Querier) error {
		return q.ExecUpdate(ctx,
			"INSERT INTO Car (vin, make, model, year) VALUES (?, ?, ?, ?)",
			"V1", "Honda", "Civic", 1998)
	})
	if err != nil {
		t.Fatalf("WithTx() failed: %v", err)
	}

	rows, err := s.QueryRows(ctx, "SELECT vin FROM Car")
	if err != nil {
		t.Fatalf("QueryRows() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d cars after commit, want 1", len(rows))
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	wantErr := os.ErrInvalid
	err := s.WithTx(ctx, func(q Querier) error {
		if err := q.ExecUpdate(ctx,
			"INSERT INTO Car (vin, make, model, year) VALUES (?, ?, ?, ?)",
			"V1", "Honda", "Civic", 1998); err != nil {
			return err
		}
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("WithTx() error = %v, want %v", err, wantErr)
	}

	rows, err := s.QueryRows(ctx, "SELECT vin FROM Car")
	if err != nil {
		t.Fatalf("QueryRows() failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d cars after rollback, want 0", len(rows))
	}
}

func TestForeignKeys_Enforced(t *testing.T) {
	s := openTestStore(t)

	// Owns row referencing a customer and car that do not exist.
	err := s.ExecUpdate(context.Background(),
		"INSERT INTO Owns (ownership_id, customer_id, car_vin) VALUES (?, ?, ?)",
		1, 99, "NOPE")
	if err == nil {
		t.Fatal("expected foreign key violation, got nil")
	}
	if !IsStorageError(err) {
		t.Errorf("error is not a StorageError: %v", err)
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "shop.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
