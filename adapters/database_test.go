package adapters

import (
	"database/sql"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := db.Exec("INSERT INTO items (id, name) VALUES (1, 'a'), (2, 'b'), (3, 'c')").Error; err != nil {
		t.Fatalf("seed table: %v", err)
	}
	return db
}

func TestSQLRowsIteratorYieldsEachRow(t *testing.T) {
	db := openTestDB(t)

	s, err := NewSQLRowsIterator(SQLRowsIteratorOptions{
		DB:    db,
		Query: "SELECT id, name FROM items ORDER BY id",
		Scan: func(rows *sql.Rows) (any, error) {
			var id int
			var name string
			if err := rows.Scan(&id, &name); err != nil {
				return nil, err
			}
			return name, nil
		},
	})
	if err != nil {
		t.Fatalf("NewSQLRowsIterator: %v", err)
	}

	var got []any
	ended := false
	src := s.Stream()
	src.On("end", func(args ...any) { ended = true })
	src.ForEach(func(item any) { got = append(got, item) })

	waitForCondition(t, time.Second, func() bool { return ended })

	want := []any{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSQLRowsIteratorRejectsNegativeBufferSize(t *testing.T) {
	db := openTestDB(t)

	_, err := NewSQLRowsIterator(SQLRowsIteratorOptions{
		DB:                  db,
		Query:               "SELECT id FROM items",
		Scan:                func(rows *sql.Rows) (any, error) { return nil, nil },
		ClientStreamOptions: ClientStreamOptions{MaxBufferSize: -1},
	})
	if err == nil {
		t.Fatal("expected a validation error for negative MaxBufferSize")
	}
}
