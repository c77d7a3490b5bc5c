package skiplog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"
)

// TestNew_CreatesDirFileAndHeader verifies that New:
//  1. creates any missing parent directories,
//  2. creates the CSV file,
//  3. writes the fixed header row immediately.
func TestNew_CreatesDirFileAndHeader(t *testing.T) {
	t.Parallel()

	// Arrange: a nested target path inside a temp directory.
	tmp := t.TempDir()
	target := filepath.Join(tmp, "skipped", "games.csv")

	// Act
	sl, err := New(target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Assert: directory and file exist.
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("parent dir should exist: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("file should exist: %v", err)
	}

	// Flush/close and then re-open to verify content.
	if err := sl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rows := readAll(t, target)
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row (header), got %d: %#v", len(rows), rows)
	}
	wantHeader := []string{"reason", "line_number", "url", "name"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Fatalf("header mismatch\ngot : %#v\nwant: %#v", rows[0], wantHeader)
	}
}

// TestAdd_WritesRowsAndCounts ensures Add increments the per-reason counters
// and appends properly formatted CSV rows, including values that need CSV
// quoting (commas in names).
func TestAdd_WritesRowsAndCounts(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	target := filepath.Join(tmp, "skipped.csv")
	sl, err := New(target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	type in struct {
		reason string
		line   int
		url    string
		// name includes commas to confirm csv quoting.
		name string
	}
	inputs := []in{
		{"missing_url", 2, "", `Half-Life, Episode One`},
		{"missing_name", 3, "https://store.steampowered.com/app/123/", ""},
		{"missing_url", 5, "", `Portal, with "quotes"`},
	}
	for _, x := range inputs {
		sl.Add(x.reason, x.line, x.url, x.name)
	}
	if err := sl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rows := readAll(t, target)
	if len(rows) != 1+len(inputs) {
		t.Fatalf("want %d rows, got %d: %#v", 1+len(inputs), len(rows), rows)
	}
	for i, x := range inputs {
		got := rows[i+1]
		want := []string{x.reason, strconv.Itoa(x.line), x.url, x.name}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("row %d mismatch\ngot : %#v\nwant: %#v", i, got, want)
		}
	}

	counts := sl.Counts()
	if counts["missing_url"] != 2 {
		t.Fatalf("missing_url count=%d want 2", counts["missing_url"])
	}
	if counts["missing_name"] != 1 {
		t.Fatalf("missing_name count=%d want 1", counts["missing_name"])
	}
	if len(counts) != 2 {
		t.Fatalf("unexpected reasons map: %#v", counts)
	}
	if sl.Total() != 3 {
		t.Fatalf("Total()=%d want 3", sl.Total())
	}
}

// TestAdd_EmptyValuesAreAccepted verifies that Add tolerates empty strings
// and still writes valid CSV rows.
func TestAdd_EmptyValuesAreAccepted(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	target := filepath.Join(tmp, "empty.csv")
	sl, err := New(target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sl.Add("empty_case", 42, "", "")
	if err := sl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rows := readAll(t, target)
	if len(rows) != 2 {
		t.Fatalf("want 2 rows (header + 1), got %d: %#v", len(rows), rows)
	}
	want := []string{"empty_case", "42", "", ""}
	if !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("row mismatch\ngot : %#v\nwant: %#v", rows[1], want)
	}
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open for read: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	return rows
}

