package transform

import (
	"testing"

	"gamecatalog/internal/table"
)

func newTable(t *testing.T, cols []string, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.New(cols)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		tbl.AppendRow(r)
	}
	return tbl
}

func TestClean_DropsRowsMissingNameOrURL(t *testing.T) {
	t.Parallel()
	in := newTable(t, []string{"url", "name"},
		[]string{"http://a", "Portal"},
		[]string{"", "No URL"},
		[]string{"http://c", ""},
	)

	out := New(nil).Clean(in)
	if out.Len() != 1 {
		t.Fatalf("rows = %d, want 1", out.Len())
	}
	// Property: clean never yields rows with an absent name or url.
	for i := 0; i < out.Len(); i++ {
		u, _ := out.Cell(i, "url")
		n, _ := out.Cell(i, "name")
		if u == "" || n == "" {
			t.Fatalf("row %d still has empty key field", i)
		}
	}
}

func TestClean_DropsWhitespaceOnlyKeys(t *testing.T) {
	t.Parallel()
	in := newTable(t, []string{"url", "name"},
		[]string{"http://a", "Portal"},
		[]string{"   ", "Blank URL"},
		[]string{"http://c", "\t "},
	)

	out := New(nil).Clean(in)
	if out.Len() != 1 {
		t.Fatalf("rows = %d, want 1", out.Len())
	}
	// A whitespace-only key trims to empty later in the pass, so it must be
	// treated as absent by the drop rule, not just by the final mapping.
	u, _ := out.Cell(0, "url")
	n, _ := out.Cell(0, "name")
	if u != "http://a" || n != "Portal" {
		t.Fatalf("kept wrong row: url=%q name=%q", u, n)
	}
}

func TestClean_DropsDuplicateURLsKeepingFirst(t *testing.T) {
	t.Parallel()
	in := newTable(t, []string{"url", "name"},
		[]string{"http://a", "First"},
		[]string{"http://a", "Second"},
		[]string{"http://b", "Other"},
	)

	out := New(nil).Clean(in)
	if out.Len() != 2 {
		t.Fatalf("rows = %d, want 2", out.Len())
	}
	if n, _ := out.Cell(0, "name"); n != "First" {
		t.Fatalf("kept %q, want first occurrence", n)
	}
}

func TestClean_TextFillAndTrim(t *testing.T) {
	t.Parallel()
	in := newTable(t, []string{"url", "name", "developer", "genre"},
		[]string{"http://a", "  Portal  ", "", "  Puzzle "},
	)

	out := New(nil).Clean(in)
	if v, _ := out.Cell(0, "name"); v != "Portal" {
		t.Errorf("name = %q, want trimmed", v)
	}
	if v, _ := out.Cell(0, "developer"); v != "Unknown" {
		t.Errorf("developer = %q, want Unknown", v)
	}
	if v, _ := out.Cell(0, "genre"); v != "Puzzle" {
		t.Errorf("genre = %q, want Puzzle", v)
	}
}

func TestClean_Prices(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, want string
	}{
		{"$19.99", "19.99"},
		{"$1,299.50", "1299.5"},
		{"7.49", "7.49"},
		{"Free To Play", "0"},
		{"", "0"},
	}
	for _, c := range cases {
		in := newTable(t, []string{"url", "name", "original_price"},
			[]string{"http://a", "Portal", c.in},
		)
		out := New(nil).Clean(in)
		if v, _ := out.Cell(0, "original_price"); v != c.want {
			t.Errorf("price %q -> %q, want %q", c.in, v, c.want)
		}
	}
}

func TestClean_Achievements(t *testing.T) {
	t.Parallel()
	in := newTable(t, []string{"url", "name", "achievements"},
		[]string{"http://a", "Portal", "15"},
	)
	out := New(nil).Clean(in)
	if v, _ := out.Cell(0, "achievements"); v != "15" {
		t.Errorf("achievements = %q, want 15", v)
	}

	in = newTable(t, []string{"url", "name", "achievements"},
		[]string{"http://a", "Portal", "n/a"},
	)
	out = New(nil).Clean(in)
	if v, _ := out.Cell(0, "achievements"); v != "0" {
		t.Errorf("achievements = %q, want 0", v)
	}
}

func TestClean_AbsentFills(t *testing.T) {
	t.Parallel()
	cols := []string{
		"url", "name", "release_date", "recent_reviews", "all_reviews",
		"minimum_requirements", "recommended_requirements", "game_details",
		"languages", "mature_content", "game_description", "types",
	}
	in := newTable(t, cols, []string{"http://a", "Portal", "", "", "", "", "", "", "", "", "", ""})

	out := New(nil).Clean(in)
	want := map[string]string{
		"release_date":             "Unknown",
		"recent_reviews":           "No reviews",
		"all_reviews":              "No reviews",
		"minimum_requirements":     "Not specified",
		"recommended_requirements": "Not specified",
		"game_details":             "No details",
		"languages":                "English",
		"mature_content":           "Not specified",
		"game_description":         "No description available",
		"types":                    "app",
	}
	for col, sentinel := range want {
		if v, _ := out.Cell(0, col); v != sentinel {
			t.Errorf("%s = %q, want %q", col, v, sentinel)
		}
	}
}

func TestClean_SkipsRulesForAbsentColumns(t *testing.T) {
	t.Parallel()
	// Only url present: no name column means the key-drop rule can't apply
	// to name, and none of the fill columns exist.
	in := newTable(t, []string{"url"}, []string{"http://a"})
	out := New(nil).Clean(in)
	if out.Len() != 1 {
		t.Fatalf("rows = %d, want 1", out.Len())
	}
	if len(out.Columns()) != 1 {
		t.Fatalf("columns changed: %v", out.Columns())
	}
}

func TestClean_InputUntouched(t *testing.T) {
	t.Parallel()
	in := newTable(t, []string{"url", "name", "developer"},
		[]string{"http://a", " Portal ", ""},
	)
	_ = New(nil).Clean(in)

	if v, _ := in.Cell(0, "name"); v != " Portal " {
		t.Fatalf("input mutated: name = %q", v)
	}
	if v, _ := in.Cell(0, "developer"); v != "" {
		t.Fatalf("input mutated: developer = %q", v)
	}
}
