package domain

import (
	"errors"
	"testing"

	"gamecatalog/internal/table"
)

// buildTable is a helper producing a table with one row from parallel slices.
func buildTable(t *testing.T, cols, row []string) *table.Table {
	t.Helper()
	tbl, err := table.New(cols)
	if err != nil {
		t.Fatal(err)
	}
	tbl.AppendRow(row)
	return tbl
}

func TestMapRow_DiscountMath(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		[]string{"url", "name", "original_price", "discount_price"},
		[]string{"http://x", "Portal", "20.0", "10.0"},
	)

	g, err := MapRow(tbl, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.FinalPrice != 10.0 {
		t.Errorf("FinalPrice = %v, want 10.0", g.FinalPrice)
	}
	if g.DiscountPercentage != 50.0 {
		t.Errorf("DiscountPercentage = %v, want 50.0", g.DiscountPercentage)
	}
	if g.DiscountPrice == nil || *g.DiscountPrice != 10.0 {
		t.Errorf("DiscountPrice = %v, want 10.0", g.DiscountPrice)
	}
}

func TestMapRow_NoDiscount(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		[]string{"url", "name", "original_price", "discount_price"},
		[]string{"http://x", "Portal", "20.0", "0"},
	)

	g, err := MapRow(tbl, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.FinalPrice != 20.0 {
		t.Errorf("FinalPrice = %v, want 20.0", g.FinalPrice)
	}
	if g.DiscountPercentage != 0.0 {
		t.Errorf("DiscountPercentage = %v, want 0.0", g.DiscountPercentage)
	}
	// "no discount" is NULL, not 0, so a reload can tell the two apart.
	if g.DiscountPrice != nil {
		t.Errorf("DiscountPrice = %v, want nil", *g.DiscountPrice)
	}
}

func TestMapRow_DiscountGuardZeroOriginal(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		[]string{"url", "name", "original_price", "discount_price"},
		[]string{"http://x", "Portal", "0", "5.0"},
	)

	g, err := MapRow(tbl, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.DiscountPercentage != 0.0 {
		t.Errorf("DiscountPercentage = %v, want 0.0 when original <= 0", g.DiscountPercentage)
	}
	if g.FinalPrice != 5.0 {
		t.Errorf("FinalPrice = %v, want 5.0", g.FinalPrice)
	}
}

func TestMapRow_RejectsMissingKeyFields(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		url  string
		game string
		want error
	}{
		{"empty url", "", "Portal", ErrMissingURL},
		{"nan url", "nan", "Portal", ErrMissingURL},
		{"empty name", "http://x", "", ErrMissingName},
		{"nan name", "http://x", "nan", ErrMissingName},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tbl := buildTable(t, []string{"url", "name"}, []string{c.url, c.game})
			if _, err := MapRow(tbl, 0); !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestMapRow_SentinelAndEmptyBecomeNull(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		[]string{"url", "name", "developer", "genre"},
		[]string{"http://x", "Portal", "nan", ""},
	)

	g, err := MapRow(tbl, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Developer != nil {
		t.Errorf("Developer = %v, want nil", *g.Developer)
	}
	if g.Genre != nil {
		t.Errorf("Genre = %v, want nil", *g.Genre)
	}
	// Absent column reads as empty string, thus NULL.
	if g.Publisher != nil {
		t.Errorf("Publisher = %v, want nil", *g.Publisher)
	}
}

func TestValues_AlignWithColumns(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t, []string{"url", "name"}, []string{"http://x", "Portal"})
	g, err := MapRow(tbl, 0)
	if err != nil {
		t.Fatal(err)
	}
	cols, vals := Columns(), g.Values()
	if len(cols) != 22 || len(vals) != 22 {
		t.Fatalf("columns=%d values=%d, want 22/22", len(cols), len(vals))
	}
	if vals[0] != "http://x" || vals[2] != "Portal" {
		t.Fatalf("url/name not in expected positions: %v %v", vals[0], vals[2])
	}
	// discount_price position must be NULL here.
	if vals[19] != nil {
		t.Fatalf("discount_price = %v, want nil", vals[19])
	}
}

func TestParsePrice(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want float64
	}{
		{"$9.99", 9.99},
		{"$1,299.50", 1299.5},
		{"19.99", 19.99},
		{"Free To Play", 0},
		{"", 0},
		{"nan", 0},
		{" $5.00 ", 5},
	}
	for _, c := range cases {
		if got := ParsePrice(c.in); got != c.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseAchievements(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want int64
	}{
		{"32", 32},
		{"12.0", 12},
		{"", 0},
		{"nan", 0},
		{"lots", 0},
	}
	for _, c := range cases {
		if got := parseAchievements(c.in); got != c.want {
			t.Errorf("parseAchievements(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
