package csvutil

import (
	"reflect"
	"testing"
)

// TestStripHeaderBOM_Present verifies the BOM is removed from the first cell
// and only the first cell.
func TestStripHeaderBOM_Present(t *testing.T) {
	got := StripHeaderBOM([]string{"\uFEFFurl", "name"})
	if got[0] != "url" || got[1] != "name" {
		t.Fatalf("got %v", got)
	}
}

// TestStripHeaderBOM_AbsentOrEmpty covers the no-op paths.
func TestStripHeaderBOM_AbsentOrEmpty(t *testing.T) {
	if got := StripHeaderBOM([]string{"url"}); got[0] != "url" {
		t.Fatalf("got %v", got)
	}
	if got := StripHeaderBOM(nil); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestNormalizeFieldName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"URL", "url"},
		{"  Original Price ", "original_price"},
		{"Desc-Snippet", "desc_snippet"},
		{"Recent  Reviews", "recent_reviews"},
		{"Durée", "duree"},           // accents stripped
		{"release.date", "release_date"},
		{"__name__", "name"},          // surrounding separators trimmed
		{"price ($)", "price"},        // symbols dropped
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeFieldName(c.in); got != c.want {
			t.Errorf("NormalizeFieldName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	in := []string{"\uFEFFURL", "Name", "Original Price"}
	want := []string{"url", "name", "original_price"}
	if got := NormalizeHeader(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
