// Package transform applies the field-level cleaning rules that turn a raw
// catalog table into a cleaned one. Clean is pure: the input table is never
// mutated, and the rules run in a fixed order because the drop/dedup steps
// depend on key fields being populated first.
//
// Every rule applies only when its column exists in the input; the source
// schema is not assumed fixed.
package transform

import (
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"gamecatalog/internal/domain"
	"gamecatalog/internal/table"
)

// Column sets the rules operate on. Order inside each set is irrelevant;
// order across rules is not.
var (
	textColumns  = []string{"name", "desc_snippet", "developer", "publisher", "genre", "popular_tags"}
	priceColumns = []string{"original_price", "discount_price"}

	// absentFills maps a column to the sentinel stored when the value is absent.
	absentFills = map[string]string{
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
)

// Transformer cleans raw catalog tables.
type Transformer struct {
	logger *zap.Logger
}

// New returns a Transformer.
func New(logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{logger: logger}
}

// Clean returns a cleaned copy of in. Rules, in order:
//
//  1. Drop rows with an absent name or url.
//  2. Drop rows with a duplicate url, keeping the first occurrence.
//  3. Text columns: absent -> "Unknown", then trim surrounding whitespace.
//  4. Price columns: strip "$" and thousands separators, coerce to a float;
//     unparseable or absent -> 0.
//  5. achievements: coerce to integer; unparseable or absent -> 0.
//  6. Fill remaining absent values with per-column sentinels.
func (tr *Transformer) Clean(in *table.Table) *table.Table {
	out := in.Clone()

	out = dropMissingKeys(out)
	out = dropDuplicateURLs(out)

	for row := 0; row < out.Len(); row++ {
		for _, col := range textColumns {
			if v, ok := out.Cell(row, col); ok {
				if v == "" {
					v = "Unknown"
				}
				out.SetCell(row, col, strings.TrimSpace(v))
			}
		}
		for _, col := range priceColumns {
			if v, ok := out.Cell(row, col); ok {
				out.SetCell(row, col, formatPrice(domain.ParsePrice(v)))
			}
		}
		if v, ok := out.Cell(row, "achievements"); ok {
			out.SetCell(row, "achievements", formatCount(v))
		}
		for col, fill := range absentFills {
			if v, ok := out.Cell(row, col); ok && v == "" {
				out.SetCell(row, col, fill)
			}
		}
	}

	tr.logger.Info("cleaned records", zap.Int("rows", out.Len()))
	return out
}

// dropMissingKeys removes rows whose name or url cell is absent. Cells are
// trimmed before the check so a whitespace-only key, which the later text
// rule would reduce to the empty string, is treated as absent here too.
// Applied only when both key columns exist; without them the later mapping
// stage rejects every row anyway.
func dropMissingKeys(t *table.Table) *table.Table {
	urlIdx, hasURL := t.ColIndex("url")
	nameIdx, hasName := t.ColIndex("name")
	if !hasURL && !hasName {
		return t
	}
	return t.Filter(func(row []string) bool {
		if hasURL && strings.TrimSpace(row[urlIdx]) == "" {
			return false
		}
		if hasName && strings.TrimSpace(row[nameIdx]) == "" {
			return false
		}
		return true
	})
}

// dropDuplicateURLs keeps the first row for each url, comparing 64-bit xxh3
// hashes of the url rather than retaining every string in the seen-set.
func dropDuplicateURLs(t *table.Table) *table.Table {
	urlIdx, ok := t.ColIndex("url")
	if !ok {
		return t
	}
	seen := make(map[uint64]struct{}, t.Len())
	return t.Filter(func(row []string) bool {
		h := xxh3.HashString(row[urlIdx])
		if _, dup := seen[h]; dup {
			return false
		}
		seen[h] = struct{}{}
		return true
	})
}

// formatPrice renders a parsed price back into its canonical cell form,
// e.g. "$1,299.50" -> "1299.5" and "Free To Play" -> "0".
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatCount renders the achievements cell as a plain integer; unparseable
// or absent values become "0". Float-ish cells like "12.0" are accepted.
func formatCount(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatInt(int64(f), 10)
	}
	return "0"
}
