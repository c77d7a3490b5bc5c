// Package domain defines the typed destination row for the games table and
// the deterministic mapping from a cleaned catalog record onto it. Optional
// columns are explicit nullable members (*string, *float64) so no stage needs
// runtime attribute probing; a nil pointer becomes a database NULL.
package domain

import (
	"errors"
	"strconv"
	"strings"

	"gamecatalog/internal/table"
)

// nanSentinel is the "not-a-value" marker that upstream tooling stringifies
// missing cells into. It is never stored; it maps to NULL like the empty string.
const nanSentinel = "nan"

// Mapping rejection reasons. The loader drops the row and records the reason
// in the skipped-rows log; the batch continues.
var (
	ErrMissingURL  = errors.New("missing url")
	ErrMissingName = errors.New("missing name")
)

// GameRow is one row of the games table in destination column order.
type GameRow struct {
	URL                     string
	GameType                *string
	Name                    string
	DescSnippet             *string
	RecentReviews           *string
	AllReviews              *string
	ReleaseDate             *string
	Developer               *string
	Publisher               *string
	PopularTags             *string
	GameDetails             *string
	Languages               *string
	Achievements            int64
	Genre                   *string
	GameDescription         *string
	MatureContent           *string
	MinimumRequirements     *string
	RecommendedRequirements *string
	OriginalPrice           float64
	DiscountPrice           *float64 // NULL when no discount applies
	FinalPrice              float64
	DiscountPercentage      float64
}

// Columns lists the games table insert columns, aligned with Values.
func Columns() []string {
	return []string{
		"url", "game_type", "name", "desc_snippet", "recent_reviews", "all_reviews",
		"release_date", "developer", "publisher", "popular_tags", "game_details",
		"languages", "achievements", "genre", "game_description", "mature_content",
		"minimum_requirements", "recommended_requirements", "original_price",
		"discount_price", "final_price", "discount_percentage",
	}
}

// Values returns the row as positional insert arguments aligned with Columns.
// Nil pointers surface as untyped nils, which drivers bind as NULL.
func (g *GameRow) Values() []any {
	return []any{
		g.URL, strPtrArg(g.GameType), g.Name, strPtrArg(g.DescSnippet),
		strPtrArg(g.RecentReviews), strPtrArg(g.AllReviews), strPtrArg(g.ReleaseDate),
		strPtrArg(g.Developer), strPtrArg(g.Publisher), strPtrArg(g.PopularTags),
		strPtrArg(g.GameDetails), strPtrArg(g.Languages), g.Achievements,
		strPtrArg(g.Genre), strPtrArg(g.GameDescription), strPtrArg(g.MatureContent),
		strPtrArg(g.MinimumRequirements), strPtrArg(g.RecommendedRequirements),
		g.OriginalPrice, floatPtrArg(g.DiscountPrice), g.FinalPrice, g.DiscountPercentage,
	}
}

func strPtrArg(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtrArg(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// MapRow maps one cleaned table row onto the destination schema. Source cells
// are read by column name, falling back to the empty string when the column is
// absent. The row is rejected when url or name is still empty after cleaning.
//
// Pricing:
//
//	discount_price > 0  => final = discount, pct = (orig-discount)/orig*100
//	                       (guarded: pct = 0 when orig <= 0)
//	otherwise           => final = orig, pct = 0; discount stored as NULL
func MapRow(t *table.Table, row int) (*GameRow, error) {
	cell := func(col string) string {
		v, _ := t.Cell(row, col)
		return v
	}

	url := cell("url")
	name := cell("name")
	if url == "" || url == nanSentinel {
		return nil, ErrMissingURL
	}
	if name == "" || name == nanSentinel {
		return nil, ErrMissingName
	}

	originalPrice := ParsePrice(cell("original_price"))
	discountPrice := ParsePrice(cell("discount_price"))

	var finalPrice, discountPct float64
	var discountCol *float64
	if discountPrice > 0 {
		finalPrice = discountPrice
		if originalPrice > 0 {
			discountPct = (originalPrice - discountPrice) / originalPrice * 100
		}
		discountCol = &discountPrice
	} else {
		finalPrice = originalPrice
	}

	return &GameRow{
		URL:                     url,
		GameType:                nullable(cell("types")),
		Name:                    name,
		DescSnippet:             nullable(cell("desc_snippet")),
		RecentReviews:           nullable(cell("recent_reviews")),
		AllReviews:              nullable(cell("all_reviews")),
		ReleaseDate:             nullable(cell("release_date")),
		Developer:               nullable(cell("developer")),
		Publisher:               nullable(cell("publisher")),
		PopularTags:             nullable(cell("popular_tags")),
		GameDetails:             nullable(cell("game_details")),
		Languages:               nullable(cell("languages")),
		Achievements:            parseAchievements(cell("achievements")),
		Genre:                   nullable(cell("genre")),
		GameDescription:         nullable(cell("game_description")),
		MatureContent:           nullable(cell("mature_content")),
		MinimumRequirements:     nullable(cell("minimum_requirements")),
		RecommendedRequirements: nullable(cell("recommended_requirements")),
		OriginalPrice:           originalPrice,
		DiscountPrice:           discountCol,
		FinalPrice:              finalPrice,
		DiscountPercentage:      discountPct,
	}, nil
}

// nullable maps the empty string and the nan sentinel to NULL (nil pointer).
func nullable(s string) *string {
	if s == "" || s == nanSentinel {
		return nil
	}
	return &s
}

// ParsePrice coerces a price cell into a float. Currency symbols and thousands
// separators are stripped first; anything unparseable yields 0.0.
func ParsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == nanSentinel {
		return 0
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseAchievements coerces the achievements cell into an integer; a float
// cell like "12.0" is accepted, anything else yields 0.
func parseAchievements(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" || s == nanSentinel {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
