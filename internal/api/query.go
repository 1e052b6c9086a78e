package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/masmgr/gamerules/internal/filter"
	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/tags"
)

// RulesQuery holds the query parameters of GET /api/v1/rules.
// Absent bounds default to the widest valid range of their metric.
type RulesQuery struct {
	MinOccurrences float64 `query:"min_occurrences" validate:"gte=0"`
	MaxOccurrences float64 `query:"max_occurrences" validate:"gtefield=MinOccurrences"`
	MinConfidence  float64 `query:"min_confidence" validate:"gte=0,lte=1"`
	MaxConfidence  float64 `query:"max_confidence" validate:"gtefield=MinConfidence,lte=1"`
	MinLift        float64 `query:"min_lift" validate:"gte=0"`
	MaxLift        float64 `query:"max_lift" validate:"gtefield=MinLift"`
	MinScore       float64 `query:"min_score" validate:"gte=0,lte=100"`
	MaxScore       float64 `query:"max_score" validate:"gtefield=MinScore,lte=100"`

	Themes    []string `query:"theme" validate:"dive,required"`
	Genres    []string `query:"genre" validate:"dive,required"`
	Direction string   `query:"direction" validate:"omitempty,oneof=all themes>genres genres>themes"`

	Sort string `query:"sort" validate:"omitempty,oneof=none lift confidence occurrences support"`
	Top  int    `query:"top" validate:"gte=0"`
}

func defaultRulesQuery() RulesQuery {
	return RulesQuery{
		MaxOccurrences: math.Inf(1),
		MaxConfidence:  1,
		MaxLift:        math.Inf(1),
		MaxScore:       100,
	}
}

// parseRulesQuery reads the query string. Only malformed numbers are errors
// here; ranges are checked by validation.
func parseRulesQuery(values url.Values) (RulesQuery, error) {
	q := defaultRulesQuery()

	floats := []struct {
		name string
		dst  *float64
	}{
		{"min_occurrences", &q.MinOccurrences},
		{"max_occurrences", &q.MaxOccurrences},
		{"min_confidence", &q.MinConfidence},
		{"max_confidence", &q.MaxConfidence},
		{"min_lift", &q.MinLift},
		{"max_lift", &q.MaxLift},
		{"min_score", &q.MinScore},
		{"max_score", &q.MaxScore},
	}
	for _, f := range floats {
		s := strings.TrimSpace(values.Get(f.name))
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) {
			return q, fmt.Errorf("%s: %q is not a number", f.name, s)
		}
		*f.dst = v
	}

	if s := strings.TrimSpace(values.Get("top")); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return q, fmt.Errorf("top: %q is not an integer", s)
		}
		q.Top = v
	}

	q.Themes = values["theme"]
	q.Genres = values["genre"]
	q.Direction = strings.ToLower(strings.TrimSpace(values.Get("direction")))
	q.Sort = strings.ToLower(strings.TrimSpace(values.Get("sort")))
	return q, nil
}

// Predicates converts a validated query into filter predicates.
func (q RulesQuery) Predicates() (filter.Predicates, error) {
	dir, err := filter.ParseDirection(q.Direction)
	if err != nil {
		return filter.Predicates{}, err
	}

	p := filter.Predicates{
		Occurrences: filter.Range{Min: q.MinOccurrences, Max: q.MaxOccurrences},
		Confidence:  filter.Range{Min: q.MinConfidence, Max: q.MaxConfidence},
		Lift:        filter.Range{Min: q.MinLift, Max: q.MaxLift},
		ReviewScore: filter.Range{Min: q.MinScore, Max: q.MaxScore},
		Direction:   dir,
	}
	for _, th := range q.Themes {
		p.Themes = append(p.Themes, tags.Theme(strings.TrimSpace(th)))
	}
	for _, g := range q.Genres {
		p.Genres = append(p.Genres, tags.Genre(strings.TrimSpace(g)))
	}
	return p, nil
}

// SortKey returns the requested ordering.
func (q RulesQuery) SortKey() (rules.SortKey, error) {
	return rules.ParseSortKey(q.Sort)
}
