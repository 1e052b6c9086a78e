package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/masmgr/gamerules/internal/tags"
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Unbounded returns a range that accepts every value.
func Unbounded() Range {
	return Range{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Contains reports whether v lies in the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Covers reports whether the range holds the whole interval [lo, hi].
func (r Range) Covers(lo, hi float64) bool {
	return r.Min <= lo && r.Max >= hi
}

// IsUnbounded reports whether the range accepts every value.
func (r Range) IsUnbounded() bool {
	return math.IsInf(r.Min, -1) && math.IsInf(r.Max, 1)
}

// String returns a string representation of the range.
func (r Range) String() string {
	if r.IsUnbounded() {
		return "any"
	}
	return fmt.Sprintf("%g..%g", r.Min, r.Max)
}

// Direction constrains which tag domain implies which.
type Direction int

const (
	DirectionAll Direction = iota
	DirectionThemesToGenres
	DirectionGenresToThemes
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionThemesToGenres:
		return "themes>genres"
	case DirectionGenresToThemes:
		return "genres>themes"
	default:
		return "all"
	}
}

// ParseDirection parses "all", "themes>genres" or "genres>themes". An empty
// string means all.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return DirectionAll, nil
	case "themes>genres":
		return DirectionThemesToGenres, nil
	case "genres>themes":
		return DirectionGenresToThemes, nil
	default:
		return DirectionAll, fmt.Errorf("unknown direction %q (expected all, themes>genres or genres>themes)", s)
	}
}

// Predicates is the filter input. All predicates are combined with AND.
// The zero value rejects almost everything; start from DefaultPredicates.
type Predicates struct {
	Occurrences Range
	Confidence  Range
	Lift        Range
	// ReviewScore applies to the lower bound of the antecedent's review bin.
	ReviewScore Range

	Themes    []tags.Theme
	Genres    []tags.Genre
	Direction Direction
}

// DefaultPredicates returns predicates that accept every rule.
func DefaultPredicates() Predicates {
	return Predicates{
		Occurrences: Unbounded(),
		Confidence:  Unbounded(),
		Lift:        Unbounded(),
		ReviewScore: Unbounded(),
		Direction:   DirectionAll,
	}
}

// HasSelection reports whether any theme or genre is selected.
func (p Predicates) HasSelection() bool {
	return len(p.Themes) > 0 || len(p.Genres) > 0
}

// IsPermissive reports whether the predicates accept every rule.
func (p Predicates) IsPermissive() bool {
	return p.Occurrences.IsUnbounded() &&
		p.Confidence.IsUnbounded() &&
		p.Lift.IsUnbounded() &&
		p.ReviewScore.IsUnbounded() &&
		!p.HasSelection() &&
		p.Direction == DirectionAll
}

// Describe returns a one-line summary for logs and report headers.
func (p Predicates) Describe() string {
	parts := []string{
		"occurrences=" + p.Occurrences.String(),
		"confidence=" + p.Confidence.String(),
		"lift=" + p.Lift.String(),
		"review_score=" + p.ReviewScore.String(),
		"direction=" + p.Direction.String(),
	}
	if len(p.Themes) > 0 {
		themes := make([]string, len(p.Themes))
		for i, t := range p.Themes {
			themes[i] = string(t)
		}
		parts = append(parts, "themes="+strings.Join(themes, "+"))
	}
	if len(p.Genres) > 0 {
		genres := make([]string, len(p.Genres))
		for i, g := range p.Genres {
			genres[i] = string(g)
		}
		parts = append(parts, "genres="+strings.Join(genres, "+"))
	}
	return strings.Join(parts, " ")
}
