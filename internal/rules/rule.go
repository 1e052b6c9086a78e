package rules

import (
	"math"
	"sort"

	"github.com/masmgr/gamerules/internal/tags"
)

// Rule is a post-processed association rule ready for filtering and display.
type Rule struct {
	Antecedents tags.ItemSet
	Consequents tags.ItemSet

	// Display strings: labels sorted alphabetically, joined with ", ".
	AntecedentsLabel string
	ConsequentsLabel string

	Support     float64
	Confidence  float64
	Lift        float64
	Count       int // transactions containing both sides
	Occurrences int

	// ReviewBin is the antecedent's review bin, nil when it has none.
	ReviewBin *tags.ReviewBin
}

// Restore rebuilds a rule from persisted values. Display strings and the review
// bin are derived from the item sets.
func Restore(antecedents, consequents tags.ItemSet, support, confidence, lift float64, count, occurrences int) Rule {
	r := Rule{
		Antecedents:      antecedents,
		Consequents:      consequents,
		AntecedentsLabel: antecedents.DisplayString(),
		ConsequentsLabel: consequents.DisplayString(),
		Support:          support,
		Confidence:       confidence,
		Lift:             lift,
		Count:            count,
		Occurrences:      occurrences,
	}
	if bin, ok := antecedents.ReviewBin(); ok {
		r.ReviewBin = &bin
	}
	return r
}

// HasReviewAntecedent reports whether the antecedent holds a review bin.
func (r Rule) HasReviewAntecedent() bool {
	return r.ReviewBin != nil
}

// Occurrences converts a support into a displayed occurrence count over n
// transactions: round(support*n) - 1, or round(support*n) when exact is set.
// Halves round to even.
func Occurrences(support float64, n int, exact bool) int {
	v := int(math.RoundToEven(support * float64(n)))
	if !exact {
		v--
	}
	return v
}

// Table is an immutable rule snapshot. Callers must not modify Rules.
type Table struct {
	Rules        []Rule
	Transactions int
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.Rules)
}

// AvailableThemes lists the themes referenced by any rule, sorted.
func (t *Table) AvailableThemes() []tags.Theme {
	seen := make(map[tags.Theme]struct{})
	for _, r := range t.Rules {
		for _, th := range r.Antecedents.Themes() {
			seen[th] = struct{}{}
		}
		for _, th := range r.Consequents.Themes() {
			seen[th] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// AvailableGenres lists the genres referenced by any rule, sorted.
func (t *Table) AvailableGenres() []tags.Genre {
	seen := make(map[tags.Genre]struct{})
	for _, r := range t.Rules {
		for _, g := range r.Antecedents.Genres() {
			seen[g] = struct{}{}
		}
		for _, g := range r.Consequents.Genres() {
			seen[g] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys[T ~string](m map[T]struct{}) []T {
	keys := make([]T, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
