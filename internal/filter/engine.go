// Package filter selects the rules matching a set of interactive predicates.
//
// Apply is a pure function: it never modifies the rule slice it is given and keeps
// the source order, so a single rule table can be shared by concurrent callers.
package filter

import (
	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/tags"
)

const (
	minScore = 0
	maxScore = 100
)

// Apply returns the rules matching every predicate, in source order. The result
// is a new slice even when every rule matches.
func Apply(rs []rules.Rule, p Predicates) []rules.Rule {
	m := newMatcher(p)
	out := make([]rules.Rule, 0, len(rs))
	for _, r := range rs {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the number of rules Apply would return.
func Count(rs []rules.Rule, p Predicates) int {
	m := newMatcher(p)
	n := 0
	for _, r := range rs {
		if m.match(r) {
			n++
		}
	}
	return n
}

type matcher struct {
	p      Predicates
	themes []tags.Item
	genres []tags.Item
}

func newMatcher(p Predicates) matcher {
	m := matcher{p: p}
	for _, t := range p.Themes {
		m.themes = append(m.themes, tags.ThemeItem(t))
	}
	for _, g := range p.Genres {
		m.genres = append(m.genres, tags.GenreItem(g))
	}
	return m
}

func (m matcher) match(r rules.Rule) bool {
	return m.matchRanges(r) && m.matchSelection(r) && m.matchDirection(r)
}

func (m matcher) matchRanges(r rules.Rule) bool {
	if !m.p.Occurrences.Contains(float64(r.Occurrences)) ||
		!m.p.Confidence.Contains(r.Confidence) ||
		!m.p.Lift.Contains(r.Lift) {
		return false
	}
	if r.ReviewBin == nil {
		// No score to test; only a range spanning every score accepts the rule.
		return m.p.ReviewScore.Covers(minScore, maxScore)
	}
	return m.p.ReviewScore.Contains(float64(r.ReviewBin.Low))
}

// matchSelection requires all selected themes together on one side of the rule,
// and likewise all selected genres. The two checks are independent.
func (m matcher) matchSelection(r rules.Rule) bool {
	return onOneSide(r, m.themes) && onOneSide(r, m.genres)
}

func onOneSide(r rules.Rule, items []tags.Item) bool {
	if len(items) == 0 {
		return true
	}
	return r.Antecedents.ContainsAll(items) || r.Consequents.ContainsAll(items)
}

func (m matcher) matchDirection(r rules.Rule) bool {
	if m.p.Direction == DirectionAll {
		return true
	}

	if !m.p.HasSelection() {
		anteThemes := r.Antecedents.Count(tags.KindTheme)
		anteGenres := r.Antecedents.Count(tags.KindGenre)
		consThemes := r.Consequents.Count(tags.KindTheme)
		consGenres := r.Consequents.Count(tags.KindGenre)

		switch m.p.Direction {
		case DirectionThemesToGenres:
			return anteThemes > 0 && consThemes == 0 && consGenres > 0
		case DirectionGenresToThemes:
			return anteGenres > 0 && consGenres == 0 && consThemes > 0
		}
		return true
	}

	switch m.p.Direction {
	case DirectionThemesToGenres:
		return r.Antecedents.ContainsAll(m.themes) && r.Consequents.ContainsAll(m.genres)
	case DirectionGenresToThemes:
		return r.Antecedents.ContainsAll(m.genres) && r.Consequents.ContainsAll(m.themes)
	}
	return true
}
