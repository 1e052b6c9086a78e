package filter

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/tags"
)

var rapidItems = []tags.Item{
	tags.ThemeItem("Horror"),
	tags.ThemeItem("Space"),
	tags.ThemeItem("Survival"),
	tags.GenreItem("Survival"),
	tags.GenreItem("Action"),
	tags.GenreItem("Roguelike"),
}

func genRule(t *rapid.T) rules.Rule {
	var ante, cons []tags.Item
	ante = append(ante, tags.BinItem(rapid.SampledFrom(tags.Bins()).Draw(t, "bin")))
	for _, item := range rapidItems {
		switch rapid.IntRange(0, 2).Draw(t, "side") {
		case 1:
			ante = append(ante, item)
		case 2:
			cons = append(cons, item)
		}
	}
	occurrences := rapid.IntRange(0, 500).Draw(t, "occurrences")
	return rules.Restore(
		tags.NewItemSet(ante...),
		tags.NewItemSet(cons...),
		rapid.Float64Range(0, 1).Draw(t, "support"),
		rapid.Float64Range(0, 1).Draw(t, "confidence"),
		rapid.Float64Range(0, 10).Draw(t, "lift"),
		occurrences+1,
		occurrences,
	)
}

func genRules(t *rapid.T) []rules.Rule {
	n := rapid.IntRange(0, 30).Draw(t, "rules")
	rs := make([]rules.Rule, n)
	for i := range rs {
		rs[i] = genRule(t)
	}
	return rs
}

func genRange(t *rapid.T, lo, hi float64, label string) Range {
	a := rapid.Float64Range(lo, hi).Draw(t, label+"_min")
	b := rapid.Float64Range(a, hi).Draw(t, label+"_max")
	return Range{Min: a, Max: b}
}

func genPredicates(t *rapid.T) Predicates {
	p := DefaultPredicates()
	if rapid.Bool().Draw(t, "narrow_occurrences") {
		p.Occurrences = genRange(t, 0, 500, "occurrences")
	}
	if rapid.Bool().Draw(t, "narrow_confidence") {
		p.Confidence = genRange(t, 0, 1, "confidence")
	}
	if rapid.Bool().Draw(t, "narrow_score") {
		p.ReviewScore = genRange(t, 0, 100, "score")
	}
	p.Themes = rapid.SliceOfDistinct(rapid.SampledFrom([]tags.Theme{"Horror", "Space", "Survival"}), func(th tags.Theme) tags.Theme { return th }).
		Draw(t, "themes")
	p.Genres = rapid.SliceOfDistinct(rapid.SampledFrom([]tags.Genre{"Survival", "Action", "Roguelike"}), func(g tags.Genre) tags.Genre { return g }).
		Draw(t, "genres")
	p.Direction = rapid.SampledFrom([]Direction{DirectionAll, DirectionThemesToGenres, DirectionGenresToThemes}).Draw(t, "direction")
	return p
}

func TestRapidApply_Identity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rs := genRules(t)

		got := Apply(rs, DefaultPredicates())
		if len(got) != len(rs) {
			t.Fatalf("permissive filter returned %d of %d rules", len(got), len(rs))
		}
		if len(rs) > 0 && !reflect.DeepEqual(got, rs) {
			t.Fatal("permissive filter changed rule content or order")
		}
	})
}

func TestRapidApply_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rs := genRules(t)
		p := genPredicates(t)

		first := Apply(rs, p)
		second := Apply(rs, p)
		if !reflect.DeepEqual(first, second) {
			t.Fatal("repeated calls returned different results")
		}
		if again := Apply(first, p); !reflect.DeepEqual(again, first) {
			t.Fatal("filtering the result again changed it")
		}
	})
}

func TestRapidApply_MonotonicRanges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rs := genRules(t)
		p := genPredicates(t)
		base := len(Apply(rs, p))

		narrowed := p
		raise := rapid.Float64Range(0, 1).Draw(t, "raise")
		switch rapid.IntRange(0, 2).Draw(t, "which") {
		case 0:
			narrowed.Confidence.Min = maxFloat(p.Confidence.Min, 0) + raise
		case 1:
			narrowed.Occurrences.Min = maxFloat(p.Occurrences.Min, 0) + raise*100
		case 2:
			narrowed.ReviewScore.Max = minFloat(p.ReviewScore.Max, 100) - raise*50
		}

		if got := len(Apply(rs, narrowed)); got > base {
			t.Fatalf("narrowing a range grew the result from %d to %d", base, got)
		}
	})
}

func TestRapidApply_DirectionalExclusivity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rs := genRules(t)
		p := DefaultPredicates()
		p.Direction = DirectionThemesToGenres

		for _, r := range Apply(rs, p) {
			if r.Antecedents.Count(tags.KindTheme) == 0 {
				t.Fatalf("antecedent without theme: %q", r.AntecedentsLabel)
			}
			if r.Consequents.Count(tags.KindTheme) != 0 {
				t.Fatalf("consequent with theme: %q", r.ConsequentsLabel)
			}
			if r.Consequents.Count(tags.KindGenre) == 0 {
				t.Fatalf("consequent without genre: %q", r.ConsequentsLabel)
			}
		}
	})
}

func TestRapidApply_SubsetInOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rs := genRules(t)
		p := genPredicates(t)

		got := Apply(rs, p)
		j := 0
		for _, r := range got {
			for j < len(rs) && !reflect.DeepEqual(rs[j], r) {
				j++
			}
			if j == len(rs) {
				t.Fatal("result is not an ordered subsequence of the input")
			}
			j++
		}
	})
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
