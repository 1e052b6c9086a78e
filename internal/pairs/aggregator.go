// Package pairs aggregates average review scores over theme and genre combinations.
package pairs

import (
	"math"
	"sort"

	"github.com/masmgr/gamerules/internal/features"
	"github.com/masmgr/gamerules/internal/tags"
)

// DefaultMinOccurrences is the default threshold; a pair needs more games than this.
const DefaultMinOccurrences = 10

// Pair is the average percent-positive score of the games carrying both a theme
// and a genre.
type Pair struct {
	Theme       tags.Theme
	Genre       tags.Genre
	Average     float64 // rounded to 2 decimal places
	Occurrences int
}

// GenreSummary is the mean of a genre's pair averages.
type GenreSummary struct {
	Genre tags.Genre
	Mean  float64
	Pairs int
}

// Result holds the kept pairs and the genre ordering they are sorted by.
type Result struct {
	Pairs  []Pair
	Genres []GenreSummary // ascending by mean
}

// Aggregator computes theme x genre averages.
type Aggregator struct {
	minOccurrences int
}

// NewAggregator creates an aggregator that keeps pairs with more than
// minOccurrences games.
func NewAggregator(minOccurrences int) *Aggregator {
	return &Aggregator{minOccurrences: minOccurrences}
}

type pairKey struct {
	theme tags.Theme
	genre tags.Genre
}

type accumulator struct {
	sum   float64
	count int
}

// Aggregate computes the pair averages. Pairs are ordered by their genre's mean
// average ascending, then by theme.
func (a *Aggregator) Aggregate(records []features.Record) Result {
	acc := make(map[pairKey]*accumulator)
	for _, r := range records {
		for _, th := range r.Themes {
			for _, g := range r.Genres {
				k := pairKey{theme: th, genre: g}
				if acc[k] == nil {
					acc[k] = &accumulator{}
				}
				acc[k].sum += r.PercentPositive
				acc[k].count++
			}
		}
	}

	var result Result
	genreTotals := make(map[tags.Genre]*accumulator)
	for k, v := range acc {
		if v.count <= a.minOccurrences {
			continue
		}
		avg := math.Round(v.sum/float64(v.count)*100) / 100
		result.Pairs = append(result.Pairs, Pair{
			Theme:       k.theme,
			Genre:       k.genre,
			Average:     avg,
			Occurrences: v.count,
		})
		if genreTotals[k.genre] == nil {
			genreTotals[k.genre] = &accumulator{}
		}
		genreTotals[k.genre].sum += avg
		genreTotals[k.genre].count++
	}

	for g, v := range genreTotals {
		result.Genres = append(result.Genres, GenreSummary{Genre: g, Mean: v.sum / float64(v.count), Pairs: v.count})
	}
	sort.Slice(result.Genres, func(i, j int) bool {
		if result.Genres[i].Mean != result.Genres[j].Mean {
			return result.Genres[i].Mean < result.Genres[j].Mean
		}
		return result.Genres[i].Genre < result.Genres[j].Genre
	})

	rank := make(map[tags.Genre]int, len(result.Genres))
	for i, g := range result.Genres {
		rank[g.Genre] = i
	}
	sort.Slice(result.Pairs, func(i, j int) bool {
		pi, pj := result.Pairs[i], result.Pairs[j]
		if pi.Genre != pj.Genre {
			return rank[pi.Genre] < rank[pj.Genre]
		}
		return pi.Theme < pj.Theme
	})
	return result
}
