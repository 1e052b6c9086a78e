package features

import (
	"testing"

	"pgregory.net/rapid"
)

func TestRapidLogRating_Bounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Stats{
			Positive: rapid.IntRange(0, 1_000_000).Draw(t, "positive"),
			Negative: rapid.IntRange(0, 1_000_000).Draw(t, "negative"),
		}
		neutral := rapid.Float64Range(0, 100).Draw(t, "neutral")

		r := s.LogRating(neutral)
		if r < 0 || r > 100 {
			t.Fatalf("LogRating(%v) = %f, out of [0,100]", s, r)
		}
		if s.Positive == 0 && (r != 0 || s.PercentPositive() != 0) {
			t.Fatalf("zero positive reviews gave percent %f, rating %f", s.PercentPositive(), r)
		}
	})
}

func TestRapidLogRating_BetweenScoreAndNeutral(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Stats{
			Positive: rapid.IntRange(1, 100_000).Draw(t, "positive"),
			Negative: rapid.IntRange(0, 100_000).Draw(t, "negative"),
		}

		p := s.PercentPositive()
		r := s.LogRating(50)
		lo, hi := p, 50.0
		if lo > hi {
			lo, hi = hi, lo
		}
		if r < lo-1e-9 || r > hi+1e-9 {
			t.Fatalf("LogRating = %f, not between %f and 50", r, p)
		}
	})
}
