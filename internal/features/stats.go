package features

import "math"

// Stats holds a game's raw review counts.
type Stats struct {
	Positive int
	Negative int
}

// TotalReviews returns positive + negative.
func (s Stats) TotalReviews() int {
	return s.Positive + s.Negative
}

// PercentPositive returns the share of positive reviews in percent, rounded to
// three decimal places. It is 0 when there are no positive reviews.
func (s Stats) PercentPositive() float64 {
	if s.Positive <= 0 {
		return 0
	}
	p := float64(s.Positive) / float64(s.TotalReviews()) * 100
	return math.Round(p*1000) / 1000
}

// LogRating shrinks PercentPositive toward neutral by a factor that decays with
// the number of reviews.
// Formula: p - (p - neutral) * 2^(-log10(total + 50))
func (s Stats) LogRating(neutral float64) float64 {
	if s.Positive <= 0 {
		return 0
	}
	p := s.PercentPositive()
	shrink := math.Pow(2, -math.Log10(float64(s.TotalReviews())+50))
	return clamp(p-(p-neutral)*shrink, 0, 100)
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
