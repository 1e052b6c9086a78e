package tags

import (
	"testing"

	"pgregory.net/rapid"
)

func TestRapidBinFor_ContainsScore(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		score := rapid.Float64Range(0, 100).Draw(t, "score")

		bin := BinFor(score)

		if score == 0 {
			if bin.Low != 0 {
				t.Fatalf("BinFor(0) = %v, expected lowest bin", bin)
			}
			return
		}
		if !(float64(bin.Low) < score && score <= float64(bin.High)) {
			t.Fatalf("BinFor(%f) = %v, score not in (low, high]", score, bin)
		}
	})
}

func TestRapidBinFor_Monotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Float64Range(0, 100).Draw(t, "x")
		y := rapid.Float64Range(x, 100).Draw(t, "y")

		if BinFor(y).Low < BinFor(x).Low {
			t.Fatalf("BinFor not monotonic: BinFor(%f)=%v, BinFor(%f)=%v", x, BinFor(x), y, BinFor(y))
		}
	})
}

func TestRapidBinColumn_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bin := rapid.SampledFrom(Bins()).Draw(t, "bin")

		parsed, ok := ParseBinColumn(bin.Column())
		if !ok || parsed != bin {
			t.Fatalf("ParseBinColumn(%q) = %v, %v; expected %v", bin.Column(), parsed, ok, bin)
		}
		if ReformatColumn(bin.Column()) != bin.Label() {
			t.Fatalf("ReformatColumn(%q) = %q, expected %q", bin.Column(), ReformatColumn(bin.Column()), bin.Label())
		}
	})
}
