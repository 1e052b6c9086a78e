package rules

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/masmgr/gamerules/internal/mining"
	"github.com/masmgr/gamerules/internal/tags"
)

func TestRapidProcess_ReviewGateAndDisjoint(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := rapid.IntRange(1, 60).Draw(t, "rows")
		txs := make([][]int, rows)
		for i := range txs {
			// Column 0 or 1 is a review bin, exactly one per row as in the encoder.
			tx := []int{rapid.IntRange(0, 1).Draw(t, "bin")}
			for item := 2; item < 5; item++ {
				if rapid.Bool().Draw(t, "has") {
					tx = append(tx, item)
				}
			}
			txs[i] = tx
		}
		columns := []tags.Item{
			tags.BinItem(tags.ReviewBin{Low: 70, High: 75}),
			tags.BinItem(tags.ReviewBin{Low: 75, High: 80}),
			tags.GenreItem("Roguelike"),
			tags.ThemeItem("Horror"),
			tags.GenreItem("Survival"),
		}

		result := mining.NewMiner(mining.Options{MinSupport: 0.1, MinConfidence: 0.3}).Mine(txs)
		table := NewProcessor(columns, Options{}).Process(result)

		for _, r := range table.Rules {
			if r.Antecedents.Count(tags.KindReviewBin) == 0 || r.ReviewBin == nil {
				t.Fatalf("rule without review antecedent: %+v", r)
			}
			if !r.Antecedents.Disjoint(r.Consequents) {
				t.Fatalf("rule sides overlap: %+v", r)
			}
		}

		kept := 0
		for _, mr := range result.Rules {
			for _, idx := range mr.Antecedent {
				if idx <= 1 {
					kept++
					break
				}
			}
		}
		if kept != table.Len() {
			t.Fatalf("kept %d rules, expected %d", table.Len(), kept)
		}
	})
}
