package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/masmgr/gamerules/internal/output"
	"github.com/masmgr/gamerules/internal/snapshot"
)

// writeTestCatalog writes 30 well-reviewed Space/Exploration games, 5 poorly
// reviewed Dark/Horror games and 5 games below the review threshold.
func writeTestCatalog(t *testing.T, dir string) string {
	t.Helper()
	games := make(map[string]interface{})
	id := 1000
	add := func(n int, tagList []string, positive, negative int) {
		for i := 0; i < n; i++ {
			id++
			games[fmt.Sprint(id)] = map[string]interface{}{
				"name":     fmt.Sprintf("Game %d", id),
				"positive": positive,
				"negative": negative,
				"tags":     tagList,
			}
		}
	}
	add(30, []string{"Space", "Exploration", "Indie"}, 90, 10)
	add(5, []string{"Dark", "Horror"}, 10, 90)
	add(5, []string{"Space", "Exploration"}, 5, 5)

	data, err := json.Marshal(games)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "games.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runApp(t *testing.T, args ...string) {
	t.Helper()
	argv := append([]string{"gamerules", "--log-level", "disabled"}, args...)
	if err := App().Run(argv); err != nil {
		t.Fatalf("gamerules %s: %v", strings.Join(args, " "), err)
	}
}

func readJSONFile(t *testing.T, path string, dst interface{}) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}

func TestCommands_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeTestCatalog(t, dir)
	outDir := filepath.Join(dir, "out")
	dbPath := filepath.Join(dir, "rules.db")

	// mine
	mineOut := filepath.Join(dir, "mine.json")
	runApp(t, "mine",
		"--catalog", catalogPath,
		"--out-dir", outDir,
		"--db", dbPath,
		"--format", "json",
		"--top", "0",
		"--output", mineOut,
	)

	var mined output.JSONRuleReport
	readJSONFile(t, mineOut, &mined)
	if mined.Transactions != 35 {
		t.Errorf("transactions = %d, want 35", mined.Transactions)
	}
	if mined.TotalRules == 0 || len(mined.Items) != mined.TotalRules {
		t.Fatalf("mined %d rules, %d items", mined.TotalRules, len(mined.Items))
	}
	for _, r := range mined.Items {
		if r.ReviewBin == nil || r.ReviewBin.Low != 80 {
			t.Errorf("rule %s => %s has review bin %+v", r.AntecedentsLabel, r.ConsequentsLabel, r.ReviewBin)
		}
	}
	for _, name := range []string{snapshot.RulesFile, snapshot.GenresFile, snapshot.ThemesFile, snapshot.ReviewsFile} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	// filter from CSV
	filterOut := filepath.Join(dir, "filter.json")
	runApp(t, "filter",
		"--rules", outDir,
		"--theme", "Space",
		"--direction", "themes>genres",
		"--format", "json",
		"--output", filterOut,
	)

	var filtered output.JSONRuleReport
	readJSONFile(t, filterOut, &filtered)
	if filtered.MatchedRules == 0 || filtered.MatchedRules >= mined.TotalRules {
		t.Errorf("matched %d of %d rules", filtered.MatchedRules, mined.TotalRules)
	}
	if filtered.Filter == "" {
		t.Error("filter description missing")
	}
	for _, r := range filtered.Items {
		if !strings.Contains(r.AntecedentsLabel, "Space") {
			t.Errorf("antecedents %q lack the selected theme", r.AntecedentsLabel)
		}
	}

	// tags from SQLite
	tagsOut := filepath.Join(dir, "tags.json")
	runApp(t, "tags", "--db", dbPath, "--format", "json", "--output", tagsOut)

	var tagReport output.JSONTagReport
	readJSONFile(t, tagsOut, &tagReport)
	if strings.Join(tagReport.Themes, ",") != "Space" || strings.Join(tagReport.Genres, ",") != "Exploration" {
		t.Errorf("tags = %+v", tagReport)
	}

	// pairs
	pairsOut := filepath.Join(dir, "pairs.csv")
	runApp(t, "pairs", "--catalog", catalogPath, "--format", "csv", "--output", pairsOut)

	data, err := os.ReadFile(pairsOut)
	if err != nil {
		t.Fatal(err)
	}
	if want := "Genre,Theme,ReviewAverage,Occurrences\nExploration,Space,90.00,30\n"; string(data) != want {
		t.Errorf("pairs = %q, want %q", data, want)
	}
}

func TestMine_NoGames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.json")
	if err := os.WriteFile(path, []byte(`{"1": {"name": "Quiet", "positive": 1, "negative": 0}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	runApp(t, "mine", "--catalog", path, "--out-dir", filepath.Join(dir, "out"))

	if _, err := os.Stat(filepath.Join(dir, "out", snapshot.RulesFile)); !os.IsNotExist(err) {
		t.Errorf("rules written for an empty catalog: %v", err)
	}
}

func TestMine_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{name: "no catalog match", args: []string{"mine", "--catalog", filepath.Join(dir, "none*.json")}},
		{name: "missing vocabulary", args: []string{"mine", "--catalog", filepath.Join(dir, "none*.json"), "--vocabulary", filepath.Join(dir, "vocab.yaml")}},
		{name: "invalid confidence", args: []string{"mine", "--min-confidence", "2"}},
		{name: "unknown sort key", args: []string{"mine", "--sort", "name"}},
		{name: "missing rules", args: []string{"filter", "--rules", filepath.Join(dir, "missing")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv := append([]string{"gamerules", "--log-level", "disabled"}, tt.args...)
			if err := App().Run(argv); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
