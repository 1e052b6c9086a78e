package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/masmgr/gamerules/cmd"
	"github.com/masmgr/gamerules/internal/snapshot"
)

// catalogJSON returns n games with the same tags and review counts.
func catalogJSON(t *testing.T, firstID, n int, tags []string, positive, negative int) string {
	t.Helper()
	games := make(map[string]interface{}, n)
	for i := 0; i < n; i++ {
		games[fmt.Sprint(firstID+i)] = map[string]interface{}{
			"name":     fmt.Sprintf("Game %d", firstID+i),
			"positive": positive,
			"negative": negative,
			"tags":     tags,
		}
	}
	data, err := json.Marshal(games)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// TestMineAtGitRevision mines the catalog as of two commits of a repository.
func TestMineAtGitRevision(t *testing.T) {
	repoPath, repo := createTestRepo(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	commitFiles(t, repo, "Add space catalog", map[string]string{
		"data/games-1.json": catalogJSON(t, 1, 30, []string{"Space", "Exploration"}, 90, 10),
		"README.md":         "not a catalog",
	}, base)
	commitFiles(t, repo, "Add horror shard", map[string]string{
		"data/games-2.json": catalogJSON(t, 100, 40, []string{"Dark", "Horror"}, 30, 70),
	}, base.Add(24*time.Hour))

	tests := []struct {
		name             string
		revision         string
		wantTransactions int
		wantTheme        string
	}{
		{name: "first commit", revision: "HEAD~1", wantTransactions: 30, wantTheme: "Space"},
		{name: "head", revision: "HEAD", wantTransactions: 70, wantTheme: "Dark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := t.TempDir()
			args := []string{
				"gamerules", "--log-level", "disabled",
				"mine",
				"--repo", repoPath,
				"--revision", tt.revision,
				"--catalog", "data/games-*.json",
				"--out-dir", outDir,
			}

			var runErr error
			discardOutput(t, func() {
				runErr = cmd.App().Run(args)
			})
			if runErr != nil {
				t.Fatalf("mine failed: %v", runErr)
			}

			table, err := snapshot.ReadRules(filepath.Join(outDir, snapshot.RulesFile))
			if err != nil {
				t.Fatalf("ReadRules: %v", err)
			}
			if table.Transactions != tt.wantTransactions {
				t.Errorf("transactions = %d, want %d", table.Transactions, tt.wantTransactions)
			}
			themes := table.AvailableThemes()
			found := false
			for _, th := range themes {
				if string(th) == tt.wantTheme {
					found = true
				}
			}
			if !found {
				t.Errorf("themes = %v, want %s among them", themes, tt.wantTheme)
			}
		})
	}
}

func TestUnknownRevision(t *testing.T) {
	repoPath, repo := createTestRepo(t)
	commitFiles(t, repo, "Add catalog", map[string]string{
		"data/games.json": catalogJSON(t, 1, 30, []string{"Space"}, 90, 10),
	}, time.Now())

	err := cmd.App().Run([]string{
		"gamerules", "--log-level", "disabled",
		"mine", "--repo", repoPath, "--revision", "v9.9.9", "--catalog", "data/*.json",
		"--out-dir", t.TempDir(),
	})
	if err == nil || !strings.Contains(err.Error(), "v9.9.9") {
		t.Errorf("expected revision error, got %v", err)
	}
}
