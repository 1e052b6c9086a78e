package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/masmgr/gamerules/internal/features"
	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/tags"
)

// ErrNoRuns is returned when a snapshot database holds no mining run.
var ErrNoRuns = errors.New("no mining runs stored")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	created_at     TEXT NOT NULL,
	transactions   INTEGER NOT NULL,
	min_support    REAL NOT NULL,
	min_confidence REAL NOT NULL,
	rule_count     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS rules (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	antecedents TEXT NOT NULL,
	consequents TEXT NOT NULL,
	support     REAL NOT NULL,
	confidence  REAL NOT NULL,
	lift        REAL NOT NULL,
	count       INTEGER NOT NULL,
	occurrences INTEGER NOT NULL,
	PRIMARY KEY (run_id, position)
);
CREATE TABLE IF NOT EXISTS games (
	run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	app_id           INTEGER NOT NULL,
	name             TEXT NOT NULL,
	positive         INTEGER NOT NULL,
	negative         INTEGER NOT NULL,
	percent_positive REAL NOT NULL,
	log_rating       REAL NOT NULL,
	PRIMARY KEY (run_id, app_id)
);
CREATE TABLE IF NOT EXISTS game_items (
	run_id TEXT NOT NULL,
	app_id INTEGER NOT NULL,
	kind   TEXT NOT NULL,
	label  TEXT NOT NULL,
	PRIMARY KEY (run_id, app_id, kind, label),
	FOREIGN KEY (run_id, app_id) REFERENCES games(run_id, app_id) ON DELETE CASCADE
);
`

// Run describes one stored mining run.
type Run struct {
	ID            string
	CreatedAt     time.Time
	Transactions  int
	MinSupport    float64
	MinConfidence float64
	RuleCount     int
}

// RunParams are the mining parameters recorded with a run.
type RunParams struct {
	MinSupport    float64
	MinConfidence float64
}

// SQLiteStore persists mining runs in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates a snapshot database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a rule table and the encoded games in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, params RunParams, table *rules.Table, records []features.Record) (Run, error) {
	run := Run{
		ID:            ulid.Make().String(),
		CreatedAt:     time.Now().UTC(),
		Transactions:  table.Transactions,
		MinSupport:    params.MinSupport,
		MinConfidence: params.MinConfidence,
		RuleCount:     table.Len(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, transactions, min_support, min_confidence, rule_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.Format(time.RFC3339Nano), run.Transactions, run.MinSupport, run.MinConfidence, run.RuleCount)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	if err := insertRules(ctx, tx, run.ID, table.Rules); err != nil {
		return Run{}, err
	}
	if err := insertGames(ctx, tx, run.ID, records); err != nil {
		return Run{}, err
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

func insertRules(ctx context.Context, tx *sql.Tx, runID string, rs []rules.Rule) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rules (run_id, position, antecedents, consequents, support, confidence, lift, count, occurrences)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range rs {
		_, err := stmt.ExecContext(ctx, runID, i,
			tags.FormatItems(r.Antecedents), tags.FormatItems(r.Consequents),
			r.Support, r.Confidence, r.Lift, r.Count, r.Occurrences)
		if err != nil {
			return fmt.Errorf("insert rule %d: %w", i, err)
		}
	}
	return nil
}

func insertGames(ctx context.Context, tx *sql.Tx, runID string, records []features.Record) error {
	gameStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (run_id, app_id, name, positive, negative, percent_positive, log_rating)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer gameStmt.Close()

	itemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO game_items (run_id, app_id, kind, label) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	for _, r := range records {
		_, err := gameStmt.ExecContext(ctx, runID, r.ID, r.Name,
			r.Stats.Positive, r.Stats.Negative, r.PercentPositive, r.LogRating)
		if err != nil {
			return fmt.Errorf("insert game %d: %w", r.ID, err)
		}

		items := make([]tags.Item, 0, len(r.Genres)+len(r.Themes)+1)
		for _, g := range r.Genres {
			items = append(items, tags.GenreItem(g))
		}
		for _, t := range r.Themes {
			items = append(items, tags.ThemeItem(t))
		}
		items = append(items, tags.BinItem(r.Bin))

		for _, item := range items {
			if _, err := itemStmt.ExecContext(ctx, runID, r.ID, item.Kind.String(), item.Label); err != nil {
				return fmt.Errorf("insert items of game %d: %w", r.ID, err)
			}
		}
	}
	return nil
}

// Runs lists the stored runs, newest first.
func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, transactions, min_support, min_confidence, rule_count
		FROM runs ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			createdAt string
		)
		if err := rows.Scan(&run.ID, &createdAt, &run.Transactions, &run.MinSupport, &run.MinConfidence, &run.RuleCount); err != nil {
			return nil, err
		}
		run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadRules restores the rule table of a run. An empty runID selects the latest run.
func (s *SQLiteStore) LoadRules(ctx context.Context, runID string) (*rules.Table, error) {
	var transactions int
	var err error
	if runID == "" {
		err = s.db.QueryRowContext(ctx, `SELECT id, transactions FROM runs ORDER BY id DESC LIMIT 1`).Scan(&runID, &transactions)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT transactions FROM runs WHERE id = ?`, runID).Scan(&transactions)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT antecedents, consequents, support, confidence, lift, count, occurrences
		FROM rules WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := &rules.Table{Transactions: transactions}
	for rows.Next() {
		var (
			ante, cons                string
			support, confidence, lift float64
			count, occurrences        int
		)
		if err := rows.Scan(&ante, &cons, &support, &confidence, &lift, &count, &occurrences); err != nil {
			return nil, err
		}
		antecedents, err := tags.ParseItems(ante)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		consequents, err := tags.ParseItems(cons)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		table.Rules = append(table.Rules, rules.Restore(antecedents, consequents, support, confidence, lift, count, occurrences))
	}
	return table, rows.Err()
}

// GameItems returns the items stored for one game of a run.
func (s *SQLiteStore) GameItems(ctx context.Context, runID string, appID int64) (tags.ItemSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, label FROM game_items WHERE run_id = ? AND app_id = ?
	`, runID, appID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []tags.Item
	for rows.Next() {
		var kindName, label string
		if err := rows.Scan(&kindName, &label); err != nil {
			return nil, err
		}
		kind, err := tags.ParseKind(kindName)
		if err != nil {
			return nil, err
		}
		items = append(items, tags.Item{Kind: kind, Label: label})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags.NewItemSet(items...), nil
}
