package features

import (
	"github.com/masmgr/gamerules/internal/catalog"
	"github.com/masmgr/gamerules/internal/logging"
	"github.com/masmgr/gamerules/internal/tags"
)

// Options configures review-score derivation.
type Options struct {
	// MinReviews is the smallest total review count a game needs to be encoded.
	MinReviews int
	// NeutralScore is the midpoint low-review games are pulled toward.
	NeutralScore float64
}

// DefaultOptions returns the default encoder options.
func DefaultOptions() Options {
	return Options{
		MinReviews:   25,
		NeutralScore: 50,
	}
}

// Record is a game with its derived review features.
type Record struct {
	ID              int64
	Name            string
	Stats           Stats
	PercentPositive float64
	LogRating       float64
	Bin             tags.ReviewBin
	Tags            []string
	Genres          []tags.Genre
	Themes          []tags.Theme
}

// Encoded holds the output of one encoding pass.
type Encoded struct {
	Records      []Record
	Genres       *Table
	Themes       *Table
	Reviews      *Table
	Transactions *Table
	Dropped      int // games below MinReviews
}

// Encoder derives review features and one-hot tables from catalog games.
type Encoder struct {
	classifier *tags.Classifier
	opts       Options
}

// NewEncoder creates an encoder.
func NewEncoder(classifier *tags.Classifier, opts Options) *Encoder {
	return &Encoder{classifier: classifier, opts: opts}
}

// Derive computes the review features of every game with enough reviews.
// Input order is kept.
func (e *Encoder) Derive(games []catalog.Game) (records []Record, dropped int) {
	records = make([]Record, 0, len(games))
	for _, g := range games {
		stats := Stats{Positive: g.Positive, Negative: g.Negative}
		if stats.TotalReviews() < e.opts.MinReviews {
			dropped++
			continue
		}

		rating := stats.LogRating(e.opts.NeutralScore)
		class := e.classifier.Classify(g.Tags)
		records = append(records, Record{
			ID:              g.ID,
			Name:            g.Name,
			Stats:           stats,
			PercentPositive: stats.PercentPositive(),
			LogRating:       rating,
			Bin:             tags.BinFor(rating),
			Tags:            g.Tags,
			Genres:          class.Genres,
			Themes:          class.Themes,
		})
	}
	return records, dropped
}

// GenreTable builds the genre one-hot table.
func (e *Encoder) GenreTable(records []Record) (*Table, error) {
	t := NewTable(e.classifier.GenreColumns())
	for _, r := range records {
		if err := t.Append(r.ID, r.Name, e.classifier.GenreRow(r.Tags)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ThemeTable builds the theme one-hot table.
func (e *Encoder) ThemeTable(records []Record) (*Table, error) {
	t := NewTable(e.classifier.ThemeColumns())
	for _, r := range records {
		if err := t.Append(r.ID, r.Name, e.classifier.ThemeRow(r.Tags)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ReviewTable builds the review-bin one-hot table: exactly one bin per row.
func ReviewTable(records []Record) (*Table, error) {
	bins := tags.Bins()
	t := NewTable(tags.BinColumns())
	for _, r := range records {
		row := make([]bool, len(bins))
		for i, b := range bins {
			row[i] = b == r.Bin
		}
		if err := t.Append(r.ID, r.Name, row); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Encode runs the full encoding pass: derive, build the three sub-tables and join
// them on game ID.
func (e *Encoder) Encode(games []catalog.Game) (*Encoded, error) {
	records, dropped := e.Derive(games)

	genres, err := e.GenreTable(records)
	if err != nil {
		return nil, err
	}
	themes, err := e.ThemeTable(records)
	if err != nil {
		return nil, err
	}
	reviews, err := ReviewTable(records)
	if err != nil {
		return nil, err
	}

	transactions, err := Assemble(genres, themes, reviews)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Int("games", len(records)).
		Int("dropped", dropped).
		Int("columns", len(transactions.Columns)).
		Msg("transaction table encoded")

	return &Encoded{
		Records:      records,
		Genres:       genres,
		Themes:       themes,
		Reviews:      reviews,
		Transactions: transactions,
		Dropped:      dropped,
	}, nil
}
