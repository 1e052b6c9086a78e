package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/masmgr/gamerules/internal/features"
	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/tags"
)

// File names inside a snapshot directory.
const (
	RulesFile   = "rules.csv"
	GenresFile  = "genres.csv"
	ThemesFile  = "themes.csv"
	ReviewsFile = "reviews.csv"
)

var ruleHeader = []string{
	"antecedents", "consequents", "antecedents_str", "consequents_str",
	"support", "confidence", "lift", "count", "occurrences", "transactions",
}

// WriteCSV writes the rule table and the three one-hot tables into dir. Files are
// written to temporary names first and renamed only when every file succeeded.
func WriteCSV(dir string, table *rules.Table, enc *features.Encoded) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	files := []struct {
		name  string
		write func(w *csv.Writer) error
	}{
		{RulesFile, func(w *csv.Writer) error { return writeRules(w, table) }},
		{GenresFile, func(w *csv.Writer) error { return writeTable(w, enc.Genres) }},
		{ThemesFile, func(w *csv.Writer) error { return writeTable(w, enc.Themes) }},
		{ReviewsFile, func(w *csv.Writer) error { return writeTable(w, enc.Reviews) }},
	}

	var temps []string
	cleanup := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}

	for _, f := range files {
		tmp, err := writeTemp(dir, f.name, f.write)
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		temps = append(temps, tmp)
	}

	for i, f := range files {
		if err := os.Rename(temps[i], filepath.Join(dir, f.name)); err != nil {
			cleanup()
			return fmt.Errorf("failed to replace %s: %w", f.name, err)
		}
	}
	return nil
}

func writeTemp(dir, name string, write func(w *csv.Writer) error) (string, error) {
	file, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", err
	}

	w := csv.NewWriter(file)
	if err := write(w); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

func writeRules(w *csv.Writer, table *rules.Table) error {
	if err := w.Write(ruleHeader); err != nil {
		return err
	}
	for _, r := range table.Rules {
		row := []string{
			tags.FormatItems(r.Antecedents),
			tags.FormatItems(r.Consequents),
			r.AntecedentsLabel,
			r.ConsequentsLabel,
			formatFloat(r.Support),
			formatFloat(r.Confidence),
			formatFloat(r.Lift),
			strconv.Itoa(r.Count),
			strconv.Itoa(r.Occurrences),
			strconv.Itoa(table.Transactions),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w *csv.Writer, t *features.Table) error {
	header := make([]string, 0, len(t.Columns)+2)
	header = append(header, "appID", "name")
	for _, c := range t.Columns {
		header = append(header, c.Column())
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, id := range t.IDs {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatInt(id, 10), t.Names[i])
		for _, set := range t.Rows[i] {
			row = append(row, strconv.FormatBool(set))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadRules restores a rule table from a rules.csv file or a snapshot directory.
func ReadRules(path string) (*rules.Table, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, RulesFile)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule table: %w", err)
	}
	defer file.Close()

	table, err := DecodeRules(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// DecodeRules reads a rule table in the rules.csv format.
func DecodeRules(r io.Reader) (*rules.Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty rule table")
		}
		return nil, err
	}
	col, err := columnIndex(header, ruleHeader)
	if err != nil {
		return nil, err
	}

	table := &rules.Table{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		rule, transactions, err := parseRule(record, col)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		table.Rules = append(table.Rules, rule)
		table.Transactions = transactions
	}
	return table, nil
}

func parseRule(record []string, col map[string]int) (rules.Rule, int, error) {
	antecedents, err := tags.ParseItems(record[col["antecedents"]])
	if err != nil {
		return rules.Rule{}, 0, err
	}
	consequents, err := tags.ParseItems(record[col["consequents"]])
	if err != nil {
		return rules.Rule{}, 0, err
	}

	var p numberParser
	support := p.float(record[col["support"]])
	confidence := p.float(record[col["confidence"]])
	lift := p.float(record[col["lift"]])
	count := p.int(record[col["count"]])
	occurrences := p.int(record[col["occurrences"]])
	transactions := p.int(record[col["transactions"]])
	if p.err != nil {
		return rules.Rule{}, 0, p.err
	}

	return rules.Restore(antecedents, consequents, support, confidence, lift, count, occurrences), transactions, nil
}

// numberParser keeps the first parse error so a row can be parsed in sequence.
type numberParser struct {
	err error
}

func (p *numberParser) float(s string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = err
	}
	return v
}

func (p *numberParser) int(s string) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		p.err = err
	}
	return v
}

func columnIndex(header, required []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return col, nil
}

// ReadTable restores a one-hot table. Columns other than appID and name are
// review bins when they follow the bin naming convention and items of kind
// otherwise.
func ReadTable(path string, kind tags.Kind) (*features.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(header) < 2 || header[0] != "appID" || header[1] != "name" {
		return nil, fmt.Errorf("%s: expected appID and name columns", path)
	}

	columns := make([]tags.Item, 0, len(header)-2)
	for _, name := range header[2:] {
		if bin, ok := tags.ParseBinColumn(name); ok {
			columns = append(columns, tags.BinItem(bin))
			continue
		}
		columns = append(columns, tags.Item{Kind: kind, Label: name})
	}

	table := features.NewTable(columns)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid appID %q", path, record[0])
		}
		row := make([]bool, len(columns))
		for i, v := range record[2:] {
			if row[i], err = strconv.ParseBool(v); err != nil {
				return nil, fmt.Errorf("%s: game %d: %w", path, id, err)
			}
		}
		if err := table.Append(id, record[1], row); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return table, nil
}
