package output

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVRuleWriter writes rule reports as CSV.
type CSVRuleWriter struct{}

// Write outputs the rule report as CSV.
func (w *CSVRuleWriter) Write(report *RuleReport, options OutputOptions) error {
	items := limitTop(report.Rules, options.Top)

	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	// Write header
	headers := []string{"Antecedents", "Consequents", "Support", "Confidence", "Lift",
		"Count", "Occurrences", "ReviewScoreLow", "ReviewScoreHigh"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	// Write data
	for _, r := range items {
		low, high := "", ""
		if r.ReviewBin != nil {
			low = fmt.Sprintf("%d", r.ReviewBin.Low)
			high = fmt.Sprintf("%d", r.ReviewBin.High)
		}
		row := []string{
			r.AntecedentsLabel,
			r.ConsequentsLabel,
			fmt.Sprintf("%.6f", r.Support),
			fmt.Sprintf("%.6f", r.Confidence),
			fmt.Sprintf("%.6f", r.Lift),
			fmt.Sprintf("%d", r.Count),
			fmt.Sprintf("%d", r.Occurrences),
			low,
			high,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVPairWriter writes pair reports as CSV.
type CSVPairWriter struct{}

// Write outputs the pair report as CSV.
func (w *CSVPairWriter) Write(report *PairReport, options OutputOptions) error {
	items := limitTop(report.Result.Pairs, options.Top)

	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writer.Write([]string{"Genre", "Theme", "ReviewAverage", "Occurrences"}); err != nil {
		return err
	}
	for _, p := range items {
		row := []string{
			string(p.Genre),
			string(p.Theme),
			fmt.Sprintf("%.2f", p.Average),
			fmt.Sprintf("%d", p.Occurrences),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
