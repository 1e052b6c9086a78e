package tags

import (
	"math"
	"regexp"
	"strconv"
)

const (
	// BinCount is the number of review bins spanning [0,100].
	BinCount = 20
	// BinWidth is the width of one review bin in score points.
	BinWidth = 5

	binColumnPrefix = "review_bin_"
	binLabelPrefix  = "Review Score: "
)

var (
	binNamePattern   = regexp.MustCompile(`^(\d+)-(\d+)$`)
	binColumnPattern = regexp.MustCompile(`^review_bin_(\d+)-(\d+)$`)
	binLabelPattern  = regexp.MustCompile(`^Review Score: (\d+)-(\d+)$`)
)

// ReviewBin is a half-open score interval (Low, High]; the lowest bin also holds 0.
type ReviewBin struct {
	Low  int
	High int
}

// Name returns the bin name, e.g. "80-85".
func (b ReviewBin) Name() string {
	return strconv.Itoa(b.Low) + "-" + strconv.Itoa(b.High)
}

// Column returns the one-hot column name, e.g. "review_bin_80-85".
func (b ReviewBin) Column() string {
	return binColumnPrefix + b.Name()
}

// Label returns the display label, e.g. "Review Score: 80-85".
func (b ReviewBin) Label() string {
	return binLabelPrefix + b.Name()
}

// Bins returns the fixed bins in ascending order.
func Bins() []ReviewBin {
	bins := make([]ReviewBin, BinCount)
	for i := range bins {
		bins[i] = ReviewBin{Low: i * BinWidth, High: (i + 1) * BinWidth}
	}
	return bins
}

// BinFor assigns a score to its bin. Bins are right-closed with the lowest bin
// inclusive of 0; scores outside [0,100] fall into the end bins.
func BinFor(score float64) ReviewBin {
	idx := 0
	if score > 0 && !math.IsNaN(score) {
		idx = int(math.Ceil(score/BinWidth)) - 1
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= BinCount {
		idx = BinCount - 1
	}
	return ReviewBin{Low: idx * BinWidth, High: (idx + 1) * BinWidth}
}

// ParseBinName parses a bin name such as "80-85".
func ParseBinName(s string) (ReviewBin, bool) {
	return parseBin(binNamePattern, s)
}

// ParseBinColumn parses a one-hot column name such as "review_bin_80-85".
func ParseBinColumn(s string) (ReviewBin, bool) {
	return parseBin(binColumnPattern, s)
}

// ParseBinLabel parses a display label such as "Review Score: 80-85".
func ParseBinLabel(s string) (ReviewBin, bool) {
	return parseBin(binLabelPattern, s)
}

// ReformatColumn turns a bin column name into its display label. Any other
// string is returned unchanged.
func ReformatColumn(s string) string {
	if bin, ok := ParseBinColumn(s); ok {
		return bin.Label()
	}
	return s
}

func parseBin(re *regexp.Regexp, s string) (ReviewBin, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ReviewBin{}, false
	}
	low, err := strconv.Atoi(m[1])
	if err != nil {
		return ReviewBin{}, false
	}
	high, err := strconv.Atoi(m[2])
	if err != nil || high <= low {
		return ReviewBin{}, false
	}
	return ReviewBin{Low: low, High: high}, true
}
