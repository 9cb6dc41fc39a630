package threat

import (
	"math"
	"sort"
)

// LabelEncoder maps string categories to integer codes. Classes are sorted at
// fit time so codes are stable across runs. Fields are exported for gob.
type LabelEncoder struct {
	Classes []string
}

// Fit learns the sorted set of distinct classes from values.
func (e *LabelEncoder) Fit(values []string) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	e.Classes = make([]string, 0, len(seen))
	for v := range seen {
		e.Classes = append(e.Classes, v)
	}
	sort.Strings(e.Classes)
}

// Transform returns the code for v. The second return is false when v was not
// seen at fit time; callers substitute a safe default rather than failing.
func (e *LabelEncoder) Transform(v string) (int, bool) {
	i := sort.SearchStrings(e.Classes, v)
	if i < len(e.Classes) && e.Classes[i] == v {
		return i, true
	}
	return 0, false
}

// StandardScaler normalises numeric columns to zero mean and unit variance.
// Fields are exported for gob.
type StandardScaler struct {
	Means []float64
	Stds  []float64
}

// Fit computes per-column mean and standard deviation over rows. All rows must
// have the same width.
func (s *StandardScaler) Fit(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	width := len(rows[0])
	s.Means = make([]float64, width)
	s.Stds = make([]float64, width)

	n := float64(len(rows))
	for _, row := range rows {
		for j, v := range row {
			s.Means[j] += v
		}
	}
	for j := range s.Means {
		s.Means[j] /= n
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - s.Means[j]
			s.Stds[j] += d * d
		}
	}
	for j := range s.Stds {
		s.Stds[j] = math.Sqrt(s.Stds[j] / n)
		if s.Stds[j] == 0 {
			s.Stds[j] = 1
		}
	}
}

// Transform scales a row in place.
func (s *StandardScaler) Transform(row []float64) {
	for j := range row {
		if j < len(s.Means) {
			row[j] = (row[j] - s.Means[j]) / s.Stds[j]
		}
	}
}
