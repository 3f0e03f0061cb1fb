package feature

import (
	"math"
	"sort"
)

// unknownCategory is the explicit bucket for missing categorical values.
const unknownCategory = "unknown"

// OneHotEncoder one-hot encodes a fixed set of categorical columns.
// Missing values map to the "unknown" bucket; categories not seen during
// fitting encode to all-zero rather than erroring.
type OneHotEncoder struct {
	columns [][]string       // per input column, sorted category list
	index   []map[string]int // per input column, category -> offset
	width   int
}

// Fit learns the category set of each column. rows is column-major:
// rows[i] holds the i-th record's value for every column.
func (e *OneHotEncoder) Fit(rows [][]string) {
	if len(rows) == 0 {
		e.columns = nil
		e.index = nil
		e.width = 0
		return
	}

	ncols := len(rows[0])
	sets := make([]map[string]struct{}, ncols)
	for i := range sets {
		sets[i] = make(map[string]struct{})
	}
	for _, row := range rows {
		for c := 0; c < ncols && c < len(row); c++ {
			sets[c][fillUnknown(row[c])] = struct{}{}
		}
	}

	e.columns = make([][]string, ncols)
	e.index = make([]map[string]int, ncols)
	e.width = 0
	for c := range sets {
		cats := make([]string, 0, len(sets[c]))
		for v := range sets[c] {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.columns[c] = cats
		e.index[c] = make(map[string]int, len(cats))
		for i, v := range cats {
			e.index[c][v] = i
		}
		e.width += len(cats)
	}
}

// Fitted reports whether Fit has been called on a non-empty input.
func (e *OneHotEncoder) Fitted() bool { return e.columns != nil }

// Width returns the total one-hot output width.
func (e *OneHotEncoder) Width() int { return e.width }

// Transform encodes each record into a concatenated one-hot vector.
func (e *OneHotEncoder) Transform(rows [][]string) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		vec := make([]float64, e.width)
		offset := 0
		for c := range e.columns {
			if c < len(row) {
				if pos, ok := e.index[c][fillUnknown(row[c])]; ok {
					vec[offset+pos] = 1
				}
			}
			offset += len(e.columns[c])
		}
		out[i] = vec
	}
	return out
}

func fillUnknown(v string) string {
	if v == "" {
		return unknownCategory
	}
	return v
}

// StandardScaler standardizes numeric columns to zero mean and unit
// variance using statistics learned at fit time. Columns with zero variance
// transform to zero instead of dividing by zero.
type StandardScaler struct {
	mean []float64
	std  []float64
}

// Fit computes per-column mean and standard deviation.
func (s *StandardScaler) Fit(rows [][]float64) {
	if len(rows) == 0 {
		s.mean = nil
		s.std = nil
		return
	}

	ncols := len(rows[0])
	s.mean = make([]float64, ncols)
	s.std = make([]float64, ncols)

	for _, row := range rows {
		for c := 0; c < ncols && c < len(row); c++ {
			s.mean[c] += row[c]
		}
	}
	n := float64(len(rows))
	for c := range s.mean {
		s.mean[c] /= n
	}
	for _, row := range rows {
		for c := 0; c < ncols && c < len(row); c++ {
			d := row[c] - s.mean[c]
			s.std[c] += d * d
		}
	}
	for c := range s.std {
		s.std[c] = math.Sqrt(s.std[c] / n)
		if s.std[c] == 0 {
			s.std[c] = 1
		}
	}
}

// Fitted reports whether Fit has been called on a non-empty input.
func (s *StandardScaler) Fitted() bool { return s.mean != nil }

// Transform standardizes each row with the fitted statistics.
func (s *StandardScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		vec := make([]float64, len(s.mean))
		for c := 0; c < len(s.mean) && c < len(row); c++ {
			vec[c] = (row[c] - s.mean[c]) / s.std[c]
		}
		out[i] = vec
	}
	return out
}
