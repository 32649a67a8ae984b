package services

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat"

	"airbnb-etl/models"
)

const stageCorrelator = "correlator"

// CodeSuffix marks a categorical column that should be integer encoded
// before correlation, e.g. "neighbourhood_group_code".
const CodeSuffix = "_code"

// CorrelationColumns is the set correlated by the analysis stage.
var CorrelationColumns = []string{
	models.ColAvailabilityStatus + CodeSuffix,
	models.ColPrice,
	models.ColNumberOfReviews,
	models.ColNeighbourhoodGroup + CodeSuffix,
	models.ColMinimumNights,
}

// EncodeCategorical assigns each distinct value its position in sorted
// order, starting at 0. It returns the codes and the sorted categories.
func EncodeCategorical(values []string) ([]int, []string) {
	categories := slices.Clone(values)
	slices.Sort(categories)
	categories = slices.Compact(categories)

	lookup := make(map[string]int, len(categories))
	for i, c := range categories {
		lookup[c] = i
	}
	codes := make([]int, len(values))
	for i, v := range values {
		codes[i] = lookup[v]
	}
	return codes, categories
}

// CorrelationMatrix computes pairwise Pearson coefficients between the
// named columns. Names ending in CodeSuffix refer to categorical columns
// that are encoded first; all others must be numeric.
func CorrelationMatrix(t models.Table, columns ...string) (*models.CorrelationMatrix, error) {
	data := make([][]float64, len(columns))
	for i, name := range columns {
		col, err := correlationInput(t, name)
		if err != nil {
			return nil, err
		}
		data[i] = col
	}
	return Correlate(columns, data), nil
}

func correlationInput(t models.Table, name string) ([]float64, error) {
	if base, ok := strings.CutSuffix(name, CodeSuffix); ok && !t.HasColumn(name) {
		if err := t.Require(stageCorrelator, base); err != nil {
			return nil, err
		}
		values := make([]string, 0, t.Len())
		for _, l := range t.Rows() {
			s, ok := l.Text(base)
			if !ok {
				return nil, fmt.Errorf("%s: column %q is not categorical", stageCorrelator, base)
			}
			values = append(values, s)
		}
		codes, _ := EncodeCategorical(values)
		out := make([]float64, len(codes))
		for i, c := range codes {
			out[i] = float64(c)
		}
		return out, nil
	}

	if err := t.Require(stageCorrelator, name); err != nil {
		return nil, err
	}
	if err := requireNumeric(stageCorrelator, name); err != nil {
		return nil, err
	}
	return numericColumn(t, name, false), nil
}

// Correlate builds the symmetric Pearson matrix of equally long columns.
// Each pair uses only rows where both values are present. A column with
// zero variance correlates as NaN, including with itself.
func Correlate(names []string, data [][]float64) *models.CorrelationMatrix {
	n := len(names)
	m := &models.CorrelationMatrix{Columns: slices.Clone(names), Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pearson(data[i], data[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if constant(xs) || constant(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r))
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
