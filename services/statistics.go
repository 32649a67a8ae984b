package services

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"airbnb-etl/models"
)

const stageStatistics = "statistics"

// StatisticsColumns are the columns summarised by the analysis stage.
var StatisticsColumns = []string{
	models.ColPrice, models.ColMinimumNights, models.ColNumberOfReviews,
	models.ColReviewsPerMonth, models.ColAvailability365,
}

// Describe computes mean, median and sample standard deviation of a
// numeric column, skipping missing values. With fewer than two values the
// standard deviation is NaN; a column with no values reports a zero count
// and NaN for everything else.
func Describe(t models.Table, column string) (models.ColumnStats, error) {
	if err := t.Require(stageStatistics, column); err != nil {
		return models.ColumnStats{}, err
	}
	if err := requireNumeric(stageStatistics, column); err != nil {
		return models.ColumnStats{}, err
	}

	values := numericColumn(t, column, true)
	s := models.ColumnStats{
		Column: column,
		Count:  len(values),
		Mean:   math.NaN(),
		Median: math.NaN(),
		StdDev: math.NaN(),
	}
	if len(values) == 0 {
		return s, nil
	}
	s.Mean = stat.Mean(values, nil)
	s.Median = series.Floats(values).Median()
	if len(values) >= 2 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s, nil
}

// DescribeAll runs Describe over several columns in order.
func DescribeAll(t models.Table, columns ...string) ([]models.ColumnStats, error) {
	out := make([]models.ColumnStats, 0, len(columns))
	for _, c := range columns {
		s, err := Describe(t, c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Info reports the shape of t and how many cells are missing per column.
func Info(t models.Table) models.DatasetInfo {
	cols := t.Columns()
	info := models.DatasetInfo{Rows: t.Len(), Columns: len(cols), Missing: make(map[string]int, len(cols))}
	for _, c := range cols {
		info.Missing[c] = 0
	}
	for _, l := range t.Rows() {
		for _, c := range cols {
			v, _ := l.Value(c)
			switch x := v.(type) {
			case nil:
				info.Missing[c]++
			case models.ReviewDate:
				if x.IsMissing() {
					info.Missing[c]++
				}
			case string:
				if x == "" && isDerived(c) {
					info.Missing[c]++
				}
			}
		}
	}
	return info
}

func isDerived(column string) bool {
	return column == models.ColPriceCategory || column == models.ColStayCategory || column == models.ColAvailabilityStatus
}

// numericColumn extracts a column as float64. With skipMissing, NaN
// entries are dropped.
func numericColumn(t models.Table, column string, skipMissing bool) []float64 {
	rows := t.Rows()
	out := make([]float64, 0, len(rows))
	for _, l := range rows {
		v, _ := l.Numeric(column)
		if skipMissing && math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func requireNumeric(stage string, columns ...string) error {
	var zero models.Listing
	for _, c := range columns {
		if _, ok := zero.Numeric(c); !ok {
			return fmt.Errorf("%s: column %q is not numeric", stage, c)
		}
	}
	return nil
}

// meanAcc accumulates a mean that skips NaN inputs.
type meanAcc struct {
	sum  float64
	n    int
	rows int
}

func (a *meanAcc) add(v float64) {
	a.rows++
	if math.IsNaN(v) {
		return
	}
	a.sum += v
	a.n++
}

func (a *meanAcc) mean() float64 {
	if a.n == 0 {
		return math.NaN()
	}
	return a.sum / float64(a.n)
}
