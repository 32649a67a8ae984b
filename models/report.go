package models

import (
	"math"
	"slices"
	"time"
)

// DatasetInfo holds the shape and per-column missing counts of a table.
type DatasetInfo struct {
	Rows    int
	Columns int
	Missing map[string]int
}

// GroupRank is one row of the ranked neighbourhood-group summary.
type GroupRank struct {
	Group        string
	TotalItems   int
	MeanPrice    float64
	RankListings int
	RankPrice    int
	CombinedRank int
}

// GroupRankFrame renders ranked groups in the output artifact layout.
func GroupRankFrame(ranks []GroupRank) *Frame {
	f := NewFrame(ColNeighbourhoodGroup, "total_items", "mean_price", "rank_listings", "rank_price", "combined_rank")
	for _, r := range ranks {
		f.Append(r.Group, r.TotalItems, r.MeanPrice, r.RankListings, r.RankPrice, r.CombinedRank)
	}
	return f
}

// GroupMean is the mean of a set of numeric columns over one
// (neighbourhood_group, price_category) pair.
type GroupMean struct {
	Group    string
	Category PriceCategory
	Count    int
	Means    map[string]float64
}

// PivotTable cross-tabulates mean price by group (rows) and room type
// (columns). Absent pairs have no cell.
type PivotTable struct {
	Groups    []string
	RoomTypes []string
	cells     map[[2]string]float64
}

// NewPivotTable returns an empty pivot over the given axes.
func NewPivotTable(groups, roomTypes []string) *PivotTable {
	return &PivotTable{
		Groups:    slices.Clone(groups),
		RoomTypes: slices.Clone(roomTypes),
		cells:     make(map[[2]string]float64),
	}
}

// Set stores the cell for a (group, room type) pair.
func (p *PivotTable) Set(group, roomType string, v float64) {
	p.cells[[2]string{group, roomType}] = v
}

// Cell returns the mean price for a pair and whether any rows matched.
func (p *PivotTable) Cell(group, roomType string) (float64, bool) {
	v, ok := p.cells[[2]string{group, roomType}]
	return v, ok
}

// Frame renders the pivot with one row per group; absent cells are NaN.
func (p *PivotTable) Frame() *Frame {
	f := NewFrame(append([]string{ColNeighbourhoodGroup}, p.RoomTypes...)...)
	for _, g := range p.Groups {
		row := make([]any, 0, len(p.RoomTypes)+1)
		row = append(row, g)
		for _, r := range p.RoomTypes {
			v, ok := p.Cell(g, r)
			if !ok {
				v = math.NaN()
			}
			row = append(row, v)
		}
		f.Append(row...)
	}
	return f
}

// CorrelationMatrix is a symmetric matrix of Pearson coefficients.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the coefficient between two named columns.
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := slices.Index(m.Columns, a), slices.Index(m.Columns, b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

// Frame renders the matrix with a leading column of row names.
func (m *CorrelationMatrix) Frame() *Frame {
	f := NewFrame(append([]string{"column"}, m.Columns...)...)
	for i, name := range m.Columns {
		row := make([]any, 0, len(m.Columns)+1)
		row = append(row, name)
		for _, v := range m.Values[i] {
			row = append(row, v)
		}
		f.Append(row...)
	}
	return f
}

// ColumnStats holds descriptive statistics of one numeric column.
// Undefined values are NaN.
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Median float64
	StdDev float64
}

// StatsFrame renders column statistics one column per row.
func StatsFrame(stats []ColumnStats) *Frame {
	f := NewFrame("column", "count", "mean", "median", "std")
	for _, s := range stats {
		f.Append(s.Column, s.Count, s.Mean, s.Median, s.StdDev)
	}
	return f
}

// MonthlyTrend aggregates one calendar month: mean price, total reviews
// and mean minimum nights.
type MonthlyTrend struct {
	MonthEnd          time.Time
	Listings          int
	MeanPrice         float64
	TotalReviews      int
	MeanMinimumNights float64
}

// MonthlyTrendFrame renders trends one month per row.
func MonthlyTrendFrame(trends []MonthlyTrend) *Frame {
	f := NewFrame("month", "listings", ColPrice, ColNumberOfReviews, ColMinimumNights)
	for _, t := range trends {
		f.Append(t.MonthEnd, t.Listings, t.MeanPrice, t.TotalReviews, t.MeanMinimumNights)
	}
	return f
}

// MonthlyAverage holds the per-month means of the five tracked metrics.
type MonthlyAverage struct {
	MonthEnd            time.Time
	Listings            int
	MeanPrice           float64
	MeanReviews         float64
	MeanMinimumNights   float64
	MeanReviewsPerMonth float64
	MeanAvailability    float64
}

// MonthlyAverageFrame renders averages one month per row.
func MonthlyAverageFrame(avgs []MonthlyAverage) *Frame {
	f := NewFrame("month", ColPrice, ColNumberOfReviews, ColMinimumNights, ColReviewsPerMonth, ColAvailability365)
	for _, a := range avgs {
		f.Append(a.MonthEnd, a.MeanPrice, a.MeanReviews, a.MeanMinimumNights, a.MeanReviewsPerMonth, a.MeanAvailability)
	}
	return f
}

// TableFrame renders a listings table with its own column order.
func TableFrame(t Table) *Frame {
	cols := t.Columns()
	f := NewFrame(cols...)
	for _, r := range t.Rows() {
		f.Append(rowValues(cols, r)...)
	}
	return f
}

// RowFrame renders a single listing over the given columns.
func RowFrame(columns []string, l Listing) *Frame {
	f := NewFrame(columns...)
	f.Append(rowValues(columns, l)...)
	return f
}

func rowValues(columns []string, l Listing) []any {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i], _ = l.Value(c)
	}
	return row
}

// GroupMeanFrame renders group means with the given numeric columns.
func GroupMeanFrame(means []GroupMean, columns []string) *Frame {
	f := NewFrame(append([]string{ColNeighbourhoodGroup, ColPriceCategory, "count"}, columns...)...)
	for _, m := range means {
		row := make([]any, 0, len(columns)+3)
		row = append(row, m.Group, string(m.Category), m.Count)
		for _, c := range columns {
			row = append(row, m.Means[c])
		}
		f.Append(row...)
	}
	return f
}
