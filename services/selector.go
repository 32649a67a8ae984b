package services

import (
	"cmp"
	"slices"

	"airbnb-etl/models"
)

const stageSelector = "selector"

// AnalysisColumns is the projection used for per-group analysis.
var AnalysisColumns = []string{
	models.ColNeighbourhoodGroup, models.ColPrice, models.ColMinimumNights,
	models.ColNumberOfReviews, models.ColPriceCategory, models.ColAvailability365,
}

// FilterByGroup keeps the listings whose neighbourhood_group equals group.
func FilterByGroup(t models.Table, group string) models.Table {
	return t.Filter(func(l models.Listing) bool { return l.NeighbourhoodGroup == group })
}

// FilterByPriceAndReviews keeps listings priced above 100 with more than
// 10 reviews.
func FilterByPriceAndReviews(t models.Table) models.Table {
	return t.Filter(func(l models.Listing) bool {
		return l.Price > 100 && l.NumberOfReviews > 10
	})
}

// Select projects t onto the named columns, in the given order.
func Select(t models.Table, columns ...string) (*models.Frame, error) {
	if err := t.Require(stageSelector, columns...); err != nil {
		return nil, err
	}
	f := models.NewFrame(columns...)
	for _, l := range t.Rows() {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i], _ = l.Value(c)
		}
		f.Append(row...)
	}
	return f, nil
}

// SelectAt projects t onto columns addressed by position.
func SelectAt(t models.Table, positions ...int) (*models.Frame, error) {
	names := make([]string, len(positions))
	for i, p := range positions {
		name, err := t.ColumnAt(p)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return Select(t, names...)
}

// SortByPriceAndReviews orders listings by price descending, then by
// number_of_reviews ascending. Equal rows keep their relative order.
func SortByPriceAndReviews(t models.Table) models.Table {
	rows := t.Rows()
	positions := make([]int, len(rows))
	for i := range positions {
		positions[i] = i
	}
	slices.SortStableFunc(positions, func(a, b int) int {
		if c := cmp.Compare(rows[b].Price, rows[a].Price); c != 0 {
			return c
		}
		return cmp.Compare(rows[a].NumberOfReviews, rows[b].NumberOfReviews)
	})
	return t.Reorder(positions)
}

// GroupMeans averages the numeric columns over each
// (neighbourhood_group, price_category) pair. Results are ordered by group,
// then category.
func GroupMeans(t models.Table, columns ...string) ([]models.GroupMean, error) {
	if err := t.Require(stageSelector, models.ColNeighbourhoodGroup, models.ColPriceCategory); err != nil {
		return nil, err
	}
	if err := t.Require(stageSelector, columns...); err != nil {
		return nil, err
	}
	if err := requireNumeric(stageSelector, columns...); err != nil {
		return nil, err
	}

	type key struct {
		group    string
		category models.PriceCategory
	}
	sums := make(map[key]map[string]*meanAcc)
	for _, l := range t.Rows() {
		k := key{l.NeighbourhoodGroup, l.PriceCategory}
		acc, ok := sums[k]
		if !ok {
			acc = make(map[string]*meanAcc, len(columns))
			for _, c := range columns {
				acc[c] = &meanAcc{}
			}
			sums[k] = acc
		}
		for _, c := range columns {
			v, _ := l.Numeric(c)
			acc[c].add(v)
		}
	}

	out := make([]models.GroupMean, 0, len(sums))
	for k, acc := range sums {
		gm := models.GroupMean{Group: k.group, Category: k.category, Means: make(map[string]float64, len(columns))}
		for _, c := range columns {
			gm.Means[c] = acc[c].mean()
			gm.Count = max(gm.Count, acc[c].rows)
		}
		out = append(out, gm)
	}
	slices.SortFunc(out, func(a, b models.GroupMean) int {
		if c := cmp.Compare(a.Group, b.Group); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out, nil
}
