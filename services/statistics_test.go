package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-etl/models"
)

func TestDescribe(t *testing.T) {
	s, err := Describe(preparedListings(), models.ColPrice)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 193.3333333, s.Mean, 1e-6)
	assert.Equal(t, 150.0, s.Median)
	// sample standard deviation of 150, 80, 350
	assert.InDelta(t, 140.1190, s.StdDev, 1e-4)
}

func TestDescribeSkipsMissing(t *testing.T) {
	s, err := Describe(preparedListings(), models.ColReviewsPerMonth)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 1.44, s.Mean, 1e-9)
	assert.InDelta(t, 1.44, s.Median, 1e-9)
}

func TestDescribeSingleValue(t *testing.T) {
	tbl := FilterByGroup(preparedListings(), "Brooklyn")
	s, err := Describe(tbl, models.ColPrice)
	require.NoError(t, err)
	assert.Equal(t, 150.0, s.Mean)
	assert.True(t, math.IsNaN(s.StdDev), "std of one value should be NaN, got %v", s.StdDev)
}

func TestDescribeNoValuesIsUndefined(t *testing.T) {
	tbl := FilterByGroup(preparedListings(), "Manhattan").
		Filter(func(l models.Listing) bool { return !l.ReviewsPerMonth.Valid })
	s, err := Describe(tbl, models.ColReviewsPerMonth)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Count)
	assert.True(t, math.IsNaN(s.Mean))
	assert.True(t, math.IsNaN(s.Median))
	assert.True(t, math.IsNaN(s.StdDev))
}

func TestDescribeAllOrder(t *testing.T) {
	stats, err := DescribeAll(preparedListings(), StatisticsColumns...)
	require.NoError(t, err)
	require.Len(t, stats, len(StatisticsColumns))
	for i, s := range stats {
		assert.Equal(t, StatisticsColumns[i], s.Column)
	}
}

func TestDescribeMedianEvenCount(t *testing.T) {
	rows := []models.Listing{{ID: 1, Price: 4}, {ID: 2, Price: 1}, {ID: 3, Price: 3}, {ID: 4, Price: 2}}
	s, err := Describe(models.NewTable(models.RequiredColumns, rows), models.ColPrice)
	require.NoError(t, err)
	assert.Equal(t, 2.5, s.Median)
	assert.Equal(t, 2.5, s.Mean)
}

func TestInfoCountsMissing(t *testing.T) {
	info := Info(rawListings())
	assert.Equal(t, 4, info.Rows)
	assert.Equal(t, len(models.RequiredColumns), info.Columns)
	assert.Equal(t, 1, info.Missing[models.ColName])
	assert.Equal(t, 1, info.Missing[models.ColHostName])
	assert.Equal(t, 1, info.Missing[models.ColLastReview])
	assert.Equal(t, 1, info.Missing[models.ColReviewsPerMonth])
	assert.Equal(t, 0, info.Missing[models.ColPrice])

	cleaned := Info(preparedListings())
	assert.Equal(t, 0, cleaned.Missing[models.ColName])
	assert.Equal(t, 0, cleaned.Missing[models.ColLastReview])
	assert.Equal(t, 0, cleaned.Missing[models.ColPriceCategory])
}
