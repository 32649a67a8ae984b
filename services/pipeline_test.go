package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-etl/models"
)

func TestPipelinePrepare(t *testing.T) {
	prepared := preparedListings()
	assert.Equal(t, 3, prepared.Len())
	assert.True(t, prepared.HasColumn(models.ColPriceCategory))
	assert.True(t, prepared.HasColumn(models.ColStayCategory))
	assert.False(t, prepared.HasColumn(models.ColAvailabilityStatus))
}

func TestPipelinePrepareWrapsSchemaError(t *testing.T) {
	p := NewPipeline(newTestLogger())
	_, err := p.Prepare(models.NewTable([]string{models.ColID}, nil))
	var schemaErr *models.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "cleaner", schemaErr.Stage)
}

func TestPipelineAggregate(t *testing.T) {
	p := NewPipeline(newTestLogger())
	res, err := p.Aggregate(preparedListings(), "Manhattan")
	require.NoError(t, err)

	assert.Equal(t, 2, res.ByGroup.Len())
	assert.Equal(t, 2, res.PriceAndReviews.Len())
	assert.Equal(t, 2, res.Projection.Len())
	assert.Len(t, res.GroupMeans, 2)

	first, err := res.Sorted.ILoc(0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), first.ID)

	require.Len(t, res.Ranks, 2)
	// both groups hold one listing; Manhattan wins on price
	assert.Equal(t, "Manhattan", res.Ranks[0].Group)
	assert.Equal(t, 1, res.Ranks[0].CombinedRank)
	assert.Equal(t, 2, res.Ranks[1].CombinedRank)
	assert.Equal(t, 1, res.Ranks[1].RankListings)
}

func TestPipelineAggregateEmpty(t *testing.T) {
	p := NewPipeline(newTestLogger())
	_, err := p.Aggregate(models.NewTable(models.RequiredColumns, nil), "Brooklyn")
	assert.ErrorIs(t, err, models.ErrEmptyTable)
}

func TestPipelineAnalyze(t *testing.T) {
	p := NewPipeline(newTestLogger())
	prepared := preparedListings()
	res, err := p.Analyze(prepared)
	require.NoError(t, err)

	assert.True(t, res.Enriched.HasColumn(models.ColAvailabilityStatus))
	assert.False(t, prepared.HasColumn(models.ColAvailabilityStatus), "input must not change")
	assert.Equal(t, prepared.Len()*2, res.Melted.Len())
	assert.Len(t, res.Correlation.Columns, len(CorrelationColumns))
	assert.Len(t, res.Statistics, len(StatisticsColumns))

	// reviews in May and July 2019, never-reviewed listing excluded
	require.Len(t, res.Averages, 3)
	assert.Equal(t, "2019-05-31", res.Averages[0].MonthEnd.Format(models.ReviewDateLayout))
	assert.Len(t, res.Trends, 3)
}

func TestPipelineAnalyzeWithoutReviewsPerMonth(t *testing.T) {
	p := NewPipeline(newTestLogger())
	raw := models.NewTable(models.RequiredColumns, []models.Listing{
		{ID: 1, Name: text("A"), HostName: text("Ann"), NeighbourhoodGroup: "Queens", RoomType: "Private room",
			Price: 60, MinimumNights: 1, Availability365: 10},
		{ID: 2, Name: text("B"), HostName: text("Bo"), NeighbourhoodGroup: "Bronx", RoomType: "Entire home/apt",
			Price: 120, MinimumNights: 3, Availability365: 300},
	})
	prepared, err := p.Prepare(raw)
	require.NoError(t, err)

	res, err := p.Analyze(prepared)
	require.NoError(t, err, "an all-missing column is undefined, not fatal")
	require.NotNil(t, res.Pivot)
	assert.Equal(t, 4, res.Melted.Len())

	var perMonth models.ColumnStats
	for _, s := range res.Statistics {
		if s.Column == models.ColReviewsPerMonth {
			perMonth = s
		}
	}
	assert.Equal(t, 0, perMonth.Count)
	assert.True(t, math.IsNaN(perMonth.Mean))
	assert.Empty(t, res.Averages)
}
