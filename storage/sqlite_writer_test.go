package storage

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-etl/models"
)

func cleanedListings() []models.Listing {
	return []models.Listing{
		{ID: 2595, Name: sql.NullString{String: "Skylit Midtown Castle", Valid: true}, HostID: 2845,
			HostName: sql.NullString{String: "Jennifer", Valid: true}, NeighbourhoodGroup: "Manhattan", Neighbourhood: "Midtown",
			Latitude: 40.75362, Longitude: -73.98377, RoomType: "Entire home/apt", Price: 225, MinimumNights: 1,
			NumberOfReviews: 45, LastReview: models.ParseReviewDate("2019-05-21"),
			ReviewsPerMonth: sql.NullFloat64{Float64: 0.38, Valid: true}, HostListingsCount: 2, Availability365: 355,
			PriceCategory: models.PriceMedium, StayCategory: models.StayShort},
		{ID: 3647, Name: sql.NullString{String: "Harlem room", Valid: true}, HostID: 4632,
			HostName: sql.NullString{String: models.UnknownText, Valid: true}, NeighbourhoodGroup: "Manhattan", Neighbourhood: "Harlem",
			Latitude: math.NaN(), Longitude: math.NaN(), RoomType: "Private room", Price: 150, MinimumNights: 3,
			LastReview: models.NeverReviewed, Availability365: 365,
			PriceCategory: models.PriceMedium, StayCategory: models.StayShort},
	}
}

func openSQLite(t *testing.T) *SQLiteWriter {
	t.Helper()
	sw, err := NewSQLiteWriter(context.Background(), filepath.Join(t.TempDir(), "etl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sw.Close() })
	return sw
}

func TestSQLiteWriteAndFetch(t *testing.T) {
	ctx := context.Background()
	sw := openSQLite(t)

	var _ ListingWriter = sw
	require.NoError(t, sw.Write(ctx, cleanedListings()))

	got, err := sw.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(2595), got[0].ID)
	assert.Equal(t, "Skylit Midtown Castle", got[0].Name.String)
	assert.Equal(t, "2019-05-21", got[0].LastReview.String())
	assert.InDelta(t, 0.38, got[0].ReviewsPerMonth.Float64, 1e-12)
	assert.Equal(t, models.PriceMedium, got[0].PriceCategory)

	assert.Equal(t, models.NeverReviewed, got[1].LastReview)
	assert.False(t, got[1].ReviewsPerMonth.Valid)
	assert.True(t, math.IsNaN(got[1].Latitude))
}

func TestSQLiteWriteReplaces(t *testing.T) {
	ctx := context.Background()
	sw := openSQLite(t)

	require.NoError(t, sw.Write(ctx, cleanedListings()))
	require.NoError(t, sw.Write(ctx, cleanedListings()[:1]))

	got, err := sw.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteWriteFrame(t *testing.T) {
	sw := openSQLite(t)
	var _ FrameWriter = sw

	f := models.NewFrame("neighbourhood_group", "total_items", "mean_price")
	f.Append("Bronx", 3, 87.5)
	f.Append("Queens", 2, math.NaN())
	require.NoError(t, sw.WriteFrame("aggregated-data.csv", f))
	require.NoError(t, sw.WriteFrame("aggregated-data.csv", f))

	var n int
	require.NoError(t, sw.db.QueryRow(`SELECT COUNT(*) FROM "aggregated_data"`).Scan(&n))
	assert.Equal(t, 2, n)

	var mean sql.NullFloat64
	require.NoError(t, sw.db.QueryRow(`SELECT mean_price FROM aggregated_data WHERE neighbourhood_group = 'Queens'`).Scan(&mean))
	assert.False(t, mean.Valid)
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "time_series_data", tableName("time-series-data.csv"))
	assert.Equal(t, "pivot_price", tableName("pivot_price"))
}

func TestLoadStored(t *testing.T) {
	ctx := context.Background()
	sw := openSQLite(t)
	var _ ListingSource = sw
	require.NoError(t, sw.Write(ctx, cleanedListings()))

	tbl, err := LoadStored(ctx, sw)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.HasColumn(models.ColPriceCategory))
	assert.False(t, tbl.HasColumn(models.ColAvailabilityStatus))
	require.NoError(t, tbl.Require("loader", models.RequiredColumns...))

	l, err := tbl.Loc(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3647), l.ID)
}
