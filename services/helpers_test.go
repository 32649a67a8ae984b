package services

import (
	"database/sql"
	"time"

	"airbnb-etl/models"
	"airbnb-etl/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func text(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func perMonth(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }

func day(y int, m time.Month, d int) models.ReviewDate {
	return models.DateOf(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// rawListings mirrors a small slice of the raw file: one listing with
// missing names, one never reviewed, one free listing.
func rawListings() models.Table {
	rows := []models.Listing{
		{ID: 1, Name: text("Cozy loft"), HostID: 10, HostName: text("Ann"), NeighbourhoodGroup: "Brooklyn", Neighbourhood: "Williamsburg",
			RoomType: "Entire home/apt", Price: 150, MinimumNights: 2, NumberOfReviews: 45, LastReview: day(2019, 5, 21),
			ReviewsPerMonth: perMonth(0.38), Availability365: 355},
		{ID: 2, HostID: 11, NeighbourhoodGroup: "Manhattan", Neighbourhood: "Harlem",
			RoomType: "Private room", Price: 80, MinimumNights: 30, NumberOfReviews: 0,
			Availability365: 0},
		{ID: 3, Name: text("Free couch"), HostID: 12, HostName: text("Bo"), NeighbourhoodGroup: "Brooklyn", Neighbourhood: "Bushwick",
			RoomType: "Shared room", Price: 0, MinimumNights: 1, NumberOfReviews: 3, LastReview: day(2019, 3, 2),
			ReviewsPerMonth: perMonth(0.1), Availability365: 20},
		{ID: 4, Name: text("Skyline suite"), HostID: 13, HostName: text("Cy"), NeighbourhoodGroup: "Manhattan", Neighbourhood: "Midtown",
			RoomType: "Entire home/apt", Price: 350, MinimumNights: 5, NumberOfReviews: 12, LastReview: day(2019, 7, 1),
			ReviewsPerMonth: perMonth(2.5), Availability365: 120},
	}
	return models.NewTable(models.RequiredColumns, rows)
}

// preparedListings is a cleaned and enriched table ready for aggregation.
func preparedListings() models.Table {
	p := NewPipeline(newTestLogger())
	t, err := p.Prepare(rawListings())
	if err != nil {
		panic(err)
	}
	return t
}
