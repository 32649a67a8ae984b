package storage

import (
	"context"
	"database/sql"
	"math"

	"airbnb-etl/models"
)

// listingColumns is the persisted column order shared by the SQL stores.
var listingColumns = []string{
	"id", "name", "host_id", "host_name", "neighbourhood_group", "neighbourhood",
	"latitude", "longitude", "room_type", "price", "minimum_nights", "number_of_reviews",
	"last_review", "reviews_per_month", "calculated_host_listings_count", "availability_365",
	"price_category", "length_of_stay_category",
}

func listingArgs(l models.Listing) []any {
	return []any{
		l.ID, l.Name, l.HostID, l.HostName, l.NeighbourhoodGroup, l.Neighbourhood,
		nullableFloat(l.Latitude), nullableFloat(l.Longitude), l.RoomType, l.Price,
		l.MinimumNights, l.NumberOfReviews, l.LastReview, l.ReviewsPerMonth,
		l.HostListingsCount, l.Availability365, string(l.PriceCategory), string(l.StayCategory),
	}
}

// scanListing reads one row selected in listingColumns order.
func scanListing(rows *sql.Rows) (models.Listing, error) {
	var l models.Listing
	var lat, lon sql.NullFloat64
	var priceCat, stayCat string
	err := rows.Scan(
		&l.ID, &l.Name, &l.HostID, &l.HostName, &l.NeighbourhoodGroup, &l.Neighbourhood,
		&lat, &lon, &l.RoomType, &l.Price, &l.MinimumNights, &l.NumberOfReviews,
		&l.LastReview, &l.ReviewsPerMonth, &l.HostListingsCount, &l.Availability365,
		&priceCat, &stayCat,
	)
	if err != nil {
		return l, err
	}
	l.Latitude, l.Longitude = floatOrNaN(lat), floatOrNaN(lon)
	l.PriceCategory = models.PriceCategory(priceCat)
	l.StayCategory = models.StayCategory(stayCat)
	return l, nil
}

func nullableFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: !math.IsNaN(f)}
}

func floatOrNaN(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}

// LoadStored reads every listing from src into a table with the persisted
// column set.
func LoadStored(ctx context.Context, src ListingSource) (models.Table, error) {
	listings, err := src.FetchAll(ctx)
	if err != nil {
		return models.Table{}, err
	}
	return models.NewTable(listingColumns, listings), nil
}
