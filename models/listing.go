package models

import (
	"database/sql"
	"math"
)

// Column names of the listings schema, in file order.
const (
	ColID                 = "id"
	ColName               = "name"
	ColHostID             = "host_id"
	ColHostName           = "host_name"
	ColNeighbourhoodGroup = "neighbourhood_group"
	ColNeighbourhood      = "neighbourhood"
	ColLatitude           = "latitude"
	ColLongitude          = "longitude"
	ColRoomType           = "room_type"
	ColPrice              = "price"
	ColMinimumNights      = "minimum_nights"
	ColNumberOfReviews    = "number_of_reviews"
	ColLastReview         = "last_review"
	ColReviewsPerMonth    = "reviews_per_month"
	ColHostListingsCount  = "calculated_host_listings_count"
	ColAvailability365    = "availability_365"
	ColPriceCategory      = "price_category"
	ColStayCategory       = "length_of_stay_category"
	ColAvailabilityStatus = "availability_status"
	UnknownText           = "Unknown"
)

// RequiredColumns must be present in every raw listings table.
var RequiredColumns = []string{
	ColID, ColName, ColHostID, ColHostName, ColNeighbourhoodGroup, ColNeighbourhood,
	ColRoomType, ColPrice, ColMinimumNights, ColNumberOfReviews, ColLastReview,
	ColReviewsPerMonth, ColAvailability365,
}

// KnownColumns lists every column a Listing can carry, in canonical order.
var KnownColumns = []string{
	ColID, ColName, ColHostID, ColHostName, ColNeighbourhoodGroup, ColNeighbourhood,
	ColLatitude, ColLongitude, ColRoomType, ColPrice, ColMinimumNights, ColNumberOfReviews,
	ColLastReview, ColReviewsPerMonth, ColHostListingsCount, ColAvailability365,
	ColPriceCategory, ColStayCategory, ColAvailabilityStatus,
}

// PriceCategory buckets a nightly price.
type PriceCategory string

const (
	PriceLow    PriceCategory = "Low"
	PriceMedium PriceCategory = "Medium"
	PriceHigh   PriceCategory = "High"
)

// StayCategory buckets the minimum number of nights.
type StayCategory string

const (
	StayShort  StayCategory = "Short-term"
	StayMedium StayCategory = "Medium-term"
	StayLong   StayCategory = "Long-term"
)

// AvailabilityStatus buckets the yearly availability.
type AvailabilityStatus string

const (
	RarelyAvailable       AvailabilityStatus = "Rarely Available"
	OccasionallyAvailable AvailabilityStatus = "Occasionally Available"
	HighlyAvailable       AvailabilityStatus = "Highly Available"
)

// Listing is one short-term rental record.
// Nullable text fields use sql.NullString so that "missing" never
// collides with a real value.
type Listing struct {
	ID                 int64
	Name               sql.NullString
	HostID             int64
	HostName           sql.NullString
	NeighbourhoodGroup string
	Neighbourhood      string
	Latitude           float64
	Longitude          float64
	RoomType           string
	Price              float64
	MinimumNights      int
	NumberOfReviews    int
	LastReview         ReviewDate
	ReviewsPerMonth    sql.NullFloat64
	HostListingsCount  int
	Availability365    int

	PriceCategory      PriceCategory
	StayCategory       StayCategory
	AvailabilityStatus AvailabilityStatus
}

// Value returns the value held in the named column. Missing values are
// returned as nil; the second result is false for unknown columns.
func (l Listing) Value(column string) (any, bool) {
	switch column {
	case ColID:
		return l.ID, true
	case ColName:
		return nullText(l.Name), true
	case ColHostID:
		return l.HostID, true
	case ColHostName:
		return nullText(l.HostName), true
	case ColNeighbourhoodGroup:
		return l.NeighbourhoodGroup, true
	case ColNeighbourhood:
		return l.Neighbourhood, true
	case ColLatitude:
		return l.Latitude, true
	case ColLongitude:
		return l.Longitude, true
	case ColRoomType:
		return l.RoomType, true
	case ColPrice:
		return l.Price, true
	case ColMinimumNights:
		return l.MinimumNights, true
	case ColNumberOfReviews:
		return l.NumberOfReviews, true
	case ColLastReview:
		return l.LastReview, true
	case ColReviewsPerMonth:
		if !l.ReviewsPerMonth.Valid {
			return nil, true
		}
		return l.ReviewsPerMonth.Float64, true
	case ColHostListingsCount:
		return l.HostListingsCount, true
	case ColAvailability365:
		return l.Availability365, true
	case ColPriceCategory:
		return string(l.PriceCategory), true
	case ColStayCategory:
		return string(l.StayCategory), true
	case ColAvailabilityStatus:
		return string(l.AvailabilityStatus), true
	}
	return nil, false
}

// Numeric returns the column as float64, NaN when the value is missing.
// ok is false when the column is not numeric.
func (l Listing) Numeric(column string) (v float64, ok bool) {
	switch column {
	case ColID:
		return float64(l.ID), true
	case ColHostID:
		return float64(l.HostID), true
	case ColLatitude:
		return l.Latitude, true
	case ColLongitude:
		return l.Longitude, true
	case ColPrice:
		return l.Price, true
	case ColMinimumNights:
		return float64(l.MinimumNights), true
	case ColNumberOfReviews:
		return float64(l.NumberOfReviews), true
	case ColReviewsPerMonth:
		if !l.ReviewsPerMonth.Valid {
			return math.NaN(), true
		}
		return l.ReviewsPerMonth.Float64, true
	case ColHostListingsCount:
		return float64(l.HostListingsCount), true
	case ColAvailability365:
		return float64(l.Availability365), true
	}
	return 0, false
}

// Text returns a categorical column as a string.
func (l Listing) Text(column string) (string, bool) {
	v, ok := l.Value(column)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func nullText(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	return s.String
}
